package models

import "time"

// OrderStatusHistory is the append-only audit trail of order-level status
// transitions. Rows are only ever inserted, in the same transaction as the
// status change itself. OldStatus is null for the row written at creation.
type OrderStatusHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	OldStatus *string   `json:"old_status"`
	NewStatus string    `gorm:"not null" json:"new_status"`
	ChangedBy uint      `gorm:"not null" json:"changed_by"`
	ChangedAt time.Time `gorm:"not null" json:"changed_at"`
}

// TableName specifies the table name for the OrderStatusHistory model
func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}

// ServiceStatusHistory is the append-only audit trail of order-service
// status transitions
type ServiceStatusHistory struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrderServiceID uint      `gorm:"not null;index" json:"order_service_id"`
	OldStatus      *string   `json:"old_status"`
	NewStatus      string    `gorm:"not null" json:"new_status"`
	ChangedBy      uint      `gorm:"not null" json:"changed_by"`
	ChangedAt      time.Time `gorm:"not null" json:"changed_at"`
}

// TableName specifies the table name for the ServiceStatusHistory model
func (ServiceStatusHistory) TableName() string {
	return "service_status_history"
}
