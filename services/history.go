package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/atelier-app/atelier-api/models"
)

// StatusHistory writes the append-only audit trail of status transitions.
// Each transition row is produced by a single INSERT ... SELECT that reads
// the current status and writes old/new atomically, so a racing status
// update cannot wedge itself between the read and the write.
type StatusHistory struct{}

// NewStatusHistory creates a new StatusHistory writer
func NewStatusHistory() *StatusHistory {
	return &StatusHistory{}
}

// RecordOrderCreation writes the initial history row for a new order.
// OldStatus is null; there was no prior status.
func (h *StatusHistory) RecordOrderCreation(tx *gorm.DB, orderID uint, status string, actorID uint) error {
	row := models.OrderStatusHistory{
		OrderID:   orderID,
		OldStatus: nil,
		NewStatus: status,
		ChangedBy: actorID,
		ChangedAt: time.Now(),
	}
	return tx.Create(&row).Error
}

// RecordOrderTransition appends a history row for an order moving to
// newStatus, capturing the current status as old_status in the same
// statement. Returns NotFoundError when the order does not exist.
func (h *StatusHistory) RecordOrderTransition(tx *gorm.DB, orderID uint, newStatus string, actorID uint) error {
	res := tx.Exec(`
		INSERT INTO order_status_history (order_id, old_status, new_status, changed_by, changed_at)
		SELECT id, status, ?, ?, ? FROM orders WHERE id = ?`,
		newStatus, actorID, time.Now(), orderID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Resource: "order", ID: orderID}
	}
	return nil
}

// RecordServiceCreation writes the initial history row for a newly attached
// order-service line.
func (h *StatusHistory) RecordServiceCreation(tx *gorm.DB, orderServiceID uint, status string, actorID uint) error {
	row := models.ServiceStatusHistory{
		OrderServiceID: orderServiceID,
		OldStatus:      nil,
		NewStatus:      status,
		ChangedBy:      actorID,
		ChangedAt:      time.Now(),
	}
	return tx.Create(&row).Error
}

// RecordServiceTransition appends a history row for an order-service line
// moving to newStatus.
func (h *StatusHistory) RecordServiceTransition(tx *gorm.DB, orderServiceID uint, newStatus string, actorID uint) error {
	res := tx.Exec(`
		INSERT INTO service_status_history (order_service_id, old_status, new_status, changed_by, changed_at)
		SELECT id, status, ?, ?, ? FROM order_services WHERE id = ?`,
		newStatus, actorID, time.Now(), orderServiceID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Resource: "order service", ID: orderServiceID}
	}
	return nil
}
