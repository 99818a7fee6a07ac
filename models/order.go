package models

import "time"

// Order represents a tailoring order in the system
type Order struct {
	ID              uint       `gorm:"primaryKey" json:"order_id"`
	TrackingNumber  string     `gorm:"uniqueIndex;not null" json:"tracking_number"` // date-scoped sequential code, e.g. 150126-003
	ClientID        uint       `gorm:"not null;index" json:"client_id"`
	Client          Client     `gorm:"foreignKey:ClientID" json:"client"`
	Status          string     `gorm:"not null;default:'new'" json:"status"`
	TotalCost       float64    `gorm:"not null" json:"total_cost"`
	FittingDate     *time.Time `json:"fitting_date"` // mirrors the earliest fitting, null when none scheduled
	DeadlineDate    *time.Time `json:"deadline_date"`
	Comment         *string    `json:"comment"`
	UseOwnMaterials bool       `gorm:"not null;default:false" json:"use_own_materials"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderService links a catalog service to an order. Each line carries its
// own workflow status independent of the order-level status.
type OrderService struct {
	ID        uint      `gorm:"primaryKey" json:"order_service_id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	ServiceID uint      `gorm:"not null;index" json:"service_id"`
	Service   Service   `gorm:"foreignKey:ServiceID" json:"service"`
	Quantity  int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	Status    string    `gorm:"not null;default:'new'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the OrderService model
func (OrderService) TableName() string {
	return "order_services"
}

// OrderEmployee assigns an employee to an order; at most one assignment
// per (order, employee) pair
type OrderEmployee struct {
	ID         uint      `gorm:"primaryKey" json:"order_employee_id"`
	OrderID    uint      `gorm:"not null;uniqueIndex:idx_order_employee" json:"order_id"`
	EmployeeID uint      `gorm:"not null;uniqueIndex:idx_order_employee" json:"employee_id"`
	Employee   Employee  `gorm:"foreignKey:EmployeeID" json:"employee"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for the OrderEmployee model
func (OrderEmployee) TableName() string {
	return "order_employees"
}

// Fitting represents a scheduled or completed fitting appointment for an order
type Fitting struct {
	ID          uint      `gorm:"primaryKey" json:"fitting_id"`
	OrderID     uint      `gorm:"not null;index" json:"order_id"`
	FittingDate time.Time `gorm:"not null" json:"fitting_date"`
	Result      string    `json:"result"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Fitting model
func (Fitting) TableName() string {
	return "fittings"
}
