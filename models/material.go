package models

import "time"

// Material represents a stock material (fabric, thread, fittings etc.).
// Quantity is the on-hand balance and is mutated only through the stock
// ledger so it can never go negative.
type Material struct {
	ID          uint      `gorm:"primaryKey" json:"material_id"`
	Name        string    `gorm:"column:material_name;not null;uniqueIndex" json:"material_name"`
	Type        string    `gorm:"not null" json:"type"`
	Unit        string    `gorm:"not null" json:"unit"`
	Quantity    float64   `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
	CostPerUnit float64   `gorm:"not null" json:"cost_per_unit"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Material model
func (Material) TableName() string {
	return "materials"
}

// OrderMaterial links a material to an order with the quantity reserved
// from stock for that order
type OrderMaterial struct {
	ID         uint      `gorm:"primaryKey" json:"order_material_id"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"`
	MaterialID uint      `gorm:"not null;index" json:"material_id"`
	Material   Material  `gorm:"foreignKey:MaterialID" json:"material"`
	Quantity   float64   `gorm:"not null;check:quantity > 0" json:"quantity"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for the OrderMaterial model
func (OrderMaterial) TableName() string {
	return "order_materials"
}
