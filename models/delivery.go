package models

import "time"

// Delivery represents a supplier delivery that brings materials into stock
type Delivery struct {
	ID           uint               `gorm:"primaryKey" json:"delivery_id"`
	SupplierID   uint               `gorm:"not null;index" json:"supplier_id"`
	Supplier     Supplier           `gorm:"foreignKey:SupplierID" json:"supplier"`
	DeliveryDate time.Time          `gorm:"not null" json:"delivery_date"`
	DocumentPath *string            `json:"document_path"`
	Materials    []DeliveryMaterial `gorm:"foreignKey:DeliveryID" json:"materials"`
	CreatedAt    time.Time          `json:"created_at"`
}

// TableName specifies the table name for the Delivery model
func (Delivery) TableName() string {
	return "deliveries"
}

// DeliveryMaterial is one line of a delivery: a material and the quantity
// received at the supplier's price
type DeliveryMaterial struct {
	ID          uint      `gorm:"primaryKey" json:"delivery_material_id"`
	DeliveryID  uint      `gorm:"not null;index" json:"delivery_id"`
	MaterialID  uint      `gorm:"not null;index" json:"material_id"`
	Material    Material  `gorm:"foreignKey:MaterialID" json:"material"`
	Quantity    float64   `gorm:"not null;check:quantity > 0" json:"quantity"`
	CostPerUnit float64   `gorm:"not null" json:"cost_per_unit"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for the DeliveryMaterial model
func (DeliveryMaterial) TableName() string {
	return "delivery_materials"
}
