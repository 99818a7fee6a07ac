package models

import "time"

// Service represents a catalog tailoring service that can be attached to
// orders (e.g. dress sewing, suit alteration)
type Service struct {
	ID        uint      `gorm:"primaryKey" json:"service_id"`
	Name      string    `gorm:"not null" json:"name"`
	BaseCost  float64   `gorm:"not null" json:"base_cost"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}
