package models

import "time"

// Supplier represents a material supplier organization
type Supplier struct {
	ID          uint      `gorm:"primaryKey" json:"supplier_id"`
	OrgName     string    `gorm:"not null" json:"org_name"`
	PhoneNumber string    `json:"phone_number"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Supplier model
func (Supplier) TableName() string {
	return "suppliers"
}
