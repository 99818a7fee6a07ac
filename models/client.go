package models

import "time"

// Client represents a customer of the atelier
type Client struct {
	ID          uint      `gorm:"primaryKey" json:"client_id"`
	FullName    string    `gorm:"not null" json:"fullname"`
	PhoneNumber string    `gorm:"not null" json:"phone_number"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Client model
func (Client) TableName() string {
	return "clients"
}
