package models

import "time"

// OrderDocument is an attachment stored in S3 for an order (sketches,
// signed contracts, measurement sheets)
type OrderDocument struct {
	ID         uint      `gorm:"primaryKey" json:"document_id"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"`
	FileName   string    `gorm:"not null" json:"file_name"`
	S3Key      string    `gorm:"not null" json:"s3_key"`
	URL        string    `gorm:"-" json:"url,omitempty"` // computed field, presigned URL
	UploadedBy uint      `gorm:"not null" json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for the OrderDocument model
func (OrderDocument) TableName() string {
	return "order_documents"
}
