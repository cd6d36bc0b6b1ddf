package models

import (
	"time"

	"gorm.io/gorm"
)

// Service represents a bookable home service in the catalog
type Service struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"not null" json:"name"`
	Description     string         `json:"description"`
	Price           float64        `gorm:"not null;check:price >= 0" json:"price"`
	DurationMinutes int            `gorm:"not null;default:60" json:"duration_minutes"`
	CategoryID      uint           `gorm:"not null;index" json:"category_id"`
	Category        Category       `gorm:"foreignKey:CategoryID" json:"category"`
	ImageS3Key      *string        `json:"image_s3_key"`                 // nullable, S3 key for the uploaded image
	ImageURL        *string        `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL for the image
	IsActive        bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}
