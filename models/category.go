package models

import (
	"time"

	"gorm.io/gorm"
)

// Category groups services for browsing, e.g. "Cleaning" or "Plumbing"
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"uniqueIndex;not null" json:"name"`
	Description string         `json:"description"`
	Icon        string         `json:"icon"` // icon identifier used by the web client
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
