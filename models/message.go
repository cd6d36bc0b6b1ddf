package models

import (
	"time"

	"gorm.io/gorm"
)

// Message represents a contact-form submission from the marketing site
type Message struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"not null" json:"email"`
	Subject   string         `json:"subject"`
	Body      string         `gorm:"not null" json:"body"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}
