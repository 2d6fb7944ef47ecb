package model

import "time"

// ContactMessage is a message submitted through the contact form.
// Rows are append-only.
type ContactMessage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"size:254;not null"`
	Name      string    `json:"name" gorm:"size:64;not null"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}
