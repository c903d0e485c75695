package models

import "time"

// ContactMessage is a message left through the storefront contact form.
type ContactMessage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:200;not null" validate:"required,max=200"`
	Email     string    `json:"email" gorm:"size:254;not null" validate:"required,email,max=254"`
	Phone     string    `json:"phone" gorm:"size:50" validate:"omitempty,max=50"`
	Subject   string    `json:"subject" gorm:"size:200" validate:"omitempty,max=200"`
	Message   string    `json:"message" gorm:"type:text;not null" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}
