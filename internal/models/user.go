package models

import "time"

// User represents a registered student account together with the public
// profile fields other users see on listings and orders.
type User struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string    `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string    `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security; cleared before responses
	Contact    string    `json:"contact" validate:"omitempty,max=255"`
	Social     string    `json:"social" validate:"omitempty,max=255"`
	Section    string    `json:"section" validate:"omitempty,max=100"`
	GradeLevel string    `json:"grade_level" validate:"omitempty,max=50"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
