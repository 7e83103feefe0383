package models

import "time"

// User roles. Roles gate the admin order routes and are never serialized.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents a customer of the store. Password and Role carry no json
// tags exposing them; API responses use the projection DTOs in the services
// package instead of this entity.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null" validate:"required,min=2,max=100"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null" validate:"required,email"`
	Password  string    `json:"-" gorm:"size:255;not null" validate:"required,min=6"`
	Role      string    `json:"-" gorm:"size:20;not null;default:USER"`
	CreatedAt time.Time `json:"registration_date"`
}
