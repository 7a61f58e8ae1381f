package models

import "gorm.io/gorm"

// Role values stored on User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an authenticated API user.
type User struct {
	gorm.Model
	Username     string `gorm:"uniqueIndex;size:255;not null" json:"username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"` // bcrypt, never serialised
	Role         string `gorm:"size:50;default:user" json:"role"`
}
