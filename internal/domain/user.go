package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	Name         string
	Role         Role
	Phone        string
	ProfilePhoto string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PendingRegistration is a signup awaiting OTP confirmation. It lives only
// in the pending-registration store, never in the database.
type PendingRegistration struct {
	Email        string    `json:"email"`
	Code         string    `json:"code"`
	ExpiresAt    time.Time `json:"expires_at"`
	PasswordHash string    `json:"password_hash"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
}
