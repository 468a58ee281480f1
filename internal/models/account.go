package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Account struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never leaves the server
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	Phone        *string   `json:"phone,omitempty"` // E.164 when set
	CreatedAt    time.Time `json:"created_at"`
}

func (a *Account) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// HasPhone reports whether an outbound sender number is configured.
func (a *Account) HasPhone() bool {
	return a != nil && a.Phone != nil && *a.Phone != ""
}

type SignupRequest struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `form:"email" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}
