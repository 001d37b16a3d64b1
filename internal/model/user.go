package model

import (
	"time"

	"github.com/google/uuid"
)

// Role gates administrative operations.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an account holder. GoogleID links a federated login identity.
type User struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	HashedPassword string    `json:"-" db:"hashed_password"`
	FullName       *string   `json:"fullName,omitempty" db:"full_name"`
	Role           Role      `json:"role" db:"role"`
	GoogleID       *string   `json:"-" db:"google_id"`
	IsActive       bool      `json:"isActive" db:"is_active"`
	IsVerified     bool      `json:"isVerified" db:"is_verified"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayName returns the full name, falling back to the email address.
func (u *User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return u.Email
}

// RegisterRequest is the payload for password-based registration.
type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"fullName,omitempty"`
}

// LoginRequest is the payload for password-based login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries a freshly minted bearer token.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// VerifyRequest completes email verification.
type VerifyRequest struct {
	Token string `json:"token"`
}

// GoogleCallbackRequest carries the authorization code from the federated
// login redirect.
type GoogleCallbackRequest struct {
	Code string `json:"code"`
}

// UpdateProfileRequest is the payload for profile updates.
type UpdateProfileRequest struct {
	FullName *string `json:"fullName,omitempty"`
	Password *string `json:"password,omitempty"`
}
