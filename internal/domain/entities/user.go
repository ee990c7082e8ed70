package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// UserRole represents user roles
type UserRole string

const (
	UserRoleAdmin  UserRole = "ADMIN"
	UserRoleClient UserRole = "CLIENT"
)

// KYCStatus represents KYC verification status
type KYCStatus string

const (
	KYCNotSubmitted KYCStatus = "NOT_SUBMITTED"
	KYCPending      KYCStatus = "PENDING"
	KYCVerified     KYCStatus = "VERIFIED"
	KYCRejected     KYCStatus = "REJECTED"
)

// User represents a user entity
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	KYCStatus    KYCStatus `json:"kycStatus"`
	// IsShadow marks a placeholder account created for an invited counterparty.
	IsShadow  bool      `json:"isShadow"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	DeletedAt null.Time `json:"-"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == UserRoleAdmin
}

// RegisterInput represents input for creating a user
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken     string    `json:"accessToken"`
	AccessExpiresAt time.Time `json:"accessExpiresAt"`
	User            *User     `json:"user"`

	// Delivered through the httpOnly cookie only.
	RefreshToken     string    `json:"-"`
	RefreshExpiresAt time.Time `json:"-"`
}

// ChangePasswordInput represents input for changing user password.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// UpdateProfileInput carries the editable profile fields.
type UpdateProfileInput struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// UpdateRoleInput is the admin payload for changing a user's role.
type UpdateRoleInput struct {
	Role UserRole `json:"role" binding:"required,oneof=ADMIN CLIENT"`
}

// UserFilter narrows admin user listings.
type UserFilter struct {
	Search string
	Role   UserRole
}

// Actor is the authenticated caller of a usecase.
type Actor struct {
	UserID uuid.UUID
	Email  string
	Role   UserRole
}

// IsAdmin reports whether the caller holds the ADMIN role.
func (a Actor) IsAdmin() bool {
	return a.Role == UserRoleAdmin
}
