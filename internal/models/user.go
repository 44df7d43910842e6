package models

import "time"

// Role enum
type Role string

const (
	RoleCitizen  Role = "citizen"
	RoleEngineer Role = "engineer"
	RoleOfficial Role = "official"
	RoleAdmin    Role = "admin"
)

// ValidRole reports whether r is one of the known account roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleCitizen, RoleEngineer, RoleOfficial, RoleAdmin:
		return true
	}
	return false
}

// CanModerate reports whether the role may post admin comments and
// change report status.
func (r Role) CanModerate() bool {
	return r == RoleEngineer || r == RoleOfficial || r == RoleAdmin
}

// User is an account as returned by the backend.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	RewardPoints int       `json:"rewardPoints"`
	Avatar       string    `json:"avatar,omitempty"`
	IsVerified   bool      `json:"isVerified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserRef is the populated author reference embedded in comments.
// Display data only, never used for ownership checks.
type UserRef struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// RegisterInput is the payload for POST /users/register.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput is the payload for POST /users/login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileInput is the payload for PUT /users/me. AvatarPath, when set,
// is uploaded as the avatar file part of the multipart form.
type ProfileInput struct {
	Name       string `validate:"required,max=50"`
	Email      string `validate:"required,email"`
	AvatarPath string
}

// PasswordInput is the payload for PUT /users/password.
type PasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}
