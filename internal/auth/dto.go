package auth

import (
	"github.com/bulkbuddy/bulkbuddy-backend/internal/users"
)

// RegisterRequest carries the signup payload.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name" validate:"required,min=1,max=120"`
	Role     string `json:"role" validate:"required,oneof=vendor supplier"`
}

// LoginRequest carries the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the token rotation payload.
type RefreshRequest struct {
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// SessionResponse is returned by register, login, and refresh.
type SessionResponse struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	User         users.UserDTO `json:"user"`
}
