package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/bulkbuddy/bulkbuddy-backend/pkg/db/models"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/enums"
)

// CreateUserDTO carries the validated fields needed to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	Name         string
	Role         enums.UserRole
}

// ToModel maps the DTO onto a persistence model.
func (d CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Name:         d.Name,
		Role:         d.Role,
		IsActive:     true,
	}
}

// UserDTO is the public shape returned by auth and profile endpoints.
type UserDTO struct {
	ID                  uuid.UUID      `json:"id"`
	Email               string         `json:"email"`
	Name                string         `json:"name"`
	Role                enums.UserRole `json:"role"`
	SupplierRatingAvg   float64        `json:"supplierRatingAvg,omitempty"`
	SupplierRatingCount int            `json:"supplierRatingCount,omitempty"`
	LastLoginAt         *time.Time     `json:"lastLoginAt,omitempty"`
	CreatedAt           time.Time      `json:"createdAt"`
}

// FromModel converts a persistence model into the public DTO.
func FromModel(user *models.User) UserDTO {
	if user == nil {
		return UserDTO{}
	}
	return UserDTO{
		ID:                  user.ID,
		Email:               user.Email,
		Name:                user.Name,
		Role:                user.Role,
		SupplierRatingAvg:   user.SupplierRatingAvg,
		SupplierRatingCount: user.SupplierRatingCount,
		LastLoginAt:         user.LastLoginAt,
		CreatedAt:           user.CreatedAt,
	}
}
