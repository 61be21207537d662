package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bulkbuddy/bulkbuddy-backend/pkg/enums"
)

// User represents the canonical identity entity. Suppliers additionally carry
// a denormalized rating aggregate across every review of their listings.
type User struct {
	ID                  uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email               string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash        string         `gorm:"column:password_hash;not null"`
	Name                string         `gorm:"column:name;not null"`
	Role                enums.UserRole `gorm:"column:role;type:user_role;not null"`
	SupplierRatingAvg   float64        `gorm:"column:supplier_rating_avg;not null;default:0"`
	SupplierRatingCount int            `gorm:"column:supplier_rating_count;not null;default:0"`
	IsActive            bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt         *time.Time     `gorm:"column:last_login_at"`
	CreatedAt           time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
