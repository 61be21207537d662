package models

import (
	"time"

	"github.com/google/uuid"
)

// Contribution is a vendor's pledge toward a group order. The composite
// unique index makes one-contribution-per-vendor structural rather than a
// caller-discipline check.
type Contribution struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_contributions_product_vendor"`
	VendorID   uuid.UUID `gorm:"column:vendor_id;type:uuid;not null;uniqueIndex:idx_contributions_product_vendor"`
	VendorName string    `gorm:"column:vendor_name;not null"`
	Quantity   int       `gorm:"column:quantity;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
