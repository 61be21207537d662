package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a vendor's rating of a fulfilled group order. One review per
// vendor per product, enforced by the composite unique index.
type Review struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_reviews_product_vendor"`
	VendorID   uuid.UUID `gorm:"column:vendor_id;type:uuid;not null;uniqueIndex:idx_reviews_product_vendor"`
	VendorName string    `gorm:"column:vendor_name;not null"`
	Rating     int       `gorm:"column:rating;not null"`
	Comment    *string   `gorm:"column:comment"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
