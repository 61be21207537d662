package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bulkbuddy/bulkbuddy-backend/pkg/enums"
)

// Product represents a supplier's group order. CurrentQuantity, AverageRating,
// and ReviewCount are denormalized aggregates over the contribution and review
// rows; every write path keeps them in sync inside the mutating transaction.
type Product struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID      uuid.UUID             `gorm:"column:supplier_id;type:uuid;not null"`
	SupplierName    string                `gorm:"column:supplier_name;not null"`
	Name            string                `gorm:"column:name;not null"`
	Description     *string               `gorm:"column:description"`
	Category        enums.ProductCategory `gorm:"column:category;type:product_category;not null"`
	ImageURL        *string               `gorm:"column:image_url"`
	Location        *string               `gorm:"column:location"`
	UnitPrice       decimal.Decimal       `gorm:"column:unit_price;type:numeric(12,2);not null"`
	MinBulkQuantity int                   `gorm:"column:min_bulk_quantity;not null"`
	CurrentQuantity int                   `gorm:"column:current_quantity;not null;default:0"`
	TimeLimit       time.Time             `gorm:"column:time_limit;type:timestamptz;not null"`
	Status          enums.ProductStatus   `gorm:"column:status;type:product_status;not null;default:'active'"`
	AverageRating   float64               `gorm:"column:average_rating;type:numeric(3,2);not null;default:0"`
	ReviewCount     int                   `gorm:"column:review_count;not null;default:0"`
	Contributions   []Contribution        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Reviews         []Review              `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
