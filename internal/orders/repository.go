package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bulkbuddy/bulkbuddy-backend/pkg/db/models"
)

// Repository exposes contribution persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a contributions repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a contribution row. The composite unique index rejects a
// second contribution from the same vendor.
func (r *Repository) Create(ctx context.Context, contribution *models.Contribution) error {
	return r.db.WithContext(ctx).Create(contribution).Error
}

// HasContribution reports whether the vendor already contributed to the product.
func (r *Repository) HasContribution(ctx context.Context, productID, vendorID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Contribution{}).
		Where("product_id = ? AND vendor_id = ?", productID, vendorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListVendorIDs returns the distinct contributors to the product.
func (r *Repository) ListVendorIDs(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Contribution{}).
		Where("product_id = ?", productID).
		Distinct().
		Pluck("vendor_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
