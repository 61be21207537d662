package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bulkbuddy/bulkbuddy-backend/pkg/db/models"
)

// Repository exposes review persistence and aggregate queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a reviews repo bound to the provided GORM DB.
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

// Create inserts a review row. The composite unique index rejects a second
// review from the same vendor.
func (r *Repository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// VendorHasContribution reports whether the vendor contributed to the product.
func (r *Repository) VendorHasContribution(ctx context.Context, productID, vendorID uuid.UUID) (bool, error) {
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

type ratingAggregate struct {
	Average float64
	Count   int
}

// AggregateForProduct recomputes the rating aggregate from the product's
// review rows. Recomputing from the source list instead of applying an
// incremental formula keeps the counters from drifting under partial failure.
func (r *Repository) AggregateForProduct(ctx context.Context, productID uuid.UUID) (float64, int, error) {
	var agg ratingAggregate
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&agg).Error
	if err != nil {
		return 0, 0, err
	}
	return agg.Average, agg.Count, nil
}

// AggregateForSupplier recomputes the supplier's rating aggregate across all
// reviews of all their listings.
func (r *Repository) AggregateForSupplier(ctx context.Context, supplierID uuid.UUID) (float64, int, error) {
	var agg ratingAggregate
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(reviews.rating), 0) AS average, COUNT(*) AS count").
		Joins("JOIN products ON products.id = reviews.product_id").
		Where("products.supplier_id = ?", supplierID).
		Scan(&agg).Error
	if err != nil {
		return 0, 0, err
	}
	return agg.Average, agg.Count, nil
}
