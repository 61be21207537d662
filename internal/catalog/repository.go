package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bulkbuddy/bulkbuddy-backend/pkg/db/models"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/enums"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/pagination"
)

// Repository wires together product listing persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
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

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDForUpdate loads the product under a row lock. Callers must run
// inside a transaction.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindDetail loads the product with its contribution and review rows, newest
// first.
func (r *Repository) FindDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Contributions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC")
		}).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC")
		}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateFields applies a partial column update and reports not-found when the
// product no longer exists.
func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumns(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete permanently removes a product; contribution and review rows cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

type listParams struct {
	Category *enums.ProductCategory
	Status   *enums.ProductStatus
	Limit    int
	Cursor   *pagination.Cursor
}

// List pages through the public catalog, newest first.
func (r *Repository) List(ctx context.Context, params listParams) ([]models.Product, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if params.Category != nil {
		query = query.Where("category = ?", *params.Category)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	return r.page(query, params.Limit, params.Cursor)
}

// ListBySupplier pages through a supplier's own listings, newest first.
func (r *Repository) ListBySupplier(ctx context.Context, supplierID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Product, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("supplier_id = ?", supplierID)
	return r.page(query, limit, cursor)
}

// ListContributedBy pages through products the vendor has contributed to,
// newest first.
func (r *Repository) ListContributedBy(ctx context.Context, vendorID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Product, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Joins("JOIN contributions ON contributions.product_id = products.id").
		Where("contributions.vendor_id = ?", vendorID)
	return r.page(query, limit, cursor)
}

func (r *Repository) page(query *gorm.DB, limit int, cursor *pagination.Cursor) ([]models.Product, *pagination.Cursor, error) {
	buffered := pagination.LimitWithBuffer(limit)
	normalized := pagination.NormalizeLimit(limit)
	if cursor != nil {
		query = query.Where("(products.created_at, products.id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var products []models.Product
	if err := query.Order("products.created_at DESC, products.id DESC").Limit(buffered).Find(&products).Error; err != nil {
		return nil, nil, err
	}

	if len(products) > normalized {
		products = products[:normalized]
		last := products[len(products)-1]
		return products, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return products, nil, nil
}

// ContributedProductIDs reports which of the given products the vendor has
// already pledged to.
func (r *Repository) ContributedProductIDs(ctx context.Context, vendorID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	contributed := make(map[uuid.UUID]bool, len(productIDs))
	if vendorID == uuid.Nil || len(productIDs) == 0 {
		return contributed, nil
	}
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("contributions").
		Where("vendor_id = ? AND product_id IN ?", vendorID, productIDs).
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		contributed[id] = true
	}
	return contributed, nil
}

// IncrementQuantity bumps current_quantity atomically in SQL, avoiding the
// read-modify-write race between concurrent contributors.
func (r *Repository) IncrementQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("current_quantity", gorm.Expr("current_quantity + ?", delta)).Error
}

// UpdateStatus overwrites the product status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ProductStatus) error {
	return r.UpdateFields(ctx, id, map[string]any{"status": status})
}

// UpdateRatingAggregate overwrites the product's denormalized review counters.
func (r *Repository) UpdateRatingAggregate(ctx context.Context, id uuid.UUID, avg float64, count int) error {
	return r.UpdateFields(ctx, id, map[string]any{
		"average_rating": avg,
		"review_count":   count,
	})
}
