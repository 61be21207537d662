package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bulkbuddy/bulkbuddy-backend/internal/catalog"
	"github.com/bulkbuddy/bulkbuddy-backend/internal/notifications"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/db"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/db/models"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/enums"
	pkgerrors "github.com/bulkbuddy/bulkbuddy-backend/pkg/errors"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/logger"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/metrics"
)

// Service exposes the group-order lifecycle operations.
type Service interface {
	JoinOrder(ctx context.Context, vendorID uuid.UUID, vendorName string, productID uuid.UUID, quantity int) (*catalog.ProductDTO, error)
	SetStatus(ctx context.Context, callerID, productID uuid.UUID, next enums.ProductStatus) (*catalog.ProductDTO, error)
}

type service struct {
	products      *catalog.Repository
	contributions *Repository
	notifications notifications.Repository
	dbClient      *db.Client
	logg          *logger.Logger
	metrics       *metrics.OperationMetrics
	now           func() time.Time
}

// ServiceParams bundles the dependencies required to build an orders service.
type ServiceParams struct {
	Products      *catalog.Repository
	Contributions *Repository
	Notifications notifications.Repository
	DBClient      *db.Client
	Logger        *logger.Logger
	Metrics       *metrics.OperationMetrics
	Now           func() time.Time
}

// NewService constructs an orders service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Products == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.Contributions == nil {
		return nil, fmt.Errorf("contributions repository is required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notifications repository is required")
	}
	if params.DBClient == nil {
		return nil, fmt.Errorf("db client is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		products:      params.Products,
		contributions: params.Contributions,
		notifications: params.Notifications,
		dbClient:      params.DBClient,
		logg:          params.Logger,
		metrics:       params.Metrics,
		now:           now,
	}, nil
}

// JoinOrder appends a vendor contribution and bumps the running quantity.
// Crossing the bulk minimum never flips the status; the supplier does that
// explicitly through SetStatus.
func (s *service) JoinOrder(ctx context.Context, vendorID uuid.UUID, vendorName string, productID uuid.UUID, quantity int) (dto *catalog.ProductDTO, err error) {
	defer func(start time.Time) { s.metrics.Track("join_order", start, err) }(time.Now())

	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}

	var updated *models.Product
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		contributions := s.contributions.WithTx(tx)
		notifs := s.notifications.WithTx(tx)

		product, txErr := products.FindByIDForUpdate(ctx, productID)
		if txErr != nil {
			if errors.Is(txErr, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "load product")
		}

		if guardErr := joinGuard(product, vendorID, s.now()); guardErr != nil {
			return guardErr
		}

		already, txErr := contributions.HasContribution(ctx, productID, vendorID)
		if txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "check prior contribution")
		}
		if already {
			return pkgerrors.New(pkgerrors.CodeConflict, "vendor has already contributed to this order")
		}

		contribution := &models.Contribution{
			ID:         uuid.New(),
			ProductID:  productID,
			VendorID:   vendorID,
			VendorName: vendorName,
			Quantity:   quantity,
		}
		if txErr := contributions.Create(ctx, contribution); txErr != nil {
			if db.IsUniqueViolation(txErr, "idx_contributions_product_vendor") {
				return pkgerrors.New(pkgerrors.CodeConflict, "vendor has already contributed to this order")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "record contribution")
		}

		if txErr := products.IncrementQuantity(ctx, productID, quantity); txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "increment quantity")
		}

		oldQuantity := product.CurrentQuantity
		product.CurrentQuantity += quantity

		batch := []models.Notification{
			notifications.ContributionReceived(product.SupplierID, productID, product.Name, vendorName, quantity),
		}
		if !catalog.GoalReached(oldQuantity, product.MinBulkQuantity) &&
			catalog.GoalReached(product.CurrentQuantity, product.MinBulkQuantity) {
			batch = append(batch, notifications.GoalReached(product.SupplierID, productID, product.Name))
		}
		if txErr := notifs.CreateBatch(ctx, batch); txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "write notifications")
		}

		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithProductID(ctx, productID.String()), "contribution recorded")
	}
	result := catalog.FromModel(updated, s.now())
	return &result, nil
}

// SetStatus moves a listing through its lifecycle. Only the owning supplier
// may transition, and only along the allowed transition table.
func (s *service) SetStatus(ctx context.Context, callerID, productID uuid.UUID, next enums.ProductStatus) (dto *catalog.ProductDTO, err error) {
	defer func(start time.Time) { s.metrics.Track("set_status", start, err) }(time.Now())

	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product status")
	}

	var updated *models.Product
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		contributions := s.contributions.WithTx(tx)
		notifs := s.notifications.WithTx(tx)

		product, txErr := products.FindByIDForUpdate(ctx, productID)
		if txErr != nil {
			if errors.Is(txErr, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "load product")
		}

		if guardErr := statusGuard(product, callerID, next); guardErr != nil {
			return guardErr
		}

		if txErr := products.UpdateStatus(ctx, productID, next); txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "update status")
		}

		vendorIDs, txErr := contributions.ListVendorIDs(ctx, productID)
		if txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "list contributors")
		}
		batch := make([]models.Notification, 0, len(vendorIDs))
		for _, vendorID := range vendorIDs {
			batch = append(batch, notifications.StatusChanged(vendorID, productID, product.Name, next))
		}
		if txErr := notifs.CreateBatch(ctx, batch); txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "write notifications")
		}

		product.Status = next
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithProductID(ctx, productID.String()), "status updated")
	}
	result := catalog.FromModel(updated, s.now())
	return &result, nil
}

func joinGuard(product *models.Product, vendorID uuid.UUID, now time.Time) error {
	if product.SupplierID == vendorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "suppliers cannot join their own listing")
	}
	if product.Status != enums.ProductStatusActive || catalog.IsExpired(product.TimeLimit, now) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not accepting contributions").
			WithDetails(map[string]any{
				"status":  product.Status,
				"expired": catalog.IsExpired(product.TimeLimit, now),
			})
	}
	return nil
}

func statusGuard(product *models.Product, callerID uuid.UUID, next enums.ProductStatus) error {
	if product.SupplierID != callerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the owning supplier may change status")
	}
	if !product.Status.CanTransitionTo(next) {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move from %s to %s", product.Status, next)).
			WithDetails(map[string]any{
				"from": product.Status,
				"to":   next,
			})
	}
	return nil
}
