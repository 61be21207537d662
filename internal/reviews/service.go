package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bulkbuddy/bulkbuddy-backend/internal/catalog"
	"github.com/bulkbuddy/bulkbuddy-backend/internal/notifications"
	"github.com/bulkbuddy/bulkbuddy-backend/internal/users"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/db"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/db/models"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/enums"
	pkgerrors "github.com/bulkbuddy/bulkbuddy-backend/pkg/errors"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/logger"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/metrics"
)

// Service exposes the review aggregation operations.
type Service interface {
	AddReview(ctx context.Context, vendorID uuid.UUID, vendorName string, productID uuid.UUID, rating int, comment *string) (*catalog.ReviewDTO, error)
}

// AddReviewInput is the validated review payload.
type AddReviewInput struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

type service struct {
	reviews       *Repository
	products      *catalog.Repository
	users         *users.Repository
	notifications notifications.Repository
	dbClient      *db.Client
	logg          *logger.Logger
	metrics       *metrics.OperationMetrics
}

// ServiceParams bundles the dependencies required to build a reviews service.
type ServiceParams struct {
	Reviews       *Repository
	Products      *catalog.Repository
	Users         *users.Repository
	Notifications notifications.Repository
	DBClient      *db.Client
	Logger        *logger.Logger
	Metrics       *metrics.OperationMetrics
}

// NewService constructs a reviews service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Reviews == nil {
		return nil, fmt.Errorf("reviews repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notifications repository is required")
	}
	if params.DBClient == nil {
		return nil, fmt.Errorf("db client is required")
	}
	return &service{
		reviews:       params.Reviews,
		products:      params.Products,
		users:         params.Users,
		notifications: params.Notifications,
		dbClient:      params.DBClient,
		logg:          params.Logger,
		metrics:       params.Metrics,
	}, nil
}

// AddReview appends a review and recomputes both the product's and the owning
// supplier's rating aggregates from the review rows, all in one transaction.
func (s *service) AddReview(ctx context.Context, vendorID uuid.UUID, vendorName string, productID uuid.UUID, rating int, comment *string) (dto *catalog.ReviewDTO, err error) {
	defer func(start time.Time) { s.metrics.Track("add_review", start, err) }(time.Now())

	if rating < 1 || rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be an integer between 1 and 5")
	}
	if comment != nil {
		trimmed := strings.TrimSpace(*comment)
		if trimmed == "" {
			comment = nil
		} else {
			comment = &trimmed
		}
	}

	var created *models.Review
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		reviews := s.reviews.WithTx(tx)
		products := s.products.WithTx(tx)
		userRepo := s.users.WithTx(tx)
		notifs := s.notifications.WithTx(tx)

		product, txErr := products.FindByIDForUpdate(ctx, productID)
		if txErr != nil {
			if errors.Is(txErr, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "load product")
		}

		if guardErr := eligibilityGuard(product.Status); guardErr != nil {
			return guardErr
		}

		contributed, txErr := reviews.VendorHasContribution(ctx, productID, vendorID)
		if txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "check contribution")
		}
		if !contributed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only contributing vendors may review this order")
		}

		review := &models.Review{
			ID:         uuid.New(),
			ProductID:  productID,
			VendorID:   vendorID,
			VendorName: vendorName,
			Rating:     rating,
			Comment:    comment,
		}
		if txErr := reviews.Create(ctx, review); txErr != nil {
			if db.IsUniqueViolation(txErr, "idx_reviews_product_vendor") {
				return pkgerrors.New(pkgerrors.CodeConflict, "vendor has already reviewed this order")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "record review")
		}

		avg, count, txErr := reviews.AggregateForProduct(ctx, productID)
		if txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "aggregate product rating")
		}
		if txErr := products.UpdateRatingAggregate(ctx, productID, avg, count); txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "update product rating")
		}

		supplierAvg, supplierCount, txErr := reviews.AggregateForSupplier(ctx, product.SupplierID)
		if txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "aggregate supplier rating")
		}
		if txErr := userRepo.UpdateSupplierRating(ctx, product.SupplierID, supplierAvg, supplierCount); txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "update supplier rating")
		}

		notification := notifications.ReviewReceived(product.SupplierID, productID, product.Name, vendorName, rating)
		if txErr := notifs.Create(ctx, &notification); txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "write notification")
		}

		created = review
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithProductID(ctx, productID.String()), "review recorded")
	}
	return &catalog.ReviewDTO{
		ID:         created.ID,
		VendorID:   created.VendorID,
		VendorName: created.VendorName,
		Rating:     created.Rating,
		Comment:    created.Comment,
		CreatedAt:  created.CreatedAt,
	}, nil
}

func eligibilityGuard(status enums.ProductStatus) error {
	if status != enums.ProductStatusFulfilled && status != enums.ProductStatusShipped {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "reviews open once the order is fulfilled or shipped").
			WithDetails(map[string]any{"status": status})
	}
	return nil
}
