package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/bulkbuddy/bulkbuddy-backend/pkg/db/models"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/enums"
	pkgerrors "github.com/bulkbuddy/bulkbuddy-backend/pkg/errors"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/logger"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/pagination"
)

// Service exposes catalog listing operations.
type Service interface {
	CreateProduct(ctx context.Context, supplierID uuid.UUID, supplierName string, input CreateProductInput) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	GetProduct(ctx context.Context, productID uuid.UUID, viewer Viewer) (*ProductDetailDTO, error)
	DeleteListing(ctx context.Context, callerID, productID uuid.UUID) error
	ListMine(ctx context.Context, supplierID uuid.UUID, params pagination.Params) (*ProductListResult, error)
	ListContributed(ctx context.Context, vendorID uuid.UUID, params pagination.Params) (*ProductListResult, error)
}

type contentGenerator interface {
	GenerateDescription(ctx context.Context, productName string, category string) (string, error)
	GenerateImage(ctx context.Context, productName string, category string) (string, error)
}

type service struct {
	repo    *Repository
	content contentGenerator
	logg    *logger.Logger
	now     func() time.Time
}

// ServiceParams bundles the dependencies required to build a catalog service.
type ServiceParams struct {
	Repo    *Repository
	Content contentGenerator
	Logger  *logger.Logger
	Now     func() time.Time
}

// NewService constructs a catalog service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	if params.Content == nil {
		return nil, fmt.Errorf("content generator is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		repo:    params.Repo,
		content: params.Content,
		logg:    params.Logger,
		now:     now,
	}, nil
}

// CreateProduct validates the draft, enriches it with generated content, and
// persists the listing. Either generation call failing fails the creation.
func (s *service) CreateProduct(ctx context.Context, supplierID uuid.UUID, supplierName string, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product category")
	}
	if input.UnitPrice.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must be positive")
	}
	if input.MinBulkQuantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum bulk quantity must be positive")
	}
	now := s.now()
	if !input.TimeLimit.After(now) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "time limit must be in the future")
	}

	var description, imageURL string
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		description, err = s.content.GenerateDescription(groupCtx, name, input.Category.String())
		return err
	})
	group.Go(func() error {
		var err error
		imageURL, err = s.content.GenerateImage(groupCtx, name, input.Category.String())
		return err
	})
	if err := group.Wait(); err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "content generation failed", err)
		}
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate listing content")
	}

	product := &models.Product{
		ID:              uuid.New(),
		SupplierID:      supplierID,
		SupplierName:    supplierName,
		Name:            name,
		Description:     &description,
		Category:        input.Category,
		ImageURL:        &imageURL,
		Location:        input.Location,
		UnitPrice:       input.UnitPrice,
		MinBulkQuantity: input.MinBulkQuantity,
		TimeLimit:       input.TimeLimit.UTC(),
		Status:          enums.ProductStatusActive,
	}
	if _, err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithProductID(ctx, product.ID.String()), "product listed")
	}
	dto := FromModel(product, now)
	return &dto, nil
}

// ListProducts pages through the public catalog.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	products, next, err := s.repo.List(ctx, listParams{
		Category: input.Category,
		Status:   input.Status,
		Limit:    input.Limit,
		Cursor:   cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return s.buildListResult(ctx, products, next, input.Viewer)
}

// GetProduct loads one listing with its contribution and review rows. When a
// viewer is known, the payload also answers whether that viewer may join.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID, viewer Viewer) (*ProductDetailDTO, error) {
	product, err := s.repo.FindDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	now := s.now()
	detail := DetailFromModel(product, now)
	if viewer.authenticated() {
		contributed := false
		for _, c := range product.Contributions {
			if c.VendorID == viewer.ID {
				contributed = true
				break
			}
		}
		joinable := IsJoinable(product.Status, product.TimeLimit, viewer.Role, contributed, now)
		detail.Joinable = &joinable
	}
	return detail, nil
}

// DeleteListing permanently removes a listing owned by the caller.
func (s *service) DeleteListing(ctx context.Context, callerID, productID uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if product.SupplierID != callerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the owning supplier may delete a listing")
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithProductID(ctx, productID.String()), "product deleted")
	}
	return nil
}

// ListMine pages through the caller's own listings.
func (s *service) ListMine(ctx context.Context, supplierID uuid.UUID, params pagination.Params) (*ProductListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	products, next, err := s.repo.ListBySupplier(ctx, supplierID, params.Limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list supplier products")
	}
	return s.buildListResult(ctx, products, next, Viewer{})
}

// ListContributed pages through products the caller has contributed to.
func (s *service) ListContributed(ctx context.Context, vendorID uuid.UUID, params pagination.Params) (*ProductListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	products, next, err := s.repo.ListContributedBy(ctx, vendorID, params.Limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list contributed products")
	}
	return s.buildListResult(ctx, products, next, Viewer{})
}

func (s *service) buildListResult(ctx context.Context, products []models.Product, next *pagination.Cursor, viewer Viewer) (*ProductListResult, error) {
	now := s.now()

	contributed := map[uuid.UUID]bool{}
	if viewer.authenticated() && viewer.Role == enums.UserRoleVendor && len(products) > 0 {
		ids := make([]uuid.UUID, 0, len(products))
		for i := range products {
			ids = append(ids, products[i].ID)
		}
		var err error
		contributed, err = s.repo.ContributedProductIDs(ctx, viewer.ID, ids)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load contribution flags")
		}
	}

	result := &ProductListResult{Products: make([]ProductDTO, 0, len(products))}
	for i := range products {
		dto := FromModel(&products[i], now)
		if viewer.authenticated() {
			joinable := IsJoinable(dto.Status, dto.TimeLimit, viewer.Role, contributed[dto.ID], now)
			dto.Joinable = &joinable
		}
		result.Products = append(result.Products, dto)
	}
	if next != nil {
		encoded := pagination.EncodeCursor(*next)
		result.NextCursor = &encoded
	}
	return result, nil
}
