package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bulkbuddy/bulkbuddy-backend/pkg/db/models"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/enums"
)

// CreateProductInput holds the validated payload to list a group order.
type CreateProductInput struct {
	Name            string
	Category        enums.ProductCategory
	UnitPrice       decimal.Decimal
	MinBulkQuantity int
	TimeLimit       time.Time
	Location        *string
}

// Viewer identifies the authenticated caller on read paths. The zero value
// is an anonymous reader.
type Viewer struct {
	ID   uuid.UUID
	Role enums.UserRole
}

func (v Viewer) authenticated() bool {
	return v.ID != uuid.Nil
}

// ListProductsInput captures the public catalog filters.
type ListProductsInput struct {
	Category *enums.ProductCategory
	Status   *enums.ProductStatus
	Limit    int
	Cursor   string
	Viewer   Viewer
}

// ProductDTO is the public listing shape, including the derived display
// values computed on every read.
type ProductDTO struct {
	ID              uuid.UUID             `json:"id"`
	SupplierID      uuid.UUID             `json:"supplierId"`
	SupplierName    string                `json:"supplierName"`
	Name            string                `json:"name"`
	Description     *string               `json:"description,omitempty"`
	Category        enums.ProductCategory `json:"category"`
	ImageURL        *string               `json:"imageUrl,omitempty"`
	Location        *string               `json:"location,omitempty"`
	UnitPrice       decimal.Decimal       `json:"unitPrice"`
	MinBulkQuantity int                   `json:"minBulkQuantity"`
	CurrentQuantity int                   `json:"currentQuantity"`
	TimeLimit       time.Time             `json:"timeLimit"`
	Status          enums.ProductStatus   `json:"status"`
	AverageRating   float64               `json:"averageRating"`
	ReviewCount     int                   `json:"reviewCount"`
	ProgressPercent float64               `json:"progressPercent"`
	GoalReached     bool                  `json:"goalReached"`
	Expired         bool                  `json:"expired"`
	TimeRemaining   string                `json:"timeRemaining"`
	Joinable        *bool                 `json:"joinable,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
}

// ContributionDTO is the public shape of a vendor pledge.
type ContributionDTO struct {
	ID         uuid.UUID `json:"id"`
	VendorID   uuid.UUID `json:"vendorId"`
	VendorName string    `json:"vendorName"`
	Quantity   int       `json:"quantity"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ReviewDTO is the public shape of a vendor review.
type ReviewDTO struct {
	ID         uuid.UUID `json:"id"`
	VendorID   uuid.UUID `json:"vendorId"`
	VendorName string    `json:"vendorName"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ProductDetailDTO augments a listing with its contribution and review rows.
type ProductDetailDTO struct {
	ProductDTO
	Contributions []ContributionDTO `json:"contributions"`
	Reviews       []ReviewDTO       `json:"reviews"`
}

// ProductListResult is a cursor-paginated page of listings.
type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor *string      `json:"nextCursor,omitempty"`
}

// FromModel converts a persistence model into the public DTO, deriving the
// display aggregates as of now.
func FromModel(product *models.Product, now time.Time) ProductDTO {
	if product == nil {
		return ProductDTO{}
	}
	return ProductDTO{
		ID:              product.ID,
		SupplierID:      product.SupplierID,
		SupplierName:    product.SupplierName,
		Name:            product.Name,
		Description:     product.Description,
		Category:        product.Category,
		ImageURL:        product.ImageURL,
		Location:        product.Location,
		UnitPrice:       product.UnitPrice,
		MinBulkQuantity: product.MinBulkQuantity,
		CurrentQuantity: product.CurrentQuantity,
		TimeLimit:       product.TimeLimit,
		Status:          product.Status,
		AverageRating:   product.AverageRating,
		ReviewCount:     product.ReviewCount,
		ProgressPercent: ProgressPercent(product.CurrentQuantity, product.MinBulkQuantity),
		GoalReached:     GoalReached(product.CurrentQuantity, product.MinBulkQuantity),
		Expired:         IsExpired(product.TimeLimit, now),
		TimeRemaining:   TimeRemaining(product.TimeLimit, now),
		CreatedAt:       product.CreatedAt,
	}
}

// DetailFromModel converts a preloaded model into the detail DTO.
func DetailFromModel(product *models.Product, now time.Time) *ProductDetailDTO {
	if product == nil {
		return nil
	}
	detail := &ProductDetailDTO{
		ProductDTO:    FromModel(product, now),
		Contributions: make([]ContributionDTO, 0, len(product.Contributions)),
		Reviews:       make([]ReviewDTO, 0, len(product.Reviews)),
	}
	for _, c := range product.Contributions {
		detail.Contributions = append(detail.Contributions, ContributionDTO{
			ID:         c.ID,
			VendorID:   c.VendorID,
			VendorName: c.VendorName,
			Quantity:   c.Quantity,
			CreatedAt:  c.CreatedAt,
		})
	}
	for _, r := range product.Reviews {
		detail.Reviews = append(detail.Reviews, ReviewDTO{
			ID:         r.ID,
			VendorID:   r.VendorID,
			VendorName: r.VendorName,
			Rating:     r.Rating,
			Comment:    r.Comment,
			CreatedAt:  r.CreatedAt,
		})
	}
	return detail
}
