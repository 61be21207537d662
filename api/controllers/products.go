package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bulkbuddy/bulkbuddy-backend/api/middleware"
	"github.com/bulkbuddy/bulkbuddy-backend/api/responses"
	"github.com/bulkbuddy/bulkbuddy-backend/api/validators"
	"github.com/bulkbuddy/bulkbuddy-backend/internal/catalog"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/enums"
	pkgerrors "github.com/bulkbuddy/bulkbuddy-backend/pkg/errors"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/logger"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/pagination"
)

type createListingRequest struct {
	Name            string          `json:"name" validate:"required,min=1,max=200"`
	Category        string          `json:"category" validate:"required"`
	UnitPrice       string          `json:"unitPrice" validate:"required"`
	MinBulkQuantity int             `json:"minBulkQuantity" validate:"required,min=1"`
	TimeLimit       listingDeadline `json:"timeLimit" validate:"required"`
	Location        *string         `json:"location,omitempty" validate:"omitempty,max=200"`
}

// listingDeadline accepts either a full RFC 3339 timestamp or a bare date.
// A bare date means the order stays open through the end of that day (UTC).
type listingDeadline struct {
	time.Time
}

func (d *listingDeadline) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		d.Time = t
		return nil
	}
	day, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return fmt.Errorf("timeLimit must be RFC 3339 or YYYY-MM-DD: %q", raw)
	}
	d.Time = day.Add(24*time.Hour - time.Second)
	return nil
}

func (req createListingRequest) toCreateInput() (catalog.CreateProductInput, error) {
	category, err := enums.ParseProductCategory(strings.TrimSpace(req.Category))
	if err != nil {
		return catalog.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(req.UnitPrice))
	if err != nil {
		return catalog.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit price")
	}

	var location *string
	if req.Location != nil {
		cleaned := validators.SanitizeString(*req.Location, 200)
		if cleaned != "" {
			location = &cleaned
		}
	}

	return catalog.CreateProductInput{
		Name:            validators.SanitizeString(req.Name, 200),
		Category:        category,
		UnitPrice:       price,
		MinBulkQuantity: req.MinBulkQuantity,
		TimeLimit:       req.TimeLimit.Time,
		Location:        location,
	}, nil
}

// CreateListing handles bulk order creation for suppliers.
func CreateListing(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		supplierID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		supplierName := middleware.UserNameFromContext(r.Context())

		var payload createListingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), supplierID, supplierName, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ListProducts serves the public catalog with optional category and status
// filters plus cursor pagination.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.ListProductsInput{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			Viewer: viewerFromRequest(r),
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseProductCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			input.Category = &category
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseProductStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			input.Status = &status
		}

		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// GetProduct returns a single listing with its contributions and reviews.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetProduct(r.Context(), productID, viewerFromRequest(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}

// DeleteListing removes a supplier's own listing.
func DeleteListing(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		callerID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteListing(r.Context(), callerID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ListMyListings returns the caller's own listings, newest first.
func ListMyListings(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		supplierID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := listQueryParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListMine(r.Context(), supplierID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ListContributedOrders returns listings the calling vendor has joined.
func ListContributedOrders(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		vendorID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := listQueryParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListContributed(r.Context(), vendorID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func listQueryParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}
