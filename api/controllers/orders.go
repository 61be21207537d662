package controllers

import (
	"net/http"
	"strings"

	"github.com/bulkbuddy/bulkbuddy-backend/api/middleware"
	"github.com/bulkbuddy/bulkbuddy-backend/api/responses"
	"github.com/bulkbuddy/bulkbuddy-backend/api/validators"
	"github.com/bulkbuddy/bulkbuddy-backend/internal/orders"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/enums"
	pkgerrors "github.com/bulkbuddy/bulkbuddy-backend/pkg/errors"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/logger"
)

type joinOrderRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// JoinOrder records a vendor contribution against an active listing.
func JoinOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		vendorID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		vendorName := middleware.UserNameFromContext(r.Context())

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload joinOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.JoinOrder(r.Context(), vendorID, vendorName, productID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// SetOrderStatus moves a listing through its fulfillment lifecycle.
func SetOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
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

		var payload setStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseProductStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		product, err := svc.SetStatus(r.Context(), callerID, productID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}
