package controllers

import (
	"net/http"

	"github.com/bulkbuddy/bulkbuddy-backend/api/middleware"
	"github.com/bulkbuddy/bulkbuddy-backend/api/responses"
	"github.com/bulkbuddy/bulkbuddy-backend/api/validators"
	"github.com/bulkbuddy/bulkbuddy-backend/internal/reviews"
	pkgerrors "github.com/bulkbuddy/bulkbuddy-backend/pkg/errors"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/logger"
)

// AddReview records a vendor review on a fulfilled order.
func AddReview(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reviews service unavailable"))
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

		var payload reviews.AddReviewInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		review, err := svc.AddReview(r.Context(), vendorID, vendorName, productID, payload.Rating, payload.Comment)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, review)
	}
}
