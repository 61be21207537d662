package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bulkbuddy/bulkbuddy-backend/api/middleware"
	"github.com/bulkbuddy/bulkbuddy-backend/internal/catalog"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/enums"
	pkgerrors "github.com/bulkbuddy/bulkbuddy-backend/pkg/errors"
)

// requireUserID pulls the authenticated caller out of the request context.
func requireUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return id, nil
}

// viewerFromRequest builds the optional caller identity for public read
// paths. Anonymous requests yield the zero viewer.
func viewerFromRequest(r *http.Request) catalog.Viewer {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return catalog.Viewer{}
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return catalog.Viewer{}
	}
	role, err := enums.ParseUserRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return catalog.Viewer{}
	}
	return catalog.Viewer{ID: id, Role: role}
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+param)
	}
	return id, nil
}
