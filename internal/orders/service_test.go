package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bulkbuddy/bulkbuddy-backend/internal/catalog"
	"github.com/bulkbuddy/bulkbuddy-backend/internal/notifications"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/db"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/db/models"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/enums"
	pkgerrors "github.com/bulkbuddy/bulkbuddy-backend/pkg/errors"
)

func testNow() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func activeProduct(supplierID uuid.UUID) *models.Product {
	return &models.Product{
		ID:              uuid.New(),
		SupplierID:      supplierID,
		Name:            "Organic Tomatoes",
		Status:          enums.ProductStatusActive,
		MinBulkQuantity: 500,
		CurrentQuantity: 270,
		TimeLimit:       testNow().Add(48 * time.Hour),
	}
}

func TestJoinGuard(t *testing.T) {
	supplierID := uuid.New()
	vendorID := uuid.New()

	t.Run("active unexpired order is joinable", func(t *testing.T) {
		if err := joinGuard(activeProduct(supplierID), vendorID, testNow()); err != nil {
			t.Fatalf("expected joinable, got %v", err)
		}
	})

	t.Run("owner cannot join", func(t *testing.T) {
		err := joinGuard(activeProduct(supplierID), supplierID, testNow())
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})

	t.Run("expired order rejects joins", func(t *testing.T) {
		product := activeProduct(supplierID)
		product.TimeLimit = testNow().Add(-time.Minute)
		err := joinGuard(product, vendorID, testNow())
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
			t.Fatalf("expected state conflict, got %v", err)
		}
	})

	t.Run("non-active status rejects joins", func(t *testing.T) {
		for _, status := range []enums.ProductStatus{
			enums.ProductStatusFulfilled,
			enums.ProductStatusShipped,
			enums.ProductStatusCancelled,
		} {
			product := activeProduct(supplierID)
			product.Status = status
			err := joinGuard(product, vendorID, testNow())
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
				t.Fatalf("status %s: expected state conflict, got %v", status, err)
			}
		}
	})
}

func TestStatusGuard(t *testing.T) {
	supplierID := uuid.New()

	t.Run("foreign supplier is forbidden", func(t *testing.T) {
		err := statusGuard(activeProduct(supplierID), uuid.New(), enums.ProductStatusFulfilled)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})

	t.Run("allowed transitions pass", func(t *testing.T) {
		allowed := []struct {
			from enums.ProductStatus
			to   enums.ProductStatus
		}{
			{enums.ProductStatusActive, enums.ProductStatusFulfilled},
			{enums.ProductStatusActive, enums.ProductStatusCancelled},
			{enums.ProductStatusFulfilled, enums.ProductStatusShipped},
			{enums.ProductStatusFulfilled, enums.ProductStatusCancelled},
		}
		for _, tc := range allowed {
			product := activeProduct(supplierID)
			product.Status = tc.from
			if err := statusGuard(product, supplierID, tc.to); err != nil {
				t.Fatalf("%s -> %s: expected allowed, got %v", tc.from, tc.to, err)
			}
		}
	})

	t.Run("terminal states reject all transitions", func(t *testing.T) {
		for _, terminal := range []enums.ProductStatus{
			enums.ProductStatusShipped,
			enums.ProductStatusCancelled,
		} {
			for _, next := range []enums.ProductStatus{
				enums.ProductStatusActive,
				enums.ProductStatusFulfilled,
				enums.ProductStatusShipped,
				enums.ProductStatusCancelled,
			} {
				product := activeProduct(supplierID)
				product.Status = terminal
				err := statusGuard(product, supplierID, next)
				if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
					t.Fatalf("%s -> %s: expected state conflict, got %v", terminal, next, err)
				}
			}
		}
	})

	t.Run("skipping fulfilled is rejected", func(t *testing.T) {
		err := statusGuard(activeProduct(supplierID), supplierID, enums.ProductStatusShipped)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
			t.Fatalf("expected state conflict, got %v", err)
		}
	})
}

func TestJoinOrderRejectsNonPositiveQuantity(t *testing.T) {
	svc, err := NewService(ServiceParams{
		Products:      catalog.NewRepository(nil),
		Contributions: NewRepository(nil),
		Notifications: notifications.NewRepository(nil),
		DBClient:      db.NewWithConn(nil),
		Now:           testNow,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	for _, quantity := range []int{0, -1, -500} {
		_, err := svc.JoinOrder(context.Background(), uuid.New(), "Vendor", uuid.New(), quantity)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("quantity %d: expected validation error, got %v", quantity, err)
		}
	}
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	svc, err := NewService(ServiceParams{
		Products:      catalog.NewRepository(nil),
		Contributions: NewRepository(nil),
		Notifications: notifications.NewRepository(nil),
		DBClient:      db.NewWithConn(nil),
		Now:           testNow,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.SetStatus(context.Background(), uuid.New(), uuid.New(), enums.ProductStatus("archived"))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
