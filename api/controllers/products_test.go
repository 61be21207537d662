package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bulkbuddy/bulkbuddy-backend/api/middleware"
	"github.com/bulkbuddy/bulkbuddy-backend/internal/catalog"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/enums"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/pagination"
)

type testCatalogService struct {
	createFn          func(ctx context.Context, supplierID uuid.UUID, supplierName string, input catalog.CreateProductInput) (*catalog.ProductDTO, error)
	listFn            func(ctx context.Context, input catalog.ListProductsInput) (*catalog.ProductListResult, error)
	getFn             func(ctx context.Context, productID uuid.UUID, viewer catalog.Viewer) (*catalog.ProductDetailDTO, error)
	deleteFn          func(ctx context.Context, callerID, productID uuid.UUID) error
	listMineFn        func(ctx context.Context, supplierID uuid.UUID, params pagination.Params) (*catalog.ProductListResult, error)
	listContributedFn func(ctx context.Context, vendorID uuid.UUID, params pagination.Params) (*catalog.ProductListResult, error)
}

func (s *testCatalogService) CreateProduct(ctx context.Context, supplierID uuid.UUID, supplierName string, input catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, supplierID, supplierName, input)
	}
	return &catalog.ProductDTO{}, nil
}

func (s *testCatalogService) ListProducts(ctx context.Context, input catalog.ListProductsInput) (*catalog.ProductListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, input)
	}
	return &catalog.ProductListResult{}, nil
}

func (s *testCatalogService) GetProduct(ctx context.Context, productID uuid.UUID, viewer catalog.Viewer) (*catalog.ProductDetailDTO, error) {
	if s.getFn != nil {
		return s.getFn(ctx, productID, viewer)
	}
	return &catalog.ProductDetailDTO{}, nil
}

func (s *testCatalogService) DeleteListing(ctx context.Context, callerID, productID uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, callerID, productID)
	}
	return nil
}

func (s *testCatalogService) ListMine(ctx context.Context, supplierID uuid.UUID, params pagination.Params) (*catalog.ProductListResult, error) {
	if s.listMineFn != nil {
		return s.listMineFn(ctx, supplierID, params)
	}
	return &catalog.ProductListResult{}, nil
}

func (s *testCatalogService) ListContributed(ctx context.Context, vendorID uuid.UUID, params pagination.Params) (*catalog.ProductListResult, error) {
	if s.listContributedFn != nil {
		return s.listContributedFn(ctx, vendorID, params)
	}
	return &catalog.ProductListResult{}, nil
}

func authedRequest(method, target, body string, userID uuid.UUID, name string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	ctx := middleware.WithUserID(req.Context(), userID.String())
	ctx = middleware.WithUserName(ctx, name)
	return req.WithContext(ctx)
}

func TestCreateListingParsesPayload(t *testing.T) {
	supplierID := uuid.New()
	var captured catalog.CreateProductInput
	svc := &testCatalogService{
		createFn: func(ctx context.Context, sid uuid.UUID, name string, input catalog.CreateProductInput) (*catalog.ProductDTO, error) {
			if sid != supplierID {
				t.Fatalf("unexpected supplier %s", sid)
			}
			if name != "Fresh Farms" {
				t.Fatalf("unexpected supplier name %q", name)
			}
			captured = input
			return &catalog.ProductDTO{ID: uuid.New()}, nil
		},
	}

	body := `{"name":"  Organic Tomatoes ","category":"vegetable","unitPrice":"2.50","minBulkQuantity":500,"timeLimit":"2030-06-01T00:00:00Z","location":"Valley Market"}`
	req := authedRequest(http.MethodPost, "/api/v1/products", body, supplierID, "Fresh Farms")
	resp := httptest.NewRecorder()

	CreateListing(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if captured.Name != "Organic Tomatoes" {
		t.Fatalf("name not sanitized: %q", captured.Name)
	}
	if captured.Category != enums.ProductCategoryVegetable {
		t.Fatalf("unexpected category %s", captured.Category)
	}
	if !captured.UnitPrice.Equal(decimal.RequireFromString("2.50")) {
		t.Fatalf("unexpected price %s", captured.UnitPrice)
	}
	if captured.MinBulkQuantity != 500 {
		t.Fatalf("unexpected min quantity %d", captured.MinBulkQuantity)
	}
	if captured.Location == nil || *captured.Location != "Valley Market" {
		t.Fatalf("unexpected location %v", captured.Location)
	}
}

func TestCreateListingAcceptsDateOnlyDeadline(t *testing.T) {
	var captured catalog.CreateProductInput
	svc := &testCatalogService{
		createFn: func(ctx context.Context, sid uuid.UUID, name string, input catalog.CreateProductInput) (*catalog.ProductDTO, error) {
			captured = input
			return &catalog.ProductDTO{ID: uuid.New()}, nil
		},
	}

	body := `{"name":"Flour","category":"pantry","unitPrice":"1.10","minBulkQuantity":50,"timeLimit":"2030-06-01"}`
	req := authedRequest(http.MethodPost, "/api/v1/products", body, uuid.New(), "Fresh Farms")
	resp := httptest.NewRecorder()

	CreateListing(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	want := time.Date(2030, 6, 1, 23, 59, 59, 0, time.UTC)
	if !captured.TimeLimit.Equal(want) {
		t.Fatalf("expected end-of-day deadline, got %s", captured.TimeLimit)
	}
}

func TestCreateListingRejectsUnknownCategory(t *testing.T) {
	body := `{"name":"Widgets","category":"gadgets","unitPrice":"1.00","minBulkQuantity":10,"timeLimit":"2030-06-01T00:00:00Z"}`
	req := authedRequest(http.MethodPost, "/api/v1/products", body, uuid.New(), "Supplier")
	resp := httptest.NewRecorder()

	CreateListing(&testCatalogService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCreateListingRejectsBadPrice(t *testing.T) {
	body := `{"name":"Widgets","category":"pantry","unitPrice":"two dollars","minBulkQuantity":10,"timeLimit":"2030-06-01T00:00:00Z"}`
	req := authedRequest(http.MethodPost, "/api/v1/products", body, uuid.New(), "Supplier")
	resp := httptest.NewRecorder()

	CreateListing(&testCatalogService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListProductsForwardsFilters(t *testing.T) {
	var captured catalog.ListProductsInput
	svc := &testCatalogService{
		listFn: func(ctx context.Context, input catalog.ListProductsInput) (*catalog.ProductListResult, error) {
			captured = input
			return &catalog.ProductListResult{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?category=dairy&status=active&limit=5&cursor=xyz", nil)
	resp := httptest.NewRecorder()

	ListProducts(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if captured.Category == nil || *captured.Category != enums.ProductCategoryDairy {
		t.Fatalf("category not forwarded: %v", captured.Category)
	}
	if captured.Status == nil || *captured.Status != enums.ProductStatusActive {
		t.Fatalf("status not forwarded: %v", captured.Status)
	}
	if captured.Limit != 5 || captured.Cursor != "xyz" {
		t.Fatalf("pagination not forwarded: %+v", captured)
	}
}

func TestListProductsRejectsUnknownStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?status=archived", nil)
	resp := httptest.NewRecorder()

	ListProducts(&testCatalogService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestGetProductRejectsInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/not-a-uuid", nil)
	req = addRouteParam(req, "productId", "not-a-uuid")
	resp := httptest.NewRecorder()

	GetProduct(&testCatalogService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestDeleteListingPassesCaller(t *testing.T) {
	callerID := uuid.New()
	productID := uuid.New()
	called := false
	svc := &testCatalogService{
		deleteFn: func(ctx context.Context, cid, pid uuid.UUID) error {
			called = true
			if cid != callerID || pid != productID {
				t.Fatalf("unexpected args %s %s", cid, pid)
			}
			return nil
		},
	}

	req := authedRequest(http.MethodDelete, "/api/v1/products/"+productID.String(), "", callerID, "Supplier")
	req = addRouteParam(req, "productId", productID.String())
	resp := httptest.NewRecorder()

	DeleteListing(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if !called {
		t.Fatal("expected service called")
	}
}

func TestListMyListingsForwardsPagination(t *testing.T) {
	var captured pagination.Params
	svc := &testCatalogService{
		listMineFn: func(ctx context.Context, supplierID uuid.UUID, params pagination.Params) (*catalog.ProductListResult, error) {
			captured = params
			return &catalog.ProductListResult{}, nil
		},
	}

	req := authedRequest(http.MethodGet, "/api/v1/products/mine?limit=7&cursor=abc", "", uuid.New(), "Supplier")
	resp := httptest.NewRecorder()

	ListMyListings(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if captured.Limit != 7 || captured.Cursor != "abc" {
		t.Fatalf("pagination not forwarded: %+v", captured)
	}
}
