package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bulkbuddy/bulkbuddy-backend/pkg/db/models"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/enums"
	pkgerrors "github.com/bulkbuddy/bulkbuddy-backend/pkg/errors"
)

type fakeContentGenerator struct {
	description string
	imageURL    string
	descErr     error
	imageErr    error
}

func (f *fakeContentGenerator) GenerateDescription(context.Context, string, string) (string, error) {
	if f.descErr != nil {
		return "", f.descErr
	}
	return f.description, nil
}

func (f *fakeContentGenerator) GenerateImage(context.Context, string, string) (string, error) {
	if f.imageErr != nil {
		return "", f.imageErr
	}
	return f.imageURL, nil
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func newValidationTestService(t *testing.T, content *fakeContentGenerator) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:    NewRepository(nil),
		Content: content,
		Now:     fixedNow,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func validCreateInput() CreateProductInput {
	return CreateProductInput{
		Name:            "Organic Tomatoes",
		Category:        enums.ProductCategoryVegetable,
		UnitPrice:       decimal.NewFromFloat(2.50),
		MinBulkQuantity: 500,
		TimeLimit:       fixedNow().Add(72 * time.Hour),
	}
}

func TestCreateProductValidation(t *testing.T) {
	content := &fakeContentGenerator{description: "d", imageURL: "u"}
	svc := newValidationTestService(t, content)

	cases := []struct {
		name   string
		mutate func(*CreateProductInput)
	}{
		{"blank name", func(in *CreateProductInput) { in.Name = "   " }},
		{"unknown category", func(in *CreateProductInput) { in.Category = "frozen" }},
		{"zero price", func(in *CreateProductInput) { in.UnitPrice = decimal.Zero }},
		{"negative price", func(in *CreateProductInput) { in.UnitPrice = decimal.NewFromInt(-1) }},
		{"zero minimum", func(in *CreateProductInput) { in.MinBulkQuantity = 0 }},
		{"past time limit", func(in *CreateProductInput) { in.TimeLimit = fixedNow().Add(-time.Hour) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreateInput()
			tc.mutate(&input)
			_, err := svc.CreateProduct(context.Background(), uuid.New(), "Supplier", input)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateProductFailsWhenImageGenerationFails(t *testing.T) {
	content := &fakeContentGenerator{
		description: "A fine tomato.",
		imageErr:    pkgerrors.New(pkgerrors.CodeDependency, "image service down"),
	}
	svc := newValidationTestService(t, content)

	_, err := svc.CreateProduct(context.Background(), uuid.New(), "Supplier", validCreateInput())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestCreateProductFailsWhenDescriptionGenerationFails(t *testing.T) {
	content := &fakeContentGenerator{
		imageURL: "https://cdn.example.com/img.png",
		descErr:  pkgerrors.New(pkgerrors.CodeDependency, "description service down"),
	}
	svc := newValidationTestService(t, content)

	_, err := svc.CreateProduct(context.Background(), uuid.New(), "Supplier", validCreateInput())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestListProductsRejectsGarbageCursor(t *testing.T) {
	svc := newValidationTestService(t, &fakeContentGenerator{description: "d", imageURL: "u"})

	_, err := svc.ListProducts(context.Background(), ListProductsInput{Cursor: "not-base64!!"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func newStoreBackedService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := setupCatalogTestDB(t)
	svc, err := NewService(ServiceParams{
		Repo:    NewRepository(conn),
		Content: &fakeContentGenerator{description: "d", imageURL: "u"},
		Now:     fixedNow,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func TestGetProductJoinableReflectsViewer(t *testing.T) {
	svc, conn := newStoreBackedService(t)
	ctx := context.Background()

	product := seedProduct(t, conn, fixedNow())
	vendorID := uuid.New()
	seedContribution(t, conn, product.ID, vendorID)

	detail, err := svc.GetProduct(ctx, product.ID, Viewer{ID: uuid.New(), Role: enums.UserRoleVendor})
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if detail.Joinable == nil || !*detail.Joinable {
		t.Fatal("fresh vendor should be able to join an active listing")
	}

	detail, err = svc.GetProduct(ctx, product.ID, Viewer{ID: vendorID, Role: enums.UserRoleVendor})
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if detail.Joinable == nil || *detail.Joinable {
		t.Fatal("a vendor who already contributed cannot join again")
	}

	detail, err = svc.GetProduct(ctx, product.ID, Viewer{ID: uuid.New(), Role: enums.UserRoleSupplier})
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if detail.Joinable == nil || *detail.Joinable {
		t.Fatal("suppliers never join group orders")
	}

	detail, err = svc.GetProduct(ctx, product.ID, Viewer{})
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if detail.Joinable != nil {
		t.Fatal("anonymous readers get no joinable flag")
	}
}

func TestListProductsJoinablePerViewer(t *testing.T) {
	svc, conn := newStoreBackedService(t)
	ctx := context.Background()

	joined := seedProduct(t, conn, fixedNow())
	open := seedProduct(t, conn, fixedNow().Add(time.Minute))
	vendorID := uuid.New()
	seedContribution(t, conn, joined.ID, vendorID)

	result, err := svc.ListProducts(ctx, ListProductsInput{
		Viewer: Viewer{ID: vendorID, Role: enums.UserRoleVendor},
	})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(result.Products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(result.Products))
	}
	for _, dto := range result.Products {
		if dto.Joinable == nil {
			t.Fatalf("product %s missing joinable flag", dto.ID)
		}
		wantJoinable := dto.ID == open.ID
		if *dto.Joinable != wantJoinable {
			t.Fatalf("product %s joinable = %v, want %v", dto.ID, *dto.Joinable, wantJoinable)
		}
	}

	result, err = svc.ListProducts(ctx, ListProductsInput{})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	for _, dto := range result.Products {
		if dto.Joinable != nil {
			t.Fatal("anonymous listings carry no joinable flag")
		}
	}
}

func TestFromModelDerivesDisplayFields(t *testing.T) {
	now := fixedNow()
	product := &models.Product{
		ID:              uuid.New(),
		SupplierID:      uuid.New(),
		SupplierName:    "Farm Fresh Co",
		Name:            "Organic Tomatoes",
		Category:        enums.ProductCategoryVegetable,
		UnitPrice:       decimal.NewFromFloat(2.50),
		MinBulkQuantity: 500,
		CurrentQuantity: 270,
		TimeLimit:       now.Add(50 * time.Hour),
		Status:          enums.ProductStatusActive,
	}

	dto := FromModel(product, now)
	if dto.ProgressPercent != 54 {
		t.Fatalf("expected 54%% progress, got %f", dto.ProgressPercent)
	}
	if dto.GoalReached {
		t.Fatal("goal should not be reached at 270/500")
	}
	if dto.Expired {
		t.Fatal("product should not be expired")
	}
	if dto.TimeRemaining != "2d 2h" {
		t.Fatalf("unexpected time remaining %q", dto.TimeRemaining)
	}
}

func TestFromModelExpiredProductRendersEnded(t *testing.T) {
	now := fixedNow()
	product := &models.Product{
		MinBulkQuantity: 100,
		CurrentQuantity: 40,
		TimeLimit:       now.Add(-time.Hour),
		Status:          enums.ProductStatusActive,
	}

	dto := FromModel(product, now)
	if !dto.Expired {
		t.Fatal("expected expired")
	}
	if dto.TimeRemaining != "Ended" {
		t.Fatalf("expected Ended, got %q", dto.TimeRemaining)
	}
}

func TestDetailFromModelMapsSubRecords(t *testing.T) {
	now := fixedNow()
	comment := "Great quality"
	product := &models.Product{
		ID:              uuid.New(),
		MinBulkQuantity: 100,
		CurrentQuantity: 100,
		TimeLimit:       now.Add(time.Hour),
		Status:          enums.ProductStatusFulfilled,
		Contributions: []models.Contribution{
			{ID: uuid.New(), VendorID: uuid.New(), VendorName: "Taco Cart", Quantity: 60},
			{ID: uuid.New(), VendorID: uuid.New(), VendorName: "Soup Stand", Quantity: 40},
		},
		Reviews: []models.Review{
			{ID: uuid.New(), VendorID: uuid.New(), VendorName: "Taco Cart", Rating: 5, Comment: &comment},
		},
	}

	detail := DetailFromModel(product, now)
	if len(detail.Contributions) != 2 || len(detail.Reviews) != 1 {
		t.Fatalf("unexpected sub-record counts: %d contributions, %d reviews",
			len(detail.Contributions), len(detail.Reviews))
	}
	if !detail.GoalReached {
		t.Fatal("expected goal reached at 100/100")
	}
	if detail.Reviews[0].Comment == nil || *detail.Reviews[0].Comment != comment {
		t.Fatal("expected review comment to carry through")
	}
}
