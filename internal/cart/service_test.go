package cart

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tiendaref/tiendaref-backend/pkg/db/models"
	"github.com/tiendaref/tiendaref-backend/pkg/logger"
	"github.com/tiendaref/tiendaref-backend/pkg/types"
)

type fakeRepo struct {
	snapshots map[string]types.RawJSON
	users     map[string]*uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		snapshots: map[string]types.RawJSON{},
		users:     map[string]*uuid.UUID{},
	}
}

func (f *fakeRepo) FindBySession(ctx context.Context, sessionID string) (*models.CartRecord, error) {
	data, ok := f.snapshots[sessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.CartRecord{SessionID: sessionID, Items: data, UserID: f.users[sessionID]}, nil
}

func (f *fakeRepo) SaveSnapshot(ctx context.Context, sessionID string, userID *uuid.UUID, items types.RawJSON) error {
	f.snapshots[sessionID] = items
	if userID != nil {
		f.users[sessionID] = userID
	}
	return nil
}

func (f *fakeRepo) DeleteBySession(ctx context.Context, sessionID string) error {
	delete(f.snapshots, sessionID)
	return nil
}

func testService(t *testing.T) (Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	logg := logger.New(logger.Options{Output: io.Discard})
	svc, err := NewService(repo, logg)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc, repo
}

func sampleInput() AddInput {
	return AddInput{
		ID:    "p1",
		Name:  "Yerba orgánica",
		Price: decimal.NewFromInt(100),
	}
}

func TestAddMergesExistingLine(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "sess", nil, sampleInput()); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	cart, err := svc.Add(ctx, "sess", nil, sampleInput())
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", cart.Items[0].Quantity)
	}
	if cart.TotalItems != 2 {
		t.Fatalf("total items = %d, want 2", cart.TotalItems)
	}
	if !cart.TotalPrice.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("total price = %s, want 200", cart.TotalPrice)
	}
}

func TestAddDefaultsOptionalFields(t *testing.T) {
	svc, _ := testService(t)

	cart, err := svc.Add(context.Background(), "sess", nil, sampleInput())
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	item := cart.Items[0]
	if !item.TaxRate.IsZero() {
		t.Fatalf("tax rate = %s, want 0", item.TaxRate)
	}
	if !item.TaxIncluded {
		t.Fatal("tax included should default to true")
	}
	if item.ShippingAvailable {
		t.Fatal("shipping available should default to false")
	}
	if item.Inventory != 0 {
		t.Fatalf("inventory = %d, want 0", item.Inventory)
	}
	if item.ShippingConfig == nil {
		t.Fatal("shipping config should be defaulted")
	}
	if !item.ShippingConfig.FreeLocal {
		t.Fatal("default config should ship local for free")
	}
	if item.ShippingConfig.InternationalAvailable {
		t.Fatal("default config should not offer international")
	}
}

func TestAddRequiresProductID(t *testing.T) {
	svc, _ := testService(t)

	input := sampleInput()
	input.ID = "  "
	if _, err := svc.Add(context.Background(), "sess", nil, input); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "sess", nil, sampleInput()); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	cart, err := svc.SetQuantity(ctx, "sess", "p1", 0)
	if err != nil {
		t.Fatalf("set quantity failed: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(cart.Items))
	}
}

func TestSetQuantityOverwrites(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "sess", nil, sampleInput()); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	cart, err := svc.SetQuantity(ctx, "sess", "p1", 5)
	if err != nil {
		t.Fatalf("set quantity failed: %v", err)
	}
	if cart.Items[0].Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", cart.Items[0].Quantity)
	}
}

func TestRemoveIsNoopWhenAbsent(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "sess", nil, sampleInput()); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	cart, err := svc.Remove(ctx, "sess", "missing")
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(cart.Items))
	}
}

func TestClearEmptiesCart(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "sess", nil, sampleInput()); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.Clear(ctx, "sess"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	cart, err := svc.Get(ctx, "sess")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(cart.Items))
	}
}

func TestLegacySnapshotIsMigratedOnRead(t *testing.T) {
	svc, repo := testService(t)

	// Pre-tax-era snapshot: no iva, no shippingConfig, single image field.
	repo.snapshots["sess"] = types.RawJSON(`[{"id":"p1","nombre":"Mate","precio":100,"cantidad":2,"imagen":"mate.jpg"}]`)

	cart, err := svc.Get(context.Background(), "sess")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	item := cart.Items[0]
	if !item.TaxRate.IsZero() || !item.TaxIncluded {
		t.Fatalf("tax defaults wrong: rate=%s included=%v", item.TaxRate, item.TaxIncluded)
	}
	if item.ShippingAvailable {
		t.Fatal("shipping available should default to false")
	}
	if len(item.Images) != 1 || item.Images[0] != "mate.jpg" {
		t.Fatalf("images = %v, want [mate.jpg]", item.Images)
	}
	if item.ShippingConfig == nil || !item.ShippingConfig.FreeLocal {
		t.Fatalf("shipping config not backfilled: %+v", item.ShippingConfig)
	}
	if cart.TotalItems != 2 {
		t.Fatalf("total items = %d, want 2", cart.TotalItems)
	}
}

func TestMalformedSnapshotFallsBackToEmptyCart(t *testing.T) {
	svc, repo := testService(t)
	repo.snapshots["sess"] = types.RawJSON(`{"not":"a cart"`)

	cart, err := svc.Get(context.Background(), "sess")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(cart.Items))
	}
}

func TestReplaceNormalizesQuantities(t *testing.T) {
	svc, _ := testService(t)

	items := []types.LineItem{
		{ID: "p1", Name: "Mate", Price: decimal.NewFromInt(100), Quantity: 0},
		{ID: "p2", Name: "Bombilla", Price: decimal.NewFromInt(50), Quantity: 3},
	}

	cart, err := svc.Replace(context.Background(), "sess", nil, items)
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if cart.Items[0].Quantity != 1 {
		t.Fatalf("quantity = %d, want 1", cart.Items[0].Quantity)
	}
	if cart.TotalItems != 4 {
		t.Fatalf("total items = %d, want 4", cart.TotalItems)
	}
}
