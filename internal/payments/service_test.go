package payments

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/tiendaref/tiendaref-backend/internal/cart"
	"github.com/tiendaref/tiendaref-backend/internal/referrals"
	"github.com/tiendaref/tiendaref-backend/pkg/db/models"
	pkgerrors "github.com/tiendaref/tiendaref-backend/pkg/errors"
	"github.com/tiendaref/tiendaref-backend/pkg/logger"
	"github.com/tiendaref/tiendaref-backend/pkg/types"
)

type fakeOrderRepo struct {
	byReference map[string]*models.Order
}

func (f *fakeOrderRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	f.byReference[order.PaymentReference] = order
	return nil
}

func (f *fakeOrderRepo) FindOrderByPaymentReference(ctx context.Context, reference string) (*models.Order, error) {
	order, ok := f.byReference[reference]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

type fakeCartService struct {
	carts   map[string][]types.LineItem
	cleared []string
}

func (f *fakeCartService) Get(ctx context.Context, sessionID string) (*cart.Cart, error) {
	items := f.carts[sessionID]
	return &cart.Cart{Items: items}, nil
}

func (f *fakeCartService) Clear(ctx context.Context, sessionID string) error {
	f.cleared = append(f.cleared, sessionID)
	delete(f.carts, sessionID)
	return nil
}

type fakeLedger struct {
	commissions []referrals.CommissionInput
	cleared     []string
}

func (f *fakeLedger) CreateCommission(ctx context.Context, input referrals.CommissionInput) (*models.Commission, error) {
	f.commissions = append(f.commissions, input)
	return &models.Commission{OrderReference: input.OrderReference}, nil
}

func (f *fakeLedger) Clear(ctx context.Context, sessionID string) error {
	f.cleared = append(f.cleared, sessionID)
	return nil
}

type fakeStripeGateway struct {
	created []*stripe.PaymentIntentParams
	status  stripe.PaymentIntentStatus
}

func (f *fakeStripeGateway) CreatePaymentIntent(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	f.created = append(f.created, params)
	return &stripe.PaymentIntent{ID: "pi_test", ClientSecret: "pi_test_secret"}, nil
}

func (f *fakeStripeGateway) GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	status := f.status
	if status == "" {
		status = stripe.PaymentIntentStatusSucceeded
	}
	return &stripe.PaymentIntent{ID: id, Status: status}, nil
}

type fakeMercadoPagoGateway struct {
	requests []preference.Request
}

func (f *fakeMercadoPagoGateway) CreatePreference(ctx context.Context, request preference.Request) (*preference.Response, error) {
	f.requests = append(f.requests, request)
	return &preference.Response{ID: "pref_test", InitPoint: "https://mp.example/init"}, nil
}

func checkoutItems() []types.LineItem {
	fifty := decimal.NewFromInt(50)
	return []types.LineItem{
		{
			ID:                "p1",
			Name:              "Yerba",
			Price:             decimal.NewFromInt(100),
			Quantity:          1,
			TaxRate:           decimal.NewFromInt(21),
			TaxIncluded:       false,
			ShippingAvailable: true,
			FlatShippingCost:  &fifty,
			Company:           &types.CompanyRef{ID: "co-1", Name: "Yerbatera"},
		},
		{
			ID:          "p2",
			Name:        "Mate",
			Price:       decimal.NewFromInt(50),
			Quantity:    2,
			TaxRate:     decimal.NewFromInt(21),
			TaxIncluded: true,
			Company:     &types.CompanyRef{ID: "co-1", Name: "Yerbatera"},
		},
	}
}

func paymentsTestService(t *testing.T) (Service, *fakeOrderRepo, *fakeCartService, *fakeLedger, *fakeStripeGateway, *fakeMercadoPagoGateway) {
	t.Helper()
	repo := &fakeOrderRepo{byReference: map[string]*models.Order{}}
	carts := &fakeCartService{carts: map[string][]types.LineItem{"sess": checkoutItems()}}
	ledger := &fakeLedger{}
	stripeGW := &fakeStripeGateway{}
	mpGW := &fakeMercadoPagoGateway{}

	svc, err := NewService(ServiceParams{
		Repo:               repo,
		Carts:              carts,
		Referrals:          ledger,
		StripeGateway:      stripeGW,
		MercadoPagoGateway: mpGW,
		Logger:             logger.New(logger.Options{Output: io.Discard}),
		BaseURL:            "https://tienda.example",
		PublicConfig:       PublicConfig{StripePublishableKey: "pk_test_x", MercadoPagoPublicKey: "TEST-pub"},
	})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc, repo, carts, ledger, stripeGW, mpGW
}

func TestCreateStripeIntentChargesGrandTotalInCents(t *testing.T) {
	svc, _, _, _, stripeGW, _ := paymentsTestService(t)

	resp, err := svc.CreateStripeIntent(context.Background(), "sess")
	if err != nil {
		t.Fatalf("create intent failed: %v", err)
	}
	// subtotal 200, tax 21, shipping 50 -> 271.00 ARS
	if resp.Amount != 27100 {
		t.Fatalf("amount = %d, want 27100", resp.Amount)
	}
	if resp.ClientSecret != "pi_test_secret" {
		t.Fatalf("client secret = %q", resp.ClientSecret)
	}
	if len(stripeGW.created) != 1 {
		t.Fatalf("expected 1 intent, got %d", len(stripeGW.created))
	}
	if got := stripeGW.created[0].Metadata["session_id"]; got != "sess" {
		t.Fatalf("metadata session = %q, want sess", got)
	}
}

func TestCreateStripeIntentRejectsEmptyCart(t *testing.T) {
	svc, _, carts, _, _, _ := paymentsTestService(t)
	carts.carts["sess"] = nil

	_, err := svc.CreateStripeIntent(context.Background(), "sess")
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateMercadoPagoPreferenceAddsTaxAndShippingLines(t *testing.T) {
	svc, _, _, _, _, mpGW := paymentsTestService(t)

	resp, err := svc.CreateMercadoPagoPreference(context.Background(), "sess")
	if err != nil {
		t.Fatalf("create preference failed: %v", err)
	}
	if resp.InitPoint == "" {
		t.Fatal("expected an init point")
	}
	if len(mpGW.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(mpGW.requests))
	}
	// 2 cart lines plus tax and shipping lines
	items := mpGW.requests[0].Items
	if len(items) != 4 {
		t.Fatalf("items = %d, want 4", len(items))
	}
	if mpGW.requests[0].ExternalReference != "sess" {
		t.Fatalf("external reference = %q", mpGW.requests[0].ExternalReference)
	}
}

func TestConfirmRecordsOrderAndSettlesReferral(t *testing.T) {
	svc, repo, carts, ledger, _, _ := paymentsTestService(t)

	order, err := svc.Confirm(context.Background(), ConfirmInput{
		SessionID:        "sess",
		PaymentReference: "pi_123",
		Provider:         ProviderStripe,
	})
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if order.AlreadyProcessed {
		t.Fatal("first confirmation marked as already processed")
	}
	if !order.Totals.GrandTotal.Equal(decimal.NewFromInt(271)) {
		t.Fatalf("grand total = %s, want 271", order.Totals.GrandTotal)
	}
	if _, ok := repo.byReference["pi_123"]; !ok {
		t.Fatal("order not stored")
	}
	if len(ledger.commissions) != 1 {
		t.Fatalf("expected 1 commission attempt, got %d", len(ledger.commissions))
	}
	if !ledger.commissions[0].OrderTotal.Equal(decimal.NewFromInt(271)) {
		t.Fatalf("commission total = %s, want 271", ledger.commissions[0].OrderTotal)
	}
	if len(carts.cleared) != 1 || carts.cleared[0] != "sess" {
		t.Fatalf("cart not cleared: %v", carts.cleared)
	}
	if len(ledger.cleared) != 1 || ledger.cleared[0] != "sess" {
		t.Fatalf("attribution not cleared: %v", ledger.cleared)
	}
}

func TestConfirmIsIdempotentPerReference(t *testing.T) {
	svc, _, carts, ledger, _, _ := paymentsTestService(t)
	ctx := context.Background()

	first, err := svc.Confirm(ctx, ConfirmInput{SessionID: "sess", PaymentReference: "pi_123", Provider: ProviderStripe})
	if err != nil {
		t.Fatalf("first confirm failed: %v", err)
	}

	carts.carts["sess"] = checkoutItems()
	second, err := svc.Confirm(ctx, ConfirmInput{SessionID: "sess", PaymentReference: "pi_123", Provider: ProviderStripe})
	if err != nil {
		t.Fatalf("second confirm failed: %v", err)
	}
	if !second.AlreadyProcessed {
		t.Fatal("repeat confirmation not marked as already processed")
	}
	if second.ID != first.ID {
		t.Fatalf("repeat returned a different order: %s vs %s", second.ID, first.ID)
	}
	if len(ledger.commissions) != 1 {
		t.Fatalf("commission recorded twice: %d", len(ledger.commissions))
	}
}

func TestConfirmRejectsUnsettledStripePayment(t *testing.T) {
	svc, repo, _, _, stripeGW, _ := paymentsTestService(t)
	stripeGW.status = stripe.PaymentIntentStatusRequiresPaymentMethod

	_, err := svc.Confirm(context.Background(), ConfirmInput{
		SessionID:        "sess",
		PaymentReference: "pi_123",
		Provider:         ProviderStripe,
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodePayment {
		t.Fatalf("expected payment error, got %v", err)
	}
	if len(repo.byReference) != 0 {
		t.Fatal("order stored despite failed verification")
	}
}

func TestConfirmRejectsUnknownProvider(t *testing.T) {
	svc, _, _, _, _, _ := paymentsTestService(t)

	_, err := svc.Confirm(context.Background(), ConfirmInput{
		SessionID:        "sess",
		PaymentReference: "ref-1",
		Provider:         "paypal",
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
