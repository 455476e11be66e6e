package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/tiendaref/tiendaref-backend/internal/auth"
	"github.com/tiendaref/tiendaref-backend/internal/cart"
	"github.com/tiendaref/tiendaref-backend/internal/payments"
	"github.com/tiendaref/tiendaref-backend/internal/products"
	"github.com/tiendaref/tiendaref-backend/internal/referrals"
	"github.com/tiendaref/tiendaref-backend/internal/shipping"
	"github.com/tiendaref/tiendaref-backend/internal/shortlinks"
	"github.com/tiendaref/tiendaref-backend/pkg/config"
	"github.com/tiendaref/tiendaref-backend/pkg/db/models"
	"github.com/tiendaref/tiendaref-backend/pkg/logger"
	"github.com/tiendaref/tiendaref-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.AuthResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubProductService struct{}

func (stubProductService) List(ctx context.Context, input products.ListInput) ([]products.ProductDTO, error) {
	return []products.ProductDTO{}, nil
}

func (stubProductService) Get(ctx context.Context, id uuid.UUID) (*products.ProductDTO, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubCartService struct{}

func (stubCartService) Get(ctx context.Context, sessionID string) (*cart.Cart, error) {
	return &cart.Cart{Items: []types.LineItem{}}, nil
}

func (stubCartService) Add(ctx context.Context, sessionID string, userID *uuid.UUID, input cart.AddInput) (*cart.Cart, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubCartService) Remove(ctx context.Context, sessionID, productID string) (*cart.Cart, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubCartService) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (*cart.Cart, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubCartService) Clear(ctx context.Context, sessionID string) error { return nil }

func (stubCartService) Replace(ctx context.Context, sessionID string, userID *uuid.UUID, items []types.LineItem) (*cart.Cart, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubCartService) Summary(ctx context.Context, sessionID string, buyer types.Location) (*shipping.Summary, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubCartService) Totals(ctx context.Context, sessionID string) (*shipping.Totals, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubLinkService struct{}

func (stubLinkService) Resolve(ctx context.Context, code string) (*shortlinks.Resolution, error) {
	return &shortlinks.Resolution{Found: false, RedirectTo: "/register"}, nil
}

func (stubLinkService) CreateSharedCart(ctx context.Context, ownerID uuid.UUID, items []types.LineItem) (*shortlinks.CreatedLink, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubLinkService) CreateReferral(ctx context.Context, ownerID uuid.UUID) (*shortlinks.CreatedLink, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubReferralService struct{}

func (stubReferralService) Record(ctx context.Context, sessionID, referrerID, source string) (*referrals.Attribution, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubReferralService) Read(ctx context.Context, sessionID string) (*referrals.Attribution, error) {
	return nil, nil
}

func (stubReferralService) Clear(ctx context.Context, sessionID string) error { return nil }

func (stubReferralService) CreateCommission(ctx context.Context, input referrals.CommissionInput) (*models.Commission, error) {
	return nil, nil
}

func (stubReferralService) Stats(ctx context.Context, referrerID string) (*referrals.Stats, error) {
	return &referrals.Stats{}, nil
}

func (stubReferralService) Commissions(ctx context.Context, referrerID string) ([]models.Commission, error) {
	return nil, nil
}

type stubPaymentService struct{}

func (stubPaymentService) Config(ctx context.Context) payments.PublicConfig {
	return payments.PublicConfig{StripePublishableKey: "pk_test_x"}
}

func (stubPaymentService) CreateStripeIntent(ctx context.Context, sessionID string) (*payments.IntentResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubPaymentService) CreateMercadoPagoPreference(ctx context.Context, sessionID string) (*payments.PreferenceResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubPaymentService) Confirm(ctx context.Context, input payments.ConfirmInput) (*payments.OrderDTO, error) {
	return nil, fmt.Errorf("not implemented")
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "dev"
	cfg.App.BaseURL = "http://localhost:5173"
	cfg.JWT = config.JWTConfig{Secret: "router-test-secret", Issuer: "tiendaref-test", ExpirationMinutes: 60}

	return NewRouter(Deps{
		Config:           cfg,
		Logger:           logger.New(logger.Options{Output: io.Discard}),
		DBPinger:         stubPinger{},
		AuthService:      stubAuthService{},
		ProductService:   stubProductService{},
		CartService:      stubCartService{},
		ShortLinkService: stubLinkService{},
		ReferralService:  stubReferralService{},
		PaymentService:   stubPaymentService{},
	})
}

func TestHealthLive(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/referrals/stats", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("invalid error envelope: %v", err)
	}
	if envelope.Error.Code == "" {
		t.Fatal("expected an error code in the envelope")
	}
}

func TestUnknownShortCodeStillResolves(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/short-links/resolve/ZZZZZZ", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var envelope struct {
		Data shortlinks.Resolution `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if envelope.Data.Found {
		t.Fatal("unknown code reported as found")
	}
	if envelope.Data.RedirectTo != "/register" {
		t.Fatalf("redirect = %q, want /register", envelope.Data.RedirectTo)
	}
}

func TestCartRequiresSessionID(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	req.Header.Set("X-Session-Id", "sess-1")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status with session = %d, want 200", rec.Code)
	}
}
