package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/tiendaref/tiendaref-backend/internal/cart"
	"github.com/tiendaref/tiendaref-backend/internal/referrals"
	"github.com/tiendaref/tiendaref-backend/internal/shipping"
	"github.com/tiendaref/tiendaref-backend/pkg/db/models"
	pkgerrors "github.com/tiendaref/tiendaref-backend/pkg/errors"
	"github.com/tiendaref/tiendaref-backend/pkg/logger"
)

const (
	ProviderStripe      = "stripe"
	ProviderMercadoPago = "mercadopago"

	checkoutCurrency = "ars"
)

type cartService interface {
	Get(ctx context.Context, sessionID string) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type referralLedger interface {
	CreateCommission(ctx context.Context, input referrals.CommissionInput) (*models.Commission, error)
	Clear(ctx context.Context, sessionID string) error
}

// Service drives checkout against both payment providers. Totals are always
// recomputed from the stored cart; client-sent amounts are ignored.
type Service interface {
	Config(ctx context.Context) PublicConfig
	CreateStripeIntent(ctx context.Context, sessionID string) (*IntentResponse, error)
	CreateMercadoPagoPreference(ctx context.Context, sessionID string) (*PreferenceResponse, error)
	Confirm(ctx context.Context, input ConfirmInput) (*OrderDTO, error)
}

type service struct {
	repo      Repository
	carts     cartService
	referrals referralLedger
	stripeGW  StripeGateway
	mpGW      MercadoPagoGateway
	logg      *logger.Logger
	baseURL   string
	publicCfg PublicConfig
}

// ServiceParams bundles the dependencies required to build the payment service.
type ServiceParams struct {
	Repo               Repository
	Carts              cartService
	Referrals          referralLedger
	StripeGateway      StripeGateway
	MercadoPagoGateway MercadoPagoGateway
	Logger             *logger.Logger
	BaseURL            string
	PublicConfig       PublicConfig
}

// NewService constructs the checkout service. Either gateway may be nil when
// the provider is not configured; its endpoints then refuse requests.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart service is required")
	}
	if params.Referrals == nil {
		return nil, fmt.Errorf("referral ledger is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		repo:      params.Repo,
		carts:     params.Carts,
		referrals: params.Referrals,
		stripeGW:  params.StripeGateway,
		mpGW:      params.MercadoPagoGateway,
		logg:      params.Logger,
		baseURL:   strings.TrimRight(params.BaseURL, "/"),
		publicCfg: params.PublicConfig,
	}, nil
}

func (s *service) Config(ctx context.Context) PublicConfig {
	return s.publicCfg
}

// CreateStripeIntent opens a payment intent for the session's cart total,
// expressed in cents.
func (s *service) CreateStripeIntent(ctx context.Context, sessionID string) (*IntentResponse, error) {
	if s.stripeGW == nil {
		return nil, pkgerrors.New(pkgerrors.CodePayment, "stripe is not configured")
	}

	_, totals, err := s.loadCheckout(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	amount := totals.GrandTotal.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order total must be positive")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(checkoutCurrency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{"session_id": sessionID},
	}
	intent, err := s.stripeGW.CreatePaymentIntent(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePayment, err, "create payment intent")
	}

	return &IntentResponse{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          amount,
		Currency:        checkoutCurrency,
		Totals:          *totals,
	}, nil
}

// CreateMercadoPagoPreference opens a checkout preference listing the cart
// lines, with tax and shipping appended as separate items.
func (s *service) CreateMercadoPagoPreference(ctx context.Context, sessionID string) (*PreferenceResponse, error) {
	if s.mpGW == nil {
		return nil, pkgerrors.New(pkgerrors.CodePayment, "mercadopago is not configured")
	}

	cartState, totals, err := s.loadCheckout(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	items := make([]preference.ItemRequest, 0, len(cartState.Items)+2)
	for _, line := range cartState.Items {
		item := preference.ItemRequest{
			ID:         line.ID,
			Title:      line.Name,
			Quantity:   line.Quantity,
			UnitPrice:  line.Price.InexactFloat64(),
			CurrencyID: strings.ToUpper(checkoutCurrency),
		}
		if line.Image != nil {
			item.PictureURL = *line.Image
		}
		items = append(items, item)
	}
	if totals.TotalTax.IsPositive() {
		items = append(items, preference.ItemRequest{
			Title:      "Impuestos (IVA)",
			Quantity:   1,
			UnitPrice:  totals.TotalTax.InexactFloat64(),
			CurrencyID: strings.ToUpper(checkoutCurrency),
		})
	}
	if totals.TotalShipping.IsPositive() {
		items = append(items, preference.ItemRequest{
			Title:      "Envío",
			Quantity:   1,
			UnitPrice:  totals.TotalShipping.InexactFloat64(),
			CurrencyID: strings.ToUpper(checkoutCurrency),
		})
	}

	request := preference.Request{
		Items:             items,
		ExternalReference: sessionID,
		BackURLs: &preference.BackURLsRequest{
			Success: s.baseURL + "/checkout/success",
			Pending: s.baseURL + "/checkout/pending",
			Failure: s.baseURL + "/checkout/failure",
		},
		AutoReturn: "approved",
	}
	resp, err := s.mpGW.CreatePreference(ctx, request)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePayment, err, "create preference")
	}

	return &PreferenceResponse{
		PreferenceID:     resp.ID,
		InitPoint:        resp.InitPoint,
		SandboxInitPoint: resp.SandboxInitPoint,
		Totals:           *totals,
	}, nil
}

// Confirm records the completed payment exactly once per payment reference.
// Repeat confirmations return the stored order untouched.
func (s *service) Confirm(ctx context.Context, input ConfirmInput) (*OrderDTO, error) {
	reference := strings.TrimSpace(input.PaymentReference)
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment reference is required")
	}
	provider := strings.ToLower(strings.TrimSpace(input.Provider))
	if provider != ProviderStripe && provider != ProviderMercadoPago {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment provider")
	}

	existing, err := s.repo.FindOrderByPaymentReference(ctx, reference)
	if err == nil {
		return orderDTO(existing, true), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order")
	}

	if provider == ProviderStripe {
		if err := s.verifyStripePayment(ctx, reference); err != nil {
			return nil, err
		}
	}

	cartState, totals, err := s.loadCheckout(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	itemsJSON, err := json.Marshal(cartState.Items)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode order items")
	}

	order := &models.Order{
		PaymentReference: reference,
		Provider:         provider,
		UserID:           input.BuyerID,
		SessionID:        input.SessionID,
		Items:            itemsJSON,
		Subtotal:         totals.Subtotal,
		TotalTax:         totals.TotalTax,
		TotalShipping:    totals.TotalShipping,
		GrandTotal:       totals.GrandTotal,
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record order")
	}

	s.settleReferral(ctx, input, reference, totals.GrandTotal, provider)

	if err := s.carts.Clear(ctx, input.SessionID); err != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, input.SessionID), "cart clear after confirm failed")
	}

	return orderDTO(order, false), nil
}

// settleReferral credits the referrer and clears the attribution. Both steps
// are best effort; the order stands regardless.
func (s *service) settleReferral(ctx context.Context, input ConfirmInput, reference string, total decimal.Decimal, provider string) {
	_, err := s.referrals.CreateCommission(ctx, referrals.CommissionInput{
		SessionID:      input.SessionID,
		BuyerID:        input.BuyerID,
		BuyerEmail:     input.BuyerEmail,
		BuyerName:      input.BuyerName,
		OrderReference: reference,
		OrderTotal:     total,
		Provider:       provider,
	})
	if err != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, input.SessionID), "commission write failed")
		return
	}
	if err := s.referrals.Clear(ctx, input.SessionID); err != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, input.SessionID), "attribution clear failed")
	}
}

func (s *service) verifyStripePayment(ctx context.Context, reference string) error {
	if s.stripeGW == nil {
		return pkgerrors.New(pkgerrors.CodePayment, "stripe is not configured")
	}
	intent, err := s.stripeGW.GetPaymentIntent(ctx, reference)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePayment, err, "fetch payment intent")
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return pkgerrors.New(pkgerrors.CodePayment, "payment has not succeeded")
	}
	return nil
}

func (s *service) loadCheckout(ctx context.Context, sessionID string) (*cart.Cart, *shipping.Totals, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	cartState, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if len(cartState.Items) == 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	totals := shipping.AggregateCosts(cartState.Items)
	return cartState, &totals, nil
}

func orderDTO(order *models.Order, alreadyProcessed bool) *OrderDTO {
	return &OrderDTO{
		ID:               order.ID,
		PaymentReference: order.PaymentReference,
		Provider:         order.Provider,
		Totals: shipping.Totals{
			Subtotal:      order.Subtotal,
			TotalTax:      order.TotalTax,
			TotalShipping: order.TotalShipping,
			GrandTotal:    order.GrandTotal,
		},
		AlreadyProcessed: alreadyProcessed,
		CreatedAt:        order.CreatedAt,
	}
}
