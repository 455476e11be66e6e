package payments

import (
	"context"

	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/paymentintent"

	pkgmercadopago "github.com/tiendaref/tiendaref-backend/pkg/mercadopago"
	pkgstripe "github.com/tiendaref/tiendaref-backend/pkg/stripe"
)

// StripeGateway exposes the subset of Stripe operations checkout needs.
type StripeGateway interface {
	CreatePaymentIntent(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error)
}

type stripeGateway struct{}

// NewStripeGateway wraps the initialized Stripe client so the payment service
// can be tested against a fake.
func NewStripeGateway(api *pkgstripe.Client) StripeGateway {
	if api == nil {
		return nil
	}
	return &stripeGateway{}
}

func (g *stripeGateway) CreatePaymentIntent(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if params != nil {
		params.Context = ctx
	}
	return paymentintent.New(params)
}

func (g *stripeGateway) GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	return paymentintent.Get(id, params)
}

// MercadoPagoGateway exposes the preference operation checkout needs.
type MercadoPagoGateway interface {
	CreatePreference(ctx context.Context, request preference.Request) (*preference.Response, error)
}

type mercadoPagoGateway struct {
	client *pkgmercadopago.Client
}

// NewMercadoPagoGateway wraps the initialized Mercado Pago client.
func NewMercadoPagoGateway(client *pkgmercadopago.Client) MercadoPagoGateway {
	if client == nil {
		return nil
	}
	return &mercadoPagoGateway{client: client}
}

func (g *mercadoPagoGateway) CreatePreference(ctx context.Context, request preference.Request) (*preference.Response, error) {
	return g.client.Preferences().Create(ctx, request)
}
