package mercadopago

import (
	"context"
	"errors"
	"strings"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/tiendaref/tiendaref-backend/pkg/config"
	"github.com/tiendaref/tiendaref-backend/pkg/logger"
)

var errAccessTokenRequired = errors.New("mercadopago access token is required")

// Client wraps the Mercado Pago SDK clients used by checkout.
type Client struct {
	preferences preference.Client
	publicKey   string
}

// NewClient initializes the SDK with the configured access token.
func NewClient(ctx context.Context, cfg config.MercadoPagoConfig, logg *logger.Logger) (*Client, error) {
	accessToken := strings.TrimSpace(cfg.AccessToken)
	if accessToken == "" {
		return nil, errAccessTokenRequired
	}

	sdkCfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, err
	}

	if logg != nil {
		logg.Info(ctx, "mercadopago client initialized")
	}

	return &Client{
		preferences: preference.NewClient(sdkCfg),
		publicKey:   strings.TrimSpace(cfg.PublicKey),
	}, nil
}

// Preferences returns the checkout preference API client.
func (c *Client) Preferences() preference.Client {
	if c == nil {
		return nil
	}
	return c.preferences
}

// PublicKey returns the key handed to browser clients.
func (c *Client) PublicKey() string {
	if c == nil {
		return ""
	}
	return c.publicKey
}
