package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tiendaref/tiendaref-backend/api/controllers"
	"github.com/tiendaref/tiendaref-backend/api/middleware"
	"github.com/tiendaref/tiendaref-backend/internal/auth"
	"github.com/tiendaref/tiendaref-backend/internal/cart"
	"github.com/tiendaref/tiendaref-backend/internal/payments"
	"github.com/tiendaref/tiendaref-backend/internal/products"
	"github.com/tiendaref/tiendaref-backend/internal/referrals"
	"github.com/tiendaref/tiendaref-backend/internal/shortlinks"
	"github.com/tiendaref/tiendaref-backend/pkg/config"
	"github.com/tiendaref/tiendaref-backend/pkg/logger"
	"github.com/tiendaref/tiendaref-backend/pkg/metrics"
	"github.com/tiendaref/tiendaref-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *metrics.HTTPMetrics

	DBPinger    controllers.Pinger
	RedisClient *redis.Client

	AuthService      auth.Service
	ProductService   products.Service
	CartService      cart.Service
	ShortLinkService shortlinks.Service
	ReferralService  referrals.Service
	PaymentService   payments.Service
	MetricsHandler   http.Handler
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(cfg.App.BaseURL),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy("login", cfg.AuthRateLimit.LoginWindow, cfg.AuthRateLimit.LoginIPLimit, cfg.AuthRateLimit.LoginEmailLimit)
	registerPolicy := middleware.NewAuthRateLimitPolicy("register", cfg.AuthRateLimit.RegisterWindow, cfg.AuthRateLimit.RegisterIPLimit, cfg.AuthRateLimit.RegisterEmailLimit)

	readiness := map[string]controllers.Pinger{
		"database": deps.DBPinger,
	}
	if deps.RedisClient != nil {
		readiness["redis"] = deps.RedisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, deps.RedisClient, logg)).
				Post("/register", controllers.Register(deps.AuthService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, deps.RedisClient, logg)).
				Post("/login", controllers.Login(deps.AuthService, logg))
		})

		r.Route("/productos", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.ProductService, logg))
			r.Get("/{id}", controllers.ProductGet(deps.ProductService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, logg))
			r.Get("/", controllers.CartGet(deps.CartService, logg))
			r.Post("/items", controllers.CartAdd(deps.CartService, logg))
			r.Put("/items/{productId}", controllers.CartSetQuantity(deps.CartService, logg))
			r.Delete("/items/{productId}", controllers.CartRemove(deps.CartService, logg))
			r.Delete("/", controllers.CartClear(deps.CartService, logg))
			r.Put("/", controllers.CartReplace(deps.CartService, logg))
			r.Post("/summary", controllers.CartSummary(deps.CartService, logg))
			r.Get("/totals", controllers.CartTotals(deps.CartService, logg))
		})

		r.Route("/short-links", func(r chi.Router) {
			r.Get("/resolve/{code}", controllers.LinkResolve(deps.ShortLinkService, logg))
			r.With(middleware.Auth(cfg.JWT, logg)).
				Post("/shared-cart", controllers.SharedCartCreate(deps.ShortLinkService, logg))
		})

		r.Route("/referrals", func(r chi.Router) {
			r.Get("/resolve/{code}", controllers.LinkResolve(deps.ShortLinkService, logg))
			r.Post("/attribution", controllers.AttributionRecord(deps.ReferralService, logg))
			r.Get("/attribution", controllers.AttributionRead(deps.ReferralService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, logg))
				r.Post("/create", controllers.ReferralCreate(deps.ShortLinkService, logg))
				r.Get("/stats", controllers.ReferralStats(deps.ReferralService, logg))
				r.Get("/commissions/{userId}", controllers.ReferralCommissions(deps.ReferralService, logg))
			})
		})

		r.Route("/payments", func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, logg))
			r.Get("/config", controllers.PaymentConfig(deps.PaymentService, logg))
			r.Post("/create-payment-intent", controllers.StripeIntentCreate(deps.PaymentService, logg))
			r.Post("/mercadopago/create-preference", controllers.MercadoPagoPreferenceCreate(deps.PaymentService, logg))
			r.Post("/confirm-payment", controllers.PaymentConfirm(deps.PaymentService, logg))
		})
	})

	return r
}
