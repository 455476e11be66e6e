package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tiendaref/tiendaref-backend/api/routes"
	"github.com/tiendaref/tiendaref-backend/internal/auth"
	"github.com/tiendaref/tiendaref-backend/internal/cart"
	"github.com/tiendaref/tiendaref-backend/internal/payments"
	"github.com/tiendaref/tiendaref-backend/internal/products"
	"github.com/tiendaref/tiendaref-backend/internal/referrals"
	"github.com/tiendaref/tiendaref-backend/internal/shortlinks"
	"github.com/tiendaref/tiendaref-backend/internal/users"
	"github.com/tiendaref/tiendaref-backend/pkg/config"
	"github.com/tiendaref/tiendaref-backend/pkg/db"
	"github.com/tiendaref/tiendaref-backend/pkg/logger"
	pkgmercadopago "github.com/tiendaref/tiendaref-backend/pkg/mercadopago"
	"github.com/tiendaref/tiendaref-backend/pkg/metrics"
	"github.com/tiendaref/tiendaref-backend/pkg/migrate"
	"github.com/tiendaref/tiendaref-backend/pkg/redis"
	pkgstripe "github.com/tiendaref/tiendaref-backend/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	userRepo := users.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	linkRepo := shortlinks.NewRepository(dbClient.DB())
	referralRepo := referrals.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())
	orderRepo := payments.NewRepository(dbClient.DB())

	cartService, err := cart.NewService(cartRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	linkService, err := shortlinks.NewService(linkRepo, redisClient, logg, cfg.ShortLinks, cfg.App.BaseURL)
	if err != nil {
		logg.Error(context.Background(), "failed to create short link service", err)
		os.Exit(1)
	}

	referralService, err := referrals.NewService(referralRepo, logg, cfg.Referrals)
	if err != nil {
		logg.Error(context.Background(), "failed to create referral service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(productRepo, userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		LinkResolver:   linkService,
		Referrals:      referralService,
		Logger:         logg,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	var stripeGateway payments.StripeGateway
	if cfg.Stripe.APIKey != "" {
		stripeClient, err := pkgstripe.NewClient(context.Background(), cfg.Stripe, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap stripe", err)
			os.Exit(1)
		}
		stripeGateway = payments.NewStripeGateway(stripeClient)
	} else {
		logg.Warn(context.Background(), "stripe api key not set, stripe checkout disabled")
	}

	var mpGateway payments.MercadoPagoGateway
	if cfg.MercadoPago.AccessToken != "" {
		mpClient, err := pkgmercadopago.NewClient(context.Background(), cfg.MercadoPago, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap mercadopago", err)
			os.Exit(1)
		}
		mpGateway = payments.NewMercadoPagoGateway(mpClient)
	} else {
		logg.Warn(context.Background(), "mercadopago access token not set, mercadopago checkout disabled")
	}

	paymentService, err := payments.NewService(payments.ServiceParams{
		Repo:               orderRepo,
		Carts:              cartService,
		Referrals:          referralService,
		StripeGateway:      stripeGateway,
		MercadoPagoGateway: mpGateway,
		Logger:             logg,
		BaseURL:            cfg.App.BaseURL,
		PublicConfig: payments.PublicConfig{
			StripePublishableKey: cfg.Stripe.PublishableKey,
			MercadoPagoPublicKey: cfg.MercadoPago.PublicKey,
		},
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:           cfg,
			Logger:           logg,
			Metrics:          httpMetrics,
			DBPinger:         dbClient,
			RedisClient:      redisClient,
			AuthService:      authService,
			ProductService:   productService,
			CartService:      cartService,
			ShortLinkService: linkService,
			ReferralService:  referralService,
			PaymentService:   paymentService,
			MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
