package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is passed to envconfig; individual tags carry the full name.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Config aggregates every runtime setting the service reads from the environment.
type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	FeatureFlags  FeatureFlagsConfig
	AuthRateLimit AuthRateLimitConfig
	Referrals     ReferralsConfig
	ShortLinks    ShortLinksConfig
	Stripe        StripeConfig
	MercadoPago   MercadoPagoConfig
}

// Load parses the environment into a Config and normalizes derived values.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TIENDAREF_APP_ENV" required:"true"`
	Port         string `envconfig:"TIENDAREF_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TIENDAREF_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TIENDAREF_LOG_WARN_STACK" default:"false"`
	BaseURL      string `envconfig:"TIENDAREF_BASE_URL" default:"http://localhost:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TIENDAREF_DB_DSN"`
	Driver string `envconfig:"TIENDAREF_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TIENDAREF_DB_HOST"`
	LegacyPort     int    `envconfig:"TIENDAREF_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TIENDAREF_DB_USER"`
	LegacyPassword string `envconfig:"TIENDAREF_DB_PASSWORD"`
	LegacyName     string `envconfig:"TIENDAREF_DB_NAME"`
	LegacySSLMode  string `envconfig:"TIENDAREF_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TIENDAREF_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TIENDAREF_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TIENDAREF_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TIENDAREF_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN backfills DSN from the legacy host/port/user variables when unset.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("database DSN or host/user/name settings are required")
	}
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.LegacyUser, d.LegacyPassword),
		Host:   fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:   d.LegacyName,
	}
	q := dsn.Query()
	q.Set("sslmode", d.LegacySSLMode)
	dsn.RawQuery = q.Encode()
	d.DSN = dsn.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"TIENDAREF_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TIENDAREF_REDIS_ADDR"`
	Password     string        `envconfig:"TIENDAREF_REDIS_PASSWORD"`
	DB           int           `envconfig:"TIENDAREF_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TIENDAREF_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TIENDAREF_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TIENDAREF_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TIENDAREF_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TIENDAREF_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TIENDAREF_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TIENDAREF_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"TIENDAREF_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TIENDAREF_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TIENDAREF_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TIENDAREF_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TIENDAREF_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TIENDAREF_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"TIENDAREF_RL_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit       int           `envconfig:"TIENDAREF_RL_LOGIN_IP_LIMIT" default:"20"`
	LoginEmailLimit    int           `envconfig:"TIENDAREF_RL_LOGIN_EMAIL_LIMIT" default:"5"`
	RegisterWindow     time.Duration `envconfig:"TIENDAREF_RL_REGISTER_WINDOW" default:"1h"`
	RegisterIPLimit    int           `envconfig:"TIENDAREF_RL_REGISTER_IP_LIMIT" default:"30"`
	RegisterEmailLimit int           `envconfig:"TIENDAREF_RL_REGISTER_EMAIL_LIMIT" default:"3"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TIENDAREF_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TIENDAREF_AUTO_MIGRATE" default:"false"`
}

type ReferralsConfig struct {
	// CommissionRatePercent is applied to the order grand total when an
	// attributed purchase completes.
	CommissionRatePercent int `envconfig:"TIENDAREF_REFERRAL_COMMISSION_RATE" default:"10"`
}

type ShortLinksConfig struct {
	CodeLength int           `envconfig:"TIENDAREF_SHORT_LINK_CODE_LENGTH" default:"6"`
	CacheTTL   time.Duration `envconfig:"TIENDAREF_SHORT_LINK_CACHE_TTL" default:"0"`
}

type StripeConfig struct {
	APIKey         string `envconfig:"TIENDAREF_STRIPE_API_KEY"`
	PublishableKey string `envconfig:"TIENDAREF_STRIPE_PUBLISHABLE_KEY"`
	Env            string `envconfig:"TIENDAREF_STRIPE_ENV" default:"test"`
}

// Environment reports the configured Stripe environment.
func (s StripeConfig) Environment() string {
	return s.Env
}

type MercadoPagoConfig struct {
	AccessToken string `envconfig:"TIENDAREF_MERCADOPAGO_ACCESS_TOKEN"`
	PublicKey   string `envconfig:"TIENDAREF_MERCADOPAGO_PUBLIC_KEY"`
}
