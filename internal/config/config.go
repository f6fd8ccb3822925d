package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName          string
	AppVersion       string
	Environment      string
	ListenAddr       string
	AppURL           string
	AuthCookieSecure bool

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	Stripe    StripeConfig
	Board     BoardConfig
	RateLimit RateLimitConfig

	// ExternalTimeout bounds every outbound call to Stripe and the
	// work-tracking board. Client defaults are not trusted.
	ExternalTimeout time.Duration

	Bootstrap BootstrapConfig
}

type StripeConfig struct {
	SecretKey string
	Country   string
}

// BoardConfig points at the external work-tracking board API.
type BoardConfig struct {
	APIURL   string
	APIToken string
}

type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LoginRate        float64
	LoginBurst       int
	LeadSubmitRate   float64
	LeadSubmitBurst  int
	WindowTTLSeconds int

	// Payout onboarding is capped in process memory, independent of the
	// Redis limiter above.
	PayoutLimit         int
	PayoutWindowSeconds int
}

type BootstrapConfig struct {
	EnsureDefaultAdmin bool
	AdminEmail         string
	AdminPassword      string
}

var Module = fx.Provide(Load)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	return Config{
		AppName:          getenv("APP_SERVICE", "portal"),
		AppVersion:       getenv("APP_VERSION", "0.1.0"),
		Environment:      environment,
		ListenAddr:       getenv("LISTEN_ADDR", ":8080"),
		AppURL:           strings.TrimRight(getenv("APP_URL", "http://localhost:8080"), "/"),
		AuthCookieSecure: authCookieSecure,
		OTLPEndpoint:     getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "portal"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 1800),

		Stripe: StripeConfig{
			SecretKey: strings.TrimSpace(getenv("STRIPE_SECRET_KEY", "")),
			Country:   getenv("STRIPE_ACCOUNT_COUNTRY", "US"),
		},
		Board: BoardConfig{
			APIURL:   getenv("BOARD_API_URL", "https://api.monday.com/v2"),
			APIToken: strings.TrimSpace(getenv("BOARD_API_TOKEN", "")),
		},
		RateLimit: RateLimitConfig{
			Enabled:          getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:        strings.TrimSpace(getenv("RATE_LIMIT_REDIS_ADDR", "")),
			RedisPassword:    strings.TrimSpace(getenv("RATE_LIMIT_REDIS_PASSWORD", "")),
			RedisDB:          getenvInt("RATE_LIMIT_REDIS_DB", 0),
			LoginRate:        getenvFloat("RATE_LIMIT_LOGIN_RATE", 1),
			LoginBurst:       getenvInt("RATE_LIMIT_LOGIN_BURST", 5),
			LeadSubmitRate:   getenvFloat("RATE_LIMIT_LEAD_SUBMIT_RATE", 0.5),
			LeadSubmitBurst:  getenvInt("RATE_LIMIT_LEAD_SUBMIT_BURST", 10),
			WindowTTLSeconds: getenvInt("RATE_LIMIT_WINDOW_TTL_SECONDS", 600),

			PayoutLimit:         getenvInt("RATE_LIMIT_PAYOUT_LIMIT", 5),
			PayoutWindowSeconds: getenvInt("RATE_LIMIT_PAYOUT_WINDOW_SECONDS", 60),
		},

		ExternalTimeout: time.Duration(getenvInt("EXTERNAL_TIMEOUT_SECONDS", 10)) * time.Second,

		Bootstrap: BootstrapConfig{
			EnsureDefaultAdmin: getenvBool("BOOTSTRAP_DEFAULT_ADMIN", true),
			AdminEmail:         getenv("BOOTSTRAP_ADMIN_EMAIL", "admin@localhost"),
			AdminPassword:      getenv("BOOTSTRAP_ADMIN_PASSWORD", "changeme123"),
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
