package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

const (
	devSessionSecret = "dev-session-secret"
	productionEnv    = "production"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	Session  SessionConfig
	Redis    RedisConfig
	Logging  LoggingConfig
	Billing  BillingConfig
	OpenAI   OpenAIConfig
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	FrontendURL     string
	PublicURL       string
	Environment     string
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsProduction reports whether the server runs in production mode
func (s ServerConfig) IsProduction() bool {
	return s.Environment == productionEnv
}

// DatabaseConfig contains relational database configuration
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// For SQLite
	Path string
}

// DSN returns the lib/pq connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// MongoConfig contains MongoDB configuration, used when Database.Driver is mongo
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// SessionConfig contains session cookie and store configuration
type SessionConfig struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	CacheSize  int
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string
	Format     string // json or console
	OutputPath string
}

// BillingConfig contains Stripe and checkout price configuration
type BillingConfig struct {
	StripeSecretKey      string
	StripePublishableKey string
	StripeWebhookSecret  string
	StripeAPIURL         string
	Currency             string
	UnitAmount           int64
	ProductName          string
	Interval             string
	CheckoutLockTTL      time.Duration
}

// OpenAIConfig contains completion proxy configuration
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string
	CoreModel string
	PlusModel string
	MaxTokens int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("HOST", "0.0.0.0"),
			Port:            getEnvAsInt("PORT", 3000),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),
			PublicURL:       getEnv("SERVER_PUBLIC_URL", "http://localhost:3000"),
			Environment:     getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", DriverSQLite),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "arcgate"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			Path:            getEnv("DB_PATH", "./data.db"),
		},
		Mongo: MongoConfig{
			URI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGO_DATABASE", "arcgate"),
			ConnectTimeout: getEnvAsDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", devSessionSecret),
			CookieName: getEnv("SESSION_COOKIE_NAME", "arc_session"),
			TTL:        getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			CacheSize:  getEnvAsInt("SESSION_CACHE_SIZE", 10000),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			OutputPath: getEnv("LOG_OUTPUT", "stdout"),
		},
		Billing: BillingConfig{
			StripeSecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
			StripePublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
			StripeWebhookSecret:  getEnv("STRIPE_WEBHOOK_SECRET", ""),
			StripeAPIURL:         getEnv("STRIPE_API_URL", ""),
			Currency:             getEnv("BILLING_CURRENCY", "gbp"),
			UnitAmount:           getEnvAsInt64("BILLING_UNIT_AMOUNT", 50),
			ProductName:          getEnv("BILLING_PRODUCT_NAME", "arc-plus Access"),
			Interval:             getEnv("BILLING_INTERVAL", "week"),
			CheckoutLockTTL:      getEnvAsDuration("BILLING_CHECKOUT_LOCK_TTL", 30*time.Second),
		},
		OpenAI: OpenAIConfig{
			APIKey:    getEnv("OPENAI_API_KEY", ""),
			BaseURL:   getEnv("OPENAI_BASE_URL", ""),
			CoreModel: getEnv("OPENAI_CORE_MODEL", "gpt-4o-mini"),
			PlusModel: getEnv("OPENAI_PLUS_MODEL", "gpt-4-turbo"),
			MaxTokens: getEnvAsInt("OPENAI_MAX_TOKENS", 50),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres, DriverMongo:
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Session.CacheSize <= 0 {
		return fmt.Errorf("SESSION_CACHE_SIZE must be positive")
	}
	if c.Billing.CheckoutLockTTL <= 0 {
		return fmt.Errorf("BILLING_CHECKOUT_LOCK_TTL must be positive")
	}
	if c.Billing.UnitAmount <= 0 {
		return fmt.Errorf("BILLING_UNIT_AMOUNT must be positive")
	}
	switch c.Billing.Interval {
	case "day", "week", "month", "year":
	default:
		return fmt.Errorf("unsupported BILLING_INTERVAL: %s", c.Billing.Interval)
	}
	if c.OpenAI.MaxTokens <= 0 {
		return fmt.Errorf("OPENAI_MAX_TOKENS must be positive")
	}

	if c.Server.IsProduction() {
		if c.Session.Secret == "" || c.Session.Secret == devSessionSecret {
			return fmt.Errorf("SESSION_SECRET must be set and should not use default value in production")
		}
		required := map[string]string{
			"STRIPE_SECRET_KEY":     c.Billing.StripeSecretKey,
			"STRIPE_WEBHOOK_SECRET": c.Billing.StripeWebhookSecret,
			"OPENAI_API_KEY":        c.OpenAI.APIKey,
		}
		for name, value := range required {
			if value == "" {
				return fmt.Errorf("%s must be set in production", name)
			}
		}
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
