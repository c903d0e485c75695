package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// AppConfig holds HTTP server and site settings.
type AppConfig struct {
	Port         string
	Env          string
	SiteURL      string
	FrontendDir  string
	CORSOrigins  string
	SeedProducts bool
}

// DatabaseConfig selects the gorm driver and its connection settings.
type DatabaseConfig struct {
	Driver          string // sqlite, postgres or mysql
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// PricingConfig holds order pricing settings.
type PricingConfig struct {
	TaxRate decimal.Decimal
}

// HubtelConfig holds payment gateway credentials and endpoints.
type HubtelConfig struct {
	MerchantAccount string
	APIKey          string
	InitiateURL     string
	StatusURL       string
	Timeout         time.Duration // zero means no client timeout
}

// MailConfig holds SMTP settings for notifications.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	NotifyTo string
}

// RabbitMQConfig holds broker settings. An empty URL disables events.
type RabbitMQConfig struct {
	URL      string
	Exchange string
	Queue    string
}

// RedisConfig holds product cache settings. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// ReconcileConfig drives the payment reconciliation worker. A zero Interval disables it.
type ReconcileConfig struct {
	Interval  time.Duration
	OlderThan time.Duration
	BatchSize int
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string
}

// Config holds all configuration.
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Pricing   PricingConfig
	Hubtel    HubtelConfig
	Mail      MailConfig
	RabbitMQ  RabbitMQConfig
	Redis     RedisConfig
	Reconcile ReconcileConfig
	Log       LogConfig
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// SetDefaults registers every known key with its default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SITE_URL", "http://127.0.0.1:8080")
	v.SetDefault("FRONTEND_DIR", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("SEED_PRODUCTS", true)

	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "farmstore.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", time.Hour)

	v.SetDefault("TAX_RATE", "0.05")

	v.SetDefault("HUBTEL_MERCHANT_ACCOUNT", "")
	v.SetDefault("HUBTEL_API_KEY", "")
	v.SetDefault("HUBTEL_INITIATE_URL", "https://payproxyapi.hubtel.com/items/initiate")
	v.SetDefault("HUBTEL_STATUS_URL", "https://api-txnstatus.hubtel.com/transactions/{pos_sales_id}/status")
	v.SetDefault("HUBTEL_TIMEOUT", time.Duration(0))

	v.SetDefault("EMAIL_HOST", "")
	v.SetDefault("EMAIL_PORT", 587)
	v.SetDefault("EMAIL_HOST_USER", "")
	v.SetDefault("EMAIL_HOST_PASSWORD", "")
	v.SetDefault("DEFAULT_FROM_EMAIL", "webmaster@localhost")
	v.SetDefault("CONTACT_NOTIFICATION_EMAIL", "info@powerotfarms.com")

	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "farmstore")
	v.SetDefault("RABBITMQ_QUEUE", "farmstore_order_events")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_TTL", 5*time.Minute)

	v.SetDefault("RECONCILE_INTERVAL", time.Minute)
	v.SetDefault("RECONCILE_OLDER_THAN", 2*time.Minute)
	v.SetDefault("RECONCILE_BATCH_SIZE", 50)

	v.SetDefault("LOG_LEVEL", "info")
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	taxRate, err := decimal.NewFromString(strings.TrimSpace(v.GetString("TAX_RATE")))
	if err != nil {
		return nil, fmt.Errorf("invalid TAX_RATE %q: %w", v.GetString("TAX_RATE"), err)
	}
	if taxRate.IsNegative() {
		return nil, fmt.Errorf("invalid TAX_RATE %q: must not be negative", v.GetString("TAX_RATE"))
	}

	driver := strings.ToLower(v.GetString("DB_DRIVER"))
	switch driver {
	case "sqlite", "postgres", "mysql":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	port := v.GetString("APP_PORT")
	if port != "" && !strings.Contains(port, ":") {
		port = ":" + port
	}

	return &Config{
		App: AppConfig{
			Port:         port,
			Env:          v.GetString("APP_ENV"),
			SiteURL:      strings.TrimRight(v.GetString("SITE_URL"), "/"),
			FrontendDir:  v.GetString("FRONTEND_DIR"),
			CORSOrigins:  v.GetString("CORS_ALLOWED_ORIGINS"),
			SeedProducts: v.GetBool("SEED_PRODUCTS"),
		},
		Database: DatabaseConfig{
			Driver:          driver,
			DSN:             v.GetString("DATABASE_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Pricing: PricingConfig{TaxRate: taxRate},
		Hubtel: HubtelConfig{
			MerchantAccount: v.GetString("HUBTEL_MERCHANT_ACCOUNT"),
			APIKey:          v.GetString("HUBTEL_API_KEY"),
			InitiateURL:     v.GetString("HUBTEL_INITIATE_URL"),
			StatusURL:       v.GetString("HUBTEL_STATUS_URL"),
			Timeout:         v.GetDuration("HUBTEL_TIMEOUT"),
		},
		Mail: MailConfig{
			Host:     v.GetString("EMAIL_HOST"),
			Port:     v.GetInt("EMAIL_PORT"),
			Username: v.GetString("EMAIL_HOST_USER"),
			Password: v.GetString("EMAIL_HOST_PASSWORD"),
			From:     v.GetString("DEFAULT_FROM_EMAIL"),
			NotifyTo: v.GetString("CONTACT_NOTIFICATION_EMAIL"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
			Queue:    v.GetString("RABBITMQ_QUEUE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      v.GetDuration("REDIS_TTL"),
		},
		Reconcile: ReconcileConfig{
			Interval:  v.GetDuration("RECONCILE_INTERVAL"),
			OlderThan: v.GetDuration("RECONCILE_OLDER_THAN"),
			BatchSize: v.GetInt("RECONCILE_BATCH_SIZE"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}, nil
}
