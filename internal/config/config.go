package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	S3     S3Config
	Log    LogConfig
	OCR    OCRConfig
	CORS   CORSConfig
	Queue  QueueConfig
	Email  EmailConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	AccessTokenExpiry time.Duration `mapstructure:"access_expiry"`
	Issuer            string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OCRProviderConfig holds settings for a single OCR backend.
type OCRProviderConfig struct {
	Provider    string `mapstructure:"provider"`
	APIKey      string `mapstructure:"api_key"`
	Endpoint    string `mapstructure:"endpoint"`
	BinaryPath  string `mapstructure:"binary_path"`
	Languages   string `mapstructure:"languages"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// OCRConfig holds OCR settings with multi-provider support. Primary is tried
// first; Secondary is the fallback when the primary is unavailable or does
// not support the document type.
type OCRConfig struct {
	Primary   OCRProviderConfig `mapstructure:"primary"`
	Secondary OCRProviderConfig `mapstructure:"secondary"`
}

// SecondaryConfig returns the secondary OCR provider config, or nil if not
// configured.
func (o *OCRConfig) SecondaryConfig() *OCRProviderConfig {
	if o.Secondary.Provider != "" {
		return &o.Secondary
	}
	return nil
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// QueueConfig holds processing queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	Concurrency      int `mapstructure:"concurrency"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// Load reads configuration from environment variables with the PANTRIO_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PANTRIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "pantrio")
	v.SetDefault("db.password", "pantrio_secret")
	v.SetDefault("db.name", "pantrio_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "24h")
	v.SetDefault("jwt.issuer", "pantrio")

	// S3 defaults
	v.SetDefault("s3.region", "eu-west-3")
	v.SetDefault("s3.bucket", "pantrio-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 10)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 5)
	v.SetDefault("queue.concurrency", 5)

	// OCR defaults: Mindee primary, local tesseract fallback
	v.SetDefault("ocr.primary.provider", "mindee")
	v.SetDefault("ocr.primary.api_key", "")
	v.SetDefault("ocr.primary.endpoint", "https://api.mindee.net/v1/products/mindee/expense_receipts/v5/predict")
	v.SetDefault("ocr.primary.timeout_secs", 45)
	v.SetDefault("ocr.secondary.provider", "tesseract")
	v.SetDefault("ocr.secondary.binary_path", "tesseract")
	v.SetDefault("ocr.secondary.languages", "fra+eng")
	v.SetDefault("ocr.secondary.timeout_secs", 45)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "eu-west-3")
	v.SetDefault("email.from_address", "noreply@pantrio.app")
	v.SetDefault("email.from_name", "Pantrio")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "PANTRIO_SERVER_PORT",
		"server.read_timeout":     "PANTRIO_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "PANTRIO_SERVER_WRITE_TIMEOUT",
		"server.environment":      "PANTRIO_SERVER_ENVIRONMENT",
		"db.host":                 "PANTRIO_DB_HOST",
		"db.port":                 "PANTRIO_DB_PORT",
		"db.user":                 "PANTRIO_DB_USER",
		"db.password":             "PANTRIO_DB_PASSWORD",
		"db.name":                 "PANTRIO_DB_NAME",
		"db.sslmode":              "PANTRIO_DB_SSLMODE",
		"db.max_open":             "PANTRIO_DB_MAX_OPEN",
		"db.max_idle":             "PANTRIO_DB_MAX_IDLE",
		"jwt.secret":              "PANTRIO_JWT_SECRET",
		"jwt.access_expiry":       "PANTRIO_JWT_ACCESS_EXPIRY",
		"jwt.issuer":              "PANTRIO_JWT_ISSUER",
		"s3.region":               "PANTRIO_S3_REGION",
		"s3.bucket":               "PANTRIO_S3_BUCKET",
		"s3.endpoint":             "PANTRIO_S3_ENDPOINT",
		"s3.access_key":           "PANTRIO_S3_ACCESS_KEY",
		"s3.secret_key":           "PANTRIO_S3_SECRET_KEY",
		"s3.max_file_size_mb":     "PANTRIO_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":       "PANTRIO_S3_PRESIGN_EXPIRY",
		"log.level":               "PANTRIO_LOG_LEVEL",
		"log.format":              "PANTRIO_LOG_FORMAT",
		"cors.allowed_origins":    "PANTRIO_CORS_ALLOWED_ORIGINS",
		"queue.poll_interval_secs": "PANTRIO_QUEUE_POLL_INTERVAL_SECS",
		"queue.concurrency":       "PANTRIO_QUEUE_CONCURRENCY",
		"ocr.primary.provider":    "PANTRIO_OCR_PRIMARY_PROVIDER",
		"ocr.primary.api_key":     "PANTRIO_OCR_PRIMARY_API_KEY",
		"ocr.primary.endpoint":    "PANTRIO_OCR_PRIMARY_ENDPOINT",
		"ocr.primary.timeout_secs": "PANTRIO_OCR_PRIMARY_TIMEOUT_SECS",
		"ocr.secondary.provider":  "PANTRIO_OCR_SECONDARY_PROVIDER",
		"ocr.secondary.binary_path": "PANTRIO_OCR_SECONDARY_BINARY_PATH",
		"ocr.secondary.languages": "PANTRIO_OCR_SECONDARY_LANGUAGES",
		"ocr.secondary.timeout_secs": "PANTRIO_OCR_SECONDARY_TIMEOUT_SECS",
		"email.provider":          "PANTRIO_EMAIL_PROVIDER",
		"email.region":            "PANTRIO_EMAIL_REGION",
		"email.from_address":      "PANTRIO_EMAIL_FROM_ADDRESS",
		"email.from_name":         "PANTRIO_EMAIL_FROM_NAME",
		"email.frontend_url":      "PANTRIO_EMAIL_FRONTEND_URL",
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding env %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Viper does not split comma-separated env lists automatically
	if len(cfg.CORS.AllowedOrigins) == 1 && strings.Contains(cfg.CORS.AllowedOrigins[0], ",") {
		cfg.CORS.AllowedOrigins = strings.Split(cfg.CORS.AllowedOrigins[0], ",")
	}

	if cfg.Server.Environment == "production" && cfg.JWT.Secret == "change-me-in-production" {
		fmt.Fprintln(os.Stderr, "WARNING: running in production with the default JWT secret")
	}

	return &cfg, nil
}
