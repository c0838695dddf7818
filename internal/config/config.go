package config

import (
	"errors"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultJWTSecret = "change-me-estate-service-secret"

// Storage drivers understood by STORAGE_DRIVER.
const (
	StorageMinIO = "minio"
	StorageS3    = "s3"
	StorageGCS   = "gcs"
)

// Config holds all configuration for the service.
type Config struct {
	ServiceName           string `mapstructure:"SERVICE_NAME"`
	HTTPPort              string `mapstructure:"HTTP_PORT"`
	GRPCPort              string `mapstructure:"GRPC_PORT"`
	PrometheusMetricsPort string `mapstructure:"PROMETHEUS_METRICS_PORT"`

	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	RedisAddress  string        `mapstructure:"REDIS_ADDRESS"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`

	NATSURL string `mapstructure:"NATS_URL"`

	StorageDriver  string `mapstructure:"STORAGE_DRIVER"`
	MinIOEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinIOAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinIOSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinIOBucket    string `mapstructure:"MINIO_BUCKET"`
	MinIOUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`
	AWSRegion      string `mapstructure:"AWS_REGION"`
	AWSAccessKeyID string `mapstructure:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey   string `mapstructure:"AWS_SECRET_ACCESS_KEY"`
	AWSEndpoint    string `mapstructure:"AWS_ENDPOINT"`
	AWSBucket      string `mapstructure:"AWS_BUCKET"`
	GCSBucket      string `mapstructure:"GCS_BUCKET"`
	GCSCredentials string `mapstructure:"GCS_CREDENTIALS_FILE"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPEmail    string `mapstructure:"SMTP_EMAIL"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`

	OpenAIAPIKey      string  `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL     string  `mapstructure:"OPENAI_BASE_URL"`
	OpenAIVisionModel string  `mapstructure:"OPENAI_VISION_MODEL"`
	OpenAITextModel   string  `mapstructure:"OPENAI_TEXT_MODEL"`
	SalesPostRate     float64 `mapstructure:"SALES_POST_RATE"`
	SalesPostBurst    int     `mapstructure:"SALES_POST_BURST"`

	OTExporterOTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	DisableAnonymous   bool   `mapstructure:"DISABLE_ANONYMOUS"`
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// SMTPEnabled reports whether listing-created mail can be sent.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPEmail != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_NAME", "estate-service")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("GRPC_PORT", "50052")
	v.SetDefault("PROMETHEUS_METRICS_PORT", "9092")

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "estate")

	v.SetDefault("REDIS_ADDRESS", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "5m")

	v.SetDefault("NATS_URL", "nats://localhost:4222")

	v.SetDefault("STORAGE_DRIVER", StorageMinIO)
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	v.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	v.SetDefault("MINIO_BUCKET", "listings-images")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ACCESS_KEY_ID", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault("AWS_ENDPOINT", "")
	v.SetDefault("AWS_BUCKET", "listings-images")
	v.SetDefault("GCS_BUCKET", "")
	v.SetDefault("GCS_CREDENTIALS_FILE", "")

	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_TTL", "24h")

	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_EMAIL", "")
	v.SetDefault("SMTP_PASSWORD", "")

	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("OPENAI_VISION_MODEL", "gpt-4o-mini")
	v.SetDefault("OPENAI_TEXT_MODEL", "gpt-4")
	v.SetDefault("SALES_POST_RATE", 0.2)
	v.SetDefault("SALES_POST_BURST", 3)

	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	v.SetDefault("DISABLE_ANONYMOUS", false)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
}

// LoadConfig reads configuration from environment variables (a .env file is loaded by main).
func LoadConfig(appLogger *logger.Logger) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		appLogger.Error("Failed to unmarshal configuration", zap.Error(err))
		return nil, err
	}

	if err := cfg.validate(appLogger); err != nil {
		return nil, err
	}

	appLogger.Debug("Configuration loaded",
		zap.String("service_name", cfg.ServiceName),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("grpc_port", cfg.GRPCPort),
		zap.String("mongo_database", cfg.MongoDatabase),
		zap.String("storage_driver", cfg.StorageDriver),
		zap.Bool("smtp_enabled", cfg.SMTPEnabled()),
		zap.Bool("openai_key_present", cfg.OpenAIAPIKey != ""),
		zap.Bool("disable_anonymous", cfg.DisableAnonymous),
	)
	return &cfg, nil
}

func (c *Config) validate(appLogger *logger.Logger) error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if c.JWTSecret == defaultJWTSecret {
		appLogger.Warn("JWT_SECRET is set to its default insecure value. Please set a strong secret.")
	}
	if c.MongoURI == "" || c.MongoDatabase == "" {
		return errors.New("MONGO_URI and MONGO_DATABASE are required")
	}
	switch c.StorageDriver {
	case StorageMinIO, StorageS3:
	case StorageGCS:
		if c.GCSBucket == "" {
			return errors.New("GCS_BUCKET is required when STORAGE_DRIVER=gcs")
		}
	default:
		return errors.New("unknown STORAGE_DRIVER: " + c.StorageDriver)
	}
	if c.OpenAIAPIKey == "" {
		appLogger.Warn("OPENAI_API_KEY is empty, sales post generation will fail")
	}
	return nil
}
