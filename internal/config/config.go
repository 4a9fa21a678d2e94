package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const EnvProduction = "production"

type Config struct {
	ServerPort  string `env:"SERVER_PORT" envDefault:":3000"`
	Environment string `env:"ENVIRONMENT"`
	LogLevel    string `env:"LOG_LEVEL"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// JWTSecret may be empty at boot; requests that need it fail with JWT_CONFIG_ERROR.
	JWTSecret string        `env:"JWT_SECRET"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"1h"`

	// Rate limiting
	RateLimitMaxRequests int           `env:"RATE_LIMIT_MAX_REQUESTS" envDefault:"100"`
	RateLimitWindow      time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	RateLimitBlockTime   time.Duration `env:"RATE_LIMIT_BLOCK_TIME" envDefault:"5m"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	// Outbound email
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"Aroma Kopi <no-reply@aromakopi.id>"`
	LoginURL     string `env:"LOGIN_URL" envDefault:"http://localhost:5173/auth/login"`
	WorkerCount  int    `env:"WORKER_COUNT" envDefault:"2"`

	// Image storage
	StorageType              string `env:"STORAGE_TYPE" envDefault:"local"`
	StorageLocalDir          string `env:"STORAGE_LOCAL_DIR" envDefault:"uploads"`
	StoragePublicBaseURL     string `env:"STORAGE_PUBLIC_BASE_URL" envDefault:"/uploads"`
	StorageS3Bucket          string `env:"STORAGE_S3_BUCKET"`
	StorageS3Region          string `env:"STORAGE_S3_REGION"`
	StorageS3Endpoint        string `env:"STORAGE_S3_ENDPOINT"`
	StorageS3AccessKeyID     string `env:"STORAGE_S3_ACCESS_KEY_ID"`
	StorageS3SecretAccessKey string `env:"STORAGE_S3_SECRET_ACCESS_KEY"`
	StorageS3SessionToken    string `env:"STORAGE_S3_SESSION_TOKEN"`
	StorageS3Prefix          string `env:"STORAGE_S3_PREFIX"`
	StorageS3ForcePathStyle  bool   `env:"STORAGE_S3_FORCE_PATH_STYLE" envDefault:"false"`
	UploadMaxBytes           int64  `env:"UPLOAD_MAX_BYTES" envDefault:"5242880"`
}

func Load() (*Config, error) {
	// Containers pass variables directly, so a missing .env file is fine.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading process environment")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Environment == "" {
		cfg.Environment = os.Getenv("NODE_ENV")
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))

	return cfg, nil
}

// IsProduction enables secure cookies, HSTS and generic error messages.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}
