package config

import (
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port               string        `env:"PORT" envDefault:"8080"`
	Env                string        `env:"ENV" envDefault:"dev"`
	DatabaseURL        string        `env:"DATABASE_URL"`
	JWTSecret          string        `env:"JWT_SECRET"`
	JWTTTL             time.Duration `env:"JWT_TTL" envDefault:"720h"`
	CORSAllowOrigin    []string      `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	ObjectStoreType    string        `env:"OBJECT_STORE" envDefault:"local"`
	UploadsDir         string        `env:"UPLOADS_DIR" envDefault:"./uploads"`
	PublicBaseURL      string        `env:"PUBLIC_BASE_URL"`
	MaxUploadBytes     int64         `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
	AWSRegion          string        `env:"AWS_REGION"`
	S3Bucket           string        `env:"S3_BUCKET"`
	S3Prefix           string        `env:"S3_PREFIX"`
	SSEKMSKeyID        string        `env:"SSE_KMS_KEY_ID"`
	SignedURLTTL       time.Duration `env:"SIGNED_URL_TTL" envDefault:"15m"`
	GoogleClientID     string        `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string        `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string        `env:"GOOGLE_REDIRECT_URL"`
	UIRedirectURL      string        `env:"UI_REDIRECT_URL"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Local env files are a dev convenience; a missing file is not an error.
	for _, path := range []string{".env", "cmd/.env"} {
		_ = godotenv.Load(path)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Printf("config: %v", err)
	}
	return Normalize(cfg)
}

// Normalize canonicalizes enum-like values and trims list entries.
func Normalize(cfg Config) Config {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.ObjectStoreType = normalizeStoreType(cfg.ObjectStoreType)
	cfg.CORSAllowOrigin = trimAll(cfg.CORSAllowOrigin)
	cfg.PublicBaseURL = strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	if cfg.SignedURLTTL <= 0 {
		cfg.SignedURLTTL = 15 * time.Minute
	}
	if cfg.JWTTTL <= 0 {
		cfg.JWTTTL = 30 * 24 * time.Hour
	}

	if cfg.Env == "production" {
		if cfg.DatabaseURL == "" {
			log.Printf("DATABASE_URL is required in production")
		}
		if strings.TrimSpace(cfg.JWTSecret) == "" {
			log.Printf("JWT_SECRET is required in production")
		}
	}
	return cfg
}

// IsProduction reports whether error details should be hidden from clients.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
