package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Minio    MinioConfig
	Flowglad FlowgladConfig
	Email    EmailConfig
	Calendar CalendarConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL string // e.g. postgres://localhost:5432/mentorhub?sslmode=disable
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT signing and validation settings.
type JWTConfig struct {
	Secret     string
	AccessTTL  int // seconds
	RefreshTTL int // seconds
}

// MinioConfig holds object storage settings for avatars and program logos.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// FlowgladConfig holds billing provider API settings.
type FlowgladConfig struct {
	APIKey  string
	BaseURL string
}

// EmailConfig holds SMTP settings for admin bulk mail and trial notices.
type EmailConfig struct {
	FromAddress string
	FromName    string
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
}

// CalendarConfig holds JWKS endpoints used to verify provider ID tokens.
type CalendarConfig struct {
	GoogleJWKSURL    string
	MicrosoftJWKSURL string
}

// Load reads configuration from the environment, consulting .env when present.
func Load() (*Config, error) {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:     os.Getenv("JWT_SECRET"),
			AccessTTL:  getEnvInt("JWT_ACCESS_TTL", 900),
			RefreshTTL: getEnvInt("JWT_REFRESH_TTL", 30*24*3600),
		},
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			UseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",
			Bucket:    getEnv("MINIO_BUCKET", "mentorhub-media"),
		},
		Flowglad: FlowgladConfig{
			APIKey:  os.Getenv("FLOWGLAD_API_KEY"),
			BaseURL: getEnv("FLOWGLAD_BASE_URL", "https://api.flowglad.com/v1"),
		},
		Email: EmailConfig{
			FromAddress: getEnv("EMAIL_FROM_ADDRESS", "no-reply@mentorhub.io"),
			FromName:    getEnv("EMAIL_FROM_NAME", "MentorHub"),
			SMTPHost:    os.Getenv("SMTP_HOST"),
			SMTPPort:    getEnvInt("SMTP_PORT", 587),
			SMTPUser:    os.Getenv("SMTP_USER"),
			SMTPPass:    os.Getenv("SMTP_PASS"),
		},
		Calendar: CalendarConfig{
			GoogleJWKSURL:    getEnv("GOOGLE_JWKS_URL", "https://www.googleapis.com/oauth2/v3/certs"),
			MicrosoftJWKSURL: getEnv("MICROSOFT_JWKS_URL", "https://login.microsoftonline.com/common/discovery/v2.0/keys"),
		},
	}

	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
