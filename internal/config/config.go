package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"loyalty_club_backend/pkg/utils"

	"github.com/joho/godotenv"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageS3       = "s3"
	StorageMemory   = "memory"
)

// Config holds the application configuration, populated from environment variables.
type Config struct {
	App     AppConfig
	Storage StorageConfig
	DB      DatabaseConfig
	Redis   RedisConfig
	S3      S3Config
	Auth    AuthConfig
	Avatar  utils.AvatarConfig
}

type AppConfig struct {
	Environment    string // development, production
	Port           string
	LogLevel       string
	PrettyLogs     bool
	AllowedOrigins []string
}

type StorageConfig struct {
	Driver     string
	Key        string // record key holding the client collection
	Dir        string // file driver
	SQLitePath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type S3Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string
	Prefix    string
}

// AuthConfig holds the single operator credential and token settings.
type AuthConfig struct {
	JWTSecret     string
	JWTExpiry     time.Duration
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Load reads a .env file when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.LogDebug("No .env file found, using system environment variables")
	}

	cfg := &Config{
		App: AppConfig{
			Environment:    utils.Getenv("APP_ENV", "development"),
			Port:           utils.Getenv("PORT", "8080"),
			LogLevel:       utils.Getenv("LOG_LEVEL", "info"),
			PrettyLogs:     utils.GetenvBool("LOG_PRETTY", utils.Getenv("APP_ENV", "development") != "production"),
			AllowedOrigins: utils.GetenvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:3001"}),
		},
		Storage: StorageConfig{
			Driver:     strings.ToLower(utils.Getenv("STORAGE_DRIVER", StorageFile)),
			Key:        utils.Getenv("STORAGE_KEY", "clients"),
			Dir:        utils.Getenv("STORAGE_DIR", "./data"),
			SQLitePath: utils.Getenv("SQLITE_PATH", "./data/loyalty.db"),
		},
		DB: DatabaseConfig{
			Host:     utils.Getenv("DB_HOST", "localhost"),
			Port:     utils.Getenv("DB_PORT", "5432"),
			User:     utils.Getenv("DB_USER", "loyalty_user"),
			Password: utils.Getenv("DB_PASSWORD", "loyalty_password"),
			Name:     utils.Getenv("DB_NAME", "loyalty_db"),
			SSLMode:  utils.Getenv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     utils.Getenv("REDIS_ADDR", "localhost:6379"),
			Password: utils.Getenv("REDIS_PASSWORD", ""),
			DB:       utils.GetenvInt("REDIS_DB", 0),
			Prefix:   utils.Getenv("REDIS_PREFIX", "loyalty:"),
		},
		S3: S3Config{
			Region:    utils.Getenv("S3_REGION", "us-east-1"),
			Bucket:    utils.Getenv("S3_BUCKET", ""),
			AccessKey: utils.Getenv("S3_ACCESS_KEY", ""),
			SecretKey: utils.Getenv("S3_SECRET_KEY", ""),
			Endpoint:  utils.Getenv("S3_ENDPOINT", ""),
			Prefix:    utils.Getenv("S3_PREFIX", ""),
		},
		Auth: AuthConfig{
			JWTSecret:     utils.Getenv("JWT_SECRET", "change-me-loyalty-club-secret"),
			JWTExpiry:     utils.GetenvDuration("JWT_EXPIRY", 72*time.Hour),
			AdminEmail:    utils.Getenv("ADMIN_EMAIL", "admin@popcard.com"),
			AdminPassword: utils.Getenv("ADMIN_PASSWORD", "popcard2025"),
			AdminName:     utils.Getenv("ADMIN_NAME", "Admin User"),
		},
		Avatar: utils.AvatarConfig{
			BaseURL: utils.Getenv("AVATAR_BASE_URL", utils.DefaultAvatarConfig.BaseURL),
			Style:   utils.Getenv("AVATAR_STYLE", utils.DefaultAvatarConfig.Style),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.App.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.App.Port)
	}
	switch c.Storage.Driver {
	case StorageFile, StorageSQLite, StoragePostgres, StorageRedis, StorageMemory:
	case StorageS3:
		if c.S3.Bucket == "" {
			return errors.New("S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Storage.Key == "" {
		return errors.New("STORAGE_KEY cannot be empty")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Auth.AdminEmail == "" || c.Auth.AdminPassword == "" {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}
	return nil
}
