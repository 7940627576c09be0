package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("LOG_PRETTY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageFile, cfg.Storage.Driver)
	assert.Equal(t, "clients", cfg.Storage.Key)
	assert.Equal(t, "admin@popcard.com", cfg.Auth.AdminEmail)
	assert.Equal(t, 72*time.Hour, cfg.Auth.JWTExpiry)
	assert.False(t, cfg.IsProduction())
	assert.True(t, cfg.App.PrettyLogs)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.App.PrettyLogs)
	assert.Equal(t, StorageSQLite, cfg.Storage.Driver)
	assert.Equal(t, 2*time.Hour, cfg.Auth.JWTExpiry)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:     AppConfig{Port: "8080"},
			Storage: StorageConfig{Driver: StorageMemory, Key: "clients"},
			Auth:    AuthConfig{JWTSecret: "s", AdminEmail: "a@b.co", AdminPassword: "secret1"},
		}
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"port":       func(c *Config) { c.App.Port = "http" },
		"driver":     func(c *Config) { c.Storage.Driver = "tape" },
		"s3 bucket":  func(c *Config) { c.Storage.Driver = StorageS3 },
		"key":        func(c *Config) { c.Storage.Key = "" },
		"jwt secret": func(c *Config) { c.Auth.JWTSecret = "" },
		"admin":      func(c *Config) { c.Auth.AdminPassword = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
