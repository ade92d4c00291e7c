package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: "8000", AllowedOrigins: []string{"http://localhost:3000"}},
		Storage: StorageConfig{Driver: "memory"},
		Content: ContentConfig{Slots: DefaultContentSlots},
		Admin: AdminConfig{
			Email:            "owner@evohome.test",
			Password:         "secret",
			JWTSecret:        "0123456789abcdef",
			JWTExpireMinutes: 240,
		},
		Uploads: UploadsConfig{Driver: "local", Dir: "./uploads"},
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{"development environment", &Config{Server: ServerConfig{AppEnv: "development"}}, true},
		{"debug gin mode", &Config{Server: ServerConfig{GinMode: "debug"}}, true},
		{"production environment", &Config{Server: ServerConfig{AppEnv: "production"}}, false},
		{"release mode", &Config{Server: ServerConfig{GinMode: "release", AppEnv: "production"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.IsDevelopment())
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	assert.True(t, (&Config{Server: ServerConfig{AppEnv: "production"}}).IsProduction())
	assert.False(t, (&Config{Server: ServerConfig{AppEnv: "staging"}}).IsProduction())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Config)
		errorMsg string
	}{
		{"valid memory config", func(c *Config) {}, ""},
		{"key-only admin", func(c *Config) {
			c.Admin.Email, c.Admin.Password, c.Admin.JWTSecret = "", "", ""
			c.Admin.APIKey = "admin-key"
		}, ""},
		{"postgres without url", func(c *Config) { c.Storage.Driver = "postgres" }, "DATABASE_URL is required"},
		{"redis without url", func(c *Config) { c.Storage.Driver = "redis" }, "REDIS_URL is required"},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mongo" }, "unsupported STORAGE_DRIVER"},
		{"no slots", func(c *Config) { c.Content.Slots = nil }, "CONTENT_SLOTS"},
		{"no admin credentials", func(c *Config) {
			c.Admin.Email, c.Admin.Password = "", ""
		}, "ADMIN_API_KEY or ADMIN_EMAIL/ADMIN_PASSWORD is required"},
		{"email without password", func(c *Config) { c.Admin.Password = "" }, "must be set together"},
		{"short jwt secret", func(c *Config) { c.Admin.JWTSecret = "short" }, "JWT_SECRET"},
		{"s3 without bucket", func(c *Config) { c.Uploads.Driver = "s3" }, "S3_BUCKET is required"},
		{"profiling without endpoint", func(c *Config) { c.Profiling.Enabled = true }, "O11Y_PROFILING_ENDPOINT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("ADMIN_API_KEY", "admin-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, DefaultContentSlots, cfg.Content.Slots)
	assert.Equal(t, 240, cfg.Admin.JWTExpireMinutes)
	assert.Equal(t, "local", cfg.Uploads.Driver)
	assert.Equal(t, "/static/uploads", cfg.Uploads.PublicURL)
	assert.Equal(t, 60, cfg.Cache.TTLSeconds)
	assert.False(t, cfg.SMTPEnabled())
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CONTENT_SLOTS", "homepage, footer ,")
	t.Setenv("ALLOWED_CORS_ORIGINS", "https://evohome.test, https://admin.evohome.test")
	t.Setenv("ADMIN_EMAIL", "Owner@EvoHome.test")
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("JWT_SECRET", "a-long-enough-secret")
	t.Setenv("JWT_EXPIRE_MINUTES", "30")
	t.Setenv("SMTP_HOST", "smtp.evohome.test")
	t.Setenv("EMAIL_FROM", "site@evohome.test")
	t.Setenv("LEADS_TO_EMAIL", "sales@evohome.test")
	t.Setenv("SEED_ON_START", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, []string{"homepage", "footer"}, cfg.Content.Slots)
	assert.Equal(t, []string{"https://evohome.test", "https://admin.evohome.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 30, cfg.Admin.JWTExpireMinutes)
	assert.Equal(t, "site@evohome.test", cfg.SMTP.From)
	assert.True(t, cfg.SMTPEnabled())
	assert.True(t, cfg.Seed.OnStart)
}

func TestLoad_ValidationFailure(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ADMIN_API_KEY", "admin-key")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
