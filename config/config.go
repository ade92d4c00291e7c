package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DefaultContentSlots are the singleton documents the site renders
var DefaultContentSlots = []string{"homepage", "header", "footer", "about", "contact", "seo", "settings"}

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Storage       StorageConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Cache         CacheConfig
	Content       ContentConfig
	Admin         AdminConfig
	Uploads       UploadsConfig
	S3            S3Config
	SMTP          SMTPConfig
	Leads         LeadsConfig
	Seed          SeedConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	BaseURL        string
	AllowedOrigins []string
}

// StorageConfig selects the document store backend
type StorageConfig struct {
	Driver string // postgres | redis | memory
}

type DatabaseConfig struct {
	URL        string
	MaxConns   int32
	MinConns   int32
	CACertPath string
}

type RedisConfig struct {
	URL       string
	KeyPrefix string
}

type CacheConfig struct {
	TTLSeconds int
	Disabled   bool
}

type ContentConfig struct {
	Slots []string
}

type AdminConfig struct {
	Email            string
	Password         string
	APIKey           string
	JWTSecret        string
	JWTIssuer        string
	JWTExpireMinutes int
}

type UploadsConfig struct {
	Driver    string // local | s3
	Dir       string
	PublicURL string
}

type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Endpoint        string
	Region          string
	PublicURL       string
	UsePathStyle    bool
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type LeadsConfig struct {
	ToEmail    string
	WebhookURL string
}

type SeedConfig struct {
	FixturesDir string
	OnStart     bool
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8000")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("BASE_URL", "http://localhost:8000")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("STORAGE_DRIVER", "postgres")
	v.SetDefault("DATABASE_MAX_CONNS", 10)
	v.SetDefault("DATABASE_MIN_CONNS", 1)
	v.SetDefault("REDIS_KEY_PREFIX", "evohome")
	v.SetDefault("CACHE_TTL_SECONDS", 60)
	v.SetDefault("DISABLE_CACHE", false)
	v.SetDefault("CONTENT_SLOTS", strings.Join(DefaultContentSlots, ","))
	v.SetDefault("JWT_ISSUER", "evohome-cms")
	v.SetDefault("JWT_EXPIRE_MINUTES", 240)
	v.SetDefault("UPLOAD_DRIVER", "local")
	v.SetDefault("UPLOADS_DIR", "./uploads")
	v.SetDefault("UPLOADS_PUBLIC_URL", "/static/uploads")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_USE_PATH_STYLE", false)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SEED_ON_START", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("O11Y_BE_SERVICE_NAME", "evohome-cms")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "evohome")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	smtpFrom := v.GetString("SMTP_FROM")
	if smtpFrom == "" {
		smtpFrom = v.GetString("EMAIL_FROM")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			BaseURL:        v.GetString("BASE_URL"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		},
		Database: DatabaseConfig{
			URL:        v.GetString("DATABASE_URL"),
			MaxConns:   v.GetInt32("DATABASE_MAX_CONNS"),
			MinConns:   v.GetInt32("DATABASE_MIN_CONNS"),
			CACertPath: v.GetString("DATABASE_CA_CERT"),
		},
		Redis: RedisConfig{
			URL:       v.GetString("REDIS_URL"),
			KeyPrefix: v.GetString("REDIS_KEY_PREFIX"),
		},
		Cache: CacheConfig{
			TTLSeconds: v.GetInt("CACHE_TTL_SECONDS"),
			Disabled:   v.GetBool("DISABLE_CACHE"),
		},
		Content: ContentConfig{
			Slots: splitList(v.GetString("CONTENT_SLOTS")),
		},
		Admin: AdminConfig{
			Email:            strings.TrimSpace(v.GetString("ADMIN_EMAIL")),
			Password:         v.GetString("ADMIN_PASSWORD"),
			APIKey:           v.GetString("ADMIN_API_KEY"),
			JWTSecret:        v.GetString("JWT_SECRET"),
			JWTIssuer:        v.GetString("JWT_ISSUER"),
			JWTExpireMinutes: v.GetInt("JWT_EXPIRE_MINUTES"),
		},
		Uploads: UploadsConfig{
			Driver:    strings.ToLower(strings.TrimSpace(v.GetString("UPLOAD_DRIVER"))),
			Dir:       v.GetString("UPLOADS_DIR"),
			PublicURL: v.GetString("UPLOADS_PUBLIC_URL"),
		},
		S3: S3Config{
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
			Bucket:          v.GetString("S3_BUCKET"),
			Endpoint:        v.GetString("S3_ENDPOINT"),
			Region:          v.GetString("S3_REGION"),
			PublicURL:       v.GetString("S3_PUBLIC_URL"),
			UsePathStyle:    v.GetBool("S3_USE_PATH_STYLE"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     smtpFrom,
		},
		Leads: LeadsConfig{
			ToEmail:    v.GetString("LEADS_TO_EMAIL"),
			WebhookURL: v.GetString("LEAD_WEBHOOK_URL"),
		},
		Seed: SeedConfig{
			FixturesDir: v.GetString("SEED_FIXTURES_DIR"),
			OnStart:     v.GetBool("SEED_ON_START"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// splitList parses a comma-separated value, dropping blanks
func splitList(raw string) []string {
	out := []string{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	switch c.Storage.Driver {
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER=postgres")
		}
	case "redis":
		if c.Redis.URL == "" {
			return fmt.Errorf("REDIS_URL is required when STORAGE_DRIVER=redis")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q (postgres, redis, memory)", c.Storage.Driver)
	}

	if len(c.Content.Slots) == 0 {
		return fmt.Errorf("CONTENT_SLOTS must name at least one slot")
	}

	passwordLogin := c.Admin.Email != "" || c.Admin.Password != ""
	if passwordLogin && (c.Admin.Email == "" || c.Admin.Password == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	if !passwordLogin && c.Admin.APIKey == "" {
		return fmt.Errorf("ADMIN_API_KEY or ADMIN_EMAIL/ADMIN_PASSWORD is required")
	}
	if passwordLogin && len(c.Admin.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET of at least 16 characters is required for admin login")
	}
	if c.Admin.JWTExpireMinutes <= 0 {
		return fmt.Errorf("JWT_EXPIRE_MINUTES must be positive")
	}

	switch c.Uploads.Driver {
	case "local":
		if c.Uploads.Dir == "" {
			return fmt.Errorf("UPLOADS_DIR is required when UPLOAD_DRIVER=local")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when UPLOAD_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unsupported UPLOAD_DRIVER %q (local, s3)", c.Uploads.Driver)
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

// SMTPEnabled reports whether lead emails can be sent
func (c *Config) SMTPEnabled() bool {
	return c.SMTP.Host != "" && c.SMTP.From != "" && c.Leads.ToEmail != ""
}
