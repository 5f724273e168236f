package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const (
	DriverSupabase = "supabase"
	DriverMemory   = "memory"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	StoreDriver string

	SupabaseURL            string
	SupabaseServiceRoleKey string
	SupabaseAnonKey        string

	CategoryDomain  string
	AccessRules     bool
	AdminOnlyCreate bool
	CORSOrigins     []string

	MongoDBURI      string
	MongoDBPassword string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                   getEnvWithDefault("PORT", "5000"),
		Environment:            getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:               strings.ToLower(getEnvWithDefault("LOG_LEVEL", "info")),
		StoreDriver:            strings.ToLower(getEnvWithDefault("STORE_DRIVER", DriverSupabase)),
		SupabaseURL:            os.Getenv("SUPABASE_URL"),
		SupabaseServiceRoleKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		SupabaseAnonKey:        os.Getenv("SUPABASE_ANON_KEY"),
		CategoryDomain:         strings.ToLower(getEnvWithDefault("CATEGORY_DOMAIN", "catalog")),
		CORSOrigins:            splitList(getEnvWithDefault("CORS_ORIGINS", "http://localhost:5173")),
		MongoDBURI:             os.Getenv("MONGODB_URI"),
		MongoDBPassword:        os.Getenv("MONGODB_PASSWORD"),
		CloudinaryCloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:       os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret:    os.Getenv("CLOUDINARY_API_SECRET"),
	}

	switch rules := strings.ToLower(getEnvWithDefault("ACCESS_RULES", "off")); rules {
	case "off":
	case "enforced":
		cfg.AccessRules = true
	default:
		return nil, fmt.Errorf("ACCESS_RULES must be off or enforced, got %q", rules)
	}

	if raw := os.Getenv("ADMIN_ONLY_CREATE"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_ONLY_CREATE must be a boolean: %w", err)
		}
		cfg.AdminOnlyCreate = v
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverSupabase:
		if c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required")
		}
		if c.SupabaseServiceRoleKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY is required")
		}
		if c.SupabaseAnonKey == "" {
			return fmt.Errorf("SUPABASE_ANON_KEY is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be supabase or memory, got %q", c.StoreDriver)
	}

	if c.CategoryDomain != "catalog" && c.CategoryDomain != "map" {
		return fmt.Errorf("CATEGORY_DOMAIN must be catalog or map, got %q", c.CategoryDomain)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	if c.CloudinaryEnabled() && (c.CloudinaryAPIKey == "" || c.CloudinaryAPISecret == "") {
		return fmt.Errorf("CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required with CLOUDINARY_CLOUD_NAME")
	}
	return nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) MongoEnabled() bool {
	return c.MongoDBURI != ""
}

func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != ""
}

// SlogLevel maps LOG_LEVEL onto a slog level; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
