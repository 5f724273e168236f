package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for _, k := range []string{
		"PORT", "ENVIRONMENT", "LOG_LEVEL", "STORE_DRIVER", "SUPABASE_URL",
		"SUPABASE_SERVICE_ROLE_KEY", "SUPABASE_ANON_KEY", "CATEGORY_DOMAIN",
		"ACCESS_RULES", "ADMIN_ONLY_CREATE", "CORS_ORIGINS", "MONGODB_URI",
		"MONGODB_PASSWORD", "CLOUDINARY_CLOUD_NAME", "CLOUDINARY_API_KEY",
		"CLOUDINARY_API_SECRET",
	} {
		t.Setenv(k, kv[k])
	}
}

func TestLoadConfigMemoryDefaults(t *testing.T) {
	setEnv(t, map[string]string{"STORE_DRIVER": "memory"})

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, "catalog", cfg.CategoryDomain)
	assert.False(t, cfg.AccessRules)
	assert.False(t, cfg.AdminOnlyCreate)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.False(t, cfg.MongoEnabled())
	assert.False(t, cfg.CloudinaryEnabled())
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigSupabaseRequiresKeys(t *testing.T) {
	setEnv(t, map[string]string{"SUPABASE_URL": "https://x.supabase.co"})

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_SERVICE_ROLE_KEY")
}

func TestLoadConfigOverrides(t *testing.T) {
	setEnv(t, map[string]string{
		"STORE_DRIVER":      "memory",
		"CATEGORY_DOMAIN":   "map",
		"ACCESS_RULES":      "enforced",
		"ADMIN_ONLY_CREATE": "true",
		"CORS_ORIGINS":      "https://a.example, https://b.example,",
		"LOG_LEVEL":         "DEBUG",
		"ENVIRONMENT":       "production",
	})

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "map", cfg.CategoryDomain)
	assert.True(t, cfg.AccessRules)
	assert.True(t, cfg.AdminOnlyCreate)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"access rules", map[string]string{"STORE_DRIVER": "memory", "ACCESS_RULES": "maybe"}},
		{"admin only", map[string]string{"STORE_DRIVER": "memory", "ADMIN_ONLY_CREATE": "sure"}},
		{"driver", map[string]string{"STORE_DRIVER": "sqlite"}},
		{"domain", map[string]string{"STORE_DRIVER": "memory", "CATEGORY_DOMAIN": "both"}},
		{"port", map[string]string{"STORE_DRIVER": "memory", "PORT": "http"}},
		{"cloudinary", map[string]string{"STORE_DRIVER": "memory", "CLOUDINARY_CLOUD_NAME": "demo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
