package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "listing-service", cfg.AppName)
	assert.Equal(t, SourceAPI, cfg.Source.Kind)
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
	assert.Equal(t, 12, cfg.Browse.DefaultPageSize)
	assert.Equal(t, 5*time.Second, cfg.Source.APITimeout)
	assert.False(t, cfg.RabbitMQ.Enabled)
}

func TestLoadConfig_FromEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "LISTING_SOURCE=postgres\nDATABASE_URL=postgres://u:p@localhost:5432/listings\nCACHE_BACKEND=redis\nCORS_ALLOWED_ORIGINS=https://a.example, https://b.example,\nSNAPSHOT_TTL_SEC=60\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	// godotenv не перезаписывает уже заданные переменные, поэтому чистим их после теста
	for _, k := range []string{"LISTING_SOURCE", "DATABASE_URL", "CACHE_BACKEND", "CORS_ALLOWED_ORIGINS", "SNAPSHOT_TTL_SEC"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)

	assert.Equal(t, SourcePostgres, cfg.Source.Kind)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Rest.CORSAllowedOrigins)
	assert.Equal(t, time.Minute, cfg.Cache.SnapshotTTL)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Setenv("LISTING_SOURCE", "ftp")
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "LISTING_SOURCE")
}

func TestLoadConfig_BadNumberFallsBackToDefault(t *testing.T) {
	t.Setenv("DEFAULT_PAGE_SIZE", "twelve")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Browse.DefaultPageSize)
}

func TestValidate_PostgresNeedsURL(t *testing.T) {
	cfg := &AppConfig{
		Source: ListingSourceConfig{Kind: SourcePostgres},
		Cache:  CacheConfig{Backend: CacheMemory},
		Browse: BrowseConfig{DefaultPageSize: 12, MaxPageSize: 100},
	}
	assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")
}
