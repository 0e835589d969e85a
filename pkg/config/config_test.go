package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PAGE_SIZE", "")
	cfg := Load()
	assert.Equal(t, ":8080", cfg.Server.ListenAddress)
	assert.Equal(t, 50, cfg.Engine.PageSize)
	assert.Equal(t, "s", cfg.Catalog.BranchPrefix)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 15*time.Second, cfg.Server.Timeouts.Shutdown)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("ENGINE_WORKERS", "0")
	t.Setenv("SESSION_TTL", "90")
	t.Setenv("REDIS_TTL", "2m")
	t.Setenv("PROFILING", "true")
	t.Setenv("APP_ENV", "development")
	t.Setenv("SHUTDOWN_TIMEOUT", "30")
	t.Setenv("HOOK_TIMEOUT", "750ms")
	cfg := Load()
	assert.Equal(t, 30*time.Second, cfg.Server.Timeouts.Shutdown)
	assert.Equal(t, 750*time.Millisecond, cfg.Server.Timeouts.Hook)
	assert.Equal(t, 25, cfg.Engine.PageSize)
	assert.Equal(t, 0, cfg.Engine.Workers)
	assert.Equal(t, 90*time.Second, cfg.Server.SessionTTL)
	assert.Equal(t, 2*time.Minute, cfg.Redis.TTL)
	assert.True(t, cfg.Server.Profiling)
	assert.True(t, cfg.IsDevelopment())
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("CATALOG_LOOKUP_WORKERS", "many")
	t.Setenv("CATALOG_TIMEOUT", "soon")
	cfg := Load()
	assert.Equal(t, 8, cfg.Catalog.LookupWorkers)
	assert.Equal(t, 10*time.Second, cfg.Catalog.Timeout)
}
