package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, BackendMySQL, cfg.StorageBackend)
	assert.Equal(t, BackendMemory, cfg.LockBackend)
	assert.Equal(t, 3*time.Second, cfg.LockTimeout)
	assert.Equal(t, "sale-engine", cfg.ServiceName)
	assert.False(t, cfg.TraceEnabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("STORAGE_BACKEND", BackendMemory)
	t.Setenv("LOCK_BACKEND", BackendRedis)
	t.Setenv("REDIS_ADDR", "redis.internal:6379")
	t.Setenv("LOCK_TIMEOUT_MS", "250")
	t.Setenv("TRACE_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Equal(t, BackendRedis, cfg.LockBackend)
	assert.Equal(t, "redis.internal:6379", cfg.RedisAddr)
	assert.Equal(t, 250*time.Millisecond, cfg.LockTimeout)
	assert.True(t, cfg.TraceEnabled)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("LOCK_TIMEOUT_MS", "soon")
	t.Setenv("TRACE_ENABLED", "yep")

	cfg := Load()

	assert.Equal(t, 3*time.Second, cfg.LockTimeout)
	assert.False(t, cfg.TraceEnabled)
}
