// Package config provides runtime configuration values for the engine.
package config

import (
	"os"
	"strconv"
	"time"
)

// Storage / lock backend selectors.
const (
	BackendMemory = "memory"
	BackendMySQL  = "mysql"
	BackendRedis  = "redis"
)

// Config holds the knobs for the server, storage and locking.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// StorageBackend is "mysql" or "memory". The memory backend runs the
	// engine without external infrastructure; useful for demos and tests.
	StorageBackend string
	MySQLDSN       string

	// LockBackend is "memory" (single instance) or "redis" (shared lease for
	// multi-instance deployments).
	LockBackend string
	RedisAddr   string
	LockTimeout time.Duration

	ServiceName  string
	OTLPEndpoint string
	TraceEnabled bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvms(key string, defMs int) time.Duration {
	return time.Duration(atoienv(key, defMs)) * time.Millisecond
}

func boolenv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout: durenvms("SHUTDOWN_TIMEOUT_MS", 5000),
		StorageBackend:  getenv("STORAGE_BACKEND", BackendMySQL),
		MySQLDSN:        getenv("MYSQL_DSN", "root:root@tcp(localhost:3306)/store?parseTime=true"),
		LockBackend:     getenv("LOCK_BACKEND", BackendMemory),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		LockTimeout:     durenvms("LOCK_TIMEOUT_MS", 3000),
		ServiceName:     getenv("SERVICE_NAME", "sale-engine"),
		OTLPEndpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		TraceEnabled:    boolenv("TRACE_ENABLED", false),
	}
}
