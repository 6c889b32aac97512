// Package obs holds the observability plumbing: structured logging,
// Prometheus metrics and the OTLP trace exporter.
package obs

import (
	"log/slog"
	"os"
)

// NewLogger returns the JSON structured logger used across the service.
func NewLogger() *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(h)
}
