package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. Production (or LOG_FORMAT=json)
// emits machine-readable JSON with source locations; anything else
// logs text for local work.
func NewLogger(cfg *Config) *slog.Logger {
	var handler slog.Handler
	if cfg != nil && (cfg.LogFormat == "json" || cfg.IsProduction()) {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{})
	}
	return slog.New(handler).With(slog.String("service", "console"))
}
