package internal

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/starford/tessitura/internal/engine"
)

// NewLogger returns a JSON logger writing to w whose level follows level.
func NewLogger(w io.Writer, level *slog.LevelVar) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// CheckDefaults resolves the default selection once so that a bad name in
// the configuration is reported at startup rather than on first request.
func CheckDefaults(e *engine.Engine, d DefaultsConfig) error {
	if _, err := e.Resolve(d.Selection()); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	return nil
}
