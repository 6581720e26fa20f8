package internal

import (
	"log/slog"

	"github.com/starford/tessitura/internal/api"
	"github.com/starford/tessitura/internal/engine"
	"github.com/starford/tessitura/internal/metrics"
	"github.com/starford/tessitura/internal/sse"
	pkgconfig "github.com/starford/tessitura/pkg/config"
)

// reloader applies a changed configuration file to a running server. Only
// the log level and the default selection take effect without a restart.
type reloader struct {
	path    string
	current *Config
	engine  *engine.Engine
	level   *slog.LevelVar
	svc     *api.Service
	events  *sse.Broker
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func (r *reloader) reload() {
	next, err := pkgconfig.Reload(r.path, NewDefaultConfig)
	if err == nil {
		err = CheckDefaults(r.engine, next.Defaults)
	}
	r.metrics.ObserveReload(err)
	if err != nil {
		r.logger.Warn("config reload rejected",
			slog.String("path", r.path),
			slog.String("error", err.Error()))
		r.events.PublishReload(sse.Reload{Err: err})
		return
	}

	if next.App.HTTP != r.current.App.HTTP || next.Auth != r.current.Auth || next.Cache != r.current.Cache {
		r.logger.Warn("config reload: http, auth and cache changes apply after restart")
	}

	r.level.Set(next.App.LogLevel)
	defaults := next.Defaults.Selection()
	r.svc.SetDefaults(defaults)
	r.current.App.LogLevel = next.App.LogLevel
	r.current.Defaults = next.Defaults

	r.logger.Info("config reloaded",
		slog.String("log_level", next.App.LogLevel.String()),
		slog.String("default_instrument", defaults.Instrument),
		slog.String("default_key", defaults.Key))
	r.events.PublishReload(sse.Reload{Defaults: defaults, LogLevel: next.App.LogLevel.String()})
}
