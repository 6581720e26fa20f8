// Package metrics exposes Prometheus counters for catalog lookups, note
// resolution and the HTTP surface.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/starford/tessitura/internal/apperr"
)

// Resolve outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeEmpty    = "empty"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// Metrics holds the application collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	lookupsTotal    *prometheus.CounterVec
	resolvesTotal   *prometheus.CounterVec
	droppedNotes    prometheus.Counter
	cacheTotal      *prometheus.CounterVec
	configReloads   *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with registry.
func New(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.lookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tessitura_lookups_total",
			Help: "Total number of catalog lookups by field and outcome",
		},
		[]string{"field", "outcome"},
	)
	m.resolvesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tessitura_resolves_total",
			Help: "Total number of note resolutions by outcome",
		},
		[]string{"outcome"},
	)
	m.droppedNotes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tessitura_dropped_notes_total",
		Help: "Notes clipped from resolutions for lying outside the playable range",
	})
	m.cacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tessitura_resolve_cache_total",
			Help: "Resolve cache lookups by result",
		},
		[]string{"result"}, // hit, miss
	)
	m.configReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tessitura_config_reloads_total",
			Help: "Configuration reloads by outcome",
		},
		[]string{"outcome"},
	)
	m.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tessitura_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)
	m.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tessitura_http_request_duration_seconds",
			Help:    "Time taken for HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.lookupsTotal, m.resolvesTotal, m.droppedNotes, m.cacheTotal,
		m.configReloads, m.requestsTotal, m.requestDuration,
	}
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors() {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors() {
		c.Collect(ch)
	}
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Outcome classifies err for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, apperr.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, apperr.ErrInvalid):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

// ObserveLookup records a lookup of field.
func (m *Metrics) ObserveLookup(field string, err error) {
	if m == nil {
		return
	}
	m.lookupsTotal.WithLabelValues(field, Outcome(err)).Inc()
}

// ObserveResolve records a resolution. notes and dropped are ignored when
// err is set.
func (m *Metrics) ObserveResolve(notes, dropped int, err error) {
	if m == nil {
		return
	}
	outcome := Outcome(err)
	if err == nil {
		if notes == 0 {
			outcome = OutcomeEmpty
		}
		m.droppedNotes.Add(float64(dropped))
	}
	m.resolvesTotal.WithLabelValues(outcome).Inc()
}

// ObserveCache records a resolve cache hit or miss.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheTotal.WithLabelValues(result).Inc()
}

// ObserveReload records a configuration reload.
func (m *Metrics) ObserveReload(err error) {
	if m == nil {
		return
	}
	m.configReloads.WithLabelValues(Outcome(err)).Inc()
}

// Middleware records request counts and durations labelled by chi route
// pattern, so path parameters do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
