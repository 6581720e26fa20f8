package api

import (
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/starford/tessitura/internal/engine"
	"github.com/starford/tessitura/internal/metrics"
)

// Service coordinates catalog lookups and note resolution for the API and
// MCP layers. It is safe for concurrent use.
type Service struct {
	engine   *engine.Engine
	metrics  *metrics.Metrics
	cache    *cache.Cache
	defaults atomic.Pointer[engine.Selection]
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithMetrics records lookups, resolutions and cache use.
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// WithCache memoises resolve results for ttl. A zero ttl leaves caching off.
func WithCache(ttl, cleanup time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.cache = cache.New(ttl, cleanup)
		}
	}
}

// NewService creates a Service over e. defaults fills selection fields a
// caller leaves empty.
func NewService(e *engine.Engine, defaults engine.Selection, opts ...ServiceOption) *Service {
	s := &Service{engine: e}
	for _, opt := range opts {
		opt(s)
	}
	s.defaults.Store(&defaults)
	return s
}

// Engine returns the underlying engine.
func (s *Service) Engine() *engine.Engine { return s.engine }

// Defaults returns the current default selection.
func (s *Service) Defaults() engine.Selection {
	return *s.defaults.Load()
}

// SetDefaults replaces the default selection and drops cached results.
func (s *Service) SetDefaults(sel engine.Selection) {
	s.defaults.Store(&sel)
	if s.cache != nil {
		s.cache.Flush()
	}
}

// Complete fills the naming fields sel leaves empty from the defaults.
// Scale, Mode and Octave are taken as given.
func (s *Service) Complete(sel engine.Selection) engine.Selection {
	d := s.Defaults()
	if sel.Instrument == "" {
		sel.Instrument = d.Instrument
	}
	if sel.Key == "" {
		sel.Key = d.Key
	}
	if sel.Pitch == "" {
		sel.Pitch = d.Pitch
	}
	if sel.Display == "" {
		sel.Display = d.Display
	}
	return sel
}

// Resolve completes sel from the defaults and resolves it, returning the
// completed selection with the result. Results are shared between callers
// and must not be modified.
func (s *Service) Resolve(sel engine.Selection) (engine.Selection, *engine.Result, error) {
	sel = s.Complete(sel)
	key := sel.CacheKey()

	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			s.metrics.ObserveCache(true)
			return sel, v.(*engine.Result), nil
		}
		s.metrics.ObserveCache(false)
	}

	res, err := s.engine.Resolve(sel)
	if err != nil {
		s.metrics.ObserveResolve(0, 0, err)
		return sel, nil, err
	}
	s.metrics.ObserveResolve(len(res.Notes), res.Dropped, nil)

	if s.cache != nil {
		s.cache.Set(key, res, cache.DefaultExpiration)
	}
	return sel, res, nil
}

// CacheSize returns the number of cached results.
func (s *Service) CacheSize() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.ItemCount()
}

func observe[T any](s *Service, field string, v T, err error) (T, error) {
	s.metrics.ObserveLookup(field, err)
	return v, err
}

// Instrument looks up an instrument.
func (s *Service) Instrument(name string) (engine.InstrumentView, error) {
	inst, err := s.engine.Instrument(name)
	if err != nil {
		return observe(s, engine.FieldInstrument, engine.InstrumentView{}, err)
	}
	return observe(s, engine.FieldInstrument, s.engine.ViewInstrument(inst), nil)
}

// Key looks up a key signature.
func (s *Service) Key(name string) (engine.KeyView, error) {
	k, err := s.engine.KeySignature(name)
	if err != nil {
		return observe(s, engine.FieldKey, engine.KeyView{}, err)
	}
	return observe(s, engine.FieldKey, engine.ViewKey(k), nil)
}

// Scale looks up a scale.
func (s *Service) Scale(name string) (engine.ScaleView, error) {
	sc, err := s.engine.Scale(name)
	if err != nil {
		return observe(s, engine.FieldScale, engine.ScaleView{}, err)
	}
	return observe(s, engine.FieldScale, engine.ViewScale(sc), nil)
}

// Mode looks up a mode.
func (s *Service) Mode(name string) (engine.ScaleView, error) {
	m, err := s.engine.Mode(name)
	if err != nil {
		return observe(s, engine.FieldMode, engine.ScaleView{}, err)
	}
	return observe(s, engine.FieldMode, engine.ViewMode(m), nil)
}

// Note looks up a keyboard note by octave-qualified name.
func (s *Service) Note(name string) (engine.NoteView, error) {
	n, err := s.engine.Note(name)
	if err != nil {
		return observe(s, engine.FieldNote, engine.NoteView{}, err)
	}
	return observe(s, engine.FieldNote, engine.ViewNote(n), nil)
}

// Catalog listings. These are static for the life of the engine.

// Keyboard lists every keyboard note.
func (s *Service) Keyboard() []engine.NoteView { return s.engine.KeyboardView() }

// Keys lists every key signature.
func (s *Service) Keys() []engine.KeyView { return s.engine.KeysView() }

// Instruments lists every instrument.
func (s *Service) Instruments() []engine.InstrumentView { return s.engine.InstrumentsView() }

// Scales lists every scale.
func (s *Service) Scales() []engine.ScaleView { return s.engine.ScalesView() }

// Modes lists every mode.
func (s *Service) Modes() []engine.ScaleView { return s.engine.ModesView() }

// Pitches lists the pitch conventions.
func (s *Service) Pitches() []string { return s.engine.PitchNames() }

// Displays lists the display options.
func (s *Service) Displays() []string { return s.engine.DisplayNames() }

