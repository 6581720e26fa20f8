package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/starford/tessitura/internal/engine"
	"github.com/starford/tessitura/internal/keysig"
	"github.com/starford/tessitura/internal/metrics"
	"github.com/starford/tessitura/internal/scale"
	"github.com/starford/tessitura/internal/testutil"
)

var testDefaults = engine.Selection{
	Instrument: "Concert Flute",
	Key:        "C",
	Pitch:      "Concert",
	Display:    "Ascending",
}

// testEnv builds a service and router. An empty token means auth disabled.
func testEnv(t *testing.T, token string, opts ...ServiceOption) (*Service, http.Handler) {
	t.Helper()
	svc := NewService(testutil.Engine(t), testDefaults, opts...)
	router := NewRouter(svc, RouterConfig{AuthEnabled: token != "", Token: token})
	return svc, router
}

func do(t *testing.T, h http.Handler, method, target string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestCatalogs(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodGet, "/keyboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	kb := decode[KeyboardResponse](t, w)
	assert.Equal(t, 84, kb.Total)
	assert.Equal(t, []string{"B/1", "Cb/2"}, kb.Notes[11].Names)

	w = do(t, router, http.MethodGet, "/keys", nil)
	require.Equal(t, http.StatusOK, w.Code)
	keys := decode[KeysResponse](t, w)
	assert.Equal(t, 60, keys.Total)
	assert.Equal(t, "C", keys.Keys[0].Name)
	assert.Equal(t, keysig.None, keys.Keys[0].Kind)
	assert.Equal(t, keysig.HarmonicMinor, keys.Keys[2].ScaleType)

	w = do(t, router, http.MethodGet, "/instruments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, decode[InstrumentsResponse](t, w).Total)

	w = do(t, router, http.MethodGet, "/scales", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 6, decode[ScalesResponse](t, w).Total)

	w = do(t, router, http.MethodGet, "/modes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, decode[ScalesResponse](t, w).Total)

	w = do(t, router, http.MethodGet, "/pitches", nil)
	assert.Equal(t, []string{"Concert", "Instrument"}, decode[NamesResponse](t, w).Names)

	w = do(t, router, http.MethodGet, "/displays", nil)
	assert.Equal(t, []string{"Ascending", "Descending", "Ascending and Descending"}, decode[NamesResponse](t, w).Names)
}

func TestLookups(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodGet, "/keys/f%23", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	key := decode[engine.KeyView](t, w)
	assert.Equal(t, "F♯", key.Name)
	assert.Equal(t, "######n", key.Accidentals)

	w = do(t, router, http.MethodGet, "/keys/eb%20harmonic", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "e♭ harmonic", decode[engine.KeyView](t, w).Name)

	w = do(t, router, http.MethodGet, "/instruments/Bass%20Recorder", nil)
	require.Equal(t, http.StatusOK, w.Code)
	inst := decode[engine.InstrumentView](t, w)
	assert.Equal(t, -1, inst.OctaveShift)
	assert.Equal(t, "8vb", inst.Clef.Annotation)

	w = do(t, router, http.MethodGet, "/modes/dorian", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{0, 2, 3, 5, 7, 9, 10}, decode[engine.ScaleView](t, w).Sequence)

	w = do(t, router, http.MethodGet, "/scales/Fourths", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{0, 5}, decode[engine.ScaleView](t, w).Sequence)

	w = do(t, router, http.MethodGet, "/keyboard/Cb/5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 47, decode[engine.NoteView](t, w).Value)

	w = do(t, router, http.MethodGet, "/keyboard/Cb%2F5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 47, decode[engine.NoteView](t, w).Value)
}

func TestLookups_NotFound(t *testing.T) {
	_, router := testEnv(t, "")

	tests := []struct {
		target string
		msg    string
	}{
		{"/instruments/Kazoo", "instrument error - Kazoo not found"},
		{"/keys/H", "key error - H not found"},
		{"/scales/Blues", "scale error - Blues not found"},
		{"/modes/Hypodorian", "mode error - Hypodorian not found"},
		{"/keyboard/H/9", "note error - H/9 not found"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := do(t, router, http.MethodGet, tt.target, nil)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, tt.msg, decode[errResponse](t, w).Error)
		})
	}
}

func TestETag_NotModified(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodGet, "/keys", nil)
	require.Equal(t, http.StatusOK, w.Code)
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	w = do(t, router, http.MethodGet, "/keys", nil, "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.Bytes())

	w = do(t, router, http.MethodGet, "/keys", nil, "If-None-Match", `"stale"`)
	assert.Equal(t, http.StatusOK, w.Code)

	// Different representations carry different tags.
	other := do(t, router, http.MethodGet, "/scales", nil).Header().Get("ETag")
	assert.NotEqual(t, etag, other)
}

func TestResolveQuery(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodGet, "/resolve?scale=Fourths", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[ResolveResponse](t, w)
	assert.Equal(t, "Concert Flute", resp.Selection.Instrument)
	assert.Equal(t, []int{36, 41}, resp.Result.Values())
	assert.Equal(t, []string{"C/4", "F/4"}, resp.Result.Names())

	w = do(t, router, http.MethodGet, "/resolve?instrument=Violin&key=a%20melodic&display=Descending&octave=4", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp = decode[ResolveResponse](t, w)
	assert.Equal(t, []string{"G/5", "F/5", "E/5", "D/5", "C/5", "B/4", "A/4"}, resp.Result.Names())
	assert.Equal(t, scale.Descending, resp.Result.Display)
}

func TestResolveQuery_Errors(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodGet, "/resolve?scale=Diatonic&mode=Dorian", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodGet, "/resolve?octave=high", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "octave must be an integer", decode[errResponse](t, w).Error)

	w = do(t, router, http.MethodGet, "/resolve?octave=9", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodGet, "/resolve?instrument=Kazoo", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "instrument error - Kazoo not found", decode[errResponse](t, w).Error)
}

func TestResolvePost(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodPost, "/resolve", ResolveRequest{
		Instrument: "Bass Recorder",
		Scale:      "Fifths",
		Octave:     7,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[ResolveResponse](t, w)
	assert.Empty(t, resp.Result.Notes)
	assert.Equal(t, 2, resp.Result.Dropped)
	assert.Contains(t, w.Body.String(), `"notes":[]`)

	req := httptest.NewRequest(http.MethodPost, "/resolve", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuth(t *testing.T) {
	_, router := testEnv(t, "secret")

	w := do(t, router, http.MethodGet, "/keys", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, http.MethodGet, "/keys", nil, "Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, http.MethodGet, "/keys", nil, "Authorization", "Bearer secret")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit(t *testing.T) {
	svc := NewService(testutil.Engine(t), testDefaults)
	router := NewRouter(svc, RouterConfig{Limiter: rate.NewLimiter(rate.Every(time.Hour), 1)})

	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/resolve", nil).Code)
	w := do(t, router, http.MethodGet, "/resolve", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// Catalog routes are not limited.
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/keys", nil).Code)
}

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, NewLimiter(0, 10))
	l := NewLimiter(2.5, 0)
	require.NotNil(t, l)
	assert.Equal(t, 3, l.Burst())
	assert.Equal(t, 7, NewLimiter(1, 7).Burst())
}

func TestEventsMounted(t *testing.T) {
	svc := NewService(testutil.Engine(t), testDefaults)
	events := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })
	router := NewRouter(svc, RouterConfig{Events: events})
	assert.Equal(t, http.StatusAccepted, do(t, router, http.MethodGet, "/events", nil).Code)
}

func TestService_Cache(t *testing.T) {
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	svc, _ := testEnv(t, "", WithCache(time.Minute, time.Minute), WithMetrics(m))

	_, first, err := svc.Resolve(engine.Selection{Scale: "Diatonic"})
	require.NoError(t, err)
	_, second, err := svc.Resolve(engine.Selection{Scale: "Diatonic"})
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, svc.CacheSize())

	_, _, err = svc.Resolve(engine.Selection{Scale: "Blues"})
	require.Error(t, err)
	assert.Equal(t, 1, svc.CacheSize(), "errors are not cached")

	svc.SetDefaults(engine.Selection{Instrument: "Violin", Key: "G", Pitch: "Concert", Display: "Ascending"})
	assert.Equal(t, 0, svc.CacheSize())

	sel, res, err := svc.Resolve(engine.Selection{Scale: "Diatonic"})
	require.NoError(t, err)
	assert.Equal(t, "Violin", sel.Instrument)
	assert.Equal(t, "Diatonic", sel.Scale)
	assert.Equal(t, "Violin", res.Instrument)
	assert.Equal(t, "G", res.Key)
}

func TestService_NoCache(t *testing.T) {
	svc, _ := testEnv(t, "", WithCache(0, 0))
	_, _, err := svc.Resolve(engine.Selection{})
	require.NoError(t, err)
	assert.Equal(t, 0, svc.CacheSize())
}

func TestService_CompleteKeepsGivenFields(t *testing.T) {
	svc, _ := testEnv(t, "")
	sel := svc.Complete(engine.Selection{Key: "D", Mode: "Lydian", Octave: 5})
	assert.Equal(t, engine.Selection{
		Instrument: "Concert Flute",
		Key:        "D",
		Mode:       "Lydian",
		Pitch:      "Concert",
		Display:    "Ascending",
		Octave:     5,
	}, sel)
}
