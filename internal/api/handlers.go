package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/tessitura/internal/engine"
)

// Handler holds API route handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// nameParam returns the decoded path parameter key. Clients may percent-encode
// accidentals ("F%E2%99%AF") and the slash in note names ("Cb%2F5").
func nameParam(r *http.Request, key string) string {
	raw := strings.TrimPrefix(chi.URLParam(r, key), "/")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// Keyboard handles GET /api/keyboard.
//
//	@Summary		List the keyboard note table
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	KeyboardResponse
//	@Success		304	"Not modified"
//	@Security		BearerAuth
//	@Router			/keyboard [get]
func (h *Handler) Keyboard(w http.ResponseWriter, r *http.Request) {
	notes := h.svc.Keyboard()
	writeTagged(w, r, KeyboardResponse{Notes: notes, Total: len(notes)})
}

// Note handles GET /api/keyboard/*.
//
//	@Summary		Look up a keyboard note by octave-qualified name
//	@Tags			catalog
//	@Produce		json
//	@Param			name	path		string	true	"Note name, e.g. Cb/5"
//	@Success		200		{object}	engine.NoteView
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/keyboard/{name} [get]
func (h *Handler) Note(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Note(nameParam(r, "*"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeTagged(w, r, n)
}

// Keys handles GET /api/keys.
//
//	@Summary		List key signatures in circle-of-fifths order
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	KeysResponse
//	@Security		BearerAuth
//	@Router			/keys [get]
func (h *Handler) Keys(w http.ResponseWriter, r *http.Request) {
	keys := h.svc.Keys()
	writeTagged(w, r, KeysResponse{Keys: keys, Total: len(keys)})
}

// Key handles GET /api/keys/{name}.
//
//	@Summary		Look up a key signature
//	@Tags			catalog
//	@Produce		json
//	@Param			name	path		string	true	"Key name, e.g. F# or eb harmonic"
//	@Success		200		{object}	engine.KeyView
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/keys/{name} [get]
func (h *Handler) Key(w http.ResponseWriter, r *http.Request) {
	k, err := h.svc.Key(nameParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeTagged(w, r, k)
}

// Instruments handles GET /api/instruments.
//
//	@Summary		List instruments
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	InstrumentsResponse
//	@Security		BearerAuth
//	@Router			/instruments [get]
func (h *Handler) Instruments(w http.ResponseWriter, r *http.Request) {
	insts := h.svc.Instruments()
	writeTagged(w, r, InstrumentsResponse{Instruments: insts, Total: len(insts)})
}

// Instrument handles GET /api/instruments/{name}.
//
//	@Summary		Look up an instrument
//	@Tags			catalog
//	@Produce		json
//	@Param			name	path		string	true	"Instrument name"
//	@Success		200		{object}	engine.InstrumentView
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/instruments/{name} [get]
func (h *Handler) Instrument(w http.ResponseWriter, r *http.Request) {
	inst, err := h.svc.Instrument(nameParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeTagged(w, r, inst)
}

// Scales handles GET /api/scales.
//
//	@Summary		List scales
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	ScalesResponse
//	@Security		BearerAuth
//	@Router			/scales [get]
func (h *Handler) Scales(w http.ResponseWriter, r *http.Request) {
	scales := h.svc.Scales()
	writeTagged(w, r, ScalesResponse{Scales: scales, Total: len(scales)})
}

// Scale handles GET /api/scales/{name}.
//
//	@Summary		Look up a scale
//	@Tags			catalog
//	@Produce		json
//	@Param			name	path		string	true	"Scale name, e.g. Pentatonic"
//	@Success		200		{object}	engine.ScaleView
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/scales/{name} [get]
func (h *Handler) Scale(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Scale(nameParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeTagged(w, r, s)
}

// Modes handles GET /api/modes.
//
//	@Summary		List modes with their rotated sequences
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	ScalesResponse
//	@Security		BearerAuth
//	@Router			/modes [get]
func (h *Handler) Modes(w http.ResponseWriter, r *http.Request) {
	modes := h.svc.Modes()
	writeTagged(w, r, ScalesResponse{Scales: modes, Total: len(modes)})
}

// Mode handles GET /api/modes/{name}.
//
//	@Summary		Look up a mode
//	@Tags			catalog
//	@Produce		json
//	@Param			name	path		string	true	"Mode name, e.g. Dorian"
//	@Success		200		{object}	engine.ScaleView
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/modes/{name} [get]
func (h *Handler) Mode(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Mode(nameParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeTagged(w, r, m)
}

// Pitches handles GET /api/pitches.
//
//	@Summary		List pitch conventions
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	NamesResponse
//	@Security		BearerAuth
//	@Router			/pitches [get]
func (h *Handler) Pitches(w http.ResponseWriter, r *http.Request) {
	writeTagged(w, r, NamesResponse{Names: h.svc.Pitches()})
}

// Displays handles GET /api/displays.
//
//	@Summary		List display options
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	NamesResponse
//	@Security		BearerAuth
//	@Router			/displays [get]
func (h *Handler) Displays(w http.ResponseWriter, r *http.Request) {
	writeTagged(w, r, NamesResponse{Names: h.svc.Displays()})
}

// ResolveQuery handles GET /api/resolve.
//
//	@Summary		Resolve a selection into a range-bounded note sequence
//	@Tags			resolve
//	@Produce		json
//	@Param			instrument	query		string	false	"Instrument name"
//	@Param			key			query		string	false	"Key signature name"
//	@Param			scale		query		string	false	"Scale name; exclusive with mode"
//	@Param			mode		query		string	false	"Mode name; exclusive with scale"
//	@Param			pitch		query		string	false	"Concert or Instrument"
//	@Param			display		query		string	false	"Display option"
//	@Param			octave		query		int		false	"Fixed root octave, 1-7"
//	@Success		200			{object}	ResolveResponse
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/resolve [get]
func (h *Handler) ResolveQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel := engine.Selection{
		Instrument: q.Get("instrument"),
		Key:        q.Get("key"),
		Scale:      q.Get("scale"),
		Mode:       q.Get("mode"),
		Pitch:      q.Get("pitch"),
		Display:    q.Get("display"),
	}
	if o := q.Get("octave"); o != "" {
		octave, err := strconv.Atoi(o)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("octave must be an integer"))
			return
		}
		sel.Octave = octave
	}
	h.resolve(w, r, sel)
}

// Resolve handles POST /api/resolve.
//
//	@Summary		Resolve a selection into a range-bounded note sequence
//	@Tags			resolve
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ResolveRequest	true	"Selection"
//	@Success		200		{object}	ResolveResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/resolve [post]
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	h.resolve(w, r, req)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, sel engine.Selection) {
	sel, res, err := h.svc.Resolve(sel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ResolveResponse{Selection: sel, Result: res})
}
