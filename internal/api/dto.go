package api

import "github.com/starford/tessitura/internal/engine"

// KeyboardResponse wraps the keyboard note table.
type KeyboardResponse struct {
	Notes []engine.NoteView `json:"notes" validate:"required"`
	Total int               `json:"total" example:"84" validate:"required"`
}

// KeysResponse wraps the key signature catalog.
type KeysResponse struct {
	Keys  []engine.KeyView `json:"keys" validate:"required"`
	Total int              `json:"total" example:"60" validate:"required"`
}

// InstrumentsResponse wraps the instrument registry.
type InstrumentsResponse struct {
	Instruments []engine.InstrumentView `json:"instruments" validate:"required"`
	Total       int                     `json:"total" example:"7" validate:"required"`
}

// ScalesResponse wraps the scale or mode catalog.
type ScalesResponse struct {
	Scales []engine.ScaleView `json:"scales" validate:"required"`
	Total  int                `json:"total" example:"6" validate:"required"`
}

// NamesResponse lists the names of a small fixed catalog.
type NamesResponse struct {
	Names []string `json:"names" example:"Concert,Instrument" validate:"required"`
}

// ResolveRequest is the request body for POST /api/resolve. Empty naming
// fields are filled from the configured defaults.
type ResolveRequest = engine.Selection

// ResolveResponse is a resolved note sequence.
type ResolveResponse struct {
	Selection engine.Selection `json:"selection" validate:"required"`
	Result    *engine.Result   `json:"result" validate:"required"`
}
