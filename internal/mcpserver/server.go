// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the note catalogs and resolver via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/tessitura/internal/engine"
)

// GlossaryURI identifies the glossary resource.
const GlossaryURI = "tessitura://glossary"

// Catalog kinds accepted by list_catalog.
var listKinds = []string{"keyboard", "keys", "instruments", "scales", "modes", "pitches", "displays"}

// Lookup kinds accepted by lookup.
var lookupKinds = []string{"instrument", "key", "scale", "mode", "note"}

// Catalog is the read side the tools are served from.
type Catalog interface {
	Keyboard() []engine.NoteView
	Keys() []engine.KeyView
	Instruments() []engine.InstrumentView
	Scales() []engine.ScaleView
	Modes() []engine.ScaleView
	Pitches() []string
	Displays() []string

	Instrument(name string) (engine.InstrumentView, error)
	Key(name string) (engine.KeyView, error)
	Scale(name string) (engine.ScaleView, error)
	Mode(name string) (engine.ScaleView, error)
	Note(name string) (engine.NoteView, error)

	// Resolve fills empty fields from the defaults and resolves the
	// selection, returning the completed selection with the result.
	Resolve(sel engine.Selection) (engine.Selection, *engine.Result, error)
}

// Server wraps the MCP server with the tessitura tools.
type Server struct {
	mcp     *server.MCPServer
	catalog Catalog
}

// New creates a new MCP server with all tools registered.
func New(catalog Catalog, version string) *Server {
	s := &Server{catalog: catalog}

	s.mcp = server.NewMCPServer(
		"Tessitura",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_catalog",
		mcp.WithDescription("List one of the static catalogs as JSON."),
		mcp.WithString("kind", mcp.Required(), mcp.Enum(listKinds...),
			mcp.Description("Catalog to list")),
	), s.listCatalog)

	s.mcp.AddTool(mcp.NewTool("lookup",
		mcp.WithDescription("Look up one catalog entry by name. Names are matched "+
			"ignoring case; '#' and 'b' may stand for sharp and flat."),
		mcp.WithString("kind", mcp.Required(), mcp.Enum(lookupKinds...),
			mcp.Description("Kind of entry")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Entry name, e.g. 'F#', 'Violin', 'Cb/5'")),
	), s.lookup)

	s.mcp.AddTool(mcp.NewTool("resolve_notes",
		mcp.WithDescription("Resolve a selection into the notes an instrument can play. "+
			"Omitted instrument, key, pitch and display use the server defaults. "+
			"Give at most one of scale and mode. Read "+GlossaryURI+" for the vocabulary."),
		mcp.WithString("instrument", mcp.Description("Instrument name")),
		mcp.WithString("key", mcp.Description("Key signature name, e.g. 'G' or 'e harmonic'")),
		mcp.WithString("scale", mcp.Description("Scale name")),
		mcp.WithString("mode", mcp.Description("Mode name")),
		mcp.WithString("pitch", mcp.Description("Concert or Instrument")),
		mcp.WithString("display", mcp.Description("Ascending, Descending or Ascending and Descending")),
		mcp.WithNumber("octave", mcp.Description("Fixed octave of the first note, 1-7")),
	), s.resolveNotes)

	s.mcp.AddTool(mcp.NewTool("get_glossary",
		mcp.WithDescription("Returns the glossary of names and selection rules."),
	), s.getGlossary)

	s.mcp.AddResource(
		mcp.NewResource(GlossaryURI, "Glossary",
			mcp.WithResourceDescription("Names, selection rules and error formats."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readGlossaryResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listCatalog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	switch kind {
	case "keyboard":
		return jsonResult(s.catalog.Keyboard())
	case "keys":
		return jsonResult(s.catalog.Keys())
	case "instruments":
		return jsonResult(s.catalog.Instruments())
	case "scales":
		return jsonResult(s.catalog.Scales())
	case "modes":
		return jsonResult(s.catalog.Modes())
	case "pitches":
		return jsonResult(s.catalog.Pitches())
	case "displays":
		return jsonResult(s.catalog.Displays())
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown catalog %q", kind)), nil
	}
}

func (s *Server) lookup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var v any
	switch kind {
	case "instrument":
		v, err = s.catalog.Instrument(name)
	case "key":
		v, err = s.catalog.Key(name)
	case "scale":
		v, err = s.catalog.Scale(name)
	case "mode":
		v, err = s.catalog.Mode(name)
	case "note":
		v, err = s.catalog.Note(name)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown kind %q", kind)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(v)
}

// resolveResult is the resolve_notes payload.
type resolveResult struct {
	Selection engine.Selection `json:"selection"`
	Names     []string         `json:"names"`
	Result    *engine.Result   `json:"result"`
}

func (s *Server) resolveNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel, res, err := s.catalog.Resolve(engine.Selection{
		Instrument: req.GetString("instrument", ""),
		Key:        req.GetString("key", ""),
		Scale:      req.GetString("scale", ""),
		Mode:       req.GetString("mode", ""),
		Pitch:      req.GetString("pitch", ""),
		Display:    req.GetString("display", ""),
		Octave:     req.GetInt("octave", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(resolveResult{Selection: sel, Names: res.Names(), Result: res})
}

func (s *Server) getGlossary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(Glossary), nil
}

func (s *Server) readGlossaryResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GlossaryURI,
			MIMEType: "text/markdown",
			Text:     Glossary,
		},
	}, nil
}
