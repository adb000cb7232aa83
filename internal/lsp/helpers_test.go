package lsp

import (
	"strings"
	"sync"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-pdx-lsp/internal/registry"
	"github.com/CWBudde/go-pdx-lsp/internal/server"
)

const (
	eventURI   = "file:///mod/events/test_events.txt"
	triggerURI = "file:///mod/common/scripted_triggers/test_triggers.txt"
)

const testRegistryYAML = `
triggers:
  any_vassal: {output: character, scopes: [character]}
  is_ai: {scopes: [character], description: "Is the character controlled by the AI?"}
  is_coastal: {scopes: [province]}
  has_variable: {}
effects:
  every_held_title: {output: landed_title, scopes: [character]}
  add_gold: {scopes: [character], description: Add gold to the character.}
  set_title_name: {scopes: [landed_title]}
links:
  liege: {output: character, scopes: [character]}
  primary_title: {output: landed_title, scopes: [character]}
  holder: {output: character, scopes: [landed_title]}
  capital_province: {output: province, scopes: [character, landed_title]}
`

// newTestServer installs a server around the small test registry.
func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	reg, err := registry.Parse([]byte(testRegistryYAML))
	require.NoError(t, err)

	srv := server.NewWithRegistry(reg)
	SetServer(srv)

	return srv
}

// recorder collects the notifications sent through a glsp context.
type recorder struct {
	mu        sync.Mutex
	published map[string][]protocol.Diagnostic
	count     int
}

func recordingContext() (*glsp.Context, *recorder) {
	rec := &recorder{published: make(map[string][]protocol.Diagnostic)}

	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			if method != protocol.ServerTextDocumentPublishDiagnostics {
				return
			}

			p := params.(*protocol.PublishDiagnosticsParams)

			rec.mu.Lock()
			defer rec.mu.Unlock()

			rec.published[p.URI] = p.Diagnostics
			rec.count++
		},
	}

	return ctx, rec
}

// diagnostics returns the last diagnostics published for uri.
func (r *recorder) diagnostics(uri string) []protocol.Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.published[uri]
}

func (r *recorder) notifications() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.count
}

// script dedents a fixture and drops its leading newline.
func script(src string) string {
	return strings.TrimPrefix(dedent.Dedent(src), "\n")
}

// openScript opens a fixture holding a single | cursor marker and returns the
// cursor position.
func openScript(t *testing.T, ctx *glsp.Context, uri, src string) protocol.Position {
	t.Helper()

	text := script(src)

	var pos protocol.Position

	found := false
	for i, line := range strings.Split(text, "\n") {
		if col := strings.Index(line, "|"); col >= 0 {
			pos = protocol.Position{Line: uint32(i), Character: uint32(col)}
			found = true

			break
		}
	}

	require.True(t, found, "fixture has no | cursor marker")

	openDocument(t, ctx, uri, strings.Replace(text, "|", "", 1))

	return pos
}

func openDocument(t *testing.T, ctx *glsp.Context, uri, text string) {
	t.Helper()

	err := DidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        uri,
			LanguageID: "pdxscript",
			Version:    1,
			Text:       text,
		},
	})
	require.NoError(t, err)
}
