//go:build integration
// +build integration

package integration

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-pdx-lsp/internal/lsp"
	"github.com/CWBudde/go-pdx-lsp/internal/server"
)

const eventScript = `namespace = test

test.0001 = {
	type = character_event
	trigger = {
		is_ai = no
		any_vassal = { is_adult = yes }
	}
	immediate = {
		save_scope_as = ruler
		every_held_title = {
			holder.primery_title = { }
		}
		liege = { add_gold = 10 }
	}
	option = {
		scope:ruler = { add_prestige = 100 }
	}
}
`

func setupTestServer() *server.Server {
	srv := server.New()
	lsp.SetServer(srv)
	return srv
}

// notifyRecorder keeps the last diagnostics published per document.
type notifyRecorder struct {
	mu          sync.Mutex
	diagnostics map[string][]protocol.Diagnostic
}

func newContext() (*glsp.Context, *notifyRecorder) {
	rec := &notifyRecorder{diagnostics: make(map[string][]protocol.Diagnostic)}

	return &glsp.Context{
		Notify: func(method string, params any) {
			if p, ok := params.(*protocol.PublishDiagnosticsParams); ok {
				rec.mu.Lock()
				rec.diagnostics[p.URI] = p.Diagnostics
				rec.mu.Unlock()
			}
		},
	}, rec
}

func (r *notifyRecorder) get(uri string) []protocol.Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.diagnostics[uri]
}

func open(t *testing.T, ctx *glsp.Context, uri, text string) {
	t.Helper()

	err := lsp.DidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        uri,
			LanguageID: "pdxscript",
			Version:    1,
			Text:       text,
		},
	})
	if err != nil {
		t.Fatalf("DidOpen failed: %v", err)
	}
}

func position(t *testing.T, text, needle string, offset int) protocol.Position {
	t.Helper()

	for i, line := range strings.Split(text, "\n") {
		if col := strings.Index(line, needle); col >= 0 {
			return protocol.Position{Line: uint32(i), Character: uint32(col + offset)}
		}
	}

	t.Fatalf("%q not found", needle)

	return protocol.Position{}
}

// TestInitializeWorkflow tests the complete initialization workflow
func TestInitializeWorkflow(t *testing.T) {
	setupTestServer()
	ctx := &glsp.Context{}

	result, err := lsp.Initialize(ctx, &protocol.InitializeParams{
		RootURI: stringPtr("file:///test/workspace"),
		Capabilities: protocol.ClientCapabilities{
			TextDocument: &protocol.TextDocumentClientCapabilities{},
		},
	})
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	initResult, ok := result.(protocol.InitializeResult)
	if !ok {
		t.Fatalf("Initialize returned wrong type: %T", result)
	}

	if initResult.Capabilities.CompletionProvider == nil {
		t.Error("CompletionProvider capability should be advertised")
	}

	if err := lsp.Initialized(ctx, &protocol.InitializedParams{}); err != nil {
		t.Fatalf("Initialized failed: %v", err)
	}
}

// TestEventWorkflow opens an event file and runs every request against it
// with the built-in registry.
func TestEventWorkflow(t *testing.T) {
	setupTestServer()
	ctx, rec := newContext()

	uri := "file:///mod/events/test_events.txt"
	open(t, ctx, uri, eventScript)

	diagnostics := rec.get(uri)
	if len(diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %+v", len(diagnostics), diagnostics)
	}

	if !strings.Contains(diagnostics[0].Message, `"primary_title"`) {
		t.Errorf("diagnostic should suggest primary_title: %q", diagnostics[0].Message)
	}

	// Completion inside the title iterator offers title effects only.
	result, err := lsp.Completion(ctx, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 11, Character: 3},
		},
	})
	if err != nil {
		t.Fatalf("Completion failed: %v", err)
	}

	list := result.(*protocol.CompletionList)
	labels := map[string]bool{}
	for _, item := range list.Items {
		labels[item.Label] = true
	}

	if !labels["change_development_level"] || labels["add_gold"] {
		t.Errorf("unexpected completion labels in a landed_title scope: %v", labels)
	}

	// Hover on add_gold reports the liege scope.
	hover, err := lsp.Hover(ctx, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     position(t, eventScript, "add_gold", 1),
		},
	})
	if err != nil || hover == nil {
		t.Fatalf("Hover failed: %v", err)
	}

	content := hover.Contents.(protocol.MarkupContent).Value
	for _, want := range []string{"**add_gold** (effect)", "Mode: action", "Block path: `immediate > liege`"} {
		if !strings.Contains(content, want) {
			t.Errorf("hover %q does not contain %q", content, want)
		}
	}

	// scope:ruler jumps to its save_scope_as.
	def, err := lsp.Definition(ctx, &protocol.DefinitionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     position(t, eventScript, "scope:ruler", 7),
		},
	})
	if err != nil {
		t.Fatalf("Definition failed: %v", err)
	}

	location, ok := def.(*protocol.Location)
	if !ok {
		t.Fatalf("Definition returned %T", def)
	}

	if want := position(t, eventScript, "save_scope_as = ruler", 16); location.Range.Start != want {
		t.Errorf("definition at %+v, want %+v", location.Range.Start, want)
	}
}

// TestConcurrentDocumentOperations opens and edits many documents at once.
func TestConcurrentDocumentOperations(t *testing.T) {
	srv := setupTestServer()
	ctx, rec := newContext()

	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			uri := fmt.Sprintf("file:///mod/events/concurrent_%d.txt", i)
			open(t, ctx, uri, eventScript)

			_ = lsp.DidChange(ctx, &protocol.DidChangeTextDocumentParams{
				TextDocument: protocol.VersionedTextDocumentIdentifier{
					TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
					Version:                2,
				},
				ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{
					Text: strings.Replace(eventScript, "primery_title", "primary_title", 1),
				}},
			})
		}(i)
	}

	wg.Wait()

	if got := len(srv.Documents().List()); got != 20 {
		t.Errorf("stored %d documents, want 20", got)
	}

	for _, uri := range srv.Documents().List() {
		if got := len(rec.get(uri)); got != 0 {
			t.Errorf("%s has %d diagnostics after the fix", uri, got)
		}
	}
}

// TestShutdownWorkflow checks that requests after shutdown are ignored.
func TestShutdownWorkflow(t *testing.T) {
	srv := setupTestServer()
	ctx, _ := newContext()

	open(t, ctx, "file:///mod/events/a.txt", eventScript)

	if err := lsp.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	open(t, ctx, "file:///mod/events/b.txt", eventScript)

	if got := len(srv.Documents().List()); got != 0 {
		t.Errorf("documents after shutdown = %d, want 0", got)
	}
}

func stringPtr(s string) *string {
	return &s
}
