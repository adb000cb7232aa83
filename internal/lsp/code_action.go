// Package lsp implements LSP protocol handlers.
package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-pdx-lsp/internal/analysis"
	"github.com/CWBudde/go-pdx-lsp/internal/document"
	"github.com/CWBudde/go-pdx-lsp/internal/registry"
	"github.com/CWBudde/go-pdx-lsp/internal/server"
)

// CodeAction handles the textDocument/codeAction request.
// It offers a replacement for every unknown chain segment that has a close
// known spelling.
func CodeAction(context *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	srv := currentServer("CodeAction")
	if srv == nil {
		return nil, nil
	}

	uri := params.TextDocument.URI
	diagnostics := params.Context.Diagnostics

	log.Printf("CodeAction request at %s with %d diagnostics\n", uri, len(diagnostics))

	doc, exists := srv.Documents().Get(uri)
	if !exists {
		log.Printf("Document not found for code action: %s\n", uri)
		return nil, nil
	}

	reg := srv.Registry()
	actions := []protocol.CodeAction{}

	for _, diagnostic := range diagnostics {
		if action := replaceSegmentAction(reg, doc, diagnostic); action != nil {
			actions = append(actions, *action)
		}
	}

	log.Printf("Returning %d code actions\n", len(actions))

	return actions, nil
}

// replaceSegmentAction builds the quick fix for an unknown-scope-link
// diagnostic, or returns nil when there is nothing to suggest.
func replaceSegmentAction(reg *registry.Registry, doc *server.Document, diagnostic protocol.Diagnostic) *protocol.CodeAction {
	if !isUnknownLink(diagnostic) {
		return nil
	}

	r := diagnostic.Range
	if r.Start.Line != r.End.Line {
		return nil
	}

	text := doc.Snapshot.Line(int(r.Start.Line))
	start := document.UTF16ToByteColumn(text, int(r.Start.Character))
	end := document.UTF16ToByteColumn(text, int(r.End.Character))

	if start >= end {
		return nil
	}

	suggestion := analysis.SuggestSegment(reg, text[start:end])
	if suggestion == "" {
		return nil
	}

	preferred := true

	return &protocol.CodeAction{
		Title:       "Replace with '" + suggestion + "'",
		Kind:        stringPtr(string(protocol.CodeActionKindQuickFix)),
		Diagnostics: []protocol.Diagnostic{diagnostic},
		IsPreferred: &preferred,
		Edit: &protocol.WorkspaceEdit{
			Changes: map[protocol.DocumentUri][]protocol.TextEdit{
				doc.URI: {{Range: r, NewText: suggestion}},
			},
		},
	}
}

func isUnknownLink(diagnostic protocol.Diagnostic) bool {
	if diagnostic.Code == nil {
		return false
	}

	code, ok := diagnostic.Code.Value.(string)

	return ok && code == unknownLinkCode
}
