// Package lsp implements LSP protocol handlers.
package lsp

import (
	"log"
	"sort"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-pdx-lsp/internal/analysis"
	"github.com/CWBudde/go-pdx-lsp/internal/document"
	"github.com/CWBudde/go-pdx-lsp/internal/server"
)

const (
	// diagnosticSource is the source attached to every published diagnostic.
	diagnosticSource = "pdxscript"

	// unknownLinkCode marks diagnostics for unresolvable chain segments.
	unknownLinkCode = "unknown-scope-link"
)

// PublishDiagnostics sends diagnostic information to the client for a specific document.
func PublishDiagnostics(context *glsp.Context, uri string, diagnostics []protocol.Diagnostic) {
	if context == nil || context.Notify == nil {
		log.Println("Warning: Cannot publish diagnostics - context or Notify is nil")
		return
	}

	// Sort diagnostics by position (line, then column) for consistent ordering
	sortDiagnostics(diagnostics)

	params := &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	}

	log.Printf("Publishing %d diagnostic(s) for %s", len(diagnostics), uri)

	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, params)
}

// ComputeDiagnostics validates the scope chains of doc against the current
// registry. At most Config.MaxProblems diagnostics are returned.
func ComputeDiagnostics(srv *server.Server, doc *server.Document) []protocol.Diagnostic {
	problems := analysis.ChainDiagnostics(doc.Snapshot, srv.Registry(), srv.ResolveOptionsFor(doc.URI))

	if limit := srv.Config().MaxProblems; limit > 0 && len(problems) > limit {
		log.Printf("Truncating %d diagnostics to %d for %s", len(problems), limit, doc.URI)
		problems = problems[:limit]
	}

	severity := protocol.DiagnosticSeverityWarning
	diagnostics := make([]protocol.Diagnostic, 0, len(problems))

	for _, p := range problems {
		code := protocol.IntegerOrString{Value: unknownLinkCode}

		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    byteRange(doc.Snapshot, p.Line, p.StartChar, p.EndChar),
			Severity: &severity,
			Code:     &code,
			Source:   stringPtr(diagnosticSource),
			Message:  p.Message(),
		})
	}

	return diagnostics
}

// sortDiagnostics sorts diagnostics by position (line first, then column).
func sortDiagnostics(diagnostics []protocol.Diagnostic) {
	sort.Slice(diagnostics, func(i, j int) bool {
		if diagnostics[i].Range.Start.Line != diagnostics[j].Range.Start.Line {
			return diagnostics[i].Range.Start.Line < diagnostics[j].Range.Start.Line
		}

		return diagnostics[i].Range.Start.Character < diagnostics[j].Range.Start.Character
	})
}

// byteRange converts a single-line byte range to an LSP range.
func byteRange(lines document.Lines, line, start, end int) protocol.Range {
	text := lines.Line(line)

	return protocol.Range{
		Start: protocol.Position{
			Line:      uint32(line),
			Character: uint32(document.ByteToUTF16Column(text, start)),
		},
		End: protocol.Position{
			Line:      uint32(line),
			Character: uint32(document.ByteToUTF16Column(text, end)),
		},
	}
}

// cursor converts an LSP position to a line and byte offset.
func cursor(lines document.Lines, position protocol.Position) (int, int) {
	line := int(position.Line)
	return line, document.UTF16ToByteColumn(lines.Line(line), int(position.Character))
}

// stringPtr is a helper function to create a pointer to a string.
func stringPtr(s string) *string {
	return &s
}
