// Package lsp implements LSP protocol handlers.
package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-pdx-lsp/internal/document"
	"github.com/CWBudde/go-pdx-lsp/internal/server"
)

// DidOpen handles the textDocument/didOpen notification.
// This is sent when a document is opened in the editor.
func DidOpen(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	srv := currentServer("DidOpen")
	if srv == nil {
		return nil
	}

	uri := params.TextDocument.URI
	text := params.TextDocument.Text
	languageID := params.TextDocument.LanguageID
	version := int(params.TextDocument.Version)

	log.Printf("Document opened: %s (version %d, language %s, %d bytes)\n",
		uri, version, languageID, len(text))

	doc := server.NewDocument(uri, text, version, languageID)
	srv.Documents().Set(uri, doc)

	PublishDiagnostics(context, uri, ComputeDiagnostics(srv, doc))

	return nil
}

// DidClose handles the textDocument/didClose notification.
// This is sent when a document is closed in the editor.
func DidClose(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	srv := currentServer("DidClose")
	if srv == nil {
		return nil
	}

	uri := params.TextDocument.URI

	srv.Documents().Delete(uri)
	refreshIndexedFile(srv, uri)

	log.Printf("Document closed: %s\n", uri)

	// Send empty diagnostics to clear markers in the editor
	// Only send notification if context is properly initialized (not in tests)
	if context != nil && context.Notify != nil {
		diagnosticsParams := &protocol.PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: []protocol.Diagnostic{},
		}
		context.Notify(protocol.ServerTextDocumentPublishDiagnostics, diagnosticsParams)
	}

	return nil
}

// DidChange handles the textDocument/didChange notification.
// This is sent when a document's content changes in the editor.
// It supports both full and incremental sync modes.
func DidChange(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	srv := currentServer("DidChange")
	if srv == nil {
		return nil
	}

	uri := params.TextDocument.URI
	version := int(params.TextDocument.Version)

	doc, exists := srv.Documents().Get(uri)
	if !exists {
		log.Printf("Warning: Document not found for didChange: %s\n", uri)
		return nil
	}

	newText := doc.Text

	for i, changeInterface := range params.ContentChanges {
		switch change := changeInterface.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			newText = change.Text

		case protocol.TextDocumentContentChangeEvent:
			if change.Range == nil {
				newText = change.Text
				continue
			}

			updatedText, err := document.ApplyContentChange(newText, change)
			if err != nil {
				log.Printf("Error applying incremental change to %s: %v\n", uri, err)
				// Continue with unchanged text to avoid corruption
				continue
			}

			newText = updatedText

		default:
			log.Printf("Warning: Invalid content change type at index %d for %s\n", i, uri)
		}
	}

	log.Printf("Document changed: %s (version %d, %d change(s))\n",
		uri, version, len(params.ContentChanges))

	updatedDoc := doc.WithText(newText, version)
	srv.Documents().Set(uri, updatedDoc)

	PublishDiagnostics(context, uri, ComputeDiagnostics(srv, updatedDoc))

	return nil
}
