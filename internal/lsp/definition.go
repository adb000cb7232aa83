// Package lsp implements LSP protocol handlers.
package lsp

import (
	"log"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-pdx-lsp/internal/analysis"
	"github.com/CWBudde/go-pdx-lsp/internal/server"
)

const savedScopePrefix = "scope:"

// Definition handles the textDocument/definition request.
// scope:NAME jumps to the statement that saved NAME; any other word jumps to
// the document-level block of that name in an open document or, failing
// that, in the workspace index.
func Definition(context *glsp.Context, params *protocol.DefinitionParams) (interface{}, error) {
	srv := currentServer("Definition")
	if srv == nil {
		return nil, nil
	}

	uri := params.TextDocument.URI
	position := params.Position

	log.Printf("Definition request at %s line %d, character %d\n",
		uri, position.Line, position.Character)

	doc, exists := srv.Documents().Get(uri)
	if !exists {
		log.Printf("Document not found for definition: %s\n", uri)
		return nil, nil
	}

	line, char := cursor(doc.Snapshot, position)
	text := doc.Snapshot.Line(line)

	start, end := analysis.WordAt(text, char)
	if start == end {
		return nil, nil
	}

	word := text[start:end]

	var location *protocol.Location

	if name, ok := strings.CutPrefix(word, savedScopePrefix); ok {
		location = savedScopeDefinition(doc, name, line)
	} else {
		// Block names such as event ids may contain dots.
		start, end = analysis.ChainAt(text, char)
		location = blockDefinition(srv, doc, text[start:end])
	}

	if location == nil {
		return nil, nil
	}

	return location, nil
}

func savedScopeDefinition(doc *server.Document, name string, line int) *protocol.Location {
	saved, ok := analysis.FindSavedScope(doc.Snapshot, name, line)
	if !ok {
		log.Printf("No save_scope_as found for %q in %s\n", name, doc.URI)
		return nil
	}

	return &protocol.Location{
		URI:   doc.URI,
		Range: byteRange(doc.Snapshot, saved.Line, saved.Char, saved.Char+len(saved.Name)),
	}
}

// blockDefinition searches the current document first, then every other open
// document in URI order, then indexed files that are not open.
func blockDefinition(srv *server.Server, current *server.Document, name string) *protocol.Location {
	docs := []*server.Document{current}

	for _, uri := range srv.Documents().List() {
		if uri == current.URI {
			continue
		}

		if doc, ok := srv.Documents().Get(uri); ok {
			docs = append(docs, doc)
		}
	}

	for _, doc := range docs {
		for _, block := range analysis.DocumentBlocks(doc.Snapshot) {
			if block.Name != name {
				continue
			}

			return &protocol.Location{
				URI:   doc.URI,
				Range: byteRange(doc.Snapshot, block.StartLine, block.StartChar, block.StartChar+len(block.Name)),
			}
		}
	}

	for _, loc := range srv.SymbolIndex().FindSymbol(name) {
		if _, open := srv.Documents().Get(loc.Location.URI); open {
			continue
		}

		location := loc.Location
		return &location
	}

	log.Printf("No block named %q in workspace\n", name)

	return nil
}
