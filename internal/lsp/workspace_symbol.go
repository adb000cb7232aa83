// Package lsp implements LSP protocol handlers.
package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-pdx-lsp/internal/analysis"
)

// WorkspaceSymbol handles the workspace/symbol request.
// It returns the document-level blocks whose name matches the query, from
// open documents first and then from indexed files that are not open.
func WorkspaceSymbol(context *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	srv := currentServer("WorkspaceSymbol")
	if srv == nil {
		return nil, nil
	}

	query := params.Query
	log.Printf("WorkspaceSymbol request with query: %q\n", query)

	// Limit to 500 results to avoid overwhelming the client
	const maxResults = 500

	symbols := []protocol.SymbolInformation{}

	for _, uri := range srv.Documents().List() {
		doc, ok := srv.Documents().Get(uri)
		if !ok {
			continue
		}

		for _, block := range analysis.DocumentBlocks(doc.Snapshot) {
			if !analysis.MatchPrefix(query, block.Name) {
				continue
			}

			symbols = append(symbols, protocol.SymbolInformation{
				Name: block.Name,
				Kind: protocol.SymbolKindObject,
				Location: protocol.Location{
					URI:   uri,
					Range: byteRange(doc.Snapshot, block.StartLine, block.StartChar, block.StartChar+len(block.Name)),
				},
			})

			if len(symbols) >= maxResults {
				return symbols, nil
			}
		}
	}

	for _, loc := range srv.SymbolIndex().Search(query, 0) {
		if _, open := srv.Documents().Get(loc.Location.URI); open {
			continue
		}

		symbols = append(symbols, protocol.SymbolInformation{
			Name:          loc.Name,
			Kind:          protocol.SymbolKindObject,
			Location:      loc.Location,
			ContainerName: stringPtr(loc.ContainerName),
		})

		if len(symbols) >= maxResults {
			return symbols, nil
		}
	}

	log.Printf("Found %d workspace symbols matching query %q\n", len(symbols), query)

	return symbols, nil
}
