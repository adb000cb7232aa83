// Package lsp implements LSP protocol handlers.
package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-pdx-lsp/internal/analysis"
	"github.com/CWBudde/go-pdx-lsp/internal/document"
)

// DocumentSymbol handles the textDocument/documentSymbol request.
// It lists the document-level blocks (events, decisions, scripted triggers)
// for the outline view.
func DocumentSymbol(context *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	srv := currentServer("DocumentSymbol")
	if srv == nil {
		return nil, nil
	}

	uri := params.TextDocument.URI
	log.Printf("DocumentSymbol request for %s\n", uri)

	doc, exists := srv.Documents().Get(uri)
	if !exists {
		log.Printf("Document not found for document symbols: %s\n", uri)
		return nil, nil
	}

	symbols := collectDocumentSymbols(doc.Snapshot)

	log.Printf("Found %d top-level blocks in %s\n", len(symbols), uri)

	return symbols, nil
}

func collectDocumentSymbols(lines document.Lines) []protocol.DocumentSymbol {
	symbols := []protocol.DocumentSymbol{}

	for _, block := range analysis.DocumentBlocks(lines) {
		endText := lines.Line(block.EndLine)

		symbols = append(symbols, protocol.DocumentSymbol{
			Name: block.Name,
			Kind: protocol.SymbolKindObject,
			Range: protocol.Range{
				Start: protocol.Position{
					Line:      uint32(block.StartLine),
					Character: uint32(document.ByteToUTF16Column(lines.Line(block.StartLine), block.StartChar)),
				},
				End: protocol.Position{
					Line:      uint32(block.EndLine),
					Character: uint32(document.ByteToUTF16Column(endText, len(endText))),
				},
			},
			SelectionRange: byteRange(lines, block.StartLine, block.StartChar, block.StartChar+len(block.Name)),
		})
	}

	return symbols
}
