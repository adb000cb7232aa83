// Package lsp implements LSP protocol handlers.
package lsp

import (
	"fmt"
	"log"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-pdx-lsp/internal/analysis"
	"github.com/CWBudde/go-pdx-lsp/internal/registry"
)

// Hover handles the textDocument/hover request.
// It shows the registry entry of the keyword under the cursor together with
// the mode, object type and block path in effect there.
func Hover(context *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	srv := currentServer("Hover")
	if srv == nil {
		return nil, nil
	}

	uri := params.TextDocument.URI
	position := params.Position

	log.Printf("Hover request at %s line %d, character %d\n",
		uri, position.Line, position.Character)

	doc, exists := srv.Documents().Get(uri)
	if !exists {
		log.Printf("Document not found for hover: %s\n", uri)
		return nil, nil
	}

	line, char := cursor(doc.Snapshot, position)
	text := doc.Snapshot.Line(line)

	start, end := analysis.WordAt(text, char)
	if start == end {
		return nil, nil
	}

	word := text[start:end]
	reg := srv.Registry()
	pos := analysis.ResolvePosition(doc.Snapshot, reg, line, char, srv.ResolveOptionsFor(uri))

	hoverRange := byteRange(doc.Snapshot, line, start, end)

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: hoverMarkdown(reg, word, pos),
		},
		Range: &hoverRange,
	}, nil
}

func hoverMarkdown(reg *registry.Registry, word string, pos analysis.PositionContext) string {
	var sb strings.Builder

	if entry, kind, ok := reg.Lookup(word); ok {
		fmt.Fprintf(&sb, "**%s** (%s)\n\n", word, kind)

		if entry.Description != "" {
			sb.WriteString(entry.Description)
			sb.WriteString("\n\n")
		}

		if entry.ChangesScope() {
			fmt.Fprintf(&sb, "Changes scope to `%s`\n\n", entry.Output)
		}

		if len(entry.Scopes) > 0 {
			scopes := make([]string, len(entry.Scopes))
			for i, s := range entry.Scopes {
				scopes[i] = "`" + string(s) + "`"
			}

			fmt.Fprintf(&sb, "Valid in %s\n\n", strings.Join(scopes, ", "))
		}
	} else {
		fmt.Fprintf(&sb, "**%s**\n\n", word)
	}

	sb.WriteString("---\n\n")
	fmt.Fprintf(&sb, "Mode: %s\n\n", pos.Mode)
	fmt.Fprintf(&sb, "Scope: `%s`\n\n", pos.ObjectType)

	if len(pos.BlockPath) > 0 {
		fmt.Fprintf(&sb, "Block path: `%s`\n", strings.Join(pos.BlockPath, " > "))
	}

	return sb.String()
}
