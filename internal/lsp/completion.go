// Package lsp implements LSP protocol handlers.
package lsp

import (
	"log"
	"sort"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-pdx-lsp/internal/analysis"
	"github.com/CWBudde/go-pdx-lsp/internal/document"
	"github.com/CWBudde/go-pdx-lsp/internal/registry"
	"github.com/CWBudde/go-pdx-lsp/internal/server"
)

const maxCompletionItems = 200

// Sort prefixes keep block parameters above keywords and keywords above links.
const (
	sortParameter = "0"
	sortKeyword   = "1"
	sortLink      = "2"
	sortSaved     = "3"
)

// Completion handles the textDocument/completion request.
// Keys are completed from the keyword table of the mode in effect at the
// cursor, chain segments from the link table.
func Completion(context *glsp.Context, params *protocol.CompletionParams) (any, error) {
	startTime := time.Now()

	defer func() {
		log.Printf("Completion took %v", time.Since(startTime))
	}()

	empty := &protocol.CompletionList{IsIncomplete: false, Items: []protocol.CompletionItem{}}

	srv := currentServer("Completion")
	if srv == nil {
		return empty, nil
	}

	uri := params.TextDocument.URI
	position := params.Position

	log.Printf("Completion request at %s line %d, character %d\n",
		uri, position.Line, position.Character)

	doc, exists := srv.Documents().Get(uri)
	if !exists {
		log.Printf("Document not found for completion: %s\n", uri)
		return empty, nil
	}

	line, char := cursor(doc.Snapshot, position)

	completionContext := analysis.DetermineContext(doc.Snapshot, line, char)
	if completionContext.Kind == analysis.CompletionNone {
		log.Println("Completion suppressed (inside comment or string)")
		return empty, nil
	}

	reg := srv.Registry()
	opts := srv.ResolveOptionsFor(uri)
	pos := analysis.ResolvePosition(doc.Snapshot, reg, line, char, opts)

	log.Printf("Completion context: kind=%s, mode=%s, type=%s, prefix=%q\n",
		completionContext.Kind, pos.Mode, pos.ObjectType, completionContext.Prefix)

	var items []protocol.CompletionItem

	switch completionContext.Kind {
	case analysis.CompletionChain:
		items = chainCompletions(reg, completionContext.Chain, pos.ObjectType, rootTypeOf(opts))
	case analysis.CompletionValue:
		items = valueCompletions(reg, doc.Snapshot)
	default:
		items = append(parameterCompletions(pos), keywordCompletions(srv, reg, pos)...)
	}

	items = filterCompletions(items, completionContext.Prefix)

	incomplete := false
	if len(items) > maxCompletionItems {
		items = items[:maxCompletionItems]
		incomplete = true
	}

	return &protocol.CompletionList{IsIncomplete: incomplete, Items: items}, nil
}

// keywordCompletions returns the keywords usable in the mode and object type
// at the cursor. Condition positions offer triggers, Action positions effects,
// Weight positions the weight blocks plus triggers and Unknown positions both
// tables.
func keywordCompletions(srv *server.Server, reg *registry.Registry, pos analysis.PositionContext) []protocol.CompletionItem {
	key := server.CompletionKey{
		RegistryVersion: reg.Version(),
		Mode:            pos.Mode,
		ObjectType:      pos.ObjectType,
	}

	if items, ok := srv.CompletionCache().Get(key); ok {
		return items
	}

	var items []protocol.CompletionItem

	if pos.Mode == analysis.ModeWeight {
		kind := protocol.CompletionItemKindKeyword
		for _, name := range analysis.WeightBlockNames() {
			items = append(items, completionItem(name, kind, "weight block", sortKeyword, ""))
		}
	}

	if pos.Mode != analysis.ModeAction {
		items = append(items, tableCompletions(reg, registry.KindTrigger, pos.ObjectType)...)
	}

	if pos.Mode == analysis.ModeAction || pos.Mode == analysis.ModeUnknown {
		items = append(items, tableCompletions(reg, registry.KindEffect, pos.ObjectType)...)
	}

	srv.CompletionCache().Set(key, items)

	return items
}

// tableCompletions lists the entries of one registry table valid in t.
func tableCompletions(reg *registry.Registry, kind registry.Kind, t registry.ObjectType) []protocol.CompletionItem {
	itemKind := protocol.CompletionItemKindFunction
	if kind == registry.KindEffect {
		itemKind = protocol.CompletionItemKindMethod
	}

	var items []protocol.CompletionItem

	for _, name := range reg.Names(kind) {
		entry, _ := reg.Entry(kind, name)
		if !entry.ValidIn(t) {
			continue
		}

		items = append(items, completionItem(name, itemKind, entryDetail(kind, entry), sortKeyword, entry.Description))
	}

	return items
}

// chainCompletions lists the links that may follow chain. When the chain
// cannot be resolved or yields no definite type, every link is offered.
func chainCompletions(reg *registry.Registry, chain string, start, fallback registry.ObjectType) []protocol.CompletionItem {
	final := registry.Indeterminate

	// A saved reference has no known type.
	for _, seg := range analysis.SplitScopePath(chain) {
		if analysis.IsReference(seg) {
			return linkCompletions(reg, final)
		}
	}

	if res := analysis.ValidatePath(reg, chain, start, fallback); res.Valid {
		final = res.FinalType
	}

	return linkCompletions(reg, final)
}

func linkCompletions(reg *registry.Registry, t registry.ObjectType) []protocol.CompletionItem {
	kind := protocol.CompletionItemKindField

	var items []protocol.CompletionItem

	for _, name := range reg.Names(registry.KindLink) {
		entry, _ := reg.Entry(registry.KindLink, name)
		if !entry.ValidIn(t) {
			continue
		}

		items = append(items, completionItem(name, kind, entryDetail(registry.KindLink, entry), sortLink, entry.Description))
	}

	return items
}

// valueCompletions offers links and the document's saved scopes as values.
func valueCompletions(reg *registry.Registry, lines document.Lines) []protocol.CompletionItem {
	items := linkCompletions(reg, registry.Indeterminate)

	kind := protocol.CompletionItemKindVariable
	for _, name := range analysis.SavedScopeNames(lines) {
		items = append(items, completionItem("scope:"+name, kind, "saved scope", sortSaved, ""))
	}

	return items
}

// parameterCompletions offers the parameters of the innermost block when it
// is a parameter block such as opinion.
func parameterCompletions(pos analysis.PositionContext) []protocol.CompletionItem {
	frame, ok := innermostFrame(pos)
	if !ok {
		return nil
	}

	kind := protocol.CompletionItemKindProperty

	var items []protocol.CompletionItem
	for _, param := range analysis.BlockParameters(frame.Name) {
		items = append(items, completionItem(param, kind, frame.Name+" parameter", sortParameter, ""))
	}

	return items
}

func innermostFrame(pos analysis.PositionContext) (analysis.Frame, bool) {
	if len(pos.Frames) == 0 {
		return analysis.Frame{}, false
	}

	return pos.Frames[len(pos.Frames)-1], true
}

func completionItem(label string, kind protocol.CompletionItemKind, detail, group, description string) protocol.CompletionItem {
	sortText := group + label
	insertTextFormat := protocol.InsertTextFormatPlainText

	item := protocol.CompletionItem{
		Label:            label,
		Kind:             &kind,
		Detail:           &detail,
		InsertText:       &label,
		InsertTextFormat: &insertTextFormat,
		SortText:         &sortText,
	}

	if description != "" {
		item.Documentation = protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: description,
		}
	}

	return item
}

func entryDetail(kind registry.Kind, entry registry.Entry) string {
	if entry.ChangesScope() {
		return kind.String() + " → " + string(entry.Output)
	}

	return kind.String()
}

// filterCompletions keeps the items matching prefix and orders them by sort text.
func filterCompletions(items []protocol.CompletionItem, prefix string) []protocol.CompletionItem {
	filtered := make([]protocol.CompletionItem, 0, len(items))

	for _, item := range items {
		if analysis.MatchPrefix(prefix, item.Label) {
			filtered = append(filtered, item)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return *filtered[i].SortText < *filtered[j].SortText
	})

	return filtered
}

func rootTypeOf(opts analysis.ResolveOptions) registry.ObjectType {
	if opts.RootType == "" {
		return registry.Character
	}

	return opts.RootType
}
