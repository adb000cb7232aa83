// Package workspace indexes the document-level blocks of script files on disk.
package workspace

import (
	"log"
	"sort"
	"strings"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-pdx-lsp/internal/analysis"
	"github.com/CWBudde/go-pdx-lsp/internal/document"
)

// SymbolLocation represents a location where a block is defined.
type SymbolLocation struct {
	Name          string            // Block name, e.g. an event id or scripted trigger
	Location      protocol.Location // Range covers the block name
	ContainerName string            // Content folder, e.g. "scripted_triggers"
}

// SymbolIndex maintains a workspace-wide index of document-level blocks.
// It is safe for concurrent use.
type SymbolIndex struct {
	// symbols maps block names to their locations; a name may be defined
	// in several files.
	symbols map[string][]SymbolLocation

	// files maps document URIs to the block names they define.
	files map[string][]string

	mutex sync.RWMutex
}

// NewSymbolIndex creates a new empty symbol index.
func NewSymbolIndex() *SymbolIndex {
	return &SymbolIndex{
		symbols: make(map[string][]SymbolLocation),
		files:   make(map[string][]string),
	}
}

// AddSymbol adds a block location to the index.
func (si *SymbolIndex) AddSymbol(name, uri string, symbolRange protocol.Range, containerName string) {
	si.mutex.Lock()
	defer si.mutex.Unlock()

	si.addLocked(SymbolLocation{
		Name: name,
		Location: protocol.Location{
			URI:   uri,
			Range: symbolRange,
		},
		ContainerName: containerName,
	})
}

// IndexDocument replaces the entries for uri with the blocks found in lines.
// The swap happens under one lock, so concurrent runs for the same file never
// leave duplicate entries.
func (si *SymbolIndex) IndexDocument(uri string, lines document.Lines, containerName string) int {
	blocks := analysis.DocumentBlocks(lines)

	locations := make([]SymbolLocation, 0, len(blocks))
	for _, block := range blocks {
		text := lines.Line(block.StartLine)
		locations = append(locations, SymbolLocation{
			Name: block.Name,
			Location: protocol.Location{
				URI: uri,
				Range: protocol.Range{
					Start: protocol.Position{
						Line:      uint32(block.StartLine),
						Character: uint32(document.ByteToUTF16Column(text, block.StartChar)),
					},
					End: protocol.Position{
						Line:      uint32(block.StartLine),
						Character: uint32(document.ByteToUTF16Column(text, block.StartChar+len(block.Name))),
					},
				},
			},
			ContainerName: containerName,
		})
	}

	si.mutex.Lock()
	defer si.mutex.Unlock()

	si.removeLocked(uri)
	for _, loc := range locations {
		si.addLocked(loc)
	}

	return len(blocks)
}

func (si *SymbolIndex) addLocked(loc SymbolLocation) {
	si.symbols[loc.Name] = append(si.symbols[loc.Name], loc)
	si.files[loc.Location.URI] = append(si.files[loc.Location.URI], loc.Name)
}

// FindSymbol returns every location defining name, ordered by URI.
// Returns nil if the name is not indexed.
func (si *SymbolIndex) FindSymbol(name string) []SymbolLocation {
	si.mutex.RLock()
	defer si.mutex.RUnlock()

	locations, exists := si.symbols[name]
	if !exists {
		return nil
	}

	result := make([]SymbolLocation, len(locations))
	copy(result, locations)
	sortLocations(result)

	return result
}

// FindSymbolsInFile returns the blocks defined in a specific file.
func (si *SymbolIndex) FindSymbolsInFile(uri string) []SymbolLocation {
	si.mutex.RLock()
	defer si.mutex.RUnlock()

	var result []SymbolLocation

	seen := make(map[string]bool)
	for _, name := range si.files[uri] {
		if seen[name] {
			continue
		}
		seen[name] = true

		for _, loc := range si.symbols[name] {
			if loc.Location.URI == uri {
				result = append(result, loc)
			}
		}
	}

	sortLocations(result)

	return result
}

// RemoveFile removes all blocks from a file.
func (si *SymbolIndex) RemoveFile(uri string) {
	si.mutex.Lock()
	defer si.mutex.Unlock()

	si.removeLocked(uri)
}

func (si *SymbolIndex) removeLocked(uri string) {
	names, exists := si.files[uri]
	if !exists {
		return
	}

	for _, name := range names {
		var remaining []SymbolLocation
		for _, loc := range si.symbols[name] {
			if loc.Location.URI != uri {
				remaining = append(remaining, loc)
			}
		}

		if len(remaining) > 0 {
			si.symbols[name] = remaining
		} else {
			delete(si.symbols, name)
		}
	}

	delete(si.files, uri)
}

// RemoveFolder removes every file below the folder URI and returns how many
// files were dropped.
func (si *SymbolIndex) RemoveFolder(folderURI string) int {
	prefix := strings.TrimSuffix(folderURI, "/") + "/"

	si.mutex.RLock()
	var uris []string
	for uri := range si.files {
		if strings.HasPrefix(uri, prefix) {
			uris = append(uris, uri)
		}
	}
	si.mutex.RUnlock()

	for _, uri := range uris {
		si.RemoveFile(uri)
	}

	return len(uris)
}

// GetFileCount returns the number of files in the index.
func (si *SymbolIndex) GetFileCount() int {
	si.mutex.RLock()
	defer si.mutex.RUnlock()

	return len(si.files)
}

// GetSymbolCount returns the number of distinct block names in the index.
func (si *SymbolIndex) GetSymbolCount() int {
	si.mutex.RLock()
	defer si.mutex.RUnlock()

	return len(si.symbols)
}

// GetTotalLocationCount returns the number of indexed block locations.
func (si *SymbolIndex) GetTotalLocationCount() int {
	si.mutex.RLock()
	defer si.mutex.RUnlock()

	count := 0
	for _, locations := range si.symbols {
		count += len(locations)
	}

	return count
}

// Clear removes everything from the index.
func (si *SymbolIndex) Clear() {
	si.mutex.Lock()
	defer si.mutex.Unlock()

	si.symbols = make(map[string][]SymbolLocation)
	si.files = make(map[string][]string)

	log.Println("Symbol index cleared")
}

// Search returns the blocks whose name fuzzy-matches query, ordered by URI
// and position. An empty query matches everything. maxResults <= 0 means
// no limit.
func (si *SymbolIndex) Search(query string, maxResults int) []SymbolLocation {
	si.mutex.RLock()

	var results []SymbolLocation
	for name, locations := range si.symbols {
		if analysis.MatchPrefix(query, name) {
			results = append(results, locations...)
		}
	}

	si.mutex.RUnlock()

	sortLocations(results)

	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}

	return results
}

func sortLocations(locations []SymbolLocation) {
	sort.SliceStable(locations, func(i, j int) bool {
		a, b := locations[i].Location, locations[j].Location
		if a.URI != b.URI {
			return a.URI < b.URI
		}

		if a.Range.Start.Line != b.Range.Start.Line {
			return a.Range.Start.Line < b.Range.Start.Line
		}

		return a.Range.Start.Character < b.Range.Start.Character
	})
}
