package server

import (
	"sort"
	"sync"

	"github.com/CWBudde/go-pdx-lsp/internal/document"
)

// Document represents an open document in the workspace.
type Document struct {
	URI        string
	Text       string
	Version    int
	LanguageID string

	// Snapshot is the line view of Text. It is rebuilt whenever the text
	// changes and never mutated, so readers may hold on to it.
	Snapshot *document.Snapshot
}

// NewDocument creates a document and its snapshot.
func NewDocument(uri, text string, version int, languageID string) *Document {
	return &Document{
		URI:        uri,
		Text:       text,
		Version:    version,
		LanguageID: languageID,
		Snapshot:   document.NewSnapshot(text),
	}
}

// WithText returns a copy of the document holding text at version.
func (d *Document) WithText(text string, version int) *Document {
	return NewDocument(d.URI, text, version, d.LanguageID)
}

// DocumentStore manages all open documents.
type DocumentStore struct {
	documents map[string]*Document
	mu        sync.RWMutex
}

// NewDocumentStore creates a new document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]*Document),
	}
}

// Set stores or updates a document.
func (ds *DocumentStore) Set(uri string, doc *Document) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.documents[uri] = doc
}

// Get retrieves a document by URI.
func (ds *DocumentStore) Get(uri string) (*Document, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	doc, ok := ds.documents[uri]

	return doc, ok
}

// Delete removes a document from the store.
func (ds *DocumentStore) Delete(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	delete(ds.documents, uri)
}

// List returns all document URIs, sorted.
func (ds *DocumentStore) List() []string {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	uris := make([]string, 0, len(ds.documents))
	for uri := range ds.documents {
		uris = append(uris, uri)
	}

	sort.Strings(uris)

	return uris
}

// Clear removes all documents from the store.
func (ds *DocumentStore) Clear() {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.documents = make(map[string]*Document)
}
