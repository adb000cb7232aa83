// Package server provides the core LSP server state and management.
package server

import (
	"strings"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-pdx-lsp/internal/analysis"
	"github.com/CWBudde/go-pdx-lsp/internal/registry"
	"github.com/CWBudde/go-pdx-lsp/internal/workspace"
)

// Server holds the state of the LSP server.
type Server struct {
	// documents stores all open documents
	documents *DocumentStore

	// registry is the keyword table set used by every request; swapped
	// wholesale on reload
	registry *registry.Registry

	// clientCapabilities stores the client's capabilities from the initialize request
	clientCapabilities *protocol.ClientCapabilities

	// symbolIndex holds the document-level blocks of script files on disk
	symbolIndex *workspace.SymbolIndex

	// completionCache caches keyword completion items per registry and context
	completionCache *CompletionCache

	// config holds server configuration
	config *Config

	// mutex protects server state
	mu sync.RWMutex

	// shutting down flag
	shuttingDown bool
}

// DocumentKind maps documents whose URI contains PathFragment to the object
// type and mode of their document-level blocks.
type DocumentKind struct {
	PathFragment string
	RootType     registry.ObjectType
	RootMode     analysis.Mode
}

// Config holds server configuration options.
type Config struct {
	// MaxProblems limits the number of diagnostics reported
	MaxProblems int

	// Trace controls logging verbosity
	Trace string

	// DefaultRootType is the object type of a document no DocumentKinds rule matches
	DefaultRootType registry.ObjectType

	// DocumentKinds are checked in order; the first match wins
	DocumentKinds []DocumentKind
}

// DefaultDocumentKinds returns the built-in folder rules.
func DefaultDocumentKinds() []DocumentKind {
	return []DocumentKind{
		{PathFragment: "common/scripted_triggers/", RootType: registry.Character, RootMode: analysis.ModeCondition},
		{PathFragment: "common/scripted_effects/", RootType: registry.Character, RootMode: analysis.ModeAction},
		{PathFragment: "common/on_action/", RootType: registry.Character, RootMode: analysis.ModeUnknown},
		{PathFragment: "common/landed_titles/", RootType: "landed_title", RootMode: analysis.ModeUnknown},
		{PathFragment: "common/decisions/", RootType: registry.Character, RootMode: analysis.ModeUnknown},
		{PathFragment: "events/", RootType: registry.Character, RootMode: analysis.ModeUnknown},
	}
}

// ResolveOptionsFor returns the resolution options for the document at uri.
func (c *Config) ResolveOptionsFor(uri string) analysis.ResolveOptions {
	normalized := strings.ReplaceAll(uri, "\\", "/")

	for _, kind := range c.DocumentKinds {
		if kind.PathFragment != "" && strings.Contains(normalized, kind.PathFragment) {
			return analysis.ResolveOptions{RootType: kind.RootType, RootMode: kind.RootMode}
		}
	}

	return analysis.ResolveOptions{RootType: c.DefaultRootType}
}

// New creates a new LSP server instance using the built-in registry.
func New() *Server {
	return NewWithRegistry(registry.Default())
}

// NewWithRegistry creates a server instance around reg.
func NewWithRegistry(reg *registry.Registry) *Server {
	return &Server{
		documents:       NewDocumentStore(),
		registry:        reg,
		symbolIndex:     workspace.NewSymbolIndex(),
		completionCache: NewCompletionCache(),
		config: &Config{
			MaxProblems:     100,
			Trace:           "off",
			DefaultRootType: registry.Character,
			DocumentKinds:   DefaultDocumentKinds(),
		},
	}
}

// IsShuttingDown returns true if the server is shutting down.
func (s *Server) IsShuttingDown() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shuttingDown
}

// SetShuttingDown marks the server as shutting down.
func (s *Server) SetShuttingDown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shuttingDown = true
}

// Documents returns the document store.
func (s *Server) Documents() *DocumentStore {
	return s.documents
}

// SymbolIndex returns the workspace block index.
func (s *Server) SymbolIndex() *workspace.SymbolIndex {
	return s.symbolIndex
}

// Registry returns the current keyword registry.
func (s *Server) Registry() *registry.Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry
}

// SetRegistry replaces the keyword registry. Requests already running keep
// the registry they started with.
func (s *Server) SetRegistry(reg *registry.Registry) {
	s.mu.Lock()
	s.registry = reg
	s.mu.Unlock()

	s.completionCache.Clear()
}

// Config returns a snapshot of the server configuration. Changes go through
// UpdateConfig.
func (s *Server) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg := *s.config
	cfg.DocumentKinds = append([]DocumentKind(nil), s.config.DocumentKinds...)

	return cfg
}

// UpdateConfig updates the server configuration atomically.
// The update function is called with the current config under a write lock.
func (s *Server) UpdateConfig(update func(*Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	update(s.config)
}

// ResolveOptionsFor returns the resolution options for the document at uri
// under the current configuration.
func (s *Server) ResolveOptionsFor(uri string) analysis.ResolveOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.ResolveOptionsFor(uri)
}

// SetClientCapabilities sets the client's capabilities.
func (s *Server) SetClientCapabilities(capabilities *protocol.ClientCapabilities) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientCapabilities = capabilities
}

// GetClientCapabilities returns the client's capabilities.
func (s *Server) GetClientCapabilities() *protocol.ClientCapabilities {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientCapabilities
}

// CompletionCache returns the completion cache.
func (s *Server) CompletionCache() *CompletionCache {
	return s.completionCache
}
