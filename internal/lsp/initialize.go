// Package lsp implements LSP protocol handlers.
package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-pdx-lsp/internal/server"
)

const (
	// ServerName is reported to clients in the initialize result.
	ServerName = "go-pdx-lsp"

	// ServerVersion is reported to clients in the initialize result.
	ServerVersion = "0.1.0"
)

var (
	// serverInstance holds the global server instance
	// This is set by SetServer and accessed by handlers
	serverInstance interface{}
)

// SetServer sets the global server instance for handlers to access.
func SetServer(srv interface{}) {
	serverInstance = srv
}

// currentServer returns the server instance, or nil when it is missing or
// shutting down.
func currentServer(handler string) *server.Server {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Printf("Warning: server instance not available in %s\n", handler)
		return nil
	}

	if srv.IsShuttingDown() {
		log.Printf("Ignoring %s: server is shutting down\n", handler)
		return nil
	}

	return srv
}

// Initialize handles the LSP initialize request.
// This is the first request sent by the client and establishes the server capabilities.
func Initialize(context *glsp.Context, params *protocol.InitializeParams) (interface{}, error) {
	if srv, ok := serverInstance.(*server.Server); ok && srv != nil {
		srv.SetClientCapabilities(&params.Capabilities)
		startWorkspaceIndex(srv, params)
	}

	changeKind := protocol.TextDocumentSyncKindIncremental
	trueVal := true
	falseVal := false

	capabilities := protocol.ServerCapabilities{
		// Text document synchronization
		TextDocumentSync: protocol.TextDocumentSyncOptions{
			OpenClose: &trueVal,
			Change:    &changeKind,
			WillSave:  &falseVal,
			Save: &protocol.SaveOptions{
				IncludeText: &falseVal,
			},
		},

		HoverProvider: &[]bool{true}[0],

		// Saved scopes and document-level blocks
		DefinitionProvider: &[]bool{true}[0],

		// Document-level blocks (outline view)
		DocumentSymbolProvider: &[]bool{true}[0],

		WorkspaceSymbolProvider: &[]bool{true}[0],

		// Added and removed folders update the workspace index
		Workspace: &protocol.ServerCapabilitiesWorkspace{
			WorkspaceFolders: &protocol.WorkspaceFoldersServerCapabilities{
				Supported:           &trueVal,
				ChangeNotifications: &protocol.BoolOrString{Value: true},
			},
		},

		// Keyword completion; "." starts a chain segment, ":" a saved scope
		CompletionProvider: &protocol.CompletionOptions{
			TriggerCharacters: []string{".", ":", "="},
			ResolveProvider:   &[]bool{false}[0],
		},

		// "Did you mean" fixes for unknown chain segments
		CodeActionProvider: &protocol.CodeActionOptions{
			CodeActionKinds: []protocol.CodeActionKind{
				protocol.CodeActionKindQuickFix,
			},
			ResolveProvider: &[]bool{false}[0],
		},
	}

	serverVersion := ServerVersion

	result := protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    ServerName,
			Version: &serverVersion,
		},
	}

	return result, nil
}

// Initialized handles the initialized notification from the client.
// This is sent after the initialize response, signaling that the client is ready.
func Initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("Client initialized")
	return nil
}

// Shutdown handles the shutdown request.
// Open documents, the workspace index and cached completions are dropped;
// requests arriving afterwards are answered with empty results.
func Shutdown(context *glsp.Context) error {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		return nil
	}

	srv.SetShuttingDown()
	stopWorkspaceIndex()
	srv.Documents().Clear()
	srv.SymbolIndex().Clear()
	srv.CompletionCache().Clear()

	log.Println("Server shutting down")

	return nil
}
