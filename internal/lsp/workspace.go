// Package lsp implements LSP protocol handlers.
package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-pdx-lsp/internal/registry"
	"github.com/CWBudde/go-pdx-lsp/internal/server"
	"github.com/CWBudde/go-pdx-lsp/internal/workspace"
)

// settingsSection is the client configuration namespace read by the server.
const settingsSection = "go-pdx-lsp"

// DidChangeConfiguration handles workspace configuration changes from the client.
// Recognized settings:
//
//	{
//	  "go-pdx-lsp": {
//	    "maxProblems": 100,
//	    "trace": "off",
//	    "defaultRootType": "character"
//	  }
//	}
//
// Diagnostics of open documents are republished afterwards.
func DidChangeConfiguration(context *glsp.Context, params *protocol.DidChangeConfigurationParams) error {
	srv := currentServer("DidChangeConfiguration")
	if srv == nil {
		return nil
	}

	settingsMap, ok := params.Settings.(map[string]any)
	if !ok {
		return nil
	}

	settings, ok := settingsMap[settingsSection].(map[string]any)
	if !ok {
		return nil
	}

	srv.UpdateConfig(func(cfg *server.Config) {
		if maxProblems, ok := settings["maxProblems"].(float64); ok {
			cfg.MaxProblems = int(maxProblems)
			log.Printf("Configuration updated: maxProblems = %d\n", cfg.MaxProblems)
		}

		if trace, ok := settings["trace"].(string); ok {
			cfg.Trace = trace
			log.Printf("Configuration updated: trace = %s\n", trace)
		}

		if rootType, ok := settings["defaultRootType"].(string); ok && rootType != "" {
			cfg.DefaultRootType = registry.ObjectType(rootType)
			log.Printf("Configuration updated: defaultRootType = %s\n", rootType)
		}
	})

	RepublishDiagnostics(context, srv)

	return nil
}

// RepublishDiagnostics recomputes and publishes the diagnostics of every
// open document.
func RepublishDiagnostics(context *glsp.Context, srv *server.Server) {
	for _, uri := range srv.Documents().List() {
		if doc, ok := srv.Documents().Get(uri); ok {
			PublishDiagnostics(context, uri, ComputeDiagnostics(srv, doc))
		}
	}
}

// DidChangeWorkspaceFolders handles changes to workspace folders.
// Added folders are indexed in the background; files below removed folders
// are dropped from the index.
func DidChangeWorkspaceFolders(context *glsp.Context, params *protocol.DidChangeWorkspaceFoldersParams) error {
	srv := currentServer("DidChangeWorkspaceFolders")
	if srv == nil {
		return nil
	}

	for _, folder := range params.Event.Removed {
		n := srv.SymbolIndex().RemoveFolder(folder.URI)
		log.Printf("Workspace folder removed: %s (%s), dropped %d files\n", folder.Name, folder.URI, n)
	}

	if len(params.Event.Added) > 0 {
		for _, folder := range params.Event.Added {
			log.Printf("Workspace folder added: %s (%s)\n", folder.Name, folder.URI)
		}

		workspace.IndexWorkspaceAsync(indexContext(), srv.SymbolIndex(), params.Event.Added)
	}

	return nil
}
