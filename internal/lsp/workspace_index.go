package lsp

import (
	"context"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-pdx-lsp/internal/server"
	"github.com/CWBudde/go-pdx-lsp/internal/workspace"
)

var (
	indexMu     sync.Mutex
	indexCtx    context.Context
	cancelIndex context.CancelFunc
)

// indexContext returns the context shared by all running index builds,
// creating it when none is active.
func indexContext() context.Context {
	indexMu.Lock()
	defer indexMu.Unlock()

	if indexCtx == nil {
		indexCtx, cancelIndex = context.WithCancel(context.Background())
	}

	return indexCtx
}

// startWorkspaceIndex indexes the workspace folders in the background,
// falling back to rootUri for clients without workspace folder support.
func startWorkspaceIndex(srv *server.Server, params *protocol.InitializeParams) {
	folders := params.WorkspaceFolders
	if len(folders) == 0 && params.RootURI != nil {
		folders = []protocol.WorkspaceFolder{{URI: *params.RootURI}}
	}

	if len(folders) == 0 {
		return
	}

	workspace.IndexWorkspaceAsync(indexContext(), srv.SymbolIndex(), folders)
}

// stopWorkspaceIndex cancels all running index builds.
func stopWorkspaceIndex() {
	indexMu.Lock()
	defer indexMu.Unlock()

	if cancelIndex != nil {
		cancelIndex()
	}

	indexCtx, cancelIndex = nil, nil
}

// refreshIndexedFile re-reads an indexed file from disk, picking up edits
// saved while it was open.
func refreshIndexedFile(srv *server.Server, uri string) {
	if len(srv.SymbolIndex().FindSymbolsInFile(uri)) == 0 {
		return
	}

	workspace.NewIndexer(srv.SymbolIndex()).IndexFile(workspace.URIToPath(uri))
}
