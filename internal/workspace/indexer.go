package workspace

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
	"golang.org/x/sync/errgroup"

	"github.com/CWBudde/go-pdx-lsp/internal/document"
)

const byteOrderMark = "\ufeff"

// Indexer handles workspace file indexing.
type Indexer struct {
	index    *SymbolIndex
	maxDepth int
	maxFiles int
	workers  int
}

// NewIndexer creates a new workspace indexer.
func NewIndexer(index *SymbolIndex) *Indexer {
	return &Indexer{
		index:    index,
		maxDepth: 10,    // Maximum directory depth
		maxFiles: 20000, // Maximum files to index
		workers:  8,
	}
}

// BuildWorkspaceIndex scans workspace folders and indexes all .txt script
// files. It returns the number of files indexed.
func (idx *Indexer) BuildWorkspaceIndex(ctx context.Context, workspaceFolders []protocol.WorkspaceFolder) (int, error) {
	if len(workspaceFolders) == 0 {
		log.Println("No workspace folders to index")
		return 0, nil
	}

	log.Printf("Starting workspace indexing for %d folders\n", len(workspaceFolders))

	var files []string

	for _, folder := range workspaceFolders {
		path := URIToPath(folder.URI)
		if path == "" {
			log.Printf("Warning: Could not convert URI to path: %s\n", folder.URI)
			continue
		}

		log.Printf("Indexing workspace folder: %s\n", path)
		files = idx.collectFiles(path, 0, files)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.workers)

	for _, path := range files {
		path := path

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			idx.IndexFile(path)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	log.Printf("Workspace indexing complete. Indexed %d files, %d blocks\n",
		len(files), idx.index.GetTotalLocationCount())

	return len(files), nil
}

// collectFiles recursively gathers script files below dirPath.
func (idx *Indexer) collectFiles(dirPath string, depth int, files []string) []string {
	if depth > idx.maxDepth || len(files) >= idx.maxFiles {
		return files
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		// Skip directories we can't read
		return files
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		fullPath := filepath.Join(dirPath, name)

		if entry.IsDir() {
			// Folders without script blocks
			switch name {
			case "localization", "localisation", "gfx", "fonts", "music", "sound", "dlc_metadata":
				continue
			}

			files = idx.collectFiles(fullPath, depth+1, files)

			continue
		}

		if !strings.EqualFold(filepath.Ext(name), ".txt") {
			continue
		}

		if len(files) >= idx.maxFiles {
			break
		}

		files = append(files, fullPath)
	}

	return files
}

// IndexFile reads a script file and replaces its entries in the index.
func (idx *Indexer) IndexFile(filePath string) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("Warning: Could not read file %s: %v\n", filePath, err)
		idx.index.RemoveFile(PathToURI(filePath))

		return
	}

	text := strings.TrimPrefix(string(content), byteOrderMark)
	container := filepath.Base(filepath.Dir(filePath))

	idx.index.IndexDocument(PathToURI(filePath), document.NewSnapshot(text), container)
}

// URIToPath converts a file URI to a file system path.
func URIToPath(uri string) string {
	if after, ok := strings.CutPrefix(uri, "file://"); ok {
		path := after
		// On Windows, URIs are like file:///C:/path, so drop the leading slash
		if len(path) > 2 && path[0] == '/' && path[2] == ':' {
			path = path[1:]
		}

		return filepath.FromSlash(path)
	}

	return uri
}

// PathToURI converts a file system path to a URI.
func PathToURI(path string) string {
	path = filepath.ToSlash(path)

	if len(path) > 1 && path[1] == ':' {
		return "file:///" + path
	}

	return "file://" + path
}

// IndexWorkspaceAsync runs workspace indexing in a background goroutine.
func IndexWorkspaceAsync(ctx context.Context, index *SymbolIndex, workspaceFolders []protocol.WorkspaceFolder) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Panic in workspace indexing: %v\n", r)
			}
		}()

		if _, err := NewIndexer(index).BuildWorkspaceIndex(ctx, workspaceFolders); err != nil {
			log.Printf("Workspace indexing stopped: %v\n", err)
		}
	}()
}
