package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBuildWorkspaceIndex(t *testing.T) {
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "common", "scripted_triggers", "triggers.txt"),
		"\ufeffis_valid_ruler = {\n\tis_adult = yes\n}\n")
	writeFile(t, filepath.Join(root, "events", "test_events.txt"),
		"namespace = test\ntest.1 = {\n}\n")
	writeFile(t, filepath.Join(root, "localization", "english", "test_l_english.yml"),
		"l_english:\n")
	writeFile(t, filepath.Join(root, "localization", "english", "ignored.txt"),
		"ignored = {\n}\n")
	writeFile(t, filepath.Join(root, ".git", "hidden.txt"),
		"hidden = {\n}\n")

	index := NewSymbolIndex()
	folders := []protocol.WorkspaceFolder{{URI: PathToURI(root), Name: "mod"}}

	count, err := NewIndexer(index).BuildWorkspaceIndex(context.Background(), folders)
	if err != nil {
		t.Fatalf("BuildWorkspaceIndex failed: %v", err)
	}

	if count != 2 {
		t.Errorf("Expected 2 indexed files, got %d", count)
	}

	locations := index.FindSymbol("is_valid_ruler")
	if len(locations) != 1 {
		t.Fatalf("Expected is_valid_ruler to be indexed, got %v", locations)
	}

	if locations[0].ContainerName != "scripted_triggers" {
		t.Errorf("Expected container 'scripted_triggers', got '%s'", locations[0].ContainerName)
	}

	// The byte order mark does not shift the first block
	if ch := locations[0].Location.Range.Start.Character; ch != 0 {
		t.Errorf("Expected start character 0, got %d", ch)
	}

	if index.FindSymbol("test.1") == nil {
		t.Error("Expected test.1 to be indexed")
	}

	if index.FindSymbol("ignored") != nil || index.FindSymbol("hidden") != nil {
		t.Error("Expected localization and hidden folders to be skipped")
	}
}

func TestBuildWorkspaceIndex_Canceled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "events", "a.txt"), "a.1 = {\n}\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	folders := []protocol.WorkspaceFolder{{URI: PathToURI(root)}}

	if _, err := NewIndexer(NewSymbolIndex()).BuildWorkspaceIndex(ctx, folders); err == nil {
		t.Error("Expected an error for a canceled context")
	}
}

func TestBuildWorkspaceIndex_NoFolders(t *testing.T) {
	count, err := NewIndexer(NewSymbolIndex()).BuildWorkspaceIndex(context.Background(), nil)
	if err != nil || count != 0 {
		t.Errorf("Expected (0, nil), got (%d, %v)", count, err)
	}
}

func TestURIConversion(t *testing.T) {
	path := filepath.FromSlash("/mod/events/a.txt")

	uri := PathToURI(path)
	if uri != "file:///mod/events/a.txt" {
		t.Errorf("PathToURI(%q) = %q", path, uri)
	}

	if got := URIToPath(uri); got != path {
		t.Errorf("URIToPath(%q) = %q, want %q", uri, got, path)
	}
}
