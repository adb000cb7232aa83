package analysis

import (
	"strings"
	"testing"

	"github.com/lithammer/dedent"

	"github.com/CWBudde/go-pdx-lsp/internal/document"
	"github.com/CWBudde/go-pdx-lsp/internal/registry"
)

const (
	person registry.ObjectType = "person"
	place  registry.ObjectType = "place"
)

// fakeRegistry is a small table in the person/place vocabulary.
func fakeRegistry() *registry.Registry {
	reg := registry.New()
	reg.Triggers["any_vassal"] = registry.Entry{Output: person}
	reg.Triggers["is_ai"] = registry.Entry{}
	reg.Triggers["trigger"] = registry.Entry{}
	reg.Triggers["limit"] = registry.Entry{}
	reg.Triggers["10"] = registry.Entry{Output: place}
	reg.Effects["every_held_title"] = registry.Entry{Output: place}
	reg.Effects["add_gold"] = registry.Entry{}
	reg.Links["liege"] = registry.Entry{Output: person}
	reg.Links["primary_title"] = registry.Entry{Output: place}
	reg.Links["holder"] = registry.Entry{Output: person}

	return reg
}

// script dedents a fixture and drops its leading newline.
func script(src string) *document.Snapshot {
	return document.NewSnapshot(strings.TrimPrefix(dedent.Dedent(src), "\n"))
}

// scriptWithCursor is script for fixtures holding a single | cursor marker.
// It returns the snapshot without the marker and the cursor's line and byte
// offset.
func scriptWithCursor(t *testing.T, src string) (*document.Snapshot, int, int) {
	t.Helper()

	text := strings.TrimPrefix(dedent.Dedent(src), "\n")

	for i, line := range strings.Split(text, "\n") {
		if col := strings.Index(line, "|"); col >= 0 {
			return document.NewSnapshot(strings.Replace(text, "|", "", 1)), i, col
		}
	}

	t.Fatal("fixture has no | cursor marker")

	return nil, 0, 0
}
