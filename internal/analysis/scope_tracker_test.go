package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CWBudde/go-pdx-lsp/internal/registry"
)

func TestTrackScope(t *testing.T) {
	reg := fakeRegistry()

	tests := []struct {
		name     string
		path     []string
		initial  registry.ObjectType
		expected registry.ObjectType
	}{
		{name: "empty path", path: nil, initial: person, expected: person},
		{name: "non scope changers pass through", path: []string{"trigger", "limit", "OR", "is_ai"}, initial: person, expected: person},
		{name: "condition keyword", path: []string{"trigger", "any_vassal"}, initial: place, expected: person},
		{name: "action keyword", path: []string{"immediate", "every_held_title"}, initial: person, expected: place},
		{name: "innermost change wins", path: []string{"every_held_title", "any_vassal"}, initial: person, expected: person},
		{name: "reference is indeterminate", path: []string{"immediate", "scope:target"}, initial: person, expected: registry.Indeterminate},
		{name: "keyword after reference", path: []string{"scope:target", "every_held_title"}, initial: person, expected: place},
		{name: "numeric tiers never change scope", path: []string{"random_list", "10"}, initial: person, expected: person},
		{name: "links are not block keywords", path: []string{"liege"}, initial: place, expected: place},
		{name: "dotted chain follows its links", path: []string{"immediate", "liege.primary_title"}, initial: person, expected: place},
		{name: "dotted chain from a reference", path: []string{"scope:target.primary_title"}, initial: person, expected: registry.Indeterminate},
		{name: "dotted chain with unknown step", path: []string{"liege.bogus"}, initial: person, expected: registry.Indeterminate},
		{name: "event ids pass through", path: []string{"test.1"}, initial: person, expected: person},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TrackScope(tt.path, tt.initial, reg))
		})
	}
}

func TestTrackScope_NilRegistry(t *testing.T) {
	assert.Equal(t, person, TrackScope([]string{"any_vassal", "every_held_title"}, person, nil))
}

func TestIsReference(t *testing.T) {
	assert.True(t, IsReference("scope:actor"))
	assert.True(t, IsReference("var:counter"))
	assert.True(t, IsReference("global_var:x"))
	assert.False(t, IsReference("scope:"))
	assert.False(t, IsReference(":actor"))
	assert.False(t, IsReference("liege"))
	assert.False(t, IsReference("scope:actor.liege"))
}
