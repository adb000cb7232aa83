package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CWBudde/go-pdx-lsp/internal/registry"
)

func TestSplitScopePath(t *testing.T) {
	assert.Equal(t, []string{"scope:actor", "liege"}, SplitScopePath("scope:actor.liege"))
	assert.Equal(t, []string{"liege", "primary_title", "holder"}, SplitScopePath("liege.primary_title.holder"))
	assert.Equal(t, []string{"liege"}, SplitScopePath("liege"))
	assert.Nil(t, SplitScopePath(""))
}

func TestValidatePath(t *testing.T) {
	reg := fakeRegistry()

	tests := []struct {
		name     string
		path     string
		start    registry.ObjectType
		expected ScopePathResult
	}{
		{
			name:     "known chain",
			path:     "liege.primary_title.holder",
			start:    person,
			expected: ScopePathResult{Valid: true, FinalType: person},
		},
		{
			name:     "chain ending on a place",
			path:     "liege.primary_title",
			start:    person,
			expected: ScopePathResult{Valid: true, FinalType: place},
		},
		{
			name:     "unknown segment",
			path:     "liege.nonexistent_keyword",
			start:    person,
			expected: ScopePathResult{InvalidSegment: "nonexistent_keyword"},
		},
		{
			name:     "first unknown segment is reported",
			path:     "bad_one.bad_two",
			start:    person,
			expected: ScopePathResult{InvalidSegment: "bad_one"},
		},
		{
			name:     "reference ends validation",
			path:     "scope:actor.liege",
			start:    place,
			expected: ScopePathResult{Valid: true, FinalType: person},
		},
		{
			name:     "segments after a reference are not checked",
			path:     "scope:actor.nonexistent_keyword",
			start:    place,
			expected: ScopePathResult{Valid: true, FinalType: person},
		},
		{
			name:     "reference after links",
			path:     "liege.scope:actor",
			start:    place,
			expected: ScopePathResult{Valid: true, FinalType: person},
		},
		{
			name:     "registry keywords resolve too",
			path:     "primary_title.any_vassal.every_held_title",
			start:    person,
			expected: ScopePathResult{Valid: true, FinalType: place},
		},
		{
			name:     "non scope changing keyword is invalid",
			path:     "liege.is_ai",
			start:    person,
			expected: ScopePathResult{InvalidSegment: "is_ai"},
		},
		{
			name:     "empty segment",
			path:     "liege..holder",
			start:    person,
			expected: ScopePathResult{InvalidSegment: ""},
		},
		{
			name:     "empty input",
			path:     "",
			start:    person,
			expected: ScopePathResult{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidatePath(reg, tt.path, tt.start, person))
		})
	}
}

// Block tracking and chain validation agree on registry keywords.
func TestValidatePath_MatchesTrackScope(t *testing.T) {
	reg := fakeRegistry()

	for _, path := range [][]string{
		{"any_vassal"},
		{"every_held_title"},
		{"any_vassal", "every_held_title"},
		{"every_held_title", "any_vassal"},
	} {
		chain := path[0]
		for _, seg := range path[1:] {
			chain += "." + seg
		}

		res := ValidatePath(reg, chain, person, person)
		assert.True(t, res.Valid, chain)
		assert.Equal(t, TrackScope(path, person, reg), res.FinalType, chain)
	}
}
