package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *Registry {
	reg := New()
	reg.Triggers["any_vassal"] = Entry{Output: "person", Scopes: []ObjectType{"person"}}
	reg.Triggers["is_ai"] = Entry{Scopes: []ObjectType{"person"}}
	reg.Triggers["every_thing"] = Entry{}
	reg.Effects["every_thing"] = Entry{Output: "thing"}
	reg.Effects["every_held_title"] = Entry{Output: "place"}
	reg.Links["liege"] = Entry{Output: "person"}

	return reg
}

func TestScopeChange_ConditionTableFirst(t *testing.T) {
	reg := testRegistry()
	reg.Effects["any_vassal"] = Entry{Output: "other"}

	got, ok := reg.ScopeChange("any_vassal")
	require.True(t, ok)
	assert.Equal(t, ObjectType("person"), got)
}

func TestScopeChange_FallsBackToActionTable(t *testing.T) {
	reg := testRegistry()

	got, ok := reg.ScopeChange("every_held_title")
	require.True(t, ok)
	assert.Equal(t, ObjectType("place"), got)

	// A trigger without an output does not shadow an effect that has one.
	got, ok = reg.ScopeChange("every_thing")
	require.True(t, ok)
	assert.Equal(t, ObjectType("thing"), got)
}

func TestScopeChange_NotAScopeChanger(t *testing.T) {
	reg := testRegistry()

	_, ok := reg.ScopeChange("is_ai")
	assert.False(t, ok)

	_, ok = reg.ScopeChange("missing")
	assert.False(t, ok)

	// Links are not part of the block keyword lookup.
	_, ok = reg.ScopeChange("liege")
	assert.False(t, ok)
}

func TestNilRegistry(t *testing.T) {
	var reg *Registry

	_, ok := reg.ScopeChange("any_vassal")
	assert.False(t, ok)

	_, ok = reg.Link("liege")
	assert.False(t, ok)

	_, _, ok = reg.Lookup("liege")
	assert.False(t, ok)

	assert.Empty(t, reg.Names(KindTrigger))
	assert.Zero(t, reg.Version())
	assert.Zero(t, reg.Len())
}

func TestLookupOrder(t *testing.T) {
	reg := testRegistry()

	_, kind, ok := reg.Lookup("every_thing")
	require.True(t, ok)
	assert.Equal(t, KindTrigger, kind)

	_, kind, ok = reg.Lookup("liege")
	require.True(t, ok)
	assert.Equal(t, KindLink, kind)
	assert.Equal(t, "link", kind.String())
}

func TestNamesSorted(t *testing.T) {
	reg := testRegistry()

	assert.Equal(t, []string{"any_vassal", "every_thing", "is_ai"}, reg.Names(KindTrigger))
	assert.Equal(t, []string{"liege"}, reg.Names(KindLink))
}

func TestMerge(t *testing.T) {
	base := testRegistry()
	override := New()
	override.Links["liege"] = Entry{Output: "lord"}
	override.Links["capital"] = Entry{Output: "place"}

	merged := base.Merge(override)

	out, ok := merged.Link("liege")
	require.True(t, ok)
	assert.Equal(t, ObjectType("lord"), out)

	_, ok = merged.Link("capital")
	assert.True(t, ok)

	// Inputs are untouched.
	out, _ = base.Link("liege")
	assert.Equal(t, ObjectType("person"), out)
	_, ok = base.Link("capital")
	assert.False(t, ok)

	assert.NotEqual(t, base.Version(), merged.Version())
}

func TestEntryValidIn(t *testing.T) {
	e := Entry{Scopes: []ObjectType{"person", "place"}}

	assert.True(t, e.ValidIn("person"))
	assert.True(t, e.ValidIn("place"))
	assert.False(t, e.ValidIn("group"))
	assert.True(t, e.ValidIn(Indeterminate))
	assert.True(t, Entry{}.ValidIn("group"))
}
