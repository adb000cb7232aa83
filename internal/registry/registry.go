package registry

import (
	"sort"
	"sync/atomic"
)

var versionSeq atomic.Uint64

// Registry is an immutable set of keyword tables. A Registry must not be
// modified once it has been handed to the server; reloading builds a new one.
// All lookup methods accept a nil receiver and report "not found".
type Registry struct {
	// Triggers are the condition keywords.
	Triggers map[string]Entry

	// Effects are the action keywords.
	Effects map[string]Entry

	// Links is the curated scope-changer table used for dotted chains
	// such as liege.primary_title.holder.
	Links map[string]Entry

	version uint64
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		Triggers: make(map[string]Entry),
		Effects:  make(map[string]Entry),
		Links:    make(map[string]Entry),
		version:  versionSeq.Add(1),
	}
}

// Version identifies this registry instance. Two registries never share a
// non-zero version, so it can key caches derived from the tables.
func (r *Registry) Version() uint64 {
	if r == nil {
		return 0
	}

	return r.version
}

// ScopeChange returns the output type of a scope-changing keyword. The
// condition table is consulted first, then the action table; a keyword
// present in a table without an output type does not change scope.
func (r *Registry) ScopeChange(name string) (ObjectType, bool) {
	if r == nil {
		return "", false
	}

	if e, ok := r.Triggers[name]; ok && e.ChangesScope() {
		return e.Output, true
	}

	if e, ok := r.Effects[name]; ok && e.ChangesScope() {
		return e.Output, true
	}

	return "", false
}

// Link returns the output type of a curated link keyword.
func (r *Registry) Link(name string) (ObjectType, bool) {
	if r == nil {
		return "", false
	}

	if e, ok := r.Links[name]; ok && e.ChangesScope() {
		return e.Output, true
	}

	return "", false
}

// Lookup finds a keyword in any table: triggers, then effects, then links.
func (r *Registry) Lookup(name string) (Entry, Kind, bool) {
	if r == nil {
		return Entry{}, 0, false
	}

	if e, ok := r.Triggers[name]; ok {
		return e, KindTrigger, true
	}

	if e, ok := r.Effects[name]; ok {
		return e, KindEffect, true
	}

	if e, ok := r.Links[name]; ok {
		return e, KindLink, true
	}

	return Entry{}, 0, false
}

// Names returns the sorted keyword names of one table.
func (r *Registry) Names(kind Kind) []string {
	if r == nil {
		return nil
	}

	var table map[string]Entry

	switch kind {
	case KindTrigger:
		table = r.Triggers
	case KindEffect:
		table = r.Effects
	case KindLink:
		table = r.Links
	}

	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Entry returns one keyword of one table.
func (r *Registry) Entry(kind Kind, name string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}

	var e Entry
	var ok bool

	switch kind {
	case KindTrigger:
		e, ok = r.Triggers[name]
	case KindEffect:
		e, ok = r.Effects[name]
	case KindLink:
		e, ok = r.Links[name]
	}

	return e, ok
}

// Merge returns a new registry holding the entries of r overridden by the
// entries of other. Neither input is modified.
func (r *Registry) Merge(other *Registry) *Registry {
	merged := New()

	for _, src := range []*Registry{r, other} {
		if src == nil {
			continue
		}

		for name, e := range src.Triggers {
			merged.Triggers[name] = e
		}

		for name, e := range src.Effects {
			merged.Effects[name] = e
		}

		for name, e := range src.Links {
			merged.Links[name] = e
		}
	}

	return merged
}

// Len returns the total number of entries across all tables.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}

	return len(r.Triggers) + len(r.Effects) + len(r.Links)
}
