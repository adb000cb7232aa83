package analysis

import (
	"regexp"
	"strings"

	"github.com/CWBudde/go-pdx-lsp/internal/registry"
)

var (
	referencePattern = regexp.MustCompile(`^[A-Za-z_][\w]*:[\w$@]+$`)
	numericPattern   = regexp.MustCompile(`^[0-9]+$`)
)

// IsReference reports whether name has the prefix:name shape of a saved value
// reference such as scope:actor.
func IsReference(name string) bool {
	return referencePattern.MatchString(name)
}

// isNumeric reports whether name is a tier index such as the 10 in
// random_list = { 10 = { ... } }.
func isNumeric(name string) bool {
	return numericPattern.MatchString(name)
}

// scopeChange is the keyword lookup shared by TrackScope and ValidatePath.
func scopeChange(reg *registry.Registry, name string) (registry.ObjectType, bool) {
	return reg.ScopeChange(name)
}

// TrackScope walks a block path from outermost to innermost and returns the
// object type in scope inside the innermost block. Saved references make the
// type indeterminate; scope-changing keywords switch it; every other name
// passes the current type through. A dotted name whose head is a reference,
// link or scope changer is replayed as a chain.
func TrackScope(blockPath []string, initial registry.ObjectType, reg *registry.Registry) registry.ObjectType {
	current := initial

	for _, name := range blockPath {
		if IsReference(name) {
			current = registry.Indeterminate
			continue
		}

		if isNumeric(name) {
			continue
		}

		if out, ok := scopeChange(reg, name); ok {
			current = out
			continue
		}

		if strings.Contains(name, ".") {
			current = trackChain(reg, name, current)
		}
	}

	return current
}

// trackChain replays a dotted block name such as liege.primary_title. Names
// whose first segment is not a chain step, such as event ids, leave current
// unchanged. A step that cannot be followed makes the type indeterminate.
func trackChain(reg *registry.Registry, name string, current registry.ObjectType) registry.ObjectType {
	segments := SplitScopePath(name)
	if len(segments) == 0 || !isChainStep(reg, segments[0]) {
		return current
	}

	for _, seg := range segments {
		if IsReference(seg) {
			return registry.Indeterminate
		}

		if out, ok := reg.Link(seg); ok {
			current = out
			continue
		}

		if out, ok := scopeChange(reg, seg); ok {
			current = out
			continue
		}

		return registry.Indeterminate
	}

	return current
}

func isChainStep(reg *registry.Registry, seg string) bool {
	if IsReference(seg) {
		return true
	}

	if _, ok := reg.Link(seg); ok {
		return true
	}

	_, ok := scopeChange(reg, seg)

	return ok
}
