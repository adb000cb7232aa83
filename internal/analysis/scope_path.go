package analysis

import (
	"strings"

	"github.com/CWBudde/go-pdx-lsp/internal/registry"
)

// ScopePathResult is the outcome of validating a dotted scope chain.
type ScopePathResult struct {
	Valid bool

	// FinalType is the type the chain yields; empty when the chain is invalid.
	FinalType registry.ObjectType

	// InvalidSegment is the first segment that could not be resolved.
	InvalidSegment string
}

// SplitScopePath splits a chain into segments. Only dots separate segments,
// so a reference such as scope:actor stays a single segment:
// "scope:actor.liege" yields ["scope:actor", "liege"].
func SplitScopePath(path string) []string {
	if path == "" {
		return nil
	}

	return strings.Split(path, ".")
}

// ValidatePath replays a chain such as liege.primary_title.holder starting
// from start. Each segment is looked up in the curated link table first, then
// as a trigger or effect scope changer. The first unknown segment makes the
// chain invalid.
//
// A saved reference segment ends validation early and reports the chain as
// valid with fallback, the document's root type, since the reference's type is
// not statically known. Segments after the reference are not checked.
func ValidatePath(reg *registry.Registry, path string, start, fallback registry.ObjectType) ScopePathResult {
	segments := SplitScopePath(path)
	if len(segments) == 0 {
		return ScopePathResult{}
	}

	current := start

	for _, seg := range segments {
		if IsReference(seg) {
			return ScopePathResult{Valid: true, FinalType: fallback}
		}

		if out, ok := reg.Link(seg); ok {
			current = out
			continue
		}

		if out, ok := scopeChange(reg, seg); ok {
			current = out
			continue
		}

		return ScopePathResult{InvalidSegment: seg}
	}

	return ScopePathResult{Valid: true, FinalType: current}
}
