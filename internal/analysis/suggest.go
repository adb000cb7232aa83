package analysis

import (
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/CWBudde/go-pdx-lsp/internal/registry"
)

// SuggestSegment returns the known chain segment closest to seg, or "" when
// nothing is close enough to be a likely typo.
func SuggestSegment(reg *registry.Registry, seg string) string {
	if seg == "" || reg == nil {
		return ""
	}

	var candidates []string
	candidates = append(candidates, reg.Names(registry.KindLink)...)

	for _, kind := range []registry.Kind{registry.KindTrigger, registry.KindEffect} {
		for _, name := range reg.Names(kind) {
			if e, _ := reg.Entry(kind, name); e.ChangesScope() {
				candidates = append(candidates, name)
			}
		}
	}

	best := ""
	bestDist := -1

	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(seg, c)
		if bestDist == -1 || d < bestDist {
			best, bestDist = c, d
		}
	}

	limit := 1
	if len(seg) > 3 {
		limit = 2
	}

	if bestDist < 0 || bestDist > limit {
		return ""
	}

	return best
}

// MatchPrefix reports whether candidate is a completion match for prefix: the
// prefix characters appear in order, ignoring case.
func MatchPrefix(prefix, candidate string) bool {
	if prefix == "" {
		return true
	}

	return fuzzy.MatchFold(prefix, candidate)
}
