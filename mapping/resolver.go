package mapping

import (
	"strings"

	"erpimport/catalog"
)

// AutoResolve fills unmapped columns by name, using the rule table. Per
// column the lookup order is: exact normalized name, exact after stripping
// non-identifier runes, then substring match in either direction. The
// first column to claim a target keeps it; later rule hits for the same
// target are skipped. Returns the number of columns mapped by this pass.
func AutoResolve(set *Set, targets *catalog.FieldSet) int {
	mapped := 0
	for _, column := range set.Columns() {
		if set.Target(column) != "" {
			continue
		}
		target := lookupRule(column)
		if target == "" || !targets.Has(target) {
			continue
		}
		if set.claim(column, target) {
			mapped++
		}
	}
	return mapped
}

func lookupRule(column string) string {
	normalized := NormalizeColumn(column)
	if target, ok := catalog.AutoMappingRules[normalized]; ok {
		return target
	}

	stripped := stripNonIdent(normalized)
	if target, ok := catalog.AutoMappingRules[stripped]; ok {
		return target
	}

	// Substring fallback. The most specific (longest) matching rule key
	// wins; length then name keeps the result deterministic.
	best := ""
	for key := range catalog.AutoMappingRules {
		if !strings.Contains(normalized, key) && !strings.Contains(key, normalized) {
			continue
		}
		if best == "" || len(key) > len(best) || (len(key) == len(best) && key < best) {
			best = key
		}
	}
	if best != "" {
		return catalog.AutoMappingRules[best]
	}
	return ""
}

// ApplySuggestion merges an externally supplied mapping proposal (AI
// advisor output) into the set. Suggestions are untrusted: entries whose
// source column is not part of the set or whose target is not in the
// catalog are dropped. Proposals are applied in source-column order and
// never evict an existing assignment; the first proposal for a target
// wins. Returns the number of applied suggestions.
func ApplySuggestion(set *Set, targets *catalog.FieldSet, suggested map[string]string) int {
	applied := 0
	for _, column := range set.Columns() {
		target, ok := suggested[column]
		if !ok || !targets.Has(target) {
			continue
		}
		if set.Target(column) != "" {
			continue
		}
		if set.claim(column, target) {
			applied++
		}
	}
	return applied
}

// Resolve builds a mapping set for the given source columns: rule-based
// auto-mapping first, then an optional suggestion merge for columns the
// rules left unmapped.
func Resolve(sourceColumns []string, targets *catalog.FieldSet, suggested map[string]string) *Set {
	set := NewSet(sourceColumns)
	AutoResolve(set, targets)
	if len(suggested) > 0 {
		ApplySuggestion(set, targets, suggested)
	}
	return set
}
