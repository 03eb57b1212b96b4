package importer

import (
	"fmt"
	"strings"
)

// categorySeparators are tried in priority order when splitting a path
// string. The spaced variants come first so "A > B" does not split on the
// bare ">" into segments with stray spaces.
var categorySeparators = []string{" > ", " -> ", " >> ", " / ", "/", ">", "|"}

// ParseCategoryPath splits a category path string into its levels, most
// general first. Empty segments are dropped; a path without any known
// separator is a single level.
func ParseCategoryPath(path string) []string {
	if strings.TrimSpace(path) == "" {
		return nil
	}

	for _, separator := range categorySeparators {
		if !strings.Contains(path, separator) {
			continue
		}
		parts := strings.Split(path, separator)
		levels := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				levels = append(levels, trimmed)
			}
		}
		return levels
	}

	return []string{strings.TrimSpace(path)}
}

// HasPathSeparator reports whether the value contains one of the known
// category path separators.
func HasPathSeparator(value string) bool {
	for _, separator := range categorySeparators {
		if strings.Contains(value, separator) {
			return true
		}
	}
	return false
}

// ExistsFunc reports whether a category already exists remotely.
type ExistsFunc func(name string) bool

// CreateFunc creates a category under a parent and returns ok plus a
// message for the log.
type CreateFunc func(name, parent string) (bool, string)

// EnsureHierarchy walks the level chain top to bottom, creating missing
// categories under their parent. The walk is best effort: a failed create
// stops the chain and the deepest category reached so far is returned.
// With every level already present the walk performs zero creations, so
// re-running an import is free of side effects here.
func EnsureHierarchy(levels []string, defaultRoot string, exists ExistsFunc, create CreateFunc, log LogFunc) string {
	filtered := make([]string, 0, len(levels))
	for _, level := range levels {
		if trimmed := strings.TrimSpace(level); trimmed != "" {
			filtered = append(filtered, trimmed)
		}
	}
	if len(filtered) == 0 {
		return defaultRoot
	}

	parent := defaultRoot
	last := defaultRoot
	for _, level := range filtered {
		if exists(level) {
			parent = level
			last = level
			log(fmt.Sprintf("category exists: %s", level), false)
			continue
		}

		ok, message := create(level, parent)
		if !ok {
			log(fmt.Sprintf("category %s could not be created: %s", level, message), true)
			break
		}
		log(fmt.Sprintf("category created: %s (under %s)", level, parent), false)
		parent = level
		last = level
	}
	return last
}
