package mapping

import (
	"fmt"
	"strings"
)

// Transform kinds applied per mapping by the row pipeline.
const (
	TransformNone      = "none"
	TransformTrim      = "trim"
	TransformUppercase = "uppercase"
	TransformLowercase = "lowercase"
	TransformNumber    = "number"
	TransformBool      = "bool"
	TransformHTMLStrip = "html_strip"
)

// FieldMapping associates one source column with one target field, plus an
// optional value transform and default.
type FieldMapping struct {
	SourceColumn string `json:"source_column"`
	TargetField  string `json:"target_field"`
	Transform    string `json:"transform"`
	DefaultValue string `json:"default_value"`
}

// Set holds the mapping state for one import: at most one mapping per
// source column, and each target field claimed by at most one column.
// Assignments that would violate the target uniqueness evict the previous
// owner and record a notice.
type Set struct {
	columns  []string
	byColumn map[string]*FieldMapping
	notices  []string
}

// NewSet creates an empty mapping set over the given source columns.
// Columns define the output order; unknown columns cannot be assigned.
func NewSet(sourceColumns []string) *Set {
	columns := make([]string, 0, len(sourceColumns))
	seen := make(map[string]struct{}, len(sourceColumns))
	for _, column := range sourceColumns {
		if _, dup := seen[column]; dup {
			continue
		}
		seen[column] = struct{}{}
		columns = append(columns, column)
	}
	return &Set{
		columns:  columns,
		byColumn: make(map[string]*FieldMapping, len(columns)),
	}
}

// Columns returns the source columns in file order.
func (s *Set) Columns() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

func (s *Set) hasColumn(column string) bool {
	for _, c := range s.columns {
		if c == column {
			return true
		}
	}
	return false
}

// Assign maps a source column to a target field, evicting any other column
// that already claims the target. An empty target clears the column's
// mapping. This is the interactive-edit path.
func (s *Set) Assign(sourceColumn, targetField string) error {
	if !s.hasColumn(sourceColumn) {
		return fmt.Errorf("unknown source column: %s", sourceColumn)
	}
	if targetField == "" {
		delete(s.byColumn, sourceColumn)
		return nil
	}

	for column, m := range s.byColumn {
		if column != sourceColumn && m.TargetField == targetField {
			delete(s.byColumn, column)
			s.notices = append(s.notices,
				fmt.Sprintf("target field %q was already assigned - mapping for column %q removed", targetField, column))
		}
	}

	if existing, ok := s.byColumn[sourceColumn]; ok {
		existing.TargetField = targetField
		return nil
	}
	s.byColumn[sourceColumn] = &FieldMapping{
		SourceColumn: sourceColumn,
		TargetField:  targetField,
		Transform:    TransformNone,
	}
	return nil
}

// claim assigns only when the target is still unclaimed. Used by the
// rule-based and AI passes, where the first proposal for a target wins.
func (s *Set) claim(sourceColumn, targetField string) bool {
	if targetField == "" || !s.hasColumn(sourceColumn) {
		return false
	}
	for _, m := range s.byColumn {
		if m.TargetField == targetField {
			return false
		}
	}
	if existing, ok := s.byColumn[sourceColumn]; ok {
		existing.TargetField = targetField
		return true
	}
	s.byColumn[sourceColumn] = &FieldMapping{
		SourceColumn: sourceColumn,
		TargetField:  targetField,
		Transform:    TransformNone,
	}
	return true
}

// SetTransform sets the transform kind for an already mapped column.
func (s *Set) SetTransform(sourceColumn, transform string) {
	if m, ok := s.byColumn[sourceColumn]; ok {
		m.Transform = transform
	}
}

// SetDefault sets the default value for an already mapped column.
func (s *Set) SetDefault(sourceColumn, defaultValue string) {
	if m, ok := s.byColumn[sourceColumn]; ok {
		m.DefaultValue = defaultValue
	}
}

// Target returns the target field a column currently maps to.
func (s *Set) Target(sourceColumn string) string {
	if m, ok := s.byColumn[sourceColumn]; ok {
		return m.TargetField
	}
	return ""
}

// Mappings returns the resolved mappings in source-column order. Evicted
// or never-mapped columns are absent.
func (s *Set) Mappings() []FieldMapping {
	out := make([]FieldMapping, 0, len(s.byColumn))
	for _, column := range s.columns {
		if m, ok := s.byColumn[column]; ok && m.TargetField != "" {
			out = append(out, *m)
		}
	}
	return out
}

// Notices returns eviction notices accumulated so far. Informational, not
// errors.
func (s *Set) Notices() []string {
	out := make([]string, len(s.notices))
	copy(out, s.notices)
	return out
}

// TargetKeys returns the set of claimed target fields.
func (s *Set) TargetKeys() map[string]struct{} {
	out := make(map[string]struct{}, len(s.byColumn))
	for _, m := range s.byColumn {
		out[m.TargetField] = struct{}{}
	}
	return out
}

// MissingRequired reports required target keys not claimed by any mapping.
func (s *Set) MissingRequired(required []string) []string {
	claimed := s.TargetKeys()
	missing := make([]string, 0, len(required))
	for _, key := range required {
		if _, ok := claimed[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// NormalizeColumn lowercases a column name and replaces spaces and hyphens
// with underscores, the form the auto-mapping rule table is keyed by.
func NormalizeColumn(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	return normalized
}

// stripNonIdent removes every rune outside [a-z0-9_].
func stripNonIdent(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
