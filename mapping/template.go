package mapping

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Template is a reusable snapshot of a mapping configuration. The JSON
// field names are a stable on-disk contract; saved templates from earlier
// runs must keep loading.
type Template struct {
	Name       string         `json:"name"`
	ImportKind string         `json:"import_kind"`
	FileFormat string         `json:"file_format"`
	Mappings   []FieldMapping `json:"mappings"`
	Delimiter  string         `json:"delimiter"`
	Encoding   string         `json:"encoding"`
	SkipHeader bool           `json:"skip_header"`
	CreatedAt  string         `json:"created_at"`
}

// NewTemplate snapshots the current state of a mapping set.
func NewTemplate(name, importKind, fileFormat string, set *Set, delimiter, encoding string) *Template {
	return &Template{
		Name:       name,
		ImportKind: importKind,
		FileFormat: fileFormat,
		Mappings:   set.Mappings(),
		Delimiter:  delimiter,
		Encoding:   encoding,
		SkipHeader: true,
		CreatedAt:  time.Now().Format(time.RFC3339),
	}
}

// Apply replays the template's mappings onto a set built from the current
// source columns. Mappings for columns the file no longer has are skipped
// and reported back.
func (t *Template) Apply(set *Set) (skipped []string) {
	for _, m := range t.Mappings {
		if err := set.Assign(m.SourceColumn, m.TargetField); err != nil {
			skipped = append(skipped, m.SourceColumn)
			continue
		}
		if m.Transform != "" {
			set.SetTransform(m.SourceColumn, m.Transform)
		}
		if m.DefaultValue != "" {
			set.SetDefault(m.SourceColumn, m.DefaultValue)
		}
	}
	return skipped
}

// SaveTemplate writes the template as indented JSON.
func SaveTemplate(path string, t *Template) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("template name must not be empty")
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal template: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write template %s: %w", path, err)
	}
	return nil
}

// LoadTemplate reads a template back from disk.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}
	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse template %s: %w", path, err)
	}
	return &t, nil
}
