package output

import (
	"fmt"
	"sort"
	"strings"
)

// Export is a tabular snapshot of remote items ready for writing: a fixed
// column order plus one generic row map per item.
type Export struct {
	Columns []string
	Rows    []map[string]any
}

// NewExport derives the column order from the rows: requested fields
// first, then any extra keys the server returned, alphabetically.
func NewExport(fields []string, rows []map[string]any) *Export {
	columns := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if _, dup := seen[field]; dup {
			continue
		}
		seen[field] = struct{}{}
		columns = append(columns, field)
	}

	extras := make([]string, 0)
	for _, row := range rows {
		for key := range row {
			if _, known := seen[key]; known {
				continue
			}
			seen[key] = struct{}{}
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)

	return &Export{Columns: append(columns, extras...), Rows: rows}
}

func (e *Export) cell(row map[string]any, column string) string {
	value, ok := row[column]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case bool:
		if v {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprintf("%v", v)
	}
}

type Writer interface {
	Write(path string, export *Export) error
}

func WriterForFormat(format string) (Writer, error) {
	switch strings.TrimSpace(strings.ToLower(format)) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
