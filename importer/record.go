package importer

import "strings"

// Record is one source row, keyed by the exact column names of the file.
type Record struct {
	RowNumber int
	Values    map[string]string
}

// Get returns the trimmed cell value for a column, or "" when absent.
func (r Record) Get(column string) string {
	if value, ok := r.Values[column]; ok {
		return strings.TrimSpace(value)
	}
	return ""
}

// Table is the parsed content of one source file: column names in file
// order plus the data rows.
type Table struct {
	Columns []string
	Rows    []Record
}

// Sample returns up to n leading rows, used for AI mapping hints.
func (t *Table) Sample(n int) []Record {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}
