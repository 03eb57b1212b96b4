package importer

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ReadOptions carries per-file parse settings. Zero values fall back to
// the JTL export defaults (semicolon, UTF-8).
type ReadOptions struct {
	Delimiter rune
	Encoding  string
}

func (o ReadOptions) delimiter() rune {
	if o.Delimiter == 0 {
		return ';'
	}
	return o.Delimiter
}

// Reader parses one source file into a Table.
type Reader interface {
	Read(path string) (*Table, error)
}

// DetectFormat infers the source format from the file extension.
func DetectFormat(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv", "tsv", "txt":
		return "csv", nil
	case "xlsx", "xlsm", "xls":
		return "excel", nil
	case "xml":
		return "bmecat", nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}

// ReaderForFormat returns the reader for a source format.
func ReaderForFormat(format string, options ReadOptions) (Reader, error) {
	switch strings.TrimSpace(strings.ToLower(format)) {
	case "csv":
		return &CSVReader{Options: options}, nil
	case "excel", "xlsx", "xlsm", "xls":
		return &ExcelReader{}, nil
	case "bmecat", "xml":
		return &BMECatReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}
