package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// CSVReader parses delimited text files. Delimiter and encoding come from
// the ReadOptions; German ERP exports are typically semicolon-separated
// and occasionally Latin-1 encoded.
type CSVReader struct {
	Options ReadOptions
}

func (r *CSVReader) Read(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	source, err := decodeReader(file, r.Options.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(source)
	reader.Comma = r.Options.delimiter()
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	columns := make([]string, len(headers))
	for i, header := range headers {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(header, "\uFEFF"))
	}

	rows := make([]Record, 0, 128)
	rowNumber := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", rowNumber+1, err)
		}

		values := make(map[string]string, len(columns))
		for i := range columns {
			if i < len(row) {
				values[columns[i]] = row[i]
			} else {
				values[columns[i]] = ""
			}
		}
		rows = append(rows, Record{RowNumber: rowNumber + 1, Values: values})
		rowNumber++
	}

	return &Table{Columns: columns, Rows: rows}, nil
}

// decodeReader wraps the raw file in a charset decoder when the source is
// not UTF-8.
func decodeReader(source io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return source, nil
	case "latin-1", "latin1", "iso-8859-1":
		return transform.NewReader(source, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(source, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", encoding)
	}
}
