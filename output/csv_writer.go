package output

import (
	"encoding/csv"
	"fmt"
	"os"
)

// CSVWriter writes exports as semicolon-separated files, matching the
// delimiter convention of the import side.
type CSVWriter struct {
	Delimiter rune
}

func (w *CSVWriter) Write(path string, export *Export) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = w.Delimiter
	if writer.Comma == 0 {
		writer.Comma = ';'
	}
	defer writer.Flush()

	if err := writer.Write(export.Columns); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	row := make([]string, len(export.Columns))
	for _, item := range export.Rows {
		for i, column := range export.Columns {
			row[i] = export.cell(item, column)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}
