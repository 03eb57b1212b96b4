package importer

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// bmecatColumns are the synthetic column names a BMECat article is
// flattened into. They use the German vocabulary of the auto-mapping rule
// table so parsed products map without manual work.
var bmecatColumns = []string{
	"artikelnummer",
	"artikelname",
	"beschreibung",
	"ean",
	"han",
	"hersteller",
	"preis",
}

// BMECatReader parses BMECat catalog XML. It walks ARTICLE elements by
// local name, so namespaced and namespace-free documents both work.
type BMECatReader struct{}

func (r *BMECatReader) Read(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bmecat file %s: %w", path, err)
	}
	defer file.Close()

	decoder := xml.NewDecoder(file)
	rows := make([]Record, 0, 128)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse bmecat %s: %w", path, err)
		}

		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "ARTICLE" {
			continue
		}

		values, err := parseArticle(decoder)
		if err != nil {
			return nil, fmt.Errorf("parse bmecat article: %w", err)
		}
		if values["artikelnummer"] == "" {
			continue
		}
		rows = append(rows, Record{RowNumber: len(rows) + 1, Values: values})
	}

	columns := make([]string, len(bmecatColumns))
	copy(columns, bmecatColumns)
	return &Table{Columns: columns, Rows: rows}, nil
}

// parseArticle consumes tokens until the ARTICLE end tag, collecting the
// known leaf values. Only the first price amount is kept.
func parseArticle(decoder *xml.Decoder) (map[string]string, error) {
	values := make(map[string]string, len(bmecatColumns))
	for _, column := range bmecatColumns {
		values[column] = ""
	}

	leafByElement := map[string]string{
		"SUPPLIER_AID":      "artikelnummer",
		"DESCRIPTION_SHORT": "artikelname",
		"DESCRIPTION_LONG":  "beschreibung",
		"EAN":               "ean",
		"MANUFACTURER_AID":  "han",
		"MANUFACTURER_NAME": "hersteller",
		"PRICE_AMOUNT":      "preis",
	}

	depth := 1
	current := ""
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			current = t.Name.Local
		case xml.EndElement:
			depth--
			current = ""
		case xml.CharData:
			column, interesting := leafByElement[current]
			if !interesting {
				continue
			}
			text := strings.TrimSpace(string(t))
			if text != "" && values[column] == "" {
				values[column] = text
			}
		}
	}
	return values, nil
}
