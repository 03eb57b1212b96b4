package erpnext

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"erpimport/catalog"
)

// CustomField is one site-defined field on a doctype.
type CustomField struct {
	FieldName string `json:"fieldname"`
	Label     string `json:"label"`
	FieldType string `json:"fieldtype"`
}

// CustomFields lists the Custom Field documents of a doctype. Sites add
// their own item fields (jtl legacy ids, shop flags) and imports should be
// able to target them.
func (c *HTTPClient) CustomFields(ctx context.Context, doctype string) ([]CustomField, error) {
	path := fmt.Sprintf(`%s?fields=["fieldname","label","fieldtype"]&filters=[["dt","=",%q]]&limit_page_length=0`,
		resourcePath("Custom Field", ""), doctype)

	var out struct {
		Data []CustomField `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// layout fieldtypes carry no value and cannot be import targets.
var nonValueFieldTypes = map[string]struct{}{
	"Section Break": {},
	"Column Break":  {},
	"Tab Break":     {},
	"HTML":          {},
	"Heading":       {},
	"Button":        {},
	"Table":         {},
}

// FieldSpecs converts custom fields into dynamic target field specs, ready
// to merge into the static item catalog.
func FieldSpecs(fields []CustomField) []catalog.FieldSpec {
	specs := make([]catalog.FieldSpec, 0, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.FieldName)
		if name == "" {
			continue
		}
		if _, layout := nonValueFieldTypes[field.FieldType]; layout {
			continue
		}
		label := strings.TrimSpace(field.Label)
		if label == "" {
			label = name
		}
		specs = append(specs, catalog.FieldSpec{
			Key:     name,
			Label:   label,
			Kind:    catalog.ValueKindFromFrappe(field.FieldType),
			Dynamic: true,
		})
	}
	return specs
}
