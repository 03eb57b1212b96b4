package importer

import (
	"fmt"
	"strconv"
	"strings"

	"erpimport/mapping"
	"erpimport/transform"
)

// NormalizedRecord is one entity ready for upsert, keyed by target field.
// Values are strings, float64 (number transform) or 0/1 ints for check
// fields.
type NormalizedRecord map[string]any

// LogFunc receives human-readable progress and error lines. The engine
// calls it synchronously; callers own any thread marshaling.
type LogFunc func(message string, isError bool)

// ProgressFunc is called once per processed row with 1-based index.
type ProgressFunc func(index, total int)

// Pipeline applies a resolved mapping set to source rows.
type Pipeline struct {
	TaxRate  float64
	Barcodes *transform.BarcodeValidator
}

func NewPipeline(taxRate float64, extraDenylist ...string) *Pipeline {
	return &Pipeline{
		TaxRate:  taxRate,
		Barcodes: transform.NewBarcodeValidator(extraDenylist...),
	}
}

// TransformRow builds a normalized record from one source row: mapped
// values with defaults and per-mapping transforms, followed by the
// field-specific post-processing rules. Category fields stay in the
// record; ApplyCategory resolves them separately because that step may
// talk to the remote system.
func (p *Pipeline) TransformRow(record Record, mappings []mapping.FieldMapping) NormalizedRecord {
	out := make(NormalizedRecord, len(mappings))

	for _, m := range mappings {
		raw := record.Get(m.SourceColumn)
		if raw == "" {
			raw = m.DefaultValue
		}

		var value any
		switch m.Transform {
		case mapping.TransformTrim:
			value = strings.TrimSpace(raw)
		case mapping.TransformUppercase:
			value = strings.ToUpper(raw)
		case mapping.TransformLowercase:
			value = strings.ToLower(raw)
		case mapping.TransformNumber:
			parsed, _ := transform.ParseNumber(raw, false)
			value = parsed
		case mapping.TransformBool:
			value = transform.ParseBool(raw)
		case mapping.TransformHTMLStrip:
			value = transform.StripHTML(raw)
		default:
			value = raw
		}

		// Empty strings are omitted; typed zero values (0.0, false) from
		// explicit number/bool transforms are real data and stay.
		if s, isString := value.(string); isString && s == "" {
			continue
		}
		out[m.TargetField] = value
	}

	p.applyFieldRules(out)
	return out
}

// applyFieldRules runs the fixed post-processing sequence: gross price to
// net, barcode validation, active-flag inversion, HTML description alias.
func (p *Pipeline) applyFieldRules(record NormalizedRecord) {
	if gross, ok := record["standard_rate_brutto"]; ok {
		delete(record, "standard_rate_brutto")
		if amount, ok := numberValue(gross); ok {
			record["standard_rate"] = transform.BruttoToNetto(amount, p.TaxRate)
		}
	}

	if raw, ok := record["barcode"]; ok {
		delete(record, "barcode")
		code := strings.TrimSpace(stringValue(raw))
		if code != "" && p.Barcodes.IsValid(code) {
			record["gtin"] = code
		}
	}

	// The rule table maps "aktiv" columns onto the disabled key, so a
	// string or bool here carries the opposite meaning and is inverted.
	if flag, ok := record["disabled"]; ok {
		switch v := flag.(type) {
		case string:
			active := transform.ParseBool(v) || strings.EqualFold(strings.TrimSpace(v), "aktiv")
			record["disabled"] = checkValue(!active)
		case bool:
			record["disabled"] = checkValue(!v)
		}
	}

	if html, ok := record["description_html"]; ok {
		delete(record, "description_html")
		if _, hasPlain := record["description"]; !hasPlain {
			record["description"] = html
		}
	}
}

// ApplyCategory pops the category hierarchy fields from the record and
// resolves them into the item_group key. In a dry run the deepest level is
// assumed as the target and the intended chain is logged; otherwise the
// hierarchy is built remotely via EnsureHierarchy.
func (p *Pipeline) ApplyCategory(record NormalizedRecord, defaultRoot string, dryRun bool, exists ExistsFunc, create CreateFunc, log LogFunc) {
	levels := make([]string, 0, 4)
	for i := 1; i <= 4; i++ {
		key := fmt.Sprintf("category_level_%d", i)
		if value, ok := record[key]; ok {
			delete(record, key)
			if level := strings.TrimSpace(stringValue(value)); level != "" {
				levels = append(levels, level)
			}
		}
	}

	if value, ok := record["category_path"]; ok {
		delete(record, "category_path")
		if parsed := ParseCategoryPath(stringValue(value)); len(parsed) > 0 {
			levels = parsed
		}
	}

	// A plain category column often maps onto item_group. When its value
	// carries a path ("Möbel > Regale") it is resolved through the
	// hierarchy too; a bare group name stays a direct reference.
	if len(levels) == 0 {
		if value, ok := record["item_group"]; ok {
			if path := stringValue(value); HasPathSeparator(path) {
				delete(record, "item_group")
				levels = ParseCategoryPath(path)
			}
		}
	}

	if len(levels) == 0 {
		return
	}

	if dryRun {
		log(fmt.Sprintf("[DRY] category hierarchy: %s", strings.Join(levels, " > ")), false)
		record["item_group"] = levels[len(levels)-1]
		return
	}

	record["item_group"] = EnsureHierarchy(levels, defaultRoot, exists, create, log)
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func numberValue(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		return transform.ParseNumber(v, true)
	default:
		return 0, false
	}
}

func checkValue(flag bool) int {
	if flag {
		return 1
	}
	return 0
}
