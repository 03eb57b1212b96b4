package importer

import (
	"fmt"
	"strings"

	"erpimport/catalog"
	"erpimport/mapping"
	"erpimport/transform"
)

// Mode selects how existing remote records are treated.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeUpdate Mode = "update"
	ModeUpsert Mode = "upsert"
)

func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeCreate:
		return ModeCreate, nil
	case ModeUpdate:
		return ModeUpdate, nil
	case ModeUpsert, "":
		return ModeUpsert, nil
	default:
		return "", fmt.Errorf("unknown import mode %q (create, update, upsert)", value)
	}
}

// ERPNext is the narrow remote surface the engine needs. Mutating calls
// return ok plus a message suitable for the run log.
type ERPNext interface {
	ItemExists(code string) bool
	CreateItem(record map[string]any) (bool, string)
	UpdateItem(code string, record map[string]any) (bool, string)
	CreateItemPrice(code string, rate float64) (bool, string)
	ItemGroupExists(name string) bool
	CreateItemGroup(name, parent string) (bool, string)
	CreateAttribute(name string, values []string, numeric bool, from, to, increment float64) (bool, string)
	CreateVariant(template, code string, attributes map[string]string, extra map[string]any) (bool, string)
}

// Outcome tallies one finished run.
type Outcome struct {
	Total         int
	Success       int
	Errors        int
	Skipped       int
	ErrorMessages []string
}

// RunOptions carries the per-run knobs of the engine.
type RunOptions struct {
	Kind             catalog.ImportKind
	Mode             Mode
	DryRun           bool
	DefaultItemGroup string
}

// Engine drives a full import: transform every row, resolve categories and
// reconcile against the remote system. Rows are processed sequentially and
// failures are per row; only broken setup aborts the whole run.
type Engine struct {
	Pipeline *Pipeline
	Remote   ERPNext
	Log      LogFunc
	Progress ProgressFunc
}

func (e *Engine) Run(table *Table, set *mapping.Set, opts RunOptions) (*Outcome, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, fmt.Errorf("no rows to import")
	}
	mappings := set.Mappings()
	if len(mappings) == 0 {
		return nil, fmt.Errorf("no field mappings configured")
	}
	targets := catalog.TargetFields(opts.Kind)
	if missing := set.MissingRequired(targets.RequiredKeys()); len(missing) > 0 {
		return nil, fmt.Errorf("required fields not mapped: %s", strings.Join(missing, ", "))
	}
	if opts.Mode == "" {
		opts.Mode = ModeUpsert
	}

	outcome := &Outcome{Total: len(table.Rows)}
	for i, row := range table.Rows {
		record := e.Pipeline.TransformRow(row, mappings)

		var err error
		var skipped bool
		switch opts.Kind {
		case catalog.ImportCategories:
			err = e.processCategory(row, record, opts)
		case catalog.ImportAttributes:
			err = e.processAttribute(row, record, opts)
		case catalog.ImportVariants:
			err = e.processVariant(row, record, opts)
		default:
			skipped, err = e.processItem(row, record, opts)
		}

		switch {
		case err != nil:
			outcome.Errors++
			outcome.ErrorMessages = append(outcome.ErrorMessages, err.Error())
			e.log(err.Error(), true)
		case skipped:
			outcome.Skipped++
		default:
			outcome.Success++
		}

		e.progress(i+1, outcome.Total)
	}

	e.log(fmt.Sprintf("done: %d ok, %d skipped, %d errors of %d rows",
		outcome.Success, outcome.Skipped, outcome.Errors, outcome.Total), false)
	return outcome, nil
}

// processItem handles the items and prices kinds, which share one field
// catalog. The mode decision runs against the live system only; a dry run
// never asks whether the item exists.
func (e *Engine) processItem(row Record, record NormalizedRecord, opts RunOptions) (bool, error) {
	e.Pipeline.ApplyCategory(record, opts.DefaultItemGroup, opts.DryRun,
		e.Remote.ItemGroupExists, e.Remote.CreateItemGroup, e.log)

	code := strings.TrimSpace(stringValue(record["item_code"]))
	if code == "" {
		return false, fmt.Errorf("row %d: item_code is empty", row.RowNumber)
	}
	if _, ok := record["item_group"]; !ok && opts.DefaultItemGroup != "" {
		record["item_group"] = opts.DefaultItemGroup
	}

	if opts.DryRun {
		e.log(fmt.Sprintf("[DRY] would import item %s", code), false)
		return false, nil
	}

	exists := e.Remote.ItemExists(code)
	if exists && opts.Mode == ModeCreate {
		e.log(fmt.Sprintf("row %d: %s exists, skipped (create mode)", row.RowNumber, code), false)
		return true, nil
	}
	if !exists && opts.Mode == ModeUpdate {
		e.log(fmt.Sprintf("row %d: %s not found, skipped (update mode)", row.RowNumber, code), false)
		return true, nil
	}

	if exists {
		ok, message := e.Remote.UpdateItem(code, record)
		if !ok {
			return false, fmt.Errorf("row %d: update %s: %s", row.RowNumber, code, message)
		}
		e.log(fmt.Sprintf("updated item %s", code), false)
		return false, nil
	}

	ok, message := e.Remote.CreateItem(record)
	if !ok {
		return false, fmt.Errorf("row %d: create %s: %s", row.RowNumber, code, message)
	}
	e.log(fmt.Sprintf("created item %s", code), false)

	if rate, hasRate := numberValue(record["standard_rate"]); hasRate && rate > 0 {
		if ok, message := e.Remote.CreateItemPrice(code, rate); !ok {
			return false, fmt.Errorf("row %d: item price for %s: %s", row.RowNumber, code, message)
		}
	}
	return false, nil
}

func (e *Engine) processCategory(row Record, record NormalizedRecord, opts RunOptions) error {
	name := strings.TrimSpace(stringValue(record["item_group_name"]))
	if name == "" {
		return fmt.Errorf("row %d: item_group_name is empty", row.RowNumber)
	}
	parent := strings.TrimSpace(stringValue(record["parent_item_group"]))
	if parent == "" {
		parent = opts.DefaultItemGroup
	}

	if opts.DryRun {
		e.log(fmt.Sprintf("[DRY] would create category %s under %s", name, parent), false)
		return nil
	}

	if e.Remote.ItemGroupExists(name) {
		e.log(fmt.Sprintf("category exists: %s", name), false)
		return nil
	}
	ok, message := e.Remote.CreateItemGroup(name, parent)
	if !ok {
		return fmt.Errorf("row %d: create category %s: %s", row.RowNumber, name, message)
	}
	e.log(fmt.Sprintf("category created: %s (under %s)", name, parent), false)
	return nil
}

func (e *Engine) processAttribute(row Record, record NormalizedRecord, opts RunOptions) error {
	name := strings.TrimSpace(stringValue(record["attribute_name"]))
	if name == "" {
		return fmt.Errorf("row %d: attribute_name is empty", row.RowNumber)
	}

	values := splitAttributeValues(stringValue(record["attribute_values"]))
	numeric := truthyValue(record["numeric_values"])
	from, _ := numberValue(record["from_range"])
	to, _ := numberValue(record["to_range"])
	increment, _ := numberValue(record["increment"])

	if !numeric && len(values) == 0 {
		return fmt.Errorf("row %d: attribute %s has no values", row.RowNumber, name)
	}

	if opts.DryRun {
		e.log(fmt.Sprintf("[DRY] would create attribute %s (%d values)", name, len(values)), false)
		return nil
	}

	ok, message := e.Remote.CreateAttribute(name, values, numeric, from, to, increment)
	if !ok {
		return fmt.Errorf("row %d: attribute %s: %s", row.RowNumber, name, message)
	}
	e.log(fmt.Sprintf("attribute ready: %s", name), false)
	return nil
}

// variantSlots maps the fixed attribute columns to their attribute names.
var variantSlots = []struct {
	key  string
	name string
}{
	{"attribute_color", "Farbe"},
	{"attribute_size", "Größe"},
	{"attribute_material", "Material"},
}

func (e *Engine) processVariant(row Record, record NormalizedRecord, opts RunOptions) error {
	code := strings.TrimSpace(stringValue(record["item_code"]))
	template := strings.TrimSpace(stringValue(record["variant_of"]))
	if code == "" || template == "" {
		return fmt.Errorf("row %d: variant needs item_code and variant_of", row.RowNumber)
	}

	attributes := make(map[string]string, 3)
	for _, slot := range variantSlots {
		if value := strings.TrimSpace(stringValue(record[slot.key])); value != "" {
			attributes[slot.name] = value
		}
	}
	// Free-form slots carry "Attributname:Wert" pairs.
	for i := 1; i <= 3; i++ {
		pair := strings.TrimSpace(stringValue(record[fmt.Sprintf("attribute_%d", i)]))
		if pair == "" {
			continue
		}
		name, value, found := strings.Cut(pair, ":")
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if !found || name == "" || value == "" {
			return fmt.Errorf("row %d: attribute pair %q is not Name:Wert", row.RowNumber, pair)
		}
		attributes[name] = value
	}
	if len(attributes) == 0 {
		return fmt.Errorf("row %d: variant %s has no attributes", row.RowNumber, code)
	}

	extra := make(map[string]any, 3)
	for _, key := range []string{"item_name", "standard_rate", "gtin"} {
		if value, ok := record[key]; ok {
			extra[key] = value
		}
	}

	if opts.DryRun {
		e.log(fmt.Sprintf("[DRY] would create variant %s of %s", code, template), false)
		return nil
	}

	ok, message := e.Remote.CreateVariant(template, code, attributes, extra)
	if !ok {
		return fmt.Errorf("row %d: variant %s: %s", row.RowNumber, code, message)
	}
	e.log(fmt.Sprintf("variant created: %s", code), false)
	return nil
}

func (e *Engine) log(message string, isError bool) {
	if e.Log != nil {
		e.Log(message, isError)
	}
}

func (e *Engine) progress(index, total int) {
	if e.Progress != nil {
		e.Progress(index, total)
	}
}

func splitAttributeValues(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func truthyValue(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return transform.ParseBool(v)
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return false
	}
}
