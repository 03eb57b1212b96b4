package importer

import (
	"strings"
	"testing"

	"erpimport/catalog"
	"erpimport/mapping"
)

type fakeRemote struct {
	items  map[string]bool
	groups map[string]bool

	created    []map[string]any
	updated    map[string]map[string]any
	prices     map[string]float64
	attributes map[string][]string
	variants   map[string]map[string]string

	failCreate bool
	calls      int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		items:      map[string]bool{},
		groups:     map[string]bool{},
		updated:    map[string]map[string]any{},
		prices:     map[string]float64{},
		attributes: map[string][]string{},
		variants:   map[string]map[string]string{},
	}
}

func (f *fakeRemote) ItemExists(code string) bool {
	f.calls++
	return f.items[code]
}

func (f *fakeRemote) CreateItem(record map[string]any) (bool, string) {
	f.calls++
	if f.failCreate {
		return false, "validation failed"
	}
	f.created = append(f.created, record)
	code, _ := record["item_code"].(string)
	f.items[code] = true
	return true, ""
}

func (f *fakeRemote) UpdateItem(code string, record map[string]any) (bool, string) {
	f.calls++
	f.updated[code] = record
	return true, ""
}

func (f *fakeRemote) CreateItemPrice(code string, rate float64) (bool, string) {
	f.calls++
	f.prices[code] = rate
	return true, ""
}

func (f *fakeRemote) ItemGroupExists(name string) bool {
	f.calls++
	return f.groups[name]
}

func (f *fakeRemote) CreateItemGroup(name, parent string) (bool, string) {
	f.calls++
	f.groups[name] = true
	return true, ""
}

func (f *fakeRemote) CreateAttribute(name string, values []string, numeric bool, from, to, increment float64) (bool, string) {
	f.calls++
	f.attributes[name] = values
	return true, ""
}

func (f *fakeRemote) CreateVariant(template, code string, attributes map[string]string, extra map[string]any) (bool, string) {
	f.calls++
	f.variants[code] = attributes
	return true, ""
}

func itemTable(rows ...map[string]string) *Table {
	columns := []string{"Artikelnummer", "Artikelname", "Preis Brutto", "EAN", "Kategoriepfad"}
	table := &Table{Columns: columns}
	for i, values := range rows {
		table.Rows = append(table.Rows, Record{RowNumber: i + 2, Values: values})
	}
	return table
}

func itemSet(t *testing.T, table *Table) *mapping.Set {
	t.Helper()
	set := mapping.NewSet(table.Columns)
	for column, target := range map[string]string{
		"Artikelnummer": "item_code",
		"Artikelname":   "item_name",
		"Preis Brutto":  "standard_rate_brutto",
		"EAN":           "barcode",
		"Kategoriepfad": "category_path",
	} {
		if err := set.Assign(column, target); err != nil {
			t.Fatalf("assign %s: %v", column, err)
		}
	}
	return set
}

func newEngine(remote *fakeRemote) *Engine {
	return &Engine{
		Pipeline: NewPipeline(19),
		Remote:   remote,
	}
}

func TestRunUpsertCreatesItemAndPrice(t *testing.T) {
	t.Parallel()

	table := itemTable(map[string]string{
		"Artikelnummer": "SKU1",
		"Artikelname":   "Regal Basic",
		"Preis Brutto":  "119,00",
		"EAN":           "4006381333931",
		"Kategoriepfad": "Möbel > Regale",
	})
	remote := newFakeRemote()
	engine := newEngine(remote)

	outcome, err := engine.Run(table, itemSet(t, table), RunOptions{
		Kind: catalog.ImportItems, Mode: ModeUpsert, DefaultItemGroup: "Alle Artikelgruppen",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Success != 1 || outcome.Errors != 0 || outcome.Skipped != 0 {
		t.Fatalf("outcome = %+v", outcome)
	}
	if len(remote.created) != 1 {
		t.Fatalf("created = %d items", len(remote.created))
	}
	record := remote.created[0]
	if record["item_group"] != "Regale" {
		t.Fatalf("item_group = %v", record["item_group"])
	}
	if !remote.groups["Möbel"] || !remote.groups["Regale"] {
		t.Fatalf("hierarchy not created: %v", remote.groups)
	}
	if rate := remote.prices["SKU1"]; rate < 99.99 || rate > 100.01 {
		t.Fatalf("price rate = %v", rate)
	}
}

func TestRunCreateModeSkipsExisting(t *testing.T) {
	t.Parallel()

	table := itemTable(map[string]string{"Artikelnummer": "SKU1", "Artikelname": "Regal"})
	remote := newFakeRemote()
	remote.items["SKU1"] = true

	outcome, err := newEngine(remote).Run(table, itemSet(t, table), RunOptions{
		Kind: catalog.ImportItems, Mode: ModeCreate,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Skipped != 1 || outcome.Success != 0 {
		t.Fatalf("outcome = %+v", outcome)
	}
	if len(remote.created) != 0 || len(remote.updated) != 0 {
		t.Fatal("no mutation expected")
	}
}

func TestRunUpdateModeSkipsMissing(t *testing.T) {
	t.Parallel()

	table := itemTable(map[string]string{"Artikelnummer": "SKU1", "Artikelname": "Regal"})
	remote := newFakeRemote()

	outcome, err := newEngine(remote).Run(table, itemSet(t, table), RunOptions{
		Kind: catalog.ImportItems, Mode: ModeUpdate,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Skipped != 1 || outcome.Success != 0 {
		t.Fatalf("outcome = %+v", outcome)
	}
}

func TestRunUpsertUpdatesExisting(t *testing.T) {
	t.Parallel()

	table := itemTable(map[string]string{"Artikelnummer": "SKU1", "Artikelname": "Regal Neu"})
	remote := newFakeRemote()
	remote.items["SKU1"] = true

	outcome, err := newEngine(remote).Run(table, itemSet(t, table), RunOptions{
		Kind: catalog.ImportItems, Mode: ModeUpsert,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Success != 1 {
		t.Fatalf("outcome = %+v", outcome)
	}
	if remote.updated["SKU1"] == nil {
		t.Fatal("expected update call")
	}
	if len(remote.prices) != 0 {
		t.Fatal("update path must not create prices")
	}
}

func TestRunDryRunTouchesNothing(t *testing.T) {
	t.Parallel()

	table := itemTable(
		map[string]string{"Artikelnummer": "SKU1", "Artikelname": "A", "Kategoriepfad": "Möbel > Regale"},
		map[string]string{"Artikelnummer": "SKU2", "Artikelname": "B"},
	)
	remote := newFakeRemote()
	engine := newEngine(remote)

	var progress []int
	engine.Progress = func(index, total int) {
		if total != 2 {
			t.Fatalf("total = %d", total)
		}
		progress = append(progress, index)
	}
	var dryLines int
	engine.Log = func(message string, isError bool) {
		if strings.Contains(message, "[DRY]") {
			dryLines++
		}
	}

	outcome, err := engine.Run(table, itemSet(t, table), RunOptions{
		Kind: catalog.ImportItems, Mode: ModeUpsert, DryRun: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Success != 2 || outcome.Errors != 0 {
		t.Fatalf("outcome = %+v", outcome)
	}
	if remote.calls != 0 {
		t.Fatalf("remote calls = %d, want 0", remote.calls)
	}
	if len(progress) != 2 || progress[0] != 1 || progress[1] != 2 {
		t.Fatalf("progress = %v", progress)
	}
	if dryLines == 0 {
		t.Fatal("expected [DRY] log lines")
	}
}

func TestRunRowErrorsDoNotAbort(t *testing.T) {
	t.Parallel()

	table := itemTable(
		map[string]string{"Artikelnummer": "", "Artikelname": "Kaputt"},
		map[string]string{"Artikelnummer": "SKU2", "Artikelname": "Gut"},
	)
	remote := newFakeRemote()

	outcome, err := newEngine(remote).Run(table, itemSet(t, table), RunOptions{
		Kind: catalog.ImportItems, Mode: ModeUpsert,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Errors != 1 || outcome.Success != 1 {
		t.Fatalf("outcome = %+v", outcome)
	}
	if len(outcome.ErrorMessages) != 1 || !strings.Contains(outcome.ErrorMessages[0], "item_code") {
		t.Fatalf("messages = %v", outcome.ErrorMessages)
	}
}

func TestRunFailsFastOnMissingRequiredMapping(t *testing.T) {
	t.Parallel()

	table := itemTable(map[string]string{"Artikelnummer": "SKU1"})
	set := mapping.NewSet(table.Columns)
	if err := set.Assign("Artikelnummer", "item_code"); err != nil {
		t.Fatal(err)
	}

	_, err := newEngine(newFakeRemote()).Run(table, set, RunOptions{Kind: catalog.ImportItems})
	if err == nil || !strings.Contains(err.Error(), "item_name") {
		t.Fatalf("err = %v", err)
	}
}

func TestRunFailsFastOnEmptyInput(t *testing.T) {
	t.Parallel()

	table := itemTable()
	if _, err := newEngine(newFakeRemote()).Run(table, itemSet(t, table), RunOptions{Kind: catalog.ImportItems}); err == nil {
		t.Fatal("expected error for empty table")
	}
}

func TestRunCategoriesKind(t *testing.T) {
	t.Parallel()

	table := &Table{
		Columns: []string{"Name", "Oberkategorie"},
		Rows: []Record{
			{RowNumber: 2, Values: map[string]string{"Name": "Regale", "Oberkategorie": "Möbel"}},
			{RowNumber: 3, Values: map[string]string{"Name": "", "Oberkategorie": ""}},
		},
	}
	set := mapping.NewSet(table.Columns)
	if err := set.Assign("Name", "item_group_name"); err != nil {
		t.Fatal(err)
	}
	if err := set.Assign("Oberkategorie", "parent_item_group"); err != nil {
		t.Fatal(err)
	}

	remote := newFakeRemote()
	outcome, err := newEngine(remote).Run(table, set, RunOptions{
		Kind: catalog.ImportCategories, DefaultItemGroup: "Alle Artikelgruppen",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Success != 1 || outcome.Errors != 1 {
		t.Fatalf("outcome = %+v", outcome)
	}
	if !remote.groups["Regale"] {
		t.Fatal("category not created")
	}
}

func TestRunAttributesKind(t *testing.T) {
	t.Parallel()

	table := &Table{
		Columns: []string{"Attribut", "Werte"},
		Rows: []Record{
			{RowNumber: 2, Values: map[string]string{"Attribut": "Farbe", "Werte": "Rot, Blau, Grün"}},
			{RowNumber: 3, Values: map[string]string{"Attribut": "Leer", "Werte": ""}},
		},
	}
	set := mapping.NewSet(table.Columns)
	if err := set.Assign("Attribut", "attribute_name"); err != nil {
		t.Fatal(err)
	}
	if err := set.Assign("Werte", "attribute_values"); err != nil {
		t.Fatal(err)
	}

	remote := newFakeRemote()
	outcome, err := newEngine(remote).Run(table, set, RunOptions{Kind: catalog.ImportAttributes})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Success != 1 || outcome.Errors != 1 {
		t.Fatalf("outcome = %+v", outcome)
	}
	if got := remote.attributes["Farbe"]; len(got) != 3 || got[0] != "Rot" {
		t.Fatalf("values = %v", got)
	}
}

func TestRunVariantsKind(t *testing.T) {
	t.Parallel()

	table := &Table{
		Columns: []string{"Artikelnummer", "Vorlage", "Farbe", "Extra"},
		Rows: []Record{
			{RowNumber: 2, Values: map[string]string{
				"Artikelnummer": "SKU1-ROT", "Vorlage": "SKU1", "Farbe": "Rot", "Extra": "Stil:Modern",
			}},
			{RowNumber: 3, Values: map[string]string{
				"Artikelnummer": "SKU1-X", "Vorlage": "SKU1", "Farbe": "", "Extra": "",
			}},
		},
	}
	set := mapping.NewSet(table.Columns)
	for column, target := range map[string]string{
		"Artikelnummer": "item_code",
		"Vorlage":       "variant_of",
		"Farbe":         "attribute_color",
		"Extra":         "attribute_1",
	} {
		if err := set.Assign(column, target); err != nil {
			t.Fatal(err)
		}
	}

	remote := newFakeRemote()
	outcome, err := newEngine(remote).Run(table, set, RunOptions{Kind: catalog.ImportVariants})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Success != 1 || outcome.Errors != 1 {
		t.Fatalf("outcome = %+v", outcome)
	}
	attrs := remote.variants["SKU1-ROT"]
	if attrs["Farbe"] != "Rot" || attrs["Stil"] != "Modern" {
		t.Fatalf("attributes = %v", attrs)
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	if mode, err := ParseMode(""); err != nil || mode != ModeUpsert {
		t.Fatalf("default mode = %v, %v", mode, err)
	}
	if mode, err := ParseMode("Create"); err != nil || mode != ModeCreate {
		t.Fatalf("mode = %v, %v", mode, err)
	}
	if _, err := ParseMode("replace"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
