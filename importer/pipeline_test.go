package importer

import (
	"math"
	"strings"
	"testing"

	"erpimport/catalog"
	"erpimport/mapping"
)

func row(values map[string]string) Record {
	return Record{RowNumber: 2, Values: values}
}

func TestTransformRowAppliesTransforms(t *testing.T) {
	t.Parallel()

	p := NewPipeline(19)
	mappings := []mapping.FieldMapping{
		{SourceColumn: "code", TargetField: "item_code", Transform: mapping.TransformTrim},
		{SourceColumn: "name", TargetField: "item_name"},
		{SourceColumn: "desc", TargetField: "description", Transform: mapping.TransformHTMLStrip},
		{SourceColumn: "weight", TargetField: "weight_per_unit", Transform: mapping.TransformNumber},
		{SourceColumn: "brand", TargetField: "brand", Transform: mapping.TransformUppercase},
	}
	record := p.TransformRow(row(map[string]string{
		"code":   "  SKU-1  ",
		"name":   "Regal Basic",
		"desc":   "<p>Stabiles <b>Regal</b></p>",
		"weight": "1.234,5",
		"brand":  "acme",
	}), mappings)

	if record["item_code"] != "SKU-1" {
		t.Fatalf("item_code = %v", record["item_code"])
	}
	if record["item_name"] != "Regal Basic" {
		t.Fatalf("item_name = %v", record["item_name"])
	}
	if record["description"] != "Stabiles Regal" {
		t.Fatalf("description = %v", record["description"])
	}
	if record["weight_per_unit"] != 1234.5 {
		t.Fatalf("weight_per_unit = %v", record["weight_per_unit"])
	}
	if record["brand"] != "ACME" {
		t.Fatalf("brand = %v", record["brand"])
	}
}

func TestTransformRowOmitsEmptyStringsKeepsTypedZeros(t *testing.T) {
	t.Parallel()

	p := NewPipeline(19)
	mappings := []mapping.FieldMapping{
		{SourceColumn: "name", TargetField: "item_name"},
		{SourceColumn: "stock", TargetField: "opening_stock", Transform: mapping.TransformNumber},
		{SourceColumn: "web", TargetField: "show_in_website", Transform: mapping.TransformBool},
	}
	record := p.TransformRow(row(map[string]string{
		"name":  "   ",
		"stock": "0",
		"web":   "nein",
	}), mappings)

	if _, ok := record["item_name"]; ok {
		t.Fatalf("blank item_name should be omitted, got %v", record["item_name"])
	}
	if record["opening_stock"] != 0.0 {
		t.Fatalf("opening_stock = %v", record["opening_stock"])
	}
	if record["show_in_website"] != false {
		t.Fatalf("show_in_website = %v", record["show_in_website"])
	}
}

func TestTransformRowUsesDefaultValue(t *testing.T) {
	t.Parallel()

	p := NewPipeline(19)
	mappings := []mapping.FieldMapping{
		{SourceColumn: "uom", TargetField: "stock_uom", DefaultValue: "Stk"},
	}
	record := p.TransformRow(row(map[string]string{"uom": ""}), mappings)
	if record["stock_uom"] != "Stk" {
		t.Fatalf("stock_uom = %v", record["stock_uom"])
	}
}

func TestGrossPriceBecomesNetRate(t *testing.T) {
	t.Parallel()

	p := NewPipeline(19)
	mappings := []mapping.FieldMapping{
		{SourceColumn: "preis", TargetField: "standard_rate_brutto"},
	}
	record := p.TransformRow(row(map[string]string{"preis": "119,00"}), mappings)

	if _, ok := record["standard_rate_brutto"]; ok {
		t.Fatal("standard_rate_brutto should be consumed")
	}
	rate, ok := record["standard_rate"].(float64)
	if !ok || math.Abs(rate-100.0) > 0.001 {
		t.Fatalf("standard_rate = %v", record["standard_rate"])
	}
}

func TestBarcodeValidationGatesGTIN(t *testing.T) {
	t.Parallel()

	p := NewPipeline(19)
	mappings := []mapping.FieldMapping{
		{SourceColumn: "ean", TargetField: "barcode"},
	}

	cases := []struct {
		name string
		ean  string
		want string
	}{
		{"valid ean", "4006381333931", "4006381333931"},
		{"placeholder", "0000000000000", ""},
		{"too short", "1234567", ""},
		{"non digit", "40063813339AB", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record := p.TransformRow(row(map[string]string{"ean": tc.ean}), mappings)
			if _, ok := record["barcode"]; ok {
				t.Fatal("barcode key should be consumed")
			}
			got, _ := record["gtin"].(string)
			if got != tc.want {
				t.Fatalf("gtin = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestActiveFlagInvertsDisabled(t *testing.T) {
	t.Parallel()

	p := NewPipeline(19)
	plain := []mapping.FieldMapping{{SourceColumn: "aktiv", TargetField: "disabled"}}
	boolean := []mapping.FieldMapping{{SourceColumn: "aktiv", TargetField: "disabled", Transform: mapping.TransformBool}}

	cases := []struct {
		name     string
		mappings []mapping.FieldMapping
		value    string
		want     int
	}{
		{"string ja", plain, "ja", 0},
		{"string aktiv", plain, "Aktiv", 0},
		{"string nein", plain, "nein", 1},
		{"bool true", boolean, "1", 0},
		{"bool false", boolean, "0", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record := p.TransformRow(row(map[string]string{"aktiv": tc.value}), tc.mappings)
			if record["disabled"] != tc.want {
				t.Fatalf("disabled = %v, want %d", record["disabled"], tc.want)
			}
		})
	}
}

func TestDescriptionHTMLAliasesIntoDescription(t *testing.T) {
	t.Parallel()

	p := NewPipeline(19)
	record := p.TransformRow(row(map[string]string{"html": "<p>Lang</p>"}),
		[]mapping.FieldMapping{{SourceColumn: "html", TargetField: "description_html"}})
	if record["description"] != "<p>Lang</p>" {
		t.Fatalf("description = %v", record["description"])
	}

	record = p.TransformRow(row(map[string]string{"html": "<p>Lang</p>", "txt": "Kurz"}),
		[]mapping.FieldMapping{
			{SourceColumn: "txt", TargetField: "description"},
			{SourceColumn: "html", TargetField: "description_html"},
		})
	if record["description"] != "Kurz" {
		t.Fatalf("plain description must win, got %v", record["description"])
	}
}

func TestApplyCategoryDryRunAssumesDeepestLevel(t *testing.T) {
	t.Parallel()

	p := NewPipeline(19)
	record := NormalizedRecord{"category_path": "Möbel > Regale"}
	var logged []string
	p.ApplyCategory(record, "Alle Artikelgruppen", true,
		func(string) bool { t.Fatal("exists must not be called in dry run"); return false },
		func(string, string) (bool, string) { t.Fatal("create must not be called in dry run"); return false, "" },
		func(message string, isError bool) { logged = append(logged, message) })

	if record["item_group"] != "Regale" {
		t.Fatalf("item_group = %v", record["item_group"])
	}
	if _, ok := record["category_path"]; ok {
		t.Fatal("category_path should be consumed")
	}
	if len(logged) != 1 || !strings.Contains(logged[0], "[DRY]") {
		t.Fatalf("logged = %v", logged)
	}
}

func TestApplyCategoryPathOverridesLevels(t *testing.T) {
	t.Parallel()

	p := NewPipeline(19)
	record := NormalizedRecord{
		"category_level_1": "Falsch",
		"category_path":    "Elektronik > Computer > Laptops",
	}
	p.ApplyCategory(record, "Alle Artikelgruppen", true,
		nil, nil, func(string, bool) {})

	if record["item_group"] != "Laptops" {
		t.Fatalf("item_group = %v", record["item_group"])
	}
}

func TestApplyCategoryResolvesPathMappedOntoItemGroup(t *testing.T) {
	t.Parallel()

	// A "Kategorie" column auto-resolves onto item_group; a path value
	// there must still walk the hierarchy instead of becoming the group
	// name verbatim.
	source := row(map[string]string{
		"Artikelnummer": "SKU1",
		"Kategorie":     "Möbel > Regale",
	})
	set := mapping.NewSet([]string{"Artikelnummer", "Kategorie"})
	mapping.AutoResolve(set, catalog.TargetFields(catalog.ImportItems))

	p := NewPipeline(19)
	record := p.TransformRow(source, set.Mappings())
	p.ApplyCategory(record, "Alle Artikelgruppen", true, nil, nil, func(string, bool) {})

	if record["item_group"] != "Regale" {
		t.Fatalf("item_group = %v, want deepest hierarchy level", record["item_group"])
	}
}

func TestApplyCategoryKeepsPlainItemGroup(t *testing.T) {
	t.Parallel()

	p := NewPipeline(19)
	record := NormalizedRecord{"item_group": "Regale"}
	p.ApplyCategory(record, "Alle Artikelgruppen", false,
		func(string) bool { t.Fatal("plain group must not trigger a hierarchy walk"); return false },
		func(string, string) (bool, string) { t.Fatal("plain group must not create categories"); return false, "" },
		func(string, bool) {})

	if record["item_group"] != "Regale" {
		t.Fatalf("item_group = %v", record["item_group"])
	}
}

func TestMissingRecordValuesReadAsEmpty(t *testing.T) {
	t.Parallel()

	record := NormalizedRecord{}
	if got := stringValue(record["item_code"]); got != "" {
		t.Fatalf("missing key = %q, want empty string", got)
	}
}

func TestEndToEndRowScenario(t *testing.T) {
	t.Parallel()

	p := NewPipeline(19)
	source := row(map[string]string{
		"Artikelnummer": "SKU1",
		"Artikelname":   "Regal Basic",
		"Preis Brutto":  "119,00",
		"EAN":           "4006381333931",
		"Kategoriepfad": "Möbel > Regale",
	})
	mappings := []mapping.FieldMapping{
		{SourceColumn: "Artikelnummer", TargetField: "item_code"},
		{SourceColumn: "Artikelname", TargetField: "item_name"},
		{SourceColumn: "Preis Brutto", TargetField: "standard_rate_brutto"},
		{SourceColumn: "EAN", TargetField: "barcode"},
		{SourceColumn: "Kategoriepfad", TargetField: "category_path"},
	}

	record := p.TransformRow(source, mappings)
	p.ApplyCategory(record, "Alle Artikelgruppen", true, nil, nil, func(string, bool) {})

	if record["item_code"] != "SKU1" {
		t.Fatalf("item_code = %v", record["item_code"])
	}
	rate, _ := record["standard_rate"].(float64)
	if math.Abs(rate-100.0) > 0.001 {
		t.Fatalf("standard_rate = %v", record["standard_rate"])
	}
	if record["gtin"] != "4006381333931" {
		t.Fatalf("gtin = %v", record["gtin"])
	}
	if record["item_group"] != "Regale" {
		t.Fatalf("item_group = %v", record["item_group"])
	}
}
