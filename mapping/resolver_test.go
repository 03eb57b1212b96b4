package mapping

import (
	"testing"

	"erpimport/catalog"
)

func TestAutoResolve_RuleMatching(t *testing.T) {
	t.Parallel()

	columns := []string{"Artikel-Nr", "Artikelname", "VK Brutto", "EAN", "Kategorie", "Unbekannte Spalte"}
	set := NewSet(columns)
	targets := catalog.TargetFields(catalog.ImportItems)

	mapped := AutoResolve(set, targets)
	if mapped != 5 {
		t.Fatalf("expected 5 mapped columns, got %d", mapped)
	}

	want := map[string]string{
		"Artikel-Nr":  "item_code",
		"Artikelname": "item_name",
		"VK Brutto":   "standard_rate_brutto",
		"EAN":         "barcode",
		"Kategorie":   "item_group",
	}
	for column, target := range want {
		if got := set.Target(column); got != target {
			t.Fatalf("column %s: want %s, got %s", column, target, got)
		}
	}
	if set.Target("Unbekannte Spalte") != "" {
		t.Fatalf("unmatched column must stay unmapped")
	}
}

func TestAutoResolve_StripAndSubstring(t *testing.T) {
	t.Parallel()

	set := NewSet([]string{"Beschreibung (HTML)", "Shop-Kategoriepfad"})
	targets := catalog.TargetFields(catalog.ImportItems)
	AutoResolve(set, targets)

	if got := set.Target("Beschreibung (HTML)"); got != "description" {
		t.Fatalf("html description column: want description, got %s", got)
	}
	if got := set.Target("Shop-Kategoriepfad"); got != "category_path" {
		t.Fatalf("substring match: want category_path, got %s", got)
	}
}

func TestAutoResolve_FirstColumnKeepsTarget(t *testing.T) {
	t.Parallel()

	// Both columns resolve to item_code; the earlier column wins, the
	// later one stays unmapped instead of evicting.
	set := NewSet([]string{"Artikelnummer", "SKU"})
	AutoResolve(set, catalog.TargetFields(catalog.ImportItems))

	if got := set.Target("Artikelnummer"); got != "item_code" {
		t.Fatalf("first column must hold item_code, got %s", got)
	}
	if got := set.Target("SKU"); got != "" {
		t.Fatalf("second column must stay unmapped, got %s", got)
	}
}

func TestAssign_EvictsDuplicateTarget(t *testing.T) {
	t.Parallel()

	set := NewSet([]string{"Artikel-Nr", "VK Brutto", "Preisspalte"})
	targets := catalog.TargetFields(catalog.ImportItems)
	AutoResolve(set, targets)

	// Reassign the second price column onto the target the first one holds.
	if err := set.Assign("Preisspalte", "standard_rate_brutto"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	if got := set.Target("Preisspalte"); got != "standard_rate_brutto" {
		t.Fatalf("new column must hold the target, got %s", got)
	}
	if got := set.Target("VK Brutto"); got != "" {
		t.Fatalf("evicted column must be cleared, got %s", got)
	}

	holders := 0
	for _, m := range set.Mappings() {
		if m.TargetField == "standard_rate_brutto" {
			holders++
		}
	}
	if holders != 1 {
		t.Fatalf("exactly one mapping may hold the target, got %d", holders)
	}
	if len(set.Notices()) == 0 {
		t.Fatalf("eviction must surface a notice")
	}
}

func TestAssign_EmptyTargetClears(t *testing.T) {
	t.Parallel()

	set := NewSet([]string{"EAN"})
	AutoResolve(set, catalog.TargetFields(catalog.ImportItems))
	if err := set.Assign("EAN", ""); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(set.Mappings()) != 0 {
		t.Fatalf("cleared column must not appear in mappings")
	}
}

func TestApplySuggestion_FiltersAndFirstWins(t *testing.T) {
	t.Parallel()

	set := NewSet([]string{"Spalte A", "Spalte B", "Spalte C"})
	targets := catalog.TargetFields(catalog.ImportItems)

	applied := ApplySuggestion(set, targets, map[string]string{
		"Spalte A":      "item_code",
		"Spalte B":      "item_code",     // target already proposed, dropped
		"Spalte C":      "kein_zielfeld", // unknown target, dropped
		"Fremde Spalte": "item_name",     // unknown column, dropped
	})

	if applied != 1 {
		t.Fatalf("expected 1 applied suggestion, got %d", applied)
	}
	if got := set.Target("Spalte A"); got != "item_code" {
		t.Fatalf("Spalte A: want item_code, got %s", got)
	}
	if set.Target("Spalte B") != "" || set.Target("Spalte C") != "" {
		t.Fatalf("filtered suggestions must not be applied")
	}
}

func TestApplySuggestion_DoesNotEvict(t *testing.T) {
	t.Parallel()

	set := NewSet([]string{"Artikelnummer", "Andere Spalte"})
	targets := catalog.TargetFields(catalog.ImportItems)
	AutoResolve(set, targets)

	ApplySuggestion(set, targets, map[string]string{"Andere Spalte": "item_code"})

	if got := set.Target("Artikelnummer"); got != "item_code" {
		t.Fatalf("existing assignment must survive an AI proposal, got %s", got)
	}
	if set.Target("Andere Spalte") != "" {
		t.Fatalf("conflicting AI proposal must be dropped")
	}
}

func TestMappings_SourceColumnOrder(t *testing.T) {
	t.Parallel()

	set := NewSet([]string{"EAN", "Artikelnummer", "Preis"})
	AutoResolve(set, catalog.TargetFields(catalog.ImportItems))

	mappings := set.Mappings()
	if len(mappings) != 3 {
		t.Fatalf("expected 3 mappings, got %d", len(mappings))
	}
	if mappings[0].SourceColumn != "EAN" || mappings[1].SourceColumn != "Artikelnummer" || mappings[2].SourceColumn != "Preis" {
		t.Fatalf("mappings must follow source-column order: %+v", mappings)
	}
}

func TestMissingRequired(t *testing.T) {
	t.Parallel()

	set := NewSet([]string{"Artikelname"})
	targets := catalog.TargetFields(catalog.ImportItems)
	AutoResolve(set, targets)

	missing := set.MissingRequired(targets.RequiredKeys())
	if len(missing) != 1 || missing[0] != "item_code" {
		t.Fatalf("unexpected missing required keys: %v", missing)
	}
}
