package catalog

import "strings"

// uomAliases normalizes free-text stock units onto the ERPNext UOM names
// used in German installations.
var uomAliases = map[string]string{
	"stück":      "Stk",
	"stk":        "Stk",
	"stck":       "Stk",
	"pcs":        "Stk",
	"piece":      "Stk",
	"pieces":     "Stk",
	"kg":         "Kg",
	"kilogramm":  "Kg",
	"kilo":       "Kg",
	"g":          "Gramm",
	"gramm":      "Gramm",
	"gram":       "Gramm",
	"l":          "Liter",
	"liter":      "Liter",
	"litre":      "Liter",
	"ml":         "Milliliter",
	"milliliter": "Milliliter",
	"m":          "Meter",
	"meter":      "Meter",
	"cm":         "Zentimeter",
	"zentimeter": "Zentimeter",
	"mm":         "Millimeter",
	"millimeter": "Millimeter",
	"set":        "Set",
	"paar":       "Paar",
	"pair":       "Paar",
	"box":        "Box",
	"karton":     "Karton",
	"palette":    "Palette",
}

// NormalizeUOM maps a raw unit value onto its canonical ERPNext name.
// Unknown units pass through unchanged; empty input falls back to Stk.
func NormalizeUOM(uom string) string {
	trimmed := strings.TrimSpace(uom)
	if trimmed == "" {
		return "Stk"
	}
	if canonical, ok := uomAliases[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}
