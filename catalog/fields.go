package catalog

import "fmt"

// ValueKind classifies how a target field's value is rendered into the
// ERPNext payload.
type ValueKind string

const (
	KindText          ValueKind = "text"
	KindLinkReference ValueKind = "link_reference"
	KindBoolean       ValueKind = "boolean"
	KindCurrency      ValueKind = "currency"
	KindFloat         ValueKind = "float"
	KindMultilineText ValueKind = "multiline_text"
)

// ImportKind selects the target doctype family for a batch run.
type ImportKind string

const (
	ImportItems      ImportKind = "items"
	ImportPrices     ImportKind = "prices"
	ImportCategories ImportKind = "categories"
	ImportAttributes ImportKind = "attributes"
	ImportVariants   ImportKind = "variants"
)

// ParseImportKind validates a CLI/config kind value.
func ParseImportKind(value string) (ImportKind, error) {
	switch ImportKind(value) {
	case ImportItems, ImportPrices, ImportCategories, ImportAttributes, ImportVariants:
		return ImportKind(value), nil
	default:
		return "", fmt.Errorf("unsupported import kind: %s (supported: items, prices, categories, attributes, variants)", value)
	}
}

// FieldSpec describes one target field of an import kind.
type FieldSpec struct {
	Key       string
	Label     string
	Kind      ValueKind
	Required  bool
	Hierarchy bool
	Dynamic   bool
	Default   string
}

// FieldSet is an ordered, immutable collection of target field specs.
type FieldSet struct {
	keys  []string
	specs map[string]FieldSpec
}

func newFieldSet(specs []FieldSpec) *FieldSet {
	set := &FieldSet{
		keys:  make([]string, 0, len(specs)),
		specs: make(map[string]FieldSpec, len(specs)),
	}
	for _, spec := range specs {
		if _, exists := set.specs[spec.Key]; exists {
			continue
		}
		set.keys = append(set.keys, spec.Key)
		set.specs[spec.Key] = spec
	}
	return set
}

// Keys returns the field keys in catalog order.
func (s *FieldSet) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

func (s *FieldSet) Get(key string) (FieldSpec, bool) {
	spec, ok := s.specs[key]
	return spec, ok
}

func (s *FieldSet) Has(key string) bool {
	_, ok := s.specs[key]
	return ok
}

func (s *FieldSet) Len() int {
	return len(s.keys)
}

// RequiredKeys returns the keys flagged required, in catalog order.
func (s *FieldSet) RequiredKeys() []string {
	out := make([]string, 0, 2)
	for _, key := range s.keys {
		if s.specs[key].Required {
			out = append(out, key)
		}
	}
	return out
}

// Merge returns a new FieldSet extended by custom fields. Custom fields
// behave exactly like static ones afterwards; existing keys win.
func (s *FieldSet) Merge(custom []FieldSpec) *FieldSet {
	merged := make([]FieldSpec, 0, len(s.keys)+len(custom))
	for _, key := range s.keys {
		merged = append(merged, s.specs[key])
	}
	for _, spec := range custom {
		if spec.Key == "" || s.Has(spec.Key) {
			continue
		}
		merged = append(merged, spec)
	}
	return newFieldSet(merged)
}

var itemFields = newFieldSet([]FieldSpec{
	{Key: "item_code", Label: "Artikelnummer", Kind: KindText, Required: true},
	{Key: "item_name", Label: "Artikelname", Kind: KindText, Required: true},
	{Key: "item_group", Label: "Artikelgruppe", Kind: KindLinkReference},
	{Key: "category_level_1", Label: "Kategorie Ebene 1", Kind: KindText, Hierarchy: true},
	{Key: "category_level_2", Label: "Kategorie Ebene 2", Kind: KindText, Hierarchy: true},
	{Key: "category_level_3", Label: "Kategorie Ebene 3", Kind: KindText, Hierarchy: true},
	{Key: "category_level_4", Label: "Kategorie Ebene 4", Kind: KindText, Hierarchy: true},
	{Key: "category_path", Label: "Kategoriepfad (z.B. A > B > C)", Kind: KindText, Hierarchy: true},
	{Key: "description", Label: "Beschreibung", Kind: KindMultilineText},
	{Key: "description_html", Label: "Beschreibung (HTML)", Kind: KindMultilineText},
	{Key: "stock_uom", Label: "Lagereinheit", Kind: KindLinkReference, Default: "Stk"},
	{Key: "is_stock_item", Label: "Lagerartikel", Kind: KindBoolean},
	{Key: "disabled", Label: "Deaktiviert", Kind: KindBoolean},
	{Key: "standard_rate", Label: "Standardpreis (Netto)", Kind: KindCurrency},
	{Key: "standard_rate_brutto", Label: "VK Brutto", Kind: KindCurrency},
	{Key: "valuation_rate", Label: "Einkaufspreis", Kind: KindCurrency},
	{Key: "gtin", Label: "GTIN/EAN", Kind: KindText},
	{Key: "barcode", Label: "Barcode (Barcode-Tabelle)", Kind: KindText},
	{Key: "manufacturer_part_no", Label: "Herstellerartikelnr.", Kind: KindText},
	{Key: "brand", Label: "Marke/Hersteller", Kind: KindLinkReference},
	{Key: "manufacturer", Label: "Hersteller", Kind: KindLinkReference},
	{Key: "weight_per_unit", Label: "Gewicht (kg)", Kind: KindFloat},
	{Key: "item_length", Label: "Länge (cm)", Kind: KindFloat},
	{Key: "item_width", Label: "Breite (cm)", Kind: KindFloat},
	{Key: "item_height", Label: "Höhe (cm)", Kind: KindFloat},
	{Key: "country_of_origin", Label: "Herkunftsland", Kind: KindLinkReference},
	{Key: "customs_tariff_number", Label: "Zolltarifnummer", Kind: KindText},
	{Key: "seo_title", Label: "SEO Titel", Kind: KindText},
	{Key: "seo_meta_description", Label: "SEO Meta-Beschreibung", Kind: KindMultilineText},
	{Key: "seo_keywords", Label: "SEO Keywords", Kind: KindText},
	{Key: "seo_url_slug", Label: "SEO URL Slug", Kind: KindText},
	{Key: "delivery_time", Label: "Lieferzeit", Kind: KindText},
	{Key: "show_in_website", Label: "Im Webshop anzeigen", Kind: KindBoolean},
	{Key: "has_variants", Label: "Hat Varianten", Kind: KindBoolean},
	{Key: "variant_of", Label: "Variante von", Kind: KindLinkReference},
	{Key: "opening_stock", Label: "Anfangsbestand", Kind: KindFloat},
	{Key: "jattr_farbe", Label: "Attribut: Farbe", Kind: KindText, Dynamic: true},
	{Key: "jattr_material", Label: "Attribut: Material", Kind: KindText, Dynamic: true},
	{Key: "jattr_groesse", Label: "Attribut: Größe", Kind: KindText, Dynamic: true},
	{Key: "jattr_regalsystem", Label: "Attribut: Regalsystem", Kind: KindText, Dynamic: true},
	{Key: "jattr_fachlast", Label: "Attribut: Fachlast", Kind: KindText, Dynamic: true},
	{Key: "jattr_feldlast", Label: "Attribut: Feldlast", Kind: KindText, Dynamic: true},
	{Key: "jattr_bauweise", Label: "Attribut: Bauweise", Kind: KindText, Dynamic: true},
	{Key: "jattr_bodentyp", Label: "Attribut: Bodentyp", Kind: KindText, Dynamic: true},
})

var categoryFields = newFieldSet([]FieldSpec{
	{Key: "item_group_name", Label: "Kategoriename", Kind: KindText, Required: true},
	{Key: "parent_item_group", Label: "Oberkategorie", Kind: KindLinkReference},
	{Key: "description", Label: "Beschreibung", Kind: KindMultilineText},
	{Key: "seo_title", Label: "SEO Title", Kind: KindText},
	{Key: "seo_meta_description", Label: "SEO Meta Description", Kind: KindMultilineText},
	{Key: "seo_keywords", Label: "SEO Keywords", Kind: KindText},
})

var attributeFields = newFieldSet([]FieldSpec{
	{Key: "attribute_name", Label: "Attribut-Name", Kind: KindText, Required: true},
	{Key: "attribute_values", Label: "Attributwerte (kommagetrennt)", Kind: KindText},
	{Key: "numeric_values", Label: "Numerische Werte", Kind: KindBoolean},
	{Key: "from_range", Label: "Von (Bereich)", Kind: KindFloat},
	{Key: "to_range", Label: "Bis (Bereich)", Kind: KindFloat},
	{Key: "increment", Label: "Schrittweite", Kind: KindFloat},
})

var variantFields = newFieldSet([]FieldSpec{
	{Key: "item_code", Label: "Varianten-Artikelnr.", Kind: KindText, Required: true},
	{Key: "variant_of", Label: "Vorlagenartikel", Kind: KindLinkReference, Required: true},
	{Key: "item_name", Label: "Variantenname", Kind: KindText},
	{Key: "attribute_color", Label: "Attribut: Farbe", Kind: KindText},
	{Key: "attribute_size", Label: "Attribut: Größe", Kind: KindText},
	{Key: "attribute_material", Label: "Attribut: Material", Kind: KindText},
	{Key: "attribute_1", Label: "Attribut 1 (Name:Wert)", Kind: KindText},
	{Key: "attribute_2", Label: "Attribut 2 (Name:Wert)", Kind: KindText},
	{Key: "attribute_3", Label: "Attribut 3 (Name:Wert)", Kind: KindText},
	{Key: "standard_rate", Label: "Preis", Kind: KindCurrency},
	{Key: "gtin", Label: "GTIN/EAN", Kind: KindText},
})

// TargetFields returns the static field catalog for an import kind.
// Items and prices share the item catalog.
func TargetFields(kind ImportKind) *FieldSet {
	switch kind {
	case ImportCategories:
		return categoryFields
	case ImportAttributes:
		return attributeFields
	case ImportVariants:
		return variantFields
	default:
		return itemFields
	}
}

// ValueKindFromFrappe maps a Frappe fieldtype onto a catalog value kind,
// used when merging remotely discovered custom fields.
func ValueKindFromFrappe(fieldtype string) ValueKind {
	switch fieldtype {
	case "Text", "Text Editor", "Small Text", "Long Text":
		return KindMultilineText
	case "Int", "Float", "Percent":
		return KindFloat
	case "Currency":
		return KindCurrency
	case "Check":
		return KindBoolean
	case "Link":
		return KindLinkReference
	default:
		return KindText
	}
}
