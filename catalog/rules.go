package catalog

// AutoMappingRules maps normalized source column names to target field
// keys. Keys are the normalized form produced by the mapping resolver:
// lowercase, spaces and hyphens replaced by underscores. The table covers
// the column vocabulary of JTL-Wawi/Ameise exports plus common English
// spellings.
var AutoMappingRules = map[string]string{
	// Stammdaten
	"artikelnummer": "item_code",
	"artikel_nr":    "item_code",
	"sku":           "item_code",
	"artikelname":   "item_name",
	"artikel_name":  "item_name",
	"name":          "item_name",
	"bezeichnung":   "item_name",
	"produktname":   "item_name",

	// Beschreibungen
	"beschreibung":        "description",
	"beschreibung_(html)": "description",
	"kurzbeschreibung":    "description",
	"langbeschreibung":    "description",
	"artikelbeschreibung": "description",

	// Aktiv-Status: "aktiv" lands on the disabled key and is inverted by
	// the row pipeline.
	"aktiv":         "disabled",
	"artikel_aktiv": "disabled",
	"deaktiviert":   "disabled",

	// Preise
	"preis":                "standard_rate",
	"vk_netto":             "standard_rate",
	"netto_vk":             "standard_rate",
	"verkaufspreis":        "standard_rate",
	"verkaufspreis_netto":  "standard_rate",
	"vk_brutto":            "standard_rate_brutto",
	"brutto_vk":            "standard_rate_brutto",
	"verkaufspreis_brutto": "standard_rate_brutto",
	"ek_netto":             "valuation_rate",
	"einkaufspreis":        "valuation_rate",
	"einkaufspreis_netto":  "valuation_rate",

	// EAN/GTIN/Barcode
	"ean":      "barcode",
	"ean/gtin": "barcode",
	"gtin":     "barcode",
	"barcode":  "barcode",
	"upc":      "barcode",
	"isbn":     "barcode",

	// Hersteller
	"han":                      "manufacturer_part_no",
	"herstellerartikelnummer":  "manufacturer_part_no",
	"hersteller_artikelnummer": "manufacturer_part_no",
	"hersteller":               "brand",
	"marke":                    "brand",
	"brand":                    "brand",
	"manufacturer":             "brand",

	// Gewicht & Maße
	"gewicht":        "weight_per_unit",
	"artikelgewicht": "weight_per_unit",
	"versandgewicht": "weight_per_unit",
	"gewicht_(kg)":   "weight_per_unit",
	"laenge":         "item_length",
	"länge":          "item_length",
	"länge_(cm)":     "item_length",
	"breite":         "item_width",
	"breite_(cm)":    "item_width",
	"hoehe":          "item_height",
	"höhe":           "item_height",
	"höhe_(cm)":      "item_height",

	// Kategorien
	"warengruppe":         "item_group",
	"kategorie":           "item_group",
	"artikelgruppe":       "item_group",
	"kategorie_ebene_1":   "category_level_1",
	"kategorie_ebene_2":   "category_level_2",
	"kategorie_ebene_3":   "category_level_3",
	"kategorie_ebene_4":   "category_level_4",
	"kategorie_(ebene_1)": "category_level_1",
	"kategorie_(ebene_2)": "category_level_2",
	"kategorie_(ebene_3)": "category_level_3",
	"kategorie_(ebene_4)": "category_level_4",
	"category_level_1":    "category_level_1",
	"category_level_2":    "category_level_2",
	"category_level_3":    "category_level_3",
	"category_level_4":    "category_level_4",
	"kategoriepfad":       "category_path",
	"kategorie_pfad":      "category_path",
	"category_path":       "category_path",
	"hauptkategorie":      "category_level_1",
	"unterkategorie":      "category_level_2",

	// Zoll & Herkunft
	"herkunftsland":   "country_of_origin",
	"ursprungsland":   "country_of_origin",
	"taric":           "customs_tariff_number",
	"taric_code":      "customs_tariff_number",
	"zolltarifnummer": "customs_tariff_number",
	"zolltarif":       "customs_tariff_number",

	// SEO
	"seo_titel":              "seo_title",
	"titel_tag":              "seo_title",
	"titel_tag_(seo)":        "seo_title",
	"seo_title":              "seo_title",
	"meta_title":             "seo_title",
	"seo_beschreibung":       "seo_meta_description",
	"meta_description":       "seo_meta_description",
	"meta_description_(seo)": "seo_meta_description",
	"seo_description":        "seo_meta_description",
	"seo_keywords":           "seo_keywords",
	"meta_keywords":          "seo_keywords",
	"meta_keywords_(seo)":    "seo_keywords",
	"suchbegriffe":           "seo_keywords",
	"url_pfad":               "seo_url_slug",
	"url_slug":               "seo_url_slug",
	"seo_url":                "seo_url_slug",

	// Lieferzeit
	"lieferstatus":    "delivery_time",
	"lieferzeit":      "delivery_time",
	"lieferzeit_text": "delivery_time",

	// JTL-Attribute
	"farbe":       "jattr_farbe",
	"material":    "jattr_material",
	"größe":       "jattr_groesse",
	"groesse":     "jattr_groesse",
	"regalsystem": "jattr_regalsystem",
	"fachlast":    "jattr_fachlast",
	"feldlast":    "jattr_feldlast",
	"bauweise":    "jattr_bauweise",
	"bodentyp":    "jattr_bodentyp",

	// Varianten
	"ist_vaterartikel":                    "has_variants",
	"vaterartikel":                        "has_variants",
	"identifizierungsspalte_vaterartikel": "variant_of",
	"variante_von":                        "variant_of",

	// Lager
	"lagerbestand": "opening_stock",
	"bestand":      "opening_stock",
	"verfügbar":    "opening_stock",

	// Kategorien-Import
	"kategoriename": "item_group_name",
	"oberkategorie": "parent_item_group",
}
