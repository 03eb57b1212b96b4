package erpnext

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Attribute describes one Item Attribute document, either value-based
// (Values populated) or numeric (range fields populated).
type Attribute struct {
	Name      string
	Values    []string
	Numeric   bool
	FromRange float64
	ToRange   float64
	Increment float64
}

// Variant is one concrete variant of a template item. Attributes maps the
// attribute name to its value for this variant.
type Variant struct {
	Template   string
	ItemCode   string
	ItemName   string
	Attributes map[string]string
	Rate       float64
	GTIN       string
}

type attributeValueRow struct {
	AttributeValue string `json:"attribute_value"`
	Abbr           string `json:"abbr"`
}

// EnsureAttribute creates the attribute or, when it already exists,
// appends the values it is still missing. Numeric attributes are never
// patched after creation.
func (c *HTTPClient) EnsureAttribute(ctx context.Context, attribute Attribute) error {
	name := strings.TrimSpace(attribute.Name)
	if name == "" {
		return fmt.Errorf("attribute name is required")
	}

	exists, err := c.docExists(ctx, c.attributeCache, "Item Attribute", name)
	if err != nil {
		return err
	}

	if !exists {
		doc := map[string]any{"attribute_name": name}
		if attribute.Numeric {
			doc["numeric_values"] = 1
			doc["from_range"] = attribute.FromRange
			doc["to_range"] = attribute.ToRange
			doc["increment"] = attribute.Increment
		} else {
			doc["item_attribute_values"] = attributeValueRows(attribute.Values)
		}
		if err := c.doJSON(ctx, http.MethodPost, resourcePath("Item Attribute", ""), doc, nil); err != nil {
			return err
		}
		c.attributeCache[name] = true
		return nil
	}

	if attribute.Numeric || len(attribute.Values) == 0 {
		return nil
	}

	var current docResponse
	if err := c.doJSON(ctx, http.MethodGet, resourcePath("Item Attribute", name), nil, &current); err != nil {
		return err
	}
	known := make(map[string]struct{})
	rows, _ := current.Data["item_attribute_values"].([]any)
	merged := make([]attributeValueRow, 0, len(rows)+len(attribute.Values))
	for _, raw := range rows {
		row, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		value, _ := row["attribute_value"].(string)
		abbr, _ := row["abbr"].(string)
		known[strings.ToLower(value)] = struct{}{}
		merged = append(merged, attributeValueRow{AttributeValue: value, Abbr: abbr})
	}

	added := 0
	for _, value := range attribute.Values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, dup := known[strings.ToLower(value)]; dup {
			continue
		}
		known[strings.ToLower(value)] = struct{}{}
		merged = append(merged, attributeValueRow{AttributeValue: value, Abbr: abbreviate(value, known)})
		added++
	}
	if added == 0 {
		return nil
	}

	patch := map[string]any{"item_attribute_values": merged}
	return c.doJSON(ctx, http.MethodPut, resourcePath("Item Attribute", name), patch, nil)
}

func attributeValueRows(values []string) []attributeValueRow {
	seen := make(map[string]struct{}, len(values))
	rows := make([]attributeValueRow, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, dup := seen[strings.ToLower(value)]; dup {
			continue
		}
		seen[strings.ToLower(value)] = struct{}{}
		rows = append(rows, attributeValueRow{AttributeValue: value, Abbr: abbreviate(value, seen)})
	}
	return rows
}

// abbreviate derives a short unique code from the value, the way the
// ERPNext UI prefills the abbr column.
func abbreviate(value string, taken map[string]struct{}) string {
	upper := strings.ToUpper(value)
	runes := []rune(upper)
	length := 3
	if length > len(runes) {
		length = len(runes)
	}
	abbr := string(runes[:length])
	for i := length; i < len(runes); i++ {
		if _, clash := taken["abbr:"+abbr]; !clash {
			break
		}
		abbr = string(runes[:i+1])
	}
	taken["abbr:"+abbr] = struct{}{}
	return abbr
}

// CreateVariant creates a variant item referencing its template. The
// template must have variants enabled; the attribute rows must name
// attributes the template declares. An already existing variant is
// treated as success so re-imports pass through.
func (c *HTTPClient) CreateVariant(ctx context.Context, variant Variant) error {
	if strings.TrimSpace(variant.ItemCode) == "" || strings.TrimSpace(variant.Template) == "" {
		return fmt.Errorf("variant needs item code and template")
	}
	if len(variant.Attributes) == 0 {
		return fmt.Errorf("variant %s has no attributes", variant.ItemCode)
	}

	template, err := c.GetItem(ctx, variant.Template)
	if err != nil {
		return fmt.Errorf("load variant template %s: %w", variant.Template, err)
	}
	if !truthyField(template["has_variants"]) {
		return fmt.Errorf("item %s does not have variants enabled", variant.Template)
	}

	attributes := make([]map[string]any, 0, len(variant.Attributes))
	for name, value := range variant.Attributes {
		attributes = append(attributes, map[string]any{
			"attribute":       name,
			"attribute_value": value,
		})
	}

	name := strings.TrimSpace(variant.ItemName)
	if name == "" {
		name = variant.ItemCode
	}
	doc := map[string]any{
		"item_code":  variant.ItemCode,
		"item_name":  name,
		"variant_of": variant.Template,
		"attributes": attributes,
	}
	if variant.Rate > 0 {
		doc["standard_rate"] = variant.Rate
	}
	if gtin := strings.TrimSpace(variant.GTIN); gtin != "" {
		doc["gtin"] = gtin
	}

	if err := c.CreateItem(ctx, doc); err != nil {
		if !IsDuplicate(err) {
			return err
		}
	}
	if variant.Rate > 0 {
		if err := c.CreateItemPrice(ctx, variant.ItemCode, variant.Rate); err != nil {
			return err
		}
	}
	return nil
}

// truthyField reads a frappe check field, which decodes as float64 from
// JSON but may come back as bool or string from list views.
func truthyField(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	case string:
		return v == "1" || strings.EqualFold(v, "true")
	default:
		return false
	}
}
