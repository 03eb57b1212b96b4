package erpnext

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"erpimport/catalog"
	"erpimport/transform"
)

func (c *HTTPClient) ItemExists(ctx context.Context, code string) (bool, error) {
	return c.docExists(ctx, c.itemCache, "Item", code)
}

func (c *HTTPClient) GetItem(ctx context.Context, code string) (map[string]any, error) {
	var out docResponse
	if err := c.doJSON(ctx, http.MethodGet, resourcePath("Item", code), nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreateItem posts a new Item document. The record is completed with the
// defaults ERPNext insists on and the gtin is expanded into the barcodes
// child table.
func (c *HTTPClient) CreateItem(ctx context.Context, record map[string]any) error {
	doc := prepareItemDoc(record)
	code, _ := doc["item_code"].(string)
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("item_code is required")
	}

	if _, ok := doc["item_group"]; !ok {
		doc["item_group"] = "All Item Groups"
	}
	if _, ok := doc["is_stock_item"]; !ok {
		doc["is_stock_item"] = 1
	}
	doc["stock_uom"] = catalog.NormalizeUOM(stringField(doc, "stock_uom"))

	if err := c.doJSON(ctx, http.MethodPost, resourcePath("Item", ""), doc, nil); err != nil {
		return err
	}
	c.itemCache[code] = true
	return nil
}

func (c *HTTPClient) UpdateItem(ctx context.Context, code string, record map[string]any) error {
	doc := prepareItemDoc(record)
	// The name is in the URL; sending item_code again confuses renames.
	delete(doc, "item_code")
	return c.doJSON(ctx, http.MethodPut, resourcePath("Item", code), doc, nil)
}

func (c *HTTPClient) DeleteItem(ctx context.Context, code string) error {
	if err := c.doJSON(ctx, http.MethodDelete, resourcePath("Item", code), nil, nil); err != nil {
		return err
	}
	delete(c.itemCache, code)
	return nil
}

// CreateItemPrice writes a selling Item Price on the configured price
// list. A duplicate response is treated as success, so re-imports do not
// fail on already priced items.
func (c *HTTPClient) CreateItemPrice(ctx context.Context, code string, rate float64) error {
	doc := map[string]any{
		"item_code":       code,
		"price_list":      c.priceList,
		"price_list_rate": rate,
		"selling":         1,
	}
	err := c.doJSON(ctx, http.MethodPost, resourcePath("Item Price", ""), doc, nil)
	if err != nil && IsDuplicate(err) {
		return nil
	}
	return err
}

// ListItems fetches Item list rows page by page. Filters use the frappe
// list form, e.g. {"item_group": "Regale"}.
func (c *HTTPClient) ListItems(ctx context.Context, fields []string, filters map[string]any) ([]map[string]any, error) {
	const pageSize = 200

	fieldsJSON := `["name"]`
	if len(fields) > 0 {
		quoted := make([]string, len(fields))
		for i, field := range fields {
			quoted[i] = fmt.Sprintf("%q", field)
		}
		fieldsJSON = "[" + strings.Join(quoted, ",") + "]"
	}
	filtersJSON := ""
	if len(filters) > 0 {
		parts := make([]string, 0, len(filters))
		for key, value := range filters {
			parts = append(parts, fmt.Sprintf(`[%q,"=",%q]`, key, fmt.Sprintf("%v", value)))
		}
		filtersJSON = "[" + strings.Join(parts, ",") + "]"
	}

	items := make([]map[string]any, 0, pageSize)
	for start := 0; ; start += pageSize {
		path := fmt.Sprintf("%s?fields=%s&limit_start=%d&limit_page_length=%d",
			resourcePath("Item", ""), fieldsJSON, start, pageSize)
		if filtersJSON != "" {
			path += "&filters=" + filtersJSON
		}

		var out listResponse
		if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
			return nil, err
		}
		items = append(items, out.Data...)
		if len(out.Data) < pageSize {
			break
		}
	}
	return items, nil
}

// prepareItemDoc copies the record and rewrites the fields the REST API
// stores differently from the import vocabulary.
func prepareItemDoc(record map[string]any) map[string]any {
	doc := make(map[string]any, len(record)+2)
	for key, value := range record {
		doc[key] = value
	}

	if gtin := strings.TrimSpace(stringField(doc, "gtin")); gtin != "" {
		delete(doc, "gtin")
		doc["barcodes"] = []map[string]any{{
			"barcode":      gtin,
			"barcode_type": transform.DetectBarcodeType(gtin),
		}}
	}
	return doc
}

func stringField(doc map[string]any, key string) string {
	if value, ok := doc[key].(string); ok {
		return value
	}
	return ""
}
