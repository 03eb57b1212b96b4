package erpnext

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const rootItemGroup = "All Item Groups"

func (c *HTTPClient) ItemGroupExists(ctx context.Context, name string) (bool, error) {
	return c.docExists(ctx, c.groupCache, "Item Group", name)
}

// CreateItemGroup creates a group node under a parent. Parents default to
// the site root; groups created here stay non-leaf so deeper levels can
// hang below them.
func (c *HTTPClient) CreateItemGroup(ctx context.Context, name, parent string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("item group name is required")
	}
	parent = strings.TrimSpace(parent)
	if parent == "" {
		parent = rootItemGroup
	}

	doc := map[string]any{
		"item_group_name":   name,
		"parent_item_group": parent,
		"is_group":          1,
	}
	err := c.doJSON(ctx, http.MethodPost, resourcePath("Item Group", ""), doc, nil)
	if err != nil && !IsDuplicate(err) {
		return err
	}
	c.groupCache[name] = true
	return nil
}
