package erpnext

import (
	"context"
)

// Session binds a client to one context for the duration of an import
// run and exposes the outcome-style surface the import engine consumes:
// mutations report ok plus a log message instead of an error chain.
type Session struct {
	ctx    context.Context
	client Client
}

func NewSession(ctx context.Context, client Client) *Session {
	return &Session{ctx: ctx, client: client}
}

func (s *Session) ItemExists(code string) bool {
	exists, err := s.client.ItemExists(s.ctx, code)
	return err == nil && exists
}

func (s *Session) CreateItem(record map[string]any) (bool, string) {
	if err := s.client.CreateItem(s.ctx, record); err != nil {
		return false, err.Error()
	}
	return true, ""
}

func (s *Session) UpdateItem(code string, record map[string]any) (bool, string) {
	if err := s.client.UpdateItem(s.ctx, code, record); err != nil {
		return false, err.Error()
	}
	return true, ""
}

func (s *Session) CreateItemPrice(code string, rate float64) (bool, string) {
	if err := s.client.CreateItemPrice(s.ctx, code, rate); err != nil {
		return false, err.Error()
	}
	return true, ""
}

func (s *Session) ItemGroupExists(name string) bool {
	exists, err := s.client.ItemGroupExists(s.ctx, name)
	return err == nil && exists
}

func (s *Session) CreateItemGroup(name, parent string) (bool, string) {
	if err := s.client.CreateItemGroup(s.ctx, name, parent); err != nil {
		return false, err.Error()
	}
	return true, ""
}

func (s *Session) CreateAttribute(name string, values []string, numeric bool, from, to, increment float64) (bool, string) {
	attribute := Attribute{
		Name:      name,
		Values:    values,
		Numeric:   numeric,
		FromRange: from,
		ToRange:   to,
		Increment: increment,
	}
	if err := s.client.EnsureAttribute(s.ctx, attribute); err != nil {
		return false, err.Error()
	}
	return true, ""
}

func (s *Session) CreateVariant(template, code string, attributes map[string]string, extra map[string]any) (bool, string) {
	variant := Variant{
		Template:   template,
		ItemCode:   code,
		Attributes: attributes,
	}
	if name, ok := extra["item_name"].(string); ok {
		variant.ItemName = name
	}
	if rate, ok := extra["standard_rate"].(float64); ok {
		variant.Rate = rate
	}
	if gtin, ok := extra["gtin"].(string); ok {
		variant.GTIN = gtin
	}
	if err := s.client.CreateVariant(s.ctx, variant); err != nil {
		return false, err.Error()
	}
	return true, ""
}
