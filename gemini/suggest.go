package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// TargetHint is one mapping target offered to the model.
type TargetHint struct {
	Key   string
	Label string
}

// ColumnSample is one source column with a few example values, so the
// model can judge content and not just the header.
type ColumnSample struct {
	Column string
	Values []string
}

// SuggestMapping asks the model for a column-to-field proposal. The
// result maps source column names to target keys; callers validate it
// against their own column and field lists.
func (c *Client) SuggestMapping(ctx context.Context, columns []ColumnSample, targets []TargetHint) (map[string]string, error) {
	text, err := c.Generate(ctx, BuildPrompt(columns, targets))
	if err != nil {
		return nil, err
	}
	return ParseSuggestion(text)
}

// BuildPrompt renders the mapping question. German column headers are the
// norm in the source files, so the prompt says so.
func BuildPrompt(columns []ColumnSample, targets []TargetHint) string {
	var b strings.Builder
	b.WriteString("You map product import columns to ERP field keys.\n")
	b.WriteString("The column headers are usually German e-commerce exports.\n\n")

	b.WriteString("Source columns with sample values:\n")
	for _, column := range columns {
		b.WriteString("- ")
		b.WriteString(column.Column)
		if len(column.Values) > 0 {
			b.WriteString(" (e.g. ")
			b.WriteString(strings.Join(column.Values, " | "))
			b.WriteString(")")
		}
		b.WriteString("\n")
	}

	b.WriteString("\nAvailable target field keys:\n")
	for _, target := range targets {
		fmt.Fprintf(&b, "- %s: %s\n", target.Key, target.Label)
	}

	b.WriteString("\nReturn only a JSON object mapping column names to target keys.\n")
	b.WriteString("Use each target key at most once. Omit columns that fit no target.\n")
	return b.String()
}

// ParseSuggestion decodes the model answer. Models wrap JSON in markdown
// fences or prose more often than not, so the parser cuts the outermost
// object out of the text first.
func ParseSuggestion(text string) (map[string]string, error) {
	cleaned := strings.TrimSpace(text)
	if start := strings.Index(cleaned, "{"); start >= 0 {
		if end := strings.LastIndex(cleaned, "}"); end > start {
			cleaned = cleaned[start : end+1]
		}
	}

	var suggestion map[string]string
	if err := json.Unmarshal([]byte(cleaned), &suggestion); err != nil {
		return nil, fmt.Errorf("parse mapping suggestion: %w", err)
	}
	if len(suggestion) == 0 {
		return nil, fmt.Errorf("mapping suggestion is empty")
	}

	out := make(map[string]string, len(suggestion))
	for column, target := range suggestion {
		column = strings.TrimSpace(column)
		target = strings.TrimSpace(target)
		if column == "" || target == "" {
			continue
		}
		out[column] = target
	}
	return out, nil
}
