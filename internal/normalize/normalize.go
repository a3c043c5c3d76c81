// Package normalize cleans raw spreadsheet cell values and classifies
// rows into line-item categories.
package normalize

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field is one named cell value within a row.
type Field struct {
	Name  string
	Value any
}

// Fields is an ordered set of named cell values. Column order is preserved
// so that compact renderings and serialized artifacts are deterministic.
type Fields []Field

// Get returns the value for name, or nil when absent.
func (f Fields) Get(name string) any {
	for _, field := range f {
		if field.Name == name {
			return field.Value
		}
	}
	return nil
}

// MarshalYAML renders Fields as a YAML mapping in insertion order. The
// default map marshaling would sort keys alphabetically.
func (f Fields) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	for _, field := range f {
		var key, value yaml.Node
		key.SetString(field.Name)
		if err := value.Encode(field.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &key, &value)
	}

	return node, nil
}

var currencySymbols = []string{"$", "€", "£"}

// Clean normalizes one cell value. Blank values return (nil, false) and must
// be dropped by the caller. Strings are trimmed, then parsed numerically
// with thousands-separator commas and currency symbols removed for the parse
// attempt only; a whole-number parse yields an int64, a fractional parse a
// float64, and a failed parse returns the trimmed string with symbols
// intact. Non-string, non-nil values pass through unchanged. Clean is
// idempotent: applying it to its own output yields the same result.
func Clean(value any) (any, bool) {
	if value == nil {
		return nil, false
	}

	s, isString := value.(string)
	if !isString {
		return value, true
	}

	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, false
	}

	candidate := strings.ReplaceAll(trimmed, ",", "")
	for _, symbol := range currencySymbols {
		candidate = strings.ReplaceAll(candidate, symbol, "")
	}
	candidate = strings.TrimSpace(candidate)

	if n, err := strconv.ParseInt(candidate, 10, 64); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(candidate, 64); err == nil {
		return f, true
	}

	return trimmed, true
}

// NormalizeFields applies Clean to every field, drops fields whose cleaned
// value is absent, and defaults a blank field name to "column".
func NormalizeFields(row Fields) Fields {
	normalized := make(Fields, 0, len(row))

	for _, field := range row {
		value, ok := Clean(field.Value)
		if !ok {
			continue
		}

		name := strings.TrimSpace(field.Name)
		if name == "" {
			name = "column"
		}

		normalized = append(normalized, Field{Name: name, Value: value})
	}

	return normalized
}

// IsNumeric reports whether a normalized value is numeric.
func IsNumeric(value any) bool {
	switch value.(type) {
	case int, int32, int64, float32, float64:
		return true
	}
	return false
}
