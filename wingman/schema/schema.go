// Package schema provides the structured-output contracts that recovered
// crew results must conform to.
//
// A Schema is a named, ordered set of fields. Each field carries a semantic
// type and a human-readable description; the recovery engine iterates the
// field list to drive its fallback heuristics instead of introspecting Go
// types, so adding a schema never touches extraction code.
package schema

import (
	"fmt"
	"strings"

	"github.com/shivanandmn/wingman/wingman/typeutil"
)

// FieldType represents the semantic type of a schema field.
type FieldType string

const (
	// FieldTypeText is free text.
	FieldTypeText FieldType = "text"
	// FieldTypeList is an ordered list of text items.
	FieldTypeList FieldType = "list"
	// FieldTypeMapping is a mapping of text keys to fractional scores.
	FieldTypeMapping FieldType = "mapping"
)

// FieldTypeFromString parses a field type string.
func FieldTypeFromString(value string) (FieldType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "text":
		return FieldTypeText, nil
	case "list":
		return FieldTypeList, nil
	case "mapping":
		return FieldTypeMapping, nil
	default:
		return "", fmt.Errorf("invalid field type '%s'. Must be one of: text, list, mapping", value)
	}
}

// Field describes one field of a schema.
type Field struct {
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Description string    `json:"description"`
}

// DisplayName returns the field name with underscores replaced by spaces and
// each word capitalized, e.g. "emotional_state" -> "Emotional State".
func (f Field) DisplayName() string {
	words := strings.Split(f.Name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Schema is a named, ordered field contract. Schemas are immutable after
// registration.
type Schema struct {
	Name   string
	Fields []Field
}

// Describe returns the ordered field list. Pure, no side effects.
func (s *Schema) Describe() []Field {
	return s.Fields
}

// rawTextPrefixLimit caps how much raw text is carried into a synthesized
// text field when no structure could be recovered.
const rawTextPrefixLimit = 500

// coerce converts a single raw value to the field's declared type.
func coerce(f Field, value any) (any, error) {
	switch f.Type {
	case FieldTypeText:
		s, ok := typeutil.SafeString(value)
		if !ok {
			return nil, fmt.Errorf("field '%s' expects text, got %T", f.Name, value)
		}
		return s, nil
	case FieldTypeList:
		items, ok := typeutil.SafeStringSlice(value)
		if !ok {
			return nil, fmt.Errorf("field '%s' expects a list of text, got %T", f.Name, value)
		}
		return items, nil
	case FieldTypeMapping:
		m, ok := typeutil.SafeMapStringAny(value)
		if !ok {
			if direct, isMap := value.(map[string]float64); isMap {
				return direct, nil
			}
			return nil, fmt.Errorf("field '%s' expects a mapping, got %T", f.Name, value)
		}
		scores := make(map[string]float64, len(m))
		for k, v := range m {
			score, ok := typeutil.SafeFloat64(v)
			if !ok {
				return nil, fmt.Errorf("field '%s' mapping value for '%s' is not numeric: %T", f.Name, k, v)
			}
			scores[k] = score
		}
		return scores, nil
	default:
		return nil, fmt.Errorf("field '%s' has unknown type '%s'", f.Name, f.Type)
	}
}

// defaultValue returns the zero value for a field type. Text fields named
// "analysis" or "perspective" get a prefix of raw as a best-effort substitute
// for a missing structured field.
func defaultValue(f Field, raw string) (any, error) {
	switch f.Type {
	case FieldTypeMapping:
		return map[string]float64{}, nil
	case FieldTypeList:
		return []string{}, nil
	case FieldTypeText:
		if f.Name == "analysis" || f.Name == "perspective" {
			if len(raw) > rawTextPrefixLimit {
				return raw[:rawTextPrefixLimit], nil
			}
			return raw, nil
		}
		return "", nil
	default:
		return nil, fmt.Errorf("field '%s' has no default for type '%s'", f.Name, f.Type)
	}
}

// Build constructs a schema instance from a parsed mapping. Every declared
// field must be present and coercible; unknown keys are ignored. A missing
// field or a type mismatch is an error so that strict parsing can fall
// through to the lenient tiers.
func (s *Schema) Build(values map[string]any) (map[string]any, error) {
	instance := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		raw, exists := values[f.Name]
		if !exists {
			return nil, fmt.Errorf("schema '%s' missing field '%s'", s.Name, f.Name)
		}
		coerced, err := coerce(f, raw)
		if err != nil {
			return nil, err
		}
		instance[f.Name] = coerced
	}
	return instance, nil
}

// BuildPartial constructs a schema instance from whatever fields were
// captured. Missing or uncoercible fields become plain zero values; the
// best-effort raw-text substitution is reserved for Defaults. Fails only
// when a field type cannot be defaulted.
func (s *Schema) BuildPartial(values map[string]any) (map[string]any, error) {
	instance := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		if v, exists := values[f.Name]; exists {
			if coerced, err := coerce(f, v); err == nil {
				instance[f.Name] = coerced
				continue
			}
		}
		def, err := defaultValue(f, "")
		if err != nil {
			return nil, err
		}
		instance[f.Name] = def
	}
	return instance, nil
}

// Defaults constructs an all-default instance. raw feeds the best-effort
// text substitution for "analysis"/"perspective" fields.
func (s *Schema) Defaults(raw string) (map[string]any, error) {
	instance := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		def, err := defaultValue(f, raw)
		if err != nil {
			return nil, err
		}
		instance[f.Name] = def
	}
	return instance, nil
}

// Empty returns the all-default instance for the no-result case (empty raw
// text). Guaranteed to succeed for schemas built from the known field types.
func (s *Schema) Empty() map[string]any {
	instance, err := s.Defaults("")
	if err != nil {
		// Known field types always default; an unknown type is caught at
		// registration time by Validate.
		return map[string]any{}
	}
	return instance
}

// Validate checks that the schema is well-formed.
func (s *Schema) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("Schema.Name is required")
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("schema '%s' has no fields", s.Name)
	}
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("schema '%s' has a field with no name", s.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("schema '%s' has duplicate field '%s'", s.Name, f.Name)
		}
		seen[f.Name] = true
		if _, err := FieldTypeFromString(string(f.Type)); err != nil {
			return fmt.Errorf("schema '%s': %w", s.Name, err)
		}
	}
	return nil
}
