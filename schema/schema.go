// Package schema implements lightweight payload validation: declared fields
// must be present, non-nil and carry the declared runtime type. It checks
// neither nested object shape, nor array element types, nor cross-field
// constraints. Handlers invoke it opportunistically before mutating state;
// the dispatcher never enforces it.
package schema

import (
	"fmt"
	"sort"
)

// Type names the JSON runtime types a field can be declared as.
type Type string

const (
	// TypeString matches string values.
	TypeString Type = "string"
	// TypeNumber matches any numeric value.
	TypeNumber Type = "number"
	// TypeInteger matches numeric values without a fractional part.
	TypeInteger Type = "integer"
	// TypeBoolean matches bool values.
	TypeBoolean Type = "boolean"
	// TypeArray matches []any values.
	TypeArray Type = "array"
	// TypeObject matches map[string]any values.
	TypeObject Type = "object"
)

// Schema declares the required fields of a payload and their expected types.
type Schema map[string]Type

// Validate checks data against the declared schema. It returns ok=true when
// every declared field is present, non-nil and of the expected type, and
// otherwise a list of human-readable violations. Fields are checked in
// lexical order so the violation list is stable; fields present in data but
// absent from the schema are ignored.
func Validate(data map[string]any, s Schema) (bool, []string) {
	fields := make([]string, 0, len(s))
	for field := range s {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var violations []string
	for _, field := range fields {
		expected := s[field]
		value, exists := data[field]
		if !exists || value == nil {
			violations = append(violations, fmt.Sprintf("field %q: required field is missing or null", field))
			continue
		}
		if !matchesType(value, expected) {
			violations = append(violations, fmt.Sprintf("field %q: expected %s, got %T", field, expected, value))
		}
	}
	return len(violations) == 0, violations
}

// matchesType checks a runtime value against the declared type. JSON
// decoding produces float64 for every number, so integer checks accept a
// float64 without a fractional part.
func matchesType(value any, expected Type) bool {
	switch expected {
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeInteger:
		switch v := value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return true
		case float64:
			return v == float64(int64(v))
		}
		return false
	case TypeNumber:
		switch value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
			float32, float64:
			return true
		}
		return false
	case TypeBoolean:
		_, ok := value.(bool)
		return ok
	case TypeArray:
		_, ok := value.([]any)
		return ok
	case TypeObject:
		_, ok := value.(map[string]any)
		return ok
	default:
		return true // Unknown types are assumed valid
	}
}
