// Package validation checks request payloads against declarative schemas.
// A schema maps field names to constraint descriptors; one generic routine
// interprets them and collects every violation in a single pass.
package validation

import (
	"fmt"
	"math"
	"strconv"

	apperr "github.com/kessel-run/starwars-api/internal/errors"
)

// FieldType enumerates the payload types a field can declare.
type FieldType string

const (
	TypeString      FieldType = "string"
	TypeInt         FieldType = "int"
	TypeStringArray FieldType = "string_array"
)

// Field declares the constraints for a single payload field.
type Field struct {
	Type     FieldType
	Required bool
	// Enum restricts scalar values or array elements to the listed values.
	Enum []string
	// MinItems is the minimum array length (0 means no minimum).
	MinItems int
	// Unique rejects duplicate array elements.
	Unique bool
	// Min is the minimum numeric value for TypeInt fields.
	Min int
}

// Schema is a declarative constraint set for one payload shape.
type Schema map[string]Field

// failedMessage matches the original API's top-level validation message.
const failedMessage = "There were some validation errors in the request"

// Validate checks payload against schema and returns the normalized payload:
// numeric fields are coerced from string input, arrays become []string.
// Unknown fields are rejected. All violations are collected; on failure the
// returned error carries one {path, message} detail per violated constraint.
func Validate(payload map[string]any, schema Schema) (map[string]any, error) {
	var violations []apperr.FieldViolation
	normalized := make(map[string]any, len(payload))

	for key := range payload {
		if _, ok := schema[key]; !ok {
			violations = append(violations, apperr.FieldViolation{
				Path:    key,
				Message: fmt.Sprintf("%q is not allowed", key),
			})
		}
	}

	for name, field := range schema {
		raw, present := payload[name]
		if !present {
			if field.Required {
				violations = append(violations, apperr.FieldViolation{
					Path:    name,
					Message: fmt.Sprintf("%q is required", name),
				})
			}
			continue
		}

		value, fieldViolations := checkField(name, raw, field)
		if len(fieldViolations) > 0 {
			violations = append(violations, fieldViolations...)
			continue
		}
		normalized[name] = value
	}

	if len(violations) > 0 {
		return nil, apperr.Validation(failedMessage).WithDetails(violations...)
	}

	return normalized, nil
}

func checkField(name string, raw any, field Field) (any, []apperr.FieldViolation) {
	switch field.Type {
	case TypeString:
		return checkString(name, raw, field)
	case TypeInt:
		return checkInt(name, raw, field)
	case TypeStringArray:
		return checkStringArray(name, raw, field)
	default:
		return nil, []apperr.FieldViolation{{
			Path:    name,
			Message: fmt.Sprintf("%q has an unsupported schema type", name),
		}}
	}
}

func checkString(name string, raw any, field Field) (any, []apperr.FieldViolation) {
	s, ok := raw.(string)
	if !ok {
		return nil, []apperr.FieldViolation{{
			Path:    name,
			Message: fmt.Sprintf("%q must be a string", name),
		}}
	}
	if s == "" {
		return nil, []apperr.FieldViolation{{
			Path:    name,
			Message: fmt.Sprintf("%q is not allowed to be empty", name),
		}}
	}
	if len(field.Enum) > 0 && !contains(field.Enum, s) {
		return nil, []apperr.FieldViolation{{
			Path:    name,
			Message: fmt.Sprintf("%q must be one of %v", name, field.Enum),
		}}
	}
	return s, nil
}

// checkInt accepts JSON numbers and string-encoded integers; query parameters
// always arrive as strings.
func checkInt(name string, raw any, field Field) (any, []apperr.FieldViolation) {
	var (
		value int
		ok    bool
	)

	switch v := raw.(type) {
	case int:
		value, ok = v, true
	case float64:
		if v == math.Trunc(v) {
			value, ok = int(v), true
		}
	case string:
		if parsed, err := strconv.Atoi(v); err == nil {
			value, ok = parsed, true
		}
	}

	if !ok {
		return nil, []apperr.FieldViolation{{
			Path:    name,
			Message: fmt.Sprintf("%q must be an integer", name),
		}}
	}
	if value < field.Min {
		return nil, []apperr.FieldViolation{{
			Path:    name,
			Message: fmt.Sprintf("%q must be greater than or equal to %d", name, field.Min),
		}}
	}
	return value, nil
}

func checkStringArray(name string, raw any, field Field) (any, []apperr.FieldViolation) {
	items, ok := raw.([]any)
	if !ok {
		// Already-normalized input may arrive as []string.
		if typed, isTyped := raw.([]string); isTyped {
			items = make([]any, len(typed))
			for i, s := range typed {
				items[i] = s
			}
		} else {
			return nil, []apperr.FieldViolation{{
				Path:    name,
				Message: fmt.Sprintf("%q must be an array", name),
			}}
		}
	}

	var violations []apperr.FieldViolation
	if len(items) < field.MinItems {
		violations = append(violations, apperr.FieldViolation{
			Path:    name,
			Message: fmt.Sprintf("%q must contain at least %d items", name, field.MinItems),
		})
	}

	values := make([]string, 0, len(items))
	seen := make(map[string]int, len(items))
	for i, item := range items {
		path := fmt.Sprintf("%s.%d", name, i)

		s, isString := item.(string)
		if !isString {
			violations = append(violations, apperr.FieldViolation{
				Path:    path,
				Message: fmt.Sprintf("%q must be a string", path),
			})
			continue
		}
		if len(field.Enum) > 0 && !contains(field.Enum, s) {
			violations = append(violations, apperr.FieldViolation{
				Path:    path,
				Message: fmt.Sprintf("%q must be one of %v", path, field.Enum),
			})
			continue
		}
		if field.Unique {
			if _, dup := seen[s]; dup {
				violations = append(violations, apperr.FieldViolation{
					Path:    path,
					Message: fmt.Sprintf("%q contains a duplicate value", name),
				})
				continue
			}
			seen[s] = i
		}
		values = append(values, s)
	}

	if len(violations) > 0 {
		return nil, violations
	}
	return values, nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
