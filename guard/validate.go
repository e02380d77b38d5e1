// Package guard validates tool call arguments against their declared schemas
// and drives a bounded model-assisted correction loop for the failures.
package guard

import (
	"fmt"

	"github.com/lexcodex/agentforge/schema"
)

// ValidateArgs checks args against the tool's parameter schema. It reports
// every missing required field and every present field whose value has the
// wrong JSON type. Fields absent from the schema are ignored.
func ValidateArgs(toolName string, args map[string]interface{}, params schema.ParameterSchema) []schema.ToolValidationError {
	var errs []schema.ToolValidationError
	for _, field := range params.Required {
		if _, ok := args[field]; !ok {
			errs = append(errs, schema.ToolValidationError{
				ToolName:  toolName,
				ErrorType: schema.ErrMissingField,
				Message:   fmt.Sprintf("required field %q is missing", field),
				FieldName: field,
				Expected:  expectedType(params, field),
			})
		}
	}
	for field, value := range args {
		prop, ok := params.Properties[field]
		if !ok {
			continue
		}
		if !matchesType(value, prop.Type) {
			errs = append(errs, schema.ToolValidationError{
				ToolName:  toolName,
				ErrorType: schema.ErrWrongType,
				Message:   fmt.Sprintf("field %q expects %s, got %T", field, prop.Type, value),
				FieldName: field,
				Expected:  prop.Type,
				Actual:    fmt.Sprintf("%T", value),
			})
		}
	}
	return errs
}

func expectedType(params schema.ParameterSchema, field string) string {
	if prop, ok := params.Properties[field]; ok {
		return prop.Type
	}
	return "string"
}

// matchesType checks one decoded JSON value against a schema type name.
// Numbers arrive from encoding/json as float64, so integer accepts any
// integral float64 in addition to native ints.
func matchesType(value interface{}, typ string) bool {
	if value == nil {
		return false
	}
	switch typ {
	case "string":
		_, ok := value.(string)
		return ok
	case "integer":
		switch v := value.(type) {
		case int, int32, int64:
			return true
		case float64:
			return v == float64(int64(v))
		}
		return false
	case "number":
		switch value.(type) {
		case float64, float32, int, int32, int64:
			return true
		}
		return false
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "array":
		_, ok := value.([]interface{})
		return ok
	case "object":
		_, ok := value.(map[string]interface{})
		return ok
	default:
		_, ok := value.(string)
		return ok
	}
}
