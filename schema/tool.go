package schema

// PropertySchema describes one parameter in a tool's argument schema. The
// shape intentionally mirrors the JSON-Schema subset the catalog uses.
type PropertySchema struct {
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Items       *PropertySchema `json:"items,omitempty"`
	Default     interface{}     `json:"default,omitempty"`
}

// ParameterSchema is the argument contract a tool declares.
type ParameterSchema struct {
	Type       string                    `json:"type,omitempty"`
	Properties map[string]PropertySchema `json:"properties,omitempty"`
	Required   []string                  `json:"required,omitempty"`
}

// ToolDefinition is the static metadata record the catalog serves. Consumers
// treat it as read-only.
type ToolDefinition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// Library references the backing implementation package.
	Library        string                   `json:"library,omitempty"`
	ArgsSchema     ParameterSchema          `json:"args_schema"`
	Category       string                   `json:"category,omitempty"`
	RequiresAPIKey bool                     `json:"requires_api_key,omitempty"`
	Aliases        []string                 `json:"aliases,omitempty"`
	Examples       []map[string]interface{} `json:"examples,omitempty"`
	Tags           []string                 `json:"tags,omitempty"`
}

// ToolValidationError is a single typed problem found while validating a
// proposed tool call against its schema.
type ToolValidationError struct {
	ToolName  string `json:"tool_name,omitempty"`
	ErrorType string `json:"error_type"`
	Message   string `json:"error_message"`
	FieldName string `json:"field_name,omitempty"`
	Expected  string `json:"expected,omitempty"`
	Actual    string `json:"actual,omitempty"`
}

// Validation error types.
const (
	ErrMissingField = "missing_field"
	ErrWrongType    = "wrong_type"
)

// ToolValidationResult reports the outcome of validating (and possibly
// repairing) a tool call. On failure Errors carries every error seen across
// repair attempts so callers can inspect the history.
type ToolValidationResult struct {
	IsValid       bool                   `json:"is_valid"`
	ToolName      string                 `json:"tool_name"`
	OriginalArgs  map[string]interface{} `json:"original_args"`
	CorrectedArgs map[string]interface{} `json:"corrected_args,omitempty"`
	Errors        []ToolValidationError  `json:"errors,omitempty"`
	RetryCount    int                    `json:"retry_count"`
}
