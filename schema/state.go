package schema

// StateFieldType enumerates the semantic types a state field may carry.
type StateFieldType string

const (
	FieldString         StateFieldType = "string"
	FieldInt            StateFieldType = "int"
	FieldBool           StateFieldType = "bool"
	FieldFloat          StateFieldType = "float"
	FieldMessageList    StateFieldType = "message-list"
	FieldStringList     StateFieldType = "string-list"
	FieldDict           StateFieldType = "dict"
	FieldOptionalString StateFieldType = "optional-string"
	FieldOptionalInt    StateFieldType = "optional-int"
	FieldAny            StateFieldType = "any"
)

var stateFieldTypes = map[StateFieldType]bool{
	FieldString:         true,
	FieldInt:            true,
	FieldBool:           true,
	FieldFloat:          true,
	FieldMessageList:    true,
	FieldStringList:     true,
	FieldDict:           true,
	FieldOptionalString: true,
	FieldOptionalInt:    true,
	FieldAny:            true,
}

// Valid reports whether the type is part of the closed enumeration. Composite
// spellings such as optional-of-list are rejected on purpose.
func (t StateFieldType) Valid() bool {
	return stateFieldTypes[t]
}

// StateField declares a single slot in the generated agent's shared state.
type StateField struct {
	Name        string         `json:"name"`
	Type        StateFieldType `json:"type"`
	Description string         `json:"description,omitempty"`
	// Default is kept even when it is the zero value, since a false or
	// empty default is meaningful to the compiler.
	Default interface{} `json:"default"`
	// Reducer names the merge strategy for concurrent writers, e.g.
	// "add_messages" for append-only message histories.
	Reducer string `json:"reducer,omitempty"`
}

// StateSchema is the ordered collection of fields threaded through a generated
// agent's execution.
type StateSchema struct {
	Fields []StateField `json:"fields"`
}

// Field returns the declaration for name.
func (s *StateSchema) Field(name string) (StateField, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return StateField{}, false
}

// HasField reports whether name is declared.
func (s *StateSchema) HasField(name string) bool {
	_, ok := s.Field(name)
	return ok
}
