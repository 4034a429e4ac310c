package config

import "fmt"

// DefinitionError reports a structurally invalid pipeline definition. It is
// the only error surfaced before any stage begins; a run aborts outright
// when validation fails.
type DefinitionError struct {
	Detail string
}

// Error implements the error interface.
func (e *DefinitionError) Error() string {
	return "invalid pipeline definition: " + e.Detail
}

func definitionErrorf(format string, args ...any) error {
	return &DefinitionError{Detail: fmt.Sprintf(format, args...)}
}
