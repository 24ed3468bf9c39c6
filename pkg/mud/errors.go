package mud

import (
	"fmt"
	"strconv"
)

// ValidationError is the only error kind returned by the builders. Field
// names the input that was rejected and Value holds what was passed.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, fmt.Sprint(e.Value), e.Reason)
}

func invalid(field string, value any) error {
	return &ValidationError{Field: field, Value: value}
}

func invalidf(field string, value any, format string, args ...any) error {
	return &ValidationError{Field: field, Value: value, Reason: fmt.Sprintf(format, args...)}
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
