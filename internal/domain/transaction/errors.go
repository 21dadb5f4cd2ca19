package transaction

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors surfaced by the store and the mutation service.
var (
	ErrNotFound    = errors.New("transaction not found")
	ErrForbidden   = errors.New("access forbidden")
	ErrDuplicateID = errors.New("transaction id already exists")
	// ErrConsistency means a balance update could not be applied together
	// with its transaction write. The whole mutation is rolled back.
	ErrConsistency = errors.New("balance update consistency violated")
)

// ValidationError reports the required payload fields that are missing or
// malformed. The HTTP layer maps it to 400 and echoes the field names.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}

// InvalidFilterError reports a malformed filter specification, such as an
// unparseable date bound. Malformed filters fail loudly instead of being
// silently dropped.
type InvalidFilterError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid filter %s=%q: %s", e.Field, e.Value, e.Reason)
}
