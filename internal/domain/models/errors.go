// internal/domain/models/errors.go
package models

import (
	"errors"
	"fmt"
)

// ErrSchemaRejected is returned when the database's own document validator
// refuses a write.
var ErrSchemaRejected = errors.New("document failed schema validation")

// InvariantError reports a storage-level invariant violation on one field.
type InvariantError struct {
	Field   string
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func invariant(field, msg string) error {
	return &InvariantError{Field: field, Message: msg}
}
