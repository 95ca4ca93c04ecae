package store

import (
	"errors"
	"fmt"
)

// ErrWorkflowNotFound matches any store error caused by a record type that
// has never been discovered. Use errors.Is against this, or errors.As
// against *NotFoundError for the record type itself.
var ErrWorkflowNotFound = errors.New("workflow not found")

// NotFoundError reports which record type has no stored graph.
type NotFoundError struct {
	RecordType string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no stored workflow for record type %q", e.RecordType)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrWorkflowNotFound
}
