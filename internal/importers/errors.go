package importers

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat means the payload matches neither accepted shape.
	ErrInvalidFormat = errors.New(`invalid import format: expected {"category": [...], "sites": [...]} or an array of sites`)

	// ErrValidation means a category descriptor failed validation.
	ErrValidation = errors.New("invalid category data")
)

// BackendError wraps a storage failure that happened during an import.
// Writes committed before the failure are not rolled back.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func backendError(op string, err error) error {
	return &BackendError{Op: op, Err: err}
}
