package engine

import (
	"errors"
	"fmt"

	"github.com/ethiapath/djmusicorganizer/internal/library"
)

var ErrUnknownSchema = errors.New("unknown schema")

// StructuralError is the fatal error class: the document is not well-formed,
// is missing its root element, or carries an unrecognized version. It aborts
// the whole conversion with no partial output; everything recoverable is a
// warning instead.
type StructuralError struct {
	Schema library.Schema
	Err    error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural error in %s document: %v", e.Schema, e.Err)
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}
