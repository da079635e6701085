package translate

import (
	"errors"
	"fmt"

	"dxw/doctree"
)

var (
	// ErrNestedTable is returned when table is opened while another one is
	// still being assembled.
	ErrNestedTable = errors.New("nested tables are not supported")
	// ErrUnsupportedSpan is returned for cells spanning several rows or columns.
	ErrUnsupportedSpan = errors.New("column or row spanning cells are not supported")
	// ErrMissingMetadata is returned when image size could not be resolved.
	ErrMissingMetadata = errors.New("image size is not fully specified and could not be probed")
)

// StructuralError reports content tree shape the translator refuses to
// handle. It always wraps one of the sentinel errors above.
type StructuralError struct {
	Kind doctree.Kind
	Path string
	Err  error
}

func (e *StructuralError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s at %s: %v", e.Kind, e.Path, e.Err)
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}
