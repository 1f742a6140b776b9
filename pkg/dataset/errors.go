package dataset

import (
	"errors"
	"fmt"
)

// ErrQueryImmutable signals an attempt to refine a relation that was
// created from a raw SQL query. Raw-query relations are not structurally
// modifiable; change the original query text instead.
var ErrQueryImmutable = errors.New("relation was created from a raw query and cannot be refined; change the original query instead")

// UnknownColumnError is returned when a selected column is not present
// in the table's known schema. It is raised at refinement time, before
// any query executes.
type UnknownColumnError struct {
	Column string
	Table  string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("column %q is not known in the schema for table %q", e.Column, e.Table)
}

// UnsupportedDatasetTypeError is returned when an unrecognized dataset
// type is requested.
type UnsupportedDatasetTypeError struct {
	Type Type
}

func (e *UnsupportedDatasetTypeError) Error() string {
	return fmt.Sprintf("dataset of type %q not implemented", string(e.Type))
}
