package model

import (
	"errors"
	"fmt"
)

// Schema errors indicate an inconsistency between a value and its declared
// schema, or between two parts of the schema itself. They are never recovered
// silently: encoding or decoding past one would corrupt data.

// UnknownEntityError reports a FieldType or codec lookup referencing an entity
// name absent from the SchemaSet.
type UnknownEntityError struct {
	Entity string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown entity %q", e.Entity)
}

func (e *UnknownEntityError) schemaError() {}

// MissingFieldError reports a required field absent from a value being encoded
// or from a wire object being decoded.
type MissingFieldError struct {
	Entity string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q", e.Entity, e.Field)
}

func (e *MissingFieldError) schemaError() {}

// TypeMismatchError reports a value whose runtime type does not match the
// declared FieldType.
type TypeMismatchError struct {
	Entity   string
	Field    string
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s.%s: expected %s, got %s", e.Entity, e.Field, e.Expected, e.Actual)
}

func (e *TypeMismatchError) schemaError() {}

type schemaError interface {
	error
	schemaError()
}

// IsSchemaError reports whether err (or anything it wraps) is a schema error,
// as opposed to an API rejection or a transport failure.
func IsSchemaError(err error) bool {
	var se schemaError
	return errors.As(err, &se)
}
