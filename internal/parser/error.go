package parser

import (
	"errors"
	"fmt"
)

// ErrBadLine matches every error returned by ParseLine.
var ErrBadLine = errors.New("bad log line")

type ErrLineFormat struct {
	msg string
}

func NewErrLineFormat(msg string) error {
	return ErrLineFormat{
		msg: msg,
	}
}

func (e ErrLineFormat) Error() string {
	return e.msg
}

func (e ErrLineFormat) Is(target error) bool {
	return target == ErrBadLine
}

// FieldError is returned when a field matches the grammar textually but
// fails its semantic check.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func newFieldError(field, value string, err error) *FieldError {
	return &FieldError{
		Field: field,
		Value: value,
		Err:   err,
	}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func (e *FieldError) Is(target error) bool {
	return target == ErrBadLine
}
