package core

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrUsage is returned when the command line is incomplete; the usage has already been printed.
var ErrUsage = errors.New("usage")

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	if len(err.Fields) == 0 {
		return err.Err.Error()
	}
	msgs := make([]string, 0, len(err.Fields))
	for _, fld := range err.Fields {
		msgs = append(msgs, fld.Field+": "+fld.Error)
	}
	return err.Err.Error() + ": " + strings.Join(msgs, "; ")
}

func (err ValidationError) Unwrap() error { return err.Err }

// ExitError carries the process exit code of a failure along with the message printed to stderr.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func NewExitError(code int, msg string, err error) error {
	return &ExitError{Code: code, Message: msg, Err: err}
}

func (e *ExitError) Error() string {
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode returns the exit code carried by `err`, 1 for any other failure and 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
