package common

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by the core wraps exactly one of them.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict") // reserved for optimistic concurrency checks
	ErrTransientChannel = errors.New("transient channel failure")
	ErrStorage          = errors.New("storage failure")
)

type Error struct {
	Kind    error
	Message string
	Fields  []string
	Err     error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.Error())
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if len(e.Fields) > 0 {
		sb.WriteString(" [")
		sb.WriteString(strings.Join(e.Fields, ", "))
		sb.WriteString("]")
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func InvalidInput(message string, fields ...string) error {
	return &Error{Kind: ErrInvalidInput, Message: message, Fields: fields}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func StorageFailure(op string, err error) error {
	return &Error{Kind: ErrStorage, Message: op, Err: err}
}

func TransientChannelFailure(op string, err error) error {
	return &Error{Kind: ErrTransientChannel, Message: op, Err: err}
}

// KindOf returns the kind wrapped by err, ErrStorage for any foreign error
// and nil for a nil error.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range []error{ErrInvalidInput, ErrNotFound, ErrConflict, ErrTransientChannel, ErrStorage} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrStorage
}

// FieldsOf returns the offending field names carried by err, if any.
func FieldsOf(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
