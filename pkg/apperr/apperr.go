package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure so callers can branch without
// inspecting error strings.
type Kind int

const (
	KindUnknown Kind = iota
	// KindInvalidInput - malformed request, rejected before any side effect.
	KindInvalidInput
	// KindNotFound - a referenced entity does not exist.
	KindNotFound
	// KindConflict - concurrency-control conflict, safe to retry the whole call.
	KindConflict
	// KindPersistence - storage unavailable or transaction failure.
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Error carries a Kind alongside a message and optional cause.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Kind() Kind { return e.kind }

func New(kind Kind, msg string) error {
	return &Error{kind: kind, msg: msg}
}

func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and context message to an underlying error.
func Wrap(kind Kind, err error, msg string) error {
	return &Error{kind: kind, msg: msg, err: err}
}

// KindOf extracts the Kind from err, unwrapping as needed.
// Returns KindUnknown for nil or untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
