package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an operation failed
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConnectionFailed
	KindGenerationFailed
	KindNotFound
	KindInvalidState
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindConnectionFailed:
		return "connection_failed"
	case KindGenerationFailed:
		return "generation_failed"
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is the failure result of a service operation
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

var (
	ErrAlreadyRunning = errors.New("automation already running")
	ErrNotRunning     = errors.New("automation is not running")
	ErrNotConnected   = errors.New("not connected to instagram")
	ErrEmptyUsername  = errors.New("instagram username is required")
	ErrAlreadyReplied = errors.New("message already replied")
)
