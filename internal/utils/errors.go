package utils

import (
	"errors"
	"fmt"
)

// ErrorKind buckets an AppError into the handling taxonomy: transport
// failures, server-reported failures, and local validation failures.
type ErrorKind string

const (
	KindTransport  ErrorKind = "transport"
	KindServer     ErrorKind = "server"
	KindValidation ErrorKind = "validation"
)

// AppError wraps an operation, error kind, human-facing message, and the
// underlying error.
type AppError struct {
	Op   string
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationError constructs an AppError for input rejected before any
// network call.
func ValidationError(op, msg string) error {
	return &AppError{Op: op, Kind: KindValidation, Msg: msg}
}

// TransportError constructs an AppError for a failed network exchange.
func TransportError(op string, err error) error {
	return &AppError{Op: op, Kind: KindTransport, Msg: "request failed", Err: err}
}

// ServerError constructs an AppError for a non-2xx response.
func ServerError(op, msg string) error {
	return &AppError{Op: op, Kind: KindServer, Msg: msg}
}

// IsValidation reports whether err (or anything it wraps) is a local
// validation failure.
func IsValidation(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == KindValidation
	}
	return false
}
