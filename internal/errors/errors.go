// Package errors provides structured error types for rtichat.
// These errors carry the operation that failed and a coarse category, so the
// UI can decide which generic message to show without string matching.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

// Status is the HTTP status code attached to a rejected request.
type Status int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindIO
	KindNetwork
	KindRejected
	KindDecode
	KindConfig
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindIO:
		return "I/O error"
	case KindNetwork:
		return "network error"
	case KindRejected:
		return "request rejected"
	case KindDecode:
		return "decode error"
	case KindConfig:
		return "configuration error"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for rtichat.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Status  Status // HTTP status, zero when not applicable
	Err     error  // Underlying error
	Context string // Additional context
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - Status: the HTTP status code
// - string: context message
// - error: the underlying error
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case Status:
			e.Status = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// GetStatus returns the HTTP status carried by err, or 0.
func GetStatus(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return int(e.Status)
	}
	return 0
}

// Backend request errors

// RequestFailed reports a request that never completed (offline, refused, reset).
func RequestFailed(op Op, url string, err error) error {
	return E(op, KindNetwork, fmt.Sprintf("request to %s failed", url), err)
}

// RequestTimedOut reports a request that exceeded its deadline.
func RequestTimedOut(op Op, url string, err error) error {
	return E(op, KindTimeout, fmt.Sprintf("request to %s timed out", url), err)
}

// RequestRejected reports a completed request with a non-success status.
func RequestRejected(op Op, url string, status int) error {
	return E(op, KindRejected, Status(status), fmt.Sprintf("%s responded with status %d", url, status))
}

// DecodeFailed reports a success response whose body could not be decoded.
func DecodeFailed(op Op, url string, err error) error {
	return E(op, KindDecode, fmt.Sprintf("failed to decode response from %s", url), err)
}

// Store errors
func StoreLoadFailed(path string, err error) error {
	return E(Op("store.Load"), KindIO, fmt.Sprintf("failed to load sessions from %s", path), err)
}

func StoreSaveFailed(path string, err error) error {
	return E(Op("store.Save"), KindIO, fmt.Sprintf("failed to save sessions to %s", path), err)
}

// Config errors
func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}

// Draft errors
func DraftEmpty() error {
	return E(Op("draft.Save"), KindInvalid, "no draft available")
}

func DraftSaveFailed(path string, err error) error {
	return E(Op("draft.Save"), KindIO, fmt.Sprintf("failed to write draft to %s", path), err)
}

// Session errors
func SessionNotFound(id string) error {
	return E(Op("session.Get"), KindNotFound, fmt.Sprintf("session %s not found", id))
}
