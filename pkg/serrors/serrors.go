// Package serrors attaches a semantic kind to errors. The HTTP layer maps
// kinds to status codes and the intake core uses them to tell a refused
// camera permission apart from a missing camera.
package serrors

import (
	"errors"
	"fmt"
)

// Kind is a failure category. Kinds are compared by identity, so create them
// once with NewKind and share the value.
type Kind struct {
	code string
}

// NewKind creates a kind reported as code.
func NewKind(code string) *Kind { return &Kind{code: code} }

func (k *Kind) Error() string { return k.code }

var (
	ErrNotFound     = NewKind("NOT_FOUND")
	ErrUnauthorized = NewKind("UNAUTHORIZED")
	// ErrForbidden is for authenticated callers acting outside their rights.
	ErrForbidden  = NewKind("FORBIDDEN")
	ErrBadRequest = NewKind("BAD_REQUEST")
	// ErrConflict reports a uniqueness or state conflict, such as a scan code
	// already assigned to another product.
	ErrConflict = NewKind("CONFLICT")
	ErrInternal = NewKind("INTERNAL")
	// ErrUnavailable reports a device or dependency that may come back.
	ErrUnavailable = NewKind("UNAVAILABLE")
	// ErrPermissionDenied reports a refused camera permission.
	ErrPermissionDenied = NewKind("PERMISSION_DENIED")
	// ErrNoCamera reports that no capture device exists.
	ErrNoCamera = NewKind("NO_CAMERA")
)

// Error is an error of a given kind, with an optional client-facing message
// and an optional cause.
//
// errors.Is matches both the kind and anything in the cause chain. The
// message is meant for clients; the cause is only logged.
type Error struct {
	kind  *Kind
	msg   string
	cause error
}

// With returns an error of kind k with a formatted message.
func With(k *Kind, format string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(format, args...)}
}

// Wrap returns an error of kind k with a formatted message and cause err.
func Wrap(k *Kind, err error, format string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(format, args...), cause: err}
}

// KindOnly returns an error of kind k with neither message nor cause.
func KindOnly(k *Kind) *Error { return &Error{kind: k} }

// KindOf returns the outermost kind in err's chain, or nil.
func KindOf(err error) *Kind {
	var k *Kind
	if errors.As(err, &k) {
		return k
	}

	return nil
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	msg := e.msg
	if msg == "" && e.cause == nil && e.kind != nil {
		msg = e.kind.code
	}
	if e.cause == nil {
		return msg
	}
	if msg == "" {
		return e.cause.Error()
	}

	return msg + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is the kind of e. Causes are matched by
// errors.Is through Unwrap.
func (e *Error) Is(target error) bool {
	k, ok := target.(*Kind)

	return ok && e != nil && e.kind != nil && k == e.kind
}

// As sets a *Kind target to the kind of e.
func (e *Error) As(target any) bool {
	k, ok := target.(**Kind)
	if !ok || e == nil || e.kind == nil {
		return false
	}
	*k = e.kind

	return true
}

func (e *Error) Kind() *Kind     { return e.kind }
func (e *Error) Message() string { return e.msg }
func (e *Error) Cause() error    { return e.cause }
