package model

import "fmt"

// ErrorKind classifies a run failure.
type ErrorKind string

const (
	KindWindowNotFound         ErrorKind = "window_not_found"
	KindWindowValidationFailed ErrorKind = "window_validation_failed"
	KindLaunchFailed           ErrorKind = "launch_failed"
	KindElementNotFound        ErrorKind = "element_not_found"
	KindElementNotReady        ErrorKind = "element_not_ready"
	KindActivationFailed       ErrorKind = "activation_failed"
	KindDiscoveryUnavailable   ErrorKind = "discovery_unavailable"
	KindCancelled              ErrorKind = "cancelled"
	KindUnexpected             ErrorKind = "unexpected"
)

// Fatal reports whether errors of this kind end a run before the send loop.
func (k ErrorKind) Fatal() bool {
	switch k {
	case KindWindowNotFound, KindWindowValidationFailed, KindLaunchFailed:
		return true
	}
	return false
}

// RunError is a classified engine error.
type RunError struct {
	Kind    ErrorKind
	Message string // Human-readable message
	Cause   error  // Underlying error
}

// Error implements the error interface.
func (e *RunError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *RunError) Unwrap() error {
	return e.Cause
}

// Is matches any RunError of the same kind, so errors.Is(err, ErrLaunchFailed)
// holds for copies made with WithCause or WithMessage.
func (e *RunError) Is(target error) bool {
	t, ok := target.(*RunError)
	return ok && t.Kind == e.Kind
}

// WithCause returns a copy of the error with the given cause.
func (e *RunError) WithCause(cause error) *RunError {
	return &RunError{Kind: e.Kind, Message: e.Message, Cause: cause}
}

// WithMessage returns a copy of the error with a custom message.
func (e *RunError) WithMessage(msg string) *RunError {
	return &RunError{Kind: e.Kind, Message: msg, Cause: e.Cause}
}

var (
	// Fatal, pre-loop.
	ErrWindowNotFound = &RunError{
		Kind:    KindWindowNotFound,
		Message: "window not found",
	}
	ErrWindowValidationFailed = &RunError{
		Kind:    KindWindowValidationFailed,
		Message: "window validation failed",
	}
	ErrLaunchFailed = &RunError{
		Kind:    KindLaunchFailed,
		Message: "failed to launch target application",
	}

	// Recoverable, per message.
	ErrElementNotFound = &RunError{
		Kind:    KindElementNotFound,
		Message: "element not found",
	}
	ErrElementNotReady = &RunError{
		Kind:    KindElementNotReady,
		Message: "element not ready",
	}
	ErrActivationFailed = &RunError{
		Kind:    KindActivationFailed,
		Message: "activation failed",
	}
	ErrDiscoveryUnavailable = &RunError{
		Kind:    KindDiscoveryUnavailable,
		Message: "dynamic discovery unavailable",
	}

	ErrCancelled = &RunError{
		Kind:    KindCancelled,
		Message: "run cancelled",
	}
	ErrUnexpected = &RunError{
		Kind:    KindUnexpected,
		Message: "unexpected error",
	}
)

// KindOf returns the kind of err, or KindUnexpected when err is not a RunError.
func KindOf(err error) ErrorKind {
	for err != nil {
		if re, ok := err.(*RunError); ok {
			return re.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return KindUnexpected
}
