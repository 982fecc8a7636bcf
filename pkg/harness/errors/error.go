package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks missing or invalid required settings. It is always
	// raised before any subprocess is started.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrIntegration marks a subprocess or network I/O failure.
	ErrIntegration = errors.New("integration failure")
	// ErrTimeout marks an exceeded wait bound. It is never matched by ErrIntegration.
	ErrTimeout = errors.New("timed out")
	// ErrPolicyLookup marks a policy status that could not be resolved remotely.
	ErrPolicyLookup = errors.New("policy status not found")
	// ErrPolicyViolation marks a remote in-violation verdict.
	ErrPolicyViolation = errors.New("policy violation")
	// ErrUnclassified is the catch-all used by the controller for unexpected failures.
	ErrUnclassified = errors.New("unclassified error")
	// ErrTerminated marks a run stopped by an external signal.
	ErrTerminated = errors.New("process has been terminated")
)

// HarnessError carries a message, an optional cause and the taxonomy
// sentinel it belongs to.
type HarnessError struct {
	kind    error
	message string
	cause   error
}

func (e *HarnessError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%v: %s", e.kind, e.message)
	}

	return fmt.Sprintf("%v: %s: %v", e.kind, e.message, e.cause)
}

// Is matches the taxonomy sentinel of the error.
func (e *HarnessError) Is(target error) bool {
	return target == e.kind
}

// Unwrap returns the underlying cause.
func (e *HarnessError) Unwrap() error {
	return e.cause
}

// Message returns the message without the taxonomy prefix and cause.
func (e *HarnessError) Message() string {
	return e.message
}

func newError(kind error, message string, cause error) error {
	return &HarnessError{kind: kind, message: message, cause: cause}
}

func NewConfigurationError(message string) error {
	return newError(ErrConfiguration, message, nil)
}

func NewConfigurationErrorf(format string, args ...any) error {
	return newError(ErrConfiguration, fmt.Sprintf(format, args...), nil)
}

func NewIntegrationError(message string, cause error) error {
	return newError(ErrIntegration, message, cause)
}

func NewTimeoutError(message string, cause error) error {
	return newError(ErrTimeout, message, cause)
}

func NewPolicyLookupError(message string) error {
	return newError(ErrPolicyLookup, message, nil)
}

func NewPolicyViolationError(message string) error {
	return newError(ErrPolicyViolation, message, nil)
}

func NewUnclassifiedError(cause error) error {
	return newError(ErrUnclassified, "unexpected failure", cause)
}
