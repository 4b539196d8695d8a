package core

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes provider and pipeline errors.
type ErrorCode string

const (
	ErrRateLimited   ErrorCode = "rate_limited"
	ErrBadRequest    ErrorCode = "bad_request"
	ErrTransient     ErrorCode = "transient"
	ErrProviderError ErrorCode = "provider_error"
	ErrTimeout       ErrorCode = "timeout"
	ErrCanceled      ErrorCode = "canceled"
	ErrNotConfigured ErrorCode = "not_configured"
	ErrInternal      ErrorCode = "internal"
)

// AIError carries a code and HTTP status alongside the message so callers can
// decide between retry, fallback, and give-up without string matching.
type AIError struct {
	Code      ErrorCode
	Message   string
	Status    int
	Retryable bool
	wrapped   error
}

func (e *AIError) Error() string {
	if e == nil {
		return ""
	}
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.wrapped)
	}
	return e.Message
}

func (e *AIError) Unwrap() error { return e.wrapped }

// WrapError attaches a code to an arbitrary error. Existing AIErrors pass
// through unchanged.
func WrapError(err error, code ErrorCode) *AIError {
	if err == nil {
		return nil
	}
	var ai *AIError
	if errors.As(err, &ai) {
		return ai
	}
	return &AIError{Code: code, Message: err.Error(), wrapped: err}
}

// NewError builds an AIError explicitly.
func NewError(code ErrorCode, message string, opts ...ErrorOption) *AIError {
	e := &AIError{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ErrorOption mutates an AIError during construction.
type ErrorOption func(*AIError)

// WithStatus sets the HTTP status code.
func WithStatus(status int) ErrorOption {
	return func(e *AIError) { e.Status = status }
}

// WithRetryable marks whether retry or fallback is recommended.
func WithRetryable(retryable bool) ErrorOption {
	return func(e *AIError) { e.Retryable = retryable }
}

// WithWrapped attaches an underlying error.
func WithWrapped(err error) ErrorOption {
	return func(e *AIError) { e.wrapped = err }
}

func classify(code ErrorCode) func(error) bool {
	return func(err error) bool {
		if err == nil {
			return false
		}
		var ai *AIError
		if errors.As(err, &ai) {
			return ai.Code == code
		}
		return false
	}
}

// Helper predicates for common error handling patterns.
var (
	IsRateLimited   = classify(ErrRateLimited)
	IsBadRequest    = classify(ErrBadRequest)
	IsTransient     = classify(ErrTransient)
	IsTimeout       = classify(ErrTimeout)
	IsCanceled      = classify(ErrCanceled)
	IsNotConfigured = classify(ErrNotConfigured)
)

// IsRetryable reports whether an error is worth retrying or falling back on.
// Missing configuration counts: the next provider in a chain may be set up.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var ai *AIError
	if errors.As(err, &ai) {
		if ai.Retryable {
			return true
		}
		switch ai.Code {
		case ErrRateLimited, ErrTransient, ErrTimeout, ErrNotConfigured, ErrProviderError:
			return true
		}
	}
	return false
}
