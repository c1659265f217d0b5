// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Generation errors.
	ErrInvalidBIN      = errors.New("invalid BIN")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrNoCards         = errors.New("no cards generated")

	// API errors.
	ErrServerBusy     = errors.New("generation server busy")
	ErrRateLimit      = errors.New("rate limit exceeded")
	ErrRequestFailed  = errors.New("generation request failed")
	ErrRequestTimeout = errors.New("generation request timed out")
	ErrUnreachable    = errors.New("generation API unreachable")
	ErrBadResponse    = errors.New("malformed generation response")

	// Clipboard errors.
	ErrNothingToCopy = errors.New("nothing to copy")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// UserMessage returns the message meant for the user, falling back to the
// error text when err carries none.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	return err.Error()
}

// IsRetryable reports whether err may succeed on another attempt. An explicit
// RetryableError mark wins; otherwise only server-busy and rate-limit errors
// are retried.
func IsRetryable(err error) bool {
	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	// Cancellation is the caller giving up, not a transient failure.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	return errors.Is(err, ErrRateLimit) || errors.Is(err, ErrServerBusy)
}
