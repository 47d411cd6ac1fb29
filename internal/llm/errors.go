package llm

import (
	"context"
	"errors"
	"fmt"
)

// GenerationError means a generation call failed outright: transport, auth,
// non-success status, or a response with no decodable text.
type GenerationError struct {
	Provider Provider
	Model    string
	Message  string
	Cause    error
}

func (e *GenerationError) Error() string {
	prefix := "generation failed"
	if e.Provider != "" {
		prefix = fmt.Sprintf("%s generation failed", e.Provider)
	}
	if e.Model != "" {
		prefix = fmt.Sprintf("%s (model %s)", prefix, e.Model)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// TimeoutError means a call did not finish before its deadline
type TimeoutError struct {
	Operation string
	Cause     error
}

func (e *TimeoutError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s timed out: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("%s timed out", e.Operation)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// IsTimeout reports whether err or anything it wraps is a deadline expiry
func IsTimeout(err error) bool {
	var te *TimeoutError
	if errors.As(err, &te) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// wrapCallError classifies a provider error. Deadline expiry wins over the
// provider's own error text so callers can tell a hung call from a refused one.
func wrapCallError(ctx context.Context, provider Provider, model, message string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{
			Operation: fmt.Sprintf("%s call to %s", provider, model),
			Cause:     err,
		}
	}
	return &GenerationError{
		Provider: provider,
		Model:    model,
		Message:  message,
		Cause:    err,
	}
}
