package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/content-pipeline/internal/llm"
	"github.com/jonathan/content-pipeline/internal/pipeline"
)

// GenerateFailedMessage is the only failure detail returned to clients
const GenerateFailedMessage = "Failed to generate blog post."

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrStoreUnavailable indicates no audit store is configured
type ErrStoreUnavailable struct{}

func (e *ErrStoreUnavailable) Error() string {
	return "audit log store is not configured"
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Wrapped errors are unwrapped, so stage context added by the pipeline does not hide the cause.
func HTTPStatus(err error) int {
	var (
		validation  *ErrValidation
		unavailable *ErrStoreUnavailable
		generation  *llm.GenerationError
		malformed   *pipeline.MalformedResponseError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation), errors.Is(err, pipeline.ErrEmptyPRD):
		return http.StatusBadRequest
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case llm.IsTimeout(err):
		return http.StatusGatewayTimeout
	case errors.As(err, &generation), errors.As(err, &malformed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
