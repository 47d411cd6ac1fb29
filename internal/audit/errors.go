package audit

import (
	"fmt"

	"github.com/google/uuid"
)

// LoggingError means a stage record could not be persisted
type LoggingError struct {
	RunID uuid.UUID
	Agent string
	Cause error
}

func (e *LoggingError) Error() string {
	return fmt.Sprintf("failed to record %s for run %s: %v", e.Agent, e.RunID, e.Cause)
}

func (e *LoggingError) Unwrap() error {
	return e.Cause
}
