package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AgentLog is one persisted stage record
type AgentLog struct {
	ID         uuid.UUID       `json:"id"`
	RunID      uuid.UUID       `json:"run_id"`
	Agent      string          `json:"agent"`
	InputData  json.RawMessage `json:"input_data,omitempty"`
	OutputData json.RawMessage `json:"output_data,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// AgentLogInput holds the fields a caller supplies; id and created_at are assigned by the store
type AgentLogInput struct {
	RunID      uuid.UUID
	Agent      string
	InputData  json.RawMessage
	OutputData json.RawMessage
}

// RunSummary is a lightweight view of a run derived from its log records
type RunSummary struct {
	RunID     uuid.UUID `json:"run_id"`
	Records   int       `json:"records"`
	LastAgent string    `json:"last_agent"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	// DefaultRunLimit is used by ListRecentRuns when limit is not positive
	DefaultRunLimit = 50
	// MaxRunLimit caps how many runs ListRecentRuns returns
	MaxRunLimit = 100
)
