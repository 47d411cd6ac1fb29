// Package audit records one structured entry per pipeline stage.
// Recording is fire-and-forget: failures are reported and never surface to the caller.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/content-pipeline/internal/db"
)

// DefaultLogTimeout bounds a single record write
const DefaultLogTimeout = 10 * time.Second

// Recorder receives one call per stage
type Recorder interface {
	Record(ctx context.Context, runID uuid.UUID, agent string, input, output any)
}

// Store is the persistence the StoreRecorder writes through
type Store interface {
	InsertAgentLog(ctx context.Context, input db.AgentLogInput) error
}

// StoreRecorder marshals stage payloads and appends them to a Store
type StoreRecorder struct {
	store   Store
	timeout time.Duration
	logger  *slog.Logger
	onError func(*LoggingError)
}

// Option configures a StoreRecorder
type Option func(*StoreRecorder)

// WithTimeout sets the per-write deadline; zero disables it
func WithTimeout(d time.Duration) Option {
	return func(r *StoreRecorder) { r.timeout = d }
}

// WithLogger sets the logger failures are reported to
func WithLogger(l *slog.Logger) Option {
	return func(r *StoreRecorder) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithErrorHook registers a callback invoked for every swallowed failure
func WithErrorHook(fn func(*LoggingError)) Option {
	return func(r *StoreRecorder) { r.onError = fn }
}

// NewStoreRecorder creates a recorder backed by store
func NewStoreRecorder(store Store, opts ...Option) *StoreRecorder {
	r := &StoreRecorder{
		store:   store,
		timeout: DefaultLogTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record persists one stage record. It never returns an error and never panics on store failure.
func (r *StoreRecorder) Record(ctx context.Context, runID uuid.UUID, agent string, input, output any) {
	if err := r.record(ctx, runID, agent, input, output); err != nil {
		logErr := &LoggingError{RunID: runID, Agent: agent, Cause: err}
		r.logger.Error("failed to record agent log",
			"run_id", runID.String(),
			"agent", agent,
			"error", logErr.Cause,
		)
		if r.onError != nil {
			r.onError(logErr)
		}
	}
}

func (r *StoreRecorder) record(ctx context.Context, runID uuid.UUID, agent string, input, output any) error {
	if r.store == nil {
		return fmt.Errorf("no store configured")
	}

	inputJSON, err := marshalPayload(input)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}
	outputJSON, err := marshalPayload(output)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	// The write gets its own deadline but outlives a cancelled request context,
	// so a stage that finished is still recorded.
	writeCtx := context.WithoutCancel(ctx)
	if r.timeout > 0 {
		var cancel context.CancelFunc
		writeCtx, cancel = context.WithTimeout(writeCtx, r.timeout)
		defer cancel()
	}

	return r.store.InsertAgentLog(writeCtx, db.AgentLogInput{
		RunID:      runID,
		Agent:      agent,
		InputData:  inputJSON,
		OutputData: outputJSON,
	})
}

func marshalPayload(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(v)
}

// NopRecorder discards every record
type NopRecorder struct{}

// Record does nothing
func (NopRecorder) Record(context.Context, uuid.UUID, string, any, any) {}
