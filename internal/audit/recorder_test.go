package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/content-pipeline/internal/db"
)

type fakeStore struct {
	mu      sync.Mutex
	records []db.AgentLogInput
	err     error
	block   bool
}

func (s *fakeStore) InsertAgentLog(ctx context.Context, input db.AgentLogInput) error {
	if s.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, input)
	return nil
}

func TestStoreRecorder_Record(t *testing.T) {
	store := &fakeStore{}
	rec := NewStoreRecorder(store)
	runID := uuid.New()

	rec.Record(context.Background(), runID, "Writer",
		map[string]any{"prd": "p", "research": map[string]any{"research_points": []string{"a"}}},
		map[string]string{"draft": "d"},
	)

	require.Len(t, store.records, 1)
	got := store.records[0]
	assert.Equal(t, runID, got.RunID)
	assert.Equal(t, "Writer", got.Agent)
	assert.JSONEq(t, `{"prd":"p","research":{"research_points":["a"]}}`, string(got.InputData))
	assert.JSONEq(t, `{"draft":"d"}`, string(got.OutputData))
}

func TestStoreRecorder_RawAndNilPayloads(t *testing.T) {
	store := &fakeStore{}
	rec := NewStoreRecorder(store)

	rec.Record(context.Background(), uuid.New(), "Researcher", json.RawMessage(`{"prd":"x"}`), nil)

	require.Len(t, store.records, 1)
	assert.Equal(t, `{"prd":"x"}`, string(store.records[0].InputData))
	assert.Nil(t, store.records[0].OutputData)
}

func TestStoreRecorder_SwallowsStoreError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	var hooked []*LoggingError
	store := &fakeStore{err: errors.New("connection refused")}
	rec := NewStoreRecorder(store, WithLogger(logger), WithErrorHook(func(e *LoggingError) {
		hooked = append(hooked, e)
	}))
	runID := uuid.New()

	assert.NotPanics(t, func() {
		rec.Record(context.Background(), runID, "Fact-Checker", map[string]string{"draft": "d"}, map[string]string{"result": "PASS"})
	})

	require.Len(t, hooked, 1)
	assert.Equal(t, runID, hooked[0].RunID)
	assert.Equal(t, "Fact-Checker", hooked[0].Agent)
	assert.ErrorContains(t, hooked[0], "connection refused")
	assert.Contains(t, buf.String(), "failed to record agent log")
	assert.Contains(t, buf.String(), runID.String())
}

func TestStoreRecorder_MarshalError(t *testing.T) {
	var hooked *LoggingError
	store := &fakeStore{}
	rec := NewStoreRecorder(store, WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
		WithErrorHook(func(e *LoggingError) { hooked = e }))

	rec.Record(context.Background(), uuid.New(), "Writer", map[string]any{"bad": make(chan int)}, nil)

	assert.Empty(t, store.records)
	require.NotNil(t, hooked)
	assert.Contains(t, hooked.Error(), "failed to marshal input")
}

func TestStoreRecorder_Timeout(t *testing.T) {
	var hooked *LoggingError
	store := &fakeStore{block: true}
	rec := NewStoreRecorder(store,
		WithTimeout(20*time.Millisecond),
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
		WithErrorHook(func(e *LoggingError) { hooked = e }))

	start := time.Now()
	rec.Record(context.Background(), uuid.New(), "Style-Polisher", nil, nil)

	assert.Less(t, time.Since(start), 2*time.Second)
	require.NotNil(t, hooked)
	assert.ErrorIs(t, hooked, context.DeadlineExceeded)
}

func TestStoreRecorder_CancelledContextStillRecords(t *testing.T) {
	store := &fakeStore{}
	rec := NewStoreRecorder(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec.Record(ctx, uuid.New(), "Researcher", map[string]string{"prd": "p"}, nil)

	assert.Len(t, store.records, 1)
}

func TestStoreRecorder_NilStore(t *testing.T) {
	var hooked *LoggingError
	rec := NewStoreRecorder(nil,
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
		WithErrorHook(func(e *LoggingError) { hooked = e }))

	rec.Record(context.Background(), uuid.New(), "Writer", nil, nil)
	require.NotNil(t, hooked)
	assert.Contains(t, hooked.Error(), "no store configured")
}

func TestNopRecorder(t *testing.T) {
	var rec Recorder = NopRecorder{}
	assert.NotPanics(t, func() {
		rec.Record(context.Background(), uuid.New(), "Writer", nil, nil)
	})
}

func TestLoggingError(t *testing.T) {
	cause := errors.New("boom")
	runID := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	err := &LoggingError{RunID: runID, Agent: "Writer", Cause: cause}

	assert.Equal(t, "failed to record Writer for run 11111111-2222-3333-4444-555555555555: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}
