package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// InsertAgentLog appends a stage record
func (db *DB) InsertAgentLog(ctx context.Context, input AgentLogInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO agent_logs (run_id, agent, input_data, output_data)
		 VALUES ($1, $2, $3, $4)`,
		input.RunID, input.Agent, nullableJSON(input.InputData), nullableJSON(input.OutputData),
	)
	if err != nil {
		return fmt.Errorf("failed to insert agent log for %s: %w", input.Agent, err)
	}
	return nil
}

// ListAgentLogs retrieves every record of a run in insertion order
func (db *DB) ListAgentLogs(ctx context.Context, runID uuid.UUID) ([]AgentLog, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, run_id, agent, input_data, output_data, created_at
		 FROM agent_logs WHERE run_id = $1
		 ORDER BY created_at ASC, seq ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list agent logs: %w", err)
	}
	defer rows.Close()

	var logs []AgentLog
	for rows.Next() {
		var l AgentLog
		var input, output []byte
		if err := rows.Scan(&l.ID, &l.RunID, &l.Agent, &input, &output, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan agent log: %w", err)
		}
		l.InputData = input
		l.OutputData = output
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate agent logs: %w", err)
	}
	return logs, nil
}

// ListRecentRuns summarizes the most recently active runs
func (db *DB) ListRecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	limit = ClampRunLimit(limit)

	rows, err := db.pool.Query(ctx,
		`SELECT run_id,
		        COUNT(*),
		        (ARRAY_AGG(agent ORDER BY created_at DESC, seq DESC))[1],
		        MIN(created_at),
		        MAX(created_at)
		 FROM agent_logs
		 GROUP BY run_id
		 ORDER BY MAX(created_at) DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.Records, &r.LastAgent, &r.StartedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

// ClampRunLimit maps a requested run count into [1, MaxRunLimit],
// using DefaultRunLimit when limit is not positive.
func ClampRunLimit(limit int) int {
	if limit <= 0 {
		return DefaultRunLimit
	}
	return min(limit, MaxRunLimit)
}

// Validate checks the fields the table requires
func (in AgentLogInput) Validate() error {
	if in.RunID == uuid.Nil {
		return fmt.Errorf("agent log requires a run ID")
	}
	if in.Agent == "" {
		return fmt.Errorf("agent log requires an agent name")
	}
	return nil
}

// nullableJSON maps an empty payload to SQL NULL
func nullableJSON(data []byte) any {
	if len(data) == 0 {
		return nil
	}
	return string(data)
}
