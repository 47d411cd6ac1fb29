package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/content-pipeline/internal/db"
)

var runsLimit int

var logsCmd = &cobra.Command{
	Use:   "logs [RUN_ID]",
	Short: "Print the recorded stage logs of a run",
	Long:  "Print every agent_logs record of RUN_ID in order. Without RUN_ID, list the most recent runs.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogs,
}

func init() {
	logsCmd.Flags().IntVar(&runsLimit, "limit", db.DefaultRunLimit, "Number of runs to list when no RUN_ID is given (at most 100)")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	var runID uuid.UUID
	if len(args) == 1 {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid run ID %q: %w", args[0], err)
		}
		runID = id
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if !s.cfg.HasDatabase() {
		return fmt.Errorf("DATABASE_URL is required")
	}

	database, err := db.Connect(cmd.Context(), s.cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if runID == uuid.Nil {
		runs, err := database.ListRecentRuns(cmd.Context(), runsLimit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		return writeJSON(cmd.OutOrStdout(), runs)
	}

	logs, err := database.ListAgentLogs(cmd.Context(), runID)
	if err != nil {
		return fmt.Errorf("failed to list agent logs: %w", err)
	}
	if len(logs) == 0 {
		return fmt.Errorf("no agent logs recorded for run %s", runID)
	}
	return writeJSON(cmd.OutOrStdout(), logs)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
