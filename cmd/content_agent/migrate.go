package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/content-pipeline/internal/db"
)

var printSchema bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the agent_logs table",
	Long:  "Apply the agent_logs schema to the configured database. The schema is idempotent.",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&printSchema, "print", false, "Print the schema SQL instead of applying it")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	if printSchema {
		_, err := fmt.Fprint(cmd.OutOrStdout(), db.SchemaSQL())
		return err
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

	if err := database.EnsureSchema(cmd.Context()); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	s.logger.Info("schema applied")
	return nil
}
