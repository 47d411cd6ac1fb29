package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/content-pipeline/internal/server"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and MCP server",
	Long:  `Start an HTTP server exposing /api/generate, its SSE variant, run log lookups, and an MCP endpoint at /mcp.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		s.cfg.Server.Port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := newClient(ctx, s.cfg)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close() //nolint:errcheck

	store, err := openStore(ctx, s)
	if err != nil {
		return err
	}
	var logs server.LogStore
	if store != nil {
		defer store.Close()
		logs = store
	}

	tp, shutdownTracing := newTracerProvider(s)
	defer shutdownTracing()

	p := newPipeline(s, client, newRecorder(s, store), tp)

	srv := server.New(server.Config{
		Port:         s.cfg.Server.Port,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		RunTimeout:   s.cfg.Pipeline.RunBudget(),
		Logger:       s.logger,
	}, p, logs)

	return srv.Start(ctx)
}
