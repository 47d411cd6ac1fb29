package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonathan/content-pipeline/internal/audit"
	"github.com/jonathan/content-pipeline/internal/config"
	"github.com/jonathan/content-pipeline/internal/db"
	"github.com/jonathan/content-pipeline/internal/llm"
	"github.com/jonathan/content-pipeline/internal/observability"
	"github.com/jonathan/content-pipeline/internal/pipeline"
)

// settings is the loaded configuration plus the logger built from it
type settings struct {
	cfg    *config.Config
	logger *slog.Logger
}

// loadSettings reads config, applies the global flag overrides and builds the logger
func loadSettings(cmd *cobra.Command) (*settings, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return &settings{cfg: cfg, logger: logger}, nil
}

// newClient builds the provider client; tests replace it
var newClient = func(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	return llm.NewClient(ctx, cfg.ClientConfig(), cfg.LLM.APIKey)
}

// openStore connects to the audit database. Without a configured URL it returns nil and a nil error.
func openStore(ctx context.Context, s *settings) (*db.DB, error) {
	if !s.cfg.HasDatabase() {
		s.logger.Warn("DATABASE_URL not set; agent logs will not be persisted")
		return nil, nil
	}

	database, err := db.Connect(ctx, s.cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if s.cfg.Database.AutoMigrate {
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return database, nil
}

// newRecorder returns a store-backed recorder, or a no-op one when store is nil
func newRecorder(s *settings, store *db.DB) audit.Recorder {
	if store == nil {
		return audit.NopRecorder{}
	}
	return audit.NewStoreRecorder(store,
		audit.WithTimeout(s.cfg.Pipeline.LogTimeout),
		audit.WithLogger(s.logger),
	)
}

// newTracerProvider returns a span-logging provider when --trace is set, otherwise nil.
// The returned shutdown func is always safe to call.
func newTracerProvider(s *settings) (trace.TracerProvider, func()) {
	if !traceSpans {
		return nil, func() {}
	}
	tp := observability.NewLoggingTracerProvider(s.logger, slog.LevelDebug)
	return tp, func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			s.logger.Warn("failed to shut down tracer provider", "error", err)
		}
	}
}

func newPipeline(s *settings, client llm.Generator, recorder audit.Recorder, tp trace.TracerProvider) *pipeline.Pipeline {
	opts := []pipeline.Option{
		pipeline.WithMaxFactCheckAttempts(s.cfg.Pipeline.MaxFactCheckAttempts),
		pipeline.WithStageTimeout(s.cfg.Pipeline.StageTimeout),
		pipeline.WithLogger(s.logger),
	}
	if tp != nil {
		opts = append(opts, pipeline.WithTracerProvider(tp))
	}
	return pipeline.New(client, recorder, opts...)
}
