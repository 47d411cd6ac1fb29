// Package main provides the entry point for the content pipeline CLI and HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	logFormat  string
	traceSpans bool
)

var rootCmd = &cobra.Command{
	Use:   "content_agent",
	Short: "PRD to blog post content pipeline",
	Long: "content_agent turns a product requirements document into a blog post: a researcher gathers facts, " +
		"a writer drafts, a fact-checker verifies against the research with bounded revisions, and a style polisher finishes. " +
		"Every stage is recorded in the agent_logs table.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: content_agent.yaml in . or ./config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&traceSpans, "trace", false, "Log pipeline spans at debug level")
}

// envFiles are loaded in order; variables already set are never overridden
var envFiles = []string{".env.local", ".env"}

func loadEnvFiles() {
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}
}

func main() {
	loadEnvFiles()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
