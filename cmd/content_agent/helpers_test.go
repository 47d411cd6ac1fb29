package main

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jonathan/content-pipeline/internal/config"
	"github.com/jonathan/content-pipeline/internal/llm"
)

// fakeClient replays scripted replies in call order
type fakeClient struct {
	mu      sync.Mutex
	replies []string
	calls   int
	models  []llm.ModelInfo
	listErr error
	closed  bool
}

func (c *fakeClient) next() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls >= len(c.replies) {
		return "", errors.New("unexpected generation call")
	}
	r := c.replies[c.calls]
	c.calls++
	return r, nil
}

func (c *fakeClient) GenerateContent(context.Context, string, llm.ModelTier) (string, error) {
	return c.next()
}

func (c *fakeClient) GenerateJSON(context.Context, string, llm.ModelTier) (string, error) {
	return c.next()
}

func (c *fakeClient) ListModels(context.Context) ([]llm.ModelInfo, error) {
	return c.models, c.listErr
}

func (c *fakeClient) GetModel(tier llm.ModelTier) string { return "fake-" + string(tier) }

func (c *fakeClient) Close() error {
	c.closed = true
	return nil
}

// useFakeClient swaps the provider constructor for the duration of the test
func useFakeClient(t *testing.T, client *fakeClient) {
	t.Helper()
	orig := newClient
	newClient = func(context.Context, *config.Config) (llm.Client, error) {
		return client, nil
	}
	t.Cleanup(func() { newClient = orig })
}

// isolateEnv runs the test in an empty directory without provider or database settings
func isolateEnv(t *testing.T) string {
	t.Helper()
	for _, name := range []string{
		"GEMINI_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY",
		"LLM_PROVIDER", "LLM_BASE_URL", "DATABASE_URL", "PORT",
	} {
		t.Setenv(name, "")
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and returns stdout and stderr
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		resetFlags(rootCmd)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}
