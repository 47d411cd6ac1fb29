package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/content-pipeline/internal/llm"
)

var listAll bool

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List the models your API key can use for content generation",
	Long:  "Query the configured provider and print every model that supports content generation. Use it to diagnose API key or project setup problems.",
	RunE:  runListModels,
}

func init() {
	listModelsCmd.Flags().BoolVar(&listAll, "all", false, "Include models that do not support content generation")
	rootCmd.AddCommand(listModelsCmd)
}

func runListModels(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	provider := llm.Provider(s.cfg.LLM.Provider)

	client, err := newClient(cmd.Context(), s.cfg)
	if err != nil {
		printSetupHints(out, provider)
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close() //nolint:errcheck

	fmt.Fprintf(out, "Listing %s models available to your API key...\n", provider) //nolint:errcheck
	models, err := client.ListModels(cmd.Context())
	if err != nil {
		printSetupHints(out, provider)
		return fmt.Errorf("failed to list models: %w", err)
	}

	writeModels(out, models, listAll)
	return nil
}

// writeModels prints one line per model; unsupported models are skipped unless all is set
//
//nolint:errcheck // writing to stdout
func writeModels(w io.Writer, models []llm.ModelInfo, all bool) {
	shown := 0
	for _, m := range models {
		if !m.SupportsGenerate && !all {
			continue
		}
		shown++
		if m.DisplayName != "" {
			fmt.Fprintf(w, "- %s (Display Name: %s)\n", m.Name, m.DisplayName)
		} else {
			fmt.Fprintf(w, "- %s\n", m.Name)
		}
	}
	if shown == 0 {
		fmt.Fprintln(w, "No models support content generation for this key.")
		return
	}
	fmt.Fprintln(w, "\nSet llm.models.lite, llm.models.standard or llm.models.advanced in content_agent.yaml to use one of these models.")
}

// printSetupHints explains the usual causes of a listing failure
//
//nolint:errcheck // writing to stdout
func printSetupHints(w io.Writer, provider llm.Provider) {
	fmt.Fprintln(w, "\nThis usually means a problem with the API key or project setup. Check the following:")
	switch provider {
	case llm.ProviderOpenAI:
		fmt.Fprintln(w, "1. OPENAI_API_KEY is set and the key is active.")
		fmt.Fprintln(w, "2. LLM_BASE_URL, if set, points at a server speaking the OpenAI API.")
	default:
		fmt.Fprintln(w, "1. GEMINI_API_KEY or GOOGLE_API_KEY is set (in the environment, .env.local or .env).")
		fmt.Fprintln(w, "2. The Generative Language API is enabled for the key's Google Cloud project.")
		fmt.Fprintln(w, "3. Billing is enabled for the project (listing models is free).")
	}
}
