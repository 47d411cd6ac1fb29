package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/content-pipeline/internal/ingestion"
	"github.com/jonathan/content-pipeline/internal/observability"
	"github.com/jonathan/content-pipeline/internal/pipeline"
	"github.com/jonathan/content-pipeline/internal/pipeline/steps"
	"github.com/jonathan/content-pipeline/internal/rendering"
	"github.com/jonathan/content-pipeline/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the pipeline once and print the blog post",
	Long: "Run research, draft, fact-check and polish for one PRD. The PRD comes from --prd, --prd-file or --prd-url. " +
		"Prints the result as JSON, or a standalone HTML page with --html.",
	RunE: runGenerate,
}

var (
	prdText      string
	prdFile      string
	prdURL       string
	useBrowser   bool
	htmlOutput   bool
	verbose      bool
	pageTitle    string
	fetchTimeout time.Duration
)

func init() {
	generateCmd.Flags().StringVar(&prdText, "prd", "", "PRD text")
	generateCmd.Flags().StringVarP(&prdFile, "prd-file", "f", "", "Path to a text or Markdown PRD")
	generateCmd.Flags().StringVarP(&prdURL, "prd-url", "u", "", "URL of a published PRD")
	generateCmd.Flags().BoolVar(&useBrowser, "browser", false, "Render --prd-url with headless Chrome when the page has little static text")
	generateCmd.Flags().DurationVar(&fetchTimeout, "fetch-timeout", 30*time.Second, "Timeout for fetching --prd-url")
	generateCmd.Flags().BoolVar(&htmlOutput, "html", false, "Print the post as a standalone HTML page")
	generateCmd.Flags().StringVar(&pageTitle, "title", "Blog Post", "HTML page title when the post has no heading")
	generateCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print each stage to stderr")

	generateCmd.MarkFlagsMutuallyExclusive("prd", "prd-file", "prd-url")
	generateCmd.MarkFlagsOneRequired("prd", "prd-file", "prd-url")

	rootCmd.AddCommand(generateCmd)
}

// generateOutput is the JSON printed by generate
type generateOutput struct {
	RunID string `json:"runId"`
	types.FinalResult
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	doc, err := loadPRD(ctx, s)
	if err != nil {
		return err
	}

	client, err := newClient(ctx, s.cfg)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close() //nolint:errcheck

	store, err := openStore(ctx, s)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	tp, shutdownTracing := newTracerProvider(s)
	defer shutdownTracing()

	p := newPipeline(s, client, newRecorder(s, store), tp)

	runID := uuid.New()
	s.logger.Info("starting run", "run_id", runID.String(), "prd_hash", doc.Metadata.Hash)

	req := pipeline.Request{RunID: runID, PRD: doc.Text}
	var printer *observability.Printer
	if verbose {
		printer = observability.NewPrinter(cmd.ErrOrStderr())
		req.OnProgress = progressPrinter(printer)
	}

	result, err := p.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("run %s failed: %w", runID, err)
	}
	if printer != nil {
		printer.PrintFinal(result)
	}

	return writeResult(cmd.OutOrStdout(), runID, result)
}

// loadPRD reads the PRD from whichever source flag was given
func loadPRD(ctx context.Context, s *settings) (*ingestion.Document, error) {
	switch {
	case prdFile != "":
		doc, err := ingestion.FromFile(prdFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read PRD: %w", err)
		}
		return doc, nil
	case prdURL != "":
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		doc, err := ingestion.FromURL(ctx, prdURL, ingestion.URLOptions{
			UseBrowser: useBrowser,
			Logger:     s.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch PRD: %w", err)
		}
		return doc, nil
	default:
		doc, err := ingestion.FromText(prdText, "")
		if err != nil {
			return nil, fmt.Errorf("invalid PRD: %w", err)
		}
		return doc, nil
	}
}

// progressPrinter renders stage events in verbose mode
func progressPrinter(printer *observability.Printer) pipeline.ProgressCallback {
	return func(event pipeline.ProgressEvent) {
		switch event.Step {
		case steps.StepResearch:
			if research, ok := event.Content.(*types.ResearchResult); ok {
				printer.PrintResearch(research)
			}
		case steps.StepFactCheck:
			if outcome, ok := event.Content.(types.FactCheckOutcome); ok {
				printer.PrintFactCheck(event.Attempt, outcome)
			}
		case steps.StepDraft:
			if draft, ok := event.Content.(string); ok {
				printer.PrintDraft("DRAFT", draft)
			}
		case steps.StepRevision:
			if draft, ok := event.Content.(string); ok {
				printer.PrintDraft(fmt.Sprintf("REVISION %d", event.Attempt), draft)
			}
		case steps.StepPolish:
			if post, ok := event.Content.(string); ok {
				printer.PrintDraft("POLISHED", post)
			}
		}
	}
}

func writeResult(w io.Writer, runID uuid.UUID, result *types.FinalResult) error {
	if htmlOutput {
		page, err := rendering.RenderPage(result.BlogPost, pageTitle)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, page)
		return err
	}

	return writeJSON(w, generateOutput{RunID: runID.String(), FinalResult: *result})
}
