// Package pipeline orchestrates the research, draft, fact-check and polish
// stages that turn a PRD into a blog post.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonathan/content-pipeline/internal/audit"
	"github.com/jonathan/content-pipeline/internal/llm"
	"github.com/jonathan/content-pipeline/internal/observability"
	"github.com/jonathan/content-pipeline/internal/pipeline/steps"
	"github.com/jonathan/content-pipeline/internal/prompts"
	"github.com/jonathan/content-pipeline/internal/types"
)

// DefaultMaxFactCheckAttempts is the number of fact-check passes before giving up
const DefaultMaxFactCheckAttempts = 2

// DefaultStageTimeout bounds a single generation call
const DefaultStageTimeout = 120 * time.Second

// Request is the input to one pipeline run
type Request struct {
	// RunID identifies the run in the audit log; a new one is generated when nil
	RunID      uuid.UUID
	PRD        string
	OnProgress ProgressCallback
}

// Pipeline runs the content stages against a generator and records each one
type Pipeline struct {
	client       llm.Generator
	recorder     audit.Recorder
	maxAttempts  int
	stageTimeout time.Duration
	logger       *slog.Logger
	tracer       trace.Tracer
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithMaxFactCheckAttempts sets the fact-check bound; values below 1 keep the default
func WithMaxFactCheckAttempts(n int) Option {
	return func(p *Pipeline) {
		if n >= 1 {
			p.maxAttempts = n
		}
	}
}

// WithStageTimeout sets the per-call deadline; zero disables it
func WithStageTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d >= 0 {
			p.stageTimeout = d
		}
	}
}

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithTracerProvider sets where stage spans are sent
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(p *Pipeline) {
		p.tracer = observability.Tracer(tp)
	}
}

// New creates a Pipeline. A nil recorder discards audit records.
func New(client llm.Generator, recorder audit.Recorder, opts ...Option) *Pipeline {
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	p := &Pipeline{
		client:       client,
		recorder:     recorder,
		maxAttempts:  DefaultMaxFactCheckAttempts,
		stageTimeout: DefaultStageTimeout,
		logger:       slog.Default(),
		tracer:       observability.Tracer(nil),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// run carries per-request state through the stages
type run struct {
	id         uuid.UUID
	logger     *slog.Logger
	onProgress ProgressCallback
	completed  []string
}

func (r *run) emit(def steps.StepDefinition, attempt int, message string, content any) {
	if r.onProgress == nil {
		return
	}
	r.onProgress(ProgressEvent{
		Step:     def.Name,
		Agent:    def.Agent,
		Category: def.Category,
		Message:  message,
		RunID:    r.id.String(),
		Attempt:  attempt,
		Content:  content,
	})
}

// Audit payloads. Field names are the keys stored in agent_logs.
type (
	researchInput struct {
		PRD string `json:"prd"`
	}
	writerInput struct {
		PRD      string                `json:"prd"`
		Research *types.ResearchResult `json:"research"`
	}
	writerOutput struct {
		Draft string `json:"draft"`
	}
	factCheckInput struct {
		Draft string `json:"draft"`
	}
	factCheckOutput struct {
		Result   string `json:"result"`
		Feedback string `json:"feedback,omitempty"`
	}
	revisionInput struct {
		PreviousDraft string `json:"previous_draft"`
		Feedback      string `json:"feedback"`
	}
	revisionOutput struct {
		RevisedDraft string `json:"revised_draft"`
	}
	polishInput struct {
		Draft string `json:"draft"`
	}
	polishOutput struct {
		FinalPost string `json:"final_post"`
	}
)

// Run executes every stage in order and returns the polished post.
// A failed generation call or unusable stage output aborts the run; no partial result is returned.
func (p *Pipeline) Run(ctx context.Context, req Request) (*types.FinalResult, error) {
	if strings.TrimSpace(req.PRD) == "" {
		return nil, ErrEmptyPRD
	}

	r := &run{
		id:         req.RunID,
		onProgress: req.OnProgress,
	}
	if r.id == uuid.Nil {
		r.id = uuid.New()
	}
	r.logger = p.logger.With("run_id", r.id.String())

	ctx, span := p.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String(observability.AttrRunID, r.id.String()),
	))
	defer span.End()

	start := time.Now()
	r.logger.Info("pipeline started", "prd_length", len(req.PRD))

	result, err := p.execute(ctx, r, req.PRD)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error("pipeline failed", "error", err, "duration", time.Since(start))
		return nil, err
	}

	span.SetAttributes(attribute.String(observability.AttrFactCheckStatus, result.FactCheckStatus.String()))
	r.logger.Info("pipeline completed",
		"fact_check_status", result.FactCheckStatus.String(),
		"duration", time.Since(start),
	)
	return result, nil
}

func (p *Pipeline) execute(ctx context.Context, r *run, prd string) (*types.FinalResult, error) {
	research, err := p.research(ctx, r, prd)
	if err != nil {
		return nil, fmt.Errorf("research stage failed: %w", err)
	}

	draft, err := p.draft(ctx, r, prd, research)
	if err != nil {
		return nil, fmt.Errorf("draft stage failed: %w", err)
	}

	draft, passed, err := p.factCheckLoop(ctx, r, research, draft)
	if err != nil {
		return nil, err
	}

	post, err := p.polish(ctx, r, draft)
	if err != nil {
		return nil, fmt.Errorf("polish stage failed: %w", err)
	}

	return &types.FinalResult{
		BlogPost:        post,
		FactCheckStatus: types.StatusFor(passed),
	}, nil
}

func (p *Pipeline) research(ctx context.Context, r *run, prd string) (*types.ResearchResult, error) {
	def := steps.MustGet(steps.StepResearch)

	resp, err := p.generate(ctx, r, def, 0, map[string]string{"PRD": prd})
	if err != nil {
		return nil, err
	}

	research, err := ParseResearch(resp)
	if err != nil {
		return nil, err
	}

	p.recorder.Record(ctx, r.id, def.Agent, researchInput{PRD: prd}, research)
	r.completed = append(r.completed, def.Name)
	r.emit(def, 0, fmt.Sprintf("Gathered %d research points", research.Len()), research)
	return research, nil
}

func (p *Pipeline) draft(ctx context.Context, r *run, prd string, research *types.ResearchResult) (string, error) {
	def := steps.MustGet(steps.StepDraft)

	resp, err := p.generate(ctx, r, def, 0, map[string]string{
		"PRD":           prd,
		"ResearchNotes": formatResearchNotes(research),
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(resp) == "" {
		return "", &MalformedResponseError{Stage: def.Name, Content: resp, Cause: errors.New("empty draft")}
	}

	p.recorder.Record(ctx, r.id, def.Agent, writerInput{PRD: prd, Research: research}, writerOutput{Draft: resp})
	r.completed = append(r.completed, def.Name)
	r.emit(def, 0, fmt.Sprintf("Wrote draft (%d words)", len(strings.Fields(resp))), resp)
	return resp, nil
}

// factCheckLoop verifies the draft up to maxAttempts times, revising after every failed attempt.
// It returns the latest draft and whether any attempt passed.
func (p *Pipeline) factCheckLoop(ctx context.Context, r *run, research *types.ResearchResult, draft string) (string, bool, error) {
	checkDef := steps.MustGet(steps.StepFactCheck)
	reviseDef := steps.MustGet(steps.StepRevision)
	notes := formatResearchNotes(research)

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		resp, err := p.generate(ctx, r, checkDef, attempt, map[string]string{
			"ResearchNotes": notes,
			"Draft":         draft,
		})
		if err != nil {
			return "", false, fmt.Errorf("fact-check stage failed on attempt %d: %w", attempt, err)
		}

		if IsPass(resp) {
			outcome := types.FactCheckPassed()
			p.recorder.Record(ctx, r.id, checkDef.Agent, factCheckInput{Draft: draft}, factCheckOutput{Result: outcome.Result()})
			r.completed = append(r.completed, checkDef.Name)
			r.emit(checkDef, attempt, "Fact check passed", outcome)
			return draft, true, nil
		}

		outcome := types.FactCheckFailed(resp)
		p.recorder.Record(ctx, r.id, checkDef.Agent, factCheckInput{Draft: draft},
			factCheckOutput{Result: outcome.Result(), Feedback: outcome.Feedback})
		r.completed = append(r.completed, checkDef.Name)
		r.emit(checkDef, attempt, fmt.Sprintf("Fact check failed (attempt %d of %d)", attempt, p.maxAttempts), outcome)

		revised, err := p.revise(ctx, r, reviseDef, attempt, draft, outcome.Feedback)
		if err != nil {
			return "", false, fmt.Errorf("revision stage failed on attempt %d: %w", attempt, err)
		}
		draft = revised
	}

	r.logger.Warn("fact check did not pass", "attempts", p.maxAttempts)
	return draft, false, nil
}

func (p *Pipeline) revise(ctx context.Context, r *run, def steps.StepDefinition, attempt int, previous, feedback string) (string, error) {
	resp, err := p.generate(ctx, r, def, attempt, map[string]string{
		"Draft":    previous,
		"Feedback": feedback,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(resp) == "" {
		return "", &MalformedResponseError{Stage: def.Name, Content: resp, Cause: errors.New("empty revision")}
	}

	p.recorder.Record(ctx, r.id, def.Agent,
		revisionInput{PreviousDraft: previous, Feedback: feedback},
		revisionOutput{RevisedDraft: resp})
	r.completed = append(r.completed, def.Name)
	r.emit(def, attempt, "Revised draft from fact-check feedback", resp)
	return resp, nil
}

func (p *Pipeline) polish(ctx context.Context, r *run, draft string) (string, error) {
	def := steps.MustGet(steps.StepPolish)

	resp, err := p.generate(ctx, r, def, 0, map[string]string{"Draft": draft})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(resp) == "" {
		return "", &MalformedResponseError{Stage: def.Name, Content: resp, Cause: errors.New("empty post")}
	}

	p.recorder.Record(ctx, r.id, def.Agent, polishInput{Draft: draft}, polishOutput{FinalPost: resp})
	r.completed = append(r.completed, def.Name)
	r.emit(def, 0, "Polished final post", resp)
	return resp, nil
}

// modelNamer is implemented by clients that can report the model behind a tier
type modelNamer interface {
	GetModel(tier llm.ModelTier) string
}

// generate renders the step's prompt and performs one bounded generation call inside a span
func (p *Pipeline) generate(ctx context.Context, r *run, def steps.StepDefinition, attempt int, data map[string]string) (string, error) {
	if err := steps.ValidateDependencies(def.Name, r.completed); err != nil {
		return "", err
	}

	prompt, err := prompts.Render(steps.PromptFile, def.PromptKey, data)
	if err != nil {
		return "", err
	}

	attrs := []attribute.KeyValue{
		attribute.String(observability.AttrStage, def.Name),
		attribute.String(observability.AttrAgent, def.Agent),
		attribute.String(observability.GenAIOperationName, "generate_content"),
		attribute.Int(observability.AttrPromptLength, len(prompt)),
	}
	if attempt > 0 {
		attrs = append(attrs, attribute.Int(observability.AttrAttempt, attempt))
	}
	if namer, ok := p.client.(modelNamer); ok {
		attrs = append(attrs, attribute.String(observability.GenAIRequestModel, namer.GetModel(def.Tier)))
	}

	ctx, span := p.tracer.Start(ctx, "pipeline."+def.Name, trace.WithAttributes(attrs...))
	defer span.End()

	callCtx := ctx
	if p.stageTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.stageTimeout)
		defer cancel()
	}

	logger := r.logger.With("stage", def.Name, "agent", def.Agent)
	logger.Debug("stage started", "tier", string(def.Tier), "attempt", attempt)

	start := time.Now()
	var resp string
	if def.JSON {
		resp, err = p.client.GenerateJSON(callCtx, prompt, def.Tier)
	} else {
		resp, err = p.client.GenerateContent(callCtx, prompt, def.Tier)
	}
	if err != nil {
		err = asTimeout(def, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("stage failed", "error", err, "duration", time.Since(start))
		return "", err
	}

	span.SetAttributes(attribute.Int(observability.AttrResponseLength, len(resp)))
	logger.Info("stage completed", "duration", time.Since(start), "response_length", len(resp))
	return resp, nil
}

// asTimeout makes sure a bare deadline error surfaces as an llm.TimeoutError
func asTimeout(def steps.StepDefinition, err error) error {
	var te *llm.TimeoutError
	if errors.As(err, &te) || !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &llm.TimeoutError{Operation: def.Agent + " call", Cause: err}
}
