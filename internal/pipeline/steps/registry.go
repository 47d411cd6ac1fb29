// Package steps provides stage definitions and dependency validation
// for the content pipeline.
package steps

import (
	"fmt"
	"slices"

	"github.com/jonathan/content-pipeline/internal/llm"
)

// Step names
const (
	StepResearch  = "research"
	StepDraft     = "draft"
	StepFactCheck = "fact_check"
	StepRevision  = "revision"
	StepPolish    = "polish"
)

// Agent names recorded in the audit log
const (
	AgentResearcher    = "Researcher"
	AgentWriter        = "Writer"
	AgentFactChecker   = "Fact-Checker"
	AgentReviser       = "Writer (Revision)"
	AgentStylePolisher = "Style-Polisher"
)

// Step categories
const (
	CategoryResearch = "research"
	CategoryWriting  = "writing"
	CategoryReview   = "review"
	CategoryEditing  = "editing"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Agent        string
	Category     string
	Tier         llm.ModelTier
	PromptKey    string
	JSON         bool
	Dependencies []string
}

// PromptFile is the prompt template file every step reads from
const PromptFile = "pipeline.json"

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	StepResearch: {
		Name:         StepResearch,
		Agent:        AgentResearcher,
		Category:     CategoryResearch,
		Tier:         llm.TierStandard,
		PromptKey:    "research",
		JSON:         true,
		Dependencies: []string{},
	},
	StepDraft: {
		Name:         StepDraft,
		Agent:        AgentWriter,
		Category:     CategoryWriting,
		Tier:         llm.TierAdvanced,
		PromptKey:    "draft",
		Dependencies: []string{StepResearch},
	},
	StepFactCheck: {
		Name:         StepFactCheck,
		Agent:        AgentFactChecker,
		Category:     CategoryReview,
		Tier:         llm.TierStandard,
		PromptKey:    "fact-check",
		Dependencies: []string{StepResearch, StepDraft},
	},
	StepRevision: {
		Name:         StepRevision,
		Agent:        AgentReviser,
		Category:     CategoryWriting,
		Tier:         llm.TierAdvanced,
		PromptKey:    "revision",
		Dependencies: []string{StepDraft, StepFactCheck},
	},
	StepPolish: {
		Name:         StepPolish,
		Agent:        AgentStylePolisher,
		Category:     CategoryEditing,
		Tier:         llm.TierStandard,
		PromptKey:    "polish",
		Dependencies: []string{StepDraft},
	},
}

// mainSequence is the fixed stage order; revision only runs inside the fact-check loop
var mainSequence = []string{StepResearch, StepDraft, StepFactCheck, StepPolish}

// Ordered returns the main stage sequence in execution order
func Ordered() []StepDefinition {
	defs := make([]StepDefinition, 0, len(mainSequence))
	for _, name := range mainSequence {
		defs = append(defs, StepRegistry[name])
	}
	return defs
}

// Get returns the definition for a step
func Get(name string) (StepDefinition, error) {
	def, ok := StepRegistry[name]
	if !ok {
		return StepDefinition{}, fmt.Errorf("unknown step: %s", name)
	}
	return def, nil
}

// MustGet returns the definition for a step, panicking on unknown names
func MustGet(name string) StepDefinition {
	def, err := Get(name)
	if err != nil {
		panic(err)
	}
	return def
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s: missing dependencies: %v", e.Step, e.MissingDependencies)
}

// ValidateDependencies checks that every dependency of stepName is in completed
func ValidateDependencies(stepName string, completed []string) error {
	def, err := Get(stepName)
	if err != nil {
		return err
	}

	var missing []string
	for _, dep := range def.Dependencies {
		if !slices.Contains(completed, dep) {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Step:                stepName,
			MissingDependencies: missing,
		}
	}

	return nil
}
