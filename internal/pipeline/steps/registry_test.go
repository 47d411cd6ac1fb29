package steps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/content-pipeline/internal/llm"
	"github.com/jonathan/content-pipeline/internal/prompts"
)

func TestStepRegistry(t *testing.T) {
	expected := map[string]string{
		StepResearch:  "Researcher",
		StepDraft:     "Writer",
		StepFactCheck: "Fact-Checker",
		StepRevision:  "Writer (Revision)",
		StepPolish:    "Style-Polisher",
	}

	require.Len(t, StepRegistry, len(expected))
	for stepName, agent := range expected {
		def, ok := StepRegistry[stepName]
		require.True(t, ok, "Step %s should be in registry", stepName)
		assert.Equal(t, stepName, def.Name)
		assert.Equal(t, agent, def.Agent)
		assert.NotEmpty(t, def.Category)
	}
}

func TestStepRegistry_Tiers(t *testing.T) {
	assert.Equal(t, llm.TierStandard, StepRegistry[StepResearch].Tier)
	assert.Equal(t, llm.TierAdvanced, StepRegistry[StepDraft].Tier)
	assert.Equal(t, llm.TierStandard, StepRegistry[StepFactCheck].Tier)
	assert.Equal(t, llm.TierAdvanced, StepRegistry[StepRevision].Tier)
	assert.Equal(t, llm.TierStandard, StepRegistry[StepPolish].Tier)

	assert.True(t, StepRegistry[StepResearch].JSON, "only research asks for JSON")
	assert.False(t, StepRegistry[StepDraft].JSON)
}

func TestStepRegistry_PromptsExist(t *testing.T) {
	for name, def := range StepRegistry {
		_, err := prompts.Get(PromptFile, def.PromptKey)
		assert.NoError(t, err, "prompt for step %s", name)
	}
}

func TestOrdered(t *testing.T) {
	var names []string
	for _, def := range Ordered() {
		names = append(names, def.Name)
	}
	assert.Equal(t, []string{StepResearch, StepDraft, StepFactCheck, StepPolish}, names)
}

func TestOrdered_DependenciesSatisfied(t *testing.T) {
	var completed []string
	for _, def := range Ordered() {
		assert.NoError(t, ValidateDependencies(def.Name, completed))
		completed = append(completed, def.Name)
	}
}

func TestGet(t *testing.T) {
	def, err := Get(StepPolish)
	require.NoError(t, err)
	assert.Equal(t, "polish", def.PromptKey)

	_, err = Get("unknown_step")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown step")

	assert.Panics(t, func() { MustGet("unknown_step") })
}

func TestDependencyError(t *testing.T) {
	err := &DependencyError{
		Step:                "test_step",
		MissingDependencies: []string{"dep1", "dep2"},
	}

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing dependencies")
	assert.Equal(t, "test_step", err.Step)
	assert.Equal(t, []string{"dep1", "dep2"}, err.MissingDependencies)
}

func TestValidateDependencies(t *testing.T) {
	err := ValidateDependencies(StepFactCheck, []string{StepResearch})
	require.Error(t, err)

	depErr, ok := err.(*DependencyError)
	require.True(t, ok)
	assert.Equal(t, []string{StepDraft}, depErr.MissingDependencies)

	assert.NoError(t, ValidateDependencies(StepResearch, nil))
}

func TestValidateDependencies_UnknownStep(t *testing.T) {
	err := ValidateDependencies("unknown_step", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown step")
}
