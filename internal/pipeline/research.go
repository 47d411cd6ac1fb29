package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/content-pipeline/internal/llm"
	"github.com/jonathan/content-pipeline/internal/pipeline/steps"
	"github.com/jonathan/content-pipeline/internal/schemas"
	"github.com/jonathan/content-pipeline/internal/types"
)

// ParseResearch turns a Researcher response into a ResearchResult.
// The text may be wrapped in a markdown fence or surrounded by prose; the
// extracted JSON must match research_result.schema.json.
func ParseResearch(text string) (*types.ResearchResult, error) {
	cleaned := llm.CleanJSONBlock(text)
	if cleaned == "" {
		return nil, &MalformedResponseError{Stage: steps.StepResearch, Content: text, Cause: fmt.Errorf("empty response")}
	}

	if err := schemas.ValidateResearch(cleaned); err != nil {
		return nil, &MalformedResponseError{Stage: steps.StepResearch, Content: text, Cause: err}
	}

	var result types.ResearchResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, &MalformedResponseError{Stage: steps.StepResearch, Content: text, Cause: err}
	}

	for i, p := range result.ResearchPoints {
		result.ResearchPoints[i] = strings.TrimSpace(p)
	}

	return &result, nil
}

// IsPass reports whether a Fact-Checker reply is the single word PASS, ignoring case and surrounding whitespace
func IsPass(response string) bool {
	return strings.ToUpper(strings.TrimSpace(response)) == "PASS"
}

// formatResearchNotes renders research points the way prompts embed them
func formatResearchNotes(research *types.ResearchResult) string {
	points := []string{}
	if research != nil && research.ResearchPoints != nil {
		points = research.ResearchPoints
	}
	data, err := json.Marshal(points)
	if err != nil {
		return "[]"
	}
	return string(data)
}
