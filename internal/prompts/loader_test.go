package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("pipeline.json", "research")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "research_points")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("pipeline.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	result := Format(template, data)
	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", result)
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"
	data := map[string]string{"Key": "Value"}

	result := Format(template, data)
	assert.Equal(t, template, result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	data := map[string]string{}

	result := Format(template, data)
	assert.Equal(t, template, result) // Placeholder remains
}

func TestFormat_SinglePass(t *testing.T) {
	template := "Draft: {{.Draft}} / Feedback: {{.Feedback}}"
	data := map[string]string{
		"Draft":    "mentions {{.Feedback}} literally",
		"Feedback": "fix the stats",
	}

	result := Format(template, data)
	assert.Equal(t, "Draft: mentions {{.Feedback}} literally / Feedback: fix the stats", result)
}

func TestPipelinePrompts_Placeholders(t *testing.T) {
	ClearCache()

	tests := []struct {
		key          string
		placeholders []string
	}{
		{"research", []string{"{{.PRD}}"}},
		{"draft", []string{"{{.PRD}}", "{{.ResearchNotes}}"}},
		{"fact-check", []string{"{{.ResearchNotes}}", "{{.Draft}}"}},
		{"revision", []string{"{{.Draft}}", "{{.Feedback}}"}},
		{"polish", []string{"{{.Draft}}"}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			prompt, err := Get("pipeline.json", tt.key)
			require.NoError(t, err)
			for _, p := range tt.placeholders {
				assert.Contains(t, prompt, p)
			}
		})
	}
}

func TestFactCheckPrompt_AsksForPass(t *testing.T) {
	prompt, err := Get("pipeline.json", "fact-check")
	require.NoError(t, err)
	assert.Contains(t, prompt, "'PASS'")
}

func TestKeys(t *testing.T) {
	ClearCache()

	keys, err := Keys("pipeline.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"draft", "fact-check", "polish", "research", "revision"}, keys)
}

func TestCaching(t *testing.T) {
	ClearCache()

	// First call loads from file
	prompt1, err := Get("pipeline.json", "research")
	require.NoError(t, err)

	// Second call should use cache
	prompt2, err := Get("pipeline.json", "research")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"Draft", "Feedback"}, Placeholders("{{.Feedback}} then {{.Draft}} and {{.Feedback}} again"))
	assert.Empty(t, Placeholders("no placeholders, {{ .Spaced }} is not one"))
}

func TestRender(t *testing.T) {
	ClearCache()

	prompt, err := Render("pipeline.json", "revision", map[string]string{
		"Draft":    "The draft body",
		"Feedback": "Remove the 90% claim",
		"Extra":    "ignored",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "The draft body")
	assert.Contains(t, prompt, "Remove the 90% claim")
	assert.NotContains(t, prompt, "{{.")
}

func TestRender_MissingData(t *testing.T) {
	ClearCache()

	_, err := Render("pipeline.json", "draft", map[string]string{"PRD": "TimeWise"})
	require.Error(t, err)

	var missing *MissingDataError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "draft", missing.Key)
	assert.Equal(t, []string{"ResearchNotes"}, missing.Missing)
}

func TestRender_UnknownKey(t *testing.T) {
	_, err := Render("pipeline.json", "nonexistent-key", nil)
	assert.ErrorContains(t, err, "not found")
}
