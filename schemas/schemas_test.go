package schemas_test

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/content-pipeline/internal/schemas"
	schemafiles "github.com/jonathan/content-pipeline/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	names, err := schemafiles.Names()
	require.NoError(t, err)
	require.Contains(t, names, schemafiles.ResearchResult)

	for _, schemaFile := range names {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := schemafiles.Read(schemaFile)
			require.NoError(t, err, "should be able to read schema file")

			var schemaObj map[string]interface{}
			err = json.Unmarshal(data, &schemaObj)
			require.NoError(t, err, "schema file should be valid JSON: %s", schemaFile)

			_, hasType := schemaObj["type"]
			_, hasSchema := schemaObj["$schema"]
			assert.True(t, hasType && hasSchema, "schema should declare $schema and type")
		})
	}
}

func TestResearchResultSchema(t *testing.T) {
	data, err := schemafiles.Read(schemafiles.ResearchResult)
	require.NoError(t, err)

	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"three points", `{"research_points": ["a", "b", "c"]}`, false},
		{"single point", `{"research_points": ["only one"]}`, false},
		{"extra keys allowed", `{"research_points": ["a"], "sources": []}`, false},
		{"missing key", `{"points": ["a"]}`, true},
		{"empty array", `{"research_points": []}`, true},
		{"blank string", `{"research_points": ["  "]}`, true},
		{"non-string item", `{"research_points": [42]}`, true},
		{"not an object", `["a", "b"]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schemas.ValidateJSONString(string(data), tt.doc)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
