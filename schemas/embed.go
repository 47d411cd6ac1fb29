// Package schemas holds the JSON Schema documents that LLM output is validated against.
package schemas

import "embed"

// ResearchResult is the file name of the research stage output schema
const ResearchResult = "research_result.schema.json"

//go:embed *.schema.json
var files embed.FS

// Read returns the raw contents of an embedded schema file
func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}

// Names lists every embedded schema file
func Names() ([]string, error) {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
