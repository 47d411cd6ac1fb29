// Package types provides type definitions for structured data used throughout the content pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResearchResult holds the facts gathered by the Researcher stage.
// It is produced once per run and never modified afterwards.
type ResearchResult struct {
	ResearchPoints []string `json:"research_points"`
}

// Len returns the number of research points
func (r *ResearchResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.ResearchPoints)
}
