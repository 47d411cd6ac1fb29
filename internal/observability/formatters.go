package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/content-pipeline/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// maxPreviewLines caps how much of a draft is echoed
	maxPreviewLines = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range wrap(content, boxWidth-4) {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintResearch outputs the research points gathered for the post.
func (p *Printer) PrintResearch(research *types.ResearchResult) {
	if research == nil || research.Len() == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Research points: %d\n\n", research.Len()))

	count := min(research.Len(), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("• %s\n", research.ResearchPoints[i]))
	}
	if research.Len() > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", research.Len()-maxItemsToShow))
	}

	p.printBox("RESEARCH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDraft outputs the beginning of a draft under the given title.
func (p *Printer) PrintDraft(title, draft string) {
	if strings.TrimSpace(draft) == "" {
		return
	}

	words := len(strings.Fields(draft))
	lines := strings.Split(strings.TrimSpace(draft), "\n")
	shown := lines
	if len(lines) > maxPreviewLines {
		shown = lines[:maxPreviewLines]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Words: %d\n\n", words))
	sb.WriteString(strings.Join(shown, "\n"))
	if len(lines) > maxPreviewLines {
		sb.WriteString(fmt.Sprintf("\n... %d more lines", len(lines)-maxPreviewLines))
	}

	p.printBox(title, sb.String())
}

// PrintFactCheck outputs one fact-check attempt.
func (p *Printer) PrintFactCheck(attempt int, outcome types.FactCheckOutcome) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Attempt: %d\n", attempt))
	sb.WriteString(fmt.Sprintf("Result:  %s\n", outcome.Result()))
	if !outcome.Passed && outcome.Feedback != "" {
		sb.WriteString("\nFeedback:\n")
		sb.WriteString(strings.TrimSpace(outcome.Feedback))
	}

	p.printBox("FACT CHECK", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFinal outputs the final post and its fact-check status.
func (p *Printer) PrintFinal(result *types.FinalResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Fact check: %s\n", result.FactCheckStatus))
	sb.WriteString(fmt.Sprintf("Words:      %d", len(strings.Fields(result.BlogPost))))

	p.printBox("FINAL POST", sb.String())
}

// wrap splits content into lines no wider than width, breaking on spaces.
func wrap(content string, width int) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		for len([]rune(line)) > width {
			runes := []rune(line)
			cut := width
			for i := width; i > width/2; i-- {
				if runes[i] == ' ' {
					cut = i
					break
				}
			}
			out = append(out, string(runes[:cut]))
			line = strings.TrimLeft(string(runes[cut:]), " ")
		}
		out = append(out, line)
	}
	return out
}
