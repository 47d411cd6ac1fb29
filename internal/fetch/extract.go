package fetch

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// globalNoise is stripped from every page before extraction
const globalNoise = "nav, footer, header, script, style, noscript, svg, form, .ad, .ads, .sidebar, .cookie-banner, .popup"

// blockSelector lists the elements that become their own line of output
const blockSelector = "h1, h2, h3, h4, h5, h6, p, li, pre, blockquote, td, th, dt, dd"

// ExtractMainText returns the readable text of the first element matching
// contentSelectors, or of <body> when none match. Headings keep a Markdown
// "#" prefix and list items a "- " prefix so the document outline survives.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(globalNoise).Remove()
	if noise := strings.Join(noiseSelectors, ", "); noise != "" {
		doc.Find(noise).Remove()
	}

	root := doc.Find("body")
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			root = sel.First()
			break
		}
	}

	var lines []string
	root.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// nested blocks (a <p> inside an <li>) are emitted by their outermost block
		if s.ParentsFiltered(blockSelector).Length() > 0 {
			return
		}
		text := collapseSpaces(s.Text())
		if text == "" {
			return
		}
		lines = append(lines, linePrefix(goquery.NodeName(s))+text)
	})

	if len(lines) == 0 {
		return cleanWhitespace(root.Text()), nil
	}
	return strings.Join(lines, "\n"), nil
}

func linePrefix(tag string) string {
	switch tag {
	case "h1":
		return "# "
	case "h2":
		return "## "
	case "h3", "h4", "h5", "h6":
		return "### "
	case "li", "dd":
		return "- "
	case "blockquote":
		return "> "
	}
	return ""
}

// DefaultTextSelectors are generic main-content containers
func DefaultTextSelectors() []string {
	return []string{"main", "article", ".content", "#content", ".main-content", "#main-content"}
}

// DocumentSelectors covers hosted product documents (wikis, docs sites, READMEs)
// ahead of the generic containers.
func DocumentSelectors() []string {
	return append([]string{
		".notion-page-content",
		"#main-content .wiki-content",
		".wiki-content",
		"article.markdown-body",
		".markdown-body",
		"#contents",
		".doc-content",
	}, DefaultTextSelectors()[:4]...)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cleanWhitespace trims every line and drops blank ones
func cleanWhitespace(text string) string {
	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
