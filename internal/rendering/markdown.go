// Package rendering turns generated Markdown posts into HTML.
package rendering

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// RenderError reports which step of turning a post into HTML failed
type RenderError struct {
	Op    string
	Cause error
}

const (
	opConvert = "convert markdown"
	opPage    = "execute page template"
)

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Op, e.Cause)
}

func (e *RenderError) Unwrap() error { return e.Cause }

// md is shared; goldmark.Markdown is safe for concurrent use
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Typographer),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// MarkdownToHTML renders a Markdown post as an HTML fragment.
// Raw HTML in the source is omitted.
func MarkdownToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", &RenderError{Op: opConvert, Cause: err}
	}
	return buf.String(), nil
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<article>
{{.Body}}
</article>
</body>
</html>
`))

// RenderPage renders a Markdown post as a standalone HTML document.
// The title is taken from the first heading, falling back to defaultTitle.
func RenderPage(source, defaultTitle string) (string, error) {
	body, err := MarkdownToHTML(source)
	if err != nil {
		return "", err
	}

	title := ExtractTitle(source)
	if title == "" {
		title = defaultTitle
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		// goldmark output has unsafe raw HTML already stripped
		Body: template.HTML(body), //nolint:gosec
	})
	if err != nil {
		return "", &RenderError{Op: opPage, Cause: err}
	}
	return buf.String(), nil
}

// ExtractTitle returns the text of the first ATX heading in a Markdown document
func ExtractTitle(source string) string {
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			continue
		}
		title := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		title = strings.Trim(title, "*_")
		if title != "" {
			return title
		}
	}
	return ""
}
