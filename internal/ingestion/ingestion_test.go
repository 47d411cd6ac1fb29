package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"only whitespace", "  \n\t\n ", ""},
		{"headings", "   # Title\n  ## Goals", "# Title\n## Goals"},
		{"bullets keep indent", "- one\n  - nested", "- one\n  - nested"},
		{"collapse spaces", "cut   scheduling\ttime", "cut scheduling time"},
		{"line endings", "a\r\nb\rc", "a\nb\nc"},
		{"blank lines", "a\n\n\n\n\nb", "a\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestCleanText_DeterministicOutput(t *testing.T) {
	input := "# TimeWise\n\n\n  Find   meeting times\n- fast\n"
	assert.Equal(t, CleanText(input), CleanText(input))
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prd.md")
	require.NoError(t, os.WriteFile(path, []byte("# TimeWise PRD\n\nAI scheduling   assistant.\n"), 0o644))

	doc, err := FromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "# TimeWise PRD\n\nAI scheduling assistant.", doc.Text)
	assert.Len(t, doc.Metadata.Hash, 64)
	assert.Empty(t, doc.Metadata.URL)
	assert.NotEmpty(t, doc.Metadata.Timestamp)
}

func TestFromFile_NotFound(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "missing.md"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestFromFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n  \n"), 0o644))

	_, err := FromFile(path)
	assert.Error(t, err)
}

func TestNewMetadata_HashDiffersByContent(t *testing.T) {
	a := NewMetadata("one", "")
	b := NewMetadata("two", "")
	assert.NotEqual(t, a.Hash, b.Hash)
	assert.Equal(t, a.Hash, NewMetadata("one", "x").Hash)
}

func TestFromURL_HTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body>
			<nav>Home | Docs</nav>
			<main><h1>TimeWise PRD</h1><p>Goal: cut scheduling time in half.</p></main>
			<footer>Copyright</footer>
		</body></html>`))
	}))
	defer server.Close()

	doc, err := FromURL(context.Background(), server.URL, URLOptions{})
	require.NoError(t, err)

	assert.Contains(t, doc.Text, "TimeWise PRD")
	assert.Contains(t, doc.Text, "cut scheduling time in half")
	assert.NotContains(t, doc.Text, "Copyright")
	assert.Equal(t, server.URL, doc.Metadata.URL)
	assert.Equal(t, "unknown", doc.Metadata.Platform)
	assert.False(t, doc.Metadata.Rendered)
}

func TestFromURL_PlainText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/markdown")
		_, _ = w.Write([]byte("# PRD\n\n<not html> just text"))
	}))
	defer server.Close()

	doc, err := FromURL(context.Background(), server.URL, URLOptions{})
	require.NoError(t, err)
	assert.Equal(t, "# PRD\n\n<not html> just text", doc.Text)
}

func TestFromURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := FromURL(context.Background(), server.URL, URLOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHTTPRequestFailed)
}

func TestFromURL_InvalidURL(t *testing.T) {
	_, err := FromURL(context.Background(), "not a url", URLOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHTTPRequestFailed)
}

func TestFromURL_BrowserFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><div id="root">Loading...</div></body></html>`))
	}))
	defer server.Close()

	original := browserRender
	defer func() { browserRender = original }()

	long := strings.Repeat("TimeWise protects focus time. ", 30)
	browserRender = func(context.Context, string, *slog.Logger) (string, error) {
		return "<html><body><main>" + long + "</main></body></html>", nil
	}

	doc, err := FromURL(context.Background(), server.URL, URLOptions{UseBrowser: true})
	require.NoError(t, err)
	assert.True(t, doc.Metadata.Rendered)
	assert.Contains(t, doc.Text, "protects focus time")
}

func TestFromURL_BrowserFailureKeepsHTTPContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><main>Short PRD</main></body></html>`))
	}))
	defer server.Close()

	original := browserRender
	defer func() { browserRender = original }()
	browserRender = func(context.Context, string, *slog.Logger) (string, error) {
		return "", errors.New("chrome not installed")
	}

	doc, err := FromURL(context.Background(), server.URL, URLOptions{UseBrowser: true})
	require.NoError(t, err)
	assert.False(t, doc.Metadata.Rendered)
	assert.Equal(t, "Short PRD", doc.Text)
}
