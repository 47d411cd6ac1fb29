package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonathan/content-pipeline/internal/fetch"
)

var (
	// ErrHTTPRequestFailed is returned when HTTP request fails
	ErrHTTPRequestFailed = fmt.Errorf("HTTP request failed")
	// ErrContentExtractionFailed is returned when content extraction fails
	ErrContentExtractionFailed = fmt.Errorf("content extraction failed")
)

// DefaultBrowserTimeout bounds headless rendering of a page
const DefaultBrowserTimeout = 30 * time.Second

// URLOptions configures FromURL
type URLOptions struct {
	// UseBrowser falls back to headless Chrome when the HTTP response has too little text
	UseBrowser bool
	Fetch      *fetch.Options
	Logger     *slog.Logger
}

// browserRender is swapped in tests
var browserRender = func(ctx context.Context, url string, logger *slog.Logger) (string, error) {
	return fetch.Render(ctx, url, fetch.RenderOptions{
		Timeout:      DefaultBrowserTimeout,
		WaitSelector: fetch.RenderWaitSelector(fetch.DetectPlatform(url)),
		Logger:       logger,
	})
}

// FromURL fetches a published PRD, extracts its main text, and cleans it.
// Plain-text and Markdown responses are used as-is.
func FromURL(ctx context.Context, urlStr string, opts URLOptions) (*Document, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	platform := fetch.DetectPlatform(urlStr)
	logger.Debug("fetching PRD", "url", urlStr, "platform", platform)

	result, err := fetch.URL(ctx, urlStr, opts.Fetch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}

	var text string
	rendered := false
	if isPlainText(result.ContentType) {
		text = result.HTML
	} else {
		contentSelectors := fetch.PlatformContentSelectors(platform)
		noiseSelectors := fetch.PlatformNoiseSelectors(platform)

		text, err = fetch.ExtractMainText(result.HTML, contentSelectors, noiseSelectors...)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
		}

		if opts.UseBrowser && fetch.ShouldUseBrowser(text) {
			logger.Info("page text too short, rendering in browser",
				"chars", len(text), "min", fetch.MinContentLength)

			browserHTML, browserErr := browserRender(ctx, urlStr, logger)
			if browserErr != nil {
				// Continue with HTTP content if browser fails
				logger.Warn("browser rendering failed, using HTTP content", "error", browserErr)
			} else if browserText, extractErr := fetch.ExtractMainText(browserHTML, contentSelectors, noiseSelectors...); extractErr != nil {
				logger.Warn("browser content extraction failed", "error", extractErr)
			} else {
				text = browserText
				rendered = true
			}
		}
	}

	doc, err := FromText(text, urlStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}
	doc.Metadata.Platform = string(platform)
	doc.Metadata.Rendered = rendered
	doc.Metadata.ContentType = result.ContentType

	logger.Debug("loaded PRD", "url", urlStr, "chars", len(doc.Text), "rendered", rendered)
	return doc, nil
}

func isPlainText(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "text/plain") || strings.HasPrefix(ct, "text/markdown")
}
