package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the shortest extracted text accepted from a plain HTTP
// fetch before falling back to browser rendering.
const MinContentLength = 500

// DefaultSettle is how long rendering waits after the page is ready
const DefaultSettle = 2 * time.Second

// ShouldUseBrowser reports whether text is too short to be the real document,
// which is typical of client-rendered hosts such as Notion and Google Docs.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// RenderOptions configures Render
type RenderOptions struct {
	Timeout time.Duration
	// WaitSelector is waited on instead of <body> when set
	WaitSelector string
	Settle       time.Duration
	Logger       *slog.Logger
}

// Render loads url in headless Chrome and returns the rendered HTML.
// Chrome or Chromium must be installed.
func Render(ctx context.Context, url string, opts RenderOptions) (string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Settle <= 0 {
		opts.Settle = DefaultSettle
	}
	wait := opts.WaitSelector
	if wait == "" {
		wait = "body"
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancel := context.WithTimeout(browserCtx, opts.Timeout)
	defer cancel()

	logger.Debug("rendering page in browser", "url", url, "wait", wait)
	start := time.Now()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(wait, chromedp.ByQuery),
		chromedp.Sleep(opts.Settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	logger.Debug("rendered page in browser", "url", url, "bytes", len(html), "elapsed", time.Since(start))
	return html, nil
}

// RenderWaitSelector returns the element that signals a client-rendered
// document has loaded on platform, or "" to wait on <body>.
func RenderWaitSelector(platform Platform) string {
	switch platform {
	case PlatformNotion:
		return ".notion-page-content"
	case PlatformGoogleDocs:
		return "#contents"
	}
	return ""
}
