package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

type Options struct {
	URL               string
	Selector          string
	NavigationTimeout time.Duration
	SettleDelay       time.Duration
	SelectorTimeout   time.Duration
	// ScreenshotPath receives a full-page capture when the selector never
	// appears. Empty disables the capture.
	ScreenshotPath string
}

// Page is the rendered listing page.
type Page struct {
	Doc           *goquery.Document
	SelectorFound bool
	// Screenshot is the path written on selector timeout, if any.
	Screenshot string
}

type Renderer struct {
	browser Browser
	opts    Options
}

func NewRenderer(browser Browser, opts Options) *Renderer {
	return &Renderer{
		browser: browser,
		opts:    opts,
	}
}

// Run navigates, waits for client-side rendering and snapshots the DOM. A
// missing selector is logged and captured, not returned as an error.
func (r *Renderer) Run(ctx context.Context) (page *Page, err error) {
	session, err := r.browser.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBrowser, err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			slog.Warn("Failed to close browser session", "error", closeErr)
		}
	}()

	slog.Info("Navigating", "url", r.opts.URL, "timeout", r.opts.NavigationTimeout)
	if err := session.Navigate(ctx, r.opts.URL, r.opts.NavigationTimeout); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNavigation, r.opts.URL, err)
	}

	if r.opts.SettleDelay > 0 {
		slog.Debug("Waiting for dynamic content", "delay", r.opts.SettleDelay)
		if err := session.Wait(ctx, r.opts.SettleDelay); err != nil {
			return nil, fmt.Errorf("settle delay interrupted: %w", err)
		}
	}

	page = &Page{SelectorFound: true}

	if err := session.WaitForSelector(ctx, r.opts.Selector, r.opts.SelectorTimeout); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		page.SelectorFound = false
		slog.Warn("Article selector not found, continuing with current DOM",
			"selector", r.opts.Selector,
			"timeout", r.opts.SelectorTimeout,
			"error", errors.Join(ErrSelectorTimeout, err))
		page.Screenshot = r.captureScreenshot(ctx, session)
	}

	html, err := session.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshot, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse HTML: %w", ErrSnapshot, err)
	}
	page.Doc = doc

	return page, nil
}

// captureScreenshot returns the written path, or "" when nothing was written.
func (r *Renderer) captureScreenshot(ctx context.Context, session Session) string {
	if r.opts.ScreenshotPath == "" {
		return ""
	}

	data, err := session.Screenshot(ctx)
	if err != nil {
		slog.Warn("Failed to capture screenshot", "error", err)
		return ""
	}

	if err := os.WriteFile(r.opts.ScreenshotPath, data, 0o644); err != nil {
		slog.Warn("Failed to write screenshot", "path", r.opts.ScreenshotPath, "error", err)
		return ""
	}

	slog.Info("Screenshot saved", "path", r.opts.ScreenshotPath, "bytes", len(data))
	return r.opts.ScreenshotPath
}
