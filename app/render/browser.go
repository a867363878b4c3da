package render

import (
	"context"
	"time"
)

// Browser opens headless browsing sessions.
type Browser interface {
	Open(ctx context.Context) (Session, error)
}

// Session is a single browser tab. Close must be called on every path once
// Open succeeded.
type Session interface {
	// Navigate loads url and returns once the page's network is idle.
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	// Wait blocks for a fixed delay.
	Wait(ctx context.Context, d time.Duration) error
	// WaitForSelector returns once an element matching selector exists.
	WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error
	// HTML serializes the live DOM.
	HTML(ctx context.Context) (string, error)
	// Screenshot captures the full page as PNG.
	Screenshot(ctx context.Context) ([]byte, error)
	Close() error
}
