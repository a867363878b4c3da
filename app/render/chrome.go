package render

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

type ChromeOptions struct {
	UserAgent    string
	WindowWidth  int
	WindowHeight int
}

// ChromeBrowser starts one headless Chrome process per session.
type ChromeBrowser struct {
	opts ChromeOptions
}

func NewChromeBrowser(opts ChromeOptions) *ChromeBrowser {
	return &ChromeBrowser{opts: opts}
}

func (b *ChromeBrowser) Open(ctx context.Context) (Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if b.opts.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(b.opts.UserAgent))
	}
	if b.opts.WindowWidth > 0 && b.opts.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(b.opts.WindowWidth, b.opts.WindowHeight))
	}

	// The browser lives as long as the session, not as long as ctx.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...any) {
		slog.Debug(fmt.Sprintf(format, args...))
	}))

	s := &chromeSession{
		ctx:         tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
	}

	// The first Run starts the browser; it must use the tab context itself so
	// that later per-step timeouts do not tear the browser down.
	startErr := make(chan error, 1)
	go func() {
		startErr <- chromedp.Run(tabCtx, page.SetLifecycleEventsEnabled(true))
	}()

	select {
	case err := <-startErr:
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
	case <-ctx.Done():
		s.Close()
		return nil, ctx.Err()
	}

	slog.Debug("Browser session opened")
	return s, nil
}

type chromeSession struct {
	ctx         context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
	closeOnce   sync.Once
	closeErr    error
}

// scope derives a context from the tab that also ends when ctx ends or the
// timeout expires.
func (s *chromeSession) scope(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(s.ctx, timeout)
	} else {
		runCtx, cancel = context.WithCancel(s.ctx)
	}
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

func (s *chromeSession) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	runCtx, cancel := s.scope(ctx, timeout)
	defer cancel()

	idle := make(chan struct{})
	var (
		mu       sync.Mutex
		loaderID cdp.LoaderID
		once     sync.Once
	)

	// networkIdle must belong to the main-frame document started by this
	// navigation, not to the initial blank page or an iframe.
	var mainFrame cdp.FrameID
	if c := chromedp.FromContext(s.ctx); c != nil && c.Target != nil {
		mainFrame = cdp.FrameID(c.Target.TargetID)
	}

	listenCtx, stopListening := context.WithCancel(runCtx)
	defer stopListening()
	chromedp.ListenTarget(listenCtx, func(ev any) {
		e, ok := ev.(*page.EventLifecycleEvent)
		if !ok || (mainFrame != "" && e.FrameID != mainFrame) {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		switch e.Name {
		case "init":
			loaderID = e.LoaderID
		case "networkIdle":
			if loaderID != "" && e.LoaderID == loaderID {
				once.Do(func() { close(idle) })
			}
		}
	})

	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		return err
	}

	select {
	case <-idle:
		return nil
	case <-runCtx.Done():
		return fmt.Errorf("waiting for network idle: %w", runCtx.Err())
	}
}

func (s *chromeSession) Wait(ctx context.Context, d time.Duration) error {
	runCtx, cancel := s.scope(ctx, 0)
	defer cancel()

	return chromedp.Run(runCtx, chromedp.Sleep(d))
}

func (s *chromeSession) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	runCtx, cancel := s.scope(ctx, timeout)
	defer cancel()

	return chromedp.Run(runCtx, chromedp.WaitReady(selector, chromedp.ByQuery))
}

func (s *chromeSession) HTML(ctx context.Context) (string, error) {
	runCtx, cancel := s.scope(ctx, time.Minute)
	defer cancel()

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

func (s *chromeSession) Screenshot(ctx context.Context) ([]byte, error) {
	runCtx, cancel := s.scope(ctx, time.Minute)
	defer cancel()

	var buf []byte
	// Quality 100 produces PNG.
	if err := chromedp.Run(runCtx, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *chromeSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = chromedp.Cancel(s.ctx)
		s.tabCancel()
		s.allocCancel()
		slog.Debug("Browser session closed")
	})
	return s.closeErr
}
