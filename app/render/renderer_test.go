package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	navigateErr error
	selectorErr error
	htmlErr     error
	shotErr     error
	html        string
	shot        []byte

	calls  []string
	waited time.Duration
	closed int
}

func (s *fakeSession) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	s.calls = append(s.calls, "navigate")
	return s.navigateErr
}

func (s *fakeSession) Wait(ctx context.Context, d time.Duration) error {
	s.calls = append(s.calls, "wait")
	s.waited = d
	return nil
}

func (s *fakeSession) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	s.calls = append(s.calls, "selector")
	return s.selectorErr
}

func (s *fakeSession) HTML(ctx context.Context) (string, error) {
	s.calls = append(s.calls, "html")
	return s.html, s.htmlErr
}

func (s *fakeSession) Screenshot(ctx context.Context) ([]byte, error) {
	s.calls = append(s.calls, "screenshot")
	return s.shot, s.shotErr
}

func (s *fakeSession) Close() error {
	s.closed++
	return nil
}

type fakeBrowser struct {
	session *fakeSession
	err     error
}

func (b *fakeBrowser) Open(ctx context.Context) (Session, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.session, nil
}

func testOptions(t *testing.T) Options {
	return Options{
		URL:               "https://example.com/list",
		Selector:          "a.article",
		NavigationTimeout: 30 * time.Second,
		SettleDelay:       5 * time.Second,
		SelectorTimeout:   10 * time.Second,
		ScreenshotPath:    filepath.Join(t.TempDir(), "debug-screenshot.png"),
	}
}

func TestRendererRun(t *testing.T) {
	session := &fakeSession{html: `<html><body><a class="article" href="/a">A</a></body></html>`}
	opts := testOptions(t)

	page, err := NewRenderer(&fakeBrowser{session: session}, opts).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, page.SelectorFound)
	assert.Empty(t, page.Screenshot)
	assert.Equal(t, 1, page.Doc.Find("a.article").Length())
	assert.Equal(t, []string{"navigate", "wait", "selector", "html"}, session.calls)
	assert.Equal(t, 5*time.Second, session.waited)
	assert.Equal(t, 1, session.closed)
	assert.NoFileExists(t, opts.ScreenshotPath)
}

func TestRendererRunSelectorTimeout(t *testing.T) {
	session := &fakeSession{
		selectorErr: context.DeadlineExceeded,
		html:        `<html><body><p>loading</p></body></html>`,
		shot:        []byte("\x89PNG fake"),
	}
	opts := testOptions(t)

	page, err := NewRenderer(&fakeBrowser{session: session}, opts).Run(context.Background())
	require.NoError(t, err, "selector timeout must not abort the run")

	assert.False(t, page.SelectorFound)
	assert.Equal(t, opts.ScreenshotPath, page.Screenshot)
	assert.Equal(t, []string{"navigate", "wait", "selector", "screenshot", "html"}, session.calls)
	assert.Equal(t, 1, session.closed)

	data, err := os.ReadFile(opts.ScreenshotPath)
	require.NoError(t, err)
	assert.Equal(t, session.shot, data)
}

func TestRendererRunScreenshotFailureIsNotFatal(t *testing.T) {
	session := &fakeSession{
		selectorErr: context.DeadlineExceeded,
		shotErr:     errors.New("capture failed"),
		html:        `<html></html>`,
	}

	page, err := NewRenderer(&fakeBrowser{session: session}, testOptions(t)).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, page.SelectorFound)
	assert.Empty(t, page.Screenshot)
}

func TestRendererRunNavigationFailure(t *testing.T) {
	session := &fakeSession{navigateErr: errors.New("net::ERR_NAME_NOT_RESOLVED")}

	page, err := NewRenderer(&fakeBrowser{session: session}, testOptions(t)).Run(context.Background())
	assert.Nil(t, page)
	assert.ErrorIs(t, err, ErrNavigation)
	assert.Equal(t, []string{"navigate"}, session.calls)
	assert.Equal(t, 1, session.closed, "session must be released on failure")
}

func TestRendererRunSnapshotFailure(t *testing.T) {
	session := &fakeSession{htmlErr: errors.New("target closed")}

	_, err := NewRenderer(&fakeBrowser{session: session}, testOptions(t)).Run(context.Background())
	assert.ErrorIs(t, err, ErrSnapshot)
	assert.Equal(t, 1, session.closed)
}

func TestRendererRunBrowserFailure(t *testing.T) {
	_, err := NewRenderer(&fakeBrowser{err: errors.New("chrome not found")}, testOptions(t)).Run(context.Background())
	assert.ErrorIs(t, err, ErrBrowser)
}

func TestRendererRunSkipsZeroSettleDelay(t *testing.T) {
	session := &fakeSession{html: `<html></html>`}
	opts := testOptions(t)
	opts.SettleDelay = 0

	_, err := NewRenderer(&fakeBrowser{session: session}, opts).Run(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, session.calls, "wait")
}

func TestRendererRunCancelledDuringSelectorWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	session := &fakeSession{selectorErr: context.Canceled, html: `<html></html>`}

	_, err := NewRenderer(&fakeBrowser{session: session}, testOptions(t)).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, session.calls, "screenshot")
	assert.Equal(t, 1, session.closed)
}
