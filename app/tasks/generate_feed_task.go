package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/surmarxisme/schuman-rss/app/feed"
	"github.com/surmarxisme/schuman-rss/app/metrics"
	"github.com/surmarxisme/schuman-rss/app/render"
)

var ErrWrite = errors.New("failed to write output")

type PageRenderer interface {
	Run(ctx context.Context) (*render.Page, error)
}

type Output struct {
	FeedPath  string
	IndexPath string
	// FeedLink is the feed location referenced from the index page.
	FeedLink string
}

type Stats struct {
	Candidates    int
	Articles      int
	Dated         int
	Undated       int
	SelectorFound bool
	Screenshot    string
}

var _ TaskInterface = (*GenerateFeedTask)(nil)

// GenerateFeedTask scrapes the listing page and rewrites the feed and index
// page. Nothing is written unless every stage succeeds.
type GenerateFeedTask struct {
	Task
	renderer  PageRenderer
	extractor *feed.Extractor
	builder   *feed.Builder
	generator *feed.Generator
	parser    *feed.Parser
	channel   feed.Channel
	output    Output
	metrics   *metrics.Metrics
	now       func() time.Time

	Stats Stats
}

func NewGenerateFeedTask(renderer PageRenderer, extractor *feed.Extractor, builder *feed.Builder,
	generator *feed.Generator, parser *feed.Parser, channel feed.Channel, output Output,
	m *metrics.Metrics) *GenerateFeedTask {
	return &GenerateFeedTask{
		Task:      NewTask(TaskTypeGenerateFeed),
		renderer:  renderer,
		extractor: extractor,
		builder:   builder,
		generator: generator,
		parser:    parser,
		channel:   channel,
		output:    output,
		metrics:   m,
		now:       time.Now,
	}
}

func (t *GenerateFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	// pubDate keeps whole seconds only.
	runAt := t.now().Truncate(time.Second)

	page, err := t.renderer.Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to render listing page: %w", err)
	}
	t.Stats.SelectorFound = page.SelectorFound
	t.Stats.Screenshot = page.Screenshot
	if !page.SelectorFound && t.metrics != nil {
		t.metrics.SelectorTimeouts.Inc()
	}

	candidates := t.extractor.Run(page.Doc)
	t.Stats.Candidates = len(candidates)
	slog.Info("Candidates extracted", "count", len(candidates))

	articles := t.builder.Run(candidates)
	if len(articles) == 0 {
		return feed.ErrNoArticles
	}

	articles = feed.InferDates(articles, runAt)
	for _, a := range articles {
		if a.DateFromTitle {
			t.Stats.Dated++
		} else {
			t.Stats.Undated++
		}
	}
	t.Stats.Articles = len(articles)

	rss, err := t.generator.Run(t.channel, articles, runAt)
	if err != nil {
		return fmt.Errorf("failed to generate feed: %w", err)
	}

	if err := t.parser.Verify([]byte(rss), len(articles)); err != nil {
		return fmt.Errorf("generated feed did not verify: %w", err)
	}

	index, err := feed.RenderIndex(t.channel, t.output.FeedLink)
	if err != nil {
		return fmt.Errorf("%w: %w", feed.ErrSerialization, err)
	}

	// The feed goes last: it is what readers poll.
	if err := writeFilesAtomic([]outputFile{
		{path: t.output.IndexPath, data: index},
		{path: t.output.FeedPath, data: []byte(rss)},
	}); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	if t.metrics != nil {
		t.metrics.Candidates.Set(float64(t.Stats.Candidates))
		t.metrics.ObserveArticles(t.Stats.Dated, t.Stats.Undated)
	}

	slog.Info("Task completed",
		"type", string(t.GetType()),
		"id", t.GetID(),
		"duration", t.GetDuration(),
		"candidates", t.Stats.Candidates,
		"articles", t.Stats.Articles,
		"dated", t.Stats.Dated,
		"undated", t.Stats.Undated,
		"feed", t.output.FeedPath,
		"index", t.output.IndexPath)

	return nil
}

// Result classifies a run error for metrics.
func Result(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, feed.ErrNoArticles):
		return metrics.ResultNoArticles
	case errors.Is(err, render.ErrNavigation), errors.Is(err, render.ErrBrowser):
		return metrics.ResultNavigation
	case errors.Is(err, feed.ErrSerialization):
		return metrics.ResultSerialization
	case errors.Is(err, ErrWrite):
		return metrics.ResultWrite
	default:
		return metrics.ResultError
	}
}
