package feed

import (
	"cmp"
	"log/slog"
	"net/url"
)

// Builder turns raw candidates into unique articles.
type Builder struct {
	baseURL     *url.URL
	maxArticles int
}

func NewBuilder(baseURL *url.URL, maxArticles int) *Builder {
	return &Builder{
		baseURL:     baseURL,
		maxArticles: maxArticles,
	}
}

// Run deduplicates candidates by absolute URL, first occurrence wins, and
// truncates to maxArticles after deduplication. Order is preserved.
// PublishedAt is left zero.
func (b *Builder) Run(candidates []Candidate) []Article {
	seen := make(map[string]struct{}, len(candidates))
	articles := make([]Article, 0, min(len(candidates), max(b.maxArticles, 0)))

	for _, c := range candidates {
		if b.maxArticles > 0 && len(articles) >= b.maxArticles {
			break
		}

		link, err := ResolveURL(b.baseURL, c.Href)
		if err != nil {
			slog.Debug("Skipping candidate", "href", c.Href, "error", err)
			continue
		}

		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}

		articles = append(articles, Article{
			Title:       cmp.Or(c.Title, UntitledTitle),
			URL:         link,
			Description: c.Description,
		})
	}

	slog.Debug("Articles built", "candidates", len(candidates), "articles", len(articles))

	return articles
}
