package feed

import (
	"log/slog"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

const (
	UntitledTitle = "Article sans titre"

	containerSelector   = "article, div, li"
	headingSelector     = "h1, h2, h3, h4, h5, h6"
	descriptionSelector = `p, .description, .summary, [class*="excerpt"]`
)

// Extractor reads article candidates from a rendered listing page.
type Extractor struct {
	selector string
	baseURL  *url.URL
	limit    int
}

// NewExtractor creates an extractor. limit bounds the number of raw matches
// read from the page; zero disables the bound.
func NewExtractor(selector string, baseURL *url.URL, limit int) *Extractor {
	return &Extractor{
		selector: selector,
		baseURL:  baseURL,
		limit:    limit,
	}
}

// Run returns candidates in document order. Hrefs are absolute; duplicates
// are kept.
func (e *Extractor) Run(doc *goquery.Document) []Candidate {
	var candidates []Candidate

	doc.Find(e.selector).EachWithBreak(func(i int, link *goquery.Selection) bool {
		if e.limit > 0 && len(candidates) >= e.limit {
			slog.Debug("Candidate limit reached", "limit", e.limit)
			return false
		}

		href, _ := link.Attr("href")
		absolute, err := ResolveURL(e.baseURL, href)
		if err != nil {
			slog.Debug("Skipping anchor", "href", href, "error", err)
			return true
		}

		container := link.Closest(containerSelector)
		if container.Length() == 0 {
			container = link
		}

		candidates = append(candidates, Candidate{
			Href:        absolute,
			Title:       e.title(link, container),
			Description: cleanText(container.Find(descriptionSelector).First().Text()),
		})
		return true
	})

	return candidates
}

func (e *Extractor) title(link, container *goquery.Selection) string {
	if title := cleanText(link.Text()); title != "" {
		return title
	}
	if title := cleanText(container.Find(headingSelector).First().Text()); title != "" {
		return title
	}
	return UntitledTitle
}
