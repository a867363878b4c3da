package feed

import (
	"time"
)

// Extraction types

// Candidate is a raw anchor match read from the rendered listing page. It is
// not deduplicated yet.
type Candidate struct {
	Href        string
	Title       string
	Description string
}

// Article is one deduplicated listing entry that becomes one feed item.
type Article struct {
	Title       string
	URL         string
	Description string
	PublishedAt time.Time
	// DateFromTitle is false when PublishedAt fell back to the run time.
	DateFromTitle bool
}

// Feed types

type Channel struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	FeedURL     string `yaml:"feed_url"`
	SiteURL     string `yaml:"site_url"`
	Language    string `yaml:"language"`
	Generator   string `yaml:"generator"`
}

type Item struct {
	GUID        string
	Title       string
	Link        string
	Description string
	PublishedAt time.Time
}
