package feed

import (
	"bytes"
	"cmp"
	"fmt"

	"github.com/mmcdole/gofeed"
)

// Parser reads a serialized feed back into channel metadata and items. It is
// used to verify generated output before it is written.
type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *Parser) Run(data []byte) (*Channel, []Item, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	channel := &Channel{
		Title:       feed.Title,
		Description: feed.Description,
		FeedURL:     feed.FeedLink,
		SiteURL:     feed.Link,
		Language:    feed.Language,
		Generator:   feed.Generator,
	}

	items := make([]Item, 0, len(feed.Items))
	for _, item := range feed.Items {
		normalized := Item{
			GUID:        cmp.Or(item.GUID, item.Link),
			Title:       item.Title,
			Link:        item.Link,
			Description: item.Description,
		}
		if item.PublishedParsed != nil {
			normalized.PublishedAt = *item.PublishedParsed
		}
		items = append(items, normalized)
	}

	return channel, items, nil
}

// Verify checks that data parses as a feed holding exactly want items.
func (p *Parser) Verify(data []byte, want int) error {
	_, items, err := p.Run(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	if len(items) != want {
		return fmt.Errorf("%w: expected %d items, parsed %d", ErrSerialization, want, len(items))
	}
	return nil
}
