package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"time"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Items maps articles onto feed items, keeping their order.
func (g *Generator) Items(articles []Article) []Item {
	items := make([]Item, 0, len(articles))
	for _, a := range articles {
		items = append(items, Item{
			GUID:        a.URL,
			Title:       a.Title,
			Link:        a.URL,
			Description: cmp.Or(a.Description, a.Title),
			PublishedAt: a.PublishedAt,
		})
	}
	return items
}

// Run renders an RSS 2.0 document. Items appear in article order, not sorted
// by date.
func (g *Generator) Run(channel Channel, articles []Article, builtAt time.Time) (string, error) {
	if channel.Title == "" || channel.SiteURL == "" {
		return "", fmt.Errorf("%w: channel title and site URL are required", ErrSerialization)
	}

	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", channel.Title, 4)
	g.writeElement(&buf, "link", channel.SiteURL, 4)
	g.writeElement(&buf, "description", cmp.Or(channel.Description, channel.Title), 4)

	if channel.FeedURL != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(channel.FeedURL)))
	}

	g.writeElement(&buf, "lastBuildDate", builtAt.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", channel.Generator, 4)
	g.writeElement(&buf, "language", channel.Language, 4)

	for _, item := range g.Items(articles) {
		g.writeItem(&buf, item)
	}

	buf.WriteString("  </channel>\n</rss>\n")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, item Item) {
	buf.WriteString("    <item>\n")

	g.writeElement(buf, "title", item.Title, 6)
	g.writeElement(buf, "description", item.Description, 6)
	g.writeElement(buf, "link", item.Link, 6)

	// The link is the only identity we have; it is not promised to be permanent.
	if item.GUID != "" {
		buf.WriteString("      <guid isPermaLink=\"false\">")
		xml.EscapeText(buf, []byte(item.GUID))
		buf.WriteString("</guid>\n")
	}

	if !item.PublishedAt.IsZero() {
		g.writeElement(buf, "pubDate", item.PublishedAt.Format(time.RFC1123Z), 6)
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
