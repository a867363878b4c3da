package feed

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/index.html.tmpl
var templatesFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html.tmpl"))

// RenderIndex renders the static status page that points readers at the
// published feed. Its content does not depend on scraped data.
func RenderIndex(channel Channel, feedFile string) ([]byte, error) {
	var buf bytes.Buffer

	data := struct {
		Channel
		FeedFile string
	}{
		Channel:  channel,
		FeedFile: feedFile,
	}

	if err := indexTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render index page: %w", err)
	}

	return buf.Bytes(), nil
}
