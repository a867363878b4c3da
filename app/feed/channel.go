package feed

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

func DefaultChannel() Channel {
	return Channel{
		Title:       "Fondation Robert Schuman - Questions d'Europe",
		Description: "Les dernières publications de la Fondation Robert Schuman",
		FeedURL:     "https://surmarxisme.github.io/robert-schuman-rss-feed/feed.xml",
		SiteURL:     "https://www.robert-schuman.eu",
		Language:    "fr",
		Generator:   "GitHub Actions RSS Generator",
	}
}

// LoadChannel reads channel metadata from a YAML file on top of
// DefaultChannel. An empty path returns the defaults.
func LoadChannel(path string) (Channel, error) {
	channel := DefaultChannel()
	if path == "" {
		return channel, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Channel{}, fmt.Errorf("failed to read channel file: %w", err)
	}

	if err := yaml.Unmarshal(data, &channel); err != nil {
		return Channel{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if channel.Title == "" {
		return Channel{}, fmt.Errorf("channel title is required")
	}
	if channel.SiteURL == "" {
		return Channel{}, fmt.Errorf("channel site_url is required")
	}

	slog.Debug("Channel configuration loaded", "file", path, "title", channel.Title)

	return channel, nil
}
