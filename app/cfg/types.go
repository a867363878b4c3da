package cfg

import "time"

type Cfg struct {
	// Listing page
	TargetURL       string
	BaseURL         string
	ArticleSelector string
	MaxArticles     int
	MaxCandidates   int

	// Browser session
	NavigationTimeout time.Duration
	SettleDelay       time.Duration
	SelectorTimeout   time.Duration
	UserAgent         string
	WindowWidth       int
	WindowHeight      int

	// Output artifacts
	OutputDir      string
	FeedFile       string
	IndexFile      string
	ScreenshotFile string
	MetricsFile    string
	ChannelFile    string

	// Preview server
	Serve bool
	Port  string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
