package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

type rawCfg struct {
	// Listing page
	TargetURL       string `long:"url" env:"TARGET_URL" default:"https://www.robert-schuman.eu/publications/questions-et-entretiens-d-europe-1" description:"Listing page to render"`
	BaseURL         string `long:"base-url" env:"BASE_URL" default:"https://www.robert-schuman.eu" description:"Base URL used to resolve relative article links"`
	ArticleSelector string `long:"selector" env:"ARTICLE_SELECTOR" default:"a[href*=\"/fr/questions-d-europe/\"]" description:"CSS selector matching article anchors"`
	MaxArticles     int    `long:"max-articles" env:"MAX_ARTICLES" default:"20" description:"Maximum number of articles in the feed"`
	MaxCandidates   int    `long:"max-candidates" env:"MAX_CANDIDATES" default:"500" description:"Safety bound on raw anchors read from the page (0 disables)"`

	// Browser session
	NavigationTimeout time.Duration `long:"navigation-timeout" env:"NAVIGATION_TIMEOUT" default:"30s" description:"Timeout for page navigation and network idle"`
	SettleDelay       time.Duration `long:"settle-delay" env:"SETTLE_DELAY" default:"5s" description:"Fixed wait after network idle for client-side rendering"`
	SelectorTimeout   time.Duration `long:"selector-timeout" env:"SELECTOR_TIMEOUT" default:"10s" description:"Timeout waiting for the article selector"`
	UserAgent         string        `long:"user-agent" env:"USER_AGENT" description:"User agent for the headless browser"`
	WindowWidth       int           `long:"window-width" env:"WINDOW_WIDTH" default:"1920" description:"Browser viewport width"`
	WindowHeight      int           `long:"window-height" env:"WINDOW_HEIGHT" default:"1080" description:"Browser viewport height"`

	// Output artifacts
	OutputDir      string `long:"output-dir" env:"OUTPUT_DIR" default:"." description:"Directory receiving the generated files"`
	FeedFile       string `long:"feed-file" env:"FEED_FILE" default:"feed.xml" description:"Feed file name inside the output directory"`
	IndexFile      string `long:"index-file" env:"INDEX_FILE" default:"index.html" description:"Status page file name inside the output directory"`
	ScreenshotFile string `long:"screenshot-file" env:"SCREENSHOT_FILE" default:"debug-screenshot.png" description:"Diagnostic screenshot written when the selector never appears"`
	MetricsFile    string `long:"metrics-file" env:"METRICS_FILE" description:"Prometheus textfile for run metrics (optional)"`
	ChannelFile    string `long:"channel-file" env:"CHANNEL_FILE" description:"YAML file overriding feed channel metadata (optional)"`

	// Preview server
	Serve bool   `long:"serve" env:"SERVE" description:"Serve the generated files after a successful run"`
	Port  string `long:"port" env:"PORT" default:"8080" description:"HTTP port for --serve"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Paris)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses command-line arguments and environment variables. It returns
// nil, nil when help was requested.
func Load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		TargetURL:         raw.TargetURL,
		BaseURL:           raw.BaseURL,
		ArticleSelector:   raw.ArticleSelector,
		MaxArticles:       raw.MaxArticles,
		MaxCandidates:     raw.MaxCandidates,
		NavigationTimeout: raw.NavigationTimeout,
		SettleDelay:       raw.SettleDelay,
		SelectorTimeout:   raw.SelectorTimeout,
		UserAgent:         cmp.Or(raw.UserAgent, DefaultUserAgent),
		WindowWidth:       raw.WindowWidth,
		WindowHeight:      raw.WindowHeight,
		OutputDir:         raw.OutputDir,
		FeedFile:          raw.FeedFile,
		IndexFile:         raw.IndexFile,
		ScreenshotFile:    raw.ScreenshotFile,
		MetricsFile:       raw.MetricsFile,
		ChannelFile:       raw.ChannelFile,
		Serve:             raw.Serve,
		Port:              raw.Port,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

// Default returns the documented defaults without reading flags or the
// environment.
func Default() *Cfg {
	return &Cfg{
		TargetURL:         "https://www.robert-schuman.eu/publications/questions-et-entretiens-d-europe-1",
		BaseURL:           "https://www.robert-schuman.eu",
		ArticleSelector:   `a[href*="/fr/questions-d-europe/"]`,
		MaxArticles:       20,
		MaxCandidates:     500,
		NavigationTimeout: 30 * time.Second,
		SettleDelay:       5 * time.Second,
		SelectorTimeout:   10 * time.Second,
		UserAgent:         DefaultUserAgent,
		WindowWidth:       1920,
		WindowHeight:      1080,
		OutputDir:         ".",
		FeedFile:          "feed.xml",
		IndexFile:         "index.html",
		ScreenshotFile:    "debug-screenshot.png",
		Port:              "8080",
		Timezone:          "UTC",
		Version:           GetVersion(),
	}
}

func (c *Cfg) Validate() error {
	if err := validateHTTPURL("url", c.TargetURL); err != nil {
		return err
	}
	if err := validateHTTPURL("base-url", c.BaseURL); err != nil {
		return err
	}
	if c.ArticleSelector == "" {
		return fmt.Errorf("selector is required")
	}
	if c.MaxArticles <= 0 {
		return fmt.Errorf("max-articles must be positive")
	}
	if c.MaxCandidates < 0 {
		return fmt.Errorf("max-candidates must be non-negative")
	}
	if c.NavigationTimeout <= 0 || c.SelectorTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle-delay must be non-negative")
	}
	if c.FeedFile == "" || c.IndexFile == "" {
		return fmt.Errorf("feed-file and index-file are required")
	}
	return nil
}

func (c *Cfg) FeedPath() string {
	return filepath.Join(c.OutputDir, c.FeedFile)
}

func (c *Cfg) IndexPath() string {
	return filepath.Join(c.OutputDir, c.IndexFile)
}

// ScreenshotPath is empty when screenshots are disabled.
func (c *Cfg) ScreenshotPath() string {
	if c.ScreenshotFile == "" {
		return ""
	}
	return filepath.Join(c.OutputDir, c.ScreenshotFile)
}

// ParsedBaseURL assumes Validate has already accepted BaseURL.
func (c *Cfg) ParsedBaseURL() *url.URL {
	u, _ := url.Parse(c.BaseURL)
	return u
}

func validateHTTPURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL: %q", name, raw)
	}
	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
