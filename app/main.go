package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/surmarxisme/schuman-rss/app/api"
	"github.com/surmarxisme/schuman-rss/app/cfg"
	"github.com/surmarxisme/schuman-rss/app/feed"
	"github.com/surmarxisme/schuman-rss/app/metrics"
	"github.com/surmarxisme/schuman-rss/app/render"
	"github.com/surmarxisme/schuman-rss/app/tasks"
)

func main() {
	os.Exit(run())
}

func run() int {
	appCfg, err := cfg.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}
	if appCfg == nil {
		// Help was shown
		return 0
	}

	setupLogger(appCfg.Debug)

	slog.Info("Starting feed generation",
		"version", appCfg.Version,
		"url", appCfg.TargetURL,
		"output_dir", appCfg.OutputDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	channel := feed.DefaultChannel()
	if appCfg.ChannelFile != "" {
		if channel, err = feed.LoadChannel(appCfg.ChannelFile); err != nil {
			return fail(err)
		}
	}

	runMetrics := metrics.New()

	browser := render.NewChromeBrowser(render.ChromeOptions{
		UserAgent:    appCfg.UserAgent,
		WindowWidth:  appCfg.WindowWidth,
		WindowHeight: appCfg.WindowHeight,
	})
	renderer := render.NewRenderer(browser, render.Options{
		URL:               appCfg.TargetURL,
		Selector:          appCfg.ArticleSelector,
		NavigationTimeout: appCfg.NavigationTimeout,
		SettleDelay:       appCfg.SettleDelay,
		SelectorTimeout:   appCfg.SelectorTimeout,
		ScreenshotPath:    appCfg.ScreenshotPath(),
	})

	baseURL := appCfg.ParsedBaseURL()
	task := tasks.NewGenerateFeedTask(renderer,
		feed.NewExtractor(appCfg.ArticleSelector, baseURL, appCfg.MaxCandidates),
		feed.NewBuilder(baseURL, appCfg.MaxArticles),
		feed.NewGenerator(),
		feed.NewParser(),
		channel,
		tasks.Output{
			FeedPath:  appCfg.FeedPath(),
			IndexPath: appCfg.IndexPath(),
			FeedLink:  appCfg.FeedFile,
		},
		runMetrics)

	task.Start()
	err = task.Execute(ctx)
	runMetrics.ObserveRun(tasks.Result(err), task.GetDuration(), time.Now())

	if appCfg.MetricsFile != "" {
		if mErr := runMetrics.WriteTextfile(appCfg.MetricsFile); mErr != nil {
			slog.Warn("Failed to write metrics textfile", "path", appCfg.MetricsFile, "error", mErr)
		}
	}

	if err != nil {
		return fail(err)
	}

	if appCfg.Serve {
		handler := api.NewHandler(appCfg.FeedPath(), appCfg.IndexPath(), appCfg.Version, runMetrics.Registry)
		if err := serve(ctx, api.NewServer(handler), appCfg.Port); err != nil {
			return fail(err)
		}
	}

	return 0
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// fail reports err with its full cause chain and returns the exit code.
func fail(err error) int {
	slog.Error("Feed generation failed", "error", err)

	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	printCauses(err, 1)
	return 1
}

func printCauses(err error, depth int) {
	var causes []error
	switch e := err.(type) {
	case interface{ Unwrap() error }:
		if cause := e.Unwrap(); cause != nil {
			causes = append(causes, cause)
		}
	case interface{ Unwrap() []error }:
		causes = e.Unwrap()
	}

	for _, cause := range causes {
		fmt.Fprintf(os.Stderr, "%*scaused by: %v\n", depth*2, "", cause)
		printCauses(cause, depth+1)
	}
}

func serve(ctx context.Context, handler http.Handler, port string) error {
	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting preview server", "port", port)
		slog.Info("Endpoints available",
			"feed", fmt.Sprintf("http://localhost:%s/feed.xml", port),
			"index", fmt.Sprintf("http://localhost:%s/", port),
			"health", fmt.Sprintf("http://localhost:%s/health", port),
			"metrics", fmt.Sprintf("http://localhost:%s/metrics", port))

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Received shutdown signal")
	case err := <-serverErrChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	slog.Info("Preview server stopped")
	return nil
}
