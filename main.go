// Package main provides the catscan CLI entrypoint.
//
// catscan measures how much of each ZIA custom URL category is already
// covered by Zscaler's own URL classification database. Without flags it
// runs an interactive TUI; with -categories it runs headless for scripted
// use.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/zscaler-hero/catscan/analyzer"
	"github.com/zscaler-hero/catscan/config"
	"github.com/zscaler-hero/catscan/report"
	"github.com/zscaler-hero/catscan/tui"
	"github.com/zscaler-hero/catscan/zia"
)

func main() {
	configPath := flag.String("config", "catscan.yaml", "path to optional YAML configuration file")
	categories := flag.String("categories", "", "comma-separated category IDs, or 'all', for a non-interactive run")
	outputDir := flag.String("output-dir", "", "directory for exported reports (default from config)")
	formats := flag.String("formats", "", "comma-separated export formats: csv, xlsx, json (default from config)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	// .env carries the OAuth credentials, same as the ZSCALER_* variables.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath, flagPassed("config"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *formats != "" {
		cfg.Output.Formats = splitList(*formats)
	}

	interactive := *categories == ""
	setupLogging(cfg.Logging.Level, *debug, interactive)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	meta := report.Meta{RunID: uuid.NewString(), GeneratedAt: time.Now()}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	httpClient := zia.NewHTTPClient(ctx, cfg.Identity.BaseURL, cfg.Identity.ClientID, cfg.Identity.ClientSecret)
	client := zia.NewClient(httpClient, cfg.API.BaseURL)

	pipelineCfg := analyzer.Config{
		MaxBatchSize:    cfg.Lookup.MaxBatchSize,
		MinCallInterval: cfg.Lookup.MinCallInterval(),
		Retry: analyzer.RetryPolicy{
			MaxAttempts: cfg.Lookup.MaxAttempts,
			BaseDelay:   cfg.Lookup.BaseDelay(),
			MaxDelay:    cfg.Lookup.MaxDelay(),
		},
	}

	if interactive {
		model := tui.NewModel(ctx, cancel, client, pipelineCfg, cfg.Output, meta)
		program := tea.NewProgram(model)
		finalModel, err := program.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		final := finalModel.(tui.Model)
		if final.Err() != nil || final.HasFailures() {
			os.Exit(1)
		}
		return
	}

	if err := runHeadless(ctx, client, pipelineCfg, cfg, meta, *categories); err != nil {
		slog.Error("Run failed", "error", err)
		os.Exit(1)
	}
}

// setupLogging configures the process-wide slog handler. Interactive runs
// keep the terminal for the TUI, so they only surface warnings unless
// debug logging is forced on.
func setupLogging(level string, debug, interactive bool) {
	slogLevel := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	}
	if debug {
		slogLevel = slog.LevelDebug
	} else if interactive && slogLevel < slog.LevelWarn {
		slogLevel = slog.LevelWarn
	}

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	})))
}

// runHeadless analyzes the selected categories without the TUI: progress
// on the log, full reports on stdout, exports on disk. Lookup failures
// surface as a non-zero exit so scripted runs notice degraded results.
func runHeadless(ctx context.Context, client *zia.Client, pipelineCfg analyzer.Config, cfg config.Config, meta report.Meta, selection string) error {
	slog.Info("Run starting", "run_id", meta.RunID)

	custom, err := client.CustomCategories(ctx)
	if err != nil {
		return fmt.Errorf("fetch custom categories: %w", err)
	}
	slog.Info("Fetched custom categories", "count", len(custom))

	ids := resolveSelection(selection, custom)
	if len(ids) == 0 {
		return fmt.Errorf("no matching categories for selection %q", selection)
	}

	events := make(chan analyzer.Event, 100)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		logEvents(events)
	}()

	ana := analyzer.New(pipelineCfg, client, events)
	reports, runErr := ana.Run(ctx, ids)
	close(events)
	<-drained
	if runErr != nil {
		return runErr
	}

	for _, rep := range reports {
		report.PrintReport(os.Stdout, rep)
	}

	paths, err := report.Export(cfg.Output.Dir, meta, reports, cfg.Output.Formats)
	if err != nil {
		return fmt.Errorf("export reports: %w", err)
	}
	for _, path := range paths {
		slog.Info("Report written", "path", path)
	}

	for _, rep := range reports {
		if rep.Summary.HasFailures() {
			return fmt.Errorf("category %s had %d URLs that could not be looked up", rep.Summary.Category, rep.Summary.FailedURLs)
		}
	}
	return nil
}

// logEvents mirrors pipeline progress onto the log until the channel
// closes.
func logEvents(events <-chan analyzer.Event) {
	for evt := range events {
		switch evt.Kind {
		case analyzer.EventCategoryStart:
			slog.Info("Analyzing category", "category", evt.Category, "urls", evt.Total, "batches", evt.BatchCount)
		case analyzer.EventBatch:
			if evt.Err != "" {
				slog.Warn("Batch failed", "category", evt.Category, "batch", evt.BatchIndex, "of", evt.BatchCount, "attempts", evt.Attempts, "error", evt.Err)
			} else {
				slog.Debug("Batch done", "category", evt.Category, "batch", evt.BatchIndex, "of", evt.BatchCount, "looked_up", evt.LookedUp)
			}
		case analyzer.EventCategoryDone:
			slog.Info("Category done", "category", evt.Category, "looked_up", evt.LookedUp, "failed", evt.Failed)
		case analyzer.EventCategoryError:
			slog.Error("Category skipped", "category", evt.Category, "error", evt.Err)
		}
	}
}

// resolveSelection maps the -categories flag onto category IDs: "all"
// selects every custom category, otherwise IDs are matched exactly and
// unknown ones are skipped with a warning.
func resolveSelection(selection string, custom []zia.Category) []string {
	if strings.EqualFold(strings.TrimSpace(selection), "all") {
		ids := make([]string, 0, len(custom))
		for _, cat := range custom {
			ids = append(ids, cat.ID)
		}
		return ids
	}

	known := make(map[string]bool, len(custom))
	for _, cat := range custom {
		known[cat.ID] = true
	}

	var ids []string
	for _, id := range splitList(selection) {
		if !known[id] {
			slog.Warn("Skipping unknown category", "id", id)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// splitList splits a comma-separated flag value, trimming blanks.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func flagPassed(name string) bool {
	passed := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			passed = true
		}
	})
	return passed
}
