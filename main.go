// go_channels — YouTube/Twitch channel discovery for social identities.
//
// Reads a CSV of identities (username, profile_name, url, followers),
// searches the web for each identity's YouTube and Twitch channels
// through rotating proxies, and writes a timestamped results CSV with
// the best-scoring channel per platform.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go_channels/internal/finder"
	"github.com/anatolykoptev/go_channels/internal/match"
	"github.com/anatolykoptev/go_channels/internal/table"
)

var (
	inputCSV   = env.Str("INPUT_CSV", "input.csv")
	proxyCSV   = env.Str("PROXY_CSV", "proxies.csv")
	outputDir  = env.Str("OUTPUT_DIR", ".")
	logLevel   = env.Str("LOG_LEVEL", "info")
	maxResults = env.Int("MAX_RESULTS", 5)
)

func main() {
	initLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("run failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	in, err := os.Open(inputCSV)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	tbl, err := table.Load(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("load %s: %w", inputCSV, err)
	}
	slog.Info("input loaded", slog.String("file", inputCSV), slog.Int("rows", tbl.Len()))

	pool := finder.LoadProxies(proxyCSV)
	slog.Info("proxy pool ready", slog.Int("proxies", pool.Len()))

	engine := finder.NewSearchEngine(finder.NewClient(), pool)
	cf := finder.NewChannelFinder(engine, match.NewNameMatcher(), maxResults)
	batch := finder.NewBatchProcessor(cf)

	start := time.Now()
	out := batch.Process(ctx, tbl, logReporter{})
	slog.Info("batch finished",
		slog.Int("rows", out.Len()),
		slog.Duration("elapsed", time.Since(start)))

	path := filepath.Join(outputDir, table.ResultsFilename(time.Now()))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := out.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	slog.Info("results written", slog.String("file", path))
	fmt.Print(finder.FormatMetrics())
	return nil
}

func initLogging() {
	level := slog.LevelInfo
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// logReporter satisfies the progress interface with structured logs.
// A UI front-end would supply its own implementation.
type logReporter struct{}

func (logReporter) Progress(fraction float64) {
	slog.Debug("progress", slog.String("done", fmt.Sprintf("%.0f%%", fraction*100)))
}

func (logReporter) Status(message string) {
	slog.Info(message)
}
