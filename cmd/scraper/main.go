package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"google.golang.org/api/option"

	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/config"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/infrastructure"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/scraper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config, using defaults: %v\n", err)
		cfg = config.Default()
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger, using console defaults: %v\n", err)
		if logger, err = infrastructure.InitializeLogger(infrastructure.DefaultConfig()); err != nil {
			logger = slog.Default()
		}
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger = infrastructure.WithComponent(logger, "scraper_cli")
	if err := run(ctx, cfg, os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		infrastructure.WithError(logger, err).Error("Scraper failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// videoList collects -video flags; each may hold comma-separated ids.
type videoList []string

func (v *videoList) String() string { return strings.Join(*v, ",") }

func (v *videoList) Set(s string) error {
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			*v = append(*v, id)
		}
	}
	return nil
}

func run(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer, logger *slog.Logger) error {
	var videos videoList
	fs := flag.NewFlagSet("scraper", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Var(&videos, "video", "video id to fetch comments for (repeatable, comma-separated)")
	apiKey := fs.String("api-key", cfg.Scraper.APIKey, "YouTube Data API key (or CBD_SCRAPER_API_KEY)")
	out := fs.String("out", cfg.Scraper.OutputFile, "output CSV path")
	base := fs.String("base", cfg.Paths.BaseDir, "base directory for relative output paths")
	maxResults := fs.Int64("max-results", cfg.Scraper.MaxResults, "comments per page (1-100)")
	pages := fs.Int("pages", cfg.Scraper.MaxPages, "maximum pages per video")
	rps := fs.Float64("rps", cfg.Scraper.RequestsPerSecond, "API requests per second")
	concurrency := fs.Int("concurrency", cfg.Scraper.Concurrency, "videos fetched in parallel")
	endpoint := fs.String("endpoint", "", "override the API base URL")
	appendOut := fs.Bool("append", false, "append to the output CSV instead of replacing it")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if len(videos) == 0 {
		videos = append(videos, cfg.Scraper.VideoIDs...)
	}
	if len(videos) == 0 {
		return errors.New("no video ids given: pass -video")
	}

	ctx = infrastructure.EnsureTraceID(ctx)
	cfg.Paths.BaseDir = *base
	cfg.Scraper.MaxResults = *maxResults
	cfg.Scraper.MaxPages = *pages
	cfg.Scraper.RequestsPerSecond = *rps
	cfg.Scraper.Concurrency = *concurrency
	paths, err := cfg.ResolvePaths()
	if err != nil {
		return err
	}

	var clientOpts []option.ClientOption
	if *endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(*endpoint))
	}
	lister, err := scraper.NewYouTubeLister(ctx, *apiKey, clientOpts...)
	if err != nil {
		return err
	}

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return err
	}
	defer providers.Shutdown(context.WithoutCancel(ctx))
	metrics, err := infrastructure.CreateAnalysisMetrics(providers.Meter)
	if err != nil {
		return err
	}

	fetcher := scraper.NewFetcher(lister, scraper.OptionsFromConfig(cfg.Scraper), logger, metrics)

	results, err := fetcher.FetchAll(ctx, videos)
	if err != nil {
		return err
	}

	comments := scraper.Flatten(results)
	outPath := paths.Resolve(*out)
	if err := scraper.WriteCommentsCSV(outPath, comments, *appendOut, paths, logger); err != nil {
		return err
	}

	for _, r := range results {
		fmt.Fprintf(stdout, "%s: %d comments (%d pages)\n", r.VideoID, len(r.Comments), r.Pages)
	}
	fmt.Fprintf(stdout, "Saved %d comments to %s\n", len(comments), outPath)
	return nil
}
