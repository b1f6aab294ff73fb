package scraper

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/config"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/exporter"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/infrastructure"
)

// Options tunes a Fetcher. Zero values fall back to one page of 100
// comments, 5 requests per second and two videos at a time.
type Options struct {
	MaxResults        int64
	MaxPages          int
	RequestsPerSecond float64
	Concurrency       int
}

// OptionsFromConfig maps the scraper config section onto Options.
func OptionsFromConfig(cfg config.ScraperConfig) Options {
	return Options{
		MaxResults:        cfg.MaxResults,
		MaxPages:          cfg.MaxPages,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Concurrency:       cfg.Concurrency,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxResults <= 0 || o.MaxResults > MaxPageSize {
		o.MaxResults = MaxPageSize
	}
	if o.MaxPages <= 0 {
		o.MaxPages = 1
	}
	if o.RequestsPerSecond <= 0 {
		o.RequestsPerSecond = 5
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 2
	}
	return o
}

// VideoComments is the comment text fetched for one video.
type VideoComments struct {
	VideoID  string   `json:"video_id"`
	Comments []string `json:"comments"`
	Pages    int      `json:"pages"`
}

// Fetcher follows page tokens for one or more videos. All requests share
// one rate limiter.
type Fetcher struct {
	lister  CommentLister
	opts    Options
	limiter *rate.Limiter
	logger  *slog.Logger
	metrics *infrastructure.AnalysisMetrics
}

// NewFetcher creates a fetcher. metrics may be nil.
func NewFetcher(lister CommentLister, opts Options, logger *slog.Logger, metrics *infrastructure.AnalysisMetrics) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	opts = opts.withDefaults()
	return &Fetcher{
		lister:  lister,
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		logger:  logger.With(slog.String("component", "scraper")),
		metrics: metrics,
	}
}

// FetchComments returns the comments of videoID, reading at most MaxPages pages.
func (f *Fetcher) FetchComments(ctx context.Context, videoID string) (*VideoComments, error) {
	start := time.Now()
	vc := &VideoComments{VideoID: videoID, Comments: []string{}}

	token := ""
	for vc.Pages < f.opts.MaxPages {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		page, err := f.lister.ListComments(ctx, videoID, token, f.opts.MaxResults)
		if err != nil {
			f.logger.ErrorContext(ctx, "Failed to list comments",
				slog.String("video_id", videoID),
				slog.Int("page", vc.Pages+1),
				slog.String("error", err.Error()))
			return nil, err
		}
		vc.Pages++
		vc.Comments = append(vc.Comments, page.Comments...)

		if page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
	}

	if f.metrics != nil {
		f.metrics.CommentsFetched.Add(ctx, int64(len(vc.Comments)),
			metric.WithAttributes(attribute.String("video_id", videoID)))
	}
	f.logger.InfoContext(ctx, "Fetched comments",
		slog.String("video_id", videoID),
		slog.Int("comments", len(vc.Comments)),
		slog.Int("pages", vc.Pages),
		slog.Duration("duration", time.Since(start)))
	return vc, nil
}

// FetchAll fetches every video with at most Concurrency requests in flight.
// Results are in the order of videoIDs. The first failure cancels the rest.
func (f *Fetcher) FetchAll(ctx context.Context, videoIDs []string) ([]*VideoComments, error) {
	results := make([]*VideoComments, len(videoIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.opts.Concurrency)
	for i, id := range videoIDs {
		g.Go(func() error {
			vc, err := f.FetchComments(gctx, id)
			if err != nil {
				return err
			}
			results[i] = vc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Flatten joins the comments of every video in order.
func Flatten(videos []*VideoComments) []string {
	var out []string
	for _, v := range videos {
		out = append(out, v.Comments...)
	}
	return out
}

// WriteCommentsCSV writes comments under a single comment_text header,
// replacing the file unless appendTo is set.
func WriteCommentsCSV(path string, comments []string, appendTo bool, paths *config.Paths, logger *slog.Logger) error {
	w := exporter.NewCSVWriter(paths, logger)
	if appendTo {
		return w.AppendComments(path, comments)
	}
	return w.WriteComments(path, comments)
}
