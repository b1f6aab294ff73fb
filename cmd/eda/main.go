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
	"text/tabwriter"

	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/config"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/exporter"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/infrastructure"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/services"
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

	logger = infrastructure.WithComponent(logger, "eda_cli")
	if err := run(ctx, cfg, os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		infrastructure.WithError(logger, err).Error("EDA failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	dataset      string
	baseDir      string
	delimiter    string
	sheet        string
	drop         string
	target       string
	text         string
	timestamp    string
	topN         int
	noClean      bool
	charts       bool
	workbook     bool
	cleaned      string
	distribution string
	list         bool
	match        string
	latest       bool
}

func parseFlags(cfg *config.Config, args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("eda", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.dataset, "data", cfg.Dataset.Path, "dataset file (.csv, .tsv or .xlsx)")
	fs.StringVar(&o.baseDir, "base", cfg.Paths.BaseDir, "base directory for data, charts and reports (defaults to the working directory)")
	fs.StringVar(&o.delimiter, "delimiter", cfg.Dataset.Delimiter, "CSV field delimiter")
	fs.StringVar(&o.sheet, "sheet", "", "worksheet to read from .xlsx input (defaults to the first)")
	fs.StringVar(&o.drop, "drop", strings.Join(cfg.Dataset.DropColumns, ","), "comma-separated columns to drop while cleaning")
	fs.StringVar(&o.target, "target", cfg.Analysis.TargetColumn, "label column")
	fs.StringVar(&o.text, "text", cfg.Analysis.TextColumn, "comment text column")
	fs.StringVar(&o.timestamp, "timestamp", cfg.Analysis.TimestampColumn, "posting time column")
	fs.IntVar(&o.topN, "top", cfg.Analysis.TopN, "number of frequent words to report")
	fs.BoolVar(&o.noClean, "no-clean", false, "analyse the dataset as loaded")
	fs.BoolVar(&o.charts, "charts", cfg.Analysis.RenderCharts, "render PNG charts")
	fs.BoolVar(&o.workbook, "xlsx", false, "export the report as an .xlsx workbook")
	fs.StringVar(&o.cleaned, "cleaned", "", "save the cleaned dataset here (.csv or .xlsx)")
	fs.StringVar(&o.distribution, "distribution", "", "write the label distribution CSV here")
	fs.BoolVar(&o.list, "list", false, "list the datasets in the raw data directory and exit")
	fs.StringVar(&o.match, "match", "", "with -list, only names matching this glob")
	fs.BoolVar(&o.latest, "latest", false, "analyse the most recently modified dataset in the raw data directory")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		o.dataset = fs.Arg(0)
	}
	return o, nil
}

func run(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer, logger *slog.Logger) error {
	o, err := parseFlags(cfg, args, os.Stderr)
	if err != nil {
		return err
	}

	cfg.Paths.BaseDir = o.baseDir
	cfg.Dataset.Delimiter = o.delimiter
	cfg.Analysis.RenderCharts = o.charts

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return err
	}

	ctx = infrastructure.EnsureTraceID(ctx)
	catalogue := services.NewDatasetService(paths, logger)
	if o.list {
		return listDatasets(ctx, catalogue, o.match, paths.RawDir, stdout)
	}
	if o.latest {
		latest, err := catalogue.Latest(ctx)
		if err != nil {
			return err
		}
		o.dataset = latest.RelPath
	}
	if o.dataset == "" {
		return errors.New("no dataset given: pass -data or a path argument")
	}
	if err := paths.EnsureDirectories(); err != nil {
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

	svc := services.NewAnalysisService(cfg, paths, providers.Tracer, metrics, logger)
	req := services.AnalysisRequest{
		DatasetPath:     o.dataset,
		Sheet:           o.sheet,
		DropColumns:     splitList(o.drop),
		TargetColumn:    o.target,
		TextColumn:      o.text,
		TimestampColumn: o.timestamp,
		TopN:            o.topN,
		SkipCleaning:    o.noClean,
		ExportWorkbook:  o.workbook,
		CleanedOutput:   o.cleaned,
	}

	result, err := svc.Analyze(ctx, req)
	if err != nil {
		return err
	}

	if err := result.Report.Print(stdout); err != nil {
		return err
	}

	if o.distribution != "" {
		if result.Report.Target == nil {
			logger.WarnContext(ctx, "No label distribution to export", slog.String("column", o.target))
		} else if err := exporter.NewCSVWriter(paths, logger).WriteDistribution(o.distribution, result.Report.Target); err != nil {
			return err
		}
	}

	fmt.Fprintln(stdout)
	if result.Cleaned != "" {
		fmt.Fprintf(stdout, "Cleaned dataset: %s\n", result.Cleaned)
	}
	if result.Workbook != "" {
		fmt.Fprintf(stdout, "Workbook: %s\n", result.Workbook)
	}
	if len(result.Charts) > 0 {
		fmt.Fprintf(stdout, "Charts (%d):\n", len(result.Charts))
		for _, c := range result.Charts {
			fmt.Fprintf(stdout, "  %s\n", c)
		}
	}
	return nil
}

func listDatasets(ctx context.Context, catalogue *services.DatasetService, match, rawDir string, stdout io.Writer) error {
	datasets, err := catalogue.List(ctx, match)
	if err != nil {
		return err
	}
	if len(datasets) == 0 {
		fmt.Fprintf(stdout, "No datasets in %s\n", rawDir)
		return nil
	}
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tFORMAT\tSIZE\tMODIFIED")
	for _, d := range datasets {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", d.RelPath, d.Format, d.Size, d.ModTime.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
