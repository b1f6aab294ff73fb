package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "CBD"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Dataset   DatasetConfig   `yaml:"dataset" envconfig:"DATASET"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Scraper   ScraperConfig   `yaml:"scraper" envconfig:"SCRAPER"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	BaseDir    string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	ChartsDir  string `yaml:"charts_dir" envconfig:"CHARTS_DIR" validate:"required"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// DatasetConfig describes the labelled dataset and the cleaning steps applied to it.
type DatasetConfig struct {
	Path            string   `yaml:"path" envconfig:"PATH"`
	Delimiter       string   `yaml:"delimiter" envconfig:"DELIMITER" validate:"len=1"`
	NaNValues       []string `yaml:"nan_values" envconfig:"NAN_VALUES"`
	DropColumns     []string `yaml:"drop_columns" envconfig:"DROP_COLUMNS"`
	BracketedColumn string   `yaml:"bracketed_column" envconfig:"BRACKETED_COLUMN"`
	LanguageColumn  string   `yaml:"language_column" envconfig:"LANGUAGE_COLUMN"`
	DuplicateSubset []string `yaml:"duplicate_subset" envconfig:"DUPLICATE_SUBSET"`
	DropMissing     bool     `yaml:"drop_missing" envconfig:"DROP_MISSING"`
}

// AnalysisConfig holds the column names and knobs used by the exploratory analysis.
type AnalysisConfig struct {
	TargetColumn    string `yaml:"target_column" envconfig:"TARGET_COLUMN" validate:"required"`
	TextColumn      string `yaml:"text_column" envconfig:"TEXT_COLUMN" validate:"required"`
	TimestampColumn string `yaml:"timestamp_column" envconfig:"TIMESTAMP_COLUMN" validate:"required"`
	TopN            int    `yaml:"top_n" envconfig:"TOP_N" validate:"gte=1"`
	RenderCharts    bool   `yaml:"render_charts" envconfig:"RENDER_CHARTS"`
}

// ScraperConfig configures the comment ingestion utility.
type ScraperConfig struct {
	APIKey            string   `yaml:"api_key" envconfig:"API_KEY"`
	VideoIDs          []string `yaml:"video_ids" envconfig:"VIDEO_IDS"`
	MaxResults        int64    `yaml:"max_results" envconfig:"MAX_RESULTS" validate:"gte=1,lte=100"`
	MaxPages          int      `yaml:"max_pages" envconfig:"MAX_PAGES" validate:"gte=1"`
	RequestsPerSecond float64  `yaml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND" validate:"gt=0"`
	Concurrency       int      `yaml:"concurrency" envconfig:"CONCURRENCY" validate:"gte=1"`
	OutputFile        string   `yaml:"output_file" envconfig:"OUTPUT_FILE" validate:"required"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// TelemetryConfig selects the OpenTelemetry exporters.
type TelemetryConfig struct {
	ServiceName    string  `yaml:"service_name" envconfig:"SERVICE_NAME"`
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	EnableTracing  bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	EnableMetrics  bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// Load builds the configuration from defaults, then the optional YAML file,
// then CBD_* environment variables. Later sources win.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit config file path. An empty path skips the file.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			if err := loadFromFile(configFile, cfg); err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// normalize applies the fixed logging policy: JSON always, file path always set.
func (c *Config) normalize() {
	c.Logging.Format = "json"
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = (&Paths{LogsDir: c.Paths.LogsDir}).GetLogPath("app.log")
	}
	if c.Dataset.Delimiter == "" {
		c.Dataset.Delimiter = ","
	}
}

// Validate checks the struct-level constraints
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// ResolvePaths resolves the configured directories against BaseDir,
// defaulting to the working directory.
func (c *Config) ResolvePaths() (*Paths, error) {
	base := c.Paths.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	return NewPaths(base, c.Paths), nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG_FILE"); p != "" {
		return p
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
		"../../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "console",
		},
		Paths: PathsConfig{
			DataDir:    "data",
			ChartsDir:  "data/charts",
			ReportsDir: "data/reports",
			LogsDir:    "logs",
		},
		Dataset: DatasetConfig{
			Path:            "data/raw/labelled_comments.csv",
			Delimiter:       ",",
			NaNValues:       []string{"", "NA", "NaN", "N/A", "null", "<nil>"},
			BracketedColumn: "subcategory",
			LanguageColumn:  "language",
			DropMissing:     true,
		},
		Analysis: AnalysisConfig{
			TargetColumn:    "category",
			TextColumn:      "text",
			TimestampColumn: "published_at",
			TopN:            20,
			RenderCharts:    true,
		},
		Scraper: ScraperConfig{
			MaxResults:        100,
			MaxPages:          1,
			RequestsPerSecond: 5,
			Concurrency:       2,
			OutputFile:        "data/raw/sheng_bullying_data.csv",
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     10,
				Burst:   20,
			},
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "cbd-eda",
			Environment:    "development",
			EnableTracing:  false,
			TraceExporter:  "stdout",
			EnableMetrics:  true,
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
	}
}
