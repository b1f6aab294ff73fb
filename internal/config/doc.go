// Package config provides centralized configuration management for the
// dataset preparation and EDA tools. It loads configuration from defaults, an
// optional YAML file and CBD_* environment variables, validates it, and
// resolves the directory layout used by every binary.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (config.yaml, configs/config.yaml, or CBD_CONFIG_FILE)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// Nested sections are joined with underscores:
//
//	CBD_LOGGING_LEVEL=debug
//	CBD_DATASET_PATH=data/raw/labelled_comments.csv
//	CBD_DATASET_DROP_COLUMNS=id,source
//	CBD_ANALYSIS_TOP_N=30
//	CBD_SCRAPER_API_KEY=...
//	CBD_SCRAPER_VIDEO_IDS=kY3LRE7_2S0,abc123
//	CBD_SERVER_PORT=8080
//
// # Path Management
//
// Paths resolves the data, charts, reports and logs directories against a
// base directory (the working directory unless paths.base_dir is set):
//
//	paths, err := cfg.ResolvePaths()
//	chart := paths.GetChartPath("distribution_of_category.png")
//
// # Validation
//
// Struct tags are checked with go-playground/validator at load time.
package config
