package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, ",", cfg.Dataset.Delimiter)
	assert.Equal(t, "subcategory", cfg.Dataset.BracketedColumn)
	assert.Equal(t, "language", cfg.Dataset.LanguageColumn)
	assert.Equal(t, "category", cfg.Analysis.TargetColumn)
	assert.Equal(t, "text", cfg.Analysis.TextColumn)
	assert.Equal(t, "published_at", cfg.Analysis.TimestampColumn)
	assert.Equal(t, 20, cfg.Analysis.TopN)
	assert.Equal(t, int64(100), cfg.Scraper.MaxResults)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no file and no env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, filepath.Join("logs", "app.log"), cfg.Logging.FilePath)
			},
		},
		{
			name: "file overrides defaults",
			file: `
analysis:
  target_column: sentiment
  top_n: 5
dataset:
  drop_columns: [id, source]
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "sentiment", cfg.Analysis.TargetColumn)
				assert.Equal(t, 5, cfg.Analysis.TopN)
				assert.Equal(t, []string{"id", "source"}, cfg.Dataset.DropColumns)
				// untouched fields keep their defaults
				assert.Equal(t, "text", cfg.Analysis.TextColumn)
			},
		},
		{
			name: "env overrides file",
			file: `
analysis:
  top_n: 5
`,
			env: map[string]string{
				"CBD_ANALYSIS_TOP_N":       "7",
				"CBD_SCRAPER_VIDEO_IDS":    "a,b",
				"CBD_SERVER_READ_TIMEOUT":  "3s",
				"CBD_LOGGING_LEVEL":        "debug",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7, cfg.Analysis.TopN)
				assert.Equal(t, []string{"a", "b"}, cfg.Scraper.VideoIDs)
				assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name:    "invalid yaml",
			file:    "analysis: [unclosed",
			wantErr: true,
		},
		{
			name:    "max results above api limit",
			env:     map[string]string{"CBD_SCRAPER_MAX_RESULTS": "500"},
			wantErr: true,
		},
		{
			name:    "unknown log level",
			env:     map[string]string{"CBD_LOGGING_LEVEL": "verbose"},
			wantErr: true,
		},
		{
			name:    "multi-character delimiter",
			env:     map[string]string{"CBD_DATASET_DELIMITER": ";;"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFrom(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFrom_MissingFileIsIgnored(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Analysis, cfg.Analysis)
}

func TestLoad_ConfigFileFromEnv(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 9191\n")
	t.Setenv("CBD_CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
}

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Paths.BaseDir = base

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "data"), paths.DataDir)
	assert.Equal(t, filepath.Join(base, "data", "charts"), paths.ChartsDir)
	assert.Equal(t, filepath.Join(base, "data", "reports", "eda_report.xlsx"), paths.ReportXLSX)
}

func TestLoadFrom_ExampleConfigMatchesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join("..", "..", "configs", "config.example.yaml"))
	require.NoError(t, err)

	def := Default()
	def.normalize()
	assert.Equal(t, def.Server, cfg.Server)
	assert.Equal(t, def.Analysis, cfg.Analysis)
	assert.Equal(t, def.Telemetry, cfg.Telemetry)
	assert.Equal(t, def.Scraper.OutputFile, cfg.Scraper.OutputFile)
}
