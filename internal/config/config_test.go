package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fuelcli/internal/errors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fuelcli.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFrom(t *testing.T) {
	sourceDir := t.TempDir()
	outputDir := t.TempDir()

	tests := []struct {
		name        string
		file        string
		env         map[string]string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults without file or env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "both", cfg.Logging.Output)
				assert.Equal(t, FormatXLSX, cfg.Pipeline.OutputFormat)
				assert.Equal(t, DefaultRunTimeout, cfg.Pipeline.Timeout)
				assert.Equal(t, TracingNone, cfg.Telemetry.Tracing)
				assert.True(t, filepath.IsAbs(cfg.Telemetry.TraceFile))
				assert.True(t, filepath.IsAbs(cfg.Pipeline.SourceDir))
				assert.Equal(t, cfg.Pipeline.SourceDir, cfg.Pipeline.OutputDir, "output defaults to the source folder")
				assert.True(t, filepath.IsAbs(cfg.Logging.FilePath))
			},
		},
		{
			name: "file overrides defaults and keeps absent keys",
			file: "pipeline:\n  source_dir: " + sourceDir + "\n  output_dir: " + outputDir +
				"\n  output_format: both\n  timeout: 2m\nlogging:\n  level: debug\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, sourceDir, cfg.Pipeline.SourceDir)
				assert.Equal(t, outputDir, cfg.Pipeline.OutputDir)
				assert.Equal(t, FormatBoth, cfg.Pipeline.OutputFormat)
				assert.Equal(t, 2*time.Minute, cfg.Pipeline.Timeout)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
		{
			name: "environment wins over file",
			file: "pipeline:\n  source_dir: " + sourceDir + "\n  output_format: csv\n",
			env: map[string]string{
				"FUEL_PIPELINE_OUTPUT_FORMAT":    "xlsx",
				"FUEL_PIPELINE_REFERENCE_DATE":   "2024-03-31",
				"FUEL_PIPELINE_TEMPLATE_COLUMNS": "PLACA,LITROS,KM/L",
				"FUEL_LOGGING_OUTPUT":            "console",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, FormatXLSX, cfg.Pipeline.OutputFormat)
				assert.Equal(t, "2024-03-31", cfg.Pipeline.ReferenceDate)
				assert.Equal(t, []string{"PLACA", "LITROS", "KM/L"}, cfg.Pipeline.TemplateColumns)
				assert.Equal(t, "console", cfg.Logging.Output)
			},
		},
		{
			name:    "invalid output format",
			file:    "pipeline:\n  source_dir: " + sourceDir + "\n  output_format: pdf\n",
			wantErr: true,
		},
		{
			name:    "invalid reference date",
			env:     map[string]string{"FUEL_PIPELINE_REFERENCE_DATE": "31/03/2024"},
			wantErr: true,
		},
		{
			name:    "file tracing without trace file",
			file:    "telemetry:\n  tracing: file\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "pipeline: [unclosed\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			configFile := ""
			if tt.file != "" {
				configFile = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFrom(configFile)
			if tt.wantErr {
				require.Error(t, err)
				assert.NotEqual(t, apperrors.ErrorType(""), apperrors.TypeOf(err))
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestReferenceDate(t *testing.T) {
	now := time.Date(2024, time.May, 10, 22, 30, 0, 0, time.Local)

	t.Run("empty means today", func(t *testing.T) {
		cfg := Default()
		ref, err := cfg.ReferenceDate(now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC), ref)
	})

	t.Run("configured date", func(t *testing.T) {
		cfg := Default()
		cfg.Pipeline.ReferenceDate = "2024-02-29"
		ref, err := cfg.ReferenceDate(now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), ref)
	})

	t.Run("bad date", func(t *testing.T) {
		cfg := Default()
		cfg.Pipeline.ReferenceDate = "2024-13-01"
		_, err := cfg.ReferenceDate(now)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrTypeConfig, apperrors.TypeOf(err))
	})
}

func TestTemplatePath(t *testing.T) {
	cfg := Default()
	cfg.Pipeline.SourceDir = filepath.Join(string(filepath.Separator), "srv", "planilhas")

	assert.Equal(t, filepath.Join(cfg.Pipeline.SourceDir, DefaultTemplate), cfg.TemplatePath())

	cfg.Pipeline.TemplateFile = "modelo.xlsx"
	assert.Equal(t, filepath.Join(cfg.Pipeline.SourceDir, "modelo.xlsx"), cfg.TemplatePath())

	abs := filepath.Join(t.TempDir(), "outro.xlsx")
	cfg.Pipeline.TemplateFile = abs
	assert.Equal(t, abs, cfg.TemplatePath())
}

func TestOutputFormats(t *testing.T) {
	tests := []struct {
		format   string
		wantXLSX bool
		wantCSV  bool
	}{
		{FormatXLSX, true, false},
		{FormatCSV, false, true},
		{FormatBoth, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			cfg := Default()
			cfg.Pipeline.OutputFormat = tt.format
			assert.Equal(t, tt.wantXLSX, cfg.WantsXLSX())
			assert.Equal(t, tt.wantCSV, cfg.WantsCSV())
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	root := t.TempDir()
	cfg := Default()
	cfg.Pipeline.OutputDir = filepath.Join(root, "reports", "2024")
	cfg.Logging.FilePath = filepath.Join(root, "logs", "fuelcli.log")

	require.NoError(t, cfg.EnsureDirectories())
	assert.DirExists(t, cfg.Pipeline.OutputDir)
	assert.DirExists(t, filepath.Join(root, "logs"))
}
