package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "fuelcli/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PipelineConfig describes one report run: where the sources live, the
// consolidation template, the reference date and how the report is written.
type PipelineConfig struct {
	SourceDir       string        `yaml:"source_dir" envconfig:"SOURCE_DIR" validate:"required"`
	OutputDir       string        `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	TemplateFile    string        `yaml:"template_file" envconfig:"TEMPLATE_FILE"`
	TemplateColumns []string      `yaml:"template_columns" envconfig:"TEMPLATE_COLUMNS"`
	ReferenceDate   string        `yaml:"reference_date" envconfig:"REFERENCE_DATE" validate:"omitempty,datetime=2006-01-02"`
	OutputFormat    string        `yaml:"output_format" envconfig:"OUTPUT_FORMAT" validate:"oneof=xlsx csv both"`
	Schedule        string        `yaml:"schedule" envconfig:"SCHEDULE"`
	Timeout         time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gte=0"`
}

// TelemetryConfig controls run tracing and the metrics textfile.
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	Tracing     string `yaml:"tracing" envconfig:"TRACING" validate:"oneof=none stdout file"`
	TraceFile   string `yaml:"trace_file" envconfig:"TRACE_FILE" validate:"required_if=Tracing file"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load loads configuration from the first config file found in the
// well-known locations, then .env and environment variables.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom layers configuration sources onto Default():
// YAML file (when configFile is not empty), .env, then FUEL_* variables.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("file", configFile)
		}
	}

	if err := loadDotEnv(); err != nil {
		return nil, apperrors.NewConfigError("failed to load .env file", err)
	}

	// Unset variables keep the values from the file and defaults.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, apperrors.NewConfigError("failed to resolve paths", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; absent keys keep their value.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func loadDotEnv() error {
	candidates := []string{EnvFile}
	if paths, err := GetPaths(); err == nil {
		candidates = append(candidates, filepath.Join(paths.ExecutableDir, EnvFile))
	}

	for _, candidate := range candidates {
		if !FileExists(candidate) {
			continue
		}
		// godotenv never overrides variables already set in the process.
		if err := godotenv.Load(candidate); err != nil {
			return fmt.Errorf("%s: %w", candidate, err)
		}
	}
	return nil
}

// resolvePaths makes every relative path absolute against the executable directory.
func (c *Config) resolvePaths() error {
	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}

	c.Pipeline.SourceDir = paths.Resolve(c.Pipeline.SourceDir)
	if c.Pipeline.OutputDir == "" {
		c.Pipeline.OutputDir = c.Pipeline.SourceDir
	} else {
		c.Pipeline.OutputDir = paths.Resolve(c.Pipeline.OutputDir)
	}
	if c.Logging.FilePath != "" {
		c.Logging.FilePath = paths.Resolve(c.Logging.FilePath)
	}
	if c.Telemetry.TraceFile != "" {
		c.Telemetry.TraceFile = paths.Resolve(c.Telemetry.TraceFile)
	}
	if c.Telemetry.MetricsFile != "" {
		c.Telemetry.MetricsFile = paths.Resolve(c.Telemetry.MetricsFile)
	}
	return nil
}

// Validate checks the configuration against its validate tags.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return apperrors.NewAppValidationError("invalid configuration: " + strings.Join(msgs, "; "))
		}
		return apperrors.NewConfigError("config validation failed", err)
	}
	return nil
}

// TemplatePath returns the consolidation template location. A bare file
// name is looked up inside the source directory.
func (c *Config) TemplatePath() string {
	tpl := c.Pipeline.TemplateFile
	if tpl == "" {
		tpl = DefaultTemplate
	}
	if filepath.IsAbs(tpl) || strings.ContainsRune(tpl, filepath.Separator) {
		return tpl
	}
	return filepath.Join(c.Pipeline.SourceDir, tpl)
}

// ReferenceDate returns the consolidation cut-off date as midnight UTC.
// An empty setting means the calendar date of now.
func (c *Config) ReferenceDate(now time.Time) (time.Time, error) {
	if c.Pipeline.ReferenceDate == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	ref, err := time.Parse(ReferenceDateLayout, c.Pipeline.ReferenceDate)
	if err != nil {
		return time.Time{}, apperrors.NewConfigError("invalid reference date", err).
			WithContext("reference_date", c.Pipeline.ReferenceDate)
	}
	return ref, nil
}

// WantsXLSX reports whether the configured output format includes a workbook.
func (c *Config) WantsXLSX() bool {
	return c.Pipeline.OutputFormat == FormatXLSX || c.Pipeline.OutputFormat == FormatBoth
}

// WantsCSV reports whether the configured output format includes CSV files.
func (c *Config) WantsCSV() bool {
	return c.Pipeline.OutputFormat == FormatCSV || c.Pipeline.OutputFormat == FormatBoth
}

// EnsureDirectories creates the output and log directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Pipeline.OutputDir}
	if c.Logging.Output != "console" && c.Logging.FilePath != "" {
		dirs = append(dirs, filepath.Dir(c.Logging.FilePath))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to create directory %s", dir), err)
		}
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"fuelcli.yaml",
		"configs/fuelcli.yaml",
	}
	if paths, err := GetPaths(); err == nil {
		locations = append(locations,
			filepath.Join(paths.ExecutableDir, "fuelcli.yaml"),
			filepath.Join(paths.ExecutableDir, "configs", "fuelcli.yaml"))
	}

	for _, location := range locations {
		if FileExists(location) {
			return location
		}
	}

	return "" // defaults and env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "both",
			FilePath: DefaultLogFile,
		},
		Pipeline: PipelineConfig{
			SourceDir:    DefaultSourcesDir,
			OutputFormat: FormatXLSX,
			Timeout:      DefaultRunTimeout,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "fuelcli",
			Tracing:     TracingNone,
			TraceFile:   DefaultTraceFile,
			MetricsFile: DefaultMetricsFile,
		},
	}
}
