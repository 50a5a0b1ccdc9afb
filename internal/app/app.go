package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"fuelcli/internal/config"
	apperrors "fuelcli/internal/errors"
	"fuelcli/internal/infrastructure"
	"fuelcli/internal/operations"
)

// Process exit codes
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitNoData         = 2
	ExitSchemaMismatch = 3
	ExitConfig         = 4
)

// Overrides are command line values layered over the loaded configuration.
// Empty fields leave the configuration untouched.
type Overrides struct {
	SourceDir     string
	OutputDir     string
	TemplateFile  string
	OutputFormat  string
	ReferenceDate string
	Schedule      string
}

// ApplyOverrides copies the non-empty overrides into cfg and validates the
// result. Relative directories are resolved against the working directory.
func ApplyOverrides(cfg *config.Config, o Overrides) error {
	if o.SourceDir != "" {
		dir, err := filepath.Abs(o.SourceDir)
		if err != nil {
			return apperrors.NewConfigError("invalid source directory", err)
		}
		// An output directory that only defaulted to the sources follows them.
		if cfg.Pipeline.OutputDir == cfg.Pipeline.SourceDir && o.OutputDir == "" {
			cfg.Pipeline.OutputDir = dir
		}
		cfg.Pipeline.SourceDir = dir
	}
	if o.OutputDir != "" {
		dir, err := filepath.Abs(o.OutputDir)
		if err != nil {
			return apperrors.NewConfigError("invalid output directory", err)
		}
		cfg.Pipeline.OutputDir = dir
	}
	if o.TemplateFile != "" {
		cfg.Pipeline.TemplateFile = o.TemplateFile
	}
	if o.OutputFormat != "" {
		cfg.Pipeline.OutputFormat = o.OutputFormat
	}
	if o.ReferenceDate != "" {
		cfg.Pipeline.ReferenceDate = o.ReferenceDate
	}
	if o.Schedule != "" {
		cfg.Pipeline.Schedule = o.Schedule
	}
	return cfg.Validate()
}

// BindFlags registers the command line flags shared by the report commands
func BindFlags(fs *flag.FlagSet, o *Overrides, configFile *string) {
	fs.StringVar(configFile, "config", "", "configuration file (defaults to fuelcli.yaml or configs/fuelcli.yaml)")
	fs.StringVar(&o.SourceDir, "source", "", "folder holding the source spreadsheets")
	fs.StringVar(&o.OutputDir, "out", "", "output folder (defaults to the source folder)")
	fs.StringVar(&o.TemplateFile, "template", "", "consolidation template file")
	fs.StringVar(&o.OutputFormat, "format", "", "output format: xlsx, csv or both")
	fs.StringVar(&o.ReferenceDate, "date", "", "reference date YYYY-MM-DD (defaults to today)")
}

// LoadConfig loads configuration from configFile, or from the well-known
// locations when it is empty, then applies the overrides.
func LoadConfig(configFile string, o Overrides) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadFrom(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := ApplyOverrides(cfg, o); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Application wires configuration, logging and telemetry around report runs
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders

	// now is replaceable in tests
	now func() time.Time
}

// NewApplication initializes logging and telemetry for cfg
func NewApplication(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	if paths, err := config.GetPaths(); err == nil {
		paths.LogPathResolution(logger)
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("source_dir", cfg.Pipeline.SourceDir),
		slog.String("output_dir", cfg.Pipeline.OutputDir),
		slog.String("output_format", cfg.Pipeline.OutputFormat))

	return &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
		now:           time.Now,
	}, nil
}

// RunReport executes one run of the given mode and flushes the run metrics
func (a *Application) RunReport(ctx context.Context, mode string) (*operations.OperationResponse, error) {
	ref, err := a.Config.ReferenceDate(a.now())
	if err != nil {
		return nil, err
	}

	ctx = infrastructure.EnsureTraceID(ctx)
	if a.Config.Pipeline.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Config.Pipeline.Timeout)
		defer cancel()
	}

	options := operations.OptionsFromConfig(a.Config)
	deps, err := operations.DefaultDependencies(options, a.OTelProviders, a.Logger)
	if err != nil {
		return nil, err
	}

	var manager *operations.Manager
	switch mode {
	case operations.ModeConsumption:
		manager, err = operations.NewConsumptionReport(options, deps)
	case operations.ModeMonthly:
		manager, err = operations.NewMonthlyReport(options, deps)
	default:
		return nil, apperrors.NewConfigError(fmt.Sprintf("unknown report mode %q", mode), nil)
	}
	if err != nil {
		return nil, err
	}

	resp, runErr := manager.Execute(ctx, operations.OperationRequest{
		ID:            infrastructure.GetTraceID(ctx),
		Mode:          mode,
		ReferenceDate: ref,
	})
	a.logSummary(ctx, resp)

	if err := a.OTelProviders.FlushMetrics(); err != nil {
		a.Logger.WarnContext(ctx, "Failed to write metrics", slog.String("error", err.Error()))
	}
	return resp, runErr
}

func (a *Application) logSummary(ctx context.Context, resp *operations.OperationResponse) {
	if resp == nil {
		return
	}
	s := resp.Summary
	level := slog.LevelInfo
	if len(s.FailedSources) > 0 || s.UnparseableDates > 0 || s.UnparseableNumbers > 0 || s.ConsolidationFailed {
		level = slog.LevelWarn
	}
	a.Logger.Log(ctx, level, "Run summary",
		slog.String("operation_id", resp.ID),
		slog.String("status", string(resp.Status)),
		slog.Duration("duration", resp.Duration),
		slog.Int("sources_found", s.SourcesFound),
		slog.Int("sources_read", s.SourcesRead),
		slog.Any("failed_sources", s.FailedSources),
		slog.Int("records", s.Records),
		slog.Int("unparseable_dates", s.UnparseableDates),
		slog.Int("unparseable_numbers", s.UnparseableNumbers),
		slog.Int("unbucketed_records", s.UnbucketedRecords),
		slog.Int("consolidated_groups", s.ConsolidatedGroups),
		slog.Int("degenerate_groups", s.DegenerateGroups),
		slog.Bool("consolidation_failed", s.ConsolidationFailed),
		slog.Any("outputs", resp.Outputs))
}

// RunScheduled runs mode on the configured cron schedule until ctx is done.
// A run still in progress when the next one is due makes that one skip.
func (a *Application) RunScheduled(ctx context.Context, mode string) error {
	spec := a.Config.Pipeline.Schedule
	if spec == "" {
		return apperrors.NewConfigError("no schedule configured", nil)
	}

	cronLogger := cronLog{logger: infrastructure.WithComponent(a.Logger, "scheduler")}
	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	_, err := c.AddFunc(spec, func() {
		// Each tick computes its own reference date from the clock.
		if _, err := a.RunReport(ctx, mode); err != nil {
			a.Logger.ErrorContext(ctx, "Scheduled run failed",
				slog.String("mode", mode),
				slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return apperrors.NewConfigError("invalid schedule", err).WithContext("schedule", spec)
	}

	a.Logger.InfoContext(ctx, "Scheduler started",
		slog.String("mode", mode),
		slog.String("schedule", spec))
	c.Start()

	<-ctx.Done()
	a.Logger.InfoContext(ctx, "Scheduler stopping")
	<-c.Stop().Done()
	return nil
}

// Stop flushes telemetry and closes the log file
func (a *Application) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var errs []error
	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, fmt.Errorf("log file close: %w", err))
	}
	return errors.Join(errs...)
}

// ExitCode maps a run error to the process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, apperrors.ErrNoDataAvailable):
		return ExitNoData
	case errors.Is(err, apperrors.ErrSchemaMismatch):
		return ExitSchemaMismatch
	}
	switch apperrors.TypeOf(err) {
	case apperrors.ErrTypeConfig, apperrors.ErrTypeValidation:
		return ExitConfig
	}
	return ExitFailure
}

// cronLog adapts slog to the cron.Logger interface
type cronLog struct {
	logger *slog.Logger
}

func (l cronLog) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLog) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
