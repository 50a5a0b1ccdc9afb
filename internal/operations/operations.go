package operations

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fuelcli/internal/config"
	"fuelcli/internal/dataprocessing"
	apperrors "fuelcli/internal/errors"
	"fuelcli/internal/exporter"
	"fuelcli/internal/files"
	"fuelcli/internal/infrastructure"
	"fuelcli/pkg/contracts/domain"
)

// DefaultDependencies wires the spreadsheet reader, file discovery and the
// writers for the configured output format.
func DefaultDependencies(options Options, providers *infrastructure.OTelProviders, logger *slog.Logger) (Dependencies, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tracer, err := NewOperationTracer(providers)
	if err != nil {
		return Dependencies{}, fmt.Errorf("failed to create operation tracer: %w", err)
	}

	reader := dataprocessing.NewSpreadsheetReader(infrastructure.WithComponent(logger, "reader"))
	return Dependencies{
		Discovery: files.NewDiscovery("", config.SourceExtensions, config.GeneratedReportPrefixes),
		Reader:    reader,
		Templates: reader,
		Writers:   exporter.ForFormat(options.OutputFormat, options.OutputDir, infrastructure.WithComponent(logger, "exporter")),
		Tracer:    tracer,
		Logger:    logger,
	}, nil
}

// NewMonthlyReport builds the full report: aggregates, company listings,
// the daily summary and, when a template is available, the consolidation.
// A template that does not match the records fails the consolidation only;
// the other tables are still written.
func NewMonthlyReport(options Options, deps Dependencies) (*Manager, error) {
	deps = withDefaults(deps)
	steps := []Step{
		NewDiscoverStage(deps.Discovery, options, deps.Logger),
		NewLoadStage(deps.Reader, deps.Tracer, deps.Logger),
		NewNormalizeStage(deps.Tracer, deps.Logger),
		NewAggregateStage(),
		NewListingsStage(),
		NewDailyStage(),
		NewConsolidateStage(deps.Templates, options, false, deps.Tracer, deps.Logger),
		// consolidate is not a dependency: a failed consolidation must not
		// skip the write. Registering it before write keeps it first in line.
		NewWriteStage(deps.Writers, deps.Logger, StepIDAggregate, StepIDListings, StepIDDaily),
	}
	return newManager(steps, deps)
}

// NewConsumptionReport builds the daily consolidation report. The template
// is mandatory.
func NewConsumptionReport(options Options, deps Dependencies) (*Manager, error) {
	deps = withDefaults(deps)
	steps := []Step{
		NewDiscoverStage(deps.Discovery, options, deps.Logger),
		NewLoadStage(deps.Reader, deps.Tracer, deps.Logger),
		NewNormalizeStage(deps.Tracer, deps.Logger),
		NewConsolidateStage(deps.Templates, options, true, deps.Tracer, deps.Logger),
		NewWriteStage(deps.Writers, deps.Logger, StepIDConsolidate),
	}
	return newManager(steps, deps)
}

func withDefaults(deps Dependencies) Dependencies {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Tracer == nil {
		deps.Tracer, _ = NewOperationTracer(nil)
	}
	if deps.Discovery == nil {
		deps.Discovery = files.NewDiscovery("", config.SourceExtensions, config.GeneratedReportPrefixes)
	}
	if deps.Reader == nil {
		reader := dataprocessing.NewSpreadsheetReader(deps.Logger)
		deps.Reader = reader
		if deps.Templates == nil {
			deps.Templates = reader
		}
	}
	return deps
}

func newManager(steps []Step, deps Dependencies) (*Manager, error) {
	cfg := NewConfig()
	cfg.Deferred = func(err error) bool {
		return errors.Is(err, apperrors.ErrSchemaMismatch)
	}

	manager := NewManager(NewRegistry(), cfg, deps.Tracer, infrastructure.WithComponent(deps.Logger, "operations"))
	for _, step := range steps {
		if err := manager.RegisterStage(step); err != nil {
			return nil, fmt.Errorf("failed to register step %s: %w", step.ID(), err)
		}
	}
	return manager, nil
}

// ReportName returns the output name of a run
func ReportName(mode string, referenceDate time.Time) string {
	if mode == ModeConsumption {
		return config.ConsumptionReportName + "_" + referenceDate.Format(config.ConsumptionDateFormat)
	}
	return config.MonthlyReportName
}

// BuildReport assembles the tables gathered by a run into a report
func BuildReport(state *OperationState, generatedAt time.Time) domain.Report {
	tables := make([]domain.Table, len(state.Tables))
	copy(tables, state.Tables)
	return domain.Report{
		Name:        ReportName(state.Mode, state.ReferenceDate),
		GeneratedAt: generatedAt,
		Tables:      tables,
		Summary:     state.Summary,
	}
}
