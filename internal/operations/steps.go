package operations

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"fuelcli/internal/config"
	"fuelcli/internal/dataprocessing"
	apperrors "fuelcli/internal/errors"
	"fuelcli/internal/exporter"
	"fuelcli/internal/files"
)

// Options carries the run settings the steps need
type Options struct {
	SourceDir       string
	OutputDir       string
	TemplatePath    string
	TemplateColumns []string
	OutputFormat    string
}

// OptionsFromConfig extracts step options from the application config
func OptionsFromConfig(cfg *config.Config) Options {
	outputDir := cfg.Pipeline.OutputDir
	if outputDir == "" {
		outputDir = cfg.Pipeline.SourceDir
	}
	return Options{
		SourceDir:       cfg.Pipeline.SourceDir,
		OutputDir:       outputDir,
		TemplatePath:    cfg.TemplatePath(),
		TemplateColumns: cfg.Pipeline.TemplateColumns,
		OutputFormat:    cfg.Pipeline.OutputFormat,
	}
}

// Dependencies are the collaborators shared by the steps
type Dependencies struct {
	Discovery *files.Discovery
	Reader    dataprocessing.SourceReader
	Templates dataprocessing.TemplateLoader
	Writers   []exporter.ReportWriter
	Tracer    *OperationTracer
	Logger    *slog.Logger
}

// stepLogger returns a logger tagged with the step ID
func stepLogger(logger *slog.Logger, stepID string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("step", stepID))
}

// DiscoverStage lists the source spreadsheets
type DiscoverStage struct {
	BaseStage
	discovery *files.Discovery
	options   Options
	logger    *slog.Logger
}

// NewDiscoverStage creates the discovery step
func NewDiscoverStage(discovery *files.Discovery, options Options, logger *slog.Logger) *DiscoverStage {
	return &DiscoverStage{
		BaseStage: NewBaseStage(StepIDDiscover, StepNameDiscover, nil),
		discovery: discovery,
		options:   options,
		logger:    stepLogger(logger, StepIDDiscover),
	}
}

// Execute finds the sources. The consolidation template is never a source.
func (s *DiscoverStage) Execute(ctx context.Context, state *OperationState) error {
	var exclude []string
	if s.options.TemplatePath != "" {
		exclude = append(exclude, filepath.Base(s.options.TemplatePath))
	}

	sources, err := s.discovery.FindSources(s.options.SourceDir, exclude...)
	if err != nil {
		return apperrors.NewNoDataError("source directory is not readable").
			WithContext("source_dir", s.options.SourceDir).
			WithContext("error", err.Error())
	}
	if len(sources) == 0 {
		return apperrors.NewNoDataError("no source spreadsheets found").
			WithContext("source_dir", s.options.SourceDir)
	}

	state.Sources = sources
	state.Summary.SourcesFound = len(sources)
	state.GetStage(s.ID()).SetMetadata("sources", len(sources))

	s.logger.InfoContext(ctx, "sources discovered",
		slog.String("source_dir", s.options.SourceDir),
		slog.Int("count", len(sources)),
		slog.Int64("bytes", files.TotalSize(sources)))
	return nil
}

// LoadStage reads every discovered source
type LoadStage struct {
	BaseStage
	reader dataprocessing.SourceReader
	tracer *OperationTracer
	logger *slog.Logger
}

// NewLoadStage creates the loading step
func NewLoadStage(reader dataprocessing.SourceReader, tracer *OperationTracer, logger *slog.Logger) *LoadStage {
	return &LoadStage{
		BaseStage: NewBaseStage(StepIDLoad, StepNameLoad, []string{StepIDDiscover}),
		reader:    reader,
		tracer:    tracer,
		logger:    stepLogger(logger, StepIDLoad),
	}
}

// Execute loads the sources. A source that cannot be read is recorded in
// the summary and skipped; the run fails only when none can be read.
func (s *LoadStage) Execute(ctx context.Context, state *OperationState) error {
	state.RawTables = nil
	state.Summary.FailedSources = nil

	for _, src := range state.Sources {
		if err := ctx.Err(); err != nil {
			return err
		}

		table, err := s.reader.LoadTable(ctx, src.Path)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.WarnContext(ctx, "source skipped",
				slog.String("source", src.Name),
				slog.String("error", err.Error()))
			state.Summary.FailedSources = append(state.Summary.FailedSources, src.Name)
			continue
		}
		state.RawTables = append(state.RawTables, table)
	}

	read := len(state.RawTables)
	failed := len(state.Summary.FailedSources)
	state.Summary.SourcesRead = read
	s.tracer.RecordSources(ctx, read, failed)
	state.GetStage(s.ID()).SetMetadata("failed_sources", failed)

	if read == 0 {
		return apperrors.NewNoDataError("no source could be read").
			WithContext("failed_sources", state.Summary.FailedSources)
	}

	s.logger.InfoContext(ctx, "sources loaded",
		slog.Int("read", read),
		slog.Int("failed", failed))
	return nil
}

// NormalizeStage builds the canonical records
type NormalizeStage struct {
	BaseStage
	normalizer *dataprocessing.Normalizer
	tracer     *OperationTracer
}

// NewNormalizeStage creates the normalization step
func NewNormalizeStage(tracer *OperationTracer, logger *slog.Logger) *NormalizeStage {
	return &NormalizeStage{
		BaseStage:  NewBaseStage(StepIDNormalize, StepNameNormalize, []string{StepIDLoad}),
		normalizer: dataprocessing.NewNormalizer(stepLogger(logger, StepIDNormalize)),
		tracer:     tracer,
	}
}

// Execute normalizes the raw tables and records the anomaly counts
func (s *NormalizeStage) Execute(ctx context.Context, state *OperationState) error {
	result, err := s.normalizer.Normalize(ctx, state.RawTables)
	if err != nil {
		return err
	}

	state.Normalized = result
	state.Summary.Records = len(result.Records)
	state.Summary.UnparseableDates = result.UnparseableDates
	state.Summary.UnparseableNumbers = result.UnparseableNumbers
	state.Summary.UnbucketedRecords = result.UnbucketedRecords
	// Raw rows are no longer needed once records exist.
	state.RawTables = nil

	s.tracer.RecordRecords(ctx, len(result.Records), result.UnparseableDates, result.UnparseableNumbers)
	state.GetStage(s.ID()).SetMetadata("records", len(result.Records))
	return nil
}

// AggregateStage builds the monthly, half-month and per-company tables
type AggregateStage struct {
	BaseStage
	aggregator *dataprocessing.Aggregator
}

// NewAggregateStage creates the aggregation step
func NewAggregateStage() *AggregateStage {
	return &AggregateStage{
		BaseStage:  NewBaseStage(StepIDAggregate, StepNameAggregate, []string{StepIDNormalize}),
		aggregator: dataprocessing.NewAggregator(),
	}
}

// Execute adds the six aggregate tables
func (s *AggregateStage) Execute(ctx context.Context, state *OperationState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	records := state.Normalized.Records
	first, second := dataprocessing.SplitByHalf(records)

	state.AddTables(
		MonthlyTable(LabelMonthly, s.aggregator.Monthly(records)),
		MonthlyTable(LabelMonthlyFirst, s.aggregator.Monthly(first)),
		MonthlyTable(LabelMonthlySecond, s.aggregator.Monthly(second)),
		CompanyTable(LabelCompanySummary, s.aggregator.ByCompany(records)),
		CompanyTable(LabelCompanyFirst, s.aggregator.ByCompany(first)),
		CompanyTable(LabelCompanySecond, s.aggregator.ByCompany(second)),
	)
	return nil
}

// ListingsStage adds one raw listing per company present in the data
type ListingsStage struct {
	BaseStage
}

// NewListingsStage creates the per-company listings step
func NewListingsStage() *ListingsStage {
	return &ListingsStage{
		BaseStage: NewBaseStage(StepIDListings, StepNameListings, []string{StepIDNormalize}),
	}
}

// Execute adds the company listings in company display order
func (s *ListingsStage) Execute(ctx context.Context, state *OperationState) error {
	records := state.Normalized.Records
	companies := dataprocessing.PresentCompanies(records)
	for _, company := range companies {
		if err := ctx.Err(); err != nil {
			return err
		}
		state.AddTables(ListingTable(company, dataprocessing.FilterCompany(records, company)))
	}
	state.GetStage(s.ID()).SetMetadata("companies", len(companies))
	return nil
}

// DailyStage adds the per day and vehicle summary
type DailyStage struct {
	BaseStage
}

// NewDailyStage creates the daily summary step
func NewDailyStage() *DailyStage {
	return &DailyStage{
		BaseStage: NewBaseStage(StepIDDaily, StepNameDaily, []string{StepIDNormalize}),
	}
}

// Execute adds the RESUMO DIÁRIO table
func (s *DailyStage) Execute(ctx context.Context, state *OperationState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	state.AddTables(DailyTable(dataprocessing.DailySummary(state.Normalized.Records)))
	return nil
}

// ConsolidateStage folds events per vehicle and projects them onto the template
type ConsolidateStage struct {
	BaseStage
	consolidator *dataprocessing.Consolidator
	templates    dataprocessing.TemplateLoader
	options      Options
	// required makes a missing template a configuration error instead of a skip.
	required bool
	tracer   *OperationTracer
	logger   *slog.Logger
}

// NewConsolidateStage creates the consolidation step
func NewConsolidateStage(templates dataprocessing.TemplateLoader, options Options, required bool, tracer *OperationTracer, logger *slog.Logger) *ConsolidateStage {
	logger = stepLogger(logger, StepIDConsolidate)
	return &ConsolidateStage{
		BaseStage:    NewBaseStage(StepIDConsolidate, StepNameConsolidate, []string{StepIDNormalize}),
		consolidator: dataprocessing.NewConsolidator(logger),
		templates:    templates,
		options:      options,
		required:     required,
		tracer:       tracer,
		logger:       logger,
	}
}

// Execute consolidates up to the reference date and adds the projected table
func (s *ConsolidateStage) Execute(ctx context.Context, state *OperationState) error {
	stepState := state.GetStage(s.ID())

	template, err := s.templateColumns(ctx)
	if err != nil {
		if s.required {
			return err
		}
		s.logger.WarnContext(ctx, "consolidation skipped",
			slog.String("template", s.options.TemplatePath),
			slog.String("reason", err.Error()))
		stepState.SetMetadata("skipped", err.Error())
		return nil
	}

	consolidated, stats, err := s.consolidator.Consolidate(ctx, state.Normalized.Records, state.ReferenceDate)
	if err != nil {
		return err
	}
	state.Summary.ConsolidatedGroups = stats.Groups
	state.Summary.DegenerateGroups = stats.DegenerateGroups
	s.tracer.RecordGroups(ctx, stats.Groups, stats.DegenerateGroups)

	table, err := dataprocessing.Project(consolidated, template, consolidationLabel(state.Mode, state.ReferenceDate))
	if err != nil {
		state.Summary.ConsolidationFailed = true
		return err
	}

	state.AddTables(table)
	stepState.SetMetadata("groups", stats.Groups)
	stepState.SetMetadata("degenerate_groups", stats.DegenerateGroups)
	return nil
}

// templateColumns returns the configured columns, else the template file header
func (s *ConsolidateStage) templateColumns(ctx context.Context) ([]string, error) {
	if len(s.options.TemplateColumns) > 0 {
		return s.options.TemplateColumns, nil
	}
	if s.options.TemplatePath == "" || !config.FileExists(s.options.TemplatePath) {
		return nil, apperrors.NewConfigError("consolidation template not found", nil).
			WithContext("template", s.options.TemplatePath)
	}
	if s.templates == nil {
		return nil, apperrors.NewConfigError("no template loader configured", nil)
	}

	columns, err := s.templates.LoadTemplateSchema(ctx, s.options.TemplatePath)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to read consolidation template", err).
			WithContext("template", s.options.TemplatePath)
	}
	return columns, nil
}

func consolidationLabel(mode string, referenceDate time.Time) string {
	if mode == ModeConsumption {
		return consumptionLabelStart + referenceDate.Format(config.ConsumptionSheetFormat)
	}
	return LabelConsolidated
}

// WriteStage persists the report through every configured writer
type WriteStage struct {
	BaseStage
	writers []exporter.ReportWriter
	logger  *slog.Logger
}

// NewWriteStage creates the output step after the given steps
func NewWriteStage(writers []exporter.ReportWriter, logger *slog.Logger, dependencies ...string) *WriteStage {
	return &WriteStage{
		BaseStage: NewBaseStage(StepIDWrite, StepNameWrite, dependencies),
		writers:   writers,
		logger:    stepLogger(logger, StepIDWrite),
	}
}

// Execute writes the tables gathered so far. Writer failures are retryable;
// the usual cause is a workbook held open by another program.
func (s *WriteStage) Execute(ctx context.Context, state *OperationState) error {
	if len(state.Tables) == 0 {
		return apperrors.NewNoDataError("no tables to write")
	}

	report := BuildReport(state, time.Now())
	outputs := make([]string, 0, len(s.writers))
	for _, w := range s.writers {
		path, err := w.Write(ctx, report)
		if err != nil {
			return NewExecutionError(s.ID(), err, ctx.Err() == nil)
		}
		outputs = append(outputs, path)
		s.logger.InfoContext(ctx, "report written",
			slog.String("report", report.Name),
			slog.String("path", path),
			slog.Int("tables", len(report.Tables)))
	}

	state.Outputs = outputs
	return nil
}
