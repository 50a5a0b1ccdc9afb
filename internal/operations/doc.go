// Package operations assembles fuel reports from a folder of source
// spreadsheets as a sequence of dependent steps.
//
// Core Components:
//
// Manager: runs the registered steps in dependency order with a timeout
// per step and retries for retryable errors. A step whose dependencies did
// not complete is skipped. Errors accepted by Config.Deferred fail their
// step without stopping the run and are returned once every independent
// step has executed.
//
// Step: one unit of work over the shared OperationState. The steps are
// discover, load, normalize, aggregate, listings, daily, consolidate and
// write.
//
// OperationState: owns the run data (sources, raw tables, records, output
// tables and the RunSummary). Nothing survives the run.
//
// Two operations are provided:
//
//	// Full report: RELATORIO_COMBUSTIVEL_MENSAL
//	manager, err := operations.NewMonthlyReport(options, deps)
//
//	// Daily consolidation: Relatorio_Consumo_Acumulado_YYYYMMDD
//	manager, err := operations.NewConsumptionReport(options, deps)
//
//	resp, err := manager.Execute(ctx, operations.OperationRequest{
//		Mode:          operations.ModeMonthly,
//		ReferenceDate: ref,
//	})
package operations
