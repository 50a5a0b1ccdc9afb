// Package app provides process setup and lifecycle for the report commands.
// It wires configuration, logging and telemetry around report runs.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, YAML, .env, FUEL_* variables)
//	2. Apply command line overrides and validate
//	3. Initialize logging and OpenTelemetry
//	4. Run once, or on a cron schedule until interrupted
//	5. Flush the metrics textfile and shut telemetry down
//
// # Usage
//
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    os.Exit(app.ExitConfig)
//	}
//	defer application.Stop(context.Background())
//	_, err = application.RunReport(ctx, operations.ModeMonthly)
//	os.Exit(app.ExitCode(err))
//
// # Error Handling
//
// Errors are returned to the caller. ExitCode maps them to distinct exit
// statuses so schedulers can tell a missing data folder from a template
// that no longer matches the sources.
package app
