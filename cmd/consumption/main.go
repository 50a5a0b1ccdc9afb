package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fuelcli/internal/app"
	"fuelcli/internal/operations"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run writes Relatorio_Consumo_Acumulado_YYYYMMDD once, or on a cron
// schedule until interrupted, and returns the process exit code.
func run(args []string) int {
	fs := flag.NewFlagSet("consumption", flag.ContinueOnError)
	var (
		overrides  app.Overrides
		configFile string
	)
	app.BindFlags(fs, &overrides, &configFile)
	fs.StringVar(&overrides.Schedule, "schedule", "", `cron spec for repeated runs, e.g. "0 7 * * *" or "@daily"`)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return app.ExitOK
		}
		return app.ExitConfig
	}

	cfg, err := app.LoadConfig(configFile, overrides)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return app.ExitCode(err)
	}

	application, err := app.NewApplication(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return app.ExitFailure
	}
	defer func() {
		if err := application.Stop(context.Background()); err != nil {
			slog.Warn("Shutdown incomplete", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Pipeline.Schedule != "" {
		if cfg.Pipeline.ReferenceDate != "" {
			application.Logger.Warn("Fixed reference date used by every scheduled run",
				slog.String("reference_date", cfg.Pipeline.ReferenceDate))
		}
		err := application.RunScheduled(ctx, operations.ModeConsumption)
		return app.ExitCode(err)
	}

	resp, err := application.RunReport(ctx, operations.ModeConsumption)
	if resp != nil {
		for _, out := range resp.Outputs {
			fmt.Printf("Report written: %s\n", out)
		}
	}
	if err != nil {
		application.Logger.ErrorContext(ctx, "Consolidation run failed", slog.String("error", err.Error()))
	}
	return app.ExitCode(err)
}
