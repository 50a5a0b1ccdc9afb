// Package config provides configuration management for the fuel reporting tools.
// It loads settings from several sources, validates them and exposes a typed
// Config used by the command line programs.
//
// # Configuration Sources
//
// Sources are layered in this order, later ones winning:
//
//	1. Default values (Default)
//	2. YAML file: fuelcli.yaml or configs/fuelcli.yaml
//	3. A .env file next to the working directory or the executable
//	4. Environment variables with the FUEL_ prefix
//	5. Command line flags, applied by each program before Validate
//
// # Environment Variables
//
// Variables follow the struct nesting:
//
//	FUEL_PIPELINE_SOURCE_DIR=/srv/combustivel/planilhas
//	FUEL_PIPELINE_REFERENCE_DATE=2024-03-31
//	FUEL_PIPELINE_OUTPUT_FORMAT=both
//	FUEL_LOGGING_LEVEL=debug
//	FUEL_TELEMETRY_TRACING=stdout
//
// # Path Management
//
// Relative paths are resolved against the executable directory through
// GetPaths, so the tools behave the same regardless of the working directory.
package config
