// Package files discovers the source spreadsheets of a report run.
//
// A Discovery lists the files of one folder that look like fuel transaction
// exports: accepted extensions only, sorted by name, with generated reports,
// office lock files and the consolidation template left out.
//
// Example usage:
//
//	discovery := files.NewDiscovery(cfg.Pipeline.SourceDir,
//		config.SourceExtensions, config.GeneratedReportPrefixes)
//	sources, err := discovery.FindSources(".", filepath.Base(cfg.TemplatePath()))
package files
