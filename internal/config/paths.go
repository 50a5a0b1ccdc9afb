package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the directories the tools fall back to when the
// configuration gives relative locations.
type Paths struct {
	ExecutableDir string
	SourcesDir    string
	LogsDir       string
}

// GetPaths returns the application paths relative to the executable location
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	exeDir := filepath.Dir(exe)

	// dist/
	//   ├── fuelcli.yaml
	//   ├── data/
	//   │   └── abastecimentos/  (source spreadsheets, template, reports)
	//   └── logs/
	return &Paths{
		ExecutableDir: exeDir,
		SourcesDir:    filepath.Join(exeDir, filepath.FromSlash(DefaultSourcesDir)),
		LogsDir:       filepath.Join(exeDir, DefaultLogsDir),
	}, nil
}

// Resolve returns path unchanged when absolute, otherwise joined to the executable directory.
func (p *Paths) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.ExecutableDir, filepath.FromSlash(path))
}

// LogPathResolution logs the resolved directories at debug level.
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("sources", p.SourcesDir),
			slog.String("logs", p.LogsDir),
		))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
