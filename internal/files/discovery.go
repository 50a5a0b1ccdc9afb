package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Stem returns the file name without its extension; it tags the records read from the file.
func (f FileInfo) Stem() string {
	return strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
}

// Ext returns the lower-cased extension including the dot.
func (f FileInfo) Ext() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// Discovery finds source spreadsheets in a folder
type Discovery struct {
	basePath        string
	extensions      []string
	excludePrefixes []string
}

// NewDiscovery creates a discovery rooted at basePath accepting the given
// extensions and skipping names that start with one of excludePrefixes
// (compared case-insensitively).
func NewDiscovery(basePath string, extensions, excludePrefixes []string) *Discovery {
	return &Discovery{
		basePath:        basePath,
		extensions:      extensions,
		excludePrefixes: excludePrefixes,
	}
}

// FindSources lists the source files of dir sorted by name. Generated
// reports, office lock files and any file named in exclude are skipped.
func (d *Discovery) FindSources(dir string, exclude ...string) ([]FileInfo, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		if name != "" {
			skip[strings.ToLower(filepath.Base(name))] = true
		}
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if skip[strings.ToLower(name)] || !d.accepts(name) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

func (d *Discovery) accepts(name string) bool {
	// "~$" marks an office lock file, "." a hidden one
	if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
		return false
	}

	lower := strings.ToLower(name)
	for _, prefix := range d.excludePrefixes {
		if strings.HasPrefix(lower, strings.ToLower(prefix)) {
			return false
		}
	}

	ext := filepath.Ext(lower)
	for _, allowed := range d.extensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// TotalSize returns the combined size of files in bytes.
func TotalSize(files []FileInfo) int64 {
	var total int64
	for _, f := range files {
		total += f.Size
	}
	return total
}
