package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testExtensions = []string{".xlsx", ".xls", ".csv"}
	testExcluded   = []string{"Relatorio_"}
)

func TestNewDiscovery(t *testing.T) {
	basePath := "/test/base"
	discovery := NewDiscovery(basePath, testExtensions, testExcluded)

	assert.NotNil(t, discovery)
	assert.Equal(t, basePath, discovery.basePath)
}

func TestFindSources(t *testing.T) {
	tests := []struct {
		name        string
		files       []string
		exclude     []string
		expected    []string
		description string
	}{
		{
			name:        "accepted extensions regardless of case",
			files:       []string{"ocean.xlsx", "av09.XLS", "legour.csv", "notes.txt", "doc.pdf"},
			expected:    []string{"av09.XLS", "legour.csv", "ocean.xlsx"},
			description: "Should keep spreadsheets and csv files only, sorted by name",
		},
		{
			name: "generated reports skipped",
			files: []string{
				"ocean.xlsx",
				"RELATORIO_COMBUSTIVEL_MENSAL.xlsx",
				"Relatorio_Consumo_Acumulado_20240131.xlsx",
				"relatorio_antigo.xlsx",
			},
			expected:    []string{"ocean.xlsx"},
			description: "Report prefixes are matched case-insensitively",
		},
		{
			name:        "template and lock files skipped",
			files:       []string{"modelo a ser seguido.xlsx", "~$ocean.xlsx", ".hidden.csv", "sulfoods.xlsx"},
			exclude:     []string{"/other/dir/Modelo a ser seguido.xlsx"},
			expected:    []string{"sulfoods.xlsx"},
			description: "Template is excluded by base name",
		},
		{
			name:        "empty directory",
			files:       []string{},
			expected:    nil,
			description: "Should handle empty directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			discovery := NewDiscovery(tmpDir, testExtensions, testExcluded)

			sourceDir := filepath.Join(tmpDir, "planilhas")
			require.NoError(t, os.MkdirAll(filepath.Join(sourceDir, "sub.xlsx"), 0755))
			for _, filename := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(sourceDir, filename), []byte("test content"), 0644))
			}

			files, err := discovery.FindSources("planilhas", tt.exclude...)
			require.NoError(t, err, tt.description)

			var names []string
			for _, f := range files {
				names = append(names, f.Name)
				assert.Equal(t, filepath.Join(sourceDir, f.Name), f.Path)
				assert.Greater(t, f.Size, int64(0))
				assert.False(t, f.ModTime.IsZero())
			}
			assert.Equal(t, tt.expected, names, tt.description)
		})
	}
}

func TestFindSources_AbsoluteDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ocean.csv"), []byte("a,b\n"), 0644))

	discovery := NewDiscovery("/does/not/matter", testExtensions, testExcluded)
	files, err := discovery.FindSources(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "ocean", files[0].Stem())
	assert.Equal(t, ".csv", files[0].Ext())
	assert.Equal(t, int64(4), TotalSize(files))
}

func TestFindSources_MissingDir(t *testing.T) {
	discovery := NewDiscovery(t.TempDir(), testExtensions, testExcluded)
	_, err := discovery.FindSources("missing")
	assert.Error(t, err)
}
