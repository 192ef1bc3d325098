package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentdesk/ctc-calculator/internal/config"
	"github.com/talentdesk/ctc-calculator/internal/domain"
	"github.com/talentdesk/ctc-calculator/internal/output"
)

func TestFormatters(t *testing.T) {
	report := loadReport(t)

	for _, name := range output.AvailableFormatterNames() {
		t.Run(name, func(t *testing.T) {
			data, err := output.Render(report, name)
			require.NoError(t, err)
			require.NotEmpty(t, data)

			switch name {
			case "json":
				var decoded domain.CompensationReport
				require.NoError(t, json.Unmarshal(data, &decoded))
				assert.Len(t, decoded.Packages, 3)
			case "pdf":
				assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
			case "csv":
				assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 4)
			default:
				assert.Contains(t, string(data), "Staff Engineer")
			}
		})
	}
}

func TestConsoleRecommendation(t *testing.T) {
	data, err := output.Render(loadReport(t), "console-lite")
	require.NoError(t, err)
	assert.Contains(t, string(data), "Highest take-home: Staff Engineer")
}

func TestSaveConfiguration_WritesFile(t *testing.T) {
	cfg, err := config.NewInputParser().LoadFromFile(packagesFile)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, output.SaveConfiguration(cfg, path))

	reloaded, err := config.NewInputParser().LoadFromFile(path)
	require.NoError(t, err)
	require.Len(t, reloaded.Packages, len(cfg.Packages))
	for i := range cfg.Packages {
		assert.Equal(t, cfg.Packages[i].Name, reloaded.Packages[i].Name)
		assert.True(t, cfg.Packages[i].Compensation.BasicSalary.Equal(reloaded.Packages[i].Compensation.BasicSalary))
	}
}

func TestGenerateReport_AllFormats(t *testing.T) {
	dir := t.TempDir()
	paths, err := output.GenerateReport(loadReport(t), "all", dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}
