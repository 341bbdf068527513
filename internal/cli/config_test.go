package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/nestpack/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nestpack.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSettings_NoPathReturnsDefaults(t *testing.T) {
	settings, err := loadSettings("")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)
}

func TestLoadSettings_OverlaysFileValues(t *testing.T) {
	path := writeConfig(t, `
bin_width = 1000.0
bin_height = 500.0
algorithm = "skyline"
heuristic = "best_fit"
sorting = false
`)

	settings, err := loadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, settings.BinWidth)
	assert.Equal(t, 500.0, settings.BinHeight)
	assert.Equal(t, model.AlgorithmSkyline, settings.Algorithm)
	assert.Equal(t, "best_fit", settings.Heuristic)
	assert.False(t, settings.Sorting)

	// Untouched keys keep their defaults.
	assert.Equal(t, model.PolicyBestFit, settings.Policy)
	assert.True(t, settings.Rotation)
}

func TestLoadSettings_RejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "bin_widht = 1000.0\n")

	_, err := loadSettings(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bin_widht")
}

func TestLoadSettings_MissingFile(t *testing.T) {
	_, err := loadSettings(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestParseItemSpec(t *testing.T) {
	items, err := parseItemSpec("600x400")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 600.0, items[0].Width)
	assert.Equal(t, 400.0, items[0].Height)
	assert.Equal(t, "600x400", items[0].Label)

	items, err = parseItemSpec("600x400:3")
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestParseItemSpec_Invalid(t *testing.T) {
	for _, spec := range []string{"600", "600x", "x400", "axb", "600x400:0", "600x400:x"} {
		_, err := parseItemSpec(spec)
		assert.Error(t, err, "spec %q should fail", spec)
	}
}

func TestApplyOverrides(t *testing.T) {
	settings := model.DefaultSettings()
	applyOverrides(&settings, &packOptions{
		binWidth:  100,
		algorithm: "shelf",
		noSort:    true,
		noRotate:  true,
	})

	assert.Equal(t, 100.0, settings.BinWidth)
	assert.Equal(t, 1220.0, settings.BinHeight, "unset flags leave settings alone")
	assert.Equal(t, model.AlgorithmShelf, settings.Algorithm)
	assert.False(t, settings.Sorting)
	assert.False(t, settings.Rotation)
}
