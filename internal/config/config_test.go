package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "Labels", cfg.DefaultAttribute)
	assert.Equal(t, []string{"Tags"}, cfg.ExcludedAttributes)
	assert.Equal(t, 1.5, cfg.MaxPixelRatio)
	assert.NotEmpty(t, cfg.Palette)
	assert.NotEmpty(t, cfg.Gradient)
}

func TestConfigSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scatterview.yaml")
	cfg := DefaultConfig()
	cfg.DefaultAttribute = "score"
	cfg.ExcludedAttributes = []string{"Tags", "notes"}
	cfg.Snapshot.Width = 320

	require.NoError(t, SaveConfig(path, cfg))
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_attribute: Cluster\npalette: []\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Cluster", cfg.DefaultAttribute)
	assert.Equal(t, 1.5, cfg.MaxPixelRatio)
	assert.Equal(t, DefaultConfig().Palette, cfg.Palette)
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("palette: [unclosed\n"), 0644))
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "parse config")
}
