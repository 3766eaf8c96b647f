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

	assert.Equal(t, 1280, cfg.Graphics.Width)
	assert.Equal(t, 720, cfg.Graphics.Height)
	assert.True(t, cfg.Graphics.VSync)
	assert.Equal(t, float32(10), cfg.Pipeline.BlurRadius)
	assert.Equal(t, float32(0.7), cfg.Pipeline.BloomThreshold)
	assert.Empty(t, cfg.Pipeline.Effects)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
graphics:
  width: 640
  height: 480
pipeline:
  blur_radius: 20
  effects: [tint, bloom]
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Graphics.Width)
	assert.Equal(t, 480, cfg.Graphics.Height)
	assert.Equal(t, float32(20), cfg.Pipeline.BlurRadius)
	assert.Equal(t, []string{"tint", "bloom"}, cfg.Pipeline.Effects)
	assert.Equal(t, "debug", cfg.LogLevel)

	// untouched keys keep their defaults
	assert.Equal(t, float32(1), cfg.Pipeline.BlurCurve)
	assert.True(t, cfg.Audio.Enabled)
}

func TestLoadMalformedFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("graphics: ["), 0644))

	cfg, err := Load(path)
	assert.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 1280, cfg.Graphics.Width)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Graphics.Width = 1920
	cfg.Pipeline.Effects = []string{"spiral"}
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
