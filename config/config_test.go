package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "cubecue.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	d := Defaults()
	require.NoError(t, d.Validate())
	assert.Equal(t, 2*time.Second, d.ShakeInterval)
	assert.Equal(t, 2500*time.Millisecond, d.Audio.FadeOut)
	assert.Equal(t, 44100, d.AudioEngine().SampleRate)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
audio:
  music_volume: 0.4
  fade_out: 1s
asset_dirs:
  - mods
  - assets
shake_interval: 500ms
debug: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.4, cfg.Audio.MusicVolume)
	assert.Equal(t, 1.0, cfg.Audio.SoundEffectsVolume, "unset keys keep defaults")
	assert.Equal(t, time.Second, cfg.Audio.FadeOut)
	assert.Equal(t, []string{"mods", "assets"}, cfg.AssetDirs)
	assert.Equal(t, 500*time.Millisecond, cfg.ShakeInterval)
	assert.True(t, cfg.Debug)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CUBECUE_AUDIO_SOUND_EFFECTS_VOLUME", "0.2")
	t.Setenv("CUBECUE_TRACE", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0.2, cfg.Audio.SoundEffectsVolume)
	assert.True(t, cfg.Trace)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "audio:\n  music_volume: 3\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "music volume")

	path = writeConfig(t, t.TempDir(), "shake_interval: 0s\n")
	_, err = Load(path)
	assert.ErrorContains(t, err, "shake_interval")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWatchDeliversRevisions(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "audio:\n  music_volume: 0.5\n")

	var mu sync.Mutex
	var got []float64
	cfg, err := Watch(path, func(c Config) {
		mu.Lock()
		got = append(got, c.Audio.MusicVolume)
		mu.Unlock()
	})
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Audio.MusicVolume)

	writeConfig(t, dir, "audio:\n  music_volume: 0.3\n")
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0 && got[len(got)-1] == 0.3
	}, 5*time.Second, 20*time.Millisecond)
}
