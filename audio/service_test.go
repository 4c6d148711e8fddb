package audio

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/cubecue/asset"
	"github.com/lixenwraith/cubecue/core"
)

func TestServiceLoadsPreloadAndAppliesVolumes(t *testing.T) {
	dir := t.TempDir()
	writeTone(t, dir, testMusic.Name, testRate, 100*time.Millisecond)
	writeTone(t, dir, testEffect.Name, testRate, 50*time.Millisecond)

	out := NewManualOutput()
	svc := NewService(asset.NewProvider(asset.Dir(dir)),
		WithOutput(func(*Config) Output { return out }),
		WithPreload(testMusic, testEffect, core.Effect("missing")),
	)

	cfg := DefaultConfig()
	cfg.SoundEffectsVolume = 0.5
	require.NoError(t, svc.Init(cfg))
	require.NoError(t, svc.Start(), "missing assets are logged, not fatal")
	t.Cleanup(func() { _ = svc.Stop() })

	assert.False(t, svc.IsDisabled())
	assert.True(t, out.Running())
	assert.Equal(t, []core.Sound{testMusic, testEffect}, svc.Manager().Loaded())
	assert.Equal(t, 0.125, svc.Manager().BusGain())
	assert.IsType(t, &Manager{}, svc.Player())
}

func TestServiceDegradesWithoutOutput(t *testing.T) {
	out := NewManualOutput()
	out.StartErr = errors.New("no device")

	svc := NewService(asset.NewProvider(),
		WithOutput(func(*Config) Output { return out }),
		WithPreload(),
	)
	require.NoError(t, svc.Init())
	require.NoError(t, svc.Start())
	t.Cleanup(func() { _ = svc.Stop() })

	assert.True(t, svc.IsDisabled())
	assert.Nil(t, svc.Manager())
	assert.Equal(t, Nop{}, svc.Player())
	assert.NoError(t, svc.Player().Play(core.CubeShake))
}

func TestServiceRejectsInvalidConfig(t *testing.T) {
	svc := NewService(asset.NewProvider())
	cfg := DefaultConfig()
	cfg.FadeOut = -time.Second
	assert.Error(t, svc.Init(cfg))
	assert.Error(t, svc.Start())
}

func TestServiceIdentity(t *testing.T) {
	svc := NewService(asset.NewProvider())
	assert.Equal(t, "audio", svc.Name())
	assert.Empty(t, svc.Dependencies())
}
