package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/cubecue/asset"
	"github.com/lixenwraith/cubecue/core"
)

const testRate = beep.SampleRate(44100)

var (
	testMusic  = core.Music("theme")
	testMusic2 = core.Music("ambient")
	testEffect = core.Effect("click")
	testAbsent = core.Effect("absent")
)

// writeTone encodes a sine tone WAV fixture of the given length
func writeTone(t *testing.T, dir, name string, rate beep.SampleRate, d time.Duration) {
	t.Helper()

	f, err := os.Create(filepath.Join(dir, name+".wav"))
	require.NoError(t, err)
	defer f.Close()

	tone, err := generators.SineTone(rate, 440)
	require.NoError(t, err)

	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Take(rate.N(d), tone), format))
}

// countingSource records every Open call
type countingSource struct {
	asset.Source
	mu    sync.Mutex
	opens int
}

func (c *countingSource) Open(name string, cat core.Category) (*asset.Asset, error) {
	c.mu.Lock()
	c.opens++
	c.mu.Unlock()
	return c.Source.Open(name, cat)
}

func (c *countingSource) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opens
}

type fixture struct {
	dir     string
	src     *countingSource
	out     *ManualOutput
	manager *Manager
}

func newFixture(t *testing.T, cfg *Config) *fixture {
	t.Helper()

	dir := t.TempDir()
	writeTone(t, dir, testMusic.Name, testRate, 200*time.Millisecond)
	writeTone(t, dir, testMusic2.Name, testRate, 200*time.Millisecond)
	writeTone(t, dir, testEffect.Name, testRate, 50*time.Millisecond)

	src := &countingSource{Source: asset.Dir(dir)}
	out := NewManualOutput()
	m := NewManager(asset.NewProvider(src), out, cfg)
	t.Cleanup(m.Close)

	return &fixture{dir: dir, src: src, out: out, manager: m}
}

func silent(buf [][2]float64) bool {
	for _, s := range buf {
		if s[0] != 0 || s[1] != 0 {
			return false
		}
	}
	return true
}

// TestLoadPartialFailure covers a load where one sound is missing everywhere
func TestLoadPartialFailure(t *testing.T) {
	f := newFixture(t, nil)

	err := f.manager.Load(context.Background(), testEffect, testAbsent)
	require.Error(t, err)

	var lerr *LoadError
	require.True(t, errors.As(err, &lerr))
	require.Len(t, lerr.Failures, 1)
	assert.ErrorIs(t, lerr.Failures[testAbsent], asset.ErrNotFound)
	assert.ErrorIs(t, err, asset.ErrNotFound)

	require.NoError(t, f.manager.Play(testEffect))

	err = f.manager.Play(testAbsent)
	assert.ErrorIs(t, err, ErrSoundNotLoaded)
	var nl *SoundNotLoadedError
	require.True(t, errors.As(err, &nl))
	assert.Equal(t, testAbsent, nl.Sound)
}

// TestLoadIdempotent verifies the provider is queried only on the first load
func TestLoadIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.manager.Load(ctx, testMusic, testEffect))
	first := f.src.count()
	assert.Equal(t, 2, first)

	require.NoError(t, f.manager.SetVolume(testMusic, 0.4))

	require.NoError(t, f.manager.Load(ctx, testMusic, testEffect))
	assert.Equal(t, first, f.src.count())

	vol, err := f.manager.Volume(testMusic)
	require.NoError(t, err)
	assert.Equal(t, 0.4, vol, "reload must not replace the handle")
}

func TestLoadDuplicateInput(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.manager.Load(context.Background(), testEffect, testEffect))
	assert.Equal(t, 1, f.src.count())
	assert.Equal(t, []core.Sound{testEffect}, f.manager.Loaded())
}

// TestMusicRestartsFromZero verifies play always resets position
func TestMusicRestartsFromZero(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.manager.Load(context.Background(), testMusic))

	require.NoError(t, f.manager.Play(testMusic))
	f.out.Pull(1000)

	pos, err := f.manager.Position(testMusic)
	require.NoError(t, err)
	assert.Equal(t, 1000, pos)

	require.NoError(t, f.manager.Play(testMusic))
	pos, err = f.manager.Position(testMusic)
	require.NoError(t, err)
	assert.Equal(t, 0, pos)

	// Only the restarted chain streams
	f.out.Pull(300)
	pos, _ = f.manager.Position(testMusic)
	assert.Equal(t, 300, pos)
}

func TestMusicLoopWraps(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.manager.Load(context.Background(), testMusic))
	length := testRate.N(200 * time.Millisecond)

	require.NoError(t, f.manager.Loop(testMusic))
	tail := f.out.Pull(length + 500)

	pos, err := f.manager.Position(testMusic)
	require.NoError(t, err)
	assert.Less(t, pos, length)
	assert.False(t, silent(tail[length:]), "looped music keeps producing samples")
}

// TestMusicStopFadesThenHalts verifies the deferred stop detaches playback
func TestMusicStopFadesThenHalts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FadeOut = 20 * time.Millisecond
	f := newFixture(t, cfg)
	require.NoError(t, f.manager.Load(context.Background(), testMusic))

	require.NoError(t, f.manager.Play(testMusic))
	f.out.Pull(100)
	require.NoError(t, f.manager.Stop(testMusic))

	require.Eventually(t, func() bool {
		before, _ := f.manager.Position(testMusic)
		f.out.Pull(64)
		after, _ := f.manager.Position(testMusic)
		return before == after
	}, time.Second, 5*time.Millisecond)
}

func TestMusicStopWithoutFade(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FadeOut = 0
	f := newFixture(t, cfg)
	require.NoError(t, f.manager.Load(context.Background(), testMusic))

	require.NoError(t, f.manager.Play(testMusic))
	require.NoError(t, f.manager.Stop(testMusic))
	assert.True(t, silent(f.out.Pull(256)))
}

// TestEffectLazyStartAndRestart verifies the output opens on first play only
func TestEffectLazyStartAndRestart(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.manager.Load(context.Background(), testEffect))
	assert.Equal(t, 0, f.out.Starts())

	require.NoError(t, f.manager.Play(testEffect))
	require.NoError(t, f.manager.Play(testEffect))
	assert.Equal(t, 1, f.out.Starts())

	// A single node plays: the effect ends after one buffer length
	length := testRate.N(50 * time.Millisecond)
	buf := f.out.Pull(length + 256)
	assert.False(t, silent(buf[:length]))
	assert.True(t, silent(buf[length:]))
}

func TestEffectStopIsImmediate(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.manager.Load(context.Background(), testEffect))

	require.NoError(t, f.manager.Loop(testEffect))
	assert.False(t, silent(f.out.Pull(256)))

	require.NoError(t, f.manager.Stop(testEffect))
	assert.True(t, silent(f.out.Pull(256)))
}

func TestUnloadedVerbsFail(t *testing.T) {
	f := newFixture(t, nil)

	assert.ErrorIs(t, f.manager.Play(testMusic), ErrSoundNotLoaded)
	assert.ErrorIs(t, f.manager.Loop(testMusic), ErrSoundNotLoaded)
	assert.ErrorIs(t, f.manager.Stop(testMusic), ErrSoundNotLoaded)
	assert.ErrorIs(t, f.manager.SetVolume(testMusic, 0.5), ErrSoundNotLoaded)
	assert.Equal(t, 0, f.out.Starts(), "failed verbs must not open the output")
}

// TestMusicCategoryBroadcast verifies only currently loaded music is updated
func TestMusicCategoryBroadcast(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.manager.Load(ctx, testMusic, testEffect))

	f.manager.SetCategoryVolume(core.CategoryMusic, 0.3)

	vol, err := f.manager.Volume(testMusic)
	require.NoError(t, err)
	assert.Equal(t, 0.3, vol)

	vol, err = f.manager.Volume(testEffect)
	require.NoError(t, err)
	assert.Equal(t, 1.0, vol, "effects are not part of the music broadcast")

	require.NoError(t, f.manager.Load(ctx, testMusic2))
	vol, err = f.manager.Volume(testMusic2)
	require.NoError(t, err)
	assert.Equal(t, 1.0, vol, "later loads do not inherit the broadcast")
}

func TestBusGainDefault(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, EffectsHeadroom, f.manager.BusGain())

	f.manager.SetCategoryVolume(core.CategorySoundEffect, 0.5)
	assert.Equal(t, 0.125, f.manager.BusGain())
}

func TestUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "odd.aiff"), []byte("FORM"), 0644))

	src := asset.Dir(dir).WithExtensions(".aiff")
	m := NewManager(asset.NewProvider(src), NewManualOutput())
	defer m.Close()

	err := m.Load(context.Background(), core.Effect("odd"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEmptyEffectBuffer(t *testing.T) {
	dir := t.TempDir()
	writeTone(t, dir, "empty", testRate, 0)

	m := NewManager(asset.NewProvider(asset.Dir(dir)), NewManualOutput())
	defer m.Close()

	err := m.Load(context.Background(), core.Effect("empty"))
	assert.ErrorIs(t, err, ErrBufferAllocation)
}

func TestOutputUnavailable(t *testing.T) {
	f := newFixture(t, nil)
	f.out.StartErr = errors.New("no device")
	require.NoError(t, f.manager.Load(context.Background(), testEffect))

	assert.ErrorIs(t, f.manager.Play(testEffect), ErrOutputUnavailable)
	assert.ErrorIs(t, f.manager.Start(), ErrOutputUnavailable)
}

func TestClosedManager(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.manager.Load(context.Background(), testEffect))

	f.manager.Close()
	f.manager.Close()

	assert.ErrorIs(t, f.manager.Play(testEffect), ErrManagerClosed)
	assert.ErrorIs(t, f.manager.Load(context.Background(), testMusic), ErrManagerClosed)
	assert.False(t, f.out.Running())
}

// TestConcurrentVerbs exercises the owner goroutine from many callers
func TestConcurrentVerbs(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = f.manager.Load(ctx, testMusic, testMusic2, testEffect)
			_ = f.manager.Play(testEffect)
			_ = f.manager.SetVolume(testMusic, float64(i)/16)
			f.manager.SetCategoryVolume(core.CategorySoundEffect, 0.5)
			f.out.Pull(128)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 3, f.src.count(), "each sound resolved exactly once")
	assert.Len(t, f.manager.Loaded(), 3)
}

func TestMetricsTrackVerbs(t *testing.T) {
	f := newFixture(t, nil)
	err := f.manager.Load(context.Background(), testEffect, core.Effect("absent"))
	require.Error(t, err)

	require.NoError(t, f.manager.Play(testEffect))
	require.NoError(t, f.manager.Play(testEffect))
	require.NoError(t, f.manager.Stop(testEffect))
	f.manager.SetCategoryVolume(core.CategorySoundEffect, 0.5)

	reg := f.manager.Metrics()
	assert.Equal(t, int64(1), reg.Ints.Get("audio.loaded").Load())
	assert.Equal(t, int64(1), reg.Ints.Get("audio.load_failures").Load())
	assert.Equal(t, int64(2), reg.Ints.Get("audio.plays").Load())
	assert.Equal(t, int64(1), reg.Ints.Get("audio.stops").Load())
	assert.Equal(t, 0.125, reg.Floats.Get("audio.bus_gain").Get())
	assert.True(t, reg.Bools.Get("audio.output_running").Load())
}
