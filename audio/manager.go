package audio

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lixenwraith/cubecue/asset"
	"github.com/lixenwraith/cubecue/core"
	"github.com/lixenwraith/cubecue/status"
)

var tracer = otel.Tracer("github.com/lixenwraith/cubecue/audio")

// Manager owns the loaded players and the mixing graph
// Every operation runs on a single goroutine, so callers never observe a partial mapping
type Manager struct {
	config   *Config
	provider *asset.Provider
	out      Output
	format   beep.Format

	requests chan request
	stopChan chan struct{}
	stopped  atomic.Bool
	wg       sync.WaitGroup

	// Accessed only by the loop goroutine
	players map[core.Sound]player
	root    *beep.Mixer
	music   *beep.Mixer
	effects *beep.Mixer
	bus     *effects.Gain
	busGain float64

	metrics  *status.Registry
	mLoaded  *atomic.Int64
	mFailed  *atomic.Int64
	mPlays   *atomic.Int64
	mStops   *atomic.Int64
	mBusGain *status.AtomicFloat
	mRunning *atomic.Bool
}

type request struct {
	fn   func() error
	done chan error
}

// NewManager creates a manager and starts its owner goroutine
// The output is not started until the first play
func NewManager(provider *asset.Provider, out Output, cfg ...*Config) *Manager {
	config := DefaultConfig()
	if len(cfg) > 0 && cfg[0] != nil {
		config = cfg[0]
	}

	m := &Manager{
		config:   config,
		provider: provider,
		out:      out,
		format: beep.Format{
			SampleRate:  beep.SampleRate(config.SampleRate),
			NumChannels: 2,
			Precision:   2,
		},
		requests: make(chan request),
		stopChan: make(chan struct{}),
		players:  make(map[core.Sound]player),
		music:    &beep.Mixer{},
		effects:  &beep.Mixer{},
		busGain:  EffectsHeadroom,
	}
	m.bus = &effects.Gain{Streamer: m.effects, Gain: gainFor(m.busGain)}
	m.root = &beep.Mixer{}
	m.root.Add(m.music, m.bus)

	m.metrics = status.NewRegistry()
	m.mLoaded = m.metrics.Ints.Get("audio.loaded")
	m.mFailed = m.metrics.Ints.Get("audio.load_failures")
	m.mPlays = m.metrics.Ints.Get("audio.plays")
	m.mStops = m.metrics.Ints.Get("audio.stops")
	m.mBusGain = m.metrics.Floats.Get("audio.bus_gain")
	m.mRunning = m.metrics.Bools.Get("audio.output_running")
	m.mBusGain.Set(m.busGain)

	m.wg.Add(1)
	go m.loop()
	return m
}

func (m *Manager) loop() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stopChan:
			return
		case req := <-m.requests:
			req.done <- req.fn()
		}
	}
}

// exec runs fn on the owner goroutine and waits for its result
func (m *Manager) exec(fn func() error) error {
	if m.stopped.Load() {
		return ErrManagerClosed
	}
	req := request{fn: fn, done: make(chan error, 1)}
	select {
	case m.requests <- req:
	case <-m.stopChan:
		return ErrManagerClosed
	}
	return <-req.done
}

// Close stops the owner goroutine and releases streams and the output
func (m *Manager) Close() {
	if !m.stopped.CompareAndSwap(false, true) {
		return
	}
	close(m.stopChan)
	m.wg.Wait()

	m.out.Lock()
	for s, p := range m.players {
		if err := p.close(); err != nil {
			log.Printf("[audio] close %s: %v", s, err)
		}
	}
	m.out.Unlock()
	m.out.Close()
	m.mRunning.Store(false)
}

// Start opens the output ahead of the first play
func (m *Manager) Start() error {
	return m.exec(m.ensureStarted)
}

func (m *Manager) ensureStarted() error {
	if m.out.Running() {
		return nil
	}
	if err := m.out.Start(m.root); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputUnavailable, err)
	}
	m.mRunning.Store(true)
	return nil
}

// Load decodes sounds not yet registered
// Already-loaded sounds are skipped without querying the provider
// Returns *LoadError listing only the sounds that failed; the rest stay registered
func (m *Manager) Load(ctx context.Context, sounds ...core.Sound) error {
	_, span := tracer.Start(ctx, "audio.Load",
		trace.WithAttributes(attribute.Int("sounds.requested", len(sounds))))
	defer span.End()

	var loaded int
	err := m.exec(func() error {
		var lerr error
		loaded, lerr = m.load(sounds)
		return lerr
	})

	span.SetAttributes(attribute.Int("sounds.loaded", loaded))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
	}
	return err
}

func (m *Manager) load(sounds []core.Sound) (int, error) {
	failures := make(map[core.Sound]error)
	loaded := 0

	for _, s := range sounds {
		if _, ok := m.players[s]; ok {
			continue
		}
		if _, failed := failures[s]; failed {
			continue
		}

		err := m.provider.Resolve(s, func(a *asset.Asset) error {
			p, err := m.decode(s, a)
			if err != nil {
				return err
			}
			m.players[s] = p
			return nil
		})
		if err != nil {
			log.Printf("[audio] load %s: %v", s, err)
			failures[s] = err
			continue
		}
		loaded++
	}

	m.mLoaded.Add(int64(loaded))
	m.mFailed.Add(int64(len(failures)))
	if len(failures) > 0 {
		return loaded, &LoadError{Failures: failures}
	}
	return loaded, nil
}

func (m *Manager) decode(s core.Sound, a *asset.Asset) (player, error) {
	switch s.Category {
	case core.CategoryMusic:
		return decodeMusic(a, m.music, m.format.SampleRate)
	case core.CategorySoundEffect:
		return decodeEffect(s, a, m.effects, m.format)
	default:
		return nil, fmt.Errorf("unknown category %d", s.Category)
	}
}

func (m *Manager) lookup(s core.Sound) (player, error) {
	p, ok := m.players[s]
	if !ok {
		return nil, &SoundNotLoadedError{Sound: s}
	}
	return p, nil
}

// Play starts a sound once from the beginning, restarting it if already playing
func (m *Manager) Play(s core.Sound) error {
	return m.play(s, false)
}

// Loop starts a sound from the beginning, repeating until stopped
func (m *Manager) Loop(s core.Sound) error {
	return m.play(s, true)
}

func (m *Manager) play(s core.Sound, loop bool) error {
	return m.exec(func() error {
		p, err := m.lookup(s)
		if err != nil {
			return err
		}
		if err := m.ensureStarted(); err != nil {
			return err
		}

		m.out.Lock()
		defer m.out.Unlock()
		if err := p.play(loop); err != nil {
			return err
		}
		m.mPlays.Add(1)
		return nil
	})
}

// Stop halts a sound; music fades out over the configured interval first
// The deferred stop is detached: a Play during the fade may be cut by it
func (m *Manager) Stop(s core.Sound) error {
	return m.exec(func() error {
		p, err := m.lookup(s)
		if err != nil {
			return err
		}

		m.out.Lock()
		defer m.out.Unlock()
		m.mStops.Add(1)

		mp, ok := p.(*musicPlayer)
		if !ok || m.config.FadeOut <= 0 {
			p.stop()
			return nil
		}

		mp.fadeOut(m.format.SampleRate.N(m.config.FadeOut))
		time.AfterFunc(m.config.FadeOut, func() {
			err := m.exec(func() error {
				m.out.Lock()
				mp.stop()
				m.out.Unlock()
				return nil
			})
			if err != nil {
				log.Printf("[audio] deferred stop %s: %v", s, err)
			}
		})
		return nil
	})
}

// SetVolume sets one sound's volume (0.0-1.0)
func (m *Manager) SetVolume(s core.Sound, vol float64) error {
	return m.exec(func() error {
		return m.setVolume(s, clampVolume(vol))
	})
}

func (m *Manager) setVolume(s core.Sound, vol float64) error {
	p, err := m.lookup(s)
	if err != nil {
		return err
	}
	m.out.Lock()
	p.setVolume(vol)
	m.out.Unlock()
	return nil
}

// SetCategoryVolume broadcasts a category volume
// Music applies to each currently loaded music handle, best effort
// Sound effects set the shared bus gain to EffectsHeadroom * vol
func (m *Manager) SetCategoryVolume(cat core.Category, vol float64) {
	vol = clampVolume(vol)
	err := m.exec(func() error {
		switch cat {
		case core.CategoryMusic:
			for s := range m.players {
				if s.Category != core.CategoryMusic {
					continue
				}
				_ = m.setVolume(s, vol)
			}
		case core.CategorySoundEffect:
			m.out.Lock()
			m.busGain = EffectsHeadroom * vol
			m.bus.Gain = gainFor(m.busGain)
			m.out.Unlock()
			m.mBusGain.Set(m.busGain)
		}
		return nil
	})
	if err != nil {
		log.Printf("[audio] set %s volume: %v", cat, err)
	}
}

// BusGain returns the effects bus gain
func (m *Manager) BusGain() float64 {
	var g float64
	_ = m.exec(func() error {
		g = m.busGain
		return nil
	})
	return g
}

// Volume returns a sound's current volume
func (m *Manager) Volume(s core.Sound) (float64, error) {
	var vol float64
	err := m.exec(func() error {
		p, err := m.lookup(s)
		if err != nil {
			return err
		}
		vol = p.volume()
		return nil
	})
	return vol, err
}

// Position returns the playback frame of a music sound
func (m *Manager) Position(s core.Sound) (int, error) {
	var pos int
	err := m.exec(func() error {
		p, err := m.lookup(s)
		if err != nil {
			return err
		}
		mp, ok := p.(*musicPlayer)
		if !ok {
			return fmt.Errorf("%s is not seekable", s)
		}
		m.out.Lock()
		pos = mp.position()
		m.out.Unlock()
		return nil
	})
	return pos, err
}

// Loaded returns registered sounds sorted by name within category
func (m *Manager) Loaded() []core.Sound {
	var out []core.Sound
	_ = m.exec(func() error {
		out = make([]core.Sound, 0, len(m.players))
		for s := range m.players {
			out = append(out, s)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Metrics returns the manager's counters
func (m *Manager) Metrics() *status.Registry {
	return m.metrics
}
