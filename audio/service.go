package audio

import (
	"context"
	"errors"
	"log"
	"sync/atomic"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/cubecue/asset"
	"github.com/lixenwraith/cubecue/core"
)

// AudioService wraps Manager as a Service
// Handles graceful degradation when no audio output is available
type AudioService struct {
	provider  *asset.Provider
	preload   []core.Sound
	newOutput func(*Config) Output

	config   *Config
	manager  *Manager
	disabled atomic.Bool
}

// ServiceOption customizes an AudioService
type ServiceOption func(*AudioService)

// WithOutput replaces the speaker output factory
func WithOutput(fn func(*Config) Output) ServiceOption {
	return func(s *AudioService) { s.newOutput = fn }
}

// WithPreload sets the sounds loaded on Start; defaults to the full catalog
func WithPreload(sounds ...core.Sound) ServiceOption {
	return func(s *AudioService) { s.preload = sounds }
}

// NewService creates a new audio service reading assets from provider
func NewService(provider *asset.Provider, opts ...ServiceOption) *AudioService {
	s := &AudioService{
		provider: provider,
		preload:  core.Catalog(),
		newOutput: func(cfg *Config) Output {
			return NewSpeakerOutput(beep.SampleRate(cfg.SampleRate), cfg.BufferDuration)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Service
func (s *AudioService) Name() string {
	return "audio"
}

// Dependencies implements Service
func (s *AudioService) Dependencies() []string {
	return nil
}

// Init implements Service
// args[0]: *Config - audio configuration (default config when absent)
func (s *AudioService) Init(args ...any) error {
	config := DefaultConfig()
	if len(args) > 0 {
		if cfg, ok := args[0].(*Config); ok && cfg != nil {
			config = cfg
		}
	}
	if err := config.Validate(); err != nil {
		return err
	}

	s.config = config
	s.manager = NewManager(s.provider, s.newOutput(config), config)
	return nil
}

// Start implements Service
// Opens the output, loads the preload set and applies category volumes
// A missing output disables audio instead of failing; missing assets are logged
func (s *AudioService) Start() error {
	if s.manager == nil {
		return errors.New("audio service not initialized")
	}

	if err := s.manager.Start(); err != nil {
		log.Printf("[audio] %v (continuing without audio)", err)
		s.disabled.Store(true)
		s.manager.Close()
		return nil
	}

	if err := s.manager.Load(context.Background(), s.preload...); err != nil {
		var lerr *LoadError
		if !errors.As(err, &lerr) {
			return err
		}
		log.Printf("[audio] %d sound(s) unavailable", len(lerr.Failures))
	}

	s.ApplyVolumes(s.config.MusicVolume, s.config.SoundEffectsVolume)
	return nil
}

// ApplyVolumes broadcasts both category volumes
func (s *AudioService) ApplyVolumes(music, soundEffects float64) {
	p := s.Player()
	p.SetCategoryVolume(core.CategoryMusic, music)
	p.SetCategoryVolume(core.CategorySoundEffect, soundEffects)
}

// Stop implements Service
func (s *AudioService) Stop() error {
	if s.manager != nil {
		s.manager.Close()
	}
	return nil
}

// IsDisabled returns true if audio is unavailable
func (s *AudioService) IsDisabled() bool {
	return s.disabled.Load()
}

// Manager returns the underlying Manager (nil if disabled)
func (s *AudioService) Manager() *Manager {
	if s.disabled.Load() {
		return nil
	}
	return s.manager
}

// Player returns the playback surface, Nop when audio is disabled
func (s *AudioService) Player() Player {
	if s.disabled.Load() || s.manager == nil {
		return Nop{}
	}
	return s.manager
}
