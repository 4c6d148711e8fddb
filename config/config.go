// Package config provides configuration types, defaults and loading for cubecue
package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/lixenwraith/cubecue/audio"
	"github.com/lixenwraith/cubecue/coordinator"
)

// EnvPrefix prefixes environment overrides, e.g. CUBECUE_AUDIO_MUSIC_VOLUME
const EnvPrefix = "CUBECUE"

// AudioSettings holds the audio engine options
type AudioSettings struct {
	SampleRate         int           `mapstructure:"sample_rate"`
	Buffer             time.Duration `mapstructure:"buffer"`
	FadeOut            time.Duration `mapstructure:"fade_out"`
	MusicVolume        float64       `mapstructure:"music_volume"`
	SoundEffectsVolume float64       `mapstructure:"sound_effects_volume"`
}

// Config holds all configuration options for cubecue
type Config struct {
	Audio         AudioSettings `mapstructure:"audio"`
	AssetDirs     []string      `mapstructure:"asset_dirs"` // Searched in order, first match wins
	ShakeInterval time.Duration `mapstructure:"shake_interval"`
	Debug         bool          `mapstructure:"debug"`
	Trace         bool          `mapstructure:"trace"`
}

// Defaults returns a Config with the engine defaults
func Defaults() Config {
	a := audio.DefaultConfig()
	return Config{
		Audio: AudioSettings{
			SampleRate:         a.SampleRate,
			Buffer:             a.BufferDuration,
			FadeOut:            a.FadeOut,
			MusicVolume:        a.MusicVolume,
			SoundEffectsVolume: a.SoundEffectsVolume,
		},
		AssetDirs:     []string{"assets"},
		ShakeInterval: coordinator.DefaultShakeInterval,
	}
}

// Validate checks ranges
func (c Config) Validate() error {
	if err := c.AudioEngine().Validate(); err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	if c.ShakeInterval <= 0 {
		return fmt.Errorf("shake_interval must be positive, got %s", c.ShakeInterval)
	}
	if len(c.AssetDirs) == 0 {
		return fmt.Errorf("asset_dirs must name at least one directory")
	}
	return nil
}

// AudioEngine converts the audio section into the engine configuration
func (c Config) AudioEngine() *audio.Config {
	return &audio.Config{
		SampleRate:         c.Audio.SampleRate,
		BufferDuration:     c.Audio.Buffer,
		FadeOut:            c.Audio.FadeOut,
		MusicVolume:        c.Audio.MusicVolume,
		SoundEffectsVolume: c.Audio.SoundEffectsVolume,
	}
}

func newViper(path string) *viper.Viper {
	v := viper.New()

	d := Defaults()
	v.SetDefault("audio.sample_rate", d.Audio.SampleRate)
	v.SetDefault("audio.buffer", d.Audio.Buffer)
	v.SetDefault("audio.fade_out", d.Audio.FadeOut)
	v.SetDefault("audio.music_volume", d.Audio.MusicVolume)
	v.SetDefault("audio.sound_effects_volume", d.Audio.SoundEffectsVolume)
	v.SetDefault("asset_dirs", d.AssetDirs)
	v.SetDefault("shake_interval", d.ShakeInterval)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("trace", d.Trace)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	}
	return v
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads path (yaml, toml or json by extension) over the defaults
// An empty path uses defaults and environment only
func Load(path string) (Config, error) {
	v := newViper(path)
	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	return decode(v)
}

// Watch loads path and calls fn with every valid revision written to it
// Invalid revisions are logged and skipped
func Watch(path string, fn func(Config)) (Config, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := decode(v)
	if err != nil {
		return Config{}, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		next, err := decode(v)
		if err != nil {
			log.Printf("[config] ignoring %s: %v", e.Name, err)
			return
		}
		fn(next)
	})
	v.WatchConfig()
	return cfg, nil
}
