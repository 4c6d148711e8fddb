package audio

import (
	"fmt"
	"time"
)

// EffectsHeadroom scales the sound effect category volume onto the effects bus
const EffectsHeadroom = 0.25

// resampleQuality is the beep resampler quality used for mismatched sample rates
const resampleQuality = 4

// Config holds audio engine settings
type Config struct {
	SampleRate         int           // Output sample rate in Hz
	BufferDuration     time.Duration // Speaker buffer length
	FadeOut            time.Duration // Music stop fade length
	MusicVolume        float64       // Music category volume (0.0-1.0)
	SoundEffectsVolume float64       // Sound effect category volume (0.0-1.0)
}

// DefaultConfig returns the default audio configuration
func DefaultConfig() *Config {
	return &Config{
		SampleRate:         44100,
		BufferDuration:     100 * time.Millisecond,
		FadeOut:            2500 * time.Millisecond,
		MusicVolume:        1.0,
		SoundEffectsVolume: 1.0,
	}
}

// Validate checks ranges
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	}
	if c.BufferDuration <= 0 {
		return fmt.Errorf("buffer duration must be positive, got %s", c.BufferDuration)
	}
	if c.FadeOut < 0 {
		return fmt.Errorf("fade out must not be negative, got %s", c.FadeOut)
	}
	if c.MusicVolume < 0 || c.MusicVolume > 1 {
		return fmt.Errorf("music volume out of range [0,1]: %v", c.MusicVolume)
	}
	if c.SoundEffectsVolume < 0 || c.SoundEffectsVolume > 1 {
		return fmt.Errorf("sound effects volume out of range [0,1]: %v", c.SoundEffectsVolume)
	}
	return nil
}

// clampVolume limits a normalized volume to 0.0-1.0
func clampVolume(vol float64) float64 {
	if vol < 0 {
		return 0
	}
	if vol > 1 {
		return 1
	}
	return vol
}
