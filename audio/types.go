package audio

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lixenwraith/cubecue/core"
)

// Sentinel errors
var (
	ErrSoundNotLoaded    = errors.New("sound not loaded")
	ErrBufferAllocation  = errors.New("buffer allocation failed")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrOutputUnavailable = errors.New("audio output unavailable")
	ErrManagerClosed     = errors.New("audio manager closed")
)

// SoundNotLoadedError reports a verb on a sound that never loaded successfully
type SoundNotLoadedError struct {
	Sound core.Sound
}

func (e *SoundNotLoadedError) Error() string {
	return fmt.Sprintf("%v: %s", ErrSoundNotLoaded, e.Sound)
}

func (e *SoundNotLoadedError) Unwrap() error {
	return ErrSoundNotLoaded
}

// BufferAllocationError reports a sound effect that decoded to no samples
type BufferAllocationError struct {
	Sound core.Sound
}

func (e *BufferAllocationError) Error() string {
	return fmt.Sprintf("%v: %s", ErrBufferAllocation, e.Sound)
}

func (e *BufferAllocationError) Unwrap() error {
	return ErrBufferAllocation
}

// LoadError aggregates every sound that failed in one Load call
// Sounds absent from Failures loaded fine and stay usable
type LoadError struct {
	Failures map[core.Sound]error
}

func (e *LoadError) Error() string {
	keys := make([]core.Sound, 0, len(e.Failures))
	for s := range e.Failures {
		keys = append(keys, s)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	parts := make([]string, len(keys))
	for i, s := range keys {
		parts[i] = fmt.Sprintf("%s: %v", s, e.Failures[s])
	}
	return fmt.Sprintf("load failed for %d sound(s): %s", len(keys), strings.Join(parts, "; "))
}

// Unwrap exposes each per-sound cause to errors.Is and errors.As
func (e *LoadError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, err := range e.Failures {
		errs = append(errs, err)
	}
	return errs
}
