package audio

import (
	"context"

	"github.com/lixenwraith/cubecue/core"
)

// Player is the playback surface consumed by game systems
type Player interface {
	Load(ctx context.Context, sounds ...core.Sound) error
	Play(core.Sound) error
	Loop(core.Sound) error
	Stop(core.Sound) error
	SetVolume(core.Sound, float64) error
	SetCategoryVolume(core.Category, float64)
}

var (
	_ Player = (*Manager)(nil)
	_ Player = Nop{}
	_ Player = (*FilteredPlayer)(nil)
)

// Nop accepts every call and does nothing, for sessions without audio
type Nop struct{}

func (Nop) Load(context.Context, ...core.Sound) error { return nil }
func (Nop) Play(core.Sound) error { return nil }
func (Nop) Loop(core.Sound) error { return nil }
func (Nop) Stop(core.Sound) error { return nil }
func (Nop) SetVolume(core.Sound, float64) error { return nil }
func (Nop) SetCategoryVolume(core.Category, float64) {}

// FilteredPlayer drops Play for excluded sounds and forwards everything else
type FilteredPlayer struct {
	Player
	exclude map[core.Sound]struct{}
}

// Filtered wraps p so that Play of any excluded sound is skipped
func Filtered(p Player, exclude ...core.Sound) *FilteredPlayer {
	set := make(map[core.Sound]struct{}, len(exclude))
	for _, s := range exclude {
		set[s] = struct{}{}
	}
	return &FilteredPlayer{Player: p, exclude: set}
}

// Play forwards unless s is excluded
func (f *FilteredPlayer) Play(s core.Sound) error {
	if _, skip := f.exclude[s]; skip {
		return nil
	}
	return f.Player.Play(s)
}
