package coordinator

import (
	"github.com/lixenwraith/cubecue/core"
	"github.com/lixenwraith/cubecue/game"
)

// SelectionSounds plays feedback as the selection path changes
// It is consulted only when the selection differs between snapshots
type SelectionSounds interface {
	SelectionChanged(prev, next game.Snapshot, dict game.Dictionary) (core.Sound, bool)
}

// SelectionFeedback is the default SelectionSounds
// Growing a path plays select, or valid/already-played once the path spells a known word
type SelectionFeedback struct{}

// SelectionChanged implements SelectionSounds
func (SelectionFeedback) SelectionChanged(prev, next game.Snapshot, dict game.Dictionary) (core.Sound, bool) {
	if len(next.Selection) <= len(prev.Selection) {
		return core.Sound{}, false
	}

	word := next.SelectedWord()
	switch {
	case !dict.Contains(word, next.Language):
		return core.CubeSelect, true
	case next.HasBeenPlayed(word):
		return core.AlreadyPlayed, true
	default:
		return core.ValidWord, true
	}
}
