package coordinator

import (
	"github.com/lixenwraith/cubecue/core"
	"github.com/lixenwraith/cubecue/game"
)

// Rand picks uniformly in [0,n); *rand.Rand from math/rand/v2 satisfies it
type Rand interface {
	IntN(n int) int
}

// introCue selects the background cue for a session appearing
// Timed games play once (fixed cue in demo), unlimited games loop
func introCue(mode game.Mode, isDemo bool, rnd Rand) (s core.Sound, loop bool) {
	if mode == game.ModeTimed {
		if isDemo {
			return core.TimedGameBgLoop1, false
		}
		return pick(rnd, core.TimedGameBgLoop1, core.TimedGameBgLoop2), false
	}
	return pick(rnd, core.UnlimitedGameBgLoop1, core.UnlimitedGameBgLoop2), true
}

func pick(rnd Rand, choices ...core.Sound) core.Sound {
	return choices[rnd.IntN(len(choices))]
}

// countdownCues returns the cues for secondsPlayed in a game of total seconds
// Warning at total-10, a tick for every second of [total-5, total]
func countdownCues(total, secondsPlayed int) []core.Sound {
	if total <= 0 {
		return nil
	}
	switch {
	case secondsPlayed == total-10:
		return []core.Sound{core.Timed10SecWarning}
	case secondsPlayed >= total-5 && secondsPlayed <= total:
		return []core.Sound{core.TimedCountdownTone}
	}
	return nil
}

// deselectCue fires when a non-empty selection clears without being scored
func deselectCue(prev, next game.Snapshot, action game.Action) (core.Sound, bool) {
	if len(prev.Selection) == 0 || len(next.Selection) != 0 {
		return core.Sound{}, false
	}
	if last, ok := next.LastPlayedWord(); ok && last == next.Word(prev.Selection) {
		return core.Sound{}, false
	}
	if action.IsSubmit() {
		return core.InvalidWord, true
	}
	return core.CubeDeselect, true
}

// submitCue maps the first letter of a played word onto the submit cue list
func submitCue(letter string) (core.Sound, bool) {
	if letter == "" {
		return core.Sound{}, false
	}
	b := letter[0]
	if b >= 'a' && b <= 'z' {
		b -= 'a' - 'A'
	}
	if b < 'A' || b > 'Z' {
		return core.Sound{}, false
	}
	return core.AllSubmits[int(b-'A')%core.SubmitAlphabetSize], true
}

// playedWordCue returns the submit cue when next adds a played-word move
func playedWordCue(prev, next game.Snapshot) (core.Sound, bool) {
	if len(next.Moves) == len(prev.Moves) {
		return core.Sound{}, false
	}
	last, ok := next.LastMove()
	if !ok || last.Kind != game.MovePlayedWord || len(last.Faces) == 0 {
		return core.Sound{}, false
	}
	return submitCue(next.Cubes.Letter(last.Faces[0]))
}

// isShaking reports whether selection, read against s, is a playable word
// using at least one fully used cube
func isShaking(s game.Snapshot, selection []game.IndexedFace, dict game.Dictionary) bool {
	if len(selection) == 0 {
		return false
	}
	return s.IsPlayable(dict, s.Word(selection)) && s.Cubes.AnyAtMaxUse(selection)
}

func sameSelection(a, b []game.IndexedFace) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
