package core

import "fmt"

// Category selects how a sound is decoded and mixed
type Category int

const (
	CategoryMusic       Category = iota // Long-form, loopable, seekable
	CategorySoundEffect                 // Short, fully buffered, restarts from zero
)

func (c Category) String() string {
	switch c {
	case CategoryMusic:
		return "music"
	case CategorySoundEffect:
		return "sound_effect"
	default:
		return "unknown"
	}
}

// Sound identifies a loadable asset, comparable and usable as a map key
type Sound struct {
	Category Category
	Name     string
}

// Music returns the music sound with the given asset name
func Music(name string) Sound {
	return Sound{Category: CategoryMusic, Name: name}
}

// Effect returns the sound effect with the given asset name
func Effect(name string) Sound {
	return Sound{Category: CategorySoundEffect, Name: name}
}

func (s Sound) String() string {
	return fmt.Sprintf("%s/%s", s.Category, s.Name)
}

// Music cues
var (
	TimedGameBgLoop1     = Music("timedGameBgLoop1")
	TimedGameBgLoop2     = Music("timedGameBgLoop2")
	UnlimitedGameBgLoop1 = Music("unlimitedGameBgLoop1")
	UnlimitedGameBgLoop2 = Music("unlimitedGameBgLoop2")
	GameOverMusicLoop    = Music("gameOverMusicLoop")
	HomeScreenBgLoop     = Music("homeScreenBgLoop")
)

// Sound effect cues
var (
	CubeRemove         = Effect("cubeRemove")
	CubeDeselect       = Effect("cubeDeselect")
	CubeSelect         = Effect("cubeSelect")
	CubeShake          = Effect("cubeShake")
	InvalidWord        = Effect("invalidWord")
	ValidWord          = Effect("validWord")
	AlreadyPlayed      = Effect("alreadyPlayed")
	Timed10SecWarning  = Effect("timed10SecWarning")
	TimedCountdownTone = Effect("timedCountdownTone")
)

// SubmitAlphabetSize is the number of submit cues letters are folded onto ('A'..'N')
const SubmitAlphabetSize = 'O' - 'A'

// AllSubmits is the ordered submit cue list indexed by folded first letter
var AllSubmits = func() []Sound {
	out := make([]Sound, SubmitAlphabetSize)
	for i := range out {
		out[i] = Effect(fmt.Sprintf("submitWord%d", i+1))
	}
	return out
}()

// AllMusic lists every music cue in the catalog
var AllMusic = []Sound{
	TimedGameBgLoop1,
	TimedGameBgLoop2,
	UnlimitedGameBgLoop1,
	UnlimitedGameBgLoop2,
	GameOverMusicLoop,
	HomeScreenBgLoop,
}

// AllEffects lists every sound effect cue in the catalog, submits included
var AllEffects = append([]Sound{
	CubeRemove,
	CubeDeselect,
	CubeSelect,
	CubeShake,
	InvalidWord,
	ValidWord,
	AlreadyPlayed,
	Timed10SecWarning,
	TimedCountdownTone,
}, AllSubmits...)

// Catalog returns every cue, music first
func Catalog() []Sound {
	out := make([]Sound, 0, len(AllMusic)+len(AllEffects))
	out = append(out, AllMusic...)
	return append(out, AllEffects...)
}
