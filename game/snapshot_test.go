package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModeSeconds(t *testing.T) {
	assert.Equal(t, 180, ModeTimed.Seconds())
	assert.Equal(t, 0, ModeUnlimited.Seconds())
	assert.Equal(t, "timed", ModeTimed.String())
}

func TestActionIsSubmit(t *testing.T) {
	assert.True(t, ActionSubmitButtonTapped.IsSubmit())
	assert.True(t, ActionConfirmSubmit.IsSubmit())
	assert.False(t, ActionTapCube.IsSubmit())
	assert.Equal(t, "confirm_remove_cube", ActionConfirmRemoveCube.String())
	assert.Equal(t, "unknown", Action(200).String())
}

func TestRowSpellsWord(t *testing.T) {
	p, path := Row("CAB")
	assert.Equal(t, "CAB", p.String(path))
	assert.Equal(t, "AB", p.String(path[1:]))
	assert.Equal(t, "", p.Letter(IndexedFace{Index: LatticePoint{X: 9}}))
}

func TestAnyAtMaxUse(t *testing.T) {
	p, path := Row("CAB")
	assert.False(t, p.AnyAtMaxUse(path))

	used := p.WithUse(path[1].Index, MaxUseCount)
	assert.True(t, used.AnyAtMaxUse(path))
	assert.False(t, used.AnyAtMaxUse(path[:1]))
	assert.Equal(t, 0, p[path[1].Index].UseCount, "WithUse copies")
}

func TestSnapshotPlayedWords(t *testing.T) {
	p, path := Row("CABS")
	s := Snapshot{
		Cubes: p,
		Moves: []Move{
			{Kind: MovePlayedWord, Faces: path[:3]},
			{Kind: MoveRemovedCube, Cube: path[3].Index},
		},
		Language: LanguageEnglish,
	}

	assert.True(t, s.HasBeenPlayed("CAB"))
	assert.False(t, s.HasBeenPlayed("CABS"))

	last, ok := s.LastMove()
	assert.True(t, ok)
	assert.Equal(t, MoveRemovedCube, last.Kind)

	word, ok := s.LastPlayedWord()
	assert.True(t, ok)
	assert.Equal(t, "CAB", word)

	_, ok = Snapshot{}.LastPlayedWord()
	assert.False(t, ok)
}

func TestIsPlayable(t *testing.T) {
	dict := NewWordList(LanguageEnglish, "cab", "cabs")
	p, path := Row("CABS")
	s := Snapshot{Cubes: p, Language: LanguageEnglish, Moves: []Move{{Kind: MovePlayedWord, Faces: path[:3]}}}

	assert.True(t, dict.Contains("Cab", LanguageEnglish))
	assert.False(t, dict.Contains("cab", Language("fr")))
	assert.False(t, s.IsPlayable(dict, "CAB"), "already played")
	assert.True(t, s.IsPlayable(dict, "CABS"))
	assert.False(t, s.IsPlayable(dict, ""))
}
