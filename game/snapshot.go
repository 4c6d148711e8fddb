package game

import (
	"strings"
	"time"
)

// Language tags a dictionary
type Language string

const LanguageEnglish Language = "en"

// Dictionary answers word membership for a language
type Dictionary interface {
	Contains(word string, lang Language) bool
}

// WordList is an in-memory Dictionary, case-insensitive
type WordList map[Language]map[string]struct{}

// NewWordList creates a word list for one language
func NewWordList(lang Language, words ...string) WordList {
	w := WordList{}
	w.Add(lang, words...)
	return w
}

// Add inserts words for lang
func (w WordList) Add(lang Language, words ...string) {
	set, ok := w[lang]
	if !ok {
		set = make(map[string]struct{}, len(words))
		w[lang] = set
	}
	for _, word := range words {
		set[strings.ToUpper(word)] = struct{}{}
	}
}

// Contains implements Dictionary
func (w WordList) Contains(word string, lang Language) bool {
	_, ok := w[lang][strings.ToUpper(word)]
	return ok
}

// MoveKind distinguishes move variants
type MoveKind uint8

const (
	MovePlayedWord MoveKind = iota
	MoveRemovedCube
)

// Move is one entry of the move history
type Move struct {
	Kind     MoveKind
	Faces    []IndexedFace // MovePlayedWord
	Cube     LatticePoint  // MoveRemovedCube
	PlayedAt time.Time
	Score    int
}

// Snapshot is the session state after one transition
// Snapshots are values; the coordinator never mutates them
type Snapshot struct {
	Mode          Mode
	SecondsPlayed int
	Selection     []IndexedFace
	Cubes         Puzzle
	Moves         []Move
	GameOver      bool
	Language      Language
	IsDemo        bool
}

// Word spells a face path against the snapshot's cubes
func (s Snapshot) Word(faces []IndexedFace) string {
	return s.Cubes.String(faces)
}

// SelectedWord spells the current selection
func (s Snapshot) SelectedWord() string {
	return s.Word(s.Selection)
}

// HasBeenPlayed reports whether word appears among played-word moves
func (s Snapshot) HasBeenPlayed(word string) bool {
	for _, m := range s.Moves {
		if m.Kind == MovePlayedWord && s.Word(m.Faces) == word {
			return true
		}
	}
	return false
}

// LastMove returns the newest move
func (s Snapshot) LastMove() (Move, bool) {
	if len(s.Moves) == 0 {
		return Move{}, false
	}
	return s.Moves[len(s.Moves)-1], true
}

// LastPlayedWord returns the word of the newest played-word move
func (s Snapshot) LastPlayedWord() (string, bool) {
	for i := len(s.Moves) - 1; i >= 0; i-- {
		if s.Moves[i].Kind == MovePlayedWord {
			return s.Word(s.Moves[i].Faces), true
		}
	}
	return "", false
}

// IsPlayable reports whether word is in the dictionary and not yet played
func (s Snapshot) IsPlayable(dict Dictionary, word string) bool {
	return word != "" && dict.Contains(word, s.Language) && !s.HasBeenPlayed(word)
}
