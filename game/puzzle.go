package game

import "strings"

// MaxUseCount is the number of words a cube can take part in before it is removed
const MaxUseCount = 2

// Side identifies one visible face of a cube
type Side uint8

const (
	SideTop Side = iota
	SideLeft
	SideRight
)

// LatticePoint addresses a cube in the 3x3x3 puzzle
type LatticePoint struct {
	X, Y, Z int
}

// Face is a lettered cube side
type Face struct {
	Letter string
	Side   Side
}

// IndexedFace addresses one face of one cube
type IndexedFace struct {
	Index LatticePoint
	Side  Side
}

// Cube is a puzzle cell with one face per side
type Cube struct {
	Faces    [3]Face // Indexed by Side
	UseCount int
	Removed  bool
}

// Puzzle maps lattice points to cubes
type Puzzle map[LatticePoint]Cube

// Letter returns the letter on the addressed face, empty when out of bounds
func (p Puzzle) Letter(f IndexedFace) string {
	c, ok := p[f.Index]
	if !ok || int(f.Side) >= len(c.Faces) {
		return ""
	}
	return c.Faces[f.Side].Letter
}

// String spells the word formed by faces
func (p Puzzle) String(faces []IndexedFace) string {
	var b strings.Builder
	for _, f := range faces {
		b.WriteString(p.Letter(f))
	}
	return b.String()
}

// AnyAtMaxUse reports whether a face in the path belongs to a fully used cube
func (p Puzzle) AnyAtMaxUse(faces []IndexedFace) bool {
	for _, f := range faces {
		if p[f.Index].UseCount == MaxUseCount {
			return true
		}
	}
	return false
}

// Row builds a puzzle with one cube per letter along X, letters on the top faces
// Returns the puzzle and the path spelling letters
func Row(letters string) (Puzzle, []IndexedFace) {
	p := make(Puzzle, len(letters))
	path := make([]IndexedFace, 0, len(letters))
	for i, r := range letters {
		pt := LatticePoint{X: i}
		var c Cube
		c.Faces[SideTop] = Face{Letter: string(r), Side: SideTop}
		c.Faces[SideLeft] = Face{Letter: string(r), Side: SideLeft}
		c.Faces[SideRight] = Face{Letter: string(r), Side: SideRight}
		p[pt] = c
		path = append(path, IndexedFace{Index: pt, Side: SideTop})
	}
	return p, path
}

// WithUse returns a copy of p with the cube at pt set to count uses
func (p Puzzle) WithUse(pt LatticePoint, count int) Puzzle {
	out := make(Puzzle, len(p))
	for k, v := range p {
		out[k] = v
	}
	c := out[pt]
	c.UseCount = count
	out[pt] = c
	return out
}
