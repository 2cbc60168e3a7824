package combat

import "fmt"

// Pos is a grid coordinate, row first.
type Pos struct {
	R int `json:"r"`
	C int `json:"c"`
}

func (p Pos) Add(d Direction) Pos {
	o := dirOffsets[d]
	return Pos{R: p.R + o.R, C: p.C + o.C}
}

func (p Pos) String() string { return fmt.Sprintf("(%d,%d)", p.R, p.C) }

// ReadingLess orders positions top to bottom, then left to right.
func ReadingLess(a, b Pos) bool {
	if a.R != b.R {
		return a.R < b.R
	}
	return a.C < b.C
}

// Direction is one orthogonal step. The constant order is the tie-break
// priority for first steps.
type Direction uint8

const (
	Up Direction = iota
	Left
	Right
	Down
	dirCount
)

// Directions lists the four steps in priority order.
var Directions = [dirCount]Direction{Up, Left, Right, Down}

var dirOffsets = [dirCount]Pos{
	Up:    {R: -1, C: 0},
	Left:  {R: 0, C: -1},
	Right: {R: 0, C: 1},
	Down:  {R: 1, C: 0},
}

var dirNames = [dirCount]string{"up", "left", "right", "down"}

func (d Direction) String() string {
	if d >= dirCount {
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
	return dirNames[d]
}

// Neighbours returns the four orthogonal neighbours of p in priority order.
func (p Pos) Neighbours() [dirCount]Pos {
	var out [dirCount]Pos
	for _, d := range Directions {
		out[d] = p.Add(d)
	}
	return out
}

// Adjacent reports whether a and b are orthogonal neighbours.
func Adjacent(a, b Pos) bool {
	dr, dc := a.R-b.R, a.C-b.C
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return dr+dc == 1
}
