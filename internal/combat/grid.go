package combat

// Cell is Wall, Space, or the id of the occupying unit (>= 0).
type Cell int32

const (
	Wall  Cell = -2
	Space Cell = -1
)

func (c Cell) Occupied() bool { return c >= 0 }

// Unit returns the occupant id.
func (c Cell) Unit() (UnitID, bool) {
	if c < 0 {
		return 0, false
	}
	return UnitID(c), true
}

func Occupant(id UnitID) Cell { return Cell(id) }

// Grid stores cells in row-major order.
type Grid struct {
	W, H  int
	cells []Cell
}

// NewGrid allocates a grid filled with Space.
func NewGrid(w, h int) *Grid {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	g := &Grid{W: w, H: h, cells: make([]Cell, w*h)}
	for i := range g.cells {
		g.cells[i] = Space
	}
	return g
}

func (g *Grid) InBounds(p Pos) bool {
	return p.R >= 0 && p.R < g.H && p.C >= 0 && p.C < g.W
}

// At returns the cell at p. Anything outside the grid reads as Wall.
func (g *Grid) At(p Pos) Cell {
	if !g.InBounds(p) {
		return Wall
	}
	return g.cells[p.R*g.W+p.C]
}

// Set writes a cell. Writes outside the grid are ignored.
func (g *Grid) Set(p Pos, c Cell) {
	if !g.InBounds(p) {
		return
	}
	g.cells[p.R*g.W+p.C] = c
}

func (g *Grid) Clone() *Grid {
	out := &Grid{W: g.W, H: g.H, cells: make([]Cell, len(g.cells))}
	copy(out.cells, g.cells)
	return out
}
