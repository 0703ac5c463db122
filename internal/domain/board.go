package domain

import "errors"

// Cell represents a board cell state. A and B are the two players.
type Cell uint8

const (
	Empty Cell = iota
	A
	B
)

// DefaultSize is the side length of the board every game is played on.
const DefaultSize = 15

// WinLength is the number of consecutive stones that wins.
const WinLength = 5

// Errors returned by domain operations.
var (
	ErrOutOfBounds = errors.New("out of bounds")
	ErrOccupied    = errors.New("cell occupied")
	ErrGameOver    = errors.New("game over")
)

// Opponent returns the other player. Empty has no opponent and maps to itself.
func (c Cell) Opponent() Cell {
	switch c {
	case A:
		return B
	case B:
		return A
	default:
		return Empty
	}
}

func (c Cell) String() string {
	switch c {
	case A:
		return "A"
	case B:
		return "B"
	default:
		return "Empty"
	}
}

// Move is a (row, column) pair.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// directions are the four line directions scanned from every origin.
var directions = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// Directions returns the unit vectors of the four line directions.
func Directions() [4][2]int { return directions }

// Board is a square grid stored row-major. Its size never changes.
type Board struct {
	size  int
	cells []Cell
}

// NewBoard returns an empty size×size board.
func NewBoard(size int) *Board {
	if size < 1 {
		size = 1
	}
	return &Board{size: size, cells: make([]Cell, size*size)}
}

func (b *Board) Size() int { return b.size }

func (b *Board) InBounds(r, c int) bool {
	return r >= 0 && r < b.size && c >= 0 && c < b.size
}

// At returns the cell at (r, c). The coordinates must be in bounds.
func (b *Board) At(r, c int) Cell { return b.cells[r*b.size+c] }

// IsEmpty reports whether the in-bounds cell at (r, c) holds no stone.
func (b *Board) IsEmpty(r, c int) bool { return b.At(r, c) == Empty }

// Place sets the cell without validation. Search only calls it on known empty cells.
func (b *Board) Place(r, c int, p Cell) { b.cells[r*b.size+c] = p }

// Clear resets a cell to Empty, undoing a simulated Place.
func (b *Board) Clear(r, c int) { b.cells[r*b.size+c] = Empty }

// TryMove validates and applies a move. The board is untouched on error.
func (b *Board) TryMove(r, c int, p Cell) error {
	if !b.InBounds(r, c) {
		return ErrOutOfBounds
	}
	if !b.IsEmpty(r, c) {
		return ErrOccupied
	}
	b.Place(r, c, p)
	return nil
}

// PlaceOrFail is TryMove reduced to a success flag.
func (b *Board) PlaceOrFail(r, c int, p Cell) bool {
	return b.TryMove(r, c, p) == nil
}

// HasFiveInARow reports whether p owns five consecutive cells in any direction.
// Longer runs count too.
func (b *Board) HasFiveInARow(p Cell) bool {
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			for _, d := range directions {
				if b.runFrom(r, c, d[0], d[1], p) {
					return true
				}
			}
		}
	}
	return false
}

func (b *Board) runFrom(r, c, dr, dc int, p Cell) bool {
	for i := 0; i < WinLength; i++ {
		if !b.InBounds(r, c) || b.At(r, c) != p {
			return false
		}
		r += dr
		c += dc
	}
	return true
}

// Stones returns the number of occupied cells.
func (b *Board) Stones() int {
	n := 0
	for _, c := range b.cells {
		if c != Empty {
			n++
		}
	}
	return n
}

// Full reports whether no empty cell is left.
func (b *Board) Full() bool { return b.Stones() == len(b.cells) }

// Clone returns an independent copy.
func (b *Board) Clone() *Board {
	cp := &Board{size: b.size, cells: make([]Cell, len(b.cells))}
	copy(cp.cells, b.cells)
	return cp
}

// Equal reports whether both boards have the same size and cells.
func (b *Board) Equal(o *Board) bool {
	if b.size != o.size {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Rows returns a row-major copy of the grid for rendering.
func (b *Board) Rows() [][]Cell {
	out := make([][]Cell, b.size)
	for r := range out {
		out[r] = append([]Cell(nil), b.cells[r*b.size:(r+1)*b.size]...)
	}
	return out
}
