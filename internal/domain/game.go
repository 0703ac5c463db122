package domain

// Game holds the current state of a Gomoku match.
type Game struct {
	Board  *Board
	Turn   Cell
	Winner Cell
	Over   bool
	Moves  int
	Last   *Move
}

// New returns a new game on the default board with A to move.
func New() Game {
	return NewSized(DefaultSize)
}

// NewSized returns a new game on a size×size board. Used by tests and tools.
func NewSized(size int) Game {
	return Game{Board: NewBoard(size), Turn: A}
}

// Play attempts to play the current turn at row r, column c.
func (g *Game) Play(r, c int) error {
	if g.Over {
		return ErrGameOver
	}
	if err := g.Board.TryMove(r, c, g.Turn); err != nil {
		return err
	}
	g.Moves++
	g.Last = &Move{Row: r, Col: c}

	if g.Board.HasFiveInARow(g.Turn) {
		g.Winner = g.Turn
		g.Over = true
		return nil
	}

	// Move budget exhausted
	if g.Moves == g.Board.Size()*g.Board.Size() {
		g.Winner = Empty
		g.Over = true
		return nil
	}

	g.Turn = g.Turn.Opponent()
	return nil
}

// Draw ends the game without a winner. Used when an AI finds no move.
func (g *Game) Draw() {
	g.Winner = Empty
	g.Over = true
}

// Clone returns a deep copy of the game.
func (g Game) Clone() Game {
	cp := g
	cp.Board = g.Board.Clone()
	if g.Last != nil {
		m := *g.Last
		cp.Last = &m
	}
	return cp
}
