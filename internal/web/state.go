package web

import (
	"math"

	"github.com/jaminalder/codex-gomoku/internal/app"
	"github.com/jaminalder/codex-gomoku/internal/config"
	"github.com/jaminalder/codex-gomoku/internal/domain"
	"github.com/jaminalder/codex-gomoku/internal/engine"
)

type searchDTO struct {
	Algorithm engine.Algorithm `json:"algorithm"`
	Depth     int              `json:"depth"`
	Row       int              `json:"row"`
	Col       int              `json:"col"`
	Score     float64          `json:"score"`
	Stats     engine.Stats     `json:"stats"`
	ElapsedMs float64          `json:"elapsed_ms"`
}

// stateDTO is the JSON view of a game used by /state and the websocket feed.
// Cells are 0 (empty), 1 (A) and 2 (B).
type stateDTO struct {
	ID       string       `json:"id"`
	Mode     app.Mode     `json:"mode"`
	Size     int          `json:"size"`
	Board    [][]int      `json:"board"`
	Next     string       `json:"next"`
	Winner   string       `json:"winner,omitempty"`
	Over     bool         `json:"over"`
	Moves    int          `json:"moves"`
	Last     *domain.Move `json:"last,omitempty"`
	Thinking bool         `json:"thinking"`
	Status   string       `json:"status"`
	Search   *searchDTO   `json:"search,omitempty"`
}

func newStateDTO(gs app.GameState, labels config.Labels) stateDTO {
	g := gs.Game
	rows := g.Board.Rows()
	board := make([][]int, len(rows))
	for r, row := range rows {
		board[r] = make([]int, len(row))
		for c, cell := range row {
			board[r][c] = int(cell)
		}
	}
	dto := stateDTO{
		ID:       gs.ID,
		Mode:     gs.Mode,
		Size:     g.Board.Size(),
		Board:    board,
		Next:     sideLabel(g.Turn, labels),
		Over:     g.Over,
		Moves:    g.Moves,
		Last:     g.Last,
		Thinking: gs.Thinking,
		Status:   statusText(gs, labels),
	}
	if g.Over {
		dto.Winner = sideLabel(g.Winner, labels)
	}
	// infinite scores are not JSON encodable
	if s := gs.Search; s != nil && s.Found && !math.IsInf(float64(s.Score), 0) {
		dto.Search = &searchDTO{
			Algorithm: s.Algorithm,
			Depth:     s.Depth,
			Row:       s.Move.Row,
			Col:       s.Move.Col,
			Score:     float64(s.Score),
			Stats:     s.Stats,
			ElapsedMs: float64(s.Elapsed.Microseconds()) / 1000,
		}
	}
	return dto
}
