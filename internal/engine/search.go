package engine

import (
	"math"

	"github.com/jaminalder/codex-gomoku/internal/domain"
)

// Stats counts the work done by one search.
type Stats struct {
	Nodes   int `json:"nodes"`
	Leaves  int `json:"leaves"`
	Cutoffs int `json:"cutoffs"`
}

// search carries the state shared by every frame of one top-level call: the
// board being mutated, the fixed evaluation perspective and the counters.
type search struct {
	b      *domain.Board
	player domain.Cell
	stats  Stats
	trace  *Trace
}

// Minimax runs an unpruned fixed-depth search. It returns the best score for
// player and, unless the position is terminal or has no candidates, the move
// reaching it. The board is mutated during the search and restored before return.
func Minimax(b *domain.Board, depth int, maximizing bool, player domain.Cell) (Score, domain.Move, bool) {
	s := &search{b: b, player: player}
	return s.minimax(depth, maximizing, s.trace.root(depth))
}

// AlphaBeta is Minimax with branch pruning inside the (alpha, beta) window. With
// an unbounded window it picks the same move and score as Minimax.
func AlphaBeta(b *domain.Board, depth int, maximizing bool, player domain.Cell, alpha, beta Score) (Score, domain.Move, bool) {
	s := &search{b: b, player: player}
	return s.alphaBeta(depth, maximizing, alpha, beta, s.trace.root(depth))
}

// Evaluation is always from player's side, even when the opponent has already
// won. Terminal states get the heuristic value, not a fixed win constant.
func (s *search) terminal(depth int) bool {
	return depth == 0 || s.b.HasFiveInARow(s.player) || s.b.HasFiveInARow(s.player.Opponent())
}

func (s *search) leaf(node int) Score {
	s.stats.Leaves++
	v := Evaluate(s.b, s.player)
	s.trace.close(node, v)
	return v
}

// mover returns who plays at this node and the starting best value.
func (s *search) mover(maximizing bool) (domain.Cell, Score) {
	if maximizing {
		return s.player, Score(math.Inf(-1))
	}
	return s.player.Opponent(), Score(math.Inf(1))
}

// play places m for mover, runs fn and always takes the stone back.
func (s *search) play(m domain.Move, mover domain.Cell, fn func() Score) Score {
	s.b.Place(m.Row, m.Col, mover)
	defer s.b.Clear(m.Row, m.Col)
	return fn()
}

func better(maximizing bool, v, best Score) bool {
	if maximizing {
		return v > best
	}
	return v < best
}

func (s *search) minimax(depth int, maximizing bool, node int) (Score, domain.Move, bool) {
	s.stats.Nodes++
	if s.terminal(depth) {
		return s.leaf(node), domain.Move{}, false
	}
	mover, best := s.mover(maximizing)
	var bestMove domain.Move
	found := false
	for _, m := range Candidates(s.b) {
		child := s.trace.open(node, m, mover, depth-1)
		v := s.play(m, mover, func() Score {
			v, _, _ := s.minimax(depth-1, !maximizing, child)
			return v
		})
		if better(maximizing, v, best) {
			best, bestMove, found = v, m, true
		}
	}
	s.trace.close(node, best)
	return best, bestMove, found
}

func (s *search) alphaBeta(depth int, maximizing bool, alpha, beta Score, node int) (Score, domain.Move, bool) {
	s.stats.Nodes++
	if s.terminal(depth) {
		return s.leaf(node), domain.Move{}, false
	}
	mover, best := s.mover(maximizing)
	var bestMove domain.Move
	found := false
	for _, m := range Candidates(s.b) {
		child := s.trace.open(node, m, mover, depth-1)
		v := s.play(m, mover, func() Score {
			v, _, _ := s.alphaBeta(depth-1, !maximizing, alpha, beta, child)
			return v
		})
		if better(maximizing, v, best) {
			best, bestMove, found = v, m, true
		}
		if maximizing {
			alpha = max(alpha, best)
		} else {
			beta = min(beta, best)
		}
		if beta <= alpha {
			s.stats.Cutoffs++
			s.trace.cutoff(node)
			break
		}
	}
	s.trace.close(node, best)
	return best, bestMove, found
}
