package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jaminalder/codex-gomoku/internal/domain"
)

// Algorithm selects the search routine.
type Algorithm int8

const (
	AlgMinimax Algorithm = iota + 1
	AlgAlphaBeta
)

// DefaultDepth is the search depth the game drivers use.
const DefaultDepth = 2

var algorithmStrings = [...]string{
	"unknown",
	"minimax",
	"alphabeta",
}

// ParseAlgorithm accepts "minimax" and "alphabeta" (also "alpha-beta", "alpha_beta").
func ParseAlgorithm(s string) (Algorithm, error) {
	s = strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	for i := 1; i < len(algorithmStrings); i++ {
		if s == algorithmStrings[i] {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("unknown search algorithm %q", s)
}

func (a Algorithm) String() string {
	if a < AlgMinimax || a > AlgAlphaBeta {
		return algorithmStrings[0]
	}
	return algorithmStrings[a]
}

func (a Algorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Algorithm) UnmarshalText(text []byte) error {
	v, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Result is the outcome of a top-level search.
type Result struct {
	Algorithm Algorithm
	Depth     int
	Move      domain.Move
	Score     Score
	Found     bool
	Stats     Stats
	Elapsed   time.Duration
}

// Searcher picks a move for a player. A Searcher is a value and holds no state
// between calls apart from the optional Trace.
type Searcher struct {
	Algorithm Algorithm
	Depth     int
	Trace     *Trace
}

// Best searches b as the maximizing side for player with an unbounded window.
// The board is used in place and restored before Best returns; callers must not
// mutate it concurrently.
func (sr Searcher) Best(b *domain.Board, player domain.Cell) Result {
	depth := sr.Depth
	if depth < 0 {
		depth = 0
	}
	s := &search{b: b, player: player, trace: sr.Trace}
	start := time.Now()
	res := Result{Algorithm: sr.Algorithm, Depth: depth}
	switch sr.Algorithm {
	case AlgMinimax:
		res.Score, res.Move, res.Found = s.minimax(depth, true, s.trace.root(depth))
	default:
		inf := Score(math.Inf(1))
		res.Score, res.Move, res.Found = s.alphaBeta(depth, true, -inf, inf, s.trace.root(depth))
	}
	res.Elapsed = time.Since(start)
	res.Stats = s.stats
	return res
}
