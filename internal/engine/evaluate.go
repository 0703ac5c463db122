// Package engine scores Gomoku positions and picks moves with minimax and
// alpha-beta search.
package engine

import "github.com/jaminalder/codex-gomoku/internal/domain"

// Score is a heuristic favorability value. Positive favors the evaluated player.
type Score float64

// OpponentFactor inflates opponent lines so threats weigh more than own formations.
const OpponentFactor = 1.5

// weights is indexed by the number of same-side stones in a window.
var weights = [domain.WinLength + 1]Score{0, 1, 10, 100, 1000, 100000}

// Evaluate scores board from player's perspective. Every cell starts a window of
// up to five in-bounds cells in each direction; windows holding stones of only one
// side add (own) or subtract (opponent, scaled) the weight for that count.
func Evaluate(b *domain.Board, player domain.Cell) Score {
	opp := player.Opponent()
	n := b.Size()
	var score Score
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			for _, d := range domain.Directions() {
				mine, theirs := countWindow(b, r, c, d[0], d[1], player, opp)
				score += windowScore(mine, theirs)
			}
		}
	}
	return score
}

func countWindow(b *domain.Board, r, c, dr, dc int, player, opp domain.Cell) (mine, theirs int) {
	for i := 0; i < domain.WinLength; i++ {
		rr, cc := r+dr*i, c+dc*i
		if !b.InBounds(rr, cc) {
			break
		}
		switch b.At(rr, cc) {
		case player:
			mine++
		case opp:
			theirs++
		}
	}
	return mine, theirs
}

// windowScore is the contribution of one window. Mixed windows are blocked and
// contribute nothing.
func windowScore(mine, theirs int) Score {
	switch {
	case mine > 0 && theirs == 0:
		return weights[mine]
	case theirs > 0 && mine == 0:
		return -weights[theirs] * OpponentFactor
	default:
		return 0
	}
}
