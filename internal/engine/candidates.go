package engine

import "github.com/jaminalder/codex-gomoku/internal/domain"

// Candidates returns every empty cell touching at least one stone (8-neighbourhood),
// in row-major order. A board without stones yields only the centre cell; a full
// board yields nothing.
func Candidates(b *domain.Board) []domain.Move {
	n := b.Size()
	if b.Stones() == 0 {
		return []domain.Move{{Row: n / 2, Col: n / 2}}
	}
	var out []domain.Move
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if b.IsEmpty(r, c) && touchesStone(b, r, c) {
				out = append(out, domain.Move{Row: r, Col: c})
			}
		}
	}
	return out
}

func touchesStone(b *domain.Board, r, c int) bool {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			rr, cc := r+dr, c+dc
			if b.InBounds(rr, cc) && !b.IsEmpty(rr, cc) {
				return true
			}
		}
	}
	return false
}
