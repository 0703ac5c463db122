package app

import (
	"time"

	"github.com/jaminalder/codex-gomoku/internal/domain"
	"github.com/jaminalder/codex-gomoku/internal/engine"
)

// Searcher returns the search configured for side.
func (s *Service) Searcher(side domain.Cell) engine.Searcher {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchers[side]
}

// startAI plays AI turns for game id in the background until a human is to
// move, the game ends or the service closes.
func (s *Service) startAI(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for s.aiTurn(id) {
			if s.delay <= 0 {
				continue
			}
			select {
			case <-s.ctx.Done():
				return
			case <-time.After(s.delay):
			}
		}
	}()
}

// aiTurn makes one AI move and reports whether the AI is to move again.
// The search runs on a copy of the board so readers never see simulated stones.
func (s *Service) aiTurn(id string) bool {
	s.mu.Lock()
	gs, ok := s.games[id]
	if !ok || !gs.aiToMove() || gs.Thinking || s.ctx.Err() != nil {
		s.mu.Unlock()
		return false
	}
	gs.Thinking = true
	side := gs.Game.Turn
	moves := gs.Game.Moves
	board := gs.Game.Board.Clone()
	searcher := s.searchers[side]
	s.mu.Unlock()

	res := searcher.Best(board, side)

	s.mu.Lock()
	gs.Thinking = false
	if gs.Game.Moves != moves || gs.Game.Over {
		s.mu.Unlock()
		return false
	}
	if res.Found {
		if err := gs.Game.Play(res.Move.Row, res.Move.Col); err != nil {
			s.mu.Unlock()
			s.log.Error().Err(err).Str("game", id).Msg("ai-move-rejected")
			return false
		}
	} else {
		// no candidate left: the game is exhausted
		gs.Game.Draw()
	}
	gs.Search = &res
	gs.Updated = time.Now()
	cp := gs.snapshot()
	subs, payload := s.publishLocked(id, cp)
	s.mu.Unlock()

	s.log.Debug().
		Str("game", id).
		Stringer("side", side).
		Stringer("algorithm", searcher.Algorithm).
		Int("depth", searcher.Depth).
		Bool("found", res.Found).
		Int("row", res.Move.Row).
		Int("col", res.Move.Col).
		Float64("score", float64(res.Score)).
		Int("nodes", res.Stats.Nodes).
		Int("cutoffs", res.Stats.Cutoffs).
		Dur("elapsed", res.Elapsed).
		Msg("ai-move")
	if cp.Game.Over {
		s.log.Info().Str("game", id).Stringer("winner", cp.Game.Winner).Int("moves", cp.Game.Moves).Msg("game-over")
	}
	s.fanOut(id, subs, payload)
	return cp.aiToMove()
}
