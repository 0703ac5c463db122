package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jaminalder/codex-gomoku/internal/domain"
	"github.com/jaminalder/codex-gomoku/internal/engine"
)

// Errors exposed by the service layer.
var (
	ErrNotFound    = errors.New("game not found")
	ErrNotYourTurn = errors.New("not your turn")
	ErrNotAPlayer  = errors.New("not a player")
)

// GameState is the in-memory state tracked per game.
type GameState struct {
	ID       string
	Game     domain.Game
	Mode     Mode
	Human    domain.Cell
	A        string
	B        string
	Thinking bool
	Search   *engine.Result
	Created  time.Time
	Updated  time.Time
}

// Options configure a new game. Human is the human's side in HumanVsAI and
// defaults to A.
type Options struct {
	Mode  Mode
	Human domain.Cell
}

// snapshot returns a copy that shares no memory with gs.
func (gs *GameState) snapshot() GameState {
	cp := *gs
	cp.Game = gs.Game.Clone()
	if gs.Search != nil {
		r := *gs.Search
		cp.Search = &r
	}
	return cp
}

func (gs *GameState) seat(playerID string) domain.Cell {
	switch {
	case playerID == "":
		return domain.Empty
	case gs.A == playerID:
		return domain.A
	case gs.B == playerID:
		return domain.B
	}
	return domain.Empty
}

func (gs *GameState) aiToMove() bool {
	return !gs.Game.Over && gs.Mode.IsAI(gs.Game.Turn, gs.Human)
}

// subscriberBuffer holds a human move and the AI reply that follows it.
const subscriberBuffer = 4

type subscriber struct {
	mu     sync.Mutex
	ch     chan []byte
	closed bool
}

// send reports false when the subscriber's buffer is full.
func (s *subscriber) send(b []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	select {
	case s.ch <- b:
		return true
	default:
		return false
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Service manages games, AI turns and subscribers.
type Service struct {
	mu        sync.Mutex
	games     map[string]*GameState
	subs      map[string]map[*subscriber]struct{}
	render    func(GameState) []byte
	log       zerolog.Logger
	searchers map[domain.Cell]engine.Searcher
	delay     time.Duration
	closed    bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option customizes a Service.
type Option func(*Service)

// WithRenderer sets the broadcast payload renderer.
func WithRenderer(renderer func(GameState) []byte) Option {
	return func(s *Service) {
		if renderer != nil {
			s.render = renderer
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithSearchers sets the search used for each side.
func WithSearchers(a, b engine.Searcher) Option {
	return func(s *Service) {
		s.searchers[domain.A] = a
		s.searchers[domain.B] = b
	}
}

// WithAIDelay pauses between consecutive AI moves in AIVsAI games.
func WithAIDelay(d time.Duration) Option {
	return func(s *Service) { s.delay = d }
}

// NewService creates a service. Without options side A searches with minimax,
// side B with alpha-beta, both at the default depth.
func NewService(opts ...Option) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		games:  make(map[string]*GameState),
		subs:   make(map[string]map[*subscriber]struct{}),
		render: func(gs GameState) []byte { return nil },
		log:    zerolog.Nop(),
		searchers: map[domain.Cell]engine.Searcher{
			domain.A: {Algorithm: engine.AlgMinimax, Depth: engine.DefaultDepth},
			domain.B: {Algorithm: engine.AlgAlphaBeta, Depth: engine.DefaultDepth},
		},
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = func(gs GameState) []byte { return nil }
		return
	}
	s.render = renderer
}

// CreateGame creates and registers a new game and starts the AI if it moves first.
func (s *Service) CreateGame(opts Options) (*GameState, error) {
	mode, err := ParseMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}
	human := opts.Human
	if human != domain.B {
		human = domain.A
	}
	s.mu.Lock()
	now := time.Now()
	gs := &GameState{ID: newGameID(), Game: domain.New(), Mode: mode, Human: human, Created: now, Updated: now}
	s.games[gs.ID] = gs
	cp := gs.snapshot()
	s.mu.Unlock()

	s.log.Info().Str("game", cp.ID).Str("mode", string(mode)).Stringer("human", human).Msg("game-created")
	if cp.aiToMove() {
		s.startAI(cp.ID)
	}
	return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, false
	}
	cp := gs.snapshot()
	return &cp, true
}

// Join assigns a human seat to the player if available; returns Empty for spectators.
func (s *Service) Join(id, playerID string) (domain.Cell, *GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return domain.Empty, nil, ErrNotFound
	}
	side := gs.seat(playerID)
	if side == domain.Empty && playerID != "" {
		for _, c := range []domain.Cell{domain.A, domain.B} {
			if gs.Mode.IsAI(c, gs.Human) {
				continue
			}
			seat := &gs.A
			if c == domain.B {
				seat = &gs.B
			}
			if *seat == "" {
				*seat = playerID
				side = c
				break
			}
		}
	}
	gs.Updated = time.Now()
	cp := gs.snapshot()
	return side, &cp, nil
}

// Play validates seat and turn, applies a move, broadcasts, and hands the turn
// to the AI when it is next.
func (s *Service) Play(id, playerID string, r, c int) (*GameState, error) {
	s.mu.Lock()
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	seat := gs.seat(playerID)
	if seat == domain.Empty {
		s.mu.Unlock()
		return nil, ErrNotAPlayer
	}
	if gs.Game.Over {
		s.mu.Unlock()
		return nil, domain.ErrGameOver
	}
	if seat != gs.Game.Turn || gs.Thinking {
		s.mu.Unlock()
		return nil, ErrNotYourTurn
	}
	if err := gs.Game.Play(r, c); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	gs.Updated = time.Now()
	cp := gs.snapshot()
	subs, payload := s.publishLocked(id, cp)
	s.mu.Unlock()

	s.log.Debug().Str("game", id).Stringer("side", seat).Int("row", r).Int("col", c).Msg("human-move")
	s.fanOut(id, subs, payload)
	if cp.aiToMove() {
		s.startAI(id)
	}
	return &cp, nil
}

// Wait blocks until no AI turn is running.
func (s *Service) Wait() { s.wg.Wait() }

// Close stops pending AI turns and closes every subscriber.
func (s *Service) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, set := range s.subs {
		for sub := range set {
			sub.close()
		}
		delete(s.subs, id)
	}
	return nil
}

// Subscribe registers a subscriber for a game. Returns a channel and an
// unsubscribe func. For an unknown game or a closed service the channel is
// already closed.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok || s.closed {
		ch := make(chan []byte)
		close(ch)
		return ch, func() {}
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, subscriberBuffer)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub
}

func (s *Service) publishLocked(id string, gs GameState) (map[*subscriber]struct{}, []byte) {
	out := make(map[*subscriber]struct{})
	if set, ok := s.subs[id]; ok {
		for k := range set {
			out[k] = struct{}{}
		}
	}
	return out, s.render(gs)
}

// fanOut delivers payload; slow subscribers are closed and dropped.
func (s *Service) fanOut(id string, subs map[*subscriber]struct{}, payload []byte) {
	var toDrop []*subscriber
	for sub := range subs {
		if !sub.send(payload) {
			sub.close()
			toDrop = append(toDrop, sub)
		}
	}
	if len(toDrop) == 0 {
		return
	}
	s.mu.Lock()
	for _, sub := range toDrop {
		if set, ok := s.subs[id]; ok {
			delete(set, sub)
		}
	}
	s.mu.Unlock()
	s.log.Debug().Str("game", id).Int("dropped", len(toDrop)).Msg("slow-subscribers")
}
