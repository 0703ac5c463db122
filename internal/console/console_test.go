package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaminalder/codex-gomoku/internal/app"
	"github.com/jaminalder/codex-gomoku/internal/config"
	"github.com/jaminalder/codex-gomoku/internal/domain"
	"github.com/jaminalder/codex-gomoku/internal/engine"
)

var symbols = config.Symbols{Empty: ".", A: "X", B: "O"}

func TestRenderRows(t *testing.T) {
	b := domain.NewBoard(3)
	b.Place(0, 0, domain.A)
	b.Place(1, 1, domain.B)
	b.Place(2, 2, domain.A)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, b, symbols, false))
	assert.Equal(t, "X . .\n. O .\n. . X\n", buf.String())
}

func TestRenderCoords(t *testing.T) {
	b := domain.NewBoard(3)
	b.Place(2, 0, domain.B)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, b, symbols, true))
	assert.Equal(t, "  0 1 2\n0 . . .\n1 . . .\n2 O . .\n", buf.String())
}

func TestParseMove(t *testing.T) {
	for _, in := range []string{"3 4", "3,4", " 3 ,  4 "} {
		m, err := ParseMove(in)
		require.NoError(t, err, in)
		assert.Equal(t, domain.Move{Row: 3, Col: 4}, m, in)
	}
	for _, in := range []string{"", "3", "a b", "1 2 3"} {
		_, err := ParseMove(in)
		assert.Error(t, err, in)
	}
}

func testOptions(mode app.Mode) Options {
	return Options{
		Mode:      mode,
		Human:     domain.A,
		SearcherA: engine.Searcher{Algorithm: engine.AlgMinimax, Depth: 1},
		SearcherB: engine.Searcher{Algorithm: engine.AlgAlphaBeta, Depth: 1},
		Symbols:   symbols,
		Log:       zerolog.Nop(),
	}
}

func TestRunHumanVsAIRejectsIllegalInputAndQuits(t *testing.T) {
	in := strings.NewReader("7 7\n7 7\nfoo\n15 0\nq\n")
	var out bytes.Buffer
	g, err := Run(context.Background(), in, &out, testOptions(app.HumanVsAI))
	require.NoError(t, err)
	assert.Equal(t, 2, g.Moves, "human move plus AI reply")
	assert.Equal(t, domain.A, g.Board.At(7, 7))
	text := out.String()
	assert.Contains(t, text, "O plays")
	assert.Contains(t, text, "Illegal move: cell occupied")
	assert.Contains(t, text, "Invalid input")
	assert.Contains(t, text, "Illegal move: out of bounds")
}

func TestRunEndsOnClosedInput(t *testing.T) {
	var out bytes.Buffer
	g, err := Run(context.Background(), strings.NewReader(""), &out, testOptions(app.HumanVsAI))
	require.NoError(t, err)
	assert.False(t, g.Over)
	assert.Zero(t, g.Moves)
}

func TestRunAIVsAIFinishes(t *testing.T) {
	var out bytes.Buffer
	g, err := Run(context.Background(), strings.NewReader(""), &out, testOptions(app.AIVsAI))
	require.NoError(t, err)
	require.True(t, g.Over)
	assert.Contains(t, out.String(), "Game over")
	if g.Winner != domain.Empty {
		assert.True(t, g.Board.HasFiveInARow(g.Winner))
		assert.Contains(t, out.String(), Symbol(g.Winner, symbols)+" wins!")
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, strings.NewReader(""), &bytes.Buffer{}, testOptions(app.AIVsAI))
	assert.ErrorIs(t, err, context.Canceled)
}
