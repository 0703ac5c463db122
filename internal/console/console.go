// Package console is the line-oriented terminal driver: it prints the board as
// rows of symbols and alternates human input with AI searches.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jaminalder/codex-gomoku/internal/app"
	"github.com/jaminalder/codex-gomoku/internal/config"
	"github.com/jaminalder/codex-gomoku/internal/domain"
	"github.com/jaminalder/codex-gomoku/internal/engine"
)

// Symbol returns the printed symbol for c.
func Symbol(c domain.Cell, sym config.Symbols) string {
	switch c {
	case domain.A:
		return sym.A
	case domain.B:
		return sym.B
	default:
		return sym.Empty
	}
}

// Render writes the board one row per line, cells separated by spaces. With
// coords set, rows and columns are numbered.
func Render(w io.Writer, b *domain.Board, sym config.Symbols, coords bool) error {
	bw := bufio.NewWriter(w)
	n := b.Size()
	width := len(strconv.Itoa(n - 1))
	if coords {
		bw.WriteString(strings.Repeat(" ", width+1))
		for c := 0; c < n; c++ {
			if c > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.Itoa(c % 10))
		}
		bw.WriteByte('\n')
	}
	for r, row := range b.Rows() {
		if coords {
			fmt.Fprintf(bw, "%*d ", width, r)
		}
		for c, cell := range row {
			if c > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(Symbol(cell, sym))
		}
		bw.WriteByte('\n')
	}
	return errors.WithStack(bw.Flush())
}

// ParseMove reads "row col" or "row,col".
func ParseMove(s string) (domain.Move, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' })
	if len(fields) != 2 {
		return domain.Move{}, errors.Errorf("expected \"row col\", got %q", s)
	}
	r, err := strconv.Atoi(fields[0])
	if err != nil {
		return domain.Move{}, errors.Wrapf(err, "row %q", fields[0])
	}
	c, err := strconv.Atoi(fields[1])
	if err != nil {
		return domain.Move{}, errors.Wrapf(err, "column %q", fields[1])
	}
	return domain.Move{Row: r, Col: c}, nil
}

// Options configure a console game.
type Options struct {
	Mode      app.Mode
	Human     domain.Cell
	SearcherA engine.Searcher
	SearcherB engine.Searcher
	Delay     time.Duration
	Symbols   config.Symbols
	Coords    bool
	Log       zerolog.Logger
}

// Run plays one game on in/out and returns the final state. Typing "q" or
// closing the input ends the game early without error.
func Run(ctx context.Context, in io.Reader, out io.Writer, opts Options) (domain.Game, error) {
	g := domain.New()
	lines := bufio.NewScanner(in)
	human := opts.Human
	if human != domain.B {
		human = domain.A
	}
	for !g.Over {
		if err := ctx.Err(); err != nil {
			return g, err
		}
		if err := Render(out, g.Board, opts.Symbols, opts.Coords); err != nil {
			return g, err
		}
		name := Symbol(g.Turn, opts.Symbols)
		if opts.Mode.IsAI(g.Turn, human) {
			searcher := opts.SearcherA
			if g.Turn == domain.B {
				searcher = opts.SearcherB
			}
			res := searcher.Best(g.Board, g.Turn)
			opts.Log.Debug().
				Stringer("side", g.Turn).
				Stringer("algorithm", searcher.Algorithm).
				Float64("score", float64(res.Score)).
				Int("nodes", res.Stats.Nodes).
				Dur("elapsed", res.Elapsed).
				Msg("ai-move")
			if !res.Found {
				g.Draw()
				break
			}
			if err := g.Play(res.Move.Row, res.Move.Col); err != nil {
				return g, errors.Wrapf(err, "ai move %v", res.Move)
			}
			fmt.Fprintf(out, "%s plays %d %d\n", name, res.Move.Row, res.Move.Col)
			if opts.Delay > 0 && opts.Mode == app.AIVsAI {
				select {
				case <-ctx.Done():
					return g, ctx.Err()
				case <-time.After(opts.Delay):
				}
			}
			continue
		}

		fmt.Fprintf(out, "%s to move (row col, q to quit): ", name)
		if !lines.Scan() {
			fmt.Fprintln(out)
			return g, errors.WithStack(lines.Err())
		}
		text := strings.TrimSpace(lines.Text())
		if strings.EqualFold(text, "q") {
			return g, nil
		}
		m, err := ParseMove(text)
		if err != nil {
			fmt.Fprintf(out, "Invalid input: %v\n", err)
			continue
		}
		if err := g.Play(m.Row, m.Col); err != nil {
			fmt.Fprintf(out, "Illegal move: %v\n", err)
		}
	}
	if err := Render(out, g.Board, opts.Symbols, opts.Coords); err != nil {
		return g, err
	}
	if g.Winner == domain.Empty {
		fmt.Fprintln(out, "Game over: draw.")
	} else {
		fmt.Fprintf(out, "Game over: %s wins!\n", Symbol(g.Winner, opts.Symbols))
	}
	return g, nil
}
