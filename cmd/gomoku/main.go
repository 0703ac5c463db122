package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jaminalder/codex-gomoku/internal/app"
	"github.com/jaminalder/codex-gomoku/internal/config"
	"github.com/jaminalder/codex-gomoku/internal/console"
	"github.com/jaminalder/codex-gomoku/internal/domain"
	"github.com/jaminalder/codex-gomoku/internal/engine"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	// unblock a pending read when interrupted
	go func() {
		<-ctx.Done()
		os.Stdin.Close()
	}()
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	stop()
	if err != nil && !errors.Is(err, context.Canceled) {
		log := zerolog.New(os.Stderr)
		log.Error().Err(err).Msg("gomoku")
		os.Exit(1)
	}
}

// run plays one console game on in/out.
func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	var (
		mode   string
		side   string
		coords bool
		dot    string
	)
	cfg, err := config.Parse("gomoku", args, func(fs *flag.FlagSet) {
		fs.StringVar(&mode, "mode", string(app.HumanVsAI), "human_vs_ai, ai_vs_ai or human_vs_human")
		fs.StringVar(&side, "side", "a", "side played by the human in human_vs_ai (a moves first)")
		fs.BoolVar(&coords, "coords", true, "number rows and columns")
		fs.StringVar(&dot, "trace", "", "write the AI search trees to this Graphviz file")
	})
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	m, err := app.ParseMode(mode)
	if err != nil {
		return errors.Wrapf(err, "mode %q", mode)
	}
	human := domain.A
	if strings.EqualFold(side, "b") {
		human = domain.B
	}

	var trace *engine.Trace
	if dot != "" {
		trace = engine.NewTrace()
	}
	_, err = console.Run(ctx, in, out, console.Options{
		Mode:      m,
		Human:     human,
		SearcherA: engine.Searcher{Algorithm: cfg.Search.AlgorithmA, Depth: cfg.Search.Depth, Trace: trace},
		SearcherB: engine.Searcher{Algorithm: cfg.Search.AlgorithmB, Depth: cfg.Search.Depth, Trace: trace},
		Delay:     time.Duration(cfg.AIMoveDelay),
		Symbols:   cfg.Symbols,
		Coords:    coords,
		Log:       cfg.Logger(nil),
	})
	if trace != nil && trace.Len() > 0 {
		graph, derr := trace.DOT()
		if derr == nil {
			derr = errors.Wrapf(os.WriteFile(dot, []byte(graph), 0o666), "write trace %s", dot)
		}
		if err == nil {
			err = derr
		}
	}
	return err
}
