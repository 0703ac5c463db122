package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jaminalder/codex-gomoku/internal/app"
	"github.com/jaminalder/codex-gomoku/internal/config"
	"github.com/jaminalder/codex-gomoku/internal/engine"
	"github.com/jaminalder/codex-gomoku/internal/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		log := zerolog.New(os.Stderr)
		log.Error().Err(err).Msg("gomoku-server")
		os.Exit(1)
	}
}

// run serves until ctx is cancelled, then shuts the server and the service down.
func run(ctx context.Context, args []string) error {
	cfg, err := config.Parse("gomoku-server", args, nil)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	log := cfg.Logger(nil)

	svc := app.NewService(
		app.WithLogger(log),
		app.WithAIDelay(time.Duration(cfg.AIMoveDelay)),
		app.WithSearchers(
			engine.Searcher{Algorithm: cfg.Search.AlgorithmA, Depth: cfg.Search.Depth},
			engine.Searcher{Algorithm: cfg.Search.AlgorithmB, Depth: cfg.Search.Depth},
		),
	)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           web.NewServer(svc, web.WithLabels(cfg.Labels), web.WithLogger(log)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.Addr).Int("depth", cfg.Search.Depth).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting-down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if cerr := svc.Close(); err == nil {
			err = cerr
		}
		return errors.Wrap(err, "shutdown")
	})
	return g.Wait()
}
