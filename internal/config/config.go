// Package config loads the settings shared by the console and server binaries.
package config

import (
	"encoding/json"
	"flag"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jaminalder/codex-gomoku/internal/engine"
)

// Duration is a time.Duration written as a string ("300ms") in JSON.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

type SearchSettings struct {
	Depth      int              `json:"depth"`
	AlgorithmA engine.Algorithm `json:"algorithm_a"`
	AlgorithmB engine.Algorithm `json:"algorithm_b"`
}

// Symbols are the console characters for each cell state.
type Symbols struct {
	Empty string `json:"empty"`
	A     string `json:"a"`
	B     string `json:"b"`
}

// Labels name the players in the web UI.
type Labels struct {
	A string `json:"a"`
	B string `json:"b"`
}

type Config struct {
	Addr        string         `json:"addr"`
	LogLevel    string         `json:"log_level"`
	Search      SearchSettings `json:"search"`
	AIMoveDelay Duration       `json:"ai_move_delay"`
	Symbols     Symbols        `json:"symbols"`
	Labels      Labels         `json:"labels"`
}

// Default returns the settings the game ships with: depth-2 search, minimax for
// side A and alpha-beta for side B.
func Default() Config {
	return Config{
		Addr:     ":8080",
		LogLevel: "info",
		Search: SearchSettings{
			Depth:      engine.DefaultDepth,
			AlgorithmA: engine.AlgMinimax,
			AlgorithmB: engine.AlgAlphaBeta,
		},
		AIMoveDelay: Duration(300 * time.Millisecond),
		Symbols:     Symbols{Empty: ".", A: "X", B: "O"},
		Labels:      Labels{A: "BLUE", B: "PINK"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// Store writes cfg to path as indented JSON.
func Store(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o666), "write config %s", path)
}

// RegisterFlags binds command-line overrides for cfg onto fs.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "listen address")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.IntVar(&c.Search.Depth, "depth", c.Search.Depth, "search depth")
	fs.TextVar(&c.Search.AlgorithmA, "algorithm-a", c.Search.AlgorithmA, "search algorithm for side A (minimax, alphabeta)")
	fs.TextVar(&c.Search.AlgorithmB, "algorithm-b", c.Search.AlgorithmB, "search algorithm for side B (minimax, alphabeta)")
	fs.TextVar(&c.AIMoveDelay, "ai-delay", c.AIMoveDelay, "pause between AI moves")
}

// Parse builds the configuration of a binary from its command line. The file
// named by -config is loaded first and every flag given explicitly overrides
// it. extra may bind binary-specific flags onto the same set.
func Parse(name string, args []string, extra func(*flag.FlagSet)) (Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fs.String("config", "gomoku.json", "settings file (JSON)")
	scratch := Default()
	scratch.RegisterFlags(fs)
	if extra != nil {
		extra(fs)
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, errors.WithStack(err)
	}
	cfg, err := Load(*path)
	if err != nil {
		return cfg, err
	}
	over := flag.NewFlagSet(name, flag.ContinueOnError)
	cfg.RegisterFlags(over)
	var setErr error
	fs.Visit(func(f *flag.Flag) {
		if over.Lookup(f.Name) == nil || setErr != nil {
			return
		}
		setErr = over.Set(f.Name, f.Value.String())
	})
	return cfg, errors.Wrap(setErr, "apply flags")
}

// Validate reports every problem in the configuration at once.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.Search.Depth < 0 {
		result = multierror.Append(result, errors.Errorf("search depth %d is negative", c.Search.Depth))
	}
	for i, alg := range []engine.Algorithm{c.Search.AlgorithmA, c.Search.AlgorithmB} {
		if alg != engine.AlgMinimax && alg != engine.AlgAlphaBeta {
			result = multierror.Append(result, errors.Errorf("search algorithm for side %c is not set", 'A'+i))
		}
	}
	if c.AIMoveDelay < 0 {
		result = multierror.Append(result, errors.New("ai move delay is negative"))
	}
	if level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "log level"))
	} else if level == zerolog.NoLevel {
		result = multierror.Append(result, errors.New("log level is not set"))
	}
	if c.Symbols.Empty == "" || c.Symbols.A == "" || c.Symbols.B == "" {
		result = multierror.Append(result, errors.New("console symbols must not be empty"))
	} else if c.Symbols.A == c.Symbols.B || c.Symbols.A == c.Symbols.Empty || c.Symbols.B == c.Symbols.Empty {
		result = multierror.Append(result, errors.New("console symbols must be distinct"))
	}
	if c.Labels.A == "" || c.Labels.B == "" || c.Labels.A == c.Labels.B {
		result = multierror.Append(result, errors.New("player labels must be non-empty and distinct"))
	}
	return result.ErrorOrNil()
}

// Logger builds the process logger at the configured level. A nil w logs
// human-readable lines to stderr.
func (c Config) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if w == nil {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
