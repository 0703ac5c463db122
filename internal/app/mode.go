package app

import (
	"errors"
	"strings"

	"github.com/jaminalder/codex-gomoku/internal/domain"
)

// Mode decides which sides are driven by the search.
type Mode string

const (
	HumanVsAI    Mode = "human_vs_ai"
	AIVsAI       Mode = "ai_vs_ai"
	HumanVsHuman Mode = "human_vs_human"
)

var ErrUnknownMode = errors.New("unknown game mode")

// ParseMode maps a form or flag value to a Mode. Empty means HumanVsAI.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", HumanVsAI:
		return HumanVsAI, nil
	case AIVsAI:
		return AIVsAI, nil
	case HumanVsHuman:
		return HumanVsHuman, nil
	default:
		return "", ErrUnknownMode
	}
}

// IsAI reports whether side is played by the search in this mode. human is the
// human's side for HumanVsAI.
func (m Mode) IsAI(side, human domain.Cell) bool {
	switch m {
	case AIVsAI:
		return true
	case HumanVsAI:
		return side != human
	default:
		return false
	}
}
