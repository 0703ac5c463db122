package app

import "github.com/google/uuid"

// NewPlayerID returns a random identifier for a seat holder's cookie.
func NewPlayerID() string { return uuid.NewString() }

func newGameID() string { return uuid.NewString() }
