// internal/game/types.go
//
// Shared definitions for the three game engines.
// Defines:
//   - Outcome: what an input did (accepted kinds, or ignored).
//   - Reason: why an input was ignored.
//   - Option: construction options (random source).
//
// Ignored inputs are not errors. Every engine reports them as a result with
// Outcome "ignored" and leaves its state unchanged.

package game

import (
	"math/rand"
	"time"
)

// RoundsPerGame is fixed for Valuation and Guess sessions.
const RoundsPerGame = 5

// Outcome is the result kind of an engine input.
type Outcome string

const (
	OutcomeIgnored  Outcome = "ignored"
	OutcomeAccepted Outcome = "accepted"
	OutcomeFlipped  Outcome = "flipped"
	OutcomeMatch    Outcome = "match"
	OutcomeMismatch Outcome = "mismatch"
)

// Reason explains an ignored input.
type Reason string

const (
	ReasonLocked         Reason = "locked"
	ReasonNotPlaying     Reason = "not_playing"
	ReasonUnknownTile    Reason = "unknown_tile"
	ReasonAlreadyFlipped Reason = "already_flipped"
	ReasonAlreadyMatched Reason = "already_matched"

	ReasonAwaitingNext    Reason = "awaiting_next_round"
	ReasonNotAwaitingNext Reason = "not_awaiting_next_round"
	ReasonGameOver        Reason = "game_over"
	ReasonNoActiveCard    Reason = "no_active_card"
	ReasonWrongMode       Reason = "wrong_mode"
	ReasonUnknownCard     Reason = "unknown_card"
	ReasonNoSelection     Reason = "no_selection"
	ReasonBadPosition     Reason = "bad_position"
	ReasonIncomplete      Reason = "incomplete_placement"
)

type options struct {
	rng *rand.Rand
}

// Option configures an engine.
type Option func(*options)

// WithRand fixes the engine's random source, e.g. for a seeded daily game
// or a deterministic test.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}
