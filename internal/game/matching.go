// internal/game/matching.go
//
// Memory-pair engine for a single Matching session.
// Responsibilities:
//   - Deal n catalog cards twice as tiles and shuffle them (Fisher–Yates).
//   - Apply flips: first flip records, second flip scores a match or mismatch.
//   - Hold the Locked state after a mismatch until the caller unlocks.
//   - Count turns (one per completed pair of flips) and detect victory.
//
// The engine never schedules anything; the caller decides how long a
// mismatched pair stays face up before calling Unlock.
package game

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/robalobadob/cardgames/internal/cards"
)

var (
	ErrInvalidCardCount = errors.New("invalid_card_count")
	ErrNotEnoughCards   = errors.New("not_enough_cards")
)

// MatchState is the coarse Matching state.
type MatchState string

const (
	MatchIdle    MatchState = "idle"
	MatchPlaying MatchState = "playing"
	MatchLocked  MatchState = "locked"
	MatchWon     MatchState = "won"
)

// Tile is one on-board copy of a card; both copies share CardID.
type Tile struct {
	TileID string     `json:"tileId"`
	CardID int        `json:"cardId"`
	Card   cards.Card `json:"card"`
}

// FlipResult describes what a flip changed.
type FlipResult struct {
	Outcome      Outcome `json:"outcome"` // ignored | flipped | match | mismatch
	Reason       Reason  `json:"reason,omitempty"`
	Tile         *Tile   `json:"tile,omitempty"`
	Pair         []Tile  `json:"pair,omitempty"`
	IsVictory    bool    `json:"isVictory"`
	Turns        int     `json:"turns"`
	MatchedCount int     `json:"matchedCount"`
}

// MatchingSnapshot is a read-only copy of the session.
type MatchingSnapshot struct {
	State           MatchState `json:"state"`
	Tiles           []Tile     `json:"tiles"`
	Flipped         []Tile     `json:"flipped"`
	MatchedCardIDs  []int      `json:"matchedCardIds"`
	Turns           int        `json:"turns"`
	Locked          bool       `json:"locked"`
	TargetPairCount int        `json:"targetPairCount"`
}

// MatchingEngine owns one Matching session at a time.
type MatchingEngine struct {
	catalog *cards.Catalog
	rng     *rand.Rand

	state   MatchState
	tiles   []Tile
	byTile  map[string]Tile
	flipped []Tile
	matched map[int]bool
	order   []int // matched card ids in match order
	turns   int
	target  int
}

// NewMatchingEngine builds an idle engine over a loaded catalog.
func NewMatchingEngine(catalog *cards.Catalog, opts ...Option) *MatchingEngine {
	o := buildOptions(opts)
	e := &MatchingEngine{catalog: catalog, rng: o.rng}
	e.Reset()
	return e
}

// StartSession deals cardCount pairs and enters Playing.
func (e *MatchingEngine) StartSession(cardCount int) error {
	if cardCount < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidCardCount, cardCount)
	}
	if cardCount > e.catalog.Len() {
		return fmt.Errorf("%w: want %d, catalog has %d", ErrNotEnoughCards, cardCount, e.catalog.Len())
	}
	picked := e.catalog.SelectRandom(cardCount)

	e.Reset()
	tiles := make([]Tile, 0, 2*len(picked))
	for _, c := range picked {
		tiles = append(tiles,
			Tile{TileID: fmt.Sprintf("%d-a", c.ID), CardID: c.ID, Card: c},
			Tile{TileID: fmt.Sprintf("%d-b", c.ID), CardID: c.ID, Card: c},
		)
	}
	for i := len(tiles) - 1; i > 0; i-- {
		j := e.rng.Intn(i + 1)
		tiles[i], tiles[j] = tiles[j], tiles[i]
	}
	e.tiles = tiles
	for _, t := range tiles {
		e.byTile[t.TileID] = t
	}
	e.target = len(picked)
	e.state = MatchPlaying
	return nil
}

// Flip turns one tile face up. Out-of-window flips are ignored and leave
// the session untouched.
func (e *MatchingEngine) Flip(tileID string) FlipResult {
	switch e.state {
	case MatchLocked:
		return e.ignored(ReasonLocked)
	case MatchPlaying:
	default:
		return e.ignored(ReasonNotPlaying)
	}
	tile, ok := e.byTile[tileID]
	if !ok {
		return e.ignored(ReasonUnknownTile)
	}
	if e.matched[tile.CardID] {
		return e.ignored(ReasonAlreadyMatched)
	}
	for _, f := range e.flipped {
		if f.TileID == tileID {
			return e.ignored(ReasonAlreadyFlipped)
		}
	}

	if len(e.flipped) == 0 {
		e.flipped = append(e.flipped, tile)
		return FlipResult{Outcome: OutcomeFlipped, Tile: &tile, Turns: e.turns, MatchedCount: len(e.order)}
	}

	first := e.flipped[0]
	e.flipped = append(e.flipped, tile)
	e.turns++
	pair := []Tile{first, tile}

	if first.CardID == tile.CardID {
		e.matched[tile.CardID] = true
		e.order = append(e.order, tile.CardID)
		e.flipped = e.flipped[:0]
		victory := len(e.order) == e.target
		if victory {
			e.state = MatchWon
		}
		return FlipResult{
			Outcome:      OutcomeMatch,
			Tile:         &tile,
			Pair:         pair,
			IsVictory:    victory,
			Turns:        e.turns,
			MatchedCount: len(e.order),
		}
	}

	e.state = MatchLocked
	return FlipResult{Outcome: OutcomeMismatch, Tile: &tile, Pair: pair, Turns: e.turns, MatchedCount: len(e.order)}
}

// Unlock is the Locked → Playing transition after a mismatch. It reports
// false when the session was not locked.
func (e *MatchingEngine) Unlock() bool {
	if e.state != MatchLocked {
		return false
	}
	e.flipped = e.flipped[:0]
	e.state = MatchPlaying
	return true
}

// Reset drops the session and returns to Idle.
func (e *MatchingEngine) Reset() {
	e.state = MatchIdle
	e.tiles = nil
	e.byTile = map[string]Tile{}
	e.flipped = nil
	e.matched = map[int]bool{}
	e.order = nil
	e.turns = 0
	e.target = 0
}

func (e *MatchingEngine) State() MatchState { return e.state }

func (e *MatchingEngine) Turns() int { return e.turns }

func (e *MatchingEngine) TargetPairCount() int { return e.target }

func (e *MatchingEngine) IsVictory() bool { return e.state == MatchWon }

// Snapshot copies the session for display.
func (e *MatchingEngine) Snapshot() MatchingSnapshot {
	return MatchingSnapshot{
		State:           e.state,
		Tiles:           append([]Tile{}, e.tiles...),
		Flipped:         append([]Tile{}, e.flipped...),
		MatchedCardIDs:  append([]int{}, e.order...),
		Turns:           e.turns,
		Locked:          e.state == MatchLocked,
		TargetPairCount: e.target,
	}
}

func (e *MatchingEngine) ignored(r Reason) FlipResult {
	return FlipResult{Outcome: OutcomeIgnored, Reason: r, Turns: e.turns, MatchedCount: len(e.order)}
}
