package game

import (
	"errors"
	"testing"
)

func TestMatchingStartSessionDealsPairs(t *testing.T) {
	e := NewMatchingEngine(embeddedCatalog(t), seeded(3))
	if err := e.StartSession(10); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	snap := e.Snapshot()
	if len(snap.Tiles) != 20 {
		t.Fatalf("tiles = %d, want 20", len(snap.Tiles))
	}
	perCard := map[int]int{}
	tileIDs := map[string]bool{}
	for _, tile := range snap.Tiles {
		perCard[tile.CardID]++
		if tileIDs[tile.TileID] {
			t.Fatalf("duplicate tile id %s", tile.TileID)
		}
		tileIDs[tile.TileID] = true
	}
	for id, n := range perCard {
		if n != 2 {
			t.Fatalf("card %d has %d tiles, want 2", id, n)
		}
	}
	if snap.State != MatchPlaying || snap.TargetPairCount != 10 || snap.Turns != 0 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestMatchingStartSessionRejectsBadCounts(t *testing.T) {
	e := NewMatchingEngine(embeddedCatalog(t))
	if err := e.StartSession(0); !errors.Is(err, ErrInvalidCardCount) {
		t.Fatalf("StartSession(0) = %v", err)
	}
	if err := e.StartSession(31); !errors.Is(err, ErrNotEnoughCards) {
		t.Fatalf("StartSession(31) = %v", err)
	}
	if e.State() != MatchIdle {
		t.Fatalf("state = %s after rejected start", e.State())
	}
}

func TestMatchingMismatchLocksUntilUnlock(t *testing.T) {
	e := NewMatchingEngine(embeddedCatalog(t), seeded(11))
	if err := e.StartSession(10); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	tiles := e.Snapshot().Tiles
	first := tiles[0]
	var other, third Tile
	for _, tile := range tiles[1:] {
		if tile.CardID != first.CardID {
			if other.TileID == "" {
				other = tile
			} else if tile.CardID != other.CardID {
				third = tile
				break
			}
		}
	}

	if r := e.Flip(first.TileID); r.Outcome != OutcomeFlipped || r.Turns != 0 {
		t.Fatalf("first flip = %+v", r)
	}
	if r := e.Flip(first.TileID); r.Outcome != OutcomeIgnored || r.Reason != ReasonAlreadyFlipped {
		t.Fatalf("re-flip = %+v", r)
	}
	r := e.Flip(other.TileID)
	if r.Outcome != OutcomeMismatch || r.Turns != 1 || len(r.Pair) != 2 {
		t.Fatalf("second flip = %+v", r)
	}
	if e.State() != MatchLocked || !e.Snapshot().Locked {
		t.Fatalf("state = %s, want locked", e.State())
	}
	if r := e.Flip(third.TileID); r.Outcome != OutcomeIgnored || r.Reason != ReasonLocked {
		t.Fatalf("flip while locked = %+v", r)
	}
	if e.Turns() != 1 {
		t.Fatalf("turns changed while locked: %d", e.Turns())
	}

	if !e.Unlock() {
		t.Fatal("Unlock() = false on a locked session")
	}
	if e.Unlock() {
		t.Fatal("second Unlock() should report false")
	}
	if len(e.Snapshot().Flipped) != 0 {
		t.Fatal("flip buffer not cleared by unlock")
	}
	if r := e.Flip(third.TileID); r.Outcome != OutcomeFlipped {
		t.Fatalf("flip after unlock = %+v", r)
	}
}

func TestMatchingPlayToVictory(t *testing.T) {
	const n = 6
	e := NewMatchingEngine(embeddedCatalog(t), seeded(5))
	if err := e.StartSession(n); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	byCard := map[int][]Tile{}
	for _, tile := range e.Snapshot().Tiles {
		byCard[tile.CardID] = append(byCard[tile.CardID], tile)
	}

	matched := 0
	var lastMatched Tile
	for _, pair := range byCard {
		e.Flip(pair[0].TileID)
		r := e.Flip(pair[1].TileID)
		if r.Outcome != OutcomeMatch {
			t.Fatalf("pair flip = %+v", r)
		}
		matched++
		if r.IsVictory != (matched == n) {
			t.Fatalf("isVictory = %v at %d/%d", r.IsVictory, matched, n)
		}
		if r.Turns != matched {
			t.Fatalf("turns = %d, want %d", r.Turns, matched)
		}
		lastMatched = pair[0]
	}
	if !e.IsVictory() || e.State() != MatchWon {
		t.Fatalf("state = %s, want won", e.State())
	}
	if r := e.Flip(lastMatched.TileID); r.Outcome != OutcomeIgnored || r.Reason != ReasonNotPlaying {
		t.Fatalf("flip after victory = %+v", r)
	}
}

func TestMatchingIgnoresMatchedAndUnknownTiles(t *testing.T) {
	e := NewMatchingEngine(embeddedCatalog(t), seeded(9))
	if err := e.StartSession(4); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if r := e.Flip("nope"); r.Reason != ReasonUnknownTile {
		t.Fatalf("unknown tile = %+v", r)
	}
	tile := e.Snapshot().Tiles[0]
	e.Flip(tile.TileID)
	var twin Tile
	for _, t2 := range e.Snapshot().Tiles {
		if t2.CardID == tile.CardID && t2.TileID != tile.TileID {
			twin = t2
		}
	}
	if r := e.Flip(twin.TileID); r.Outcome != OutcomeMatch {
		t.Fatalf("twin flip = %+v", r)
	}
	if r := e.Flip(tile.TileID); r.Reason != ReasonAlreadyMatched {
		t.Fatalf("matched tile flip = %+v", r)
	}
}

func TestMatchingIdleAndReset(t *testing.T) {
	e := NewMatchingEngine(embeddedCatalog(t))
	if r := e.Flip("1-a"); r.Reason != ReasonNotPlaying {
		t.Fatalf("flip while idle = %+v", r)
	}
	if err := e.StartSession(3); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	e.Reset()
	if e.State() != MatchIdle || len(e.Snapshot().Tiles) != 0 || e.TargetPairCount() != 0 {
		t.Fatalf("reset left state %+v", e.Snapshot())
	}
}
