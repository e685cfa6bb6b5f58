package daily

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/robalobadob/cardgames/internal/store"
)

// Result is one player's finished daily challenge.
type Result struct {
	PlayerID string `json:"playerId"`
	Date     string `json:"date"`
	Points   int    `json:"points"`
}

// Store records daily results so a player gets one attempt per day.
type Store struct{ kv store.KV }

func NewStore(kv store.KV) *Store { return &Store{kv: kv} }

func resultKey(playerID, date string) string {
	return "card_games_daily:" + date + ":" + playerID
}

func (s *Store) AlreadyPlayed(ctx context.Context, playerID, date string) (bool, error) {
	_, err := s.kv.Get(ctx, resultKey(playerID, date))
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Result returns the stored result for the day, if any.
func (s *Store) Result(ctx context.Context, playerID, date string) (Result, bool, error) {
	raw, err := s.kv.Get(ctx, resultKey(playerID, date))
	if errors.Is(err, store.ErrNotFound) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, err
	}
	var r Result
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return Result{}, false, err
	}
	return r, true, nil
}

// InsertResult stores r unless a result for the same player and day exists.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	played, err := s.AlreadyPlayed(ctx, r.PlayerID, r.Date)
	if err != nil || played {
		return err
	}
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, resultKey(r.PlayerID, r.Date), string(b))
}
