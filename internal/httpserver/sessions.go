package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cardgames/internal/game"
	"github.com/robalobadob/cardgames/internal/store"
)

// session wraps one engine. mu serializes every call into the engine.
// TODO: sweep sessions untouched for a day; finished games are kept so
// their results stay readable.
type session[E any] struct {
	mu     sync.Mutex
	owner  string
	engine E

	ledgerKey string // guess: "default" or "daily"
	date      string // daily sessions only
}

// lookup loads the {id} session and checks the caller owns it.
func lookup[E any](s *Server, ss *store.Sessions[*session[E]], w http.ResponseWriter, r *http.Request) (*session[E], bool) {
	sess, err := ss.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil || sess.owner != s.playerID(w, r) {
		writeHTTPError(w, http.StatusNotFound, "session_not_found")
		return nil, false
	}
	return sess, true
}

// startError maps an engine StartSession error to a response.
func startError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidCardCount):
		writeHTTPError(w, http.StatusBadRequest, "invalid_card_count")
	case errors.Is(err, game.ErrNotEnoughCards):
		writeHTTPError(w, http.StatusConflict, "not_enough_cards")
	default:
		writeHTTPError(w, http.StatusBadRequest, err.Error())
	}
}

func countIgnored(outcome game.Outcome, reason game.Reason) {
	if outcome == game.OutcomeIgnored {
		metricActionsIgnored.Add(string(reason), 1)
	}
}

// recordRes reports what happened to a finished game's score.
type recordRes struct {
	Mode      string `json:"mode"`
	Key       string `json:"key"`
	Score     int    `json:"score"`
	NewRecord bool   `json:"newRecord"`
	Best      *int   `json:"best,omitempty"`
}

func (s *Server) record(ctx context.Context, player, mode, key string, score int) *recordRes {
	metricGamesFinished.Add(mode, 1)
	res := &recordRes{Mode: mode, Key: key, Score: score}
	res.NewRecord = s.ledger.Save(ctx, player, mode, key, score)
	if res.NewRecord {
		metricRecordsSet.Add(1)
		log.Info().Str("player", player).Str("mode", mode).Str("key", key).Int("score", score).Msg("new high score")
	}
	if best, ok := s.ledger.Get(ctx, player, mode, key); ok {
		res.Best = &best
	}
	return res
}

func matchingKey(cardCount int) string { return strconv.Itoa(cardCount) }
