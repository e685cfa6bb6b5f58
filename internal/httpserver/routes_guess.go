// internal/httpserver/routes_guess.go
//
// Guess-the-card endpoints:
//   - POST /guess/new            → start five rounds; {"daily":true} plays today's fixed cards
//   - GET  /guess/{id}           → current round (blurred card, attempts left)
//   - POST /guess/{id}/guess     → submit a name and year
//   - POST /guess/{id}/next      → deal the next card after a round ends
//   - GET  /guess/{id}/results   → tally and round history
//
// A daily game can be finished once per player per UTC day.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cardgames/internal/daily"
	"github.com/robalobadob/cardgames/internal/game"
	"github.com/robalobadob/cardgames/internal/scores"
	"github.com/robalobadob/cardgames/internal/store"
)

const (
	guessKeyDefault = "default"
	guessKeyDaily   = "daily"
)

func (s *Server) mountGuess() {
	s.r.Route("/guess", func(r chi.Router) {
		r.Post("/new", s.handleGuessNew)
		r.Get("/{id}", s.handleGuessView)
		r.Post("/{id}/guess", s.handleGuessSubmit)
		r.Post("/{id}/next", s.handleGuessNext)
		r.Get("/{id}/results", s.handleGuessResults)
	})
}

type guessNewReq struct {
	Daily bool `json:"daily"`
}

type guessViewRes struct {
	SessionID string `json:"sessionId"`
	Daily     bool   `json:"daily"`
	Date      string `json:"date,omitempty"`
	game.GuessView
}

func (s *Server) handleGuessNew(w http.ResponseWriter, r *http.Request) {
	var req guessNewReq
	if !decodeJSON(r, &req) {
		writeHTTPError(w, http.StatusBadRequest, "bad_json")
		return
	}
	player := s.playerID(w, r)
	sess := &session[*game.GuessEngine]{owner: player, ledgerKey: guessKeyDefault}

	var opts []game.Option
	if req.Daily {
		now := s.now()
		sess.ledgerKey = guessKeyDaily
		sess.date = daily.DateKey(now)
		played, err := s.daily.AlreadyPlayed(r.Context(), player, sess.date)
		if err != nil {
			log.Warn().Err(err).Str("player", player).Msg("daily lookup failed")
		}
		if played {
			writeHTTPError(w, http.StatusConflict, "daily_already_played")
			return
		}
		opts = append(opts, game.WithRand(daily.Rand(now, s.cfg.DailySalt)))
	}

	sess.engine = game.NewGuessEngine(s.catalog, opts...)
	if err := sess.engine.StartSession(); err != nil {
		startError(w, err)
		return
	}
	id := store.NewID()
	_ = s.guess.Save(r.Context(), id, sess)
	metricSessionsStarted.Add(scores.ModeGuess, 1)
	writeJSON(w, http.StatusCreated, s.guessView(id, sess))
}

func (s *Server) guessView(id string, sess *session[*game.GuessEngine]) guessViewRes {
	return guessViewRes{
		SessionID: id,
		Daily:     sess.ledgerKey == guessKeyDaily,
		Date:      sess.date,
		GuessView: sess.engine.View(),
	}
}

func (s *Server) withGuess(w http.ResponseWriter, r *http.Request, fn func(*session[*game.GuessEngine])) {
	sess, ok := lookup(s, s.guess, w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	fn(sess)
}

func (s *Server) handleGuessView(w http.ResponseWriter, r *http.Request) {
	s.withGuess(w, r, func(sess *session[*game.GuessEngine]) {
		writeJSON(w, http.StatusOK, s.guessView(chi.URLParam(r, "id"), sess))
	})
}

type guessReq struct {
	Name string `json:"name"`
	Year int    `json:"year"`
}

type guessRes struct {
	game.GuessResult
	Record *recordRes `json:"record,omitempty"`
}

func (s *Server) handleGuessSubmit(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if !decodeJSON(r, &req) {
		writeHTTPError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.withGuess(w, r, func(sess *session[*game.GuessEngine]) {
		res := guessRes{GuessResult: sess.engine.SubmitGuess(req.Name, req.Year)}
		countIgnored(res.Outcome, res.Reason)
		if res.Outcome == game.OutcomeAccepted && res.IsGameOver {
			res.Record = s.record(r.Context(), sess.owner, scores.ModeGuess, sess.ledgerKey, res.TotalPoints)
			if sess.date != "" {
				err := s.daily.InsertResult(r.Context(), daily.Result{
					PlayerID: sess.owner, Date: sess.date, Points: res.TotalPoints,
				})
				if err != nil {
					log.Warn().Err(err).Str("player", sess.owner).Str("date", sess.date).Msg("daily result not stored")
				}
			}
		}
		writeJSON(w, http.StatusOK, res)
	})
}

func (s *Server) handleGuessNext(w http.ResponseWriter, r *http.Request) {
	s.withGuess(w, r, func(sess *session[*game.GuessEngine]) {
		step := sess.engine.NextRound()
		countIgnored(step.Outcome, step.Reason)
		writeJSON(w, http.StatusOK, map[string]any{
			"outcome": step.Outcome,
			"reason":  step.Reason,
			"round":   sess.engine.View(),
		})
	})
}

func (s *Server) handleGuessResults(w http.ResponseWriter, r *http.Request) {
	s.withGuess(w, r, func(sess *session[*game.GuessEngine]) {
		writeJSON(w, http.StatusOK, sess.engine.Results())
	})
}
