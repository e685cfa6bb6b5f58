// internal/httpserver/routes_valuation.go
//
// Valuation quiz endpoints:
//   - POST /valuation/new            → start a five-round session of one sub-mode
//   - GET  /valuation/{id}           → current round
//   - POST /valuation/{id}/select    → rank3: pick a card
//   - POST /valuation/{id}/place     → rank3: drop the picked card into a slot
//   - POST /valuation/{id}/answer    → score the round
//   - POST /valuation/{id}/next      → deal the next round after the reveal
//   - GET  /valuation/{id}/results   → tally and round history
//
// The final answer saves the score under valuation/<n>-card.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/cardgames/internal/game"
	"github.com/robalobadob/cardgames/internal/scores"
	"github.com/robalobadob/cardgames/internal/store"
)

func (s *Server) mountValuation() {
	s.r.Route("/valuation", func(r chi.Router) {
		r.Post("/new", s.handleValuationNew)
		r.Get("/{id}", s.handleValuationView)
		r.Post("/{id}/select", s.handleValuationSelect)
		r.Post("/{id}/place", s.handleValuationPlace)
		r.Post("/{id}/answer", s.handleValuationAnswer)
		r.Post("/{id}/next", s.handleValuationNext)
		r.Get("/{id}/results", s.handleValuationResults)
	})
}

type valuationNewReq struct {
	Mode string `json:"mode"`
}

type valuationViewRes struct {
	SessionID string `json:"sessionId"`
	game.ValuationView
}

func (s *Server) handleValuationNew(w http.ResponseWriter, r *http.Request) {
	var req valuationNewReq
	if !decodeJSON(r, &req) {
		writeHTTPError(w, http.StatusBadRequest, "bad_json")
		return
	}
	mode, ok := game.ParseSubMode(req.Mode)
	if !ok {
		writeHTTPError(w, http.StatusBadRequest, "unknown_mode")
		return
	}
	eng := game.NewValuationEngine(s.catalog)
	if err := eng.StartSession(mode); err != nil {
		startError(w, err)
		return
	}
	id := store.NewID()
	_ = s.valuation.Save(r.Context(), id, &session[*game.ValuationEngine]{owner: s.playerID(w, r), engine: eng})
	metricSessionsStarted.Add(scores.ModeValuation, 1)
	writeJSON(w, http.StatusCreated, valuationViewRes{SessionID: id, ValuationView: eng.View()})
}

// withValuation runs fn with the {id} session locked.
func (s *Server) withValuation(w http.ResponseWriter, r *http.Request, fn func(*session[*game.ValuationEngine])) {
	sess, ok := lookup(s, s.valuation, w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	fn(sess)
}

func (s *Server) handleValuationView(w http.ResponseWriter, r *http.Request) {
	s.withValuation(w, r, func(sess *session[*game.ValuationEngine]) {
		writeJSON(w, http.StatusOK, valuationViewRes{SessionID: chi.URLParam(r, "id"), ValuationView: sess.engine.View()})
	})
}

type selectReq struct {
	CardID int `json:"cardId"`
}

func (s *Server) handleValuationSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if !decodeJSON(r, &req) {
		writeHTTPError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.withValuation(w, r, func(sess *session[*game.ValuationEngine]) {
		res := sess.engine.SelectCard(req.CardID)
		countIgnored(res.Outcome, res.Reason)
		writeJSON(w, http.StatusOK, res)
	})
}

type placeReq struct {
	Position *int `json:"position"`
}

func (s *Server) handleValuationPlace(w http.ResponseWriter, r *http.Request) {
	var req placeReq
	if !decodeJSON(r, &req) || req.Position == nil {
		writeHTTPError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.withValuation(w, r, func(sess *session[*game.ValuationEngine]) {
		res := sess.engine.PlaceCard(*req.Position)
		countIgnored(res.Outcome, res.Reason)
		writeJSON(w, http.StatusOK, res)
	})
}

type answerRes struct {
	game.AnswerResult
	Record *recordRes `json:"record,omitempty"`
}

func (s *Server) handleValuationAnswer(w http.ResponseWriter, r *http.Request) {
	var req game.Answer
	if !decodeJSON(r, &req) {
		writeHTTPError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.withValuation(w, r, func(sess *session[*game.ValuationEngine]) {
		res := answerRes{AnswerResult: sess.engine.SubmitAnswer(req)}
		countIgnored(res.Outcome, res.Reason)
		if res.Outcome == game.OutcomeAccepted && res.IsGameOver {
			res.Record = s.record(r.Context(), sess.owner, scores.ModeValuation,
				sess.engine.Mode().LedgerKey(), res.Score)
		}
		writeJSON(w, http.StatusOK, res)
	})
}

func (s *Server) handleValuationNext(w http.ResponseWriter, r *http.Request) {
	s.withValuation(w, r, func(sess *session[*game.ValuationEngine]) {
		step := sess.engine.NextRound()
		countIgnored(step.Outcome, step.Reason)
		writeJSON(w, http.StatusOK, map[string]any{
			"outcome": step.Outcome,
			"reason":  step.Reason,
			"round":   sess.engine.View(),
		})
	})
}

func (s *Server) handleValuationResults(w http.ResponseWriter, r *http.Request) {
	s.withValuation(w, r, func(sess *session[*game.ValuationEngine]) {
		writeJSON(w, http.StatusOK, sess.engine.Results())
	})
}
