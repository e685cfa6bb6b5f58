// internal/httpserver/routes_matching.go
//
// Matching (memory pairs) endpoints:
//   - POST /matching/new          → deal a board of cardCount pairs
//   - GET  /matching/{id}         → board view (face-down tiles hide their card)
//   - POST /matching/{id}/flip    → flip one tile
//   - POST /matching/{id}/unlock  → flip a mismatched pair back down
//
// The client decides how long a mismatched pair stays visible before it
// calls unlock; until then every flip is ignored with reason "locked".

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/cardgames/internal/cards"
	"github.com/robalobadob/cardgames/internal/game"
	"github.com/robalobadob/cardgames/internal/scores"
	"github.com/robalobadob/cardgames/internal/store"
)

const defaultMatchingCards = 6

func (s *Server) mountMatching() {
	s.r.Route("/matching", func(r chi.Router) {
		r.Post("/new", s.handleMatchingNew)
		r.Get("/{id}", s.handleMatchingView)
		r.Post("/{id}/flip", s.handleMatchingFlip)
		r.Post("/{id}/unlock", s.handleMatchingUnlock)
	})
}

type matchingNewReq struct {
	CardCount int `json:"cardCount"`
}

type tileView struct {
	TileID  string      `json:"tileId"`
	FaceUp  bool        `json:"faceUp"`
	Matched bool        `json:"matched"`
	Card    *cards.Card `json:"card,omitempty"`
}

type matchingView struct {
	SessionID       string          `json:"sessionId"`
	State           game.MatchState `json:"state"`
	Tiles           []tileView      `json:"tiles"`
	Turns           int             `json:"turns"`
	MatchedCount    int             `json:"matchedCount"`
	TargetPairCount int             `json:"targetPairCount"`
	Locked          bool            `json:"locked"`
}

func viewMatching(id string, snap game.MatchingSnapshot) matchingView {
	matched := map[int]bool{}
	for _, cid := range snap.MatchedCardIDs {
		matched[cid] = true
	}
	up := map[string]bool{}
	for _, t := range snap.Flipped {
		up[t.TileID] = true
	}
	v := matchingView{
		SessionID:       id,
		State:           snap.State,
		Tiles:           make([]tileView, 0, len(snap.Tiles)),
		Turns:           snap.Turns,
		MatchedCount:    len(snap.MatchedCardIDs),
		TargetPairCount: snap.TargetPairCount,
		Locked:          snap.Locked,
	}
	for _, t := range snap.Tiles {
		tv := tileView{TileID: t.TileID, FaceUp: up[t.TileID] || matched[t.CardID], Matched: matched[t.CardID]}
		if tv.FaceUp {
			c := t.Card
			tv.Card = &c
		}
		v.Tiles = append(v.Tiles, tv)
	}
	return v
}

func (s *Server) handleMatchingNew(w http.ResponseWriter, r *http.Request) {
	var req matchingNewReq
	if !decodeJSON(r, &req) {
		writeHTTPError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if req.CardCount == 0 {
		req.CardCount = defaultMatchingCards
	}
	eng := game.NewMatchingEngine(s.catalog)
	if err := eng.StartSession(req.CardCount); err != nil {
		startError(w, err)
		return
	}
	id := store.NewID()
	sess := &session[*game.MatchingEngine]{owner: s.playerID(w, r), engine: eng}
	_ = s.matching.Save(r.Context(), id, sess)
	metricSessionsStarted.Add(scores.ModeMatching, 1)
	writeJSON(w, http.StatusCreated, viewMatching(id, eng.Snapshot()))
}

func (s *Server) handleMatchingView(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookup(s, s.matching, w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	writeJSON(w, http.StatusOK, viewMatching(chi.URLParam(r, "id"), sess.engine.Snapshot()))
}

type flipReq struct {
	TileID string `json:"tileId"`
}

type flipRes struct {
	game.FlipResult
	Record *recordRes `json:"record,omitempty"`
}

func (s *Server) handleMatchingFlip(w http.ResponseWriter, r *http.Request) {
	var req flipReq
	if !decodeJSON(r, &req) || req.TileID == "" {
		writeHTTPError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := lookup(s, s.matching, w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	res := flipRes{FlipResult: sess.engine.Flip(req.TileID)}
	countIgnored(res.Outcome, res.Reason)
	if res.IsVictory {
		res.Record = s.record(r.Context(), sess.owner, scores.ModeMatching,
			matchingKey(sess.engine.TargetPairCount()), sess.engine.Turns())
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleMatchingUnlock(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookup(s, s.matching, w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	unlocked := sess.engine.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"unlocked": unlocked, "state": sess.engine.State()})
}
