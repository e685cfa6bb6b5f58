package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/cardgames/internal/scores"
)

func (s *Server) mountScores() {
	s.r.Route("/scores", func(r chi.Router) {
		r.Get("/", s.handleAllScores)
		r.Post("/", s.handleSaveScore)
		r.Get("/{mode}/{key}", s.handleGetScore)
	})
}

func (s *Server) handleAllScores(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.All(r.Context(), s.playerID(w, r)))
}

type scoreRes struct {
	Mode  string `json:"mode"`
	Key   string `json:"key"`
	Score *int   `json:"score"`
}

func (s *Server) handleGetScore(w http.ResponseWriter, r *http.Request) {
	mode, key := chi.URLParam(r, "mode"), chi.URLParam(r, "key")
	res := scoreRes{Mode: mode, Key: key}
	if v, ok := s.ledger.Get(r.Context(), s.playerID(w, r), mode, key); ok {
		res.Score = &v
	}
	writeJSON(w, http.StatusOK, res)
}

type saveScoreReq struct {
	Mode  string `json:"mode"`
	Key   string `json:"key"`
	Score *int   `json:"score"`
}

// handleSaveScore lets clients record scores for games played offline.
func (s *Server) handleSaveScore(w http.ResponseWriter, r *http.Request) {
	var req saveScoreReq
	if !decodeJSON(r, &req) || req.Score == nil {
		writeHTTPError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if !scores.ValidName(req.Mode) || !scores.ValidName(req.Key) {
		writeHTTPError(w, http.StatusBadRequest, "invalid_name")
		return
	}
	writeJSON(w, http.StatusOK, s.record(r.Context(), s.playerID(w, r), req.Mode, req.Key, *req.Score))
}
