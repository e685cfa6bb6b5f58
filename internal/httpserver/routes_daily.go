// internal/httpserver/routes_daily.go
//
// GET /daily → today's date key and whether the caller has already
// finished today's Guess challenge (with the stored result if so).
// The challenge itself is played through POST /guess/new {"daily":true}.

package httpserver

import (
	"net/http"

	"github.com/robalobadob/cardgames/internal/daily"
)

type dailyRes struct {
	Date   string        `json:"date"`
	Played bool          `json:"played"`
	Result *daily.Result `json:"result,omitempty"`
}

func (s *Server) mountDaily() {
	s.r.Get("/daily", s.handleDailyStatus)
}

func (s *Server) handleDailyStatus(w http.ResponseWriter, r *http.Request) {
	player := s.playerID(w, r)
	date := daily.DateKey(s.now())
	res, ok, err := s.daily.Result(r.Context(), player, date)
	if err != nil {
		writeHTTPError(w, http.StatusInternalServerError, "server_error")
		return
	}
	out := dailyRes{Date: date, Played: ok}
	if ok {
		out.Result = &res
	}
	writeJSON(w, http.StatusOK, out)
}
