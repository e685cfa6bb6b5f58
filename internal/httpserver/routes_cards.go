package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/cardgames/internal/cards"
)

func (s *Server) mountCards() {
	s.r.Route("/cards", func(r chi.Router) {
		r.Get("/", s.handleListCards)
		r.Get("/{id}", s.handleGetCard)
		r.Get("/{id}/value-options", s.handleValueOptions)
	})
}

type cardsRes struct {
	Count int          `json:"count"`
	Cards []cards.Card `json:"cards"`
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	list := s.catalog.Cards()
	if r.URL.Query().Get("sort") == "value" {
		list = cards.SortByValue(list, r.URL.Query().Get("order") == "desc")
	}
	writeJSON(w, http.StatusOK, cardsRes{Count: len(list), Cards: list})
}

func (s *Server) cardParam(w http.ResponseWriter, r *http.Request) (cards.Card, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeHTTPError(w, http.StatusBadRequest, "bad_card_id")
		return cards.Card{}, false
	}
	c, ok := s.catalog.GetByID(id)
	if !ok {
		writeHTTPError(w, http.StatusNotFound, "card_not_found")
		return cards.Card{}, false
	}
	return c, true
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	if c, ok := s.cardParam(w, r); ok {
		writeJSON(w, http.StatusOK, c)
	}
}

func (s *Server) handleValueOptions(w http.ResponseWriter, r *http.Request) {
	c, ok := s.cardParam(w, r)
	if !ok {
		return
	}
	n := cards.DefaultOptionCount
	if v, err := strconv.Atoi(r.URL.Query().Get("n")); err == nil && v > 0 && v <= 10 {
		n = v
	}
	writeJSON(w, http.StatusOK, map[string]any{"cardId": c.ID, "options": s.catalog.ValueOptionsFor(c, n)})
}
