// internal/httpserver/server.go
//
// HTTP server wiring for the card games backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/cards", "/debug/vars".
//   - Player tokens: POST /players (guests get an anonymous cookie instead).
//   - Game endpoints (optional auth): /matching/*, /valuation/*, /guess/*, /daily.
//   - High scores (optional auth): /scores.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Every session belongs to the player that created it; other players get 404.
//   - Each session has its own mutex, so engine calls are serialized per session.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"

	"github.com/robalobadob/cardgames/internal/cards"
	"github.com/robalobadob/cardgames/internal/config"
	"github.com/robalobadob/cardgames/internal/daily"
	"github.com/robalobadob/cardgames/internal/game"
	"github.com/robalobadob/cardgames/internal/logging"
	"github.com/robalobadob/cardgames/internal/scores"
	"github.com/robalobadob/cardgames/internal/store"
)

// Server bundles router, catalog, live sessions and the score ledger.
type Server struct {
	r       *chi.Mux
	cfg     config.ServerConfig
	catalog *cards.Catalog
	ledger  *scores.Ledger
	daily   *daily.Store
	now     func() time.Time

	matching  *store.Sessions[*session[*game.MatchingEngine]]
	valuation *store.Sessions[*session[*game.ValuationEngine]]
	guess     *store.Sessions[*session[*game.GuessEngine]]
}

// New constructs a Server, installs middleware, and registers routes.
// kv backs both the score ledger and the daily results.
func New(cfg config.ServerConfig, catalog *cards.Catalog, kv store.KV) *Server {
	s := &Server{
		r:         chi.NewRouter(),
		cfg:       cfg,
		catalog:   catalog,
		ledger:    scores.New(kv),
		daily:     daily.NewStore(kv),
		now:       time.Now,
		matching:  store.NewSessions[*session[*game.MatchingEngine]](),
		valuation: store.NewSessions[*session[*game.ValuationEngine]](),
		guess:     store.NewSessions[*session[*game.GuessEngine]](),
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)        // add X-Request-ID
	s.r.Use(chimw.RealIP)           // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog())            // one JSON line per request
	s.r.Use(chimw.Recoverer)        // recover from panics
	s.r.Use(chimw.Timeout(timeout)) // bound handler time
	s.r.Use(jsonContentType)        // default JSON responses
	s.r.Use(cors(cfg.ClientOrigin)) // credentials-friendly CORS
	s.r.Use(s.withOptionalAuth())   // player id from token, if any

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "cardgames-go",
			"endpoints": []string{"/health", "/cards", "/matching", "/valuation", "/guess", "/daily", "/scores"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{"ok": s.catalog.Err() == nil, "cards": s.catalog.Len()}
		if err := s.catalog.Err(); err != nil {
			body["catalogError"] = err.Error()
		}
		writeJSON(w, http.StatusOK, body)
	})
	s.r.Handle("/debug/vars", expvar.Handler())

	s.r.Post("/players", s.handleNewPlayer)
	s.r.Get("/players/me", s.handleWhoAmI)

	s.mountCards()
	s.mountMatching()
	s.mountValuation()
	s.mountGuess()
	s.mountDaily()
	s.mountScores()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router (for http.Server and tests).
func (s *Server) Handler() http.Handler { return s.r }

// Start listens on addr until ctx is cancelled, then drains in-flight
// requests for up to five seconds.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func accessLog() func(http.Handler) http.Handler {
	return httplog.RequestLogger(
		slog.New(slog.NewJSONHandler(logging.Writer(), &slog.HandlerOptions{})),
		&httplog.Options{
			Level:           slog.LevelInfo,
			LogRequestBody:  func(*http.Request) bool { return false },
			LogResponseBody: func(*http.Request) bool { return false },
			LogExtraAttrs: func(req *http.Request, _ string, _ int) []slog.Attr {
				route := req.URL.Path
				if rc := chi.RouteContext(req.Context()); rc != nil && rc.RoutePattern() != "" {
					route = rc.RoutePattern()
				}
				return []slog.Attr{
					slog.String("request_id", chimw.GetReqID(req.Context())),
					slog.String("route", route),
				}
			},
		},
	)
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeHTTPError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]any{"error": code})
}

// decodeJSON reads an optional JSON body; an empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 64<<10)).Decode(v)
	return err == nil || errors.Is(err, io.EOF)
}
