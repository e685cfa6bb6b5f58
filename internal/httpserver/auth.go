// internal/httpserver/auth.go
//
// Player identity.
//   - POST /players issues a signed HS256 token for a fresh player id and
//     sets it as a cookie; clients may also send it as a Bearer token.
//   - Requests without a valid token are guests: they get a long-lived
//     anonymous cookie so their sessions and high scores stay together.
//   - There are no passwords; a token is the whole identity.

package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	"github.com/robalobadob/cardgames/internal/store"
)

const (
	tokenCookieName = "cardgames_token"
	anonCookieName  = "cardgames_anon"
)

// ctxPlayerKey is the context key type for a token-verified player id.
type ctxPlayerKey struct{}

type newPlayerRes struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// handleNewPlayer mints a player id and token. A guest's anonymous id is
// promoted so earlier high scores carry over.
func (s *Server) handleNewPlayer(w http.ResponseWriter, r *http.Request) {
	id := store.NewID()
	if c, err := r.Cookie(anonCookieName); err == nil && validID(c.Value) {
		id = c.Value
	}
	tok, exp, err := s.signToken(id)
	if err != nil {
		writeHTTPError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setCookie(w, tokenCookieName, tok, exp)
	writeJSON(w, http.StatusCreated, newPlayerRes{ID: id, Token: tok, ExpiresAt: exp})
}

func (s *Server) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	id, verified := r.Context().Value(ctxPlayerKey{}).(string)
	if !verified {
		id = s.ensureAnonID(w, r)
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "anonymous": !verified})
}

// withOptionalAuth decorates requests with the player id if a valid token
// is present. It never 401s; guests fall back to the anonymous cookie.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := bearerOrCookie(r); tok != "" {
				if id, ok := s.parseToken(tok); ok {
					r = r.WithContext(context.WithValue(r.Context(), ctxPlayerKey{}, id))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// playerID returns the verified player id, or the guest's anonymous id.
func (s *Server) playerID(w http.ResponseWriter, r *http.Request) string {
	if id, ok := r.Context().Value(ctxPlayerKey{}).(string); ok {
		return id
	}
	return s.ensureAnonID(w, r)
}

// ensureAnonID returns an existing anon cookie or sets a new one.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && validID(c.Value) {
		return c.Value
	}
	id := store.NewID()
	s.setCookie(w, anonCookieName, id, s.now().Add(180*24*time.Hour))
	// later lookups within this request see the same id
	r.AddCookie(&http.Cookie{Name: anonCookieName, Value: id})
	return id
}

func validID(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}

// signToken creates an HS256 token with the player id as subject.
func (s *Server) signToken(id string) (string, time.Time, error) {
	days := s.cfg.JWTExpiresDays
	if days <= 0 {
		days = 14
	}
	now := s.now()
	exp := now.Add(time.Duration(days) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString([]byte(s.secret()))
	return ss, exp, err
}

func (s *Server) parseToken(tok string) (string, bool) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.secret()), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid || !validID(claims.Subject) {
		return "", false
	}
	return claims.Subject, true
}

func (s *Server) secret() string {
	if s.cfg.JWTSecret == "" {
		return "dev_secret_change_me"
	}
	return s.cfg.JWTSecret
}

// setCookie writes a cookie with the security attributes for the environment.
func (s *Server) setCookie(w http.ResponseWriter, name, value string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.cfg.Production {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(tokenCookieName); err == nil {
		return c.Value
	}
	return ""
}
