// internal/scores/ledger.go
//
// Best-score ledger.
//   - One JSON document per player under "card_games_high_scores[:<player>]",
//     shaped {mode: {key: best}}.
//   - Matching keeps the lowest turn count; every other mode keeps the highest.
//   - Missing, corrupt or unreadable documents read as empty. Write failures
//     are logged and reported as "no new record".
//   - A legacy flat {difficulty: turns} document is folded into "matching"
//     and written back the first time it is read.

package scores

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"sync"

	"github.com/robalobadob/cardgames/internal/store"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	ModeMatching  = "matching"
	ModeValuation = "valuation"
	ModeGuess     = "guess"

	Namespace = "card_games_high_scores"
)

// Book is the decoded ledger: mode → key → best score.
type Book map[string]map[string]int

// LowerIsBetter reports the comparator direction for mode.
func LowerIsBetter(mode string) bool { return mode == ModeMatching }

// IsBetter reports whether score strictly beats prev under mode's comparator.
func IsBetter(mode string, score, prev int) bool {
	if LowerIsBetter(mode) {
		return score < prev
	}
	return score > prev
}

// DocumentKey is the KV key holding player's document.
func DocumentKey(player string) string {
	if player == "" {
		return Namespace
	}
	return Namespace + ":" + player
}

type Ledger struct {
	kv store.KV
	mu sync.Mutex // serializes read-modify-write of documents
}

func New(kv store.KV) *Ledger {
	return &Ledger{kv: kv}
}

// Get returns the best score for (mode, key).
func (l *Ledger) Get(ctx context.Context, player, mode, key string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, book := l.load(ctx, DocumentKey(player))
	v, ok := book[mode][key]
	return v, ok
}

// All returns a copy of the player's whole ledger.
func (l *Ledger) All(ctx context.Context, player string) Book {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, book := l.load(ctx, DocumentKey(player))
	return book
}

// Save stores score when it beats the current best (or none exists) and
// reports whether a new record was written.
func (l *Ledger) Save(ctx context.Context, player, mode, key string, score int) bool {
	if !ValidName(mode) || !ValidName(key) {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	docKey := DocumentKey(player)
	doc, book := l.load(ctx, docKey)
	if prev, ok := book[mode][key]; ok && !IsBetter(mode, score, prev) {
		return false
	}

	next, err := sjson.SetBytes(doc, pathKey(mode)+"."+pathKey(key), score)
	if err != nil {
		log.Warn().Err(err).Str("mode", mode).Str("key", key).Msg("high score path rejected")
		return false
	}
	if err := l.kv.Set(ctx, docKey, string(next)); err != nil {
		log.Warn().Err(err).Str("doc", docKey).Msg("high score not persisted")
		return false
	}
	return true
}

// load reads and normalizes a document. The returned bytes are always a
// JSON object that Save can extend in place.
func (l *Ledger) load(ctx context.Context, docKey string) ([]byte, Book) {
	book := Book{}
	raw, err := l.kv.Get(ctx, docKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Warn().Err(err).Str("doc", docKey).Msg("high scores unreadable, treating as empty")
		}
		return []byte(`{}`), book
	}
	if !gjson.Valid(raw) || !gjson.Parse(raw).IsObject() {
		log.Warn().Str("doc", docKey).Msg("high scores corrupt, treating as empty")
		return []byte(`{}`), book
	}

	legacy, odd := false, false
	gjson.Parse(raw).ForEach(func(mode, val gjson.Result) bool {
		switch {
		case val.Type == gjson.Number:
			legacy = true
			put(book, ModeMatching, mode.String(), int(val.Int()))
		case val.IsObject():
			val.ForEach(func(k, v gjson.Result) bool {
				if v.Type == gjson.Number {
					put(book, mode.String(), k.String(), int(v.Int()))
				}
				return true
			})
		default:
			odd = true
		}
		return true
	})
	if !legacy && !odd {
		return []byte(raw), book
	}

	doc, err := json.Marshal(book)
	if err != nil {
		return []byte(`{}`), book
	}
	if !legacy {
		return doc, book
	}
	if err := l.kv.Set(ctx, docKey, string(doc)); err != nil {
		log.Warn().Err(err).Str("doc", docKey).Msg("legacy high scores not migrated")
	} else {
		log.Info().Str("doc", docKey).Msg("legacy high scores migrated")
	}
	return doc, book
}

func put(b Book, mode, key string, v int) {
	m, ok := b[mode]
	if !ok {
		m = map[string]int{}
		b[mode] = m
	}
	// A legacy entry colliding with a nested one keeps the better score.
	if prev, exists := m[key]; exists && !IsBetter(mode, v, prev) {
		return
	}
	m[key] = v
}

// validName limits modes and keys to characters that are literal in a
// gjson/sjson path.
var validName = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

// ValidName reports whether s can be used as a mode or key.
func ValidName(s string) bool { return validName.MatchString(s) }

// pathKey makes a path component. Digit-only keys get the ":" prefix so
// they address an object member, not an array index.
func pathKey(s string) string {
	for _, r := range s {
		if r < '0' || r > '9' {
			return s
		}
	}
	return ":" + s
}
