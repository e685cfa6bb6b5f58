package cards

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/tidwall/gjson"
)

// neighborWindow is how many nearest-value cards on each side of a card are
// considered first when building value options.
const neighborWindow = 3

// DefaultOptionCount is the pool size used for value multiple-choice.
const DefaultOptionCount = 3

// Catalog is the read-only card list. It is loaded once; a failed load
// leaves it empty for the life of the process and every sampling call
// degrades to an empty result.
type Catalog struct {
	src  Source
	once sync.Once

	mu      sync.RWMutex
	cards   []Card
	byID    map[int]Card
	loadErr error

	rngMu sync.Mutex
	rng   *rand.Rand
}

type Option func(*Catalog)

// WithRand replaces the time-seeded random source.
func WithRand(r *rand.Rand) Option {
	return func(c *Catalog) { c.rng = r }
}

func New(src Source, opts ...Option) *Catalog {
	c := &Catalog{
		src:  src,
		byID: map[int]Card{},
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load reads and decodes the source on the first call. Later calls return
// the cached outcome without touching the source again.
func (c *Catalog) Load(ctx context.Context) ([]Card, error) {
	c.once.Do(func() {
		list, err := c.fetch(ctx)
		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.loadErr = err
			return
		}
		c.cards = list
		for _, card := range list {
			if _, dup := c.byID[card.ID]; !dup {
				c.byID[card.ID] = card
			}
		}
	})
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Card(nil), c.cards...), c.loadErr
}

func (c *Catalog) fetch(ctx context.Context) ([]Card, error) {
	if c.src == nil {
		return nil, &LoadError{Source: "none", Err: errors.New("no source configured")}
	}
	b, err := c.src.Read(ctx)
	if err != nil {
		return nil, &LoadError{Source: c.src.Name(), Err: err}
	}
	list, err := decode(b)
	if err != nil {
		return nil, &LoadError{Source: c.src.Name(), Err: err}
	}
	return list, nil
}

func decode(b []byte) ([]Card, error) {
	if !gjson.ValidBytes(b) {
		return nil, errors.New("malformed JSON document")
	}
	if !gjson.GetBytes(b, "cards").IsArray() {
		return nil, errors.New(`document has no "cards" array`)
	}
	var doc struct {
		Cards []Card `json:"cards"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc.Cards, nil
}

// Err returns the load failure, if any.
func (c *Catalog) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadErr
}

// Cards returns a copy of the full catalog in source order.
func (c *Catalog) Cards() []Card {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Card(nil), c.cards...)
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cards)
}

// GetByID never fails loudly; ok is false for unknown ids.
func (c *Catalog) GetByID(id int) (Card, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	card, ok := c.byID[id]
	return card, ok
}

// SelectRandom samples n cards uniformly without replacement from the
// whole catalog. n larger than the catalog is clamped.
func (c *Catalog) SelectRandom(n int) []Card {
	all := c.Cards()
	if n <= 0 || len(all) == 0 {
		return []Card{}
	}
	if n > len(all) {
		n = len(all)
	}
	c.rngMu.Lock()
	for i := 0; i < n; i++ {
		j := i + c.rng.Intn(len(all)-i)
		all[i], all[j] = all[j], all[i]
	}
	c.rngMu.Unlock()
	return all[:n]
}

// SortByValue returns a stably sorted copy ordered by numeric value.
func SortByValue(list []Card, descending bool) []Card {
	out := append([]Card(nil), list...)
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return out[i].Value() > out[j].Value()
		}
		return out[i].Value() < out[j].Value()
	})
	return out
}

// ValueOptionsFor builds poolSize distinct display values including the
// card's own. Candidates come from the three nearest-value neighbours on
// each side, randomly subsampled; if that window holds too few distinct
// values the search widens outward by distance. The result is sorted
// ascending by numeric value and never repeats a numeric value.
func (c *Catalog) ValueOptionsFor(card Card, poolSize int) []string {
	if poolSize <= 0 {
		poolSize = DefaultOptionCount
	}
	own := card.Value()

	others := make([]Card, 0, c.Len())
	for _, other := range c.Cards() {
		if other.ID != card.ID {
			others = append(others, other)
		}
	}
	others = SortByValue(others, false)
	pos := sort.Search(len(others), func(i int) bool { return others[i].Value() >= own })

	// neighbours ordered by distance, lower side first at equal distance
	var ordered []Card
	var dist []int
	for d := 1; pos-d >= 0 || pos+d-1 < len(others); d++ {
		if i := pos - d; i >= 0 {
			ordered = append(ordered, others[i])
			dist = append(dist, d)
		}
		if i := pos + d - 1; i < len(others) {
			ordered = append(ordered, others[i])
			dist = append(dist, d)
		}
	}

	seen := map[int64]bool{own: true}
	var window, rest []Card
	for i, n := range ordered {
		v := n.Value()
		if seen[v] {
			continue
		}
		seen[v] = true
		if dist[i] <= neighborWindow {
			window = append(window, n)
		} else {
			rest = append(rest, n)
		}
	}

	need := poolSize - 1
	c.rngMu.Lock()
	c.rng.Shuffle(len(window), func(i, j int) { window[i], window[j] = window[j], window[i] })
	c.rngMu.Unlock()

	picked := []Card{card}
	for _, n := range window {
		if len(picked)-1 >= need {
			break
		}
		picked = append(picked, n)
	}
	for _, n := range rest {
		if len(picked)-1 >= need {
			break
		}
		picked = append(picked, n)
	}

	picked = SortByValue(picked, false)
	out := make([]string, 0, len(picked))
	for _, p := range picked {
		out = append(out, p.EstimatedValue)
	}
	return out
}
