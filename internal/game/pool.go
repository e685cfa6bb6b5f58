package game

import (
	"math/rand"

	"github.com/robalobadob/cardgames/internal/cards"
)

// drawRound picks k cards not yet used this session whose numeric values are
// pairwise distinct. A pool that can no longer supply k distinct values is
// reset to the full catalog; reset reports when that happened so the caller
// can clear its used set. Draws that contain a tie are thrown away and
// resampled whole.
func drawRound(all []cards.Card, used map[int]bool, k int, rng *rand.Rand) (drawn []cards.Card, reset bool, err error) {
	if k < 1 || distinctValues(all) < k {
		return nil, false, ErrNotEnoughCards
	}
	pool := make([]cards.Card, 0, len(all))
	for _, c := range all {
		if !used[c.ID] {
			pool = append(pool, c)
		}
	}
	if distinctValues(pool) < k {
		pool = append(pool[:0], all...)
		reset = true
	}

	for {
		sample := sampleCards(pool, k, rng)
		if pairwiseDistinct(sample) {
			return sample, reset, nil
		}
	}
}

func sampleCards(pool []cards.Card, k int, rng *rand.Rand) []cards.Card {
	work := append([]cards.Card(nil), pool...)
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(work)-i)
		work[i], work[j] = work[j], work[i]
	}
	return work[:k]
}

func pairwiseDistinct(list []cards.Card) bool {
	seen := make(map[int64]bool, len(list))
	for _, c := range list {
		v := c.Value()
		if seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

func distinctValues(list []cards.Card) int {
	seen := make(map[int64]bool, len(list))
	for _, c := range list {
		seen[c.Value()] = true
	}
	return len(seen)
}
