package game

import (
	"context"
	"math/rand"
	"testing"

	"github.com/robalobadob/cardgames/internal/cards"
)

func seeded(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

func embeddedCatalog(t *testing.T) *cards.Catalog {
	t.Helper()
	cat := cards.New(cards.EmbeddedSource(), cards.WithRand(rand.New(rand.NewSource(1))))
	if _, err := cat.Load(context.Background()); err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return cat
}

func catalogFrom(t *testing.T, doc string) *cards.Catalog {
	t.Helper()
	cat := cards.New(cards.BytesSource([]byte(doc)))
	if _, err := cat.Load(context.Background()); err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return cat
}
