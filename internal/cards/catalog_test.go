package cards

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func loadEmbedded(t *testing.T) *Catalog {
	t.Helper()
	cat := New(EmbeddedSource(), WithRand(rand.New(rand.NewSource(7))))
	if _, err := cat.Load(context.Background()); err != nil {
		t.Fatalf("load embedded catalog: %v", err)
	}
	return cat
}

type countingSource struct {
	calls atomic.Int32
	doc   []byte
}

func (s *countingSource) Name() string { return "counting" }

func (s *countingSource) Read(context.Context) ([]byte, error) {
	s.calls.Add(1)
	return s.doc, nil
}

func TestLoadEmbeddedCatalog(t *testing.T) {
	cat := loadEmbedded(t)
	if cat.Len() != 30 {
		t.Fatalf("Len() = %d, want 30", cat.Len())
	}
	seen := map[int]bool{}
	for _, c := range cat.Cards() {
		if seen[c.ID] {
			t.Fatalf("duplicate id %d", c.ID)
		}
		seen[c.ID] = true
		if c.Value() <= 0 {
			t.Fatalf("card %d has unparseable value %q", c.ID, c.EstimatedValue)
		}
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	src := &countingSource{doc: []byte(`{"cards":[{"id":1,"playerName":"A B","estimatedValue":"$1"}]}`)}
	cat := New(src)
	for i := 0; i < 3; i++ {
		list, err := cat.Load(context.Background())
		if err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
		if len(list) != 1 {
			t.Fatalf("load %d returned %d cards", i, len(list))
		}
	}
	if got := src.calls.Load(); got != 1 {
		t.Fatalf("source read %d times, want 1", got)
	}
}

func TestLoadFailureLeavesCatalogEmpty(t *testing.T) {
	tests := []struct {
		name string
		src  Source
	}{
		{name: "malformed json", src: BytesSource([]byte(`{"cards": [`))},
		{name: "missing cards array", src: BytesSource([]byte(`{"items": []}`))},
		{name: "wrong field type", src: BytesSource([]byte(`{"cards": [{"id": "one"}]}`))},
		{name: "missing file", src: FileSource(filepath.Join(os.TempDir(), "no-such-cards.json"))},
		{name: "nil source", src: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := New(tt.src)
			_, err := cat.Load(context.Background())
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("Load() error = %v, want *LoadError", err)
			}
			if cat.Len() != 0 {
				t.Fatalf("Len() = %d after failed load", cat.Len())
			}
			if got := cat.SelectRandom(3); len(got) != 0 {
				t.Fatalf("SelectRandom on empty catalog = %v", got)
			}
			if _, ok := cat.GetByID(1); ok {
				t.Fatal("GetByID found a card in an empty catalog")
			}
			// no retry
			if _, err := cat.Load(context.Background()); err == nil {
				t.Fatal("second Load() should report the cached failure")
			}
		})
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	doc := `{"cards":[{"id":5,"playerName":"Cy Young","year":1909,"estimatedValue":"$312,000"}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cat := New(FileSource(path))
	if _, err := cat.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	c, ok := cat.GetByID(5)
	if !ok || c.PlayerName != "Cy Young" || c.Year != 1909 {
		t.Fatalf("GetByID(5) = %+v, %v", c, ok)
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cards.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"cards":[{"id":1,"playerName":"Honus Wagner","estimatedValue":"$7,250,000"}]}`))
	}))
	defer srv.Close()

	cat := New(HTTPSource(srv.URL+"/cards.json", srv.Client()))
	if _, err := cat.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cat.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", cat.Len())
	}

	missing := New(HTTPSource(srv.URL+"/gone.json", srv.Client()))
	if _, err := missing.Load(context.Background()); err == nil {
		t.Fatal("expected LoadError for 404")
	}
}

func TestSelectRandomDistinct(t *testing.T) {
	cat := loadEmbedded(t)
	for _, n := range []int{1, 6, 10, 30} {
		got := cat.SelectRandom(n)
		if len(got) != n {
			t.Fatalf("SelectRandom(%d) returned %d cards", n, len(got))
		}
		seen := map[int]bool{}
		for _, c := range got {
			if seen[c.ID] {
				t.Fatalf("SelectRandom(%d) repeated id %d", n, c.ID)
			}
			seen[c.ID] = true
		}
	}
	if got := cat.SelectRandom(99); len(got) != 30 {
		t.Fatalf("SelectRandom(99) = %d cards, want clamp to 30", len(got))
	}
	if got := cat.SelectRandom(0); len(got) != 0 {
		t.Fatalf("SelectRandom(0) = %d cards", len(got))
	}
}

func TestGetByID(t *testing.T) {
	cat := loadEmbedded(t)
	c, ok := cat.GetByID(1)
	if !ok || c.PlayerName != "Honus Wagner" {
		t.Fatalf("GetByID(1) = %+v, %v", c, ok)
	}
	if _, ok := cat.GetByID(999); ok {
		t.Fatal("GetByID(999) should be not found")
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"$13,000,000+", 13000000},
		{"$8,000,000", 8000000},
		{"$600,000", 600000},
		{"$37,800", 37800},
		{"$1", 1},
		{" $2,500 ", 2500},
		{"", 0},
		{"priceless", 0},
	}
	for _, tt := range tests {
		if got := ParseValue(tt.in); got != tt.want {
			t.Fatalf("ParseValue(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSortByValueStable(t *testing.T) {
	list := []Card{
		{ID: 1, EstimatedValue: "$500"},
		{ID: 2, EstimatedValue: "$1,000"},
		{ID: 3, EstimatedValue: "$500"},
		{ID: 4, EstimatedValue: "$2,000+"},
	}
	asc := SortByValue(list, false)
	wantAsc := []int{1, 3, 2, 4}
	for i, id := range wantAsc {
		if asc[i].ID != id {
			t.Fatalf("ascending[%d] = %d, want %d", i, asc[i].ID, id)
		}
	}
	desc := SortByValue(list, true)
	wantDesc := []int{4, 2, 1, 3}
	for i, id := range wantDesc {
		if desc[i].ID != id {
			t.Fatalf("descending[%d] = %d, want %d", i, desc[i].ID, id)
		}
	}
	if list[0].ID != 1 || list[3].ID != 4 {
		t.Fatal("SortByValue mutated its input")
	}
}

func TestValueOptionsFor(t *testing.T) {
	cat := loadEmbedded(t)
	for _, card := range cat.Cards() {
		opts := cat.ValueOptionsFor(card, DefaultOptionCount)
		if len(opts) != 3 {
			t.Fatalf("card %d: %d options, want 3", card.ID, len(opts))
		}
		found := false
		seen := map[int64]bool{}
		var prev int64 = -1
		for _, o := range opts {
			v := ParseValue(o)
			if seen[v] {
				t.Fatalf("card %d: duplicate numeric option %q in %v", card.ID, o, opts)
			}
			seen[v] = true
			if v <= prev {
				t.Fatalf("card %d: options not ascending: %v", card.ID, opts)
			}
			prev = v
			if o == card.EstimatedValue {
				found = true
			}
		}
		if !found {
			t.Fatalf("card %d: own value %q missing from %v", card.ID, card.EstimatedValue, opts)
		}
	}
}

func TestValueOptionsForSkipsTiedNeighbours(t *testing.T) {
	doc := []byte(`{"cards":[
		{"id":1,"estimatedValue":"$100"},
		{"id":2,"estimatedValue":"$200"},
		{"id":3,"estimatedValue":"$200"},
		{"id":4,"estimatedValue":"$200"},
		{"id":5,"estimatedValue":"$200"},
		{"id":6,"estimatedValue":"$200"},
		{"id":7,"estimatedValue":"$200"},
		{"id":8,"estimatedValue":"$900"}
	]}`)
	cat := New(BytesSource(doc), WithRand(rand.New(rand.NewSource(1))))
	if _, err := cat.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	card, _ := cat.GetByID(2)
	opts := cat.ValueOptionsFor(card, 3)
	want := []string{"$100", "$200", "$900"}
	if len(opts) != len(want) {
		t.Fatalf("options = %v, want %v", opts, want)
	}
	for i := range want {
		if opts[i] != want[i] {
			t.Fatalf("options = %v, want %v", opts, want)
		}
	}
}

func TestValueOptionsForSmallCatalog(t *testing.T) {
	cat := New(BytesSource([]byte(`{"cards":[{"id":1,"estimatedValue":"$10"}]}`)))
	if _, err := cat.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	card, _ := cat.GetByID(1)
	opts := cat.ValueOptionsFor(card, 3)
	if len(opts) != 1 || opts[0] != "$10" {
		t.Fatalf("options = %v, want only own value", opts)
	}
}
