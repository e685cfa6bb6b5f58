package daily

import (
	"context"
	"testing"
	"time"

	"github.com/robalobadob/cardgames/internal/store"
)

func TestDateKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	d := time.Date(2024, 3, 2, 5, 0, 0, 0, loc)
	if got := DateKey(d); got != "2024-03-01" {
		t.Fatalf("DateKey = %s, want 2024-03-01", got)
	}
}

func TestSeedDeterministic(t *testing.T) {
	d := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	later := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	if Seed(d, "salt") != Seed(later, "salt") {
		t.Fatal("seed changed within a day")
	}
	if Seed(d, "salt") == Seed(d.AddDate(0, 0, 1), "salt") {
		t.Fatal("seed repeated across days")
	}
	if Seed(d, "salt") == Seed(d, "pepper") {
		t.Fatal("seed ignores salt")
	}
	if Seed(d, "salt") < 0 {
		t.Fatal("negative seed")
	}
	a, b := Rand(d, "salt"), Rand(later, "salt")
	for i := 0; i < 10; i++ {
		if a.Int63() != b.Int63() {
			t.Fatal("daily random sequences diverged")
		}
	}
}

func TestStoreOneResultPerDay(t *testing.T) {
	ctx := context.Background()
	s := NewStore(store.NewMemoryKV())

	played, err := s.AlreadyPlayed(ctx, "p1", "2024-03-01")
	if err != nil || played {
		t.Fatalf("AlreadyPlayed = %v, %v", played, err)
	}
	if err := s.InsertResult(ctx, Result{PlayerID: "p1", Date: "2024-03-01", Points: 14}); err != nil {
		t.Fatalf("InsertResult: %v", err)
	}
	if err := s.InsertResult(ctx, Result{PlayerID: "p1", Date: "2024-03-01", Points: 30}); err != nil {
		t.Fatalf("second InsertResult: %v", err)
	}
	r, ok, err := s.Result(ctx, "p1", "2024-03-01")
	if err != nil || !ok || r.Points != 14 {
		t.Fatalf("Result = %+v, %v, %v", r, ok, err)
	}
	if played, _ := s.AlreadyPlayed(ctx, "p1", "2024-03-02"); played {
		t.Fatal("result leaked into the next day")
	}
	if played, _ := s.AlreadyPlayed(ctx, "p2", "2024-03-01"); played {
		t.Fatal("result leaked to another player")
	}
}
