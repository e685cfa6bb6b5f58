package game

import (
	"testing"

	"github.com/robalobadob/cardgames/internal/cards"
)

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		input string
		name  string
		want  bool
	}{
		{"wagner", "Honus Wagner", true},
		{"ed plank", "Eddie Plank", true},
		{"babe", "Babe Ruth", true},
		{"smith", "Honus Wagner", false},
		{"honus wagner", "Honus Wagner", true},
		{"  HONUS   Wagner ", "Honus Wagner", true},
		{"honus", "Honus Wagner", true},
		{"h wagner", "Honus Wagner", true},
		{"wagner honus", "Honus Wagner", false},
		{"mantle", "Mickey Mantle", true},
		{"ken griffey jr.", "Ken Griffey Jr.", true},
		{"griffey", "Ken Griffey Jr.", true},
		{"", "Honus Wagner", false},
		{"wagner", "", false},
	}
	for _, tt := range tests {
		got := FuzzyMatch(tt.input, cards.Card{PlayerName: tt.name})
		if got != tt.want {
			t.Fatalf("FuzzyMatch(%q, %q) = %v, want %v", tt.input, tt.name, got, tt.want)
		}
	}
}
