package game

import (
	"strings"

	"github.com/robalobadob/cardgames/internal/cards"
)

// FuzzyMatch reports whether input names the card's player. It accepts the
// full name, any multi-word input ending in the player's last name
// ("ed plank" for Eddie Plank), and a single word equal to any name token.
// Case and surrounding whitespace are ignored.
func FuzzyMatch(input string, card cards.Card) bool {
	in := strings.Fields(strings.ToLower(input))
	name := strings.Fields(strings.ToLower(card.PlayerName))
	if len(in) == 0 || len(name) == 0 {
		return false
	}
	if strings.Join(in, " ") == strings.Join(name, " ") {
		return true
	}
	if len(in) > 1 {
		return in[len(in)-1] == name[len(name)-1]
	}
	for _, tok := range name {
		if in[0] == tok {
			return true
		}
	}
	return false
}
