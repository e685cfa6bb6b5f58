// Package assets holds files compiled into the server binary.
package assets

import (
	_ "embed"
)

//go:embed cards.json
var cardsJSON []byte

// CardsJSON returns a copy of the embedded card catalog document.
// The document has the shape {"cards": [...]}.
func CardsJSON() []byte {
	out := make([]byte, len(cardsJSON))
	copy(out, cardsJSON)
	return out
}
