// Package cards holds the fixed trading-card catalog shared by every game
// mode, plus the sampling and value helpers the engines build on.
package cards

import (
	"fmt"
	"strconv"
	"strings"
)

// Card is one immutable catalog record.
type Card struct {
	ID             int    `json:"id"`
	PlayerName     string `json:"playerName"`
	Year           int    `json:"year"`
	Set            string `json:"set"`
	Grade          string `json:"grade"`
	EstimatedValue string `json:"estimatedValue"` // display form, e.g. "$13,000,000+"
	Image          string `json:"image"`
	Description    string `json:"description"`
	Team           string `json:"team"`
	Position       string `json:"position"`
}

// Value is the numeric form of EstimatedValue.
func (c Card) Value() int64 { return ParseValue(c.EstimatedValue) }

// LoadError reports a catalog source that could not be read or decoded.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("cards: load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ParseValue strips currency formatting ("$", ",", a trailing "+") and
// returns the integer magnitude. Unparseable input yields 0.
func ParseValue(display string) int64 {
	s := strings.TrimSpace(display)
	s = strings.NewReplacer("$", "", ",", "", "+", "", " ", "").Replace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
