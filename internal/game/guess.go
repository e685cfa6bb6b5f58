// internal/game/guess.go
//
// Name-and-year quiz engine. Five rounds, one card each, up to three
// attempts per round. Name and year are scored independently: a component
// earns 3, 2 or 1 points on the attempt that first gets it right and
// nothing after that. The round ends when both are right or attempts run
// out.

package game

import (
	"math/rand"

	"github.com/robalobadob/cardgames/internal/cards"
)

// AttemptsPerRound is the number of guesses allowed per card.
const AttemptsPerRound = 3

// GuessState is the coarse Guess state.
type GuessState string

const (
	GuessIdle          GuessState = "idle"
	GuessAwaitingGuess GuessState = "awaiting_guess"
	GuessRoundOver     GuessState = "round_over"
	GuessGameOver      GuessState = "game_over"
)

// BlurAmount is the image blur for a number of attempts remaining.
func BlurAmount(attemptsRemaining int) int {
	switch attemptsRemaining {
	case 3:
		return 20
	case 2:
		return 10
	case 1:
		return 5
	}
	return 0
}

// PointsFor is the award for a component first answered on attempt n.
func PointsFor(attempt int) int {
	switch attempt {
	case 1:
		return 3
	case 2:
		return 2
	case 3:
		return 1
	}
	return 0
}

// Reveal is the answer shown once a round ends.
type Reveal struct {
	PlayerName string `json:"playerName"`
	Year       int    `json:"year"`
}

// GuessResult is returned by SubmitGuess.
type GuessResult struct {
	Outcome           Outcome `json:"outcome"`
	Reason            Reason  `json:"reason,omitempty"`
	NameMatched       bool    `json:"nameMatched"` // newly correct this call
	YearMatched       bool    `json:"yearMatched"`
	NameCorrect       bool    `json:"nameCorrect"`
	YearCorrect       bool    `json:"yearCorrect"`
	PointsAwarded     int     `json:"pointsAwarded"`
	AttemptsRemaining int     `json:"attemptsRemaining"`
	BlurAmount        int     `json:"blurAmount"`
	TotalPoints       int     `json:"totalPoints"`
	IsRoundOver       bool    `json:"isRoundOver"`
	IsGameOver        bool    `json:"isGameOver"`
	Reveal            *Reveal `json:"reveal,omitempty"`
}

// GuessRound is one entry of the round history.
type GuessRound struct {
	Round        int        `json:"round"`
	Card         cards.Card `json:"card"`
	NameCorrect  bool       `json:"nameCorrect"`
	YearCorrect  bool       `json:"yearCorrect"`
	NamePoints   int        `json:"namePoints"`
	YearPoints   int        `json:"yearPoints"`
	AttemptsUsed int        `json:"attemptsUsed"`
}

// GuessView is a read-only copy of the current round. The card's name and
// year are withheld until the round is over.
type GuessView struct {
	State             GuessState  `json:"state"`
	Round             int         `json:"round"`
	Total             int         `json:"total"`
	TotalPoints       int         `json:"totalPoints"`
	Card              *cards.Card `json:"card,omitempty"`
	AttemptsRemaining int         `json:"attemptsRemaining"`
	BlurAmount        int         `json:"blurAmount"`
	NameCorrect       bool        `json:"nameCorrect"`
	YearCorrect       bool        `json:"yearCorrect"`
}

// GuessResults is the final tally.
type GuessResults struct {
	TotalPoints  int          `json:"totalPoints"`
	MaxPoints    int          `json:"maxPoints"`
	Total        int          `json:"total"`
	RoundHistory []GuessRound `json:"roundHistory"`
}

// GuessEngine owns one Guess session at a time.
type GuessEngine struct {
	catalog *cards.Catalog
	rng     *rand.Rand

	state       GuessState
	round       int
	totalPoints int
	used        map[int]bool
	current     *cards.Card
	attempts    int
	nameCorrect bool
	yearCorrect bool
	namePoints  int
	yearPoints  int
	history     []GuessRound
}

func NewGuessEngine(catalog *cards.Catalog, opts ...Option) *GuessEngine {
	o := buildOptions(opts)
	e := &GuessEngine{catalog: catalog, rng: o.rng}
	e.Reset()
	return e
}

// StartSession resets the tally and deals the first card.
func (e *GuessEngine) StartSession() error {
	e.Reset()
	if err := e.setupRound(); err != nil {
		e.Reset()
		return err
	}
	return nil
}

func (e *GuessEngine) setupRound() error {
	drawn, reset, err := drawRound(e.catalog.Cards(), e.used, 1, e.rng)
	if err != nil {
		return err
	}
	if reset {
		e.used = map[int]bool{}
	}
	c := drawn[0]
	e.used[c.ID] = true
	e.current = &c
	e.attempts = AttemptsPerRound
	e.nameCorrect, e.yearCorrect = false, false
	e.namePoints, e.yearPoints = 0, 0
	e.state = GuessAwaitingGuess
	return nil
}

// SubmitGuess scores one attempt. Every accepted call uses up an attempt.
func (e *GuessEngine) SubmitGuess(name string, year int) GuessResult {
	switch e.state {
	case GuessAwaitingGuess:
	case GuessRoundOver:
		return e.ignored(ReasonAwaitingNext)
	case GuessGameOver:
		return e.ignored(ReasonGameOver)
	default:
		return e.ignored(ReasonNoActiveCard)
	}
	if e.current == nil {
		return e.ignored(ReasonNoActiveCard)
	}

	award := PointsFor(AttemptsPerRound + 1 - e.attempts)
	res := GuessResult{Outcome: OutcomeAccepted}

	if !e.nameCorrect && FuzzyMatch(name, *e.current) {
		e.nameCorrect = true
		e.namePoints = award
		res.NameMatched = true
		res.PointsAwarded += award
	}
	if !e.yearCorrect && year != 0 && year == e.current.Year {
		e.yearCorrect = true
		e.yearPoints = award
		res.YearMatched = true
		res.PointsAwarded += award
	}
	e.totalPoints += res.PointsAwarded
	e.attempts--

	if (e.nameCorrect && e.yearCorrect) || e.attempts == 0 {
		e.round++
		e.history = append(e.history, GuessRound{
			Round:        e.round,
			Card:         *e.current,
			NameCorrect:  e.nameCorrect,
			YearCorrect:  e.yearCorrect,
			NamePoints:   e.namePoints,
			YearPoints:   e.yearPoints,
			AttemptsUsed: AttemptsPerRound - e.attempts,
		})
		res.IsRoundOver = true
		res.Reveal = &Reveal{PlayerName: e.current.PlayerName, Year: e.current.Year}
		if e.round >= RoundsPerGame {
			e.state = GuessGameOver
		} else {
			e.state = GuessRoundOver
		}
	}

	res.NameCorrect = e.nameCorrect
	res.YearCorrect = e.yearCorrect
	res.AttemptsRemaining = e.attempts
	res.BlurAmount = e.blur()
	res.TotalPoints = e.totalPoints
	res.IsGameOver = e.state == GuessGameOver
	return res
}

// NextRound deals the next card after a finished round.
func (e *GuessEngine) NextRound() StepResult {
	switch e.state {
	case GuessRoundOver:
	case GuessGameOver:
		return StepResult{Outcome: OutcomeIgnored, Reason: ReasonGameOver}
	default:
		return StepResult{Outcome: OutcomeIgnored, Reason: ReasonNotAwaitingNext}
	}
	if err := e.setupRound(); err != nil {
		return StepResult{Outcome: OutcomeIgnored, Reason: ReasonNoActiveCard}
	}
	return StepResult{Outcome: OutcomeAccepted}
}

// Reset drops the session and returns to Idle.
func (e *GuessEngine) Reset() {
	e.state = GuessIdle
	e.round = 0
	e.totalPoints = 0
	e.used = map[int]bool{}
	e.current = nil
	e.attempts = 0
	e.nameCorrect, e.yearCorrect = false, false
	e.namePoints, e.yearPoints = 0, 0
	e.history = nil
}

func (e *GuessEngine) State() GuessState { return e.state }

func (e *GuessEngine) TotalPoints() int { return e.totalPoints }

func (e *GuessEngine) AttemptsRemaining() int { return e.attempts }

func (e *GuessEngine) IsGameOver() bool { return e.state == GuessGameOver }

// CurrentCard returns the card in play, if any.
func (e *GuessEngine) CurrentCard() (cards.Card, bool) {
	if e.current == nil {
		return cards.Card{}, false
	}
	return *e.current, true
}

// View copies the current round for display.
func (e *GuessEngine) View() GuessView {
	v := GuessView{
		State:             e.state,
		Round:             e.round,
		Total:             RoundsPerGame,
		TotalPoints:       e.totalPoints,
		AttemptsRemaining: e.attempts,
		BlurAmount:        e.blur(),
		NameCorrect:       e.nameCorrect,
		YearCorrect:       e.yearCorrect,
	}
	if e.current != nil {
		c := *e.current
		if e.state == GuessAwaitingGuess {
			c.PlayerName, c.Year, c.Description = "", 0, ""
		}
		v.Card = &c
	}
	return v
}

// Results returns the final (or running) tally.
func (e *GuessEngine) Results() GuessResults {
	return GuessResults{
		TotalPoints:  e.totalPoints,
		MaxPoints:    RoundsPerGame * 2 * PointsFor(1),
		Total:        RoundsPerGame,
		RoundHistory: append([]GuessRound{}, e.history...),
	}
}

func (e *GuessEngine) blur() int {
	if e.state != GuessAwaitingGuess {
		return 0
	}
	return BlurAmount(e.attempts)
}

func (e *GuessEngine) ignored(r Reason) GuessResult {
	return GuessResult{
		Outcome:           OutcomeIgnored,
		Reason:            r,
		NameCorrect:       e.nameCorrect,
		YearCorrect:       e.yearCorrect,
		AttemptsRemaining: e.attempts,
		BlurAmount:        e.blur(),
		TotalPoints:       e.totalPoints,
		IsGameOver:        e.state == GuessGameOver,
	}
}
