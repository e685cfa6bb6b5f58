// internal/game/valuation.go
//
// Value-comparison quiz engine. One session is five rounds of a single
// sub-mode:
//   - rank3:  order three cards from most to least valuable.
//   - pick2:  pick the more valuable of two cards.
//   - guess1: pick a card's value out of three nearby values.
//
// State transitions per round:
//   awaiting_answer → (submit) → awaiting_next → (NextRound) → awaiting_answer
//   the fifth submit goes to game_over instead.

package game

import (
	"fmt"
	"math/rand"

	"github.com/robalobadob/cardgames/internal/cards"
)

// SubMode selects the Valuation variant.
type SubMode string

const (
	SubModeRank3  SubMode = "rank3"
	SubModePick2  SubMode = "pick2"
	SubModeGuess1 SubMode = "guess1"
)

// ParseSubMode validates a sub-mode name.
func ParseSubMode(s string) (SubMode, bool) {
	switch m := SubMode(s); m {
	case SubModeRank3, SubModePick2, SubModeGuess1:
		return m, true
	}
	return "", false
}

// CardCount is the number of cards dealt per round.
func (m SubMode) CardCount() int {
	switch m {
	case SubModeRank3:
		return 3
	case SubModePick2:
		return 2
	case SubModeGuess1:
		return 1
	}
	return 0
}

// LedgerKey is the best-score key for the sub-mode.
func (m SubMode) LedgerKey() string {
	return fmt.Sprintf("%d-card", m.CardCount())
}

// ValuationState is the coarse Valuation state.
type ValuationState string

const (
	ValuationIdle           ValuationState = "idle"
	ValuationAwaitingAnswer ValuationState = "awaiting_answer"
	ValuationAwaitingNext   ValuationState = "awaiting_next"
	ValuationGameOver       ValuationState = "game_over"
)

const rankSlots = 3

// Answer is a tagged answer; which field counts depends on SubMode.
type Answer struct {
	SubMode   SubMode `json:"subMode"`
	Placement []int   `json:"placement,omitempty"` // rank3: card ids, most valuable first
	CardID    int     `json:"cardId,omitempty"`    // pick2
	Value     string  `json:"value,omitempty"`     // guess1: display value
}

// RoundOutcome is one entry of the round history.
type RoundOutcome struct {
	SubMode       SubMode      `json:"subMode"`
	Round         int          `json:"round"`
	Cards         []cards.Card `json:"cards"`
	UserAnswer    Answer       `json:"userAnswer"`
	CorrectAnswer Answer       `json:"correctAnswer"`
	IsCorrect     bool         `json:"isCorrect"`
}

// AnswerResult is returned by SubmitAnswer.
type AnswerResult struct {
	Outcome      Outcome       `json:"outcome"`
	Reason       Reason        `json:"reason,omitempty"`
	Round        *RoundOutcome `json:"round,omitempty"`
	Score        int           `json:"score"`
	RoundsPlayed int           `json:"roundsPlayed"`
	IsGameOver   bool          `json:"isGameOver"`
}

// SelectResult is returned by SelectCard.
type SelectResult struct {
	Outcome  Outcome `json:"outcome"`
	Reason   Reason  `json:"reason,omitempty"`
	Selected *int    `json:"selected,omitempty"`
}

// PlaceResult is returned by PlaceCard.
type PlaceResult struct {
	Outcome    Outcome `json:"outcome"`
	Reason     Reason  `json:"reason,omitempty"`
	Placements []*int  `json:"placements"`
	AllPlaced  bool    `json:"allPlaced"`
}

// StepResult is returned by NextRound.
type StepResult struct {
	Outcome Outcome `json:"outcome"`
	Reason  Reason  `json:"reason,omitempty"`
}

// ValuationView is a read-only copy of the current round.
type ValuationView struct {
	Mode         SubMode        `json:"mode"`
	State        ValuationState `json:"state"`
	Round        int            `json:"round"`
	Total        int            `json:"total"`
	Score        int            `json:"score"`
	Cards        []cards.Card   `json:"cards"`
	ValueOptions []string       `json:"valueOptions,omitempty"`
	Placements   []*int         `json:"placements,omitempty"`
	Selected     *int           `json:"selected,omitempty"`
	CanSubmit    bool           `json:"canSubmit"`
}

// ValuationResults is the final tally.
type ValuationResults struct {
	Mode         SubMode        `json:"mode"`
	Score        int            `json:"score"`
	Total        int            `json:"total"`
	RoundHistory []RoundOutcome `json:"roundHistory"`
}

// ValuationEngine owns one Valuation session at a time.
type ValuationEngine struct {
	catalog *cards.Catalog
	rng     *rand.Rand

	mode       SubMode
	state      ValuationState
	round      int // completed rounds
	correct    int
	used       map[int]bool
	roundCards []cards.Card
	options    []string
	slots      [rankSlots]int
	filled     [rankSlots]bool
	pending    int
	hasPending bool
	history    []RoundOutcome
}

func NewValuationEngine(catalog *cards.Catalog, opts ...Option) *ValuationEngine {
	o := buildOptions(opts)
	e := &ValuationEngine{catalog: catalog, rng: o.rng}
	e.Reset()
	return e
}

// StartSession resets counters and deals round one.
func (e *ValuationEngine) StartSession(mode SubMode) error {
	if mode.CardCount() == 0 {
		return fmt.Errorf("unknown valuation mode %q", mode)
	}
	e.Reset()
	e.mode = mode
	if err := e.setupRound(); err != nil {
		e.Reset()
		return err
	}
	return nil
}

func (e *ValuationEngine) setupRound() error {
	drawn, reset, err := drawRound(e.catalog.Cards(), e.used, e.mode.CardCount(), e.rng)
	if err != nil {
		return err
	}
	if reset {
		e.used = map[int]bool{}
	}
	for _, c := range drawn {
		e.used[c.ID] = true
	}
	e.roundCards = drawn
	e.options = nil
	if e.mode == SubModeGuess1 {
		e.options = e.catalog.ValueOptionsFor(drawn[0], cards.DefaultOptionCount)
	}
	e.slots = [rankSlots]int{}
	e.filled = [rankSlots]bool{}
	e.pending, e.hasPending = 0, false
	e.state = ValuationAwaitingAnswer
	return nil
}

// SelectCard marks a pending rank3 selection.
func (e *ValuationEngine) SelectCard(cardID int) SelectResult {
	if r, ok := e.rankInputAllowed(); !ok {
		return SelectResult{Outcome: OutcomeIgnored, Reason: r}
	}
	if !e.inRound(cardID) {
		return SelectResult{Outcome: OutcomeIgnored, Reason: ReasonUnknownCard}
	}
	e.pending, e.hasPending = cardID, true
	id := cardID
	return SelectResult{Outcome: OutcomeAccepted, Selected: &id}
}

// PlaceCard moves the pending selection into slot position (0–2),
// evicting it from any other slot first.
func (e *ValuationEngine) PlaceCard(position int) PlaceResult {
	if r, ok := e.rankInputAllowed(); !ok {
		return PlaceResult{Outcome: OutcomeIgnored, Reason: r, Placements: e.placements(), AllPlaced: e.allPlaced()}
	}
	if !e.hasPending {
		return PlaceResult{Outcome: OutcomeIgnored, Reason: ReasonNoSelection, Placements: e.placements(), AllPlaced: e.allPlaced()}
	}
	if position < 0 || position >= rankSlots {
		return PlaceResult{Outcome: OutcomeIgnored, Reason: ReasonBadPosition, Placements: e.placements(), AllPlaced: e.allPlaced()}
	}
	for i := range e.slots {
		if e.filled[i] && e.slots[i] == e.pending {
			e.filled[i] = false
		}
	}
	e.slots[position], e.filled[position] = e.pending, true
	e.pending, e.hasPending = 0, false
	return PlaceResult{Outcome: OutcomeAccepted, Placements: e.placements(), AllPlaced: e.allPlaced()}
}

func (e *ValuationEngine) rankInputAllowed() (Reason, bool) {
	if e.mode != SubModeRank3 {
		return ReasonWrongMode, false
	}
	return e.answerWindow()
}

func (e *ValuationEngine) answerWindow() (Reason, bool) {
	switch e.state {
	case ValuationAwaitingAnswer:
		return "", true
	case ValuationAwaitingNext:
		return ReasonAwaitingNext, false
	case ValuationGameOver:
		return ReasonGameOver, false
	default:
		return ReasonNotPlaying, false
	}
}

// SubmitAnswer scores the round. A rank3 answer without a Placement uses
// the engine's own slots, which must all be filled.
func (e *ValuationEngine) SubmitAnswer(a Answer) AnswerResult {
	if r, ok := e.answerWindow(); !ok {
		return e.ignoredAnswer(r)
	}
	if a.SubMode != "" && a.SubMode != e.mode {
		return e.ignoredAnswer(ReasonWrongMode)
	}

	user := Answer{SubMode: e.mode}
	correct := Answer{SubMode: e.mode}
	var ok bool

	switch e.mode {
	case SubModeRank3:
		placement := a.Placement
		if placement == nil {
			if !e.allPlaced() {
				return e.ignoredAnswer(ReasonIncomplete)
			}
			placement = e.slots[:]
		}
		if len(placement) != rankSlots {
			return e.ignoredAnswer(ReasonIncomplete)
		}
		user.Placement = append([]int(nil), placement...)
		for _, c := range cards.SortByValue(e.roundCards, true) {
			correct.Placement = append(correct.Placement, c.ID)
		}
		ok = equalIDs(user.Placement, correct.Placement)

	case SubModePick2:
		if !e.inRound(a.CardID) {
			return e.ignoredAnswer(ReasonUnknownCard)
		}
		user.CardID = a.CardID
		correct.CardID = cards.SortByValue(e.roundCards, true)[0].ID
		ok = user.CardID == correct.CardID

	case SubModeGuess1:
		if a.Value == "" {
			return e.ignoredAnswer(ReasonNoSelection)
		}
		user.Value = a.Value
		correct.Value = e.roundCards[0].EstimatedValue
		ok = user.Value == correct.Value
	}

	if ok {
		e.correct++
	}
	e.round++
	outcome := RoundOutcome{
		SubMode:       e.mode,
		Round:         e.round,
		Cards:         append([]cards.Card(nil), e.roundCards...),
		UserAnswer:    user,
		CorrectAnswer: correct,
		IsCorrect:     ok,
	}
	e.history = append(e.history, outcome)
	if e.round >= RoundsPerGame {
		e.state = ValuationGameOver
	} else {
		e.state = ValuationAwaitingNext
	}
	return AnswerResult{
		Outcome:      OutcomeAccepted,
		Round:        &outcome,
		Score:        e.correct,
		RoundsPlayed: e.round,
		IsGameOver:   e.state == ValuationGameOver,
	}
}

// NextRound deals the next round after a reveal.
func (e *ValuationEngine) NextRound() StepResult {
	switch e.state {
	case ValuationAwaitingNext:
	case ValuationGameOver:
		return StepResult{Outcome: OutcomeIgnored, Reason: ReasonGameOver}
	default:
		return StepResult{Outcome: OutcomeIgnored, Reason: ReasonNotAwaitingNext}
	}
	if err := e.setupRound(); err != nil {
		// The catalog cannot shrink after StartSession succeeded.
		return StepResult{Outcome: OutcomeIgnored, Reason: ReasonNoActiveCard}
	}
	return StepResult{Outcome: OutcomeAccepted}
}

// Reset drops the session and returns to Idle.
func (e *ValuationEngine) Reset() {
	e.mode = ""
	e.state = ValuationIdle
	e.round = 0
	e.correct = 0
	e.used = map[int]bool{}
	e.roundCards = nil
	e.options = nil
	e.slots = [rankSlots]int{}
	e.filled = [rankSlots]bool{}
	e.pending, e.hasPending = 0, false
	e.history = nil
}

func (e *ValuationEngine) Mode() SubMode { return e.mode }

func (e *ValuationEngine) State() ValuationState { return e.state }

func (e *ValuationEngine) Score() int { return e.correct }

func (e *ValuationEngine) IsGameOver() bool { return e.state == ValuationGameOver }

// RoundCards returns the cards dealt for the current round.
func (e *ValuationEngine) RoundCards() []cards.Card {
	return append([]cards.Card(nil), e.roundCards...)
}

// ValueOptions returns the guess1 multiple-choice values, ascending.
func (e *ValuationEngine) ValueOptions() []string {
	return append([]string(nil), e.options...)
}

// View copies the current round for display.
func (e *ValuationEngine) View() ValuationView {
	v := ValuationView{
		Mode:         e.mode,
		State:        e.state,
		Round:        e.round,
		Total:        RoundsPerGame,
		Score:        e.correct,
		Cards:        e.RoundCards(),
		ValueOptions: e.ValueOptions(),
	}
	if e.mode == SubModeRank3 {
		v.Placements = e.placements()
		if e.hasPending {
			id := e.pending
			v.Selected = &id
		}
		v.CanSubmit = e.state == ValuationAwaitingAnswer && e.allPlaced()
	} else {
		v.CanSubmit = e.state == ValuationAwaitingAnswer
	}
	return v
}

// Results returns the final (or running) tally.
func (e *ValuationEngine) Results() ValuationResults {
	return ValuationResults{
		Mode:         e.mode,
		Score:        e.correct,
		Total:        RoundsPerGame,
		RoundHistory: append([]RoundOutcome{}, e.history...),
	}
}

func (e *ValuationEngine) ignoredAnswer(r Reason) AnswerResult {
	return AnswerResult{
		Outcome:      OutcomeIgnored,
		Reason:       r,
		Score:        e.correct,
		RoundsPlayed: e.round,
		IsGameOver:   e.state == ValuationGameOver,
	}
}

func (e *ValuationEngine) inRound(cardID int) bool {
	for _, c := range e.roundCards {
		if c.ID == cardID {
			return true
		}
	}
	return false
}

func (e *ValuationEngine) allPlaced() bool {
	for _, f := range e.filled {
		if !f {
			return false
		}
	}
	return true
}

func (e *ValuationEngine) placements() []*int {
	out := make([]*int, rankSlots)
	for i := range e.slots {
		if e.filled[i] {
			id := e.slots[i]
			out[i] = &id
		}
	}
	return out
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
