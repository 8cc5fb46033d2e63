package entity

import "slices"

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
	PhaseEnded   Phase = "ended"
)

type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
)

// Session is the state of one player's board. It is a value: transitions
// return a new Session and never share the Revealed backing array.
type Session struct {
	Phase            Phase   `json:"phase"`
	Outcome          Outcome `json:"outcome,omitempty"`
	RemainingSeconds int     `json:"remaining_seconds"`
	TargetsRemaining int     `json:"targets_remaining"`
	TriesRemaining   int     `json:"tries_remaining"`
	Revealed         []int   `json:"revealed"`
}

// NewSession - an idle board with the given tries budget.
func NewSession(tries int) Session {
	return Session{
		Phase:          PhaseIdle,
		TriesRemaining: tries,
		Revealed:       []int{},
	}
}

func (that Session) IsIdle() bool {
	return that.Phase == PhaseIdle
}

func (that Session) IsRunning() bool {
	return that.Phase == PhaseRunning
}

func (that Session) IsEnded() bool {
	return that.Phase == PhaseEnded
}

func (that Session) IsWon() bool {
	return that.IsEnded() && that.Outcome == OutcomeWon
}

func (that Session) CanStart() bool {
	return that.IsIdle() && that.TriesRemaining > 0
}

func (that Session) IsRevealed(cardID int) bool {
	return slices.Contains(that.Revealed, cardID)
}

// CountRevealed - number of revealed cards of the given category.
func (that Session) CountRevealed(deck *Deck, category Category) int {
	count := 0
	for _, id := range that.Revealed {
		if card, ok := deck.Card(id); ok && card.Category == category {
			count++
		}
	}

	return count
}

// Clone - deep copy, safe to hand out of a controller.
func (that Session) Clone() Session {
	clone := that
	clone.Revealed = slices.Clone(that.Revealed)
	if clone.Revealed == nil {
		clone.Revealed = []int{}
	}

	return clone
}
