package codenames

import "github.com/rocketscienceinc/codenames-backend/internal/entity"

// Transition describes what a single event did to a session.
type Transition struct {
	// Applied is false when the event was ignored because its precondition did not hold.
	Applied bool
	// Ended is true when this event moved the session to the ended phase.
	Ended bool
	// Points is what the score sink receives when Ended is true.
	Points int
}

var ignored = Transition{}

// Start - begins a new session when the board is idle and a try is left.
func Start(state entity.Session, rules Rules) (entity.Session, Transition) {
	if !state.CanStart() {
		return state, ignored
	}

	next := entity.Session{
		Phase:            entity.PhaseRunning,
		Outcome:          entity.OutcomeNone,
		RemainingSeconds: rules.DurationSeconds,
		TargetsRemaining: rules.TargetsToWin,
		TriesRemaining:   state.TriesRemaining - 1,
		Revealed:         []int{},
	}

	return next, Transition{Applied: true}
}

// Tick - one second elapses. Running out of time ends the session as a loss.
func Tick(state entity.Session, deck *entity.Deck) (entity.Session, Transition) {
	if !state.IsRunning() {
		return state, ignored
	}

	next := state.Clone()
	next.RemainingSeconds = max(next.RemainingSeconds-1, 0)

	if next.RemainingSeconds == 0 {
		return End(next, deck, 0)
	}

	return next, Transition{Applied: true}
}

// Reveal - flips a card and applies its category.
func Reveal(state entity.Session, deck *entity.Deck, rules Rules, cardID int) (entity.Session, Transition) {
	if !state.IsRunning() || state.IsRevealed(cardID) {
		return state, ignored
	}

	card, ok := deck.Card(cardID)
	if !ok {
		return state, ignored
	}

	next := state.Clone()
	next.Revealed = append(next.Revealed, cardID)

	switch card.Category {
	case entity.CategoryElimination:
		if rules.ForfeitOnElimination {
			return forfeit(next)
		}

		return End(next, deck, 0)
	case entity.CategoryPenalty:
		next.RemainingSeconds = max(next.RemainingSeconds-rules.PenaltySeconds, 0)
		if next.RemainingSeconds == 0 {
			return End(next, deck, 0)
		}
	case entity.CategoryTarget:
		next.TargetsRemaining--
		if next.TargetsRemaining <= 0 {
			return End(next, deck, rules.WinBonus)
		}
	}

	return next, Transition{Applied: true}
}

// End - finishes a running session and computes its score. Ending twice is a no-op.
func End(state entity.Session, deck *entity.Deck, bonus int) (entity.Session, Transition) {
	if !state.IsRunning() {
		return state, ignored
	}

	next := state.Clone()
	next.Phase = entity.PhaseEnded
	next.Outcome = entity.OutcomeLost

	if bonus > 0 || next.TargetsRemaining <= 0 {
		next.Outcome = entity.OutcomeWon
	}

	points := next.CountRevealed(deck, entity.CategoryTarget) + bonus

	return next, Transition{Applied: true, Ended: true, Points: points}
}

// Stop - the player gives up; targets found so far still count.
func Stop(state entity.Session, deck *entity.Deck) (entity.Session, Transition) {
	return End(state, deck, 0)
}

// Close - dismisses the result overlay and returns the board to idle.
// Tries are never given back.
func Close(state entity.Session) (entity.Session, Transition) {
	if state.IsRunning() {
		return state, ignored
	}

	next := entity.Session{
		Phase:          entity.PhaseIdle,
		Outcome:        entity.OutcomeNone,
		TriesRemaining: state.TriesRemaining,
		Revealed:       []int{},
	}

	return next, Transition{Applied: state.IsEnded()}
}

func forfeit(state entity.Session) (entity.Session, Transition) {
	state.Phase = entity.PhaseEnded
	state.Outcome = entity.OutcomeLost

	return state, Transition{Applied: true, Ended: true, Points: 0}
}
