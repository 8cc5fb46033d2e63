package codenames

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/codenames-backend/internal/entity"
)

// Card IDs of the default deck.
var (
	targetCards      = []int{0, 4, 6, 7, 9, 17, 19}
	penaltyCards     = []int{1, 2, 3, 5, 8, 10, 11, 12, 15, 18}
	eliminationCards = []int{13, 14, 16}
)

func runningSession(t *testing.T) entity.Session {
	t.Helper()

	state, transition := Start(entity.NewSession(1), DefaultRules())
	require.True(t, transition.Applied)

	return state
}

func TestStart(t *testing.T) {
	t.Run("Starts an idle session", func(t *testing.T) {
		// Given: an idle session with one try
		state := entity.NewSession(1)

		// When: starting it
		next, transition := Start(state, DefaultRules())

		// Then: the session is running with a full clock and one try spent
		require.True(t, transition.Applied)
		assert.False(t, transition.Ended)
		assert.Equal(t, entity.Session{
			Phase:            entity.PhaseRunning,
			RemainingSeconds: 60,
			TargetsRemaining: 5,
			TriesRemaining:   0,
			Revealed:         []int{},
		}, next)
	})

	t.Run("Ignored without tries", func(t *testing.T) {
		// Given: an idle session without tries
		state := entity.NewSession(0)

		// When: starting it
		next, transition := Start(state, DefaultRules())

		// Then: nothing changes
		assert.False(t, transition.Applied)
		assert.Equal(t, state, next)
	})

	t.Run("Ignored while running or ended", func(t *testing.T) {
		// Given: a running session with tries left
		rules := DefaultRules()
		rules.Tries = 3
		state, _ := Start(entity.NewSession(rules.Tries), rules)

		// When: starting again
		_, transition := Start(state, rules)

		// Then: the start is ignored
		assert.False(t, transition.Applied)

		// And: an ended session cannot be restarted before close
		ended, _ := Stop(state, entity.DefaultDeck())
		_, transition = Start(ended, rules)
		assert.False(t, transition.Applied)
	})
}

func TestTick(t *testing.T) {
	deck := entity.DefaultDeck()

	t.Run("Decrements the clock", func(t *testing.T) {
		// Given: a running session
		state := runningSession(t)

		// When: one second elapses
		next, transition := Tick(state, deck)

		// Then: 59 seconds remain and the session still runs
		require.True(t, transition.Applied)
		assert.Equal(t, 59, next.RemainingSeconds)
		assert.True(t, next.IsRunning())
	})

	t.Run("Running out of time is a loss with the targets found", func(t *testing.T) {
		// Given: a running session with one target found and one second left
		state := runningSession(t)
		state, _ = Reveal(state, deck, DefaultRules(), targetCards[0])
		state.RemainingSeconds = 1

		// When: the last second elapses
		next, transition := Tick(state, deck)

		// Then: the session ends lost and scores the target
		assert.True(t, transition.Ended)
		assert.Equal(t, 1, transition.Points)
		assert.Equal(t, entity.PhaseEnded, next.Phase)
		assert.Equal(t, entity.OutcomeLost, next.Outcome)
		assert.Equal(t, 0, next.RemainingSeconds)
	})

	t.Run("Ignored when not running", func(t *testing.T) {
		// Given: an idle session
		state := entity.NewSession(1)

		// When: ticking
		next, transition := Tick(state, deck)

		// Then: nothing changes
		assert.False(t, transition.Applied)
		assert.Equal(t, state, next)
	})
}

func TestReveal(t *testing.T) {
	deck := entity.DefaultDeck()
	rules := DefaultRules()

	t.Run("Five targets win with a bonus", func(t *testing.T) {
		// Given: a running session
		state := runningSession(t)

		// When: revealing five distinct targets
		var transition Transition
		for _, id := range targetCards[:5] {
			state, transition = Reveal(state, deck, rules, id)
		}

		// Then: the session is won, scored 5 + 1 and the clock is untouched
		assert.True(t, transition.Ended)
		assert.Equal(t, 6, transition.Points)
		assert.Equal(t, entity.OutcomeWon, state.Outcome)
		assert.Equal(t, 60, state.RemainingSeconds)
		assert.Equal(t, 0, state.TargetsRemaining)
	})

	t.Run("Death card ends the session immediately", func(t *testing.T) {
		// Given: a running session
		state := runningSession(t)

		// When: revealing a death card first
		next, transition := Reveal(state, deck, rules, eliminationCards[0])

		// Then: the session is lost with no points
		assert.True(t, transition.Ended)
		assert.Equal(t, 0, transition.Points)
		assert.Equal(t, entity.OutcomeLost, next.Outcome)
		assert.Equal(t, 60, next.RemainingSeconds)
	})

	t.Run("Death card keeps targets found by default", func(t *testing.T) {
		// Given: a running session with two targets found
		state := runningSession(t)
		state, _ = Reveal(state, deck, rules, targetCards[0])
		state, _ = Reveal(state, deck, rules, targetCards[1])

		// When: revealing a death card
		_, transition := Reveal(state, deck, rules, eliminationCards[1])

		// Then: the two targets are still scored
		assert.Equal(t, 2, transition.Points)
	})

	t.Run("Death card forfeits points when configured", func(t *testing.T) {
		// Given: forfeiting rules and two targets found
		forfeiting := rules
		forfeiting.ForfeitOnElimination = true
		state := runningSession(t)
		state, _ = Reveal(state, deck, forfeiting, targetCards[0])
		state, _ = Reveal(state, deck, forfeiting, targetCards[1])

		// When: revealing a death card
		next, transition := Reveal(state, deck, forfeiting, eliminationCards[2])

		// Then: nothing is scored and the session is lost
		assert.True(t, transition.Ended)
		assert.Equal(t, 0, transition.Points)
		assert.Equal(t, entity.OutcomeLost, next.Outcome)
	})

	t.Run("Penalties cost five seconds", func(t *testing.T) {
		// Given: a running session with 60 seconds
		state := runningSession(t)

		// When: revealing a penalty
		state, transition := Reveal(state, deck, rules, penaltyCards[0])

		// Then: 55 seconds remain
		require.True(t, transition.Applied)
		assert.Equal(t, 55, state.RemainingSeconds)

		// When: revealing another penalty
		state, transition = Reveal(state, deck, rules, penaltyCards[1])

		// Then: 50 seconds remain and the session still runs
		assert.False(t, transition.Ended)
		assert.Equal(t, 50, state.RemainingSeconds)
		assert.True(t, state.IsRunning())
	})

	t.Run("Penalty draining the clock ends the session", func(t *testing.T) {
		// Given: a running session with 3 seconds left
		state := runningSession(t)
		state.RemainingSeconds = 3

		// When: revealing a penalty
		next, transition := Reveal(state, deck, rules, penaltyCards[2])

		// Then: the clock is clamped at zero and the session is lost
		assert.True(t, transition.Ended)
		assert.Equal(t, 0, next.RemainingSeconds)
		assert.Equal(t, entity.OutcomeLost, next.Outcome)
	})

	t.Run("Revealing twice is ignored", func(t *testing.T) {
		// Given: a session with a penalty revealed
		state := runningSession(t)
		state, _ = Reveal(state, deck, rules, penaltyCards[0])

		// When: revealing the same card again
		next, transition := Reveal(state, deck, rules, penaltyCards[0])

		// Then: nothing changes
		assert.False(t, transition.Applied)
		assert.Equal(t, state, next)
		assert.Equal(t, 55, next.RemainingSeconds)
	})

	t.Run("Unknown cards are ignored", func(t *testing.T) {
		// Given: a running session
		state := runningSession(t)

		// When: revealing IDs outside the deck
		_, low := Reveal(state, deck, rules, -1)
		next, high := Reveal(state, deck, rules, 20)

		// Then: both are ignored
		assert.False(t, low.Applied)
		assert.False(t, high.Applied)
		assert.Empty(t, next.Revealed)
	})

	t.Run("Ignored when not running", func(t *testing.T) {
		// Given: an idle session
		state := entity.NewSession(1)

		// When: revealing a card
		_, transition := Reveal(state, deck, rules, targetCards[0])

		// Then: it is ignored
		assert.False(t, transition.Applied)
	})

	t.Run("Does not mutate the input session", func(t *testing.T) {
		// Given: a session with one card revealed and spare capacity
		state := runningSession(t)
		state.Revealed = make([]int, 1, 10)
		state.Revealed[0] = penaltyCards[0]

		// When: revealing another card
		_, _ = Reveal(state, deck, rules, penaltyCards[1])

		// Then: the input still holds one card
		assert.Equal(t, []int{penaltyCards[0]}, state.Revealed)
	})
}

func TestEnd(t *testing.T) {
	deck := entity.DefaultDeck()
	rules := DefaultRules()

	t.Run("Ending twice scores once", func(t *testing.T) {
		// Given: a running session
		state := runningSession(t)

		// When: ending twice
		ended, first := End(state, deck, 0)
		again, second := End(ended, deck, 0)

		// Then: only the first end applies
		assert.True(t, first.Ended)
		assert.False(t, second.Applied)
		assert.False(t, second.Ended)
		assert.Equal(t, ended, again)
	})

	t.Run("Stop keeps partial credit but is a loss", func(t *testing.T) {
		// Given: three targets found
		state := runningSession(t)
		for _, id := range targetCards[:3] {
			state, _ = Reveal(state, deck, rules, id)
		}

		// When: stopping
		next, transition := Stop(state, deck)

		// Then: three points are awarded and the outcome is lost
		assert.Equal(t, 3, transition.Points)
		assert.Equal(t, entity.OutcomeLost, next.Outcome)
	})

	t.Run("End with a bonus is a win", func(t *testing.T) {
		// Given: a running session
		state := runningSession(t)

		// When: ending with a bonus
		next, transition := End(state, deck, 1)

		// Then: it is scored as a win
		assert.Equal(t, 1, transition.Points)
		assert.Equal(t, entity.OutcomeWon, next.Outcome)
	})

	t.Run("Ignored when idle", func(t *testing.T) {
		// When: ending an idle session
		_, transition := End(entity.NewSession(1), deck, 0)

		// Then: nothing is scored
		assert.False(t, transition.Applied)
	})
}

func TestClose(t *testing.T) {
	deck := entity.DefaultDeck()

	t.Run("Returns an ended session to idle without refunding tries", func(t *testing.T) {
		// Given: an ended session with cards revealed
		state := runningSession(t)
		state, _ = Reveal(state, deck, DefaultRules(), eliminationCards[0])
		require.True(t, state.IsEnded())

		// When: closing
		next, transition := Close(state)

		// Then: the board is idle, clear, and still out of tries
		assert.True(t, transition.Applied)
		assert.Equal(t, entity.NewSession(0), next)
		assert.False(t, next.CanStart())
	})

	t.Run("Ignored while running", func(t *testing.T) {
		// Given: a running session
		state := runningSession(t)

		// When: closing
		next, transition := Close(state)

		// Then: the session keeps running
		assert.False(t, transition.Applied)
		assert.True(t, next.IsRunning())
	})
}

func TestSessionInvariants(t *testing.T) {
	deck := entity.DefaultDeck()
	rules := DefaultRules()
	rules.DurationSeconds = 12

	// Given: a session driven through every card twice with ticks in between
	state := runningSession(t)
	state.RemainingSeconds = rules.DurationSeconds

	for round := 0; round < 2; round++ {
		for _, card := range deck.Cards() {
			if card.Category == entity.CategoryElimination {
				continue
			}

			state, _ = Reveal(state, deck, rules, card.ID)
			state, _ = Tick(state, deck)

			// Then: the clock never goes negative and no card is revealed twice
			assert.GreaterOrEqual(t, state.RemainingSeconds, 0)
			assert.LessOrEqual(t, len(state.Revealed), deck.Len())

			seen := map[int]bool{}
			for _, id := range state.Revealed {
				assert.False(t, seen[id], "card %d revealed twice", id)
				seen[id] = true
			}
		}
	}

	assert.True(t, state.IsEnded())
}

func TestRules_Validate(t *testing.T) {
	t.Run("Default rules are valid", func(t *testing.T) {
		require.NoError(t, DefaultRules().Validate())
	})

	t.Run("Rejects a zero duration", func(t *testing.T) {
		// Given: rules with no time
		rules := DefaultRules()
		rules.DurationSeconds = 0

		// Then: ErrInvalidRules is returned
		assert.ErrorIs(t, rules.Validate(), ErrInvalidRules)
	})

	t.Run("Rejects a zero tick interval", func(t *testing.T) {
		rules := DefaultRules()
		rules.TickInterval = 0

		assert.ErrorIs(t, rules.Validate(), ErrInvalidRules)
	})
}
