package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionPhaseMethods(t *testing.T) {
	t.Run("New session is idle and can start", func(t *testing.T) {
		// Given: a fresh session with one try
		session := NewSession(1)

		// Then: it is idle, startable and has nothing revealed
		assert.True(t, session.IsIdle())
		assert.False(t, session.IsRunning())
		assert.False(t, session.IsEnded())
		assert.True(t, session.CanStart())
		assert.Empty(t, session.Revealed)
	})

	t.Run("Cannot start without tries", func(t *testing.T) {
		// Given: an idle session with no tries left
		session := NewSession(0)

		// Then: it cannot start
		assert.False(t, session.CanStart())
	})

	t.Run("IsWon requires the ended phase", func(t *testing.T) {
		// Given: a running session carrying a won outcome
		session := Session{Phase: PhaseRunning, Outcome: OutcomeWon}

		// Then: it is not won yet
		assert.False(t, session.IsWon())

		session.Phase = PhaseEnded
		assert.True(t, session.IsWon())
	})
}

func TestSession_CountRevealed(t *testing.T) {
	// Given: a session with two targets and one penalty revealed
	deck := DefaultDeck()
	session := Session{Phase: PhaseRunning, Revealed: []int{0, 1, 4}}

	// Then: the counts match the categories
	assert.Equal(t, 2, session.CountRevealed(deck, CategoryTarget))
	assert.Equal(t, 1, session.CountRevealed(deck, CategoryPenalty))
	assert.Equal(t, 0, session.CountRevealed(deck, CategoryElimination))
}

func TestSession_Clone(t *testing.T) {
	// Given: a session with revealed cards
	session := Session{Revealed: []int{3}}

	// When: cloning and appending to the clone
	clone := session.Clone()
	clone.Revealed = append(clone.Revealed, 4)
	clone.Revealed[0] = 9

	// Then: the cloned-from session is untouched
	assert.Equal(t, []int{3}, session.Revealed)

	// And: nil revealed becomes an empty slice
	assert.Equal(t, []int{}, Session{}.Clone().Revealed)
}
