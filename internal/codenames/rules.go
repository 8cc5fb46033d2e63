package codenames

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidRules = errors.New("invalid game rules")

// Rules are the tunable constants of a session.
type Rules struct {
	DurationSeconds int
	TargetsToWin    int
	PenaltySeconds  int
	WinBonus        int
	Tries           int
	TickInterval    time.Duration

	// ForfeitOnElimination awards nothing when a death card ends the session.
	ForfeitOnElimination bool
}

func DefaultRules() Rules {
	return Rules{
		DurationSeconds: 60,
		TargetsToWin:    5,
		PenaltySeconds:  5,
		WinBonus:        1,
		Tries:           1,
		TickInterval:    time.Second,
	}
}

// Validate - rejects rules that would make a session unplayable.
func (that Rules) Validate() error {
	switch {
	case that.DurationSeconds <= 0:
		return fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidRules, that.DurationSeconds)
	case that.TargetsToWin <= 0:
		return fmt.Errorf("%w: targets to win must be positive, got %d", ErrInvalidRules, that.TargetsToWin)
	case that.PenaltySeconds < 0:
		return fmt.Errorf("%w: penalty must not be negative, got %d", ErrInvalidRules, that.PenaltySeconds)
	case that.WinBonus < 0:
		return fmt.Errorf("%w: win bonus must not be negative, got %d", ErrInvalidRules, that.WinBonus)
	case that.Tries < 0:
		return fmt.Errorf("%w: tries must not be negative, got %d", ErrInvalidRules, that.Tries)
	case that.TickInterval <= 0:
		return fmt.Errorf("%w: tick interval must be positive, got %s", ErrInvalidRules, that.TickInterval)
	}

	return nil
}
