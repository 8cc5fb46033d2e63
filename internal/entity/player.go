package entity

import "time"

type Player struct {
	ID string `json:"id"`
}

// Round is one completed session as recorded in the score ledger.
type Round struct {
	Points      int       `json:"points"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type Score struct {
	PlayerID string  `json:"player_id"`
	Total    int     `json:"total"`
	Rounds   []Round `json:"rounds"`
}
