package codenames

import (
	"fmt"

	"github.com/rocketscienceinc/codenames-backend/internal/entity"
)

const (
	FaceFront = "front"
	FaceBack  = "back"
)

// View is what a client needs to draw the board. It is derived from a
// session and never fed back into the controller.
type View struct {
	Phase            entity.Phase   `json:"phase"`
	Outcome          entity.Outcome `json:"outcome,omitempty"`
	RemainingSeconds int            `json:"remaining_seconds"`
	Found            int            `json:"found"`
	TargetsToWin     int            `json:"targets_to_win"`
	TriesRemaining   int            `json:"tries_remaining"`
	CanStart         bool           `json:"can_start"`
	CanStop          bool           `json:"can_stop"`
	TimerLabel       string         `json:"timer_label,omitempty"`
	FoundLabel       string         `json:"found_label,omitempty"`
	Cards            []CardView     `json:"cards"`
	Overlay          *Overlay       `json:"overlay,omitempty"`
}

type CardView struct {
	ID       int             `json:"id"`
	Word     string          `json:"word"`
	Face     string          `json:"face"`
	Category entity.Category `json:"category,omitempty"`
	Disabled bool            `json:"disabled"`
}

// Board is the deck as a player sees it before any reveal, with the legend
// explaining what each kind of card does.
type Board struct {
	Cards  []CardView    `json:"cards"`
	Legend []LegendEntry `json:"legend"`
}

type LegendEntry struct {
	Category    entity.Category `json:"category"`
	Description string          `json:"description"`
}

// Overlay is the end of session banner.
type Overlay struct {
	Success bool   `json:"success"`
	Title   string `json:"title"`
	Message string `json:"message,omitempty"`
}

// Project - builds the view of a session. Categories of face down cards stay hidden.
func Project(state entity.Session, deck *entity.Deck, rules Rules) View {
	found := rules.TargetsToWin - state.TargetsRemaining
	if !state.IsRunning() && !state.IsEnded() {
		found = 0
	}

	view := View{
		Phase:            state.Phase,
		Outcome:          state.Outcome,
		RemainingSeconds: state.RemainingSeconds,
		Found:            found,
		TargetsToWin:     rules.TargetsToWin,
		TriesRemaining:   state.TriesRemaining,
		CanStart:         state.CanStart(),
		CanStop:          state.IsRunning(),
	}

	if state.IsRunning() {
		view.TimerLabel = fmt.Sprintf("Time: %ds", state.RemainingSeconds)
		view.FoundLabel = fmt.Sprintf("Found: %d / %d", found, rules.TargetsToWin)
	}

	for _, card := range deck.Cards() {
		cardView := CardView{ID: card.ID, Word: card.Word, Face: FaceFront}

		if state.IsRevealed(card.ID) {
			cardView.Face = FaceBack
			cardView.Category = card.Category
			cardView.Disabled = true
		}

		view.Cards = append(view.Cards, cardView)
	}

	if state.IsEnded() {
		view.Overlay = overlay(state)
	}

	return view
}

func overlay(state entity.Session) *Overlay {
	if state.IsWon() {
		return &Overlay{
			Success: true,
			Title:   fmt.Sprintf("Congrats, You solved it with time rest = %ds", state.RemainingSeconds),
		}
	}

	return &Overlay{
		Title:   "Game Over!",
		Message: "Better luck next time!",
	}
}

// NewBoard - all cards face down, categories withheld, plus the category legend.
func NewBoard(deck *entity.Deck, rules Rules) Board {
	board := Board{
		Cards:  make([]CardView, 0, deck.Len()),
		Legend: make([]LegendEntry, 0, len(entity.Categories())),
	}

	for _, card := range deck.Cards() {
		board.Cards = append(board.Cards, CardView{ID: card.ID, Word: card.Word, Face: FaceFront})
	}

	for _, category := range entity.Categories() {
		board.Legend = append(board.Legend, LegendEntry{
			Category:    category,
			Description: category.Description(rules.PenaltySeconds),
		})
	}

	return board
}
