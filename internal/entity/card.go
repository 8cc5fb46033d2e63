package entity

import (
	"errors"
	"fmt"
)

// Category is the hidden outcome printed on the back of a card.
type Category string

const (
	CategoryTarget      Category = "target"
	CategoryPenalty     Category = "penalty"
	CategoryElimination Category = "elimination"
)

var (
	ErrNotEnoughTargets = errors.New("deck has not enough target cards")
	ErrDuplicateCardID  = errors.New("deck has duplicate card id")
)

var categoryDescriptions = map[Category]string{
	CategoryTarget:      "It's one of the cards that you need to find.",
	CategoryPenalty:     "It's a wrong card, you lose %d seconds of the time, so be careful!",
	CategoryElimination: "The Death Card. If you choose it, you will directly lose this game and so is the hint and points of this game.",
}

// Description - returns the player-facing explanation of the category.
// The penalty text quotes the configured time loss.
func (that Category) Description(penaltySeconds int) string {
	description := categoryDescriptions[that]
	if that == CategoryPenalty {
		return fmt.Sprintf(description, penaltySeconds)
	}

	return description
}

// Categories - lists the categories in the order they are presented to players.
func Categories() []Category {
	return []Category{CategoryTarget, CategoryPenalty, CategoryElimination}
}

type Card struct {
	ID       int      `json:"id"`
	Word     string   `json:"word"`
	Category Category `json:"category"`
}

// Deck is an immutable card registry indexed by card ID.
type Deck struct {
	cards []Card
}

// NewDeck - builds a deck from cards, card IDs must be unique.
func NewDeck(cards []Card) (*Deck, error) {
	seen := make(map[int]struct{}, len(cards))
	for _, card := range cards {
		if _, ok := seen[card.ID]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateCardID, card.ID)
		}
		seen[card.ID] = struct{}{}
	}

	copied := make([]Card, len(cards))
	copy(copied, cards)

	return &Deck{cards: copied}, nil
}

// DefaultDeck - the 20 card board: 7 targets, 10 penalties and 3 death cards.
func DefaultDeck() *Deck {
	words := []struct {
		word     string
		category Category
	}{
		{"TRAINING", CategoryTarget},
		{"GAMES", CategoryPenalty},
		{"WEB", CategoryPenalty},
		{"ALGO", CategoryPenalty},
		{"2IA", CategoryTarget},
		{"ROBOTICS", CategoryPenalty},
		{"CP", CategoryTarget},
		{"D2S", CategoryTarget},
		{"DATA", CategoryPenalty},
		{"GAMEDEV", CategoryTarget},
		{"SQL", CategoryPenalty},
		{"ENSIAS", CategoryPenalty},
		{"SSI", CategoryPenalty},
		{"HTML", CategoryElimination},
		{"IA", CategoryElimination},
		{"CODING", CategoryPenalty},
		{"IDSIT", CategoryElimination},
		{"JAVA", CategoryTarget},
		{"LINUX", CategoryPenalty},
		{"PYTHON", CategoryTarget},
	}

	cards := make([]Card, 0, len(words))
	for i, w := range words {
		cards = append(cards, Card{ID: i, Word: w.word, Category: w.category})
	}

	return &Deck{cards: cards}
}

// Cards - returns a copy of the deck in board order.
func (that *Deck) Cards() []Card {
	cards := make([]Card, len(that.cards))
	copy(cards, that.cards)

	return cards
}

func (that *Deck) Len() int {
	return len(that.cards)
}

// Card - looks a card up by its ID.
func (that *Deck) Card(id int) (Card, bool) {
	for _, card := range that.cards {
		if card.ID == id {
			return card, true
		}
	}

	return Card{}, false
}

// Count - number of cards in the given category.
func (that *Deck) Count(category Category) int {
	count := 0
	for _, card := range that.cards {
		if card.Category == category {
			count++
		}
	}

	return count
}

// Validate - checks that a session can be won with this deck.
func (that *Deck) Validate(targetsToWin int) error {
	if found := that.Count(CategoryTarget); found < targetsToWin {
		return fmt.Errorf("%w: need %d, have %d", ErrNotEnoughTargets, targetsToWin, found)
	}

	return nil
}
