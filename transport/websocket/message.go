package websocket

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/codenames-backend/internal/codenames"
	"github.com/rocketscienceinc/codenames-backend/internal/entity"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type PlayerPayload struct {
	Player *entity.Player `json:"player,omitempty"`
}

type RevealPayload struct {
	Card *int `json:"card"`
}

type ResponsePayload struct {
	Player  *entity.Player  `json:"player,omitempty"`
	Session *codenames.View `json:"session,omitempty"`
	Points  *int            `json:"points,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// peer serializes writes to one connection; replies and pushed updates share it.
type peer struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

func newPeer(encoder *json.Encoder) *peer {
	return &peer{encoder: encoder}
}

func (that *peer) send(action string, payload ResponsePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if err = that.encoder.Encode(Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
