package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/codenames-backend/internal/apperror"
	"github.com/rocketscienceinc/codenames-backend/internal/codenames"
	"github.com/rocketscienceinc/codenames-backend/internal/usecase"
)

var errNotConnected = errors.New("connect first")

// connection is the per socket state: which player it speaks for and its update feed.
type connection struct {
	peer            *peer
	defaultPlayerID string

	mu          sync.Mutex
	playerID    string
	unsubscribe func()
}

func (that *connection) player() (string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.playerID == "" {
		return "", errNotConnected
	}

	return that.playerID, nil
}

// attach - binds the connection to a player, replacing a previous subscription.
func (that *connection) attach(playerID string, cancel func()) {
	that.mu.Lock()
	previous := that.unsubscribe
	that.playerID = playerID
	that.unsubscribe = cancel
	that.mu.Unlock()

	if previous != nil {
		previous()
	}
}

func (that *connection) detach() {
	that.mu.Lock()
	cancel := that.unsubscribe
	that.unsubscribe = nil
	that.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (that *connection) sendError(action, message string) error {
	return that.peer.send(action, ResponsePayload{Error: message})
}

func (that *Server) handleConnect(_ context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	var payload PlayerPayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			_ = conn.sendError(msg.Action, "invalid payload")
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	playerID := conn.defaultPlayerID
	if payload.Player != nil && payload.Player.ID != "" {
		playerID = payload.Player.ID
	}

	player := that.sessions.GetOrCreatePlayer(playerID)

	updates, cancel, err := that.sessions.Subscribe(player.ID)
	if err != nil {
		_ = conn.sendError(msg.Action, "failed to subscribe")
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	conn.attach(player.ID, cancel)
	go that.forward(conn, updates)

	view, err := that.sessions.View(player.ID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	if err = conn.peer.send(msg.Action, ResponsePayload{Player: player, Session: &view}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("player connected", "playerID", player.ID)

	return nil
}

func (that *Server) handleState(_ context.Context, conn *connection, msg *Message) error {
	return that.reply(conn, msg.Action, that.sessions.View)
}

func (that *Server) handleStart(_ context.Context, conn *connection, msg *Message) error {
	return that.reply(conn, msg.Action, that.sessions.Start)
}

func (that *Server) handleStop(_ context.Context, conn *connection, msg *Message) error {
	return that.reply(conn, msg.Action, that.sessions.Stop)
}

func (that *Server) handleClose(_ context.Context, conn *connection, msg *Message) error {
	return that.reply(conn, msg.Action, that.sessions.Close)
}

func (that *Server) handleReveal(_ context.Context, conn *connection, msg *Message) error {
	var payload RevealPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Card == nil {
		_ = conn.sendError(msg.Action, "card is required")
		return fmt.Errorf("%w: %s", apperror.ErrInvalidCard, string(msg.Payload))
	}

	return that.reply(conn, msg.Action, func(playerID string) (codenames.View, error) {
		return that.sessions.Reveal(playerID, *payload.Card)
	})
}

// reply - runs a session operation for the connected player and sends back the view.
func (that *Server) reply(conn *connection, action string, operation func(playerID string) (codenames.View, error)) error {
	playerID, err := conn.player()
	if err != nil {
		_ = conn.sendError(action, err.Error())
		return fmt.Errorf("%s: %w", action, err)
	}

	view, err := operation(playerID)
	if err != nil {
		_ = conn.sendError(action, "failed to process action")
		return fmt.Errorf("%s: %w", action, err)
	}

	if err = conn.peer.send(action, ResponsePayload{Session: &view}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

// forward - pushes session updates to the client until the subscription is cancelled.
func (that *Server) forward(conn *connection, updates <-chan usecase.Update) {
	log := that.logger.With("method", "forward")

	for update := range updates {
		payload := ResponsePayload{Session: &update.View}
		if update.Kind == usecase.UpdateSubmitted {
			points := update.Points
			payload.Points = &points
		}

		if err := conn.peer.send(update.Kind, payload); err != nil {
			log.Error("failed to push update", "kind", update.Kind, "error", err)
		}
	}
}
