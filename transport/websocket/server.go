package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/rocketscienceinc/codenames-backend/internal/apperror"
	"github.com/rocketscienceinc/codenames-backend/internal/codenames"
	"github.com/rocketscienceinc/codenames-backend/internal/entity"
	"github.com/rocketscienceinc/codenames-backend/internal/usecase"
)

const (
	sessionCookie  = "user_session"
	maxDecodeFails = 5
	maxFrameBytes  = 4 << 10
)

type sessionManager interface {
	GetOrCreatePlayer(id string) *entity.Player

	View(playerID string) (codenames.View, error)
	Start(playerID string) (codenames.View, error)
	Reveal(playerID string, cardID int) (codenames.View, error)
	Stop(playerID string) (codenames.View, error)
	Close(playerID string) (codenames.View, error)

	Subscribe(playerID string) (<-chan usecase.Update, func(), error)
}

type handler func(ctx context.Context, conn *connection, msg *Message) error

type Server struct {
	logger   *slog.Logger
	sessions sessionManager

	handlers map[string]handler

	srv   *http.Server
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func New(logger *slog.Logger, sessions sessionManager) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		sessions: sessions,

		handlers: make(map[string]handler),
		conns:    make(map[*websocket.Conn]struct{}),
	}

	server.handlers["connect"] = server.handleConnect
	server.handlers["session:state"] = server.handleState
	server.handlers["session:start"] = server.handleStart
	server.handlers["card:reveal"] = server.handleReveal
	server.handlers["session:stop"] = server.handleStop
	server.handlers["session:close"] = server.handleClose

	return server
}

// Handler - the /ws endpoint, exposed for tests.
func (that *Server) Handler() http.Handler {
	wsHandler := websocket.Handler(that.serveConn)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		wsHandler.ServeHTTP(w, r)
	})

	return mux
}

// Start - starts WebSocket server. Returns nil after Shutdown.
func (that *Server) Start(port string) error {
	that.srv = &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	if err := that.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown - stops accepting connections and closes the open ones.
func (that *Server) Shutdown(ctx context.Context) error {
	that.mu.Lock()
	for conn := range that.conns {
		_ = conn.Close()
	}
	that.mu.Unlock()

	if that.srv == nil {
		return nil
	}

	if err := that.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

func (that *Server) serveConn(ws *websocket.Conn) {
	log := that.logger.With("method", "serveConn")

	that.track(ws, true)
	defer that.track(ws, false)

	defer func() {
		_ = ws.Close()
	}()

	ws.MaxPayloadBytes = maxFrameBytes
	req := ws.Request()

	conn := &connection{peer: newPeer(json.NewEncoder(ws))}
	if cookie, err := req.Cookie(sessionCookie); err == nil {
		conn.defaultPlayerID = cookie.Value
	}
	defer conn.detach()

	log.Info("WebSocket connection established")

	if err := that.handleMessages(req.Context(), ws, conn); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client until it disconnects.
// Every frame is decoded on its own, so a malformed one costs only itself.
func (that *Server) handleMessages(ctx context.Context, ws *websocket.Conn, conn *connection) error {
	log := that.logger.With("method", "handleMessages")

	decodeFails := 0

	for {
		var message Message
		if err := websocket.JSON.Receive(ws, &message); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			if !isDecodeError(err) {
				return fmt.Errorf("failed to read message: %w", err)
			}

			decodeFails++
			if decodeFails >= maxDecodeFails {
				return fmt.Errorf("too many invalid messages: %w", err)
			}

			log.Error("failed to unmarshal message", "error", err)
			if err = conn.peer.send("error", ResponsePayload{Error: "invalid message"}); err != nil {
				return err
			}

			continue
		}

		decodeFails = 0

		if err := that.processMessage(ctx, conn, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// isDecodeError - the frame was read whole but its content is not a message.
func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, websocket.ErrFrameTooLarge)
}

// processMessage - dispatches a message to its action handler.
func (that *Server) processMessage(ctx context.Context, conn *connection, msg *Message) error {
	if handle, ok := that.handlers[msg.Action]; ok {
		return handle(ctx, conn, msg)
	}

	if err := conn.sendError(msg.Action, "unknown action"); err != nil {
		return err
	}

	return fmt.Errorf("%w: %s", apperror.ErrUnknownAction, msg.Action)
}

func (that *Server) track(ws *websocket.Conn, open bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if open {
		that.conns[ws] = struct{}{}
		return
	}

	delete(that.conns, ws)
}
