package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/codenames-backend/internal/apperror"
	"github.com/rocketscienceinc/codenames-backend/internal/codenames"
	"github.com/rocketscienceinc/codenames-backend/internal/entity"
)

const (
	UpdateSession   = "session:update"
	UpdateSubmitted = "session:submitted"

	sinkTimeout      = 5 * time.Second
	subscriberBuffer = 16
)

type scoreRepo interface {
	AddRound(ctx context.Context, playerID string, round entity.Round) (int, error)
	GetByPlayerID(ctx context.Context, playerID string) (*entity.Score, error)
}

// Update is pushed to everyone watching a player's board.
type Update struct {
	Kind   string         `json:"kind"`
	View   codenames.View `json:"session"`
	Points int            `json:"points,omitempty"`
}

// SessionManager hosts one controller per player for the process lifetime
// and acts as their score sink.
type SessionManager struct {
	ctx    context.Context
	logger *slog.Logger

	deck           *entity.Deck
	rules          codenames.Rules
	scoreRepo      scoreRepo
	controllerOpts []codenames.Option
	now            func() time.Time

	mu      sync.RWMutex
	players map[string]*playerSession
}

func NewSessionManager(
	ctx context.Context,
	logger *slog.Logger,
	deck *entity.Deck,
	rules codenames.Rules,
	scoreRepo scoreRepo,
	controllerOpts ...codenames.Option,
) *SessionManager {
	return &SessionManager{
		ctx:    ctx,
		logger: logger.With("component", "session_manager"),

		deck:           deck,
		rules:          rules,
		scoreRepo:      scoreRepo,
		controllerOpts: controllerOpts,
		now:            time.Now,

		players: make(map[string]*playerSession),
	}
}

// Board - the deck face down with the category legend.
func (that *SessionManager) Board() codenames.Board {
	return codenames.NewBoard(that.deck, that.rules)
}

// CreatePlayer - registers a new anonymous player.
func (that *SessionManager) CreatePlayer() *entity.Player {
	return that.register(uuid.NewString())
}

// GetOrCreatePlayer - returns a known player, registering the ID when it is new.
func (that *SessionManager) GetOrCreatePlayer(id string) *entity.Player {
	if id == "" {
		return that.CreatePlayer()
	}

	that.mu.RLock()
	existing, ok := that.players[id]
	that.mu.RUnlock()

	if ok {
		return existing.player
	}

	return that.register(id)
}

func (that *SessionManager) View(playerID string) (codenames.View, error) {
	session, err := that.getSession(playerID)
	if err != nil {
		return codenames.View{}, err
	}

	return that.project(session.controller.State()), nil
}

func (that *SessionManager) Start(playerID string) (codenames.View, error) {
	return that.dispatch(playerID, (*codenames.Controller).Start)
}

func (that *SessionManager) Reveal(playerID string, cardID int) (codenames.View, error) {
	return that.dispatch(playerID, func(controller *codenames.Controller) entity.Session {
		return controller.Reveal(cardID)
	})
}

func (that *SessionManager) Stop(playerID string) (codenames.View, error) {
	return that.dispatch(playerID, (*codenames.Controller).Stop)
}

func (that *SessionManager) Close(playerID string) (codenames.View, error) {
	return that.dispatch(playerID, (*codenames.Controller).Close)
}

// Score - the player's ledger. Unknown players simply have an empty ledger.
func (that *SessionManager) Score(ctx context.Context, playerID string) (*entity.Score, error) {
	score, err := that.scoreRepo.GetByPlayerID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get score: %w", err)
	}

	return score, nil
}

// Subscribe - streams updates of a player's board until cancel is called.
func (that *SessionManager) Subscribe(playerID string) (<-chan Update, func(), error) {
	session, err := that.getSession(playerID)
	if err != nil {
		return nil, nil, err
	}

	updates, cancel := session.subscribe()

	return updates, cancel, nil
}

// Shutdown - stops every running ticker.
func (that *SessionManager) Shutdown() {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, session := range that.players {
		session.controller.Shutdown()
	}
}

func (that *SessionManager) dispatch(playerID string, event func(*codenames.Controller) entity.Session) (codenames.View, error) {
	session, err := that.getSession(playerID)
	if err != nil {
		return codenames.View{}, err
	}

	return that.project(event(session.controller)), nil
}

func (that *SessionManager) getSession(playerID string) (*playerSession, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	session, ok := that.players[playerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrPlayerNotFound, playerID)
	}

	return session, nil
}

func (that *SessionManager) register(id string) *entity.Player {
	that.mu.Lock()
	defer that.mu.Unlock()

	if existing, ok := that.players[id]; ok {
		return existing.player
	}

	session := &playerSession{
		player:      &entity.Player{ID: id},
		subscribers: make(map[int]chan Update),
		logger:      that.logger.With("playerID", id),
	}

	sink := &playerSink{manager: that, session: session}
	opts := append([]codenames.Option{
		codenames.WithLogger(session.logger),
		codenames.WithObserver(func(state entity.Session) {
			session.publish(Update{Kind: UpdateSession, View: that.project(state)})
		}),
	}, that.controllerOpts...)

	session.controller = codenames.NewController(that.deck, that.rules, sink, opts...)
	that.players[id] = session

	that.logger.Info("player registered", "playerID", id)

	return session.player
}

func (that *SessionManager) project(state entity.Session) codenames.View {
	return codenames.Project(state, that.deck, that.rules)
}

type playerSession struct {
	logger     *slog.Logger
	player     *entity.Player
	controller *codenames.Controller

	subsMu      sync.Mutex
	subscribers map[int]chan Update
	nextID      int
}

func (that *playerSession) subscribe() (<-chan Update, func()) {
	that.subsMu.Lock()
	defer that.subsMu.Unlock()

	id := that.nextID
	that.nextID++

	updates := make(chan Update, subscriberBuffer)
	that.subscribers[id] = updates

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			that.subsMu.Lock()
			defer that.subsMu.Unlock()

			delete(that.subscribers, id)
			close(updates)
		})
	}

	return updates, cancel
}

// publish never blocks: a subscriber that does not keep up loses updates.
func (that *playerSession) publish(update Update) {
	that.subsMu.Lock()
	defer that.subsMu.Unlock()

	for id, updates := range that.subscribers {
		select {
		case updates <- update:
		default:
			that.logger.Warn("subscriber is too slow, update dropped", "subscriber", id, "kind", update.Kind)
		}
	}
}

// playerSink writes completed rounds to the score ledger. AddPoints records
// the whole round; OnSubmit only announces it to subscribers.
type playerSink struct {
	manager *SessionManager
	session *playerSession

	mu sync.Mutex
	// recorded rounds waiting for their OnSubmit, oldest first
	unannounced []entity.Round
}

func (that *playerSink) AddPoints(points int) {
	log := that.session.logger.With("method", "AddPoints")

	round := entity.Round{Points: points, SubmittedAt: that.manager.now().UTC()}

	that.mu.Lock()
	that.unannounced = append(that.unannounced, round)
	that.mu.Unlock()

	ctx, cancel := context.WithTimeout(that.manager.ctx, sinkTimeout)
	defer cancel()

	total, err := that.manager.scoreRepo.AddRound(ctx, that.session.player.ID, round)
	if err != nil {
		log.Error("failed to record round", "points", points, "error", err)
		return
	}

	log.Info("round recorded", "points", points, "total", total)
}

func (that *playerSink) OnSubmit() {
	that.mu.Lock()
	if len(that.unannounced) == 0 {
		that.mu.Unlock()
		return
	}

	round := that.unannounced[0]
	that.unannounced = that.unannounced[1:]
	that.mu.Unlock()

	that.session.publish(Update{
		Kind:   UpdateSubmitted,
		View:   that.manager.project(that.session.controller.State()),
		Points: round.Points,
	})
}
