package codenames

import (
	"io"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/codenames-backend/internal/entity"
)

// ScoreSink is implemented by the host that accumulates points.
// Both methods are called exactly once per completed session, in order.
// The pairs of one controller never interleave: OnSubmit of a session
// returns before AddPoints of the next one is called.
type ScoreSink interface {
	AddPoints(points int)
	OnSubmit()
}

// Observer is called with a snapshot after every applied transition.
// It runs while the controller is locked and must not call back into it.
type Observer func(state entity.Session)

type Option func(*Controller)

func WithTickerFactory(factory TickerFactory) Option {
	return func(that *Controller) {
		that.newTicker = factory
	}
}

func WithObserver(observer Observer) Option {
	return func(that *Controller) {
		that.observer = observer
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(that *Controller) {
		that.logger = logger
	}
}

// Controller owns one player's session and serializes every event on it.
type Controller struct {
	logger *slog.Logger

	deck  *entity.Deck
	rules Rules
	sink  ScoreSink

	newTicker TickerFactory
	observer  Observer

	// sinkMu keeps AddPoints and OnSubmit of one session together.
	sinkMu sync.Mutex

	mu     sync.Mutex
	state  entity.Session
	epoch  uint64
	cancel func()
}

func NewController(deck *entity.Deck, rules Rules, sink ScoreSink, opts ...Option) *Controller {
	controller := &Controller{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		deck:      deck,
		rules:     rules,
		sink:      sink,
		newTicker: NewClockTicker,
		state:     entity.NewSession(rules.Tries),
	}

	for _, opt := range opts {
		opt(controller)
	}

	return controller
}

// State - snapshot of the current session.
func (that *Controller) State() entity.Session {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.state.Clone()
}

// Deck - the card registry the controller plays with.
func (that *Controller) Deck() *entity.Deck {
	return that.deck
}

func (that *Controller) Rules() Rules {
	return that.rules
}

// Start - begins a session and its ticker. No-op when running or out of tries.
func (that *Controller) Start() entity.Session {
	return that.apply("start", func(state entity.Session) (entity.Session, Transition) {
		next, transition := Start(state, that.rules)
		if transition.Applied {
			that.epoch++
			that.startTicker(that.epoch)
		}

		return next, transition
	})
}

// Tick - advances the clock of the current session by one second.
func (that *Controller) Tick() entity.Session {
	return that.apply("tick", func(state entity.Session) (entity.Session, Transition) {
		return Tick(state, that.deck)
	})
}

// Reveal - flips a card. No-op unless running and the card is still face down.
func (that *Controller) Reveal(cardID int) entity.Session {
	return that.apply("reveal", func(state entity.Session) (entity.Session, Transition) {
		return Reveal(state, that.deck, that.rules, cardID)
	})
}

// Stop - ends the running session early, targets found so far are scored.
func (that *Controller) Stop() entity.Session {
	return that.apply("stop", func(state entity.Session) (entity.Session, Transition) {
		return Stop(state, that.deck)
	})
}

// End - ends the running session with a bonus. Only the first call scores.
func (that *Controller) End(bonus int) entity.Session {
	return that.apply("end", func(state entity.Session) (entity.Session, Transition) {
		return End(state, that.deck, bonus)
	})
}

// Close - returns an ended board to idle.
func (that *Controller) Close() entity.Session {
	return that.apply("close", func(state entity.Session) (entity.Session, Transition) {
		return Close(state)
	})
}

// Shutdown - stops the ticker without scoring, used when the host goes away.
func (that *Controller) Shutdown() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.epoch++
	that.stopTicker()
}

// Ticking - reports whether a ticker is currently attached.
func (that *Controller) Ticking() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.cancel != nil
}

func (that *Controller) apply(event string, reduce func(entity.Session) (entity.Session, Transition)) entity.Session {
	that.mu.Lock()

	next, transition := reduce(that.state)
	if transition.Applied {
		that.state = next
	}

	if !that.state.IsRunning() {
		that.stopTicker()
	}

	snapshot := that.state.Clone()
	if transition.Applied && that.observer != nil {
		that.observer(snapshot.Clone())
	}

	that.mu.Unlock()

	if transition.Applied && event != "tick" {
		that.logger.Debug("session event applied", "event", event, "phase", snapshot.Phase, "remaining", snapshot.RemainingSeconds)
	}

	if transition.Ended {
		that.logger.Info("session ended", "outcome", snapshot.Outcome, "points", transition.Points)
		that.submit(transition.Points)
	}

	return snapshot
}

func (that *Controller) submit(points int) {
	if that.sink == nil {
		return
	}

	that.sinkMu.Lock()
	defer that.sinkMu.Unlock()

	that.sink.AddPoints(points)
	that.sink.OnSubmit()
}

// startTicker must be called with mu held.
func (that *Controller) startTicker(epoch uint64) {
	that.stopTicker()

	ticker := that.newTicker(that.rules.TickInterval)
	done := make(chan struct{})

	that.cancel = func() {
		ticker.Stop()
		close(done)
	}

	go that.tickLoop(epoch, ticker, done)
}

// stopTicker must be called with mu held.
func (that *Controller) stopTicker() {
	if that.cancel == nil {
		return
	}

	that.cancel()
	that.cancel = nil
}

func (that *Controller) tickLoop(epoch uint64, ticker Ticker, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-ticker.C():
			that.apply("tick", func(state entity.Session) (entity.Session, Transition) {
				// a tick queued before the ticker was cancelled belongs to an old session
				if epoch != that.epoch {
					return state, ignored
				}

				return Tick(state, that.deck)
			})
		}
	}
}
