package codenames

import "time"

// Ticker delivers the periodic one-second tick of a running session.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a ticker firing every d.
type TickerFactory func(d time.Duration) Ticker

type clockTicker struct {
	ticker *time.Ticker
}

// NewClockTicker - a wall clock ticker backed by time.Ticker.
func NewClockTicker(d time.Duration) Ticker {
	return &clockTicker{ticker: time.NewTicker(d)}
}

func (that *clockTicker) C() <-chan time.Time {
	return that.ticker.C
}

func (that *clockTicker) Stop() {
	that.ticker.Stop()
}
