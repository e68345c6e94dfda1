package scheduler

import "time"

// Ticker is the injectable pulse source (spec §4.D "the ticker source is an
// injectable abstraction ... deterministic stepping must be possible
// without real time").
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// WallClockTicker is the production Ticker, wrapping time.Ticker.
type WallClockTicker struct {
	t *time.Ticker
}

// NewWallClockTicker starts a ticker pulsing every interval (spec §4.D
// default 3s).
func NewWallClockTicker(interval time.Duration) *WallClockTicker {
	return &WallClockTicker{t: time.NewTicker(interval)}
}

func (w *WallClockTicker) C() <-chan time.Time { return w.t.C }
func (w *WallClockTicker) Stop()               { w.t.Stop() }

// ManualTicker lets tests step the scheduler deterministically, with no
// dependency on real time.
type ManualTicker struct {
	ch chan time.Time
}

// NewManualTicker returns a Ticker a test drives explicitly via Pulse.
func NewManualTicker() *ManualTicker {
	return &ManualTicker{ch: make(chan time.Time)}
}

func (m *ManualTicker) C() <-chan time.Time { return m.ch }
func (m *ManualTicker) Stop()               {}

// Pulse sends one synthetic tick and blocks until the scheduler's run loop
// has received it.
func (m *ManualTicker) Pulse(at time.Time) {
	m.ch <- at
}
