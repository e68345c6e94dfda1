// Package scheduler implements HushNode's Block Production Scheduler
// (spec §4.D): a three-state machine (Idle, Producing, PausedForEmpty)
// driven by an injectable Ticker, draining the mempool into an Assembler on
// every pulse. Grounded on the teacher's consensus start/stop goroutine
// idiom (Synnergy core/consensus_start.go: a goroutine parked on
// ctx.Done()) generalised into a full pulse-driven run loop.
package scheduler

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/eventbus"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/mempool"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/txn"
)

var log = logrus.WithField("component", "scheduler")

// State is the scheduler's three-state machine plus suspension overlay
// (spec §4.D).
type State int

const (
	Idle State = iota
	Producing
	PausedForEmpty
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Producing:
		return "Producing"
	case PausedForEmpty:
		return "PausedForEmpty"
	default:
		return "Unknown"
	}
}

// Assembler is the seam the scheduler hands a mempool snapshot to. The
// chain package's Assembler satisfies this; the scheduler never imports it
// directly, so scheduler tests stay free of storage/identity wiring.
type Assembler interface {
	Assemble(ctx context.Context, pending []*txn.Transaction) (*txn.Block, error)
}

// Scheduler drives block production on Ticker pulses (spec §4.D).
type Scheduler struct {
	mu                     sync.Mutex
	state                  State
	consecutiveEmptyBlocks int

	maxBlockSize         int
	maxEmptyBeforePause  int

	mempool   *mempool.Mempool
	assembler Assembler
	ticker    Ticker

	wake chan struct{}
	stop chan struct{}
	wg   sync.WaitGroup
}

// New builds a Scheduler in the Idle state, subscribed to the bus for the
// TransactionReceived wake signal (spec §4.D "PausedForEmpty... skip until
// a TransactionReceived event wakes it").
func New(bus *eventbus.Bus, mp *mempool.Mempool, assembler Assembler, ticker Ticker, maxBlockSize, maxEmptyBeforePause int) *Scheduler {
	s := &Scheduler{
		maxBlockSize:        maxBlockSize,
		maxEmptyBeforePause: maxEmptyBeforePause,
		mempool:             mp,
		assembler:           assembler,
		ticker:              ticker,
		wake:                make(chan struct{}, 1),
		stop:                make(chan struct{}),
	}
	if bus != nil {
		bus.Subscribe(mempool.TransactionReceived{}.Kind(), s.onTransactionReceived)
	}
	return s
}

// State reports the scheduler's current state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) onTransactionReceived(ctx context.Context, ev eventbus.Event) error {
	s.mu.Lock()
	wasPaused := s.state == PausedForEmpty
	if wasPaused {
		s.state = Idle
		s.consecutiveEmptyBlocks = 0
	}
	s.mu.Unlock()

	if wasPaused {
		select {
		case s.wake <- struct{}{}:
		default:
		}
		log.Debug("resumed from PausedForEmpty on TransactionReceived")
	}
	return nil
}

// Run starts the pulse loop in its own goroutine; it returns immediately.
// Stop (or ctx cancellation) ends the loop.
func (s *Scheduler) Run(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-s.ticker.C():
				s.onPulse(ctx)
			case <-s.wake:
				// state already advanced in onTransactionReceived; the
				// next tick (real or manual) drives production.
			}
		}
	}()
}

// Stop ends the pulse loop and waits for it to exit.
func (s *Scheduler) Stop() {
	close(s.stop)
	s.ticker.Stop()
	s.wg.Wait()
}

func (s *Scheduler) onPulse(ctx context.Context) {
	s.mu.Lock()
	switch s.state {
	case Producing:
		s.mu.Unlock()
		log.Debug("pulse skipped: already producing")
		return
	case PausedForEmpty:
		s.mu.Unlock()
		log.Debug("pulse skipped: paused for empty blocks")
		return
	}
	s.state = Producing
	s.mu.Unlock()

	pending := s.mempool.Drain(s.maxBlockSize)
	_, err := s.assembler.Assemble(ctx, pending)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		log.WithError(err).Error("block assembly failed")
		s.state = Idle
		return
	}

	if len(pending) == 0 {
		s.consecutiveEmptyBlocks++
	} else {
		s.consecutiveEmptyBlocks = 0
	}

	if s.maxEmptyBeforePause > 0 && s.consecutiveEmptyBlocks >= s.maxEmptyBeforePause {
		s.state = PausedForEmpty
		log.WithField("consecutive_empty_blocks", s.consecutiveEmptyBlocks).Warn("entering PausedForEmpty")
		return
	}
	s.state = Idle
}
