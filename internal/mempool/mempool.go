package mempool

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/eventbus"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/txn"
	"github.com/Hushnetwork-social/hush-server-node-sub007/pkg/utils"
)

var log = logrus.WithField("component", "mempool")

// Mempool holds Validated transactions between acceptance and block commit
// (spec §4.C). Safe for concurrent use; ordering of Drain respects
// submission-completion order as observed by the mempool.
type Mempool struct {
	mu       sync.Mutex
	registry *registry
	lookup   map[ids.ID]*txn.Transaction
	queue    []*txn.Transaction
	bus      *eventbus.Bus
}

// New builds an empty Mempool publishing TransactionReceived onto bus.
func New(bus *eventbus.Bus) *Mempool {
	return &Mempool{
		registry: newRegistry(),
		lookup:   make(map[ids.ID]*txn.Transaction),
		bus:      bus,
	}
}

// RegisterHandler adds a ContentHandler to the mempool's data-driven
// dispatch table (spec §4.B "Registration is data-driven").
func (m *Mempool) RegisterHandler(h ContentHandler) {
	m.registry.register(h)
}

// Submit validates and co-signs tx via the handler registered for its
// payload kind, then queues it. Submitting the same tx_id twice is
// idempotent: the second call is a no-op returning nil.
func (m *Mempool) Submit(ctx context.Context, tx *txn.Transaction) error {
	m.mu.Lock()
	if _, exists := m.lookup[tx.ID]; exists {
		m.mu.Unlock()
		log.WithField("tx_id", tx.ID.String()).Debug("duplicate submission ignored")
		return nil
	}
	m.mu.Unlock()

	handler := m.registry.find(tx.PayloadKind)
	if handler == nil {
		return utils.Newf(utils.ErrUnknownPayloadKind, "no content handler for payload kind %s", tx.PayloadKind)
	}
	if err := handler.ValidateAndCosign(ctx, tx); err != nil {
		return err
	}

	m.mu.Lock()
	if _, exists := m.lookup[tx.ID]; exists {
		m.mu.Unlock()
		return nil
	}
	m.lookup[tx.ID] = tx
	m.queue = append(m.queue, tx)
	m.mu.Unlock()

	log.WithField("tx_id", tx.ID.String()).Info("transaction accepted")
	if m.bus != nil {
		m.bus.Publish(TransactionReceived{Transaction: tx})
	}
	return nil
}

// Drain returns at most maxBlockSize pending transactions in FIFO order of
// acceptance (spec §4.C "drain_pending"). It does not remove them; callers
// must call Remove once the resulting block commits.
func (m *Mempool) Drain(maxBlockSize int) []*txn.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.queue)
	if maxBlockSize > 0 && maxBlockSize < n {
		n = maxBlockSize
	}
	out := make([]*txn.Transaction, n)
	copy(out, m.queue[:n])
	return out
}

// Remove drops committedIDs from the pending queue, invoked after a block
// commits (spec §4.C "remove").
func (m *Mempool) Remove(committedIDs []ids.ID) {
	if len(committedIDs) == 0 {
		return
	}
	committed := make(map[ids.ID]struct{}, len(committedIDs))
	for _, id := range committedIDs {
		committed[id] = struct{}{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	remaining := m.queue[:0:0]
	for _, tx := range m.queue {
		if _, done := committed[tx.ID]; done {
			delete(m.lookup, tx.ID)
			continue
		}
		remaining = append(remaining, tx)
	}
	m.queue = remaining
}

// Len reports the number of currently pending transactions.
func (m *Mempool) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}
