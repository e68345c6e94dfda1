// Package cache implements HushNode's process-wide mutable caches (spec §9
// "global mutable caches"): the blockchain-state cache, the feed-participant
// cache, and the feed-key (group key generation) cache. All three are
// initialised lazily from storage, invalidated wholesale on every
// BlockIndexingCompleted event, and fall back silently to storage on a
// cache miss or cache-layer failure (spec §7 "Cache-layer failures downgrade
// to storage-only mode silently"). Grounded on hashicorp/golang-lru/v2, the
// library the teacher's go.mod already declares for this exact concern.
package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/eventbus"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/identity"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/indexer"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/storage"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/txn"
)

var log = logrus.WithField("component", "cache")

const chainStateKey = "chain_state"

type participantKey struct {
	feedID ids.ID
	addr   identity.Address
}

// Cache fronts storage reads for the three entities spec §9 names as
// process-wide mutable state.
type Cache struct {
	store *storage.MemStore

	chainState   *lru.Cache[string, txn.BlockchainState]
	participants *lru.Cache[participantKey, *storage.FeedParticipant]
	feedKeys     *lru.Cache[ids.ID, *storage.GroupFeedKeyGeneration]
}

// New builds a Cache backed by store and subscribes it to bus's
// BlockIndexingCompleted event for invalidation. participantCapacity and
// feedKeyCapacity size the two LRU tables; the blockchain-state cache always
// holds exactly one row (spec §9 "capacity 1").
func New(store *storage.MemStore, bus *eventbus.Bus, participantCapacity, feedKeyCapacity int) (*Cache, error) {
	chainState, err := lru.New[string, txn.BlockchainState](1)
	if err != nil {
		return nil, err
	}
	participants, err := lru.New[participantKey, *storage.FeedParticipant](participantCapacity)
	if err != nil {
		return nil, err
	}
	feedKeys, err := lru.New[ids.ID, *storage.GroupFeedKeyGeneration](feedKeyCapacity)
	if err != nil {
		return nil, err
	}

	c := &Cache{store: store, chainState: chainState, participants: participants, feedKeys: feedKeys}
	bus.Subscribe(indexer.BlockIndexingCompleted{}.Kind(), c.onBlockIndexingCompleted)
	return c, nil
}

func (c *Cache) onBlockIndexingCompleted(ctx context.Context, ev eventbus.Event) error {
	c.Invalidate()
	return nil
}

// ChainState returns the current blockchain state, preferring the cache and
// falling back to storage on a miss (spec §4.E step 1 "prefer cache; fall
// back to storage on cold start").
func (c *Cache) ChainState() (txn.BlockchainState, bool) {
	if cs, ok := c.chainState.Get(chainStateKey); ok {
		return cs, true
	}
	cs, ok := c.store.Read().ChainState()
	if !ok {
		return txn.BlockchainState{}, false
	}
	c.chainState.Add(chainStateKey, cs)
	return cs, true
}

// FeedParticipant returns addr's role on feedID, preferring the cache.
func (c *Cache) FeedParticipant(feedID ids.ID, addr identity.Address) (*storage.FeedParticipant, bool) {
	key := participantKey{feedID: feedID, addr: addr}
	if p, ok := c.participants.Get(key); ok {
		return p, true
	}
	p, ok := c.store.Read().FeedParticipant(feedID, addr)
	if !ok {
		return nil, false
	}
	c.participants.Add(key, p)
	return p, true
}

// LatestKeyGeneration returns feedID's most recent key-rotation record,
// preferring the cache.
func (c *Cache) LatestKeyGeneration(feedID ids.ID) (*storage.GroupFeedKeyGeneration, bool) {
	if g, ok := c.feedKeys.Get(feedID); ok {
		return g, true
	}
	g, ok := c.store.Read().LatestKeyGeneration(feedID)
	if !ok {
		return nil, false
	}
	c.feedKeys.Add(feedID, g)
	return g, true
}

// Invalidate purges every cached row (spec §9 "invalidate on every
// BlockIndexingCompleted event").
func (c *Cache) Invalidate() {
	c.chainState.Purge()
	c.participants.Purge()
	c.feedKeys.Purge()
}
