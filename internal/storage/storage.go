package storage

import (
	"sync"
	"time"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/amount"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/identity"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/txn"
)

type balanceKey struct {
	addr  identity.Address
	token string
}

// tables is every persisted row HushNode keeps (spec §3). MemStore is the
// only thing that ever touches it directly; everyone else goes through a
// ReadScope or a WriteScope.
type tables struct {
	blocks     []*txn.Block
	blocksByID map[ids.ID]*txn.Block
	chainState *txn.BlockchainState

	balances map[balanceKey]amount.Amount

	feeds        map[ids.ID]*Feed
	participants map[ids.ID]map[identity.Address]*FeedParticipant

	messages       map[ids.ID]*FeedMessage
	messagesByFeed map[ids.ID][]ids.ID

	keyGenerations map[ids.ID][]*GroupFeedKeyGeneration

	tallies            map[ids.ID]*ReactionTally
	globalTallyVersion uint64

	nullifiers          map[[32]byte]*ReactionNullifier
	nullifiersByMessage map[ids.ID]map[[32]byte]struct{}

	merkleHistory map[ids.ID][]MerkleRootEntry

	commitments     map[ids.ID][]FeedMemberCommitment
	commitmentIndex map[ids.ID]map[[32]byte]int
}

func newTables() tables {
	return tables{
		blocksByID:          make(map[ids.ID]*txn.Block),
		balances:            make(map[balanceKey]amount.Amount),
		feeds:               make(map[ids.ID]*Feed),
		participants:        make(map[ids.ID]map[identity.Address]*FeedParticipant),
		messages:            make(map[ids.ID]*FeedMessage),
		messagesByFeed:      make(map[ids.ID][]ids.ID),
		keyGenerations:      make(map[ids.ID][]*GroupFeedKeyGeneration),
		tallies:             make(map[ids.ID]*ReactionTally),
		nullifiers:          make(map[[32]byte]*ReactionNullifier),
		nullifiersByMessage: make(map[ids.ID]map[[32]byte]struct{}),
		merkleHistory:       make(map[ids.ID][]MerkleRootEntry),
		commitments:         make(map[ids.ID][]FeedMemberCommitment),
		commitmentIndex:     make(map[ids.ID]map[[32]byte]int),
	}
}

// MemStore is HushNode's storage engine: an in-memory table set behind a
// single mutex (spec §9 "repository objects are scoped per unit-of-work").
// Grounded on Synnergy's Ledger (core/ledger.go), which holds every table
// behind one sync.RWMutex and mutates maps directly; generalised here into
// explicit ReadScope/WriteScope handles so callers can't mutate outside a
// scope.
type MemStore struct {
	mu sync.RWMutex
	t  tables
}

// NewMemStore returns an empty store (no chain state: the Assembler treats
// this as "no chain state exists" and produces the genesis block).
func NewMemStore() *MemStore {
	return &MemStore{t: newTables()}
}

// Read opens a read-only scope. Reads take a brief RLock per call; HushNode
// is single-process, so no multi-call snapshot isolation is attempted (a
// caller wanting a consistent multi-read view takes a Write scope instead).
func (s *MemStore) Read() *ReadScope {
	return &ReadScope{store: s}
}

// Write opens a writable scope, serialising with every other reader and
// writer until Commit or Rollback releases it (spec §4.E "commit or roll
// back both together"; spec §5 "per-message locks... or equivalent" — this
// store realises that equivalent as one coarse-grained mutex rather than
// per-row locks). Callers must finish validating all preconditions before
// calling any mutating method: mutators never fail, so once the first
// mutator runs, the scope is guaranteed to commit cleanly.
func (s *MemStore) Write() *WriteScope {
	s.mu.Lock()
	return &WriteScope{store: s}
}

// ReadScope is a read-only unit of work.
type ReadScope struct {
	store *MemStore
}

// ChainState returns the single chain-state row, or false if none exists
// yet (spec §4.E genesis condition).
func (r *ReadScope) ChainState() (txn.BlockchainState, bool) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if r.store.t.chainState == nil {
		return txn.BlockchainState{}, false
	}
	return *r.store.t.chainState, true
}

// Block looks up a block by id.
func (r *ReadScope) Block(id ids.ID) (*txn.Block, bool) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	b, ok := r.store.t.blocksByID[id]
	return b, ok
}

// Balance returns addr's balance of token; an absent row is zero (spec §3
// AddressBalance "Absent row ≡ zero balance").
func (r *ReadScope) Balance(addr identity.Address, token string) amount.Amount {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	bal, ok := r.store.t.balances[balanceKey{addr, token}]
	if !ok {
		return amount.Zero
	}
	return bal
}

// AddressExists reports whether addr has ever received a balance row.
func (r *ReadScope) AddressExists(addr identity.Address) bool {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for k := range r.store.t.balances {
		if k.addr == addr {
			return true
		}
	}
	return false
}

// FeedExists reports whether feedID has a Feed row.
func (r *ReadScope) FeedExists(feedID ids.ID) bool {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	_, ok := r.store.t.feeds[feedID]
	return ok
}

// Feed returns feedID's row.
func (r *ReadScope) Feed(feedID ids.ID) (*Feed, bool) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	f, ok := r.store.t.feeds[feedID]
	return f, ok
}

// FeedParticipant returns addr's role on feedID.
func (r *ReadScope) FeedParticipant(feedID ids.ID, addr identity.Address) (*FeedParticipant, bool) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	members, ok := r.store.t.participants[feedID]
	if !ok {
		return nil, false
	}
	p, ok := members[addr]
	return p, ok
}

// FeedParticipants returns every participant of feedID.
func (r *ReadScope) FeedParticipants(feedID ids.ID) []*FeedParticipant {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	members := r.store.t.participants[feedID]
	out := make([]*FeedParticipant, 0, len(members))
	for _, p := range members {
		out = append(out, p)
	}
	return out
}

// Message returns a FeedMessage by id.
func (r *ReadScope) Message(messageID ids.ID) (*FeedMessage, bool) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	m, ok := r.store.t.messages[messageID]
	return m, ok
}

// Tally returns a message's reaction tally.
func (r *ReadScope) Tally(messageID ids.ID) (*ReactionTally, bool) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	t, ok := r.store.t.tallies[messageID]
	return t, ok
}

// TalliesSince implements the reaction sync interface (spec §4.G.4): at
// most 1000 tallies with version > sinceVersion for messages whose feed is
// in feedIDs and total_count > 0, ordered by version ascending.
func (r *ReadScope) TalliesSince(feedIDs []ids.ID, sinceVersion uint64) []*ReactionTally {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	allowed := make(map[ids.ID]struct{}, len(feedIDs))
	for _, f := range feedIDs {
		allowed[f] = struct{}{}
	}

	var out []*ReactionTally
	for _, t := range r.store.t.tallies {
		if _, ok := allowed[t.FeedID]; !ok {
			continue
		}
		if t.Version <= sinceVersion || t.TotalCount == 0 {
			continue
		}
		out = append(out, t)
	}
	sortTalliesByVersion(out)
	if len(out) > 1000 {
		out = out[:1000]
	}
	return out
}

func sortTalliesByVersion(t []*ReactionTally) {
	for i := 1; i < len(t); i++ {
		for j := i; j > 0 && t[j-1].Version > t[j].Version; j-- {
			t[j-1], t[j] = t[j], t[j-1]
		}
	}
}

// Nullifier looks up a reaction nullifier record.
func (r *ReadScope) Nullifier(n [32]byte) (*ReactionNullifier, bool) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	rec, ok := r.store.t.nullifiers[n]
	return rec, ok
}

// RecentMerkleRoots returns the most recent n roots recorded for feedID,
// newest first (spec §4.G.1 validate_root grace window).
func (r *ReadScope) RecentMerkleRoots(feedID ids.ID, n int) []MerkleRootEntry {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	hist := r.store.t.merkleHistory[feedID]
	if len(hist) == 0 {
		return nil
	}
	if n > len(hist) {
		n = len(hist)
	}
	out := make([]MerkleRootEntry, n)
	for i := 0; i < n; i++ {
		out[i] = hist[len(hist)-1-i]
	}
	return out
}

// Commitments returns feedID's member commitments in registration order
// (leaf index = slice position, spec §3 FeedMemberCommitment).
func (r *ReadScope) Commitments(feedID ids.ID) []FeedMemberCommitment {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	src := r.store.t.commitments[feedID]
	out := make([]FeedMemberCommitment, len(src))
	copy(out, src)
	return out
}

// CommitmentIndex returns the leaf index of commitment within feedID, or
// false if it isn't registered.
func (r *ReadScope) CommitmentIndex(feedID ids.ID, commitment [32]byte) (int, bool) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	idx, ok := r.store.t.commitmentIndex[feedID][commitment]
	return idx, ok
}

// LatestKeyGeneration returns feedID's most recently applied key-rotation
// record, or false if the feed has never rotated its key.
func (r *ReadScope) LatestKeyGeneration(feedID ids.ID) (*GroupFeedKeyGeneration, bool) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	gens := r.store.t.keyGenerations[feedID]
	if len(gens) == 0 {
		return nil, false
	}
	return gens[len(gens)-1], true
}

// WriteScope is a writable unit of work holding the store's lock for its
// lifetime (see MemStore.Write). Exactly one of Commit/Rollback must be
// called, typically via `defer scope.Rollback()` immediately followed by an
// explicit `scope.Commit()` on the success path (Rollback after Commit is a
// no-op).
type WriteScope struct {
	store *MemStore
	done  bool
}

// Commit releases the scope, keeping every mutation made through it.
func (w *WriteScope) Commit() error {
	if w.done {
		return nil
	}
	w.done = true
	w.store.mu.Unlock()
	return nil
}

// Rollback releases the scope. Because mutators apply directly (see the
// WriteScope doc comment), this discards nothing already written; it exists
// so a scope abandoned before any mutator runs still releases the lock.
func (w *WriteScope) Rollback() {
	if w.done {
		return
	}
	w.done = true
	w.store.mu.Unlock()
}

// PutBlock inserts a block (spec §4.E step 6).
func (w *WriteScope) PutBlock(b *txn.Block) {
	w.store.t.blocks = append(w.store.t.blocks, b)
	w.store.t.blocksByID[b.BlockID] = b
}

// SetChainState upserts the single chain-state row (spec §4.E step 6).
func (w *WriteScope) SetChainState(cs txn.BlockchainState) {
	stored := cs
	w.store.t.chainState = &stored
}

// CreditBalance adds amt to addr's token balance.
func (w *WriteScope) CreditBalance(addr identity.Address, token string, amt amount.Amount) {
	k := balanceKey{addr, token}
	w.store.t.balances[k] = w.store.t.balances[k].Add(amt)
}

// DebitBalance subtracts amt from addr's token balance. Callers must have
// already verified sufficiency (spec §7 InsufficientFunds is a mempool-time
// rejection, not a storage-time one).
func (w *WriteScope) DebitBalance(addr identity.Address, token string, amt amount.Amount) {
	k := balanceKey{addr, token}
	w.store.t.balances[k] = w.store.t.balances[k].Sub(amt)
}

// PutFeed inserts or replaces a Feed row.
func (w *WriteScope) PutFeed(f *Feed) {
	w.store.t.feeds[f.FeedID] = f
	if _, ok := w.store.t.participants[f.FeedID]; !ok {
		w.store.t.participants[f.FeedID] = make(map[identity.Address]*FeedParticipant)
	}
}

// DeleteFeed removes a Feed row and its participants (spec §6
// DeleteGroupFeed).
func (w *WriteScope) DeleteFeed(feedID ids.ID) {
	delete(w.store.t.feeds, feedID)
	delete(w.store.t.participants, feedID)
}

// PutParticipant upserts a participant's row.
func (w *WriteScope) PutParticipant(p *FeedParticipant) {
	members, ok := w.store.t.participants[p.FeedID]
	if !ok {
		members = make(map[identity.Address]*FeedParticipant)
		w.store.t.participants[p.FeedID] = members
	}
	members[p.Address] = p
}

// SetParticipantRole updates an existing participant's role in place
// (ban/unban/block/unblock/promote, spec §6).
func (w *WriteScope) SetParticipantRole(feedID ids.ID, addr identity.Address, role txn.ParticipantRole) {
	if members, ok := w.store.t.participants[feedID]; ok {
		if p, ok := members[addr]; ok {
			p.Role = role
		}
	}
}

// PutMessage inserts a FeedMessage row.
func (w *WriteScope) PutMessage(m *FeedMessage) {
	w.store.t.messages[m.MessageID] = m
	w.store.t.messagesByFeed[m.FeedID] = append(w.store.t.messagesByFeed[m.FeedID], m.MessageID)
}

// PutKeyGeneration appends a group-feed key-rotation record and bumps the
// feed's current_key_generation (spec §3 GroupFeedKeyGeneration).
func (w *WriteScope) PutKeyGeneration(g *GroupFeedKeyGeneration) {
	w.store.t.keyGenerations[g.FeedID] = append(w.store.t.keyGenerations[g.FeedID], g)
	if f, ok := w.store.t.feeds[g.FeedID]; ok {
		f.CurrentKeyGeneration = g.Generation
	}
}

// UpsertTally replaces a message's reaction tally row.
func (w *WriteScope) UpsertTally(t *ReactionTally) {
	w.store.t.tallies[t.MessageID] = t
}

// NextTallyVersion allocates the global monotonic tally version as
// max(existing)+1 (spec §4.G.4 "acquired only inside the per-message
// critical section" — satisfied here because the caller holds the whole
// store's write lock for the scope's duration).
func (w *WriteScope) NextTallyVersion() uint64 {
	w.store.t.globalTallyVersion++
	return w.store.t.globalTallyVersion
}

// PutNullifier inserts or updates a nullifier record, tracking it against
// its message for the per-message vote-change lookup.
func (w *WriteScope) PutNullifier(n *ReactionNullifier) {
	w.store.t.nullifiers[n.Nullifier] = n
	byMsg, ok := w.store.t.nullifiersByMessage[n.MessageID]
	if !ok {
		byMsg = make(map[[32]byte]struct{})
		w.store.t.nullifiersByMessage[n.MessageID] = byMsg
	}
	byMsg[n.Nullifier] = struct{}{}
}

// AppendMerkleRoot records a new root for a feed (spec §4.G.1 "records
// MerkleRootHistory(feed, root, block)").
func (w *WriteScope) AppendMerkleRoot(e MerkleRootEntry) {
	w.store.t.merkleHistory[e.FeedID] = append(w.store.t.merkleHistory[e.FeedID], e)
}

// AppendCommitment appends a new member commitment, assigning it the next
// leaf index (spec §4.G.1 "leaf index = insertion ordinal").
func (w *WriteScope) AppendCommitment(feedID ids.ID, commitment [32]byte, at time.Time) int {
	idx := len(w.store.t.commitments[feedID])
	w.store.t.commitments[feedID] = append(w.store.t.commitments[feedID], FeedMemberCommitment{
		FeedID:       feedID,
		Commitment:   commitment,
		RegisteredAt: at,
	})
	if _, ok := w.store.t.commitmentIndex[feedID]; !ok {
		w.store.t.commitmentIndex[feedID] = make(map[[32]byte]int)
	}
	w.store.t.commitmentIndex[feedID][commitment] = idx
	return idx
}

// HasCommitment reports whether commitment is already registered for
// feedID (spec §4.G.1 register's "appends iff absent" precondition check).
func (w *WriteScope) HasCommitment(feedID ids.ID, commitment [32]byte) bool {
	_, ok := w.store.t.commitmentIndex[feedID][commitment]
	return ok
}
