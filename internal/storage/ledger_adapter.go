package storage

import (
	"context"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/amount"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/identity"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/txn"
)

// LedgerView adapts MemStore to the mempool.Ledger seam: a context-shaped,
// error-returning read API over what is, underneath, a synchronous
// in-memory lookup (spec §5's "cooperative async runtime" realised as an
// ordinary function call — see SPEC_FULL.md's Go realization note).
type LedgerView struct {
	store *MemStore
}

// NewLedgerView wraps store for handlers that depend on mempool.Ledger.
func NewLedgerView(store *MemStore) *LedgerView {
	return &LedgerView{store: store}
}

func (v *LedgerView) AddressExists(ctx context.Context, addr identity.Address) (bool, error) {
	return v.store.Read().AddressExists(addr), nil
}

func (v *LedgerView) Balance(ctx context.Context, addr identity.Address, token string) (amount.Amount, error) {
	return v.store.Read().Balance(addr, token), nil
}

func (v *LedgerView) FeedExists(ctx context.Context, feedID ids.ID) (bool, error) {
	return v.store.Read().FeedExists(feedID), nil
}

func (v *LedgerView) FeedParticipant(ctx context.Context, feedID ids.ID, addr identity.Address) (txn.ParticipantRole, bool, error) {
	p, ok := v.store.Read().FeedParticipant(feedID, addr)
	if !ok {
		return 0, false, nil
	}
	return p.Role, true, nil
}
