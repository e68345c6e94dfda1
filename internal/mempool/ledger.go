package mempool

import (
	"context"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/amount"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/identity"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/txn"
)

// Ledger is the read-only view of chain state a ContentHandler consults to
// validate payload-specific preconditions (spec §4.C "author exists, funds
// sufficient, feed membership present, etc."). The storage component
// implements it; the mempool only ever reads through this seam, never
// writes, matching spec §3's "Mempool exclusively owns pending
// transactions" ownership rule.
type Ledger interface {
	AddressExists(ctx context.Context, addr identity.Address) (bool, error)
	Balance(ctx context.Context, addr identity.Address, token string) (amount.Amount, error)
	FeedExists(ctx context.Context, feedID ids.ID) (bool, error)
	FeedParticipant(ctx context.Context, feedID ids.ID, addr identity.Address) (txn.ParticipantRole, bool, error)
}
