// Package txn implements HushNode's transaction and block data model
// (spec §3, §6): the tagged-union transaction lifecycle, the payload-kind
// registry, and the Block/BlockchainState entities the Assembler and
// Indexer operate on.
package txn

import (
	"github.com/Hushnetwork-social/hush-server-node-sub007/pkg/utils"
)

// State is the transaction lifecycle (spec §3): a monotonic progression
// Unsigned -> Signed -> Validated -> Indexed. Regressing is forbidden; see
// Transaction.Advance.
type State int

const (
	Unsigned State = iota
	Signed
	Validated
	Indexed
)

func (s State) String() string {
	switch s {
	case Unsigned:
		return "Unsigned"
	case Signed:
		return "Signed"
	case Validated:
		return "Validated"
	case Indexed:
		return "Indexed"
	default:
		return "Unknown"
	}
}

// CanAdvanceTo reports whether transitioning from s to next respects the
// monotonic lifecycle (no regression, no skipping a state).
func (s State) CanAdvanceTo(next State) bool {
	return next == s+1
}

func errLifecycle(from, to State) error {
	return utils.Newf(utils.ErrMalformedPayload, "cannot advance transaction from %s to %s", from, to)
}
