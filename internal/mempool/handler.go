// Package mempool implements HushNode's Mempool (spec §4.C): it accepts
// signed transactions, validates and co-signs them via a data-driven
// registry of ContentHandlers, and holds them pending until the scheduler
// drains a block-sized batch. Grounded on the teacher's txpool (Synnergy
// core/txpool_addtx.go, core/txpool_snapshot.go): a mutex-guarded lookup map
// plus FIFO queue, extended with the handler-registry/cosign step spec §4.C
// requires.
package mempool

import (
	"context"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/txn"
)

// ContentHandler performs payload-kind-specific validation and, on success,
// co-signs the transaction as the producer (spec §4.B/4.C). Registration is
// data-driven: adding a payload kind means registering one handler, no other
// component changes.
type ContentHandler interface {
	CanValidate(kind txn.PayloadKind) bool
	ValidateAndCosign(ctx context.Context, tx *txn.Transaction) error
}

// registry holds one handler per payload kind, looked up by CanValidate.
type registry struct {
	handlers []ContentHandler
}

func newRegistry() *registry {
	return &registry{}
}

func (r *registry) register(h ContentHandler) {
	r.handlers = append(r.handlers, h)
}

// find returns the first registered handler whose CanValidate matches kind,
// or nil if none do (spec §4.C "look up a ContentHandler by payload_kind. If
// none, reject with UnknownKind").
func (r *registry) find(kind txn.PayloadKind) ContentHandler {
	for _, h := range r.handlers {
		if h.CanValidate(kind) {
			return h
		}
	}
	return nil
}
