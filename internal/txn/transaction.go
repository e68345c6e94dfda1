package txn

import (
	"time"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/identity"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
)

// UserSignature is the user's signature over the transaction digest
// (spec §6 wire envelope "user_signature").
type UserSignature struct {
	Signatory identity.Address    `json:"signatory"`
	Signature identity.Signature  `json:"signature"`
}

// ValidatorSignature is the block producer's co-signature over the user
// signature (spec §3 "A Validated transaction additionally carries the
// producer's signature over the user signature").
type ValidatorSignature struct {
	Signature identity.Signature `json:"signature"`
}

// Transaction is HushNode's tagged-union transaction (spec §3). Payload's
// concrete type is determined by PayloadKind; see payload_kinds.go.
type Transaction struct {
	ID                  ids.ID
	PayloadKind         PayloadKind
	Timestamp           time.Time
	Payload             Payload
	State               State
	UserSig             UserSignature
	ValidatorSig        *ValidatorSignature
}

// Sign transitions an Unsigned transaction to Signed by attaching the user's
// signature. Returns an error if the transaction isn't Unsigned.
func (t *Transaction) Sign(sig UserSignature) error {
	if t.State != Unsigned {
		return errLifecycle(t.State, Signed)
	}
	t.UserSig = sig
	t.State = Signed
	return nil
}

// Validate transitions a Signed transaction to Validated by attaching the
// producer's co-signature (spec §4.C "co-signs the transaction as the
// producer").
func (t *Transaction) Validate(sig ValidatorSignature) error {
	if t.State != Signed {
		return errLifecycle(t.State, Validated)
	}
	t.ValidatorSig = &sig
	t.State = Validated
	return nil
}

// MarkIndexed transitions a Validated transaction to Indexed once the
// Indexer has dispatched it to its strategies.
func (t *Transaction) MarkIndexed() error {
	if t.State != Validated {
		return errLifecycle(t.State, Indexed)
	}
	t.State = Indexed
	return nil
}
