package txn

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/Hushnetwork-social/hush-server-node-sub007/pkg/utils"
)

// digestFields is the RLP-encoded shape a signature digest is computed over.
// It deliberately excludes State and ValidatorSig: the user signs (and the
// producer later co-signs) the transaction's content, not its lifecycle
// bookkeeping.
type digestFields struct {
	ID          [16]byte
	PayloadKind [16]byte
	Timestamp   int64
	Payload     []byte
}

// Digest computes the hash the user signature is taken over (spec §3/§6).
func (t *Transaction) Digest() ([32]byte, error) {
	payloadBytes, err := marshalPayload(t.Payload)
	if err != nil {
		return [32]byte{}, utils.WrapKind(utils.ErrMalformedPayload, err, "encode payload for digest")
	}
	fields := digestFields{
		ID:          [16]byte(t.ID),
		PayloadKind: [16]byte(t.PayloadKind),
		Timestamp:   t.Timestamp.UnixNano(),
		Payload:     payloadBytes,
	}
	enc, err := rlp.EncodeToBytes(fields)
	if err != nil {
		return [32]byte{}, utils.WrapKind(utils.ErrMalformedPayload, err, "rlp encode digest fields")
	}
	return crypto.Keccak256Hash(enc), nil
}

// CosignDigest is the digest the block producer co-signs: the user's own
// signature bytes folded into the transaction digest (spec §4.C "co-signs
// the transaction as the producer" — the producer attests to having seen
// this exact signed transaction, not merely its content).
func (t *Transaction) CosignDigest() ([32]byte, error) {
	base, err := t.Digest()
	if err != nil {
		return [32]byte{}, err
	}
	return crypto.Keccak256Hash(base[:], t.UserSig.Signature), nil
}

func marshalPayload(p Payload) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}
