package reaction

import (
	"math/big"

	"github.com/iden3/go-iden3-crypto/babyjub"
	"github.com/iden3/go-iden3-crypto/poseidon"

	"github.com/Hushnetwork-social/hush-server-node-sub007/pkg/utils"
)

// zeroValue is the Merkle tree's empty-leaf value (spec §4.G.1 "zero for
// empty leaves").
var zeroValue = big.NewInt(0)

// poseidonHash2 is the Merkle tree's compression function: t=3 state
// (two inputs plus capacity), 8 full rounds split 4+4 around the partial
// rounds, x⁵ S-box, field-bounded over the BN254 scalar field — the
// parameterisation go-iden3-crypto's poseidon.Hash ships for exactly this
// arity (spec §8).
func poseidonHash2(a, b *big.Int) (*big.Int, error) {
	h, err := poseidon.Hash([]*big.Int{a, b})
	if err != nil {
		return nil, utils.WrapKind(utils.ErrMalformedPayload, err, "poseidon hash2")
	}
	return h, nil
}

// poseidonHash4 is used for the 4-ary nullifier hash
// (user_secret, message_id, feed_id, domain_tag).
func poseidonHash4(a, b, c, d *big.Int) (*big.Int, error) {
	h, err := poseidon.Hash([]*big.Int{a, b, c, d})
	if err != nil {
		return nil, utils.WrapKind(utils.ErrMalformedPayload, err, "poseidon hash4")
	}
	return h, nil
}

// bigFromFieldBytes canonicalises a 32-byte value mod the scalar field
// prime (spec §8 "inputs canonicalised mod field prime").
func bigFromFieldBytes(b [32]byte) *big.Int {
	n := new(big.Int).SetBytes(b[:])
	return n.Mod(n, babyjub.Q)
}
