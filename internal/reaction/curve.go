// Package reaction implements HushNode's Anonymous Reaction Subsystem
// (spec §4.G): Merkle membership, Groth16 proof verification, the
// nullifier store, and the ElGamal tally over Baby JubJub. Point
// arithmetic is iden3/go-iden3-crypto/babyjub, the same twisted-Edwards
// curve the Groth16 circuit's gadgets operate over.
package reaction

import (
	"math/big"

	"github.com/iden3/go-iden3-crypto/babyjub"

	"github.com/Hushnetwork-social/hush-server-node-sub007/pkg/utils"
)

// Point is a Baby JubJub curve point (spec §4.G.4 "a·x² + y² = 1 + d·x²·y²").
type Point struct {
	X *big.Int
	Y *big.Int
}

// Identity returns the curve's additive identity (0, 1).
func Identity() Point {
	p := babyjub.NewPoint()
	return Point{X: p.X, Y: p.Y}
}

// Generator returns Baby JubJub's canonical base point (go-iden3-crypto's
// B8, the order-8-cofactor-cleared generator used throughout its Poseidon
// and EdDSA tooling).
func Generator() Point {
	return fromBabyjub(babyjub.B8)
}

func toBabyjub(p Point) *babyjub.Point {
	return &babyjub.Point{X: p.X, Y: p.Y}
}

func fromBabyjub(p *babyjub.Point) Point {
	return Point{X: p.X, Y: p.Y}
}

// Add computes p + q on the curve.
func Add(p, q Point) Point {
	res := babyjub.NewPoint()
	res.Add(toBabyjub(p), toBabyjub(q))
	return fromBabyjub(res)
}

// Neg computes -p (negate the x coordinate; twisted Edwards curves are
// symmetric about the y axis).
func Neg(p Point) Point {
	neg := new(big.Int).Neg(p.X)
	neg.Mod(neg, babyjub.Q)
	return Point{X: neg, Y: new(big.Int).Set(p.Y)}
}

// Sub computes p - q as p + (-q).
func Sub(p, q Point) Point {
	return Add(p, Neg(q))
}

// ScalarMul computes scalar * p.
func ScalarMul(scalar *big.Int, p Point) Point {
	res := babyjub.NewPoint()
	res.Mul(scalar, toBabyjub(p))
	return fromBabyjub(res)
}

// OnCurve reports whether p satisfies the twisted-Edwards curve equation.
func OnCurve(p Point) bool {
	return toBabyjub(p).InCurve()
}

// Equal reports whether p and q are the same point.
func Equal(p, q Point) bool {
	return p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) == 0
}

// Encode serialises p to babyjub's compressed 32-byte point encoding, the
// wire format for ReactionVotePayload's ciphertext halves.
func Encode(p Point) []byte {
	compressed := toBabyjub(p).Compress()
	return compressed[:]
}

// Decode parses a 32-byte compressed point, rejecting anything not on the
// curve (spec §8 "Every Add and ScalarMul result lies on the curve").
func Decode(raw []byte) (Point, error) {
	if len(raw) != 32 {
		return Point{}, utils.New(utils.ErrMalformedPayload, "compressed curve point must be 32 bytes")
	}
	var compressed babyjub.PointCompressed
	copy(compressed[:], raw)
	p, err := compressed.Decompress()
	if err != nil {
		return Point{}, utils.WrapKind(utils.ErrMalformedPayload, err, "decompress curve point")
	}
	return fromBabyjub(p), nil
}
