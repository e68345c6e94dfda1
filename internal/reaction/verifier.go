package reaction

import (
	"bytes"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"

	"github.com/Hushnetwork-social/hush-server-node-sub007/pkg/utils"
)

// ParseCircuitVersionState maps a config-file state string ("current",
// "supported", "vulnerable") to its CircuitVersionState, for loading
// circuit keys from disk at startup.
func ParseCircuitVersionState(s string) (CircuitVersionState, error) {
	switch s {
	case "current":
		return VersionCurrent, nil
	case "supported":
		return VersionSupported, nil
	case "vulnerable":
		return VersionVulnerable, nil
	default:
		return VersionUnknown, utils.Newf(utils.ErrMalformedPayload, "unknown circuit key state %q", s)
	}
}

// CircuitVersionState is one of the three states a Groth16 verifying key
// can be registered under (spec §4.G.2).
type CircuitVersionState int

const (
	VersionUnknown CircuitVersionState = iota
	VersionCurrent
	VersionSupported
	VersionVulnerable
)

// registeredKey pairs a verifying key with its lifecycle state.
type registeredKey struct {
	vk    groth16.VerifyingKey
	state CircuitVersionState
}

// Verifier checks a ReactionVotePayload's Groth16 proof against a
// registry of verifying keys keyed by circuit_version (spec §4.G.2).
type Verifier struct {
	keys map[string]registeredKey
}

// NewVerifier builds an empty Verifier; callers register keys via
// RegisterKey before verifying proofs.
func NewVerifier() *Verifier {
	return &Verifier{keys: make(map[string]registeredKey)}
}

// RegisterKey adds a verifying key under circuitVersion with the given
// lifecycle state. A later call with the same version overwrites it,
// which is how a Current key is demoted to Supported and eventually to
// Vulnerable as the circuit evolves.
func (v *Verifier) RegisterKey(circuitVersion string, vkBytes []byte, state CircuitVersionState) error {
	vk := groth16.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(bytes.NewReader(vkBytes)); err != nil {
		return utils.WrapKind(utils.ErrMalformedPayload, err, "parse groth16 verifying key")
	}
	v.keys[circuitVersion] = registeredKey{vk: vk, state: state}
	return nil
}

// PublicInputs is the ordered public-input tuple a ReactionVote proof
// commits to (spec §4.G.2 "nullifier, ciphertext_c1[6], ciphertext_c2[6],
// message_id, feed_pk, merkle_root, author_commitment").
type PublicInputs struct {
	Nullifier        [32]byte
	CiphertextC1     [6][]byte
	CiphertextC2     [6][]byte
	MessageID        [16]byte
	FeedPK           [32]byte
	MerkleRoot       [32]byte
	AuthorCommitment [32]byte
}

func (p PublicInputs) asFieldElements() []*big.Int {
	out := make([]*big.Int, 0, 17)
	out = append(out, bigFromFieldBytes(p.Nullifier))
	for _, c := range p.CiphertextC1 {
		out = append(out, new(big.Int).SetBytes(c))
	}
	for _, c := range p.CiphertextC2 {
		out = append(out, new(big.Int).SetBytes(c))
	}
	out = append(out, new(big.Int).SetBytes(p.MessageID[:]))
	out = append(out, new(big.Int).SetBytes(p.FeedPK[:]))
	out = append(out, bigFromFieldBytes(p.MerkleRoot))
	out = append(out, bigFromFieldBytes(p.AuthorCommitment))
	return out
}

// Verify checks proofBytes against circuitVersion's registered key and
// public. Returns nil on accept, a deprecation flag for a Supported key,
// and the closed error kinds VulnerableCircuit/InvalidProof on rejection
// (spec §4.G.2).
func (v *Verifier) Verify(circuitVersion string, proofBytes []byte, public PublicInputs) (deprecated bool, err error) {
	reg, ok := v.keys[circuitVersion]
	if !ok {
		return false, utils.Newf(utils.ErrInvalidProof, "unknown circuit version %q", circuitVersion)
	}
	if reg.state == VersionVulnerable {
		return false, utils.Newf(utils.ErrVulnerableCircuit, "circuit version %q is vulnerable", circuitVersion)
	}

	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return false, utils.WrapKind(utils.ErrInvalidProof, err, "parse groth16 proof")
	}

	w, err := witness.New(ecc.BN254.ScalarField())
	if err != nil {
		return false, utils.WrapKind(utils.ErrInvalidProof, err, "build public witness")
	}
	fields := public.asFieldElements()
	values := make(chan any, len(fields))
	for _, f := range fields {
		values <- f
	}
	close(values)
	if err := w.Fill(len(fields), 0, values); err != nil {
		return false, utils.WrapKind(utils.ErrInvalidProof, err, "fill public witness")
	}

	if err := groth16.Verify(proof, reg.vk, w); err != nil {
		return false, utils.WrapKind(utils.ErrInvalidProof, err, "groth16 verification failed")
	}
	return reg.state == VersionSupported, nil
}
