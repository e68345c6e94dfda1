// Package identity implements HushNode's Credential & Identity Store
// (spec §4.B): it holds the block-producer's signing key and verifies user
// signatures. Signing uses secp256k1 ECDSA via go-ethereum/crypto, the same
// curve and library the teacher repo links for every signature-shaped
// concern.
package identity

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sirupsen/logrus"

	"github.com/Hushnetwork-social/hush-server-node-sub007/pkg/utils"
)

var log = logrus.WithField("component", "identity")

// Address is a 20-byte secp256k1 address, rendered as 0x-prefixed hex by
// go-ethereum/crypto.PubkeyToAddress semantics.
type Address [20]byte

func (a Address) String() string {
	return fmt.Sprintf("0x%x", a[:])
}

// ParseAddress decodes a 0x-prefixed 20-byte hex address.
func ParseAddress(s string) (Address, error) {
	var a Address
	trimmed := strings.TrimPrefix(s, "0x")
	if len(trimmed) != 40 {
		return a, fmt.Errorf("identity: invalid address length for %q", s)
	}
	decoded, err := hex.DecodeString(trimmed)
	if err != nil {
		return a, fmt.Errorf("identity: invalid address hex %q: %w", s, err)
	}
	copy(a[:], decoded)
	return a, nil
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Signature is a 65-byte recoverable secp256k1 signature (r, s, v).
type Signature []byte

// CredentialSource is the external collaborator named in spec §1/§6
// ("credential file loading"): it supplies the block producer's private
// key. HushNode ships exactly one concrete implementation (StaticKeySource)
// sufficient to run the node; an encrypted-file-backed loader is the kind of
// thing that would live behind this same interface without changing any
// caller.
type CredentialSource interface {
	ProducerKey() (*ecdsa.PrivateKey, error)
}

// StaticKeySource wraps an already-loaded private key (e.g. generated at
// startup, or parsed from a config-referenced keyfile upstream of this
// package's boundary).
type StaticKeySource struct {
	Key *ecdsa.PrivateKey
}

func (s StaticKeySource) ProducerKey() (*ecdsa.PrivateKey, error) {
	if s.Key == nil {
		return nil, utils.New(utils.ErrStorageUnavailable, "producer key not loaded")
	}
	return s.Key, nil
}

// Store signs on behalf of the block producer and verifies arbitrary user
// signatures. It is safe for concurrent use.
type Store struct {
	source  CredentialSource
	address Address
}

// NewStore derives the producer's address from source's key and returns a
// ready-to-use Store.
func NewStore(source CredentialSource) (*Store, error) {
	key, err := source.ProducerKey()
	if err != nil {
		return nil, utils.WrapKind(utils.ErrStorageUnavailable, err, "load producer key")
	}
	addr := Address(crypto.PubkeyToAddress(key.PublicKey))
	log.WithField("producer_address", Address(addr).String()).Info("identity store initialised")
	return &Store{source: source, address: addr}, nil
}

// ProducerAddress returns the block producer's address.
func (s *Store) ProducerAddress() Address { return s.address }

// SignAsProducer co-signs digest (typically the hash of a user's signature)
// as the block producer, promoting a Signed transaction to Validated
// (spec §3 lifecycle, §4.C "co-signs the transaction as the producer").
func (s *Store) SignAsProducer(digest [32]byte) (Signature, error) {
	key, err := s.source.ProducerKey()
	if err != nil {
		return nil, utils.WrapKind(utils.ErrStorageUnavailable, err, "load producer key")
	}
	sig, err := crypto.Sign(digest[:], key)
	if err != nil {
		return nil, utils.WrapKind(utils.ErrBadValidatorSignature, err, "sign as producer")
	}
	return sig, nil
}

// VerifyUserSignature checks that sig over digest recovers to claimedSigner.
func VerifyUserSignature(digest [32]byte, sig Signature, claimedSigner Address) error {
	if len(sig) != 65 {
		return utils.New(utils.ErrBadUserSignature, "signature must be 65 bytes")
	}
	pub, err := crypto.SigToPub(digest[:], sig)
	if err != nil {
		return utils.WrapKind(utils.ErrBadUserSignature, err, "recover signer")
	}
	recovered := Address(crypto.PubkeyToAddress(*pub))
	if recovered != claimedSigner {
		return utils.Newf(utils.ErrBadUserSignature, "signature recovers to %s, expected %s", recovered, claimedSigner)
	}
	return nil
}

// VerifyProducerSignature checks that sig over digest was produced by this
// store's own producer key (used when replaying/validating persisted
// blocks).
func (s *Store) VerifyProducerSignature(digest [32]byte, sig Signature) error {
	if len(sig) != 65 {
		return utils.New(utils.ErrBadValidatorSignature, "signature must be 65 bytes")
	}
	pub, err := crypto.SigToPub(digest[:], sig)
	if err != nil {
		return utils.WrapKind(utils.ErrBadValidatorSignature, err, "recover producer signature")
	}
	recovered := Address(crypto.PubkeyToAddress(*pub))
	if recovered != s.address {
		return utils.Newf(utils.ErrBadValidatorSignature, "producer signature recovers to %s, expected %s", recovered, s.address)
	}
	return nil
}
