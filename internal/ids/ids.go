// Package ids implements HushNode's opaque 128-bit identifiers (spec §3):
// BlockId, BlockchainStateId, FeedId, FeedMessageId, TransactionId, and
// PayloadKind. All are canonical lower-case hex of the underlying 128-bit
// value, equality is by value, and the zero value is the distinguished
// "empty" identifier used by genesis's previous-block pointer.
package ids

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// ID is a 128-bit opaque identifier, serialized as 32 lower-case hex chars
// (no dashes — spec §6 "canonical lower-case hex of the underlying 128-bit
// value", distinct from the dashed textual form UUIDs are usually printed
// in).
type ID [16]byte

// Empty is the distinguished zero identifier (genesis's previous_block_id).
var Empty ID

// New generates a fresh random identifier.
func New() ID {
	return ID(uuid.New())
}

// FromUUID adapts a UUID-shaped payload-kind constant (spec §6 registry) into
// an ID.
func FromUUID(u uuid.UUID) ID { return ID(u) }

// MustParseUUID parses a canonical dashed UUID string (used for the payload
// kind constants listed in spec §6) and panics on malformed input — only
// intended for package-level var initialisation of known-good literals.
func MustParseUUID(s string) ID {
	u := uuid.MustParse(s)
	return ID(u)
}

// String renders the canonical lower-case hex form (32 chars, no dashes).
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// IsEmpty reports whether id is the zero/empty identifier.
func (id ID) IsEmpty() bool { return id == Empty }

// Less provides a deterministic lexical ordering over canonical hex. The
// block assembler does not call it: it keeps pending transactions in mempool
// FIFO order and does not re-order transactions with equal timestamps.
func (id ID) Less(other ID) bool {
	return id.String() < other.String()
}

// Parse decodes a canonical 32-char lower-case hex identifier.
func Parse(s string) (ID, error) {
	if len(s) != 32 {
		return Empty, fmt.Errorf("ids: invalid length %d for %q", len(s), s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Empty, fmt.Errorf("ids: invalid hex %q: %w", s, err)
	}
	var id ID
	copy(id[:], b)
	return id, nil
}

// MarshalText implements encoding.TextMarshaler so ID round-trips through
// JSON as its canonical hex string (spec §6 wire envelope).
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
