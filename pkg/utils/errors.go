// Package utils provides shared error-handling helpers used across HushNode.
package utils

import (
	"errors"
	"fmt"
)

// ErrKind is a closed set of error kinds surfaced at package boundaries (see
// spec §7). It is a kind, not a concrete type — a *NodeError carries one.
type ErrKind string

const (
	ErrUnknownPayloadKind       ErrKind = "UnknownPayloadKind"
	ErrMalformedPayload         ErrKind = "MalformedPayload"
	ErrBadUserSignature         ErrKind = "BadUserSignature"
	ErrBadValidatorSignature    ErrKind = "BadValidatorSignature"
	ErrInsufficientFunds        ErrKind = "InsufficientFunds"
	ErrUnknownFeed              ErrKind = "UnknownFeed"
	ErrNotMember                ErrKind = "NotMember"
	ErrUnauthorizedForRole      ErrKind = "UnauthorizedForRole"
	ErrDuplicateCommitment      ErrKind = "DuplicateCommitment"
	ErrUnknownMerkleRoot        ErrKind = "UnknownMerkleRoot"
	ErrInvalidProof             ErrKind = "InvalidProof"
	ErrVulnerableCircuit        ErrKind = "VulnerableCircuit"
	ErrNullifierReuseOnOther    ErrKind = "NullifierReuseOnOtherMessage"
	ErrStorageConflict          ErrKind = "StorageConflict"
	ErrStorageUnavailable       ErrKind = "StorageUnavailable"
	ErrCacheUnavailable         ErrKind = "CacheUnavailable"
	ErrCancelled                ErrKind = "Cancelled"
)

// NodeError pairs a closed error kind with a human-readable message and an
// optional wrapped cause, so callers can branch on Kind while errors.Is/As
// still see through to the underlying cause.
type NodeError struct {
	Kind    ErrKind
	Message string
	Cause   error
}

func (e *NodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *NodeError) Unwrap() error { return e.Cause }

// New builds a *NodeError with no wrapped cause.
func New(kind ErrKind, message string) error {
	return &NodeError{Kind: kind, Message: message}
}

// Newf builds a *NodeError with a formatted message.
func Newf(kind ErrKind, format string, args ...any) error {
	return &NodeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapKind wraps cause under the given kind. Returns nil if cause is nil.
func WrapKind(kind ErrKind, cause error, message string) error {
	if cause == nil {
		return nil
	}
	return &NodeError{Kind: kind, Message: message, Cause: cause}
}

// Wrap adds context to an error message without changing its kind. It returns
// nil if err is nil, matching the teacher's plain-error helper.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// KindOf extracts the ErrKind carried by err, if any, by walking the Unwrap
// chain. The second return is false if no *NodeError is found.
func KindOf(err error) (ErrKind, bool) {
	var ne *NodeError
	if errors.As(err, &ne) {
		return ne.Kind, true
	}
	return "", false
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind ErrKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
