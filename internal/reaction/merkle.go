package reaction

import (
	"context"
	"math/big"
	"time"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/storage"
	"github.com/Hushnetwork-social/hush-server-node-sub007/pkg/utils"
)

// DefaultDepth is the tree depth used when a caller doesn't configure one
// (spec §4.G.1 "fixed depth D (configurable; e.g., 20 supports ~10⁶
// members)").
const DefaultDepth = 20

// DefaultGrace is how many of a feed's most recent roots validate_root
// accepts (spec §4.G.1 "default grace window is 3 roots").
const DefaultGrace = 3

// Proof is a membership witness for one commitment (spec §4.G.1 prove).
type Proof struct {
	Root         [32]byte
	PathElements [][32]byte
	PathIndices  []int
	Depth        int
	RootBlock    uint64
}

// Membership is HushNode's per-feed Poseidon Merkle tree of member
// commitments (spec §4.G.1). Leaves are append-only; leaf index is
// insertion ordinal. Backed by storage.MemStore so the tree's state
// (commitments + root history) survives across calls without an
// in-memory cache of its own.
type Membership struct {
	store     *storage.MemStore
	depth     int
	zeroNodes [][32]byte // zeroNodes[i] is the zero-subtree root at level i
}

// NewMembership builds a Membership service over depth levels.
func NewMembership(store *storage.MemStore, depth int) (*Membership, error) {
	zeros, err := computeZeroNodes(depth)
	if err != nil {
		return nil, err
	}
	return &Membership{store: store, depth: depth, zeroNodes: zeros}, nil
}

func computeZeroNodes(depth int) ([][32]byte, error) {
	zeros := make([][32]byte, depth+1)
	cur := bigToField(zeroValue)
	zeros[0] = cur
	for i := 1; i <= depth; i++ {
		next, err := poseidonHash2(fieldToBig(cur), fieldToBig(cur))
		if err != nil {
			return nil, err
		}
		cur = bigToField(next)
		zeros[i] = cur
	}
	return zeros, nil
}

func bigToField(n *big.Int) [32]byte {
	var out [32]byte
	b := n.Bytes()
	copy(out[32-len(b):], b)
	return out
}

func fieldToBig(f [32]byte) *big.Int {
	return new(big.Int).SetBytes(f[:])
}

// Register appends commitment to feedID's tree iff absent, recomputes the
// root from scratch over the current leaf set (spec §4.G.1 register:
// "appends iff absent... recomputes the root, records MerkleRootHistory").
//
// Register's existence check and its eventual write are two separate
// critical sections (ReadScope then WriteScope), not one atomic
// transaction: a concurrent Register for the same feed could interleave
// between them. This accepts the same single-coarse-mutex trade-off
// storage.MemStore documents elsewhere, rather than the per-feed lock
// spec §5 describes as the reference implementation's approach.
func (m *Membership) Register(ctx context.Context, feedID ids.ID, commitment [32]byte, blockIndex uint64, at time.Time) (root [32]byte, leafIndex int, err error) {
	if existingIdx, ok := m.store.Read().CommitmentIndex(feedID, commitment); ok {
		existingRoot, rerr := m.currentRoot(feedID)
		if rerr != nil {
			return [32]byte{}, 0, rerr
		}
		return existingRoot, existingIdx, nil
	}

	leaves := m.leafSlice(feedID)
	leaves = append(leaves, commitment)
	root, err = m.rootOf(leaves)
	if err != nil {
		return [32]byte{}, 0, err
	}

	w := m.store.Write()
	defer w.Rollback()
	leafIndex = w.AppendCommitment(feedID, commitment, at)
	w.AppendMerkleRoot(storage.MerkleRootEntry{FeedID: feedID, Root: root, BlockIndex: blockIndex, CreatedAt: at})
	if err := w.Commit(); err != nil {
		return [32]byte{}, 0, err
	}
	return root, leafIndex, nil
}

func (m *Membership) leafSlice(feedID ids.ID) [][32]byte {
	leaves := m.store.Read().Commitments(feedID)
	out := make([][32]byte, len(leaves))
	for i, l := range leaves {
		out[i] = l.Commitment
	}
	return out
}

// currentRoot recomputes feedID's root from its leaves, filling the tree
// with zero-subtrees on the right where leaves don't yet exist.
func (m *Membership) currentRoot(feedID ids.ID) ([32]byte, error) {
	return m.rootOf(m.leafSlice(feedID))
}

func (m *Membership) rootOf(level [][32]byte) ([32]byte, error) {
	for depth := 0; depth < m.depth; depth++ {
		next := make([][32]byte, (len(level)+1)/2)
		for i := range next {
			left := m.zeroNodes[depth]
			right := m.zeroNodes[depth]
			if 2*i < len(level) {
				left = level[2*i]
			}
			if 2*i+1 < len(level) {
				right = level[2*i+1]
			}
			h, err := poseidonHash2(fieldToBig(left), fieldToBig(right))
			if err != nil {
				return [32]byte{}, err
			}
			next[i] = bigToField(h)
		}
		if len(next) == 0 {
			next = [][32]byte{m.zeroNodes[depth+1]}
		}
		level = next
	}
	if len(level) != 1 {
		return [32]byte{}, utils.New(utils.ErrMalformedPayload, "merkle tree did not reduce to a single root")
	}
	return level[0], nil
}

// Prove returns commitment's membership witness, or ErrNotMember if it
// isn't registered (spec §4.G.1 prove).
func (m *Membership) Prove(feedID ids.ID, commitment [32]byte) (Proof, error) {
	idx, ok := m.store.Read().CommitmentIndex(feedID, commitment)
	if !ok {
		return Proof{}, utils.New(utils.ErrNotMember, "commitment not registered for feed")
	}

	leaves := m.store.Read().Commitments(feedID)
	level := make([][32]byte, len(leaves))
	for i, l := range leaves {
		level[i] = l.Commitment
	}

	pathElements := make([][32]byte, m.depth)
	pathIndices := make([]int, m.depth)
	cur := idx
	for depth := 0; depth < m.depth; depth++ {
		sibling := m.zeroNodes[depth]
		siblingIdx := cur ^ 1
		if siblingIdx < len(level) {
			sibling = level[siblingIdx]
		}
		pathElements[depth] = sibling
		pathIndices[depth] = cur % 2

		next := make([][32]byte, (len(level)+1)/2)
		for i := range next {
			left := m.zeroNodes[depth]
			right := m.zeroNodes[depth]
			if 2*i < len(level) {
				left = level[2*i]
			}
			if 2*i+1 < len(level) {
				right = level[2*i+1]
			}
			h, err := poseidonHash2(fieldToBig(left), fieldToBig(right))
			if err != nil {
				return Proof{}, err
			}
			next[i] = bigToField(h)
		}
		if len(next) == 0 {
			next = [][32]byte{m.zeroNodes[depth+1]}
		}
		level = next
		cur /= 2
	}

	hist := m.store.Read().RecentMerkleRoots(feedID, 1)
	var rootBlock uint64
	if len(hist) > 0 {
		rootBlock = hist[0].BlockIndex
	}
	return Proof{Root: level[0], PathElements: pathElements, PathIndices: pathIndices, Depth: m.depth, RootBlock: rootBlock}, nil
}

// ValidateRoot reports whether root matches any of feedID's most recent
// grace roots (spec §4.G.1 validate_root: "Grace exists because a prover
// may race a concurrent membership change").
func (m *Membership) ValidateRoot(feedID ids.ID, root [32]byte, grace int) bool {
	recent := m.store.Read().RecentMerkleRoots(feedID, grace)
	for _, r := range recent {
		if r.Root == root {
			return true
		}
	}
	return false
}
