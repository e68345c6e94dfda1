package indexer

import (
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/identity"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
)

// BlockIndexingCompleted is published after the last transaction of a block
// has been run through every matching strategy (spec §4.F).
type BlockIndexingCompleted struct {
	BlockIndex uint64
}

func (BlockIndexingCompleted) Kind() string { return "BlockIndexingCompleted" }

// FeedCreated is published by PersonalFeed/ChatFeed/GroupFeed creation
// strategies (spec §4.F strategy list).
type FeedCreated struct {
	FeedID ids.ID
}

func (FeedCreated) Kind() string { return "FeedCreated" }

// MembershipChanged covers every role transition a group feed's lifecycle
// strategies cause: join, add, ban, unban, block, unblock, promote (spec
// §4.F "GroupFeed lifecycle"). Role carries the participant's role *after*
// the transition; UserBannedFromGroup and similar spec-named events are
// this event filtered by role, not separate Go types, since they all carry
// the same (feed, address, new role) shape.
type MembershipChanged struct {
	FeedID  ids.ID
	Address identity.Address
	Role    int
}

func (MembershipChanged) Kind() string { return "MembershipChanged" }

// GroupFeedKeyRotated is published after a GroupKeyRotation transaction is
// indexed (spec §3 GroupFeedKeyGeneration).
type GroupFeedKeyRotated struct {
	FeedID     ids.ID
	Generation uint64
}

func (GroupFeedKeyRotated) Kind() string { return "GroupFeedKeyRotated" }

// GroupFeedUpdated covers title/description edits.
type GroupFeedUpdated struct {
	FeedID ids.ID
}

func (GroupFeedUpdated) Kind() string { return "GroupFeedUpdated" }

// GroupFeedDeleted is published after a DeleteGroupFeed transaction is
// indexed.
type GroupFeedDeleted struct {
	FeedID ids.ID
}

func (GroupFeedDeleted) Kind() string { return "GroupFeedDeleted" }

// FeedMessageIndexed is published after a new message (personal, chat, or
// group feed) is persisted (spec §4.F "e.g. ... FeedMessageIndexed").
type FeedMessageIndexed struct {
	MessageID ids.ID
	FeedID    ids.ID
}

func (FeedMessageIndexed) Kind() string { return "FeedMessageIndexed" }

// RewardCredited is published after a block's reward transaction is
// indexed.
type RewardCredited struct {
	Recipient identity.Address
	Token     string
}

func (RewardCredited) Kind() string { return "RewardCredited" }

// FundsTransferIndexed is published after a FundsTransfer transaction is
// indexed.
type FundsTransferIndexed struct {
	From  identity.Address
	To    identity.Address
	Token string
}

func (FundsTransferIndexed) Kind() string { return "FundsTransferIndexed" }

// IndexingErrorOccurred is published every time a strategy's Handle call
// fails; observability code (internal/metrics) subscribes to this to track
// the indexing-error rate without the indexer importing metrics directly.
type IndexingErrorOccurred struct {
	TransactionID ids.ID
	PayloadKind   string
}

func (IndexingErrorOccurred) Kind() string { return "IndexingErrorOccurred" }

// ReactionVoteIndexed is published after a ReactionVote transaction is
// successfully processed by the anonymous reaction subsystem.
type ReactionVoteIndexed struct {
	FeedID ids.ID
}

func (ReactionVoteIndexed) Kind() string { return "ReactionVoteIndexed" }
