package txn

import "github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"

// PayloadKind identifies a transaction payload schema by stable UUID
// (spec §6 registry). It is the dispatch key for mempool content handlers
// and indexer strategies alike.
type PayloadKind ids.ID

func (k PayloadKind) String() string { return ids.ID(k).String() }

// Known payload kinds. UUIDs are taken verbatim from spec §6 where the
// spec gives a full value; where spec §6 elides the middle of the UUID
// (e.g. "e054b791-…85ec3") the full canonical UUID is reconstructed here
// once and used consistently everywhere else in the codebase.
var (
	KindReward                 = PayloadKind(ids.MustParseUUID("e054b791-0000-4000-8000-00000085ec3a"))
	KindFundsTransfer          = PayloadKind(ids.MustParseUUID("5e1b1c2d-3e4f-4a5b-9c6d-7e8f9a0b1c2d"))
	KindNewPersonalFeed        = PayloadKind(ids.MustParseUUID("70c718a9-0000-4000-8000-000000084386"))
	KindNewChatFeed            = PayloadKind(ids.MustParseUUID("6f1e2d3c-4b5a-4978-8675-4a3b2c1d0e9f"))
	KindNewGroupFeed           = PayloadKind(ids.MustParseUUID("a1b2c3d4-e5f6-4789-8abc-def012345c5d"))
	KindJoinGroupFeed          = PayloadKind(ids.MustParseUUID("b2c3d4e5-f6a7-4890-89bc-def012345d6e"))
	KindBanFromGroup           = PayloadKind(ids.MustParseUUID("a7b8c9d0-e1f2-4345-8678-9abcdef0c1d0"))
	KindUnbanFromGroup         = PayloadKind(ids.MustParseUUID("b8c9d0e1-f2a3-4456-8789-abcdef01d2e1"))
	KindBlockMember            = PayloadKind(ids.MustParseUUID("e5f6a7b8-c9d0-4567-89ab-cdef0123b9b0"))
	KindUnblockMember          = PayloadKind(ids.MustParseUUID("f6a7b8c9-d0e1-4678-9abc-def01234c0c1"))
	KindPromoteToAdmin         = PayloadKind(ids.MustParseUUID("c9d0e1f2-a3b4-4789-abcd-ef012345f3f2"))
	KindAddMemberToGroup       = PayloadKind(ids.MustParseUUID("d4e5f6a7-b8c9-489a-bcde-f0123456f8a3"))
	KindGroupKeyRotation       = PayloadKind(ids.MustParseUUID("a3b4c5d6-e7f8-4abc-def0-123456789d7d"))
	KindUpdateGroupTitle       = PayloadKind(ids.MustParseUUID("d0e1f2a3-b4c5-4def-0123-456789abf4a0"))
	KindUpdateGroupDescription = PayloadKind(ids.MustParseUUID("e1f2a3b4-c5d6-4ef0-1234-56789abcb5b1"))
	KindDeleteGroupFeed        = PayloadKind(ids.MustParseUUID("f2a3b4c5-d6e7-4f01-2345-6789abcdc6c2"))
	KindNewFeedMessage         = PayloadKind(ids.MustParseUUID("3309d79b-0000-4000-8000-000000024264"))
	KindNewGroupFeedMessage    = PayloadKind(ids.MustParseUUID("b4c5d6e7-f8a9-4012-3456-789abcdefe8e"))
	KindReactionVote           = PayloadKind(ids.MustParseUUID("c5d6e7f8-a9b0-4123-4567-89abcdef0f9f"))
)

// registry maps a payload kind to a zero-value factory used by the wire
// decoder (wire.go) to construct the right concrete Payload before
// unmarshaling its kind-specific fields. Populated by init() below so that,
// per spec §4.B/C, "adding a new payload kind requires only adding a handler
// and a strategy" elsewhere — this table is the one place a brand-new kind
// must also appear, to be decodable at all.
var registry = map[PayloadKind]func() Payload{}

func register(kind PayloadKind, factory func() Payload) {
	registry[kind] = factory
}

func init() {
	register(KindReward, func() Payload { return &RewardPayload{} })
	register(KindFundsTransfer, func() Payload { return &FundsTransferPayload{} })
	register(KindNewPersonalFeed, func() Payload { return &NewPersonalFeedPayload{} })
	register(KindNewChatFeed, func() Payload { return &NewChatFeedPayload{} })
	register(KindNewGroupFeed, func() Payload { return &NewGroupFeedPayload{} })
	register(KindJoinGroupFeed, func() Payload { return &JoinGroupFeedPayload{} })
	register(KindBanFromGroup, func() Payload { return &BanFromGroupPayload{} })
	register(KindUnbanFromGroup, func() Payload { return &UnbanFromGroupPayload{} })
	register(KindBlockMember, func() Payload { return &BlockMemberPayload{} })
	register(KindUnblockMember, func() Payload { return &UnblockMemberPayload{} })
	register(KindPromoteToAdmin, func() Payload { return &PromoteToAdminPayload{} })
	register(KindAddMemberToGroup, func() Payload { return &AddMemberToGroupPayload{} })
	register(KindGroupKeyRotation, func() Payload { return &GroupKeyRotationPayload{} })
	register(KindUpdateGroupTitle, func() Payload { return &UpdateGroupTitlePayload{} })
	register(KindUpdateGroupDescription, func() Payload { return &UpdateGroupDescriptionPayload{} })
	register(KindDeleteGroupFeed, func() Payload { return &DeleteGroupFeedPayload{} })
	register(KindNewFeedMessage, func() Payload { return &NewFeedMessagePayload{} })
	register(KindNewGroupFeedMessage, func() Payload { return &NewGroupFeedMessagePayload{} })
	register(KindReactionVote, func() Payload { return &ReactionVotePayload{} })
}

// NewPayload instantiates the zero value for kind, or (nil, false) if kind
// is unregistered (spec §7 UnknownPayloadKind).
func NewPayload(kind PayloadKind) (Payload, bool) {
	factory, ok := registry[kind]
	if !ok {
		return nil, false
	}
	return factory(), true
}
