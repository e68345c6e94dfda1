package txn

import (
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/amount"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/identity"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
)

// Payload is the tagged-union member interface (spec §9 "Polymorphism of
// transactions"). Kind must return the same constant the payload was
// registered under in payload_kinds.go.
type Payload interface {
	Kind() PayloadKind
}

// FeedType enumerates spec §3's Feed.feed_type values.
type FeedType int

const (
	FeedPersonal FeedType = iota
	FeedChat
	FeedGroup
)

// ParticipantRole enumerates spec §3's FeedParticipant.role values.
type ParticipantRole int

const (
	RoleOwner ParticipantRole = iota
	RoleAdmin
	RoleMember
	RoleGuest
	RoleBlocked
	RoleBanned
)

// KeyRotationTrigger enumerates spec §3's GroupFeedKeyGeneration.trigger.
type KeyRotationTrigger int

const (
	TriggerJoin KeyRotationTrigger = iota
	TriggerLeave
	TriggerBan
	TriggerUnban
	TriggerManual
)

// RewardPayload — producer-issued reward (spec §6).
type RewardPayload struct {
	Token     string        `json:"token"`
	Precision int           `json:"precision"`
	Amount    amount.Amount `json:"amount"`
}

func (RewardPayload) Kind() PayloadKind { return KindReward }

// FundsTransferPayload (spec §6).
type FundsTransferPayload struct {
	Token     string              `json:"token"`
	Precision int                 `json:"precision"`
	Amount    amount.Amount       `json:"amount"`
	From      identity.Address  `json:"from"`
	To        identity.Address  `json:"to"`
	FeedID    ids.ID              `json:"feed_id,omitempty"`
}

func (FundsTransferPayload) Kind() PayloadKind { return KindFundsTransfer }

// NewPersonalFeedPayload (spec §6).
type NewPersonalFeedPayload struct {
	FeedID            ids.ID   `json:"feed_id"`
	Title             string   `json:"title"`
	FeedType          FeedType `json:"feed_type"`
	EncryptedFeedKey  []byte   `json:"encrypted_feed_key"`
}

func (NewPersonalFeedPayload) Kind() PayloadKind { return KindNewPersonalFeed }

// ChatParticipant is one entry of NewChatFeedPayload.Participants.
type ChatParticipant struct {
	FeedID         ids.ID             `json:"feed_id"`
	Address        identity.Address `json:"address"`
	EncryptedKey   []byte             `json:"enc_key"`
}

// NewChatFeedPayload (spec §6). Chat feeds have exactly two participants.
type NewChatFeedPayload struct {
	FeedID       ids.ID            `json:"feed_id"`
	FeedType     FeedType          `json:"feed_type"`
	Participants []ChatParticipant `json:"participants"`
}

func (NewChatFeedPayload) Kind() PayloadKind { return KindNewChatFeed }

// GroupParticipantSeed is one initial participant of NewGroupFeedPayload.
type GroupParticipantSeed struct {
	Address      identity.Address `json:"address"`
	Role         ParticipantRole    `json:"role"`
	EncryptedKey []byte             `json:"encrypted_key"`
}

// NewGroupFeedPayload (spec §6).
type NewGroupFeedPayload struct {
	FeedID       ids.ID                 `json:"feed_id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	IsPublic     bool                   `json:"is_public"`
	Participants []GroupParticipantSeed `json:"participants"`
}

func (NewGroupFeedPayload) Kind() PayloadKind { return KindNewGroupFeed }

// JoinGroupFeedPayload (spec §6).
type JoinGroupFeedPayload struct {
	FeedID               ids.ID             `json:"feed_id"`
	UserAddress          identity.Address `json:"user_address"`
	InvitationSignature  []byte             `json:"invitation_signature,omitempty"`
}

func (JoinGroupFeedPayload) Kind() PayloadKind { return KindJoinGroupFeed }

// BanFromGroupPayload (spec §6).
type BanFromGroupPayload struct {
	FeedID ids.ID             `json:"feed_id"`
	Admin  identity.Address `json:"admin"`
	Banned identity.Address `json:"banned"`
	Reason string             `json:"reason,omitempty"`
}

func (BanFromGroupPayload) Kind() PayloadKind { return KindBanFromGroup }

// UnbanFromGroupPayload (spec §6).
type UnbanFromGroupPayload struct {
	FeedID   ids.ID             `json:"feed_id"`
	Admin    identity.Address `json:"admin"`
	Unbanned identity.Address `json:"unbanned"`
}

func (UnbanFromGroupPayload) Kind() PayloadKind { return KindUnbanFromGroup }

// BlockMemberPayload (spec §6).
type BlockMemberPayload struct {
	FeedID  ids.ID             `json:"feed_id"`
	Admin   identity.Address `json:"admin"`
	Blocked identity.Address `json:"blocked"`
	Reason  string             `json:"reason,omitempty"`
}

func (BlockMemberPayload) Kind() PayloadKind { return KindBlockMember }

// UnblockMemberPayload (spec §6).
type UnblockMemberPayload struct {
	FeedID    ids.ID             `json:"feed_id"`
	Admin     identity.Address `json:"admin"`
	Unblocked identity.Address `json:"unblocked"`
}

func (UnblockMemberPayload) Kind() PayloadKind { return KindUnblockMember }

// PromoteToAdminPayload (spec §6).
type PromoteToAdminPayload struct {
	FeedID ids.ID             `json:"feed_id"`
	Admin  identity.Address `json:"admin"`
	Member identity.Address `json:"member"`
}

func (PromoteToAdminPayload) Kind() PayloadKind { return KindPromoteToAdmin }

// AddMemberToGroupPayload (spec §6).
type AddMemberToGroupPayload struct {
	FeedID                ids.ID             `json:"feed_id"`
	Admin                 identity.Address `json:"admin"`
	NewMember             identity.Address `json:"new_member"`
	NewMemberEncryptKey   []byte             `json:"new_member_encrypt_key"`
}

func (AddMemberToGroupPayload) Kind() PayloadKind { return KindAddMemberToGroup }

// EncryptedKeyEntry is one per-member row of a GroupKeyRotationPayload
// (spec §3 GroupFeedKeyGeneration "N encrypted-key rows, one per eligible
// member").
type EncryptedKeyEntry struct {
	Member       identity.Address `json:"member"`
	EncryptedKey []byte             `json:"encrypted_key"`
}

// GroupKeyRotationPayload (spec §6).
type GroupKeyRotationPayload struct {
	FeedID        ids.ID              `json:"feed_id"`
	NewGen        uint64              `json:"new_gen"`
	PrevGen       uint64              `json:"prev_gen"`
	ValidFromBlock uint64             `json:"valid_from_block"`
	EncryptedKeys []EncryptedKeyEntry `json:"encrypted_keys"`
	Trigger       KeyRotationTrigger  `json:"trigger"`
}

func (GroupKeyRotationPayload) Kind() PayloadKind { return KindGroupKeyRotation }

// UpdateGroupTitlePayload (spec §6).
type UpdateGroupTitlePayload struct {
	FeedID   ids.ID             `json:"feed_id"`
	Admin    identity.Address `json:"admin"`
	NewTitle string             `json:"new_title"`
}

func (UpdateGroupTitlePayload) Kind() PayloadKind { return KindUpdateGroupTitle }

// UpdateGroupDescriptionPayload (spec §6).
type UpdateGroupDescriptionPayload struct {
	FeedID         ids.ID             `json:"feed_id"`
	Admin          identity.Address `json:"admin"`
	NewDescription string             `json:"new_description"`
}

func (UpdateGroupDescriptionPayload) Kind() PayloadKind { return KindUpdateGroupDescription }

// DeleteGroupFeedPayload (spec §6).
type DeleteGroupFeedPayload struct {
	FeedID ids.ID             `json:"feed_id"`
	Admin  identity.Address `json:"admin"`
}

func (DeleteGroupFeedPayload) Kind() PayloadKind { return KindDeleteGroupFeed }

// NewFeedMessagePayload (spec §6).
type NewFeedMessagePayload struct {
	MessageID         ids.ID  `json:"message_id"`
	FeedID            ids.ID  `json:"feed_id"`
	Content           []byte  `json:"content"`
	ReplyTo           *ids.ID `json:"reply_to,omitempty"`
	KeyGeneration     *uint64 `json:"key_generation,omitempty"`
	AuthorCommitment  []byte  `json:"author_commitment,omitempty"`
}

func (NewFeedMessagePayload) Kind() PayloadKind { return KindNewFeedMessage }

// NewGroupFeedMessagePayload (spec §6): identical shape to
// NewFeedMessagePayload, but KeyGeneration and AuthorCommitment are required
// (only ReplyTo stays optional) — enforced in the mempool content handler,
// not by the wire type.
type NewGroupFeedMessagePayload struct {
	MessageID        ids.ID  `json:"message_id"`
	FeedID           ids.ID  `json:"feed_id"`
	Content          []byte  `json:"content"`
	ReplyTo          *ids.ID `json:"reply_to,omitempty"`
	KeyGeneration    uint64  `json:"key_generation"`
	AuthorCommitment []byte  `json:"author_commitment"`
}

func (NewGroupFeedMessagePayload) Kind() PayloadKind { return KindNewGroupFeedMessage }

// ReactionVotePayload (spec §6). Ciphertext arrays are six ElGamal
// ciphertext halves (one per emoji slot), each a Baby JubJub curve point
// encoded as raw bytes; decoding into curve points happens in
// internal/reaction.
type ReactionVotePayload struct {
	MessageID        ids.ID   `json:"message_id"`
	FeedID           ids.ID   `json:"feed_id"`
	Proof            []byte   `json:"proof"`
	Nullifier        [32]byte `json:"nullifier"`
	CiphertextC1     [6][]byte `json:"ciphertext_c1"`
	CiphertextC2     [6][]byte `json:"ciphertext_c2"`
	MerkleRoot       [32]byte `json:"merkle_root"`
	AuthorCommitment [32]byte `json:"author_commitment"`
	CircuitVersion   string   `json:"circuit_version"`
	EncryptedBackup  []byte   `json:"encrypted_backup,omitempty"`
}

func (ReactionVotePayload) Kind() PayloadKind { return KindReactionVote }
