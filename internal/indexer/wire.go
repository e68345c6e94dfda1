package indexer

import (
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/eventbus"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/reaction"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/storage"
)

// NewDefault builds an Indexer with every strategy spec §4.F names,
// subscribed to BlockCreated on bus.
func NewDefault(store *storage.MemStore, bus *eventbus.Bus, reactionSvc *reaction.Service) *Indexer {
	strategies := []Strategy{
		personalFeedStrategy{bus: bus},
		chatFeedStrategy{bus: bus},
		groupFeedStrategy{bus: bus},
		deleteGroupFeedStrategy{bus: bus},
		updateGroupTitleStrategy{bus: bus},
		updateGroupDescriptionStrategy{bus: bus},
		joinGroupFeedStrategy{bus: bus},
		addMemberToGroupStrategy{bus: bus},
		banFromGroupStrategy{bus: bus},
		unbanFromGroupStrategy{bus: bus},
		blockMemberStrategy{bus: bus},
		unblockMemberStrategy{bus: bus},
		promoteToAdminStrategy{bus: bus},
		groupKeyRotationStrategy{bus: bus},
		feedMessageStrategy{bus: bus},
		groupFeedMessageStrategy{bus: bus, reaction: reactionSvc},
		rewardStrategy{bus: bus},
		fundsTransferStrategy{bus: bus},
		reactionVoteStrategy{bus: bus, reaction: reactionSvc},
	}
	return New(store, bus, strategies)
}
