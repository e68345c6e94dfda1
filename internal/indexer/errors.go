package indexer

import (
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
	"github.com/Hushnetwork-social/hush-server-node-sub007/pkg/utils"
)

func unknownFeed(feedID ids.ID) error {
	return utils.Newf(utils.ErrUnknownFeed, "unknown feed %s", feedID.String())
}
