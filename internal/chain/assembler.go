// Package chain implements HushNode's Block Assembler (spec §4.E): it turns
// a mempool snapshot into a committed block plus an updated chain-state
// pointer, atomically, and handles genesis bootstrap. Grounded on the
// teacher's Ledger.AppendBlock/LastBlockHash (core/ledger.go) and block-hash
// idiom (core/replication.go), generalised to HushNode's three-pointer
// chain-state row and reward-first transaction ordering.
package chain

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/amount"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/eventbus"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/identity"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/mempool"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/storage"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/txn"
)

var log = logrus.WithField("component", "assembler")

// Assembler builds and commits blocks (spec §4.E).
type Assembler struct {
	store    *storage.MemStore
	mempool  *mempool.Mempool
	identity *identity.Store
	bus      *eventbus.Bus

	rewardToken  string
	rewardAmount amount.Amount
}

// New builds an Assembler. rewardToken/rewardAmount are the producer
// reward issued as the first transaction of every block (spec §4.E step 3).
func New(store *storage.MemStore, mp *mempool.Mempool, identityStore *identity.Store, bus *eventbus.Bus, rewardToken string, rewardAmount amount.Amount) *Assembler {
	return &Assembler{
		store:        store,
		mempool:      mp,
		identity:     identityStore,
		bus:          bus,
		rewardToken:  rewardToken,
		rewardAmount: rewardAmount,
	}
}

// Assemble executes spec §4.E's seven steps atomically with respect to
// chain state. If no chain state exists yet, it bootstraps the genesis
// block instead (spec §4.E "Genesis").
func (a *Assembler) Assemble(ctx context.Context, pending []*txn.Transaction) (*txn.Block, error) {
	current, hasState := a.store.Read().ChainState()
	if !hasState {
		return a.assembleGenesis(ctx)
	}

	rewardTx, err := a.buildRewardTx()
	if err != nil {
		return nil, err
	}

	newIndex := current.BlockIndex + 1
	nextNextID := ids.New()

	ordered := make([]*txn.Transaction, 0, len(pending)+1)
	ordered = append(ordered, rewardTx)
	ordered = append(ordered, pending...) // mempool FIFO order preserved (spec §4.E step 4)

	block := &txn.Block{
		BlockID:         current.Next,
		BlockIndex:      newIndex,
		PreviousBlockID: current.Current,
		NextBlockID:     nextNextID,
		Timestamp:       time.Now().UTC(),
		Transactions:    ordered,
	}
	hash, err := computeBlockHash(block)
	if err != nil {
		return nil, err
	}
	block.Hash = hash

	w := a.store.Write()
	defer w.Rollback()
	w.PutBlock(block)
	w.SetChainState(txn.BlockchainState{
		StateID:    current.StateID,
		BlockIndex: newIndex,
		Previous:   current.Current,
		Current:    current.Next,
		Next:       nextNextID,
	})
	if err := w.Commit(); err != nil {
		return nil, err
	}

	committedIDs := make([]ids.ID, len(pending))
	for i, t := range pending {
		committedIDs[i] = t.ID
	}
	a.mempool.Remove(committedIDs)

	log.WithField("block_index", newIndex).WithField("tx_count", len(ordered)).Info("block assembled")
	if a.bus != nil {
		a.bus.Publish(BlockCreated{Block: block})
	}
	return block, nil
}

func (a *Assembler) assembleGenesis(ctx context.Context) (*txn.Block, error) {
	rewardTx, err := a.buildRewardTx()
	if err != nil {
		return nil, err
	}

	blockID := ids.New()
	nextID := ids.New()
	block := &txn.Block{
		BlockID:         blockID,
		BlockIndex:      0,
		PreviousBlockID: ids.Empty,
		NextBlockID:     nextID,
		Timestamp:       time.Now().UTC(),
		Transactions:    []*txn.Transaction{rewardTx},
	}
	hash, err := computeBlockHash(block)
	if err != nil {
		return nil, err
	}
	block.Hash = hash

	w := a.store.Write()
	defer w.Rollback()
	w.PutBlock(block)
	w.SetChainState(txn.BlockchainState{
		StateID:    ids.New(),
		BlockIndex: 0,
		Previous:   ids.Empty,
		Current:    blockID,
		Next:       nextID,
	})
	if err := w.Commit(); err != nil {
		return nil, err
	}

	log.WithField("block_id", blockID.String()).Info("genesis block assembled")
	if a.bus != nil {
		a.bus.Publish(BlockCreated{Block: block})
		a.bus.Publish(BlockchainInitialized{Genesis: block})
	}
	return block, nil
}

// buildRewardTx mints the producer reward transaction through the ordinary
// Unsigned -> Signed -> Validated lifecycle, with the producer standing in
// as both signer and cosigner: a reward has no separate user, but routing
// it through the same state machine avoids a parallel, unvalidated code
// path for the one kind of transaction nobody submits to the mempool.
func (a *Assembler) buildRewardTx() (*txn.Transaction, error) {
	tx := &txn.Transaction{
		ID:          ids.New(),
		PayloadKind: txn.KindReward,
		Timestamp:   time.Now().UTC(),
		State:       txn.Unsigned,
		Payload: &txn.RewardPayload{
			Token:     a.rewardToken,
			Precision: amount.Precision,
			Amount:    a.rewardAmount,
		},
	}

	digest, err := tx.Digest()
	if err != nil {
		return nil, err
	}
	sig, err := a.identity.SignAsProducer(digest)
	if err != nil {
		return nil, err
	}
	if err := tx.Sign(txn.UserSignature{Signatory: a.identity.ProducerAddress(), Signature: sig}); err != nil {
		return nil, err
	}

	cosignDigest, err := tx.CosignDigest()
	if err != nil {
		return nil, err
	}
	cosig, err := a.identity.SignAsProducer(cosignDigest)
	if err != nil {
		return nil, err
	}
	if err := tx.Validate(txn.ValidatorSignature{Signature: cosig}); err != nil {
		return nil, err
	}
	return tx, nil
}
