package chaintracker

import (
	"github.com/kaspanet/chaintracker/domain/chaintracker/model"
	"github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"
	"github.com/kaspanet/chaintracker/infrastructure/logger"
)

// ChainTracker follows the heaviest chain built on top of an anchor, out of
// blocks that may arrive in any order and from competing forks. Every change
// of that chain is reported to subscribers as a series of ChainChanges.
//
// A ChainTracker has a single writer: AddNodes, AddHeaders and LockToIndex
// must not be called concurrently with each other or with any query.
// Subscriber queues may be drained from any goroutine.
type ChainTracker interface {
	model.ChainView

	AddNodes(records []*externalapi.BlockRecord) ([]*externalapi.ChainChange, error)
	AddHeaders(headers []externalapi.BlockHeader) ([]*externalapi.ChainChange, error)
	LockToIndex(targetIndex uint64) error
	Anchor() *externalapi.DomainHash

	Subscribe() model.ChangeQueue
	Unsubscribe(queue model.ChangeQueue)
}

type chainTracker struct {
	model.ChainView

	// baseAnchor is the hash the oldest locked block points to
	baseAnchor *externalapi.DomainHash
	// selectedChain is the selected chain every subscriber was last told about
	selectedChain []*externalapi.DomainHash

	weightStore      model.WeightStore
	forkForest       model.ForkForest
	lockedChainStore model.LockedChainStore
	anchorStore      model.AnchorStore
	indexTable       model.IndexTable

	forkSelector      model.ForkSelector
	reorgDifferencer  model.ReorgDifferencer
	lockManager       model.LockManager
	changeBroadcaster model.ChangeBroadcaster
}

// AddNodes ingests the given records and returns the changes they caused to
// the selected chain. Records of locked blocks are ignored.
func (ct *chainTracker) AddNodes(records []*externalapi.BlockRecord) ([]*externalapi.ChainChange, error) {
	onEnd := logger.LogAndMeasureExecutionTime(log, "AddNodes")
	defer onEnd()

	edges := make([]*model.ForkForestEdge, 0, len(records))
	for _, record := range records {
		if ct.isFinalized(record.Hash) {
			log.Tracef("Ignoring already locked block %s", record.Hash)
			continue
		}
		if record.Hash.Equal(record.ParentHash) {
			log.Warnf("Ignoring block %s which points to itself", record.Hash)
			continue
		}
		if ct.forkForest.Contains(record.Hash) {
			log.Tracef("Setting the weight of known block %s to %d", record.Hash, record.Weight)
		}
		ct.weightStore.Stage(record.Hash, record.Weight)
		edges = append(edges, &model.ForkForestEdge{
			Child:  record.Hash.Clone(),
			Parent: record.ParentHash.Clone(),
		})
	}
	ct.forkForest.AddEdges(edges)
	ct.forkSelector.Invalidate()

	newSelectedChain := ct.forkSelector.SelectedChain(ct.anchorStore.Anchor())
	return ct.publishSelectedChain(ct.selectedChain, newSelectedChain)
}

// AddHeaders is AddNodes for anything that implements BlockHeader
func (ct *chainTracker) AddHeaders(headers []externalapi.BlockHeader) ([]*externalapi.ChainChange, error) {
	records := make([]*externalapi.BlockRecord, len(headers))
	for i, header := range headers {
		records[i] = &externalapi.BlockRecord{
			Hash:       header.BlockHash(),
			ParentHash: header.ParentHash(),
			Weight:     header.Weight(),
		}
	}
	return ct.AddNodes(records)
}

// LockToIndex locks every block below targetIndex. Locking doesn't move any
// block, so no changes are published.
func (ct *chainTracker) LockToIndex(targetIndex uint64) error {
	priorLockedLength := ct.lockedChainStore.Len()
	err := ct.lockManager.LockToIndex(targetIndex)
	if err != nil {
		return err
	}
	newlyLocked := ct.lockedChainStore.Len() - priorLockedLength
	if newlyLocked == 0 {
		return nil
	}

	var expectedSelectedChain []*externalapi.DomainHash
	if newlyLocked < uint64(len(ct.selectedChain)) {
		expectedSelectedChain = ct.selectedChain[newlyLocked:]
	}
	newSelectedChain := ct.forkSelector.SelectedChain(ct.anchorStore.Anchor())
	if externalapi.HashesEqual(expectedSelectedChain, newSelectedChain) {
		ct.selectedChain = externalapi.CloneHashes(newSelectedChain)
		return nil
	}

	log.Warnf("The selected chain changed while locking to %d", targetIndex)
	_, err = ct.publishSelectedChain(expectedSelectedChain, newSelectedChain)
	return err
}

// publishSelectedChain applies the changes from oldSelectedChain to
// newSelectedChain to the index table and broadcasts them. On failure the
// view stays at oldSelectedChain.
func (ct *chainTracker) publishSelectedChain(oldSelectedChain, newSelectedChain []*externalapi.DomainHash) (
	[]*externalapi.ChainChange, error) {

	lockedLength := ct.lockedChainStore.Len()
	changes, err := ct.reorgDifferencer.ChainChanges(oldSelectedChain, newSelectedChain, lockedLength)
	if err != nil {
		log.Criticalf("Failed to diff the selected chain, the chain tracker is corrupted: %+v", err)
		ct.keepSelectedChain(oldSelectedChain)
		return nil, err
	}

	err = ct.indexTable.Apply(changes)
	if err != nil {
		log.Criticalf("Failed to apply changes to the index table, the chain tracker is corrupted: %+v", err)
		ct.keepSelectedChain(oldSelectedChain)
		return nil, err
	}

	ct.selectedChain = externalapi.CloneHashes(newSelectedChain)
	ct.changeBroadcaster.Broadcast(changes)

	if len(changes) > 0 {
		log.Debugf("Published %d changes, chain length is %d", len(changes), lockedLength+uint64(len(newSelectedChain)))
	}
	return changes, nil
}

// keepSelectedChain makes selectedChain the chain served by the view until
// the next write
func (ct *chainTracker) keepSelectedChain(selectedChain []*externalapi.DomainHash) {
	ct.selectedChain = externalapi.CloneHashes(selectedChain)
	ct.forkSelector.StageSelectedChain(ct.anchorStore.Anchor(), ct.selectedChain)
}

// isFinalized returns whether blockHash can no longer be reorganized
func (ct *chainTracker) isFinalized(blockHash *externalapi.DomainHash) bool {
	return blockHash.Equal(ct.baseAnchor) || ct.lockedChainStore.Contains(blockHash)
}

// Anchor returns the hash the selected chain is built upon
func (ct *chainTracker) Anchor() *externalapi.DomainHash {
	return ct.anchorStore.Anchor()
}

// Subscribe returns a queue receiving every change published from now on
func (ct *chainTracker) Subscribe() model.ChangeQueue {
	return ct.changeBroadcaster.Subscribe()
}

func (ct *chainTracker) Unsubscribe(queue model.ChangeQueue) {
	ct.changeBroadcaster.Unsubscribe(queue)
}
