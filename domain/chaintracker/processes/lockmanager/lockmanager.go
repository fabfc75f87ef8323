package lockmanager

import (
	"github.com/kaspanet/chaintracker/domain/chaintracker/chainerrors"
	"github.com/kaspanet/chaintracker/domain/chaintracker/model"
	"github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"
	"github.com/pkg/errors"
)

type lockManager struct {
	forkForest       model.ForkForest
	forkSelector     model.ForkSelector
	weightStore      model.WeightStore
	lockedChainStore model.LockedChainStore
	anchorStore      model.AnchorStore

	finalizationHook model.FinalizationHook
}

// New instantiates a new LockManager. finalizationHook may be nil.
func New(
	forkForest model.ForkForest,
	forkSelector model.ForkSelector,
	weightStore model.WeightStore,
	lockedChainStore model.LockedChainStore,
	anchorStore model.AnchorStore,
	finalizationHook model.FinalizationHook) model.LockManager {

	return &lockManager{
		forkForest:       forkForest,
		forkSelector:     forkSelector,
		weightStore:      weightStore,
		lockedChainStore: lockedChainStore,
		anchorStore:      anchorStore,
		finalizationHook: finalizationHook,
	}
}

// LockToIndex locks every position of the selected chain below targetIndex.
// Targets at or below the current locked length are ignored. Nothing changes
// if the finalization hook fails.
func (lm *lockManager) LockToIndex(targetIndex uint64) error {
	lockedLength := lm.lockedChainStore.Len()
	if targetIndex <= lockedLength {
		log.Tracef("Ignoring lock to %d: %d blocks are already locked", targetIndex, lockedLength)
		return nil
	}

	anchor := lm.anchorStore.Anchor()
	selectedChain := lm.forkSelector.SelectedChain(anchor)
	length := lockedLength + uint64(len(selectedChain))
	if targetIndex > length {
		return errors.Wrapf(chainerrors.ErrOutOfRange, "cannot lock up to index %d of a chain of length %d",
			targetIndex, length)
	}

	newlyLocked := lm.buildRecords(anchor, selectedChain[:targetIndex-lockedLength])

	if lm.finalizationHook != nil {
		err := lm.finalizationHook(newlyLocked, lockedLength)
		if err != nil {
			return errors.Wrapf(chainerrors.ErrFinalizationHookFailed, "locking %d blocks after index %d: %s",
				len(newlyLocked), lockedLength, err)
		}
	}

	baseAnchor := lm.baseAnchor()
	lm.lockedChainStore.Append(newlyLocked...)

	newAnchor := newlyLocked[len(newlyLocked)-1].Hash
	lm.pruneForkForest(baseAnchor, newAnchor)
	lm.anchorStore.Stage(newAnchor)
	lm.forkSelector.Invalidate()

	log.Infof("Locked %d blocks, locked length is now %d, new anchor is %s",
		len(newlyLocked), lm.lockedChainStore.Len(), newAnchor)
	return nil
}

// buildRecords chains the given oldest-first hashes to anchor and to each
// other
func (lm *lockManager) buildRecords(anchor *externalapi.DomainHash,
	blockHashes []*externalapi.DomainHash) []*externalapi.BlockRecord {

	records := make([]*externalapi.BlockRecord, len(blockHashes))
	parentHash := anchor
	for i, blockHash := range blockHashes {
		weight, _ := lm.weightStore.Weight(blockHash)
		records[i] = &externalapi.BlockRecord{
			Hash:       blockHash.Clone(),
			ParentHash: parentHash.Clone(),
			Weight:     weight,
		}
		parentHash = blockHash
	}
	return records
}

// baseAnchor returns the hash the oldest locked block points to, or the
// current anchor if nothing is locked yet
func (lm *lockManager) baseAnchor() *externalapi.DomainHash {
	oldest, ok := lm.lockedChainStore.RecordAt(0)
	if !ok {
		return lm.anchorStore.Anchor()
	}
	return oldest.ParentHash
}

func (lm *lockManager) isFinalized(baseAnchor, blockHash *externalapi.DomainHash) bool {
	return blockHash.Equal(baseAnchor) || lm.lockedChainStore.Contains(blockHash)
}

// pruneForkForest rebuilds the fork forest without locked blocks and without
// any subtree hanging off a finalized block other than newAnchor. Subtrees
// whose root is unknown are kept since they may still connect above newAnchor.
func (lm *lockManager) pruneForkForest(baseAnchor, newAnchor *externalapi.DomainHash) {
	keepsRoot := make(map[externalapi.DomainHash]bool)
	isKept := func(blockHash *externalapi.DomainHash) bool {
		var visited []*externalapi.DomainHash
		kept := false
		current := blockHash
		for {
			if known, ok := keepsRoot[*current]; ok {
				kept = known
				break
			}
			if current.Equal(newAnchor) {
				kept = true
				break
			}
			if lm.isFinalized(baseAnchor, current) {
				kept = false
				break
			}
			visited = append(visited, current)
			parent, ok := lm.forkForest.Parent(current)
			if !ok {
				kept = true
				break
			}
			current = parent
		}
		for _, visitedHash := range visited {
			keepsRoot[*visitedHash] = kept
		}
		return kept
	}

	edges := lm.forkForest.Edges()
	keptEdges := make([]*model.ForkForestEdge, 0, len(edges))
	for _, edge := range edges {
		if lm.lockedChainStore.Contains(edge.Child) {
			continue
		}
		if !isKept(edge.Parent) {
			continue
		}
		keptEdges = append(keptEdges, edge)
	}

	lm.forkForest.Rebuild(keptEdges)
	log.Debugf("Pruned the fork forest from %d to %d edges", len(edges), lm.forkForest.Len())
}
