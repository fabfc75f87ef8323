package reorgdifferencer

import (
	"github.com/kaspanet/chaintracker/domain/chaintracker/model"
	"github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"
)

type reorgDifferencer struct {
	forkForest model.ForkForest
}

// New instantiates a new ReorgDifferencer
func New(forkForest model.ForkForest) model.ReorgDifferencer {
	return &reorgDifferencer{
		forkForest: forkForest,
	}
}

// ChainChanges returns the changes that turn oldChain into newChain when
// replayed in order. Both chains are oldest-to-newest and sit right on top of
// lockedLength locked blocks. Removes come first, tip-first, indexed against
// the old length. Adds follow, oldest-first, indexed against the new length.
func (rd *reorgDifferencer) ChainChanges(oldChain, newChain []*externalapi.DomainHash,
	lockedLength uint64) ([]*externalapi.ChainChange, error) {

	removedPath, addedPath, err := rd.divergencePaths(oldChain, newChain)
	if err != nil {
		return nil, err
	}

	changes := make([]*externalapi.ChainChange, 0, len(removedPath)+len(addedPath))

	oldLength := lockedLength + uint64(len(oldChain))
	for i, blockHash := range removedPath {
		changes = append(changes, &externalapi.ChainChange{
			Kind:  externalapi.ChainChangeRemove,
			Hash:  blockHash,
			Index: oldLength - uint64(i) - 1,
		})
	}

	newLength := lockedLength + uint64(len(newChain))
	for i := len(addedPath) - 1; i >= 0; i-- {
		changes = append(changes, &externalapi.ChainChange{
			Kind:  externalapi.ChainChangeAdd,
			Hash:  addedPath[i],
			Index: newLength - uint64(i) - 1,
		})
	}

	if len(removedPath) > 0 {
		log.Debugf("Reorg: %d removed, %d added, new length %d", len(removedPath), len(addedPath), newLength)
	} else {
		log.Tracef("Chain extended by %d, new length %d", len(addedPath), newLength)
	}
	return changes, nil
}

// divergencePaths returns the tip-first paths of oldChain and newChain that
// are not shared by both.
func (rd *reorgDifferencer) divergencePaths(oldChain, newChain []*externalapi.DomainHash) (
	removedPath, addedPath []*externalapi.DomainHash, err error) {

	if len(oldChain) == 0 || len(newChain) == 0 {
		return reversed(oldChain), reversed(newChain), nil
	}

	oldTip := oldChain[len(oldChain)-1]
	newTip := newChain[len(newChain)-1]
	pathFromOld, pathFromNew, err := rd.forkForest.FindAncestralPath(oldTip, newTip)
	if err != nil {
		log.Criticalf("Could not find the common ancestor of %s and %s: %s", oldTip, newTip, err)
		return nil, nil, err
	}

	// The last element of both paths is the common ancestor
	return pathFromOld[:len(pathFromOld)-1], pathFromNew[:len(pathFromNew)-1], nil
}

func reversed(chain []*externalapi.DomainHash) []*externalapi.DomainHash {
	result := make([]*externalapi.DomainHash, len(chain))
	for i, blockHash := range chain {
		result[len(chain)-i-1] = blockHash
	}
	return result
}
