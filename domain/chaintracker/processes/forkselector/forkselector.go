package forkselector

import (
	"math"
	"math/bits"

	"github.com/kaspanet/chaintracker/domain/chaintracker/model"
	"github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"
)

type forkSelector struct {
	forkForest  model.ForkForest
	weightStore model.WeightStore

	cachedAnchor        *externalapi.DomainHash
	cachedSelectedChain []*externalapi.DomainHash
}

// New instantiates a new ForkSelector
func New(forkForest model.ForkForest, weightStore model.WeightStore) model.ForkSelector {
	return &forkSelector{
		forkForest:  forkForest,
		weightStore: weightStore,
	}
}

func (fs *forkSelector) SelectedChain(anchor *externalapi.DomainHash) []*externalapi.DomainHash {
	if fs.cachedAnchor != nil && fs.cachedAnchor.Equal(anchor) {
		return fs.cachedSelectedChain
	}

	fs.cachedSelectedChain = fs.selectChain(anchor)
	fs.cachedAnchor = anchor.Clone()
	return fs.cachedSelectedChain
}

func (fs *forkSelector) Invalidate() {
	fs.cachedAnchor = nil
	fs.cachedSelectedChain = nil
}

func (fs *forkSelector) StageSelectedChain(anchor *externalapi.DomainHash, selectedChain []*externalapi.DomainHash) {
	fs.cachedSelectedChain = externalapi.CloneHashes(selectedChain)
	fs.cachedAnchor = anchor.Clone()
}

// selectChain returns the heaviest chain ending at anchor. Ties go to the
// chain enumerated first, and a chain is selected only if it weighs more
// than nothing.
func (fs *forkSelector) selectChain(anchor *externalapi.DomainHash) []*externalapi.DomainHash {
	chains := fs.forkForest.AllChainsEndingAt(anchor)

	var bestChain []*externalapi.DomainHash
	var bestWeight uint64
	for _, chain := range chains {
		weight := fs.chainWeight(chain)
		if weight > bestWeight {
			bestChain = chain
			bestWeight = weight
		}
	}
	if bestChain == nil {
		log.Tracef("None of the %d chains ending at anchor %s has any weight", len(chains), anchor)
		return []*externalapi.DomainHash{}
	}
	log.Debugf("Selected chain with tip %s and weight %d out of %d candidates",
		bestChain[0], bestWeight, len(chains))

	// bestChain is tip-first and ends with the anchor
	selectedChain := make([]*externalapi.DomainHash, 0, len(bestChain)-1)
	for i := len(bestChain) - 2; i >= 0; i-- {
		selectedChain = append(selectedChain, bestChain[i])
	}
	return selectedChain
}

// chainWeight sums the weights of the given hashes. Unknown hashes weigh
// nothing, and the sum saturates instead of overflowing.
func (fs *forkSelector) chainWeight(chain []*externalapi.DomainHash) uint64 {
	var sum uint64
	for _, blockHash := range chain {
		weight, _ := fs.weightStore.Weight(blockHash)
		var carry uint64
		sum, carry = bits.Add64(sum, weight, 0)
		if carry != 0 {
			return math.MaxUint64
		}
	}
	return sum
}
