package chainview

import (
	"github.com/kaspanet/chaintracker/domain/chaintracker/chainerrors"
	"github.com/kaspanet/chaintracker/domain/chaintracker/model"
	"github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"
	"github.com/pkg/errors"
)

type chainView struct {
	lockedChainStore model.LockedChainStore
	anchorStore      model.AnchorStore
	indexTable       model.IndexTable
	weightStore      model.WeightStore
	forkSelector     model.ForkSelector
}

// New instantiates a new ChainView
func New(
	lockedChainStore model.LockedChainStore,
	anchorStore model.AnchorStore,
	indexTable model.IndexTable,
	weightStore model.WeightStore,
	forkSelector model.ForkSelector) model.ChainView {

	return &chainView{
		lockedChainStore: lockedChainStore,
		anchorStore:      anchorStore,
		indexTable:       indexTable,
		weightStore:      weightStore,
		forkSelector:     forkSelector,
	}
}

func (cv *chainView) selectedChain() []*externalapi.DomainHash {
	return cv.forkSelector.SelectedChain(cv.anchorStore.Anchor())
}

// Length returns the amount of locked blocks plus the length of the selected chain
func (cv *chainView) Length() uint64 {
	return cv.lockedChainStore.Len() + uint64(len(cv.selectedChain()))
}

func (cv *chainView) LockedLength() uint64 {
	return cv.lockedChainStore.Len()
}

// RecordAt returns the record at the given index. Negative indexes count
// back from the end of the chain, so -1 is the tip.
func (cv *chainView) RecordAt(index int64) (*externalapi.BlockRecord, error) {
	lockedLength := cv.lockedChainStore.Len()
	selectedChain := cv.selectedChain()
	length := lockedLength + uint64(len(selectedChain))

	normalizedIndex, err := normalizeIndex(index, length)
	if err != nil {
		return nil, err
	}

	if normalizedIndex < lockedLength {
		record, _ := cv.lockedChainStore.RecordAt(normalizedIndex)
		return record, nil
	}

	position := normalizedIndex - lockedLength
	blockHash := selectedChain[position]
	parentHash := cv.anchorStore.Anchor()
	if position > 0 {
		parentHash = selectedChain[position-1]
	}
	weight, _ := cv.weightStore.Weight(blockHash)
	return &externalapi.BlockRecord{
		Hash:       blockHash.Clone(),
		ParentHash: parentHash.Clone(),
		Weight:     weight,
	}, nil
}

// HashAt returns the hash at the given index. Unlocked positions are looked
// up in the index table.
func (cv *chainView) HashAt(index int64) (*externalapi.DomainHash, error) {
	normalizedIndex, err := normalizeIndex(index, cv.Length())
	if err != nil {
		return nil, err
	}
	if normalizedIndex >= cv.lockedChainStore.Len() {
		blockHash, ok := cv.indexTable.HashAt(normalizedIndex)
		if ok {
			return blockHash.Clone(), nil
		}
	}

	record, err := cv.RecordAt(int64(normalizedIndex))
	if err != nil {
		return nil, err
	}
	return record.Hash, nil
}

// IndexOf returns the absolute index of blockHash, if it's on the chain
func (cv *chainView) IndexOf(blockHash *externalapi.DomainHash) (uint64, bool) {
	index, ok := cv.lockedChainStore.IndexOf(blockHash)
	if ok {
		return index, true
	}
	index, ok = cv.indexTable.IndexOf(blockHash)
	if !ok || index < cv.lockedChainStore.Len() {
		return 0, false
	}
	return index, true
}

// TipHash returns the hash of the newest block of the chain, or the anchor if
// the chain is empty
func (cv *chainView) TipHash() *externalapi.DomainHash {
	selectedChain := cv.selectedChain()
	if len(selectedChain) == 0 {
		return cv.anchorStore.Anchor()
	}
	return selectedChain[len(selectedChain)-1]
}

// IsHashKnown returns whether blockHash was ever ingested or locked, or is
// the hash the chain is built upon
func (cv *chainView) IsHashKnown(blockHash *externalapi.DomainHash) bool {
	if _, ok := cv.weightStore.Weight(blockHash); ok {
		return true
	}
	if cv.lockedChainStore.Contains(blockHash) {
		return true
	}
	oldest, ok := cv.lockedChainStore.RecordAt(0)
	if ok {
		return oldest.ParentHash.Equal(blockHash)
	}
	return cv.anchorStore.Anchor().Equal(blockHash)
}

func normalizeIndex(index int64, length uint64) (uint64, error) {
	if index < 0 {
		// index+1 keeps the negation in range for math.MinInt64
		if uint64(-(index + 1)) >= length {
			return 0, errors.Wrapf(chainerrors.ErrOutOfRange, "index %d is out of range for length %d", index, length)
		}
		return length - uint64(-(index + 1)) - 1, nil
	}
	if uint64(index) >= length {
		return 0, errors.Wrapf(chainerrors.ErrOutOfRange, "index %d is out of range for length %d", index, length)
	}
	return uint64(index), nil
}
