package lockedchainstore

import (
	"github.com/kaspanet/chaintracker/domain/chaintracker/model"
	"github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"
)

type lockedChainStore struct {
	records     []*externalapi.BlockRecord
	hashToIndex map[externalapi.DomainHash]uint64
}

// New instantiates a new, empty LockedChainStore
func New() model.LockedChainStore {
	return &lockedChainStore{
		hashToIndex: make(map[externalapi.DomainHash]uint64),
	}
}

func (lcs *lockedChainStore) Append(records ...*externalapi.BlockRecord) {
	for _, record := range records {
		lcs.hashToIndex[*record.Hash] = uint64(len(lcs.records))
		lcs.records = append(lcs.records, record)
	}
}

func (lcs *lockedChainStore) Len() uint64 {
	return uint64(len(lcs.records))
}

func (lcs *lockedChainStore) RecordAt(index uint64) (*externalapi.BlockRecord, bool) {
	if index >= uint64(len(lcs.records)) {
		return nil, false
	}
	return lcs.records[index], true
}

func (lcs *lockedChainStore) IndexOf(blockHash *externalapi.DomainHash) (uint64, bool) {
	index, ok := lcs.hashToIndex[*blockHash]
	return index, ok
}

func (lcs *lockedChainStore) Contains(blockHash *externalapi.DomainHash) bool {
	_, ok := lcs.hashToIndex[*blockHash]
	return ok
}
