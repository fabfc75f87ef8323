package indextable

import (
	"github.com/kaspanet/chaintracker/domain/chaintracker/model"
	"github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"
	"github.com/pkg/errors"
)

// indexTable keeps index -> hash as the authoritative mapping and hash -> index
// as its exact inverse.
type indexTable struct {
	indexToHash map[uint64]*externalapi.DomainHash
	hashToIndex map[externalapi.DomainHash]uint64
}

// New instantiates a new, empty IndexTable
func New() model.IndexTable {
	return &indexTable{
		indexToHash: make(map[uint64]*externalapi.DomainHash),
		hashToIndex: make(map[externalapi.DomainHash]uint64),
	}
}

// Apply replays the given changes in order. A remove must name the hash that
// currently occupies its index.
func (it *indexTable) Apply(changes []*externalapi.ChainChange) error {
	for _, change := range changes {
		switch change.Kind {
		case externalapi.ChainChangeRemove:
			current, ok := it.indexToHash[change.Index]
			if !ok || !current.Equal(change.Hash) {
				return errors.Errorf("cannot apply %s: index %d holds %s", change, change.Index, current)
			}
			delete(it.indexToHash, change.Index)
			if index, ok := it.hashToIndex[*change.Hash]; ok && index == change.Index {
				delete(it.hashToIndex, *change.Hash)
			}
		case externalapi.ChainChangeAdd:
			if previous, ok := it.indexToHash[change.Index]; ok {
				if index, ok := it.hashToIndex[*previous]; ok && index == change.Index {
					delete(it.hashToIndex, *previous)
				}
			}
			it.indexToHash[change.Index] = change.Hash
			it.hashToIndex[*change.Hash] = change.Index
		default:
			return errors.Errorf("unknown chain change kind %d", change.Kind)
		}
	}
	return nil
}

func (it *indexTable) HashAt(index uint64) (*externalapi.DomainHash, bool) {
	blockHash, ok := it.indexToHash[index]
	return blockHash, ok
}

func (it *indexTable) IndexOf(blockHash *externalapi.DomainHash) (uint64, bool) {
	index, ok := it.hashToIndex[*blockHash]
	return index, ok
}

func (it *indexTable) Len() int {
	return len(it.indexToHash)
}
