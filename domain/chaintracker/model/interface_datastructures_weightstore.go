package model

import "github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"

// WeightStore maps block hashes to their weight. Entries are never removed.
type WeightStore interface {
	Stage(blockHash *externalapi.DomainHash, weight uint64)
	Weight(blockHash *externalapi.DomainHash) (weight uint64, exists bool)
}
