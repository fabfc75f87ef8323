package weightstore

import (
	"github.com/kaspanet/chaintracker/domain/chaintracker/model"
	"github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"
)

type weightStore struct {
	weights map[externalapi.DomainHash]uint64
}

// New instantiates a new WeightStore
func New() model.WeightStore {
	return &weightStore{
		weights: make(map[externalapi.DomainHash]uint64),
	}
}

// Stage sets the weight of blockHash, overwriting any previous weight
func (ws *weightStore) Stage(blockHash *externalapi.DomainHash, weight uint64) {
	ws.weights[*blockHash] = weight
}

func (ws *weightStore) Weight(blockHash *externalapi.DomainHash) (uint64, bool) {
	weight, ok := ws.weights[*blockHash]
	return weight, ok
}
