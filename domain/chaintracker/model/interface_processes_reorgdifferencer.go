package model

import "github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"

// ReorgDifferencer computes the operations turning one selected chain into another
type ReorgDifferencer interface {
	ChainChanges(oldChain, newChain []*externalapi.DomainHash, lockedLength uint64) ([]*externalapi.ChainChange, error)
}
