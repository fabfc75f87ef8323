package model

import "github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"

// IndexTable mirrors the chain as a subscriber would see it: the result of
// replaying every broadcast ChainChange over an empty table.
type IndexTable interface {
	Apply(changes []*externalapi.ChainChange) error
	HashAt(index uint64) (blockHash *externalapi.DomainHash, exists bool)
	IndexOf(blockHash *externalapi.DomainHash) (index uint64, exists bool)
	Len() int
}
