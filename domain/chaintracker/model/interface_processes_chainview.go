package model

import "github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"

// ChainView is the index-addressable view of the locked chain followed by the
// selected chain
type ChainView interface {
	Length() uint64
	LockedLength() uint64
	RecordAt(index int64) (*externalapi.BlockRecord, error)
	HashAt(index int64) (*externalapi.DomainHash, error)
	IndexOf(blockHash *externalapi.DomainHash) (index uint64, exists bool)
	TipHash() *externalapi.DomainHash
	IsHashKnown(blockHash *externalapi.DomainHash) bool
}
