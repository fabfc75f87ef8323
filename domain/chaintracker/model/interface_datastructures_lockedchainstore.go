package model

import "github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"

// LockedChainStore is the append-only, oldest-first sequence of locked blocks
type LockedChainStore interface {
	Append(records ...*externalapi.BlockRecord)
	Len() uint64
	RecordAt(index uint64) (record *externalapi.BlockRecord, exists bool)
	IndexOf(blockHash *externalapi.DomainHash) (index uint64, exists bool)
	Contains(blockHash *externalapi.DomainHash) bool
}
