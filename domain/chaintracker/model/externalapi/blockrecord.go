package externalapi

import "fmt"

// BlockRecord is the (hash, parent hash, weight) triple the tracker is fed with
// and which it reports for every position of the chain. It must be treated as
// immutable once created.
type BlockRecord struct {
	Hash       *DomainHash
	ParentHash *DomainHash
	Weight     uint64
}

// Equal returns whether record equals to other
func (record *BlockRecord) Equal(other *BlockRecord) bool {
	if record == nil || other == nil {
		return record == other
	}
	return record.Hash.Equal(other.Hash) &&
		record.ParentHash.Equal(other.ParentHash) &&
		record.Weight == other.Weight
}

func (record *BlockRecord) String() string {
	return fmt.Sprintf("(%s, %s, %d)", record.Hash, record.ParentHash, record.Weight)
}

// BlockHeader is any header the tracker can ingest directly. Weight is the
// contribution of the header to the cumulative weight of a chain, e.g. its
// difficulty.
type BlockHeader interface {
	BlockHash() *DomainHash
	ParentHash() *DomainHash
	Weight() uint64
}
