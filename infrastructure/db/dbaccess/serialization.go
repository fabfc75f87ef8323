package dbaccess

import (
	"encoding/binary"

	"github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"
	"github.com/pkg/errors"
)

const (
	hashSize             = externalapi.DomainHashSize
	serializedRecordSize = hashSize + hashSize + 8
	serializedUint64Size = 8
)

// serializeBlockRecord serializes a record as its hash, its parent hash and
// its little-endian weight
func serializeBlockRecord(record *externalapi.BlockRecord) []byte {
	serialized := make([]byte, serializedRecordSize)
	copy(serialized, record.Hash.ByteSlice())
	copy(serialized[hashSize:], record.ParentHash.ByteSlice())
	binary.LittleEndian.PutUint64(serialized[2*hashSize:], record.Weight)
	return serialized
}

func deserializeBlockRecord(serialized []byte) (*externalapi.BlockRecord, error) {
	if len(serialized) != serializedRecordSize {
		return nil, errors.Errorf("serialized block record is %d bytes instead of %d",
			len(serialized), serializedRecordSize)
	}
	blockHash, err := externalapi.NewDomainHashFromByteSlice(serialized[:hashSize])
	if err != nil {
		return nil, err
	}
	parentHash, err := externalapi.NewDomainHashFromByteSlice(serialized[hashSize : 2*hashSize])
	if err != nil {
		return nil, err
	}
	return &externalapi.BlockRecord{
		Hash:       blockHash,
		ParentHash: parentHash,
		Weight:     binary.LittleEndian.Uint64(serialized[2*hashSize:]),
	}, nil
}

func serializeUint64(value uint64) []byte {
	serialized := make([]byte, serializedUint64Size)
	binary.LittleEndian.PutUint64(serialized, value)
	return serialized
}

func deserializeUint64(serialized []byte) (uint64, error) {
	if len(serialized) != serializedUint64Size {
		return 0, errors.Errorf("serialized uint64 is %d bytes instead of %d",
			len(serialized), serializedUint64Size)
	}
	return binary.LittleEndian.Uint64(serialized), nil
}
