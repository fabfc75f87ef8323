package hashes

import (
	"github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// labelDomain separates label hashes from any other use of blake2b keyed hashing
var labelDomain = []byte("ChainTrackerLabel")

// FromLabel deterministically derives a DomainHash from a human readable label.
// It is used to describe block trees with short names such as "A" or "B1".
func FromLabel(label string) *externalapi.DomainHash {
	hasher, err := blake2b.New256(labelDomain)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. blake2b.New256 only fails on keys longer than 64 bytes"))
	}
	// This write can never return an error, this is part of the hash.Hash interface contract.
	_, _ = hasher.Write([]byte(label))

	var hash externalapi.DomainHash
	copy(hash[:], hasher.Sum(nil))
	return &hash
}

// FromLabels is FromLabel applied to every given label
func FromLabels(labels ...string) []*externalapi.DomainHash {
	hashes := make([]*externalapi.DomainHash, len(labels))
	for i, label := range labels {
		hashes[i] = FromLabel(label)
	}
	return hashes
}
