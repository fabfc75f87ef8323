package model

import "github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"

// ForkSelector picks the heaviest chain extending from an anchor
type ForkSelector interface {
	// SelectedChain returns the heaviest chain ending at anchor, ordered
	// oldest-to-newest and excluding anchor itself. The result is cached
	// until Invalidate is called and must not be modified.
	SelectedChain(anchor *externalapi.DomainHash) []*externalapi.DomainHash
	Invalidate()

	// StageSelectedChain replaces the cached selection for anchor
	StageSelectedChain(anchor *externalapi.DomainHash, selectedChain []*externalapi.DomainHash)
}
