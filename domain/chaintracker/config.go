package chaintracker

import (
	"github.com/kaspanet/chaintracker/domain/chaintracker/model"
	"github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"
)

// Config holds the parameters a ChainTracker is created with
type Config struct {
	// Anchor is the hash the chain is built upon. Defaults to the zero hash.
	Anchor *externalapi.DomainHash

	// FinalizationHook, if set, is called with every batch of blocks about to
	// be locked
	FinalizationHook model.FinalizationHook

	// LockedChain restores a previously locked chain, oldest first. Its oldest
	// record must point to Anchor, and every other record to the one before
	// it. The newest record becomes the anchor of the new tracker.
	LockedChain []*externalapi.BlockRecord
}
