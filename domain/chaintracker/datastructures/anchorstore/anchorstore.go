package anchorstore

import (
	"github.com/kaspanet/chaintracker/domain/chaintracker/model"
	"github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"
)

type anchorStore struct {
	anchor *externalapi.DomainHash
}

// New instantiates a new AnchorStore holding the given initial anchor
func New(initialAnchor *externalapi.DomainHash) model.AnchorStore {
	return &anchorStore{anchor: initialAnchor.Clone()}
}

func (as *anchorStore) Anchor() *externalapi.DomainHash {
	return as.anchor
}

func (as *anchorStore) Stage(anchor *externalapi.DomainHash) {
	as.anchor = anchor.Clone()
}
