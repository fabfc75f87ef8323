package model

import "github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"

// AnchorStore holds the hash below which no reorganization is tracked
type AnchorStore interface {
	Anchor() *externalapi.DomainHash
	Stage(anchor *externalapi.DomainHash)
}
