package model

import "github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"

// FinalizationHook is called with the records that are about to be locked and
// the length of the locked chain before them. Returning an error aborts the lock.
// The hook runs before the records are appended, so LockedLength and the
// anchor still have their prior values while it runs.
type FinalizationHook func(newlyLocked []*externalapi.BlockRecord, priorLockedLength uint64) error

// LockManager promotes a prefix of the selected chain into the locked chain
type LockManager interface {
	LockToIndex(targetIndex uint64) error
}
