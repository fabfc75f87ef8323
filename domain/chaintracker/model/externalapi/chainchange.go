package externalapi

import "fmt"

// ChainChangeKind is the kind of a ChainChange
type ChainChangeKind uint8

// The possible kinds of a ChainChange
const (
	ChainChangeAdd ChainChangeKind = iota
	ChainChangeRemove
)

func (kind ChainChangeKind) String() string {
	switch kind {
	case ChainChangeAdd:
		return "add"
	case ChainChangeRemove:
		return "remove"
	}

	return fmt.Sprintf("<unknown chain change kind (%d)>", kind)
}

// ChainChange is a single operation on the index-addressable view of the chain.
// Replaying every ChainChange emitted by a tracker, in order, over an empty
// index -> hash mapping reproduces the unlocked part of the chain.
type ChainChange struct {
	Kind  ChainChangeKind
	Hash  *DomainHash
	Index uint64
}

// Equal returns whether change equals to other
func (change *ChainChange) Equal(other *ChainChange) bool {
	if change == nil || other == nil {
		return change == other
	}
	return change.Kind == other.Kind && change.Hash.Equal(other.Hash) && change.Index == other.Index
}

// Cancels returns whether change is the removal of exactly the position other
// added, so that both can be dropped before anyone observed them.
func (change *ChainChange) Cancels(other *ChainChange) bool {
	return change.Kind == ChainChangeRemove && other.Kind == ChainChangeAdd &&
		change.Hash.Equal(other.Hash) && change.Index == other.Index
}

func (change *ChainChange) String() string {
	return fmt.Sprintf("%s(%s, %d)", change.Kind, change.Hash, change.Index)
}
