package model

import "github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"

// ForkForestEdge is a single child -> parent link known to a ForkForest
type ForkForestEdge struct {
	Child  *externalapi.DomainHash
	Parent *externalapi.DomainHash
}

// ForkForest tracks the parent/child edges of every known block that is not yet locked
type ForkForest interface {
	// AddEdges ingests the given edges. Edges whose child is already known are ignored.
	AddEdges(edges []*ForkForestEdge)

	// AllChainsEndingAt returns every maximal chain whose root is root. Each chain is
	// ordered tip-first and ends with root itself. Chains are enumerated in the
	// insertion order of their tips.
	AllChainsEndingAt(root *externalapi.DomainHash) [][]*externalapi.DomainHash

	// FindAncestralPath returns the paths from a and from b back to their nearest
	// common ancestor. Both paths are ordered tip-first and end with that ancestor.
	FindAncestralPath(a, b *externalapi.DomainHash) (pathFromA, pathFromB []*externalapi.DomainHash, err error)

	// Rebuild discards the forest and reloads it from the given edges, in order.
	Rebuild(edges []*ForkForestEdge)

	Parent(blockHash *externalapi.DomainHash) (parent *externalapi.DomainHash, exists bool)
	Contains(blockHash *externalapi.DomainHash) bool
	Edges() []*ForkForestEdge
	Len() int
}
