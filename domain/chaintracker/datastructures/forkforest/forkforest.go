package forkforest

import (
	"github.com/kaspanet/chaintracker/domain/chaintracker/chainerrors"
	"github.com/kaspanet/chaintracker/domain/chaintracker/model"
	"github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"
	"github.com/pkg/errors"
)

// forkForest keeps every edge in insertion order. The insertion order of a
// tip decides the position of its chain in AllChainsEndingAt, which in turn
// decides ties between equally heavy chains.
type forkForest struct {
	edges      []*model.ForkForestEdge
	parents    map[externalapi.DomainHash]*externalapi.DomainHash
	childCount map[externalapi.DomainHash]int
}

// New instantiates a new ForkForest loaded with the given edges
func New(edges ...*model.ForkForestEdge) model.ForkForest {
	ff := &forkForest{}
	ff.Rebuild(edges)
	return ff
}

// AddEdges ingests the given edges in order. An edge whose child is already
// known is ignored, and so is an edge that would close a cycle.
func (ff *forkForest) AddEdges(edges []*model.ForkForestEdge) {
	for _, edge := range edges {
		if _, ok := ff.parents[*edge.Child]; ok {
			continue
		}
		if ff.isAncestorOrSelf(edge.Child, edge.Parent) {
			continue
		}

		ff.parents[*edge.Child] = edge.Parent
		ff.childCount[*edge.Parent]++
		ff.edges = append(ff.edges, &model.ForkForestEdge{Child: edge.Child, Parent: edge.Parent})
	}
}

// isAncestorOrSelf returns whether ancestor is blockHash or one of its ancestors
func (ff *forkForest) isAncestorOrSelf(ancestor, blockHash *externalapi.DomainHash) bool {
	current := blockHash
	for {
		if current.Equal(ancestor) {
			return true
		}
		parent, ok := ff.parents[*current]
		if !ok {
			return false
		}
		current = parent
	}
}

func (ff *forkForest) AllChainsEndingAt(root *externalapi.DomainHash) [][]*externalapi.DomainHash {
	var chains [][]*externalapi.DomainHash
	for _, edge := range ff.edges {
		if ff.childCount[*edge.Child] > 0 {
			continue
		}
		chain := ff.pathToRoot(edge.Child)
		if chain[len(chain)-1].Equal(root) {
			chains = append(chains, chain)
		}
	}
	return chains
}

// pathToRoot returns blockHash followed by all of its known ancestors,
// ending with the first hash whose parent is unknown.
func (ff *forkForest) pathToRoot(blockHash *externalapi.DomainHash) []*externalapi.DomainHash {
	path := []*externalapi.DomainHash{blockHash}
	current := blockHash
	for {
		parent, ok := ff.parents[*current]
		if !ok {
			return path
		}
		path = append(path, parent)
		current = parent
	}
}

func (ff *forkForest) FindAncestralPath(a, b *externalapi.DomainHash) (
	pathFromA, pathFromB []*externalapi.DomainHash, err error) {

	pathFromA = ff.pathToRoot(a)
	positionsInA := make(map[externalapi.DomainHash]int, len(pathFromA))
	for i, blockHash := range pathFromA {
		positionsInA[*blockHash] = i
	}

	current := b
	for {
		pathFromB = append(pathFromB, current)
		if position, ok := positionsInA[*current]; ok {
			return pathFromA[:position+1], pathFromB, nil
		}
		parent, ok := ff.parents[*current]
		if !ok {
			return nil, nil, errors.Wrapf(chainerrors.ErrInconsistentDivergence,
				"%s and %s have no common ancestor", a, b)
		}
		current = parent
	}
}

func (ff *forkForest) Rebuild(edges []*model.ForkForestEdge) {
	ff.edges = make([]*model.ForkForestEdge, 0, len(edges))
	ff.parents = make(map[externalapi.DomainHash]*externalapi.DomainHash, len(edges))
	ff.childCount = make(map[externalapi.DomainHash]int, len(edges))
	ff.AddEdges(edges)
}

func (ff *forkForest) Parent(blockHash *externalapi.DomainHash) (*externalapi.DomainHash, bool) {
	parent, ok := ff.parents[*blockHash]
	return parent, ok
}

// Contains returns whether blockHash is known to the forest, either as a
// child or as the parent of a known child.
func (ff *forkForest) Contains(blockHash *externalapi.DomainHash) bool {
	if _, ok := ff.parents[*blockHash]; ok {
		return true
	}
	return ff.childCount[*blockHash] > 0
}

// Edges returns a copy of all edges in insertion order
func (ff *forkForest) Edges() []*model.ForkForestEdge {
	edges := make([]*model.ForkForestEdge, len(ff.edges))
	copy(edges, ff.edges)
	return edges
}

// Len returns the number of edges in the forest
func (ff *forkForest) Len() int {
	return len(ff.edges)
}
