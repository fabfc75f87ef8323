package chainview

import (
	"math"
	"testing"

	"github.com/kaspanet/chaintracker/domain/chaintracker/chainerrors"
	"github.com/kaspanet/chaintracker/domain/chaintracker/datastructures/anchorstore"
	"github.com/kaspanet/chaintracker/domain/chaintracker/datastructures/forkforest"
	"github.com/kaspanet/chaintracker/domain/chaintracker/datastructures/indextable"
	"github.com/kaspanet/chaintracker/domain/chaintracker/datastructures/lockedchainstore"
	"github.com/kaspanet/chaintracker/domain/chaintracker/datastructures/weightstore"
	"github.com/kaspanet/chaintracker/domain/chaintracker/model"
	"github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"
	"github.com/kaspanet/chaintracker/domain/chaintracker/processes/forkselector"
	"github.com/kaspanet/chaintracker/domain/chaintracker/utils/hashes"
	"github.com/pkg/errors"
)

// newTestChainView builds a view where B is locked on top of A, and C <- D
// are selected on top of B
func newTestChainView(t *testing.T) model.ChainView {
	lockedChain := lockedchainstore.New()
	lockedChain.Append(&externalapi.BlockRecord{Hash: hashes.FromLabel("B"), ParentHash: hashes.FromLabel("A"), Weight: 7})

	weights := weightstore.New()
	weights.Stage(hashes.FromLabel("B"), 7)
	weights.Stage(hashes.FromLabel("C"), 2)
	weights.Stage(hashes.FromLabel("D"), 3)

	forest := forkforest.New(
		&model.ForkForestEdge{Child: hashes.FromLabel("C"), Parent: hashes.FromLabel("B")},
		&model.ForkForestEdge{Child: hashes.FromLabel("D"), Parent: hashes.FromLabel("C")},
	)

	table := indextable.New()
	err := table.Apply([]*externalapi.ChainChange{
		{Kind: externalapi.ChainChangeAdd, Hash: hashes.FromLabel("B"), Index: 0},
		{Kind: externalapi.ChainChangeAdd, Hash: hashes.FromLabel("C"), Index: 1},
		{Kind: externalapi.ChainChangeAdd, Hash: hashes.FromLabel("D"), Index: 2},
	})
	if err != nil {
		t.Fatalf("Apply: %s", err)
	}

	return New(lockedChain, anchorstore.New(hashes.FromLabel("B")), table, weights, forkselector.New(forest, weights))
}

func TestRecordAt(t *testing.T) {
	view := newTestChainView(t)

	if view.Length() != 3 || view.LockedLength() != 1 {
		t.Fatalf("unexpected lengths. Want: 3 and 1, got: %d and %d", view.Length(), view.LockedLength())
	}

	expectedRecords := []*externalapi.BlockRecord{
		{Hash: hashes.FromLabel("B"), ParentHash: hashes.FromLabel("A"), Weight: 7},
		{Hash: hashes.FromLabel("C"), ParentHash: hashes.FromLabel("B"), Weight: 2},
		{Hash: hashes.FromLabel("D"), ParentHash: hashes.FromLabel("C"), Weight: 3},
	}
	for i, expected := range expectedRecords {
		record, err := view.RecordAt(int64(i))
		if err != nil {
			t.Fatalf("RecordAt(%d): %s", i, err)
		}
		if !record.Equal(expected) {
			t.Fatalf("unexpected record at %d. Want: %s, got: %s", i, expected, record)
		}

		negativeIndex := int64(i) - int64(len(expectedRecords))
		record, err = view.RecordAt(negativeIndex)
		if err != nil {
			t.Fatalf("RecordAt(%d): %s", negativeIndex, err)
		}
		if !record.Equal(expected) {
			t.Fatalf("unexpected record at %d. Want: %s, got: %s", negativeIndex, expected, record)
		}
	}

	for i, expected := range expectedRecords {
		blockHash, err := view.HashAt(int64(i))
		if err != nil {
			t.Fatalf("HashAt(%d): %s", i, err)
		}
		if !blockHash.Equal(expected.Hash) {
			t.Fatalf("unexpected hash at %d. Want: %s, got: %s", i, expected.Hash, blockHash)
		}
	}

	tip, err := view.HashAt(-1)
	if err != nil {
		t.Fatalf("HashAt(-1): %s", err)
	}
	if !tip.Equal(view.TipHash()) {
		t.Fatalf("HashAt(-1) and TipHash disagree: %s != %s", tip, view.TipHash())
	}
}

func TestRecordAtOutOfRange(t *testing.T) {
	view := newTestChainView(t)

	for _, index := range []int64{3, 4, -4, math.MaxInt64, math.MinInt64} {
		_, err := view.RecordAt(index)
		if !errors.Is(err, chainerrors.ErrOutOfRange) {
			t.Fatalf("RecordAt(%d): unexpected error. Want: %s, got: %v", index, chainerrors.ErrOutOfRange, err)
		}
		_, err = view.HashAt(index)
		if !errors.Is(err, chainerrors.ErrOutOfRange) {
			t.Fatalf("HashAt(%d): unexpected error. Want: %s, got: %v", index, chainerrors.ErrOutOfRange, err)
		}
	}
}

func TestIndexOf(t *testing.T) {
	view := newTestChainView(t)

	for expectedIndex, label := range []string{"B", "C", "D"} {
		index, ok := view.IndexOf(hashes.FromLabel(label))
		if !ok || index != uint64(expectedIndex) {
			t.Fatalf("unexpected index of %s. Want: %d, got: %d (found: %t)", label, expectedIndex, index, ok)
		}
	}
	if _, ok := view.IndexOf(hashes.FromLabel("Z")); ok {
		t.Fatalf("found an index for a hash that was never ingested")
	}
}

func TestIsHashKnown(t *testing.T) {
	view := newTestChainView(t)

	for _, label := range []string{"A", "B", "C", "D"} {
		if !view.IsHashKnown(hashes.FromLabel(label)) {
			t.Fatalf("%s is expected to be known", label)
		}
	}
	if view.IsHashKnown(hashes.FromLabel("Z")) {
		t.Fatalf("Z is expected to be unknown")
	}
}

func TestEmptyChainView(t *testing.T) {
	weights := weightstore.New()
	anchor := hashes.FromLabel("A")
	view := New(lockedchainstore.New(), anchorstore.New(anchor), indextable.New(), weights,
		forkselector.New(forkforest.New(), weights))

	if view.Length() != 0 {
		t.Fatalf("unexpected length. Want: 0, got: %d", view.Length())
	}
	if !view.TipHash().Equal(anchor) {
		t.Fatalf("the tip of an empty chain should be the anchor. Want: %s, got: %s", anchor, view.TipHash())
	}
	if _, err := view.RecordAt(-1); !errors.Is(err, chainerrors.ErrOutOfRange) {
		t.Fatalf("unexpected error. Want: %s, got: %v", chainerrors.ErrOutOfRange, err)
	}
}
