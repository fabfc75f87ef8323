package lockmanager

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/kaspanet/chaintracker/domain/chaintracker/chainerrors"
	"github.com/kaspanet/chaintracker/domain/chaintracker/datastructures/anchorstore"
	"github.com/kaspanet/chaintracker/domain/chaintracker/datastructures/forkforest"
	"github.com/kaspanet/chaintracker/domain/chaintracker/datastructures/lockedchainstore"
	"github.com/kaspanet/chaintracker/domain/chaintracker/datastructures/weightstore"
	"github.com/kaspanet/chaintracker/domain/chaintracker/model"
	"github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"
	"github.com/kaspanet/chaintracker/domain/chaintracker/processes/forkselector"
	"github.com/kaspanet/chaintracker/domain/chaintracker/utils/hashes"
	"github.com/pkg/errors"
)

type testContext struct {
	forkForest       model.ForkForest
	forkSelector     model.ForkSelector
	lockedChainStore model.LockedChainStore
	anchorStore      model.AnchorStore
	lockManager      model.LockManager
}

type hookCall struct {
	records           []*externalapi.BlockRecord
	priorLockedLength uint64
}

// setup builds the following tree on top of anchor A, every block weighing 1:
//
//	A <- B <- C <- D
//	     B <- E
//	A <- F
//	X <- Y
func setup(hook model.FinalizationHook) *testContext {
	forest := forkforest.New()
	weights := weightstore.New()
	for _, pair := range [][2]string{{"B", "A"}, {"C", "B"}, {"D", "C"}, {"E", "B"}, {"F", "A"}, {"Y", "X"}} {
		weights.Stage(hashes.FromLabel(pair[0]), 1)
		forest.AddEdges([]*model.ForkForestEdge{{Child: hashes.FromLabel(pair[0]), Parent: hashes.FromLabel(pair[1])}})
	}

	selector := forkselector.New(forest, weights)
	lockedChain := lockedchainstore.New()
	anchor := anchorstore.New(hashes.FromLabel("A"))
	return &testContext{
		forkForest:       forest,
		forkSelector:     selector,
		lockedChainStore: lockedChain,
		anchorStore:      anchor,
		lockManager:      New(forest, selector, weights, lockedChain, anchor, hook),
	}
}

func TestLockToIndex(t *testing.T) {
	var calls []hookCall
	tc := setup(func(records []*externalapi.BlockRecord, priorLockedLength uint64) error {
		calls = append(calls, hookCall{records: records, priorLockedLength: priorLockedLength})
		return nil
	})

	err := tc.lockManager.LockToIndex(2)
	if err != nil {
		t.Fatalf("LockToIndex: %s", err)
	}

	expectedRecords := []*externalapi.BlockRecord{
		{Hash: hashes.FromLabel("B"), ParentHash: hashes.FromLabel("A"), Weight: 1},
		{Hash: hashes.FromLabel("C"), ParentHash: hashes.FromLabel("B"), Weight: 1},
	}
	if tc.lockedChainStore.Len() != 2 {
		t.Fatalf("unexpected locked length. Want: 2, got: %d", tc.lockedChainStore.Len())
	}
	for i, expected := range expectedRecords {
		record, _ := tc.lockedChainStore.RecordAt(uint64(i))
		if !record.Equal(expected) {
			t.Fatalf("unexpected locked record %d. Want: %s, got: %s", i, expected, record)
		}
	}

	if !tc.anchorStore.Anchor().Equal(hashes.FromLabel("C")) {
		t.Fatalf("unexpected anchor. Want: %s, got: %s", hashes.FromLabel("C"), tc.anchorStore.Anchor())
	}

	if len(calls) != 1 || calls[0].priorLockedLength != 0 || len(calls[0].records) != 2 {
		t.Fatalf("unexpected finalization hook calls: %s", spew.Sdump(calls))
	}

	selected := tc.forkSelector.SelectedChain(tc.anchorStore.Anchor())
	expectedSelected := hashes.FromLabels("D")
	if !externalapi.HashesEqual(selected, expectedSelected) {
		t.Fatalf("unexpected selected chain. Want: %s, got: %s", spew.Sdump(expectedSelected), spew.Sdump(selected))
	}

	// Only D <- C and the orphan Y <- X survive the prune
	if tc.forkForest.Len() != 2 {
		t.Fatalf("unexpected amount of fork forest edges. Want: 2, got: %s", spew.Sdump(tc.forkForest.Edges()))
	}
	for _, label := range []string{"B", "E", "F"} {
		if tc.forkForest.Contains(hashes.FromLabel(label)) {
			t.Fatalf("%s wasn't pruned from the fork forest", label)
		}
	}
	if !tc.forkForest.Contains(hashes.FromLabel("Y")) {
		t.Fatalf("the orphan Y was pruned from the fork forest")
	}

	err = tc.lockManager.LockToIndex(3)
	if err != nil {
		t.Fatalf("LockToIndex: %s", err)
	}
	if len(calls) != 2 || calls[1].priorLockedLength != 2 || len(calls[1].records) != 1 {
		t.Fatalf("unexpected finalization hook calls: %s", spew.Sdump(calls))
	}
	expectedRecord := &externalapi.BlockRecord{Hash: hashes.FromLabel("D"), ParentHash: hashes.FromLabel("C"), Weight: 1}
	if !calls[1].records[0].Equal(expectedRecord) {
		t.Fatalf("unexpected record. Want: %s, got: %s", expectedRecord, calls[1].records[0])
	}
}

func TestLockToIndexIsIdempotent(t *testing.T) {
	hookCalls := 0
	tc := setup(func([]*externalapi.BlockRecord, uint64) error {
		hookCalls++
		return nil
	})

	for i := 0; i < 2; i++ {
		err := tc.lockManager.LockToIndex(2)
		if err != nil {
			t.Fatalf("LockToIndex: %s", err)
		}
	}
	err := tc.lockManager.LockToIndex(1)
	if err != nil {
		t.Fatalf("LockToIndex: %s", err)
	}

	if hookCalls != 1 {
		t.Fatalf("unexpected amount of hook calls. Want: 1, got: %d", hookCalls)
	}
	if tc.lockedChainStore.Len() != 2 {
		t.Fatalf("unexpected locked length. Want: 2, got: %d", tc.lockedChainStore.Len())
	}
}

func TestLockToIndexOutOfRange(t *testing.T) {
	tc := setup(nil)

	err := tc.lockManager.LockToIndex(4)
	if !errors.Is(err, chainerrors.ErrOutOfRange) {
		t.Fatalf("unexpected error. Want: %s, got: %v", chainerrors.ErrOutOfRange, err)
	}
	if tc.lockedChainStore.Len() != 0 {
		t.Fatalf("a failed lock changed the locked chain")
	}

	err = tc.lockManager.LockToIndex(3)
	if err != nil {
		t.Fatalf("locking the whole chain without a hook: %s", err)
	}
}

func TestLockToIndexHookFailure(t *testing.T) {
	tc := setup(func([]*externalapi.BlockRecord, uint64) error {
		return errors.New("disk is full")
	})
	edgesBefore := tc.forkForest.Len()

	err := tc.lockManager.LockToIndex(2)
	if !errors.Is(err, chainerrors.ErrFinalizationHookFailed) {
		t.Fatalf("unexpected error. Want: %s, got: %v", chainerrors.ErrFinalizationHookFailed, err)
	}
	if tc.lockedChainStore.Len() != 0 {
		t.Fatalf("a rejected lock changed the locked chain")
	}
	if !tc.anchorStore.Anchor().Equal(hashes.FromLabel("A")) {
		t.Fatalf("a rejected lock moved the anchor to %s", tc.anchorStore.Anchor())
	}
	if tc.forkForest.Len() != edgesBefore {
		t.Fatalf("a rejected lock pruned the fork forest")
	}
}

func TestFinalizationHookSeesPriorState(t *testing.T) {
	var tc *testContext
	var lockedLengthInHook uint64
	var anchorInHook *externalapi.DomainHash
	tc = setup(func(records []*externalapi.BlockRecord, priorLockedLength uint64) error {
		lockedLengthInHook = tc.lockedChainStore.Len()
		anchorInHook = tc.anchorStore.Anchor().Clone()
		return nil
	})

	err := tc.lockManager.LockToIndex(1)
	if err != nil {
		t.Fatalf("LockToIndex: %s", err)
	}
	err = tc.lockManager.LockToIndex(3)
	if err != nil {
		t.Fatalf("LockToIndex: %s", err)
	}

	if lockedLengthInHook != 1 {
		t.Fatalf("unexpected locked length inside the hook. Want: 1, got: %d", lockedLengthInHook)
	}
	if !anchorInHook.Equal(hashes.FromLabel("B")) {
		t.Fatalf("unexpected anchor inside the hook. Want: %s, got: %s", hashes.FromLabel("B"), anchorInHook)
	}
	if !tc.anchorStore.Anchor().Equal(hashes.FromLabel("D")) {
		t.Fatalf("unexpected anchor after locking. Want: %s, got: %s", hashes.FromLabel("D"), tc.anchorStore.Anchor())
	}
}
