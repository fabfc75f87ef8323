package lockedchainstore

import (
	"testing"

	"github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"
	"github.com/kaspanet/chaintracker/domain/chaintracker/utils/hashes"
)

func TestLockedChainStore(t *testing.T) {
	store := New()
	a := &externalapi.BlockRecord{Hash: hashes.FromLabel("A"), ParentHash: &externalapi.ZeroHash, Weight: 1}
	b := &externalapi.BlockRecord{Hash: hashes.FromLabel("B"), ParentHash: a.Hash, Weight: 2}
	store.Append(a)
	store.Append(b)

	if store.Len() != 2 {
		t.Fatalf("unexpected length. Want: 2, got: %d", store.Len())
	}
	record, ok := store.RecordAt(1)
	if !ok || !record.Equal(b) {
		t.Fatalf("unexpected record at 1. Want: %s, got: %s", b, record)
	}
	if _, ok := store.RecordAt(2); ok {
		t.Fatalf("RecordAt(2) unexpectedly found a record")
	}
	index, ok := store.IndexOf(b.Hash)
	if !ok || index != 1 {
		t.Fatalf("unexpected index of B. Want: 1, got: %d", index)
	}
	if store.Contains(hashes.FromLabel("C")) {
		t.Fatalf("store contains a hash that was never appended")
	}
}
