package weightstore

import (
	"testing"

	"github.com/kaspanet/chaintracker/domain/chaintracker/utils/hashes"
)

func TestStageOverwrites(t *testing.T) {
	store := New()
	blockHash := hashes.FromLabel("B")

	if _, ok := store.Weight(blockHash); ok {
		t.Fatalf("unexpected weight for an unknown hash")
	}

	store.Stage(blockHash, 5)
	store.Stage(blockHash, 1)
	weight, ok := store.Weight(blockHash)
	if !ok || weight != 1 {
		t.Fatalf("unexpected weight. Want: 1, got: %d (found: %t)", weight, ok)
	}
}
