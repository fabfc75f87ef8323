package externalapi

import (
	"strings"
	"testing"
)

func TestNewDomainHashFromString(t *testing.T) {
	hashString := strings.Repeat("ab", DomainHashSize)
	hash, err := NewDomainHashFromString(hashString)
	if err != nil {
		t.Fatalf("NewDomainHashFromString: %s", err)
	}
	if hash.String() != hashString {
		t.Fatalf("String returned wrong value. Want: %s, got: %s", hashString, hash)
	}

	_, err = NewDomainHashFromString("abcd")
	if err == nil {
		t.Fatalf("NewDomainHashFromString unexpectedly accepted a short string")
	}
	_, err = NewDomainHashFromString(strings.Repeat("zz", DomainHashSize))
	if err == nil {
		t.Fatalf("NewDomainHashFromString unexpectedly accepted a non-hex string")
	}
}

func TestDomainHashEqual(t *testing.T) {
	a := &DomainHash{1}
	b := &DomainHash{1}
	c := &DomainHash{2}

	if !a.Equal(b) {
		t.Fatalf("equal hashes reported as different")
	}
	if a.Equal(c) {
		t.Fatalf("different hashes reported as equal")
	}
	if a.Equal(nil) {
		t.Fatalf("non-nil hash equals nil")
	}
	if !(*DomainHash)(nil).Equal(nil) {
		t.Fatalf("nil hashes should be equal")
	}
	if !HashesEqual([]*DomainHash{a, c}, []*DomainHash{b, c}) {
		t.Fatalf("HashesEqual returned false for equal slices")
	}
	if HashesEqual([]*DomainHash{a}, []*DomainHash{a, c}) {
		t.Fatalf("HashesEqual returned true for slices of different lengths")
	}
}

func TestChainChangeCancels(t *testing.T) {
	hash := &DomainHash{7}
	add := &ChainChange{Kind: ChainChangeAdd, Hash: hash, Index: 3}
	remove := &ChainChange{Kind: ChainChangeRemove, Hash: hash, Index: 3}
	removeOther := &ChainChange{Kind: ChainChangeRemove, Hash: hash, Index: 4}

	if !remove.Cancels(add) {
		t.Fatalf("%s should cancel %s", remove, add)
	}
	if removeOther.Cancels(add) {
		t.Fatalf("%s shouldn't cancel %s", removeOther, add)
	}
	if add.Cancels(remove) {
		t.Fatalf("an add never cancels a remove")
	}
}
