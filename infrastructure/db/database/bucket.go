package database

import (
	"bytes"
	"encoding/binary"
)

var separator = []byte("/")

// Bucket is a helper type meant to combine buckets,
// sub-buckets, and keys into a single full key-value
// database key.
type Bucket struct {
	path [][]byte
}

// MakeBucket creates a new Bucket using the given path
// of buckets.
func MakeBucket(path ...[]byte) *Bucket {
	return &Bucket{path: path}
}

// Bucket returns the sub-bucket of the current bucket
// defined by bucketBytes.
func (b *Bucket) Bucket(bucketBytes []byte) *Bucket {
	newPath := make([][]byte, len(b.path)+1)
	copy(newPath, b.path)
	newPath[len(b.path)] = bucketBytes

	return MakeBucket(newPath...)
}

// Key returns the key inside of the current bucket.
func (b *Bucket) Key(key []byte) []byte {
	bucketPath := b.Path()

	fullKey := make([]byte, len(bucketPath)+len(key))
	copy(fullKey, bucketPath)
	copy(fullKey[len(bucketPath):], key)

	return fullKey
}

// IndexKey returns the key of index inside of the current bucket.
// Index keys are big-endian so that cursors visit them in order.
func (b *Bucket) IndexKey(index uint64) []byte {
	var indexBytes [8]byte
	binary.BigEndian.PutUint64(indexBytes[:], index)
	return b.Key(indexBytes[:])
}

// Path returns the full path of the current bucket,
// including a trailing separator.
func (b *Bucket) Path() []byte {
	bucketPath := bytes.Join(b.path, separator)

	bucketPathWithFinalSeparator := make([]byte, len(bucketPath)+len(separator))
	copy(bucketPathWithFinalSeparator, bucketPath)
	copy(bucketPathWithFinalSeparator[len(bucketPath):], separator)

	return bucketPathWithFinalSeparator
}
