package ldb

import "github.com/syndtr/goleveldb/leveldb/opt"

// Options returns a leveldb opt.Options struct for opening a database
// with a block cache of cacheSizeMiB. Locked blocks are small and
// written in batches, so the write buffer is kept modest.
func Options(cacheSizeMiB int) *opt.Options {
	return &opt.Options{
		Compression:            opt.NoCompression,
		BlockCacheCapacity:     cacheSizeMiB * opt.MiB,
		WriteBuffer:            4 * opt.MiB,
		DisableSeeksCompaction: true,
	}
}
