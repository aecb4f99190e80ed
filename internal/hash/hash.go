// Package hash computes the content hashes used for buffer equality checks.
package hash

import "github.com/cespare/xxhash/v2"

// Sum computes the xxHash64 of data.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// NewDigest returns a streaming xxHash64 digest for content split across segments.
func NewDigest() *xxhash.Digest {
	return xxhash.New()
}
