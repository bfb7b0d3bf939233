// Copyright 2023 The cdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package djbhash implements the 32-bit DJB hash variant the cdb file
// format is defined in terms of, along with the bucket/probe split of
// the hash value.  Both the writer and the reader go through this
// package, so the two sides cannot disagree about slot placement.
package djbhash

// NumBuckets is the number of top-level hash buckets in a database.
// The low 8 bits of a key's hash select its bucket.
const NumBuckets = 256

const seed = 5381

// Hash returns the hash of key: h = 5381, then for each byte
// h = (h*33) ^ c, modulo 2^32.  It is a pure function of the raw
// bytes.
func Hash(key []byte) uint32 {
	h := uint32(seed)
	for _, c := range key {
		h = ((h << 5) + h) ^ uint32(c)
	}
	return h
}

// Bucket returns the top-level bucket index for a hash value.
func Bucket(h uint32) uint32 {
	return h % NumBuckets
}

// ProbeSeed returns the intra-bucket probe start for a hash value:
// the hash with its bucket-selector bits divided away.  The first
// slot probed in a table of capacity c is ProbeSeed(h) % c.
func ProbeSeed(h uint32) uint32 {
	return h / NumBuckets
}
