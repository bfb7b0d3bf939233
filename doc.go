// Copyright 2023 The cdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package cdb reads and writes constant databases: immutable on-disk
// hash tables mapping byte-string keys to byte-string values.  A
// database is built once through a Writer and never mutated after;
// lookups through a Reader touch a bounded number of file regions and
// keep only a small cached index in memory, so the data itself never
// has to fit in the heap.
//
// The on-disk layout is a 2048-byte header of 256 (offset, capacity)
// pairs, followed by the packed records, followed by 256
// open-addressed slot arrays.  A key's 32-bit hash selects a bucket
// with its low 8 bits and a probe start within that bucket's slot
// array with the rest.  All integers are little-endian; slots are 8
// bytes, a uint32 hash then a uint32 record offset, with (0,0)
// marking an empty slot.  Databases are limited to what 32-bit
// offsets can address, about 4GB.
//
// A Writer owns its storage exclusively for the whole session, and a
// completed database may be read by any number of Readers as long as
// each has its own storage handle.
package cdb
