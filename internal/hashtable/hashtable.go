// Copyright 2023 The cdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package hashtable implements the write-side, in-memory index for a
// single cdb bucket: an open-addressed table of (hash, key, record
// offset) entries that grows by doubling and serializes to the
// on-disk slot array at close time.
package hashtable

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/cdbgo/cdb/internal/djbhash"
)

// SlotWidth is the on-disk size of one slot: a uint32 hash followed
// by a uint32 record offset, both little-endian.  An empty slot is
// all zeroes, which is unambiguous because no record can live at
// offset 0 (the file header does).
const SlotWidth = 8

// DuplicateKeyError is returned when a key is inserted twice.  The
// write session it occurs in cannot be completed: the duplicate's
// record bytes are already on disk and there is no way to remove
// them, so the caller must discard the database.
type DuplicateKeyError struct {
	Key []byte
}

func (e DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q", e.Key)
}

// Entry points at one record from within a bucket's table.  Offset is
// never 0 for a live entry.
type Entry struct {
	Hash   uint32
	Key    []byte
	Offset uint32
}

// Table is the in-memory index for one bucket.  The zero value is an
// empty table with capacity 0, ready for use.  Tables never shrink
// and hold no tombstones: the database is immutable, so entries are
// only ever added.
type Table struct {
	count int
	slots []Entry
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	return t.count
}

// Cap returns the current slot count; 0 for a bucket no key ever
// hashed into.
func (t *Table) Cap() int {
	return len(t.slots)
}

// Put inserts e, growing the table first if the insert would push
// occupancy past 3/4.  Inserting a key that is already present
// returns a DuplicateKeyError.
func (t *Table) Put(e Entry) error {
	if 4*(t.count+1) > 3*len(t.slots) {
		t.grow()
	}
	return t.insert(e)
}

func (t *Table) insert(e Entry) error {
	capacity := uint32(len(t.slots))
	i := djbhash.ProbeSeed(e.Hash) % capacity
	for t.slots[i].Offset != 0 {
		if t.slots[i].Hash == e.Hash && bytes.Equal(t.slots[i].Key, e.Key) {
			return DuplicateKeyError{Key: e.Key}
		}
		i = (i + 1) % capacity
	}
	t.slots[i] = e
	t.count++
	return nil
}

// grow doubles capacity (minimum 2) and rehashes every live entry.
// The new capacity always satisfies the load bound, so insert cannot
// recurse into another grow.
func (t *Table) grow() {
	capacity := 2 * len(t.slots)
	if capacity < 2 {
		capacity = 2
	}
	old := t.slots
	t.slots = make([]Entry, capacity)
	t.count = 0
	for _, e := range old {
		if e.Offset != 0 {
			// keys are unique already, insert cannot fail
			_ = t.insert(e)
		}
	}
}

// AppendTo appends the on-disk form of the table to buf and returns
// the extended slice: Cap() slots of SlotWidth bytes each, in slot
// order, empty slots as zeroes.
func (t *Table) AppendTo(buf []byte) []byte {
	var slot [SlotWidth]byte
	for _, e := range t.slots {
		binary.LittleEndian.PutUint32(slot[0:4], e.Hash)
		binary.LittleEndian.PutUint32(slot[4:8], e.Offset)
		buf = append(buf, slot[:]...)
	}
	return buf
}
