// Copyright 2023 The cdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package cdb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cdbgo/cdb/internal/djbhash"
	"github.com/cdbgo/cdb/internal/hashtable"
)

// Reader is a read handle on a completed database.  It owns the seek
// cursor of its ReadSeeker, so a Reader must not be shared across
// goroutines; open independent handles for concurrent lookups.
//
// The header and each bucket's slot array are read once, on first
// use, and cached for the life of the Reader.  Opening storage that
// is not a validly closed database yields undefined results, not a
// recoverable error.
type Reader struct {
	r      io.ReadSeeker
	loaded bool
	refs   [djbhash.NumBuckets]tableRef
	slots  [djbhash.NumBuckets][]byte
}

type tableRef struct {
	off      uint32
	capacity uint32
}

// NewReader returns a Reader over r.  Nothing is read until the first
// lookup.
func NewReader(r io.ReadSeeker) *Reader {
	return &Reader{r: r}
}

// Get returns the value stored under key.  A missing key is not an
// error: it reports found == false.  Errors come only from the
// underlying storage.
func (r *Reader) Get(key []byte) (value []byte, found bool, err error) {
	if !r.loaded {
		if err := r.loadHeader(); err != nil {
			return nil, false, err
		}
	}

	h := djbhash.Hash(key)
	bucket := djbhash.Bucket(h)
	ref := r.refs[bucket]
	if ref.capacity == 0 {
		return nil, false, nil
	}

	slots, err := r.bucketSlots(bucket, ref)
	if err != nil {
		return nil, false, err
	}

	probe := djbhash.ProbeSeed(h) % ref.capacity
	for i := uint32(0); i < ref.capacity; i++ {
		slot := slots[((probe+i)%ref.capacity)*hashtable.SlotWidth:]
		slotHash := binary.LittleEndian.Uint32(slot[0:4])
		slotOff := binary.LittleEndian.Uint32(slot[4:8])
		if slotOff == 0 {
			// insertion never leaves a gap before the end of a
			// chain, so an empty slot exhausts the search
			return nil, false, nil
		}
		if slotHash != h {
			continue
		}
		value, found, err = r.readRecord(slotOff, key)
		if err != nil || found {
			return value, found, err
		}
	}
	return nil, false, nil
}

// GetString is Get for a string key.
func (r *Reader) GetString(key string) (value []byte, found bool, err error) {
	return r.Get([]byte(key))
}

func (r *Reader) loadHeader() error {
	if _, err := r.r.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek header: %w", err)
	}
	var buf [headerSize]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	for i := range r.refs {
		r.refs[i] = tableRef{
			off:      binary.LittleEndian.Uint32(buf[i*8 : i*8+4]),
			capacity: binary.LittleEndian.Uint32(buf[i*8+4 : i*8+8]),
		}
	}
	r.loaded = true
	return nil
}

// bucketSlots returns bucket's slot array, reading it on first touch.
func (r *Reader) bucketSlots(bucket uint32, ref tableRef) ([]byte, error) {
	if r.slots[bucket] != nil {
		return r.slots[bucket], nil
	}
	if _, err := r.r.Seek(int64(ref.off), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek bucket %d table: %w", bucket, err)
	}
	slots := make([]byte, int64(ref.capacity)*hashtable.SlotWidth)
	if _, err := io.ReadFull(r.r, slots); err != nil {
		return nil, fmt.Errorf("read bucket %d table: %w", bucket, err)
	}
	r.slots[bucket] = slots
	return slots, nil
}

// readRecord reads the record at off and confirms its key matches;
// only then is the value read and returned.
func (r *Reader) readRecord(off uint32, key []byte) (value []byte, found bool, err error) {
	if _, err := r.r.Seek(int64(off), io.SeekStart); err != nil {
		return nil, false, fmt.Errorf("seek record %d: %w", off, err)
	}
	var header [recordHeaderSize]byte
	if _, err := io.ReadFull(r.r, header[:]); err != nil {
		return nil, false, fmt.Errorf("read record header %d: %w", off, err)
	}
	keyLen := binary.LittleEndian.Uint32(header[0:4])
	valueLen := binary.LittleEndian.Uint32(header[4:8])
	if uint64(keyLen) != uint64(len(key)) {
		// hash collision between different keys, keep probing
		return nil, false, nil
	}
	storedKey := make([]byte, keyLen)
	if _, err := io.ReadFull(r.r, storedKey); err != nil {
		return nil, false, fmt.Errorf("read record key %d: %w", off, err)
	}
	if !bytes.Equal(storedKey, key) {
		return nil, false, nil
	}
	value = make([]byte, valueLen)
	if _, err := io.ReadFull(r.r, value); err != nil {
		return nil, false, fmt.Errorf("read record value %d: %w", off, err)
	}
	return value, true, nil
}

// Iter returns an iterator over the records in insertion order.  It
// shares the Reader's cursor: do not interleave Get calls with Next.
func (r *Reader) Iter() (*Iter, error) {
	if !r.loaded {
		if err := r.loadHeader(); err != nil {
			return nil, err
		}
	}
	// the data region runs from the end of the file header to the
	// first serialized bucket table; with no records there are no
	// occupied buckets and the region is empty
	end := uint32(0)
	for _, ref := range r.refs {
		if ref.capacity != 0 {
			end = ref.off
			break
		}
	}
	if end == 0 {
		end = headerSize
	}
	return &Iter{r: r, off: headerSize, end: end}, nil
}

// Iter walks a database's records sequentially.  This is a linear
// scan of the data region, not an index traversal.
type Iter struct {
	r   *Reader
	off uint32
	end uint32
	err error
}

// Next returns the next record, or ok == false when the data region
// is exhausted or an error occurred (check Err).
func (it *Iter) Next() (key, value []byte, ok bool) {
	if it.err != nil || it.off >= it.end {
		return nil, nil, false
	}
	if _, err := it.r.r.Seek(int64(it.off), io.SeekStart); err != nil {
		it.err = fmt.Errorf("seek record %d: %w", it.off, err)
		return nil, nil, false
	}
	var header [recordHeaderSize]byte
	if _, err := io.ReadFull(it.r.r, header[:]); err != nil {
		it.err = fmt.Errorf("read record header %d: %w", it.off, err)
		return nil, nil, false
	}
	keyLen := binary.LittleEndian.Uint32(header[0:4])
	valueLen := binary.LittleEndian.Uint32(header[4:8])
	key = make([]byte, keyLen)
	if _, err := io.ReadFull(it.r.r, key); err != nil {
		it.err = fmt.Errorf("read record key %d: %w", it.off, err)
		return nil, nil, false
	}
	value = make([]byte, valueLen)
	if _, err := io.ReadFull(it.r.r, value); err != nil {
		it.err = fmt.Errorf("read record value %d: %w", it.off, err)
		return nil, nil, false
	}
	it.off += recordHeaderSize + keyLen + valueLen
	return key, value, true
}

// Err reports the first storage error Next ran into, if any.
func (it *Iter) Err() error {
	return it.err
}
