// Copyright 2023 The cdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package cdb

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync/atomic"

	"github.com/cdbgo/cdb/internal/djbhash"
	"github.com/cdbgo/cdb/internal/hashtable"
)

const (
	// headerSize is 256 pairs of (uint32 offset, uint32 capacity).
	headerSize = djbhash.NumBuckets * 8
	// recordHeaderSize is a uint32 key length + uint32 value length.
	recordHeaderSize = 8

	defaultBufferSize = 4 * 1024 * 1024
)

// Storage is the random-access byte store a database is built into.
// It is usually an *os.File, but specified as an interface for easier
// testing and for fully in-memory databases (see Buffer).
type Storage interface {
	io.ReadWriteSeeker
	Truncate(size int64) error
}

// Writer is a single-use database build session.  Feed it unique
// key/value pairs with Put, then Close to serialize the index and
// finalize the header.  A Writer assumes exclusive ownership of its
// Storage until Close returns.
type Writer struct {
	s        Storage
	w        *bufio.Writer
	tables   [djbhash.NumBuckets]hashtable.Table
	off      uint64
	finished atomic.Bool
}

// NewWriter truncates s and begins a new database, leaving the write
// position just past a zeroed header placeholder.  The placeholder is
// only overwritten with the real header in Close, so a crashed or
// abandoned session is never mistaken for a valid database.
func NewWriter(s Storage) (*Writer, error) {
	if err := s.Truncate(0); err != nil {
		return nil, fmt.Errorf("truncate: %w", err)
	}
	if _, err := s.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}

	w := &Writer{
		s: s,
		w: bufio.NewWriterSize(s, defaultBufferSize),
	}

	var placeholder [headerSize]byte
	if _, err := w.w.Write(placeholder[:]); err != nil {
		return nil, fmt.Errorf("write placeholder: %w", err)
	}
	w.off = headerSize

	// try to expose errors when writing to the backing store early
	if err := w.w.Flush(); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}

	return w, nil
}

// Put appends one record and indexes it.  Keys must be unique across
// the session; writing a key twice returns a DuplicateKeyError and
// poisons the database (the rejected record's bytes are already on
// disk, but the index is never finalized over them).
func (w *Writer) Put(key, value []byte) error {
	if w.finished.Load() {
		return ErrClosed
	}
	if uint64(len(key)) > math.MaxUint32 {
		return ErrKeyTooLarge
	}
	if uint64(len(value)) > math.MaxUint32 {
		return ErrValueTooLarge
	}

	off := w.off
	recordLen := uint64(recordHeaderSize) + uint64(len(key)) + uint64(len(value))
	if off+recordLen > math.MaxUint32 {
		return ErrTooLarge
	}

	var header [recordHeaderSize]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(len(key)))
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(value)))
	if _, err := w.w.Write(header[:]); err != nil {
		return fmt.Errorf("write record header: %w", err)
	}
	if _, err := w.w.Write(key); err != nil {
		return fmt.Errorf("write key: %w", err)
	}
	if _, err := w.w.Write(value); err != nil {
		return fmt.Errorf("write value: %w", err)
	}
	w.off += recordLen

	h := djbhash.Hash(key)
	// copy the key: the caller's slice may point into e.g. a bufio
	// buffer that gets reused
	k := make([]byte, len(key))
	copy(k, key)
	return w.tables[djbhash.Bucket(h)].Put(hashtable.Entry{
		Hash:   h,
		Key:    k,
		Offset: uint32(off),
	})
}

// Close serializes the 256 bucket tables after the records, then
// seeks back and overwrites the placeholder with the real header.
// The Writer is unusable afterwards; a second Close is a no-op.
func (w *Writer) Close() error {
	if alreadyFinished := w.finished.Swap(true); alreadyFinished {
		return nil
	}

	var header [headerSize]byte
	var buf []byte
	for i := range w.tables {
		t := &w.tables[i]
		if t.Cap() == 0 {
			// empty bucket: header entry stays (0, 0)
			continue
		}
		if w.off > math.MaxUint32 {
			return ErrTooLarge
		}
		binary.LittleEndian.PutUint32(header[i*8:i*8+4], uint32(w.off))
		binary.LittleEndian.PutUint32(header[i*8+4:i*8+8], uint32(t.Cap()))

		buf = t.AppendTo(buf[:0])
		if _, err := w.w.Write(buf); err != nil {
			return fmt.Errorf("write bucket %d table: %w", i, err)
		}
		w.off += uint64(len(buf))
		// done with this table, let it be collected
		*t = hashtable.Table{}
	}

	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if _, err := w.s.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek header: %w", err)
	}
	if _, err := w.s.Write(header[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}
