// Copyright 2023 The cdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package cdb

import (
	"bytes"
	"fmt"
	"io"
)

// Buffer is an in-memory Storage implementation: a growable byte
// slice with a seek cursor and file-like truncate semantics.  The
// zero value is an empty buffer ready for use.  It lets a database be
// built and queried without touching a filesystem.
type Buffer struct {
	buf []byte
	off int64
}

var _ Storage = (*Buffer)(nil)

// Read reads from the current position, returning io.EOF past the
// end.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.off >= int64(len(b.buf)) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, b.buf[b.off:])
	b.off += int64(n)
	return n, nil
}

// Write writes at the current position, growing the buffer as needed.
// Writing past the end zero-fills the gap, like a sparse file.
func (b *Buffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	end := b.off + int64(len(p))
	if grow := end - int64(len(b.buf)); grow > 0 {
		b.buf = append(b.buf, make([]byte, grow)...)
	}
	copy(b.buf[b.off:end], p)
	b.off = end
	return len(p), nil
}

// Seek moves the cursor, with os.File semantics: seeking past the end
// is allowed, seeking before the start is an error.
func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = b.off + offset
	case io.SeekEnd:
		abs = int64(len(b.buf)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if abs < 0 {
		return 0, fmt.Errorf("negative seek position %d", abs)
	}
	b.off = abs
	return abs, nil
}

// Truncate resizes the buffer, zero-filling when extending.  It does
// not move the cursor.
func (b *Buffer) Truncate(size int64) error {
	switch {
	case size < 0:
		return fmt.Errorf("negative truncate size %d", size)
	case size <= int64(len(b.buf)):
		b.buf = b.buf[:size]
	default:
		b.buf = append(b.buf, make([]byte, size-int64(len(b.buf)))...)
	}
	return nil
}

// Bytes returns the underlying contents.  The slice aliases the
// buffer and is invalidated by further writes.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// Len returns the buffer's content length, independent of the cursor.
func (b *Buffer) Len() int {
	return len(b.buf)
}

// Reader returns an independent read handle over the current
// contents, suitable for a concurrent Reader while b itself stays
// with its owner.
func (b *Buffer) Reader() *bytes.Reader {
	return bytes.NewReader(b.buf)
}
