// Copyright 2023 The cdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package cdb

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferReadWriteSeek(t *testing.T) {
	var b Buffer
	n, err := b.Write([]byte("hello world"))
	require.NoError(t, err)
	require.Equal(t, 11, n)
	require.Equal(t, 11, b.Len())

	pos, err := b.Seek(6, io.SeekStart)
	require.NoError(t, err)
	require.Equal(t, int64(6), pos)

	buf := make([]byte, 5)
	_, err = io.ReadFull(&b, buf)
	require.NoError(t, err)
	assert.Equal(t, "world", string(buf))

	// overwrite in place
	_, err = b.Seek(0, io.SeekStart)
	require.NoError(t, err)
	_, err = b.Write([]byte("HELLO"))
	require.NoError(t, err)
	assert.Equal(t, "HELLO world", string(b.Bytes()))

	// read at EOF
	_, err = b.Seek(0, io.SeekEnd)
	require.NoError(t, err)
	_, err = b.Read(buf)
	assert.Equal(t, io.EOF, err)
}

func TestBufferSeekWhence(t *testing.T) {
	var b Buffer
	_, err := b.Write([]byte("0123456789"))
	require.NoError(t, err)

	pos, err := b.Seek(-3, io.SeekEnd)
	require.NoError(t, err)
	require.Equal(t, int64(7), pos)

	pos, err = b.Seek(2, io.SeekCurrent)
	require.NoError(t, err)
	require.Equal(t, int64(9), pos)

	_, err = b.Seek(-1, io.SeekStart)
	assert.Error(t, err)
	_, err = b.Seek(0, 42)
	assert.Error(t, err)
}

func TestBufferWritePastEnd(t *testing.T) {
	var b Buffer
	_, err := b.Seek(4, io.SeekStart)
	require.NoError(t, err)
	_, err = b.Write([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0, 'x'}, b.Bytes())
}

func TestBufferTruncate(t *testing.T) {
	var b Buffer
	_, err := b.Write([]byte("0123456789"))
	require.NoError(t, err)

	require.NoError(t, b.Truncate(4))
	assert.Equal(t, "0123", string(b.Bytes()))

	// extending zero-fills
	require.NoError(t, b.Truncate(6))
	assert.Equal(t, []byte{'0', '1', '2', '3', 0, 0}, b.Bytes())

	assert.Error(t, b.Truncate(-1))

	// truncate does not move the cursor
	require.NoError(t, b.Truncate(0))
	pos, err := b.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(10), pos)
}

func TestBufferStaleBytesAfterTruncate(t *testing.T) {
	var b Buffer
	_, err := b.Write([]byte("aaaaaaaa"))
	require.NoError(t, err)
	require.NoError(t, b.Truncate(0))
	_, err = b.Seek(4, io.SeekStart)
	require.NoError(t, err)
	_, err = b.Write([]byte("b"))
	require.NoError(t, err)
	// the gap must be zeroes, not leftover 'a's
	assert.Equal(t, []byte{0, 0, 0, 0, 'b'}, b.Bytes())
}
