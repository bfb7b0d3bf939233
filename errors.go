// Copyright 2023 The cdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package cdb

import (
	"errors"

	"github.com/cdbgo/cdb/internal/hashtable"
)

// DuplicateKeyError is returned from Writer.Put when a key is written
// twice in one session.  It is fatal: the duplicate's record bytes
// are already appended and cannot be removed, so the in-progress
// database must be discarded.  Match it with errors.As.
type DuplicateKeyError = hashtable.DuplicateKeyError

var (
	// ErrKeyTooLarge and ErrValueTooLarge are returned from Put
	// before anything is written when a length will not fit the
	// format's 32-bit length fields.
	ErrKeyTooLarge   = errors.New("key length doesn't fit in 32 bits")
	ErrValueTooLarge = errors.New("value length doesn't fit in 32 bits")

	// ErrTooLarge means the database grew past what 32-bit record
	// offsets can address.
	ErrTooLarge = errors.New("database too large for 32-bit offsets")

	// ErrClosed is returned when using a Writer after Close.
	ErrClosed = errors.New("writer already closed")
)
