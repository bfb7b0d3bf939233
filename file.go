// Copyright 2023 The cdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package cdb

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Builder builds a database file on disk.  Records accumulate in a
// temporary file next to the destination; Close finalizes the index
// and atomically renames the result into place read-only, so a
// half-built database is never visible under the destination path.
type Builder struct {
	resultPath string
	f          *os.File
	w          *Writer
}

// Create starts building a database that will live at path once
// Close succeeds.
func Create(path string) (*Builder, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("filepath.Abs: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(path), "cdb-builder.*.tmp")
	if err != nil {
		return nil, fmt.Errorf("CreateTemp (may need permissions for dir containing path): %w", err)
	}
	w, err := NewWriter(f)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("NewWriter: %w", err)
	}
	return &Builder{
		resultPath: path,
		f:          f,
		w:          w,
	}, nil
}

// Put adds one record; see Writer.Put.
func (b *Builder) Put(key, value []byte) error {
	return b.w.Put(key, value)
}

// Close finalizes the database and moves it to its destination.  On
// error the temporary file is removed and nothing appears at the
// destination path.
func (b *Builder) Close() error {
	if b.f == nil {
		return nil
	}
	f := b.f
	b.f = nil

	discard := func(err error) error {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return err
	}

	if err := b.w.Close(); err != nil {
		return discard(err)
	}
	if err := f.Sync(); err != nil {
		return discard(fmt.Errorf("sync: %w", err))
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Chmod(f.Name(), 0444); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("os.Chmod(0444): %w", err)
	}
	if err := os.Rename(f.Name(), b.resultPath); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("os.Rename: %w", err)
	}
	return nil
}

// File is a read handle on a database file.
type File struct {
	r *Reader
	c io.Closer
}

// Open opens the database at path for lookups.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s): %w", path, err)
	}
	return &File{r: NewReader(f), c: f}, nil
}

// Get returns the value stored under key; see Reader.Get.
func (f *File) Get(key []byte) (value []byte, found bool, err error) {
	return f.r.Get(key)
}

// GetString is Get for a string key.
func (f *File) GetString(key string) (value []byte, found bool, err error) {
	return f.r.GetString(key)
}

// Iter returns an iterator over the records; see Reader.Iter.
func (f *File) Iter() (*Iter, error) {
	return f.r.Iter()
}

// Close releases the handle.
func (f *File) Close() error {
	return f.c.Close()
}
