// Copyright 2023 The cdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

//go:build unix

package cdb

import (
	"bytes"
	"fmt"

	"github.com/cdbgo/cdb/internal/mmap"
)

// OpenMmap opens the database at path through a read-only memory
// mapping advised for random access.  Lookups then probe the mapped
// pages directly instead of issuing seek/read calls, which is the
// faster option for lookup-heavy workloads on large databases.
func OpenMmap(path string) (*File, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mmap.Open(%s): %w", path, err)
	}
	return &File{r: NewReader(bytes.NewReader(m.Data())), c: m}, nil
}
