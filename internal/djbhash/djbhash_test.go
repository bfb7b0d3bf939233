// Copyright 2023 The cdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package djbhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashKnownVectors(t *testing.T) {
	// worked by hand from the definition: h = 5381, h = h*33 ^ c
	for _, tc := range []struct {
		key  string
		want uint32
	}{
		{"", 5381},
		{"a", 177604},     // 5381*33 ^ 'a'
		{"ab", 5860902},   // 177604*33 ^ 'b'
		{"\x00", 177573},  // xor with 0 is the bare multiply
	} {
		assert.Equal(t, tc.want, Hash([]byte(tc.key)), "key %q", tc.key)
	}
}

func TestHashDeterministic(t *testing.T) {
	keys := [][]byte{
		[]byte("key_1"),
		[]byte("some longer key with spaces"),
		{0xff, 0x00, 0x7f, 0x80},
	}
	for _, k := range keys {
		first := Hash(k)
		for i := 0; i < 10; i++ {
			require.Equal(t, first, Hash(k))
		}
	}
}

func TestBucketProbeSplit(t *testing.T) {
	for _, h := range []uint32{0, 1, 255, 256, 257, 5381, 1 << 31, ^uint32(0)} {
		b := Bucket(h)
		p := ProbeSeed(h)
		require.Less(t, b, uint32(NumBuckets))
		// the split loses no information
		require.Equal(t, h, p*NumBuckets+b)
	}
}
