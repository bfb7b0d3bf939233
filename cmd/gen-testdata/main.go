// Copyright 2023 The cdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// gen-testdata emits key:value corpus lines for feeding into
// `cdb make` and for benchmarks.  Values are derived from the keys
// with a farm fingerprint, so a corpus is reproducible for a given
// flag combination without storing it.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/dgryski/go-farm"
)

func main() {
	nPairs := flag.Int("n", 100000, "number of key:value pairs to emit")
	prefix := flag.String("prefix", "key_", "key prefix")
	flag.Parse()

	w := bufio.NewWriterSize(os.Stdout, 1<<20)
	defer func() {
		_ = w.Flush()
	}()

	for i := 1; i <= *nPairs; i++ {
		key := fmt.Sprintf("%s%d", *prefix, i)
		value := farm.Fingerprint64([]byte(key))
		fmt.Fprintf(w, "%s:%016x\n", key, value)
	}
}
