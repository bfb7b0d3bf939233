// Copyright 2023 The cdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// cdb is a small command-line companion to the library:
//
//	cdb make  <db> [input]   build a database from key:value lines
//	cdb get   <db> <key>     look one key up
//	cdb dump  <db>           print every record as key:value lines
//	cdb shell <db>           interactive lookups
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/cdbgo/cdb"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <make|get|dump|shell> <db> [args]\n", os.Args[0])
	os.Exit(2)
}

func main() {
	log.SetFlags(0)
	if len(os.Args) < 3 {
		usage()
	}
	db := os.Args[2]
	args := os.Args[3:]

	switch os.Args[1] {
	case "make":
		cmdMake(db, args)
	case "get":
		cmdGet(db, args)
	case "dump":
		cmdDump(db)
	case "shell":
		cmdShell(db)
	default:
		usage()
	}
}

// split2 splits a line on its first sep without allocating.
func split2(s []byte, sep byte) (l, r []byte, ok bool) {
	m := bytes.IndexByte(s, sep)
	if m < 0 {
		return nil, nil, false
	}
	return s[:m], s[m+1:], true
}

func cmdMake(db string, args []string) {
	in := os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			log.Fatal(err)
		}
		defer func() {
			_ = f.Close()
		}()
		in = f
	}

	builder, err := cdb.Create(db)
	if err != nil {
		log.Fatal(err)
	}

	lineNo := 0
	s := bufio.NewScanner(bufio.NewReaderSize(in, 1<<20))
	for s.Scan() {
		lineNo++
		line := s.Bytes()
		if len(line) == 0 {
			continue
		}
		k, v, ok := split2(line, ':')
		if !ok {
			log.Fatalf("line %d: expected key:value, got %q", lineNo, line)
		}
		if err := builder.Put(k, v); err != nil {
			log.Fatalf("line %d: %s", lineNo, err)
		}
	}
	if err := s.Err(); err != nil {
		log.Fatal(err)
	}
	if err := builder.Close(); err != nil {
		log.Fatal(err)
	}
}

func cmdGet(db string, args []string) {
	if len(args) != 1 {
		usage()
	}
	f, err := cdb.Open(db)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		_ = f.Close()
	}()

	value, found, err := f.GetString(args[0])
	if err != nil {
		log.Fatal(err)
	}
	if !found {
		log.Fatalf("%s: not found", args[0])
	}
	_, _ = os.Stdout.Write(value)
	fmt.Println()
}

func cmdDump(db string) {
	f, err := cdb.Open(db)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		_ = f.Close()
	}()

	it, err := f.Iter()
	if err != nil {
		log.Fatal(err)
	}
	w := bufio.NewWriterSize(os.Stdout, 1<<20)
	for {
		k, v, ok := it.Next()
		if !ok {
			break
		}
		fmt.Fprintf(w, "%s:%s\n", k, v)
	}
	if err := w.Flush(); err != nil {
		log.Fatal(err)
	}
	if err := it.Err(); err != nil {
		log.Fatal(err)
	}
}

func cmdShell(db string) {
	f, err := cdb.Open(db)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		_ = f.Close()
	}()

	fmt.Println("commands: get <key>, exit")
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		words, err := shellquote.Split(line)
		if err != nil {
			fmt.Println("parse error:", err)
			continue
		}

		switch words[0] {
		case "exit", "quit":
			return
		case "get":
			if len(words) != 2 {
				fmt.Println("usage: get <key>")
				continue
			}
			value, found, err := f.GetString(words[1])
			if err != nil {
				log.Fatal(err)
			}
			if !found {
				fmt.Println("(not found)")
				continue
			}
			fmt.Printf("%s\n", value)
		default:
			fmt.Printf("unknown command %q\n", words[0])
		}
	}
}
