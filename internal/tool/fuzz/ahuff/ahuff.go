// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build gofuzz

// Package ahuff is a go-fuzz entry point for the adaptive Huffman archive
// format. Under the gofuzz build tag, every tree operation also verifies the
// tree invariants.
package ahuff

import (
	"bytes"
	"io"

	"github.com/dsnet/ahuff"
)

func Fuzz(data []byte) int {
	out, ok := testDecoders(data)
	testEncoders(data)
	if ok {
		testEncoders(out)
		return 1 // Favor valid inputs
	}
	return 0
}

// testDecoders tests that Decompress and Reader agree on the input.
// This test does not panic if both run into the same error, since it means
// that they both agree that the input is bad.
func testDecoders(data []byte) ([]byte, bool) {
	zr, err := ahuff.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		panic(err)
	}
	rb, rerr := io.ReadAll(zr)
	db, derr := ahuff.Decompress(data)

	switch {
	case rerr == nil && derr == nil:
		if !bytes.Equal(rb, db) {
			panic("mismatching bytes")
		}
		if err := zr.Close(); err != nil {
			panic(err)
		}
		return db, true
	case rerr != derr:
		panic("mismatching errors")
	case derr != ahuff.ErrCorrupt:
		panic(derr)
	default:
		return nil, false
	}
}

// testEncoders checks that Compress and Writer produce the same archive and
// that the archive decompresses back to the input.
func testEncoders(data []byte) {
	archive := ahuff.Compress(data)

	bb := new(bytes.Buffer)
	zw := ahuff.NewWriter(bb)
	for rem := data; len(rem) > 0; {
		n := 1 + int(rem[0])%32
		if n > len(rem) {
			n = len(rem)
		}
		if cnt, err := zw.Write(rem[:n]); cnt != n || err != nil {
			panic(err)
		}
		rem = rem[n:]
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	if !bytes.Equal(bb.Bytes(), archive) {
		panic("mismatching archives")
	}

	b, ok := testDecoders(archive)
	if !ok {
		panic("decoder error")
	}
	if !bytes.Equal(b, data) {
		panic("mismatching bytes")
	}
}
