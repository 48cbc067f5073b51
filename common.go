// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package ahuff implements an adaptive Huffman archive format.
//
// Adaptive Huffman coding compresses a stream in a single pass without
// transmitting a frequency table. Both the compressor and the decompressor
// start with the same empty coding tree and rebalance it after every symbol,
// so the decompressor can always rebuild the tree the compressor used from
// the bits it has already decoded.
//
// An archive is laid out as follows:
//
//	byte 0:     r, the number of valid bits (1..8) in the last payload byte
//	bytes 1..N: packed payload
//
// The payload bits are packed starting with the least-significant bit of each
// byte. The payload starts with a single 0 bit, followed by one entry per
// input byte: either the tree path of a previously seen byte, or the path of
// the NYT (not-yet-transmitted) leaf followed by the 8 bits of the literal
// byte, least-significant bit first. A path is written from the root down,
// using 0 for a left branch and 1 for a right branch.
//
// Archives are not interchangeable with other adaptive Huffman coders that
// share this layout: the NYT leaf never stands for byte 0, and the 256th
// distinct byte takes over the NYT leaf, so inputs containing byte 0 or all
// 256 byte values are coded differently.
package ahuff

import (
	"runtime"

	"github.com/dsnet/ahuff/internal"
)

// Error is the wrapper type for errors specific to this library.
type Error string

func (e Error) Error() string { return "ahuff: " + string(e) }

var (
	ErrCorrupt  error = Error("archive is corrupted")
	ErrTooLarge error = Error("decompressed size exceeds limit")

	errClosed error = Error("stream is closed")
	errConfig error = Error("invalid configuration")
)

// errRecover converts a panic carrying one of this package's errors, or an
// I/O error, into a returned error.
// Runtime errors and broken tree invariants are fatal and re-panicked.
func errRecover(err *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case runtime.Error:
		panic(ex)
	case internal.Error:
		panic(ex)
	case error:
		*err = ex
	default:
		panic(ex)
	}
}
