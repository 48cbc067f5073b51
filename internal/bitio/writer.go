// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bitio implements the bit packing used by the adaptive Huffman
// archive format.
//
// Bits are packed into bytes starting with the least-significant bit. Since
// the payload need not end on a byte boundary, the number of meaningful bits
// in the final byte is carried out-of-band as a count in the range 1..8.
package bitio

// Writer accumulates single bits and packs them into bytes.
// The zero value is ready for use.
type Writer struct {
	buf     []byte // Packed output bytes
	run     byte   // Pending bits, the first written bit is the LSB
	numBits uint   // Number of valid bits in run (0..7)
	cnt     int64  // Total number of bits written
}

// Reset discards all written bits, retaining the underlying buffer.
func (bw *Writer) Reset() {
	*bw = Writer{buf: bw.buf[:0]}
}

// BitsWritten reports the number of bits written so far.
func (bw *Writer) BitsWritten() int64 { return bw.cnt }

// WriteBit writes the lowest bit of b.
func (bw *Writer) WriteBit(b uint) {
	bw.run |= byte(b&1) << bw.numBits
	bw.numBits++
	bw.cnt++
	if bw.numBits == 8 {
		bw.buf = append(bw.buf, bw.run)
		bw.run, bw.numBits = 0, 0
	}
}

// WriteBits writes a sequence of bits in order, where each element of bits
// is either 0 or 1.
func (bw *Writer) WriteBits(bits []byte) {
	for _, b := range bits {
		bw.WriteBit(uint(b))
	}
}

// WriteUint writes the lower n bits of v, least-significant bit first.
func (bw *Writer) WriteUint(v uint, n uint) {
	for i := uint(0); i < n; i++ {
		bw.WriteBit(v >> i)
	}
}

// Finish returns the packed bytes together with the number of valid bits in
// the final byte. A partial run of k bits is flushed as one more byte with
// its high bits cleared and reported as k; otherwise the count is 8.
//
// The returned slice aliases the internal buffer until the next Reset.
func (bw *Writer) Finish() (buf []byte, last uint) {
	if bw.numBits == 0 {
		return bw.buf, 8
	}
	return append(bw.buf, bw.run), bw.numBits
}
