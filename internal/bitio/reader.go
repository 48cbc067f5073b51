// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitio

import "github.com/dsnet/ahuff/internal"

// ErrLastCount reports a trailing bit count outside of 1..8.
var ErrLastCount error = internal.Error("invalid trailing bit count")

// Reader unpacks the bits produced by Writer, in the order they were written.
type Reader struct {
	buf    []byte // Packed input bytes
	last   uint   // Number of valid bits in the final byte (1..8)
	offset int    // Index of the byte currently being unpacked
	bitPos uint   // Index of the next bit within buf[offset]
	cnt    int64  // Total number of bits read
}

// NewReader returns a Reader over buf whose final byte holds last valid bits.
func NewReader(buf []byte, last uint) (*Reader, error) {
	br := new(Reader)
	if err := br.Init(buf, last); err != nil {
		return nil, err
	}
	return br, nil
}

// Init resets the Reader to read from buf. The trailing count last must be in
// the range 1..8, even for an empty buffer.
func (br *Reader) Init(buf []byte, last uint) error {
	if last < 1 || last > 8 {
		return ErrLastCount
	}
	*br = Reader{buf: buf, last: last}
	return nil
}

// BitsRead reports the number of bits consumed so far.
func (br *Reader) BitsRead() int64 { return br.cnt }

// Remaining reports the number of bits that can still be read.
func (br *Reader) Remaining() int64 {
	if br.offset >= len(br.buf) {
		return 0
	}
	n := int64(len(br.buf)-br.offset-1)*8 + int64(br.last)
	return n - int64(br.bitPos)
}

// ReadBit reads the next bit. It reports false once the stream is exhausted;
// the padding bits of the final byte are never returned.
func (br *Reader) ReadBit() (uint, bool) {
	if br.offset >= len(br.buf) {
		return 0, false
	}
	limit := uint(8)
	if br.offset == len(br.buf)-1 {
		limit = br.last
	}
	if br.bitPos >= limit {
		return 0, false
	}
	b := uint(br.buf[br.offset]>>br.bitPos) & 1
	br.bitPos++
	br.cnt++
	if br.bitPos == 8 {
		br.offset++
		br.bitPos = 0
	}
	return b, true
}

// ReadUint reads n bits and assembles them least-significant bit first.
// It reports false without consuming anything if fewer than n bits remain.
func (br *Reader) ReadUint(n uint) (uint, bool) {
	if br.Remaining() < int64(n) {
		return 0, false
	}
	var v uint
	for i := uint(0); i < n; i++ {
		b, _ := br.ReadBit()
		v |= b << i
	}
	return v, true
}
