// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ahuff

import (
	"github.com/dsnet/ahuff/internal/adaptive"
	"github.com/dsnet/ahuff/internal/bitio"
)

type encoder struct {
	tree adaptive.Tree
	bw   bitio.Writer
	code []byte // Scratch buffer for the current path
}

func (e *encoder) Init() {
	e.tree.Init()
	e.bw.Reset()
	e.bw.WriteBit(0)
}

// Encode appends the codes for buf to the payload.
func (e *encoder) Encode(buf []byte) {
	for _, c := range buf {
		if n, ok := e.tree.Find(c); ok {
			e.code = e.tree.Code(n, e.code[:0])
			e.bw.WriteBits(e.code)
			e.tree.Increment(n)
			continue
		}

		// An unseen symbol implies the tree is not yet full.
		nyt, _ := e.tree.NYT()
		e.code = e.tree.Code(nyt, e.code[:0])
		e.bw.WriteBits(e.code)
		e.bw.WriteUint(uint(c), 8)
		e.tree.Insert(c)
	}
}

// Finish appends the complete archive to dst.
func (e *encoder) Finish(dst []byte) []byte {
	buf, last := e.bw.Finish()
	dst = append(dst, byte(last))
	return append(dst, buf...)
}

// Compress returns the archive of data.
// The output is fully determined by data.
func Compress(data []byte) []byte {
	var e encoder
	e.Init()
	e.Encode(data)
	return e.Finish(make([]byte, 0, 1+len(data)))
}
