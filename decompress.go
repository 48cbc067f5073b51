// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ahuff

import (
	"github.com/dsnet/ahuff/internal/adaptive"
	"github.com/dsnet/ahuff/internal/bitio"
)

type decoder struct {
	tree    adaptive.Tree
	br      bitio.Reader
	maxSize int64 // Output limit, no limit if <= 0
}

// Decode appends the decompressed contents of archive to dst.
// Errors are reported by panicking with ErrCorrupt or ErrTooLarge.
func (d *decoder) Decode(dst, archive []byte) []byte {
	if len(archive) < 2 {
		panic(ErrCorrupt)
	}
	if d.br.Init(archive[1:], uint(archive[0])) != nil {
		panic(ErrCorrupt)
	}
	d.tree.Init()

	var cnt int64
	emit := func(c byte) {
		if d.maxSize > 0 && cnt >= d.maxSize {
			panic(ErrTooLarge)
		}
		dst = append(dst, c)
		cnt++
	}

	// While the tree is a lone NYT leaf, the root itself is a leaf and no
	// bit is needed to reach it. The leading bit of the payload occupies
	// that step instead.
	cur := d.tree.Root()
	for {
		bit, ok := d.br.ReadBit()
		if !ok {
			if cur != d.tree.Root() {
				panic(ErrCorrupt) // Ended in the middle of a path
			}
			return dst
		}
		if !d.tree.IsLeaf(cur) {
			cur = d.tree.Child(cur, bit)
		}
		if !d.tree.IsLeaf(cur) {
			continue
		}

		if d.tree.IsNYT(cur) {
			v, ok := d.br.ReadUint(8)
			if !ok {
				// The archive of an empty input holds nothing but the
				// leading bit.
				if d.tree.Len() == 0 && d.br.Remaining() == 0 {
					return dst
				}
				panic(ErrCorrupt)
			}
			if _, ok := d.tree.Find(byte(v)); ok {
				panic(ErrCorrupt) // Literal for a symbol already in the tree
			}
			emit(byte(v))
			d.tree.Insert(byte(v))
		} else {
			emit(d.tree.Symbol(cur))
			d.tree.Increment(cur)
		}
		cur = d.tree.Root()
	}
}

// Decompress returns the original data stored in archive.
// It reports ErrCorrupt if archive is malformed.
func Decompress(archive []byte) (data []byte, err error) {
	defer errRecover(&err)
	var d decoder
	return d.Decode(make([]byte, 0, len(archive)), archive), nil
}
