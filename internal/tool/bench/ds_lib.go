// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build !no_ds_lib

package bench

import (
	"io"

	"github.com/dsnet/ahuff"
)

func init() {
	RegisterEncoder(FormatAdaptiveHuffman, "ds",
		func(w io.Writer, lvl int) io.WriteCloser {
			return ahuff.NewWriter(w)
		})
	RegisterDecoder(FormatAdaptiveHuffman, "ds",
		func(r io.Reader) io.ReadCloser {
			zr, err := ahuff.NewReader(r, nil)
			if err != nil {
				panic(err)
			}
			return zr
		})
}
