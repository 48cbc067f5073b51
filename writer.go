// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ahuff

import "io"

// Writer compresses the data written to it.
//
// The leading byte of an archive depends on the length of the entire payload,
// so nothing is written to the underlying io.Writer until Close.
// A Writer is not safe for concurrent use.
type Writer struct {
	InputOffset  int64 // Total number of bytes passed to Write
	OutputOffset int64 // Total number of bytes written to underlying io.Writer

	wr  io.Writer
	enc encoder
	err error // Persistent error
}

// NewWriter returns a Writer that stores an archive into w.
func NewWriter(w io.Writer) *Writer {
	zw := new(Writer)
	zw.Reset(w)
	return zw
}

func (zw *Writer) Write(buf []byte) (int, error) {
	if zw.err != nil {
		return 0, zw.err
	}
	zw.enc.Encode(buf)
	zw.InputOffset += int64(len(buf))
	return len(buf), nil
}

// Close writes the archive to the underlying io.Writer.
// It does not close the underlying io.Writer.
func (zw *Writer) Close() error {
	if zw.err == errClosed {
		return nil
	}
	if zw.err != nil {
		return zw.err
	}

	out := zw.enc.Finish(nil)
	n, err := zw.wr.Write(out)
	zw.OutputOffset += int64(n)
	if err == nil && n < len(out) {
		err = io.ErrShortWrite
	}
	if err != nil {
		zw.err = err
		return err
	}
	zw.err = errClosed
	return nil
}

// Reset discards the Writer's state and makes it equivalent to the result of
// NewWriter, but writing to w instead.
func (zw *Writer) Reset(w io.Writer) error {
	*zw = Writer{wr: w, enc: zw.enc}
	zw.enc.Init()
	return nil
}
