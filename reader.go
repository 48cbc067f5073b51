// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ahuff

import "io"

// ReaderConfig configures a Reader.
type ReaderConfig struct {
	// MaxSize limits the number of decompressed bytes.
	// If zero, the output size is not limited.
	MaxSize int64

	_ struct{} // Blank field to prevent unkeyed struct literals
}

// Reader decompresses an archive read from an io.Reader.
//
// The archive is only decodable once its final byte is known, so the first
// call to Read consumes the underlying io.Reader until io.EOF.
// A Reader is not safe for concurrent use.
type Reader struct {
	InputOffset  int64 // Total number of bytes read from underlying io.Reader
	OutputOffset int64 // Total number of bytes emitted from Read

	rd      io.Reader
	maxSize int64
	toRead  []byte // Decompressed data ready to be emitted from Read
	err     error  // Persistent error
	dec     decoder
}

// NewReader returns a Reader that decompresses the archive in r.
// If conf is nil, the default configuration is used.
func NewReader(r io.Reader, conf *ReaderConfig) (*Reader, error) {
	zr := new(Reader)
	if conf != nil {
		if conf.MaxSize < 0 {
			return nil, errConfig
		}
		zr.maxSize = conf.MaxSize
	}
	zr.Reset(r)
	return zr, nil
}

func (zr *Reader) Read(buf []byte) (int, error) {
	for {
		if len(zr.toRead) > 0 {
			cnt := copy(buf, zr.toRead)
			zr.toRead = zr.toRead[cnt:]
			zr.OutputOffset += int64(cnt)
			return cnt, nil
		}
		if zr.err != nil {
			return 0, zr.err
		}
		zr.decode()
	}
}

func (zr *Reader) decode() {
	archive, err := io.ReadAll(zr.rd)
	zr.InputOffset += int64(len(archive))
	if err != nil {
		zr.err = err
		return
	}

	defer errRecover(&zr.err)
	zr.dec.maxSize = zr.maxSize
	zr.toRead = zr.dec.Decode(nil, archive)
	zr.err = io.EOF
}

// Close ends the Reader. Subsequent reads fail.
// It does not close the underlying io.Reader.
func (zr *Reader) Close() error {
	if zr.err == nil || zr.err == io.EOF || zr.err == errClosed {
		zr.toRead = nil // Make sure future reads fail
		zr.err = errClosed
		return nil
	}
	return zr.err // Return the persistent error
}

// Reset discards the Reader's state and makes it equivalent to the result of
// NewReader, but reading from r instead. The configuration is retained.
func (zr *Reader) Reset(r io.Reader) error {
	*zr = Reader{
		rd:      r,
		maxSize: zr.maxSize,
		dec:     zr.dec,
	}
	return nil
}
