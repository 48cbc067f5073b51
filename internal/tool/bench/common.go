// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bench compares the adaptive Huffman coder with other compression
// implementations with respect to encode speed, decode speed, and ratio.
//
// Implementations register themselves per format under a short codec name,
// such as "ds" for the implementations in this repository, "std" for the
// standard library, "kp" for github.com/klauspost/compress, and "uk" for
// github.com/ulikunitz/xz.
package bench

import (
	"bytes"
	"fmt"
	"io"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/dsnet/golib/unitconv"
)

type Format int

const (
	FormatAdaptiveHuffman Format = iota
	FormatFlate
	FormatZstd
	FormatXZ
)

// Formats lists every known format.
var Formats = []Format{FormatAdaptiveHuffman, FormatFlate, FormatZstd, FormatXZ}

func (f Format) String() string {
	switch f {
	case FormatAdaptiveHuffman:
		return "ahuff"
	case FormatFlate:
		return "flate"
	case FormatZstd:
		return "zstd"
	case FormatXZ:
		return "xz"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// DefaultLevel is the compression level used when none is specified.
// Encoders without a notion of levels ignore it.
const DefaultLevel = 6

type Encoder func(io.Writer, int) io.WriteCloser
type Decoder func(io.Reader) io.ReadCloser

var (
	Encoders map[Format]map[string]Encoder
	Decoders map[Format]map[string]Decoder
)

func RegisterEncoder(format Format, name string, enc Encoder) {
	if Encoders == nil {
		Encoders = make(map[Format]map[string]Encoder)
	}
	if Encoders[format] == nil {
		Encoders[format] = make(map[string]Encoder)
	}
	Encoders[format][name] = enc
}

func RegisterDecoder(format Format, name string, dec Decoder) {
	if Decoders == nil {
		Decoders = make(map[Format]map[string]Decoder)
	}
	if Decoders[format] == nil {
		Decoders[format] = make(map[string]Decoder)
	}
	Decoders[format][name] = dec
}

// EncoderNames returns the sorted names of the encoders registered for format.
func EncoderNames(format Format) []string {
	var names []string
	for name := range Encoders[format] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Encode compresses input using the named encoder.
func Encode(format Format, name string, input []byte, lvl int) ([]byte, error) {
	enc := Encoders[format][name]
	if enc == nil {
		return nil, fmt.Errorf("no %v encoder named %q", format, name)
	}
	buf := new(bytes.Buffer)
	wr := enc(buf, lvl)
	_, err := io.Copy(wr, bytes.NewReader(input))
	if err := wr.Close(); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode decompresses input using the named decoder.
func Decode(format Format, name string, input []byte) ([]byte, error) {
	dec := Decoders[format][name]
	if dec == nil {
		return nil, fmt.Errorf("no %v decoder named %q", format, name)
	}
	buf := new(bytes.Buffer)
	rd := dec(bytes.NewReader(input))
	_, err := io.Copy(buf, rd)
	if err := rd.Close(); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Ratio is the outcome of compressing some input with a single encoder.
type Ratio struct {
	Format Format
	Codec  string
	Size   int     // Compressed size in bytes
	R      float64 // Ratio (rawSize/compSize)
}

// Ratios compresses input with every registered encoder using the given
// level. The results are ordered by format and then by codec name.
func Ratios(input []byte, lvl int) ([]Ratio, error) {
	var rs []Ratio
	for _, ft := range Formats {
		for _, name := range EncoderNames(ft) {
			output, err := Encode(ft, name, input, lvl)
			if err != nil {
				return nil, fmt.Errorf("%v:%s: %v", ft, name, err)
			}
			r := Ratio{Format: ft, Codec: name, Size: len(output)}
			if len(output) > 0 {
				r.R = float64(len(input)) / float64(len(output))
			}
			rs = append(rs, r)
		}
	}
	return rs, nil
}

// BenchmarkEncoder benchmarks a single encoder on the given input data using
// the selected compression level and reports the result.
func BenchmarkEncoder(input []byte, enc Encoder, lvl int) testing.BenchmarkResult {
	return testing.Benchmark(func(b *testing.B) {
		b.StopTimer()
		if enc == nil {
			b.Fatalf("unexpected error: nil Encoder")
		}
		runtime.GC()
		b.StartTimer()
		for i := 0; i < b.N; i++ {
			wr := enc(io.Discard, lvl)
			_, err := io.Copy(wr, bytes.NewReader(input))
			if err := wr.Close(); err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			if err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			b.SetBytes(int64(len(input)))
		}
	})
}

// BenchmarkDecoder benchmarks a single decoder on the given pre-compressed
// input data and reports the result.
func BenchmarkDecoder(input []byte, dec Decoder) testing.BenchmarkResult {
	return testing.Benchmark(func(b *testing.B) {
		b.StopTimer()
		if dec == nil {
			b.Fatalf("unexpected error: nil Decoder")
		}
		runtime.GC()
		b.StartTimer()
		for i := 0; i < b.N; i++ {
			rd := dec(bytes.NewReader(input))
			cnt, err := io.Copy(io.Discard, rd)
			if err := rd.Close(); err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			if err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			b.SetBytes(cnt)
		}
	})
}

// Rate converts a benchmark result into a rate in MB/s.
func Rate(result testing.BenchmarkResult) float64 {
	if result.N == 0 {
		return 0
	}
	us := (float64(result.T.Nanoseconds()) / 1e3) / float64(result.N)
	return float64(result.Bytes) / us
}

// Name returns a benchmark name of the form "label:level:size", where size
// uses the 1024 based unit prefixes.
func Name(label string, lvl, n int) string {
	s := unitconv.FormatPrefix(float64(n), unitconv.Base1024, 2)
	return fmt.Sprintf("%s:%d:%s", label, lvl, strings.Replace(s, ".00", "", -1))
}
