// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ahuff

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dsnet/ahuff/internal/testutil"
)

var errTest = errors.New("test error")

// allSymbols returns every byte value once in ascending order, followed by
// every byte value again in descending order.
func allSymbols() []byte {
	var b []byte
	for i := 0; i < 256; i++ {
		b = append(b, byte(i))
	}
	for i := 255; i >= 0; i-- {
		b = append(b, byte(i))
	}
	return b
}

func TestCompress(t *testing.T) {
	var vectors = []struct {
		desc   string
		input  string
		output []byte
	}{{
		desc:   "empty input",
		input:  "",
		output: testutil.MustDecodeHex("0100"),
	}, {
		desc:   "single literal",
		input:  "a",
		output: testutil.MustDecodeHex("01c200"),
	}, {
		desc:   "literal then code",
		input:  "aa",
		output: testutil.MustDecodeHex("02c202"),
	}, {
		desc:   "literal then code, bitgen",
		input:  "aa",
		output: testutil.MustDecodeBitGen("<<< X:02 0 H8:61 1"),
	}, {
		desc:   "several literals with swaps",
		input:  "aabcdad",
		output: testutil.MustDecodeHex("05c212630c6416"),
	}, {
		desc:  "several literals with swaps, bitgen",
		input: "aabcdad",
		output: testutil.MustDecodeBitGen(`<<<
			X:05        # Valid bits in the last byte
			0           # Leading bit
			H8:61       # NYT, 'a'
			1           # 'a'
			0 H8:62     # NYT, 'b'
			0 0 H8:63   # NYT, 'c'
			0 0 0 H8:64 # NYT, 'd'
			0           # 'a'
			1 1 0 1     # 'd'
		`),
	}, {
		desc:  "run of a single byte",
		input: "\x00\x00\x00\x00\x00\x00\x00\x00",
		output: testutil.MustDecodeBitGen(`<<<
			X:08
			0 H8:00   # Byte 0 is an ordinary literal
			1 1 1 1 1 1 1
		`),
	}}

	for i, v := range vectors {
		output := Compress([]byte(v.input))
		if !bytes.Equal(output, v.output) {
			t.Errorf("test %d, %s: output mismatch:\ngot  %x\nwant %x", i, v.desc, output, v.output)
		}
		input, err := Decompress(v.output)
		if err != nil {
			t.Errorf("test %d, %s: unexpected error: %v", i, v.desc, err)
		}
		if string(input) != v.input {
			t.Errorf("test %d, %s: input mismatch:\ngot  %q\nwant %q", i, v.desc, input, v.input)
		}
	}
}

func TestDecompress(t *testing.T) {
	var vectors = []struct {
		desc   string
		input  []byte
		output string
		err    error
	}{{
		desc: "empty archive",
		err:  ErrCorrupt,
	}, {
		desc:  "missing payload",
		input: testutil.MustDecodeHex("01"),
		err:   ErrCorrupt,
	}, {
		desc:  "trailing count of zero",
		input: testutil.MustDecodeHex("0000"),
		err:   ErrCorrupt,
	}, {
		desc:  "trailing count of nine",
		input: testutil.MustDecodeHex("0900"),
		err:   ErrCorrupt,
	}, {
		desc:  "leading bit only",
		input: testutil.MustDecodeHex("0100"),
	}, {
		desc:  "leading bit value is ignored",
		input: testutil.MustDecodeHex("0101"),
	}, {
		desc:  "truncated first literal",
		input: testutil.MustDecodeHex("08c2"),
		err:   ErrCorrupt,
	}, {
		desc:  "partial first literal",
		input: testutil.MustDecodeHex("0200"),
		err:   ErrCorrupt,
	}, {
		desc:   "one literal",
		input:  testutil.MustDecodeHex("01c200"),
		output: "a",
	}, {
		desc:  "truncated later literal",
		input: testutil.MustDecodeBitGen("<<< X:01 0 H8:61 0 H8:62 0 0 D5:0"),
		err:   ErrCorrupt,
	}, {
		desc:  "literal repeats a known symbol",
		input: testutil.MustDecodeBitGen("<<< X:02 0 H8:61 0 H8:61"),
		err:   ErrCorrupt,
	}, {
		desc:  "literal repeats a known symbol, hex",
		input: testutil.MustDecodeHex("02c28401"),
		err:   ErrCorrupt,
	}, {
		desc:   "ends in the middle of a path",
		input:  testutil.MustDecodeHex("03c212630c6416"),
		output: "",
		err:    ErrCorrupt,
	}, {
		desc:   "ends after a complete path",
		input:  testutil.MustDecodeHex("01c212630c6416"),
		output: "aabcda",
	}, {
		desc:   "complete archive",
		input:  testutil.MustDecodeHex("05c212630c6416"),
		output: "aabcdad",
	}}

	for i, v := range vectors {
		output, err := Decompress(v.input)
		if err != v.err {
			t.Errorf("test %d, %s: error mismatch: got %v, want %v", i, v.desc, err, v.err)
		}
		if string(output) != v.output {
			t.Errorf("test %d, %s: output mismatch:\ngot  %q\nwant %q", i, v.desc, output, v.output)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	r := testutil.NewRand(0)
	skewed := r.Bytes(1 << 14)
	for i := range skewed {
		skewed[i] %= byte(1 + r.Intn(16))
	}

	var vectors = []struct {
		desc  string
		input []byte
	}{
		{"nil", nil},
		{"single byte", []byte{0xff}},
		{"zero byte", []byte{0x00}},
		{"all symbols", allSymbols()},
		{"all symbols permuted", func() []byte {
			var b []byte
			for _, n := range r.Perm(256) {
				b = append(b, byte(n))
			}
			return append(b, b...)
		}()},
		{"text", []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 64))},
		{"random", r.Bytes(1 << 14)},
		{"skewed", skewed},
		{"long run", bytes.Repeat([]byte{'z'}, 10000)},
	}

	for i, v := range vectors {
		archive := Compress(v.input)
		if len(archive) < 2 {
			t.Errorf("test %d, %s: archive too short: %d bytes", i, v.desc, len(archive))
			continue
		}
		if archive[0] < 1 || archive[0] > 8 {
			t.Errorf("test %d, %s: invalid trailing count: %d", i, v.desc, archive[0])
		}
		output, err := Decompress(archive)
		if err != nil {
			t.Errorf("test %d, %s: unexpected error: %v", i, v.desc, err)
			continue
		}
		if !bytes.Equal(output, v.input) {
			t.Errorf("test %d, %s: output mismatch", i, v.desc)
		}
		if again := Compress(v.input); !bytes.Equal(again, archive) {
			t.Errorf("test %d, %s: archive is not deterministic", i, v.desc)
		}
	}
}

func TestCompressRatio(t *testing.T) {
	// A source with four equally likely symbols needs little more than
	// 2 bits per byte.
	r := testutil.NewRand(1)
	input := r.Bytes(1 << 16)
	for i := range input {
		input[i] = "ACGT"[input[i]%4]
	}
	archive := Compress(input)
	if got, limit := len(archive), len(input)*3/8; got > limit {
		t.Errorf("archive size = %d, want at most %d", got, limit)
	}
}

func TestWriter(t *testing.T) {
	r := testutil.NewRand(2)
	input := r.Bytes(1 << 12)
	for i := range input {
		input[i] &= 0x1f
	}
	want := Compress(input)

	var buf bytes.Buffer
	zw := NewWriter(&buf)
	for rem := input; len(rem) > 0; {
		n := 1 + r.Intn(100)
		if n > len(rem) {
			n = len(rem)
		}
		if cnt, err := zw.Write(rem[:n]); cnt != n || err != nil {
			t.Fatalf("Write() = (%d, %v), want (%d, nil)", cnt, err, n)
		}
		rem = rem[n:]
	}
	if buf.Len() != 0 {
		t.Errorf("archive written before Close: %d bytes", buf.Len())
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("unexpected Close error: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("output mismatch:\ngot  %x\nwant %x", buf.Bytes(), want)
	}
	if zw.InputOffset != int64(len(input)) || zw.OutputOffset != int64(len(want)) {
		t.Errorf("offsets = (%d, %d), want (%d, %d)", zw.InputOffset, zw.OutputOffset, len(input), len(want))
	}
	if err := zw.Close(); err != nil {
		t.Errorf("unexpected error on second Close: %v", err)
	}
	if _, err := zw.Write([]byte("x")); err != errClosed {
		t.Errorf("Write after Close: got %v, want %v", err, errClosed)
	}

	// A reset Writer produces the same archive again.
	buf.Reset()
	zw.Reset(&buf)
	if _, err := zw.Write(input); err != nil {
		t.Fatalf("unexpected Write error: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("unexpected Close error: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("output mismatch after Reset")
	}
}

func TestWriterError(t *testing.T) {
	bw := &testutil.BuggyWriter{W: io.Discard, N: 2, Err: errTest}
	zw := NewWriter(bw)
	if _, err := zw.Write([]byte("hello, world")); err != nil {
		t.Fatalf("unexpected Write error: %v", err)
	}
	if err := zw.Close(); err != errTest {
		t.Errorf("Close() = %v, want %v", err, errTest)
	}
	if err := zw.Close(); err != errTest {
		t.Errorf("second Close() = %v, want %v", err, errTest)
	}
	if zw.OutputOffset != 2 {
		t.Errorf("OutputOffset = %d, want 2", zw.OutputOffset)
	}
}

func TestReader(t *testing.T) {
	input := []byte(strings.Repeat("abracadabra ", 100))
	archive := Compress(input)

	var vectors = []struct {
		desc   string
		rd     io.Reader
		conf   *ReaderConfig
		output []byte
		inOff  int64
		err    error
	}{{
		desc:   "nil config",
		rd:     bytes.NewReader(archive),
		output: input,
		inOff:  int64(len(archive)),
	}, {
		desc:   "limit equals output size",
		rd:     bytes.NewReader(archive),
		conf:   &ReaderConfig{MaxSize: int64(len(input))},
		output: input,
		inOff:  int64(len(archive)),
	}, {
		desc:  "limit below output size",
		rd:    bytes.NewReader(archive),
		conf:  &ReaderConfig{MaxSize: int64(len(input)) - 1},
		inOff: int64(len(archive)),
		err:   ErrTooLarge,
	}, {
		desc:  "corrupted archive",
		rd:    bytes.NewReader(archive[:1]),
		inOff: 1,
		err:   ErrCorrupt,
	}, {
		desc:  "underlying read error",
		rd:    &testutil.BuggyReader{R: bytes.NewReader(archive), N: 3, Err: errTest},
		inOff: 3,
		err:   errTest,
	}, {
		desc:  "unexpected EOF is passed through",
		rd:    &testutil.BuggyReader{R: bytes.NewReader(archive), N: 5, Err: io.ErrUnexpectedEOF},
		inOff: 5,
		err:   io.ErrUnexpectedEOF,
	}}

	for i, v := range vectors {
		zr, err := NewReader(v.rd, v.conf)
		if err != nil {
			t.Errorf("test %d, %s: unexpected NewReader error: %v", i, v.desc, err)
			continue
		}
		output, err := io.ReadAll(zr)
		if err != v.err {
			t.Errorf("test %d, %s: error mismatch: got %v, want %v", i, v.desc, err, v.err)
		}
		if !bytes.Equal(output, v.output) {
			t.Errorf("test %d, %s: output mismatch", i, v.desc)
		}
		if zr.InputOffset != v.inOff {
			t.Errorf("test %d, %s: InputOffset = %d, want %d", i, v.desc, zr.InputOffset, v.inOff)
		}
		if zr.OutputOffset != int64(len(v.output)) {
			t.Errorf("test %d, %s: OutputOffset = %d, want %d", i, v.desc, zr.OutputOffset, len(v.output))
		}
		if err := zr.Close(); err != v.err {
			t.Errorf("test %d, %s: Close() = %v, want %v", i, v.desc, err, v.err)
		}
	}
}

func TestReaderClose(t *testing.T) {
	zr, err := NewReader(bytes.NewReader(Compress([]byte("hello"))), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	buf := make([]byte, 2)
	if n, err := zr.Read(buf); n != 2 || err != nil {
		t.Fatalf("Read() = (%d, %v), want (2, nil)", n, err)
	}
	if err := zr.Close(); err != nil {
		t.Fatalf("unexpected Close error: %v", err)
	}
	if n, err := zr.Read(buf); n != 0 || err != errClosed {
		t.Errorf("Read after Close = (%d, %v), want (0, %v)", n, err, errClosed)
	}
	if err := zr.Close(); err != nil {
		t.Errorf("unexpected error on second Close: %v", err)
	}

	zr.Reset(bytes.NewReader(Compress([]byte("world"))))
	if b, err := io.ReadAll(zr); string(b) != "world" || err != nil {
		t.Errorf("ReadAll after Reset = (%q, %v), want (\"world\", nil)", b, err)
	}
}

func TestReaderConfig(t *testing.T) {
	if _, err := NewReader(bytes.NewReader(nil), &ReaderConfig{MaxSize: -1}); err != errConfig {
		t.Errorf("NewReader() error = %v, want %v", err, errConfig)
	}
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte(nil))
	f.Add([]byte("aabcdad"))
	f.Add(allSymbols())
	f.Fuzz(func(t *testing.T, input []byte) {
		output, err := Decompress(Compress(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(output, input) {
			t.Fatalf("output mismatch")
		}
	})
}

func FuzzDecompress(f *testing.F) {
	f.Add(testutil.MustDecodeHex("0100"))
	f.Add(testutil.MustDecodeHex("05c212630c6416"))
	f.Add(testutil.MustDecodeHex("02c28401"))
	f.Add(Compress(allSymbols()))
	f.Fuzz(func(t *testing.T, archive []byte) {
		output, err := Decompress(archive)
		if err != nil {
			if err != ErrCorrupt {
				t.Fatalf("unexpected error: %v", err)
			}
			return
		}
		// Compressing the output need not reproduce the archive since the
		// leading bit and any unused input are not canonical, but it must
		// round-trip again.
		again, err := Decompress(Compress(output))
		if err != nil || !bytes.Equal(again, output) {
			t.Fatalf("round-trip mismatch: %v", err)
		}
	})
}

func BenchmarkCompress(b *testing.B) {
	input := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 1024))
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Compress(input)
	}
}

func BenchmarkDecompress(b *testing.B) {
	input := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 1024))
	archive := Compress(input)
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Decompress(archive); err != nil {
			b.Fatal(err)
		}
	}
}
