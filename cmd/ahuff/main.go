// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command ahuff compresses and decompresses files using adaptive Huffman
// coding.
//
// Example usage:
//
//	$ ahuff -i twain.txt -o twain.ahf -verify
//	$ ahuff -i twain.ahf -o twain.txt -decompress -max-size 64Mi
//	$ ahuff -i twain.txt -compare
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dsnet/golib/unitconv"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dsnet/ahuff"
	"github.com/dsnet/ahuff/internal/tool/bench"
)

type config struct {
	input      string
	output     string
	decompress bool
	verify     bool
	compare    bool
	force      bool
	verbose    bool
	maxSize    int64
}

func main() {
	switch err := run(os.Args[1:], os.Stdout, os.Stderr); {
	case err == flag.ErrHelp:
		os.Exit(2)
	case err != nil:
		fmt.Fprintf(os.Stderr, "ahuff: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (config, error) {
	var cfg config
	var compress bool
	var maxSize string

	fset := flag.NewFlagSet("ahuff", flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.StringVar(&cfg.input, "i", "", "input file")
	fset.StringVar(&cfg.output, "o", "", "output file")
	fset.BoolVar(&compress, "compress", false, "compress the input (default)")
	fset.BoolVar(&cfg.decompress, "decompress", false, "decompress the input")
	fset.BoolVar(&cfg.verify, "verify", false, "check that the archive decompresses to the input")
	fset.BoolVar(&cfg.compare, "compare", false, "print the compression ratio of every available codec")
	fset.BoolVar(&cfg.force, "f", false, "overwrite an existing output file")
	fset.BoolVar(&cfg.verbose, "v", false, "verbose logging")
	fset.StringVar(&maxSize, "max-size", "", "limit on the decompressed size (e.g., 64Mi)")
	if err := fset.Parse(args); err != nil {
		return cfg, err
	}

	switch {
	case fset.NArg() > 0:
		return cfg, errors.Errorf("unexpected arguments: %q", fset.Args())
	case compress && cfg.decompress:
		return cfg, errors.New("-compress and -decompress are mutually exclusive")
	case cfg.input == "":
		return cfg, errors.New("missing input file (-i)")
	case cfg.output == "" && !cfg.compare:
		return cfg, errors.New("missing output file (-o)")
	case cfg.verify && cfg.decompress:
		return cfg, errors.New("-verify only applies to compression")
	}
	if maxSize != "" {
		n, err := unitconv.ParsePrefix(maxSize, unitconv.AutoParse)
		if err != nil || n < 0 || n > math.MaxInt64 {
			return cfg, errors.Errorf("invalid -max-size: %q", maxSize)
		}
		cfg.maxSize = int64(n)
	}
	return cfg, nil
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	level := zapcore.InfoLevel
	if verbose {
		encCfg = zap.NewDevelopmentEncoderConfig()
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	logger := newLogger(stderr, cfg.verbose)
	defer logger.Sync()
	log := logger.Sugar()

	input, err := readFile(cfg.input)
	if err != nil {
		return err
	}
	log.Debugw("read input", "file", cfg.input, "size", len(input))

	if cfg.compare {
		return compare(stdout, input)
	}

	start := time.Now()
	var output []byte
	if cfg.decompress {
		if output, err = decompress(input, cfg.maxSize); err != nil {
			return err
		}
	} else {
		output = ahuff.Compress(input)
		if cfg.verify {
			if err := verify(input, output); err != nil {
				return err
			}
			log.Debugw("verified archive", "xxhash", fmt.Sprintf("%016x", xxhash.Sum64(input)))
		}
	}
	elapsed := time.Since(start)

	if err := writeFile(cfg.output, output, cfg.force); err != nil {
		return err
	}

	mode, raw, packed := "compress", len(input), len(output)
	if cfg.decompress {
		mode, raw, packed = "decompress", len(output), len(input)
	}
	log.Infow(mode,
		"input", cfg.input,
		"output", cfg.output,
		"raw", formatSize(raw),
		"packed", formatSize(packed),
		"ratio", ratio(raw, packed),
		"elapsed", elapsed,
	)
	return nil
}

func decompress(input []byte, maxSize int64) ([]byte, error) {
	zr, err := ahuff.NewReader(bytes.NewReader(input), &ahuff.ReaderConfig{MaxSize: maxSize})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	output, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.Wrap(err, "decompressing")
	}
	if err := zr.Close(); err != nil {
		return nil, errors.Wrap(err, "decompressing")
	}
	return output, nil
}

// verify checks that archive decompresses to a copy of input.
func verify(input, archive []byte) error {
	output, err := ahuff.Decompress(archive)
	if err != nil {
		return errors.Wrap(err, "verifying")
	}
	if got, want := xxhash.Sum64(output), xxhash.Sum64(input); got != want {
		return errors.Errorf("verifying: digest mismatch: got %016x, want %016x", got, want)
	}
	return nil
}

func compare(w io.Writer, input []byte) error {
	rs, err := bench.Ratios(input, bench.DefaultLevel)
	if err != nil {
		return errors.Wrap(err, "comparing")
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "FORMAT\tCODEC\tSIZE\tRATIO\n")
	for _, r := range rs {
		fmt.Fprintf(tw, "%v\t%s\t%s\t%.3f\n", r.Format, r.Codec, formatSize(r.Size), r.R)
	}
	return errors.WithStack(tw.Flush())
}

func readFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, errors.Errorf("input file not found: %s", path)
	case err != nil:
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return b, nil
}

func writeFile(path string, b []byte, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0664)
	switch {
	case errors.Is(err, fs.ErrExist):
		return errors.Errorf("output file already exists: %s (use -f to overwrite)", path)
	case err != nil:
		return errors.Wrapf(err, "creating %s", path)
	}
	if _, err := f.Write(b); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}

func formatSize(n int) string {
	return unitconv.FormatPrefix(float64(n), unitconv.Base1024, 2) + "B"
}

func ratio(raw, packed int) float64 {
	if packed == 0 {
		return 0
	}
	return float64(raw) / float64(packed)
}
