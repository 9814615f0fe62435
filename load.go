// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package flatinterval

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/gogama/flatinterval/segtree"
)

// Format identifies an interval record format.
type Format int

const (
	// FormatAuto detects the format from the leading bytes of the input:
	// FIB if they are a FIB magic number, otherwise TSV.
	FormatAuto Format = iota
	// FormatTSV is the tab-separated text format read by ReadTSV.
	FormatTSV
	// FormatFIB is the binary FIB format read by FileReader.
	FormatFIB
)

var formatNames = [...]string{
	FormatAuto: "auto",
	FormatTSV:  "tsv",
	FormatFIB:  "fib",
}

// String returns the lower-case name of the format.
func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return "Format(" + strconv.Itoa(int(f)) + ")"
	}
	return formatNames[f]
}

// ParseFormat returns the Format with the given case-insensitive name.
func ParseFormat(name string) (Format, error) {
	for f, n := range formatNames {
		if strings.EqualFold(name, n) {
			return Format(f), nil
		}
	}
	return FormatAuto, fmtErr("unknown format %q", name)
}

// ReadIntervals reads all interval records from r in the given format.
func ReadIntervals(r io.Reader, f Format) ([]segtree.Interval[int64, string], error) {
	if r == nil {
		textPanic("nil reader")
	}
	if f == FormatAuto {
		br := bufio.NewReader(r)
		f = FormatTSV
		if m, err := br.Peek(magicLen); err == nil {
			if _, ok := matchMagic(m); ok {
				f = FormatFIB
			}
		}
		r = br
	}

	switch f {
	case FormatTSV:
		return ReadTSV(r)
	case FormatFIB:
		fr := NewFileReader(r)
		if _, err := fr.Header(); err != nil {
			return nil, err
		}
		return fr.Data()
	default:
		return nil, fmtErr("unknown format %s", f)
	}
}

// Load reads all interval records from r in the given format and builds
// a segment tree over them.
func Load(r io.Reader, f Format) (*segtree.Tree[int64, string], error) {
	intervals, err := ReadIntervals(r, f)
	if err != nil {
		return nil, err
	}
	tree, err := segtree.New(intervals)
	if err != nil {
		return nil, wrapErr("failed to build index", err)
	}
	return tree, nil
}
