// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package flatinterval

import (
	"io"
	"math"

	"github.com/gogama/flatinterval/flat"
	"github.com/gogama/flatinterval/segtree"
)

// FileReader reads a FIB file from an underlying stream.
//
// Call Header first, then Data to read the interval records.
type FileReader struct {
	stateful
	// r is the stream to read from.
	r io.Reader
	// numIntervals is the number of intervals recorded in the header.
	numIntervals int
	// intervalIndex is the index of the next interval to read.
	intervalIndex int
}

// NewFileReader returns a FileReader reading from r. Panics if r is
// nil.
func NewFileReader(r io.Reader) *FileReader {
	if r == nil {
		textPanic("nil reader")
	}
	return &FileReader{r: r}
}

// Header reads and validates the magic number, then reads and returns
// the header table. It may only be called once.
func (r *FileReader) Header() (*flat.Header, error) {
	if err := r.toHeader(); err != nil {
		return nil, err
	}

	// Read and check the magic number.
	v, err := Magic(r.r)
	if err != nil {
		return nil, r.toErr(wrapErr("failed to read magic number", err))
	}
	if v.Major < MinFormatMajorVersion || v.Major > MaxFormatMajorVersion {
		return nil, r.toErr(fmtErr("unsupported version %d.%d", v.Major, v.Patch))
	}
	if err = r.toState(beforeMagic, beforeHeader); err != nil {
		return nil, err
	}

	// Read the header table.
	buf, err := readSizePrefixedTable(r.r)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		return nil, r.toErr(wrapErr("failed to read header", err))
	}
	var h *flat.Header
	var numIntervals uint64
	err = safeFlatBuffersInteraction(func() error {
		h = flat.GetSizePrefixedRootAsHeader(buf, 0)
		numIntervals = h.IntervalsCount()
		return nil
	})
	if err != nil {
		return nil, r.toErr(wrapErr("failed to get header interval count", err))
	}
	if numIntervals > math.MaxInt {
		return nil, r.toErr(fmtErr("header interval count %d overflows int", numIntervals))
	}
	r.numIntervals = int(numIntervals)

	if err = r.afterHeaderTable(r.numIntervals); err != nil {
		return nil, err
	}
	return h, nil
}

// Data reads all remaining interval records. If every record has
// already been read, it returns an empty slice and no error.
func (r *FileReader) Data() ([]segtree.Interval[int64, string], error) {
	if done, err := r.toData(); err != nil {
		return nil, err
	} else if done {
		return []segtree.Interval[int64, string]{}, nil
	}

	// Don't trust the header count for the allocation size.
	intervals := make([]segtree.Interval[int64, string], 0, min(r.numIntervals-r.intervalIndex, 4096))
	for r.intervalIndex < r.numIntervals {
		buf, err := readSizePrefixedTable(r.r)
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		if err != nil {
			return nil, r.toErr(wrapErr("failed to read interval %d", err, r.intervalIndex))
		}
		var iv segtree.Interval[int64, string]
		err = safeFlatBuffersInteraction(func() error {
			t := flat.GetSizePrefixedRootAsInterval(buf, 0)
			iv.Start = t.Start()
			iv.End = t.End()
			iv.Value = string(t.Value())
			return nil
		})
		if err != nil {
			return nil, r.toErr(wrapErr("failed to decode interval %d", err, r.intervalIndex))
		}
		intervals = append(intervals, iv)
		if err = r.afterInterval(&r.intervalIndex, r.numIntervals); err != nil {
			return nil, err
		}
	}

	return intervals, nil
}

// Close closes the reader, and the underlying stream if it is an
// io.Closer.
func (r *FileReader) Close() error {
	return r.close(r.r)
}
