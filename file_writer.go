// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package flatinterval

import (
	"io"
	"math"

	"github.com/gogama/flatinterval/flat"
	"github.com/gogama/flatinterval/segtree"
	flatbuffers "github.com/google/flatbuffers/go"
)

// FileWriter writes a FIB file to an underlying stream.
//
// Call Header exactly once, then Interval once for each interval
// promised by the header, then Close.
type FileWriter struct {
	stateful
	// w is the stream to write to.
	w io.Writer
	// b is reused to build each interval table.
	b *flatbuffers.Builder
	// numIntervals is the number of intervals recorded in the header.
	numIntervals int
	// intervalIndex is the index of the next interval to write, a
	// number in the range [0, numIntervals].
	intervalIndex int
}

// NewFileWriter returns a FileWriter writing to w. Panics if w is nil.
func NewFileWriter(w io.Writer) *FileWriter {
	if w == nil {
		textPanic("nil writer")
	}
	return &FileWriter{w: w, b: flatbuffers.NewBuilder(256)}
}

// Header writes the FIB magic number followed by the header table.
//
// The header must be a size-prefixed root table whose buffer begins
// with the size prefix, as is true of headers created by NewHeader or
// returned by FileReader.Header.
func (w *FileWriter) Header(h *flat.Header) (n int, err error) {
	// Minimally validate incoming pointer.
	if h == nil {
		textPanic("nil header")
	}

	// Cache interval count and check for overflow.
	var numIntervals uint64
	err = safeFlatBuffersInteraction(func() error {
		numIntervals = h.IntervalsCount()
		return nil
	})
	if err != nil {
		err = wrapErr("failed to get header interval count", err)
		return
	}
	if numIntervals > math.MaxInt {
		err = fmtErr("header interval count %d overflows int", numIntervals)
		return
	}

	// Transition into state for writing magic number.
	if err = w.toHeader(); err != nil {
		return
	}

	// Write the magic number.
	m, err := w.w.Write(magic[:])
	n += m
	if err != nil {
		err = w.toErr(wrapErr("failed to write magic number", err))
		return
	}

	// Transition into state for writing header.
	if err = w.toState(beforeMagic, beforeHeader); err != nil {
		return
	}

	// Write the header table.
	m, err = writeSizePrefixedTable(w.w, h.Table())
	n += m
	if err != nil {
		err = w.toErr(wrapErr("failed to write header", err))
		return
	}

	// Save cached interval count.
	w.numIntervals = int(numIntervals)

	// Transition into the state for writing data, or straight to the
	// end if no intervals are expected.
	err = w.afterHeaderTable(w.numIntervals)
	return
}

// Interval writes the next interval record.
func (w *FileWriter) Interval(start, end int64, value string) (n int, err error) {
	// Ensure we can write another interval.
	var done bool
	if done, err = w.toData(); err != nil {
		return
	} else if done {
		err = fmtErr("all %d intervals indicated in header already written", w.numIntervals)
		return
	}

	// Write the interval.
	buf := buildInterval(w.b, start, end, value)
	if n, err = w.w.Write(buf); err != nil {
		err = wrapErr("failed to write interval %d", err, w.intervalIndex)
		if n > 0 {
			_ = w.toErr(err)
		}
		return
	}
	err = w.afterInterval(&w.intervalIndex, w.numIntervals)
	return
}

// Intervals writes a list of interval records, one by one.
func (w *FileWriter) Intervals(intervals []segtree.Interval[int64, string]) (n int, err error) {
	for i := range intervals {
		var m int
		m, err = w.Interval(intervals[i].Start, intervals[i].End, intervals[i].Value)
		n += m
		if err != nil {
			return
		}
	}
	return
}

// Close closes the writer, and the underlying stream if it is an
// io.Closer. Returns an error if fewer intervals were written than the
// header promised.
func (w *FileWriter) Close() error {
	if err := w.close(w.w); err != nil {
		return err
	} else if w.intervalIndex < w.numIntervals {
		return fmtErr("truncated file: only wrote %d of %d header-indicated intervals", w.intervalIndex, w.numIntervals)
	} else {
		return nil
	}
}
