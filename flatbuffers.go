// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package flatinterval

import (
	"fmt"
	"io"

	"github.com/gogama/flatinterval/flat"
	flatbuffers "github.com/google/flatbuffers/go"
)

// safeFlatBuffersInteraction runs a function that interacts with
// FlatBuffers, trapping any panic that occurs and converting it to a
// normal Go error.
//
// This function exists because FlatBuffer's Go code doesn't use
// standard Go error handling, allegedly for performance reasons, and
// consequently any invalid attempt to interact with FlatBuffer data
// may trigger a panic.
func safeFlatBuffersInteraction(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: flatbuffers: %v", r)
		}
	}()
	err = f()
	return
}

// writeSizePrefixedTable writes a size-prefixed root FlatBuffers table
// whose buffer begins with the size prefix to an output stream. Only
// such tables are accepted, because otherwise it is impossible to know
// the table's size or ensure that it occupies contiguous bytes.
func writeSizePrefixedTable(w io.Writer, t flatbuffers.Table) (n int, err error) {
	var size uint32
	if size, err = tableSize(t); err != nil {
		return
	}
	return w.Write(t.Bytes[0 : flatbuffers.SizeUint32+size])
}

func tableSize(t flatbuffers.Table) (size uint32, err error) {
	if len(t.Bytes) < flatbuffers.SizeUint32 || t.Pos < flatbuffers.SizeUint32 {
		err = fmtErr("not a size-prefixed root FlatBuffers table at offset 0 (Len=%d, Pos=%d)", len(t.Bytes), t.Pos)
		return
	}
	size = flatbuffers.GetUint32(t.Bytes)
	if uint64(flatbuffers.SizeUint32)+uint64(size) > uint64(len(t.Bytes)) {
		err = fmtErr("FlatBuffers table buffer is smaller than the size prefix (Len=%d, size=%d)", len(t.Bytes), size)
	}
	return
}

// readSizePrefixedTable reads one size-prefixed FlatBuffers table from
// a stream, returning the whole buffer including the size prefix. It
// returns io.EOF only if the stream ends before the first byte.
func readSizePrefixedTable(r io.Reader) ([]byte, error) {
	prefix := make([]byte, flatbuffers.SizeUint32)
	if _, err := io.ReadFull(r, prefix); err != nil {
		return nil, err
	}
	size := flatbuffers.GetUint32(prefix)
	if size < flatbuffers.SizeUOffsetT {
		return nil, fmtErr("table size %d too small for a root offset", size)
	} else if size > tableMaxLen {
		return nil, fmtErr("table size %d exceeds limit %d", size, tableMaxLen)
	}
	buf := make([]byte, flatbuffers.SizeUint32+int(size))
	copy(buf, prefix)
	if _, err := io.ReadFull(r, buf[flatbuffers.SizeUint32:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf, nil
}

// NewHeader builds a FIB header table with the given title and interval
// count, suitable for FileWriter.Header.
func NewHeader(title string, numIntervals uint64) *flat.Header {
	b := flatbuffers.NewBuilder(64 + len(title))
	t := b.CreateString(title)
	flat.HeaderStart(b)
	flat.HeaderAddTitle(b, t)
	flat.HeaderAddIntervalsCount(b, numIntervals)
	b.FinishSizePrefixed(flat.HeaderEnd(b))
	return flat.GetSizePrefixedRootAsHeader(b.FinishedBytes(), 0)
}

// buildInterval serializes one interval record into b as a size-prefixed
// root table and returns the finished bytes, which alias b's buffer.
func buildInterval(b *flatbuffers.Builder, start, end int64, value string) []byte {
	b.Reset()
	v := b.CreateString(value)
	flat.IntervalStart(b)
	flat.IntervalAddStart(b, start)
	flat.IntervalAddEnd(b, end)
	flat.IntervalAddValue(b, v)
	b.FinishSizePrefixed(flat.IntervalEnd(b))
	return b.FinishedBytes()
}
