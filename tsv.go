// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package flatinterval

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/gogama/flatinterval/segtree"
)

// ReadTSV reads interval records in tab-separated text form. Each line
// holds a start, an end and a value, separated by tabs. Blank lines and
// lines beginning with '#' are skipped. Start and end are base-10
// integers.
//
// ReadTSV does not check that start is less than end. segtree.New does.
func ReadTSV(r io.Reader) ([]segtree.Interval[int64, string], error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = 3
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	var intervals []segtree.Interval[int64, string]
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return intervals, nil
		} else if err != nil {
			return nil, wrapErr("failed to read TSV", err)
		}
		line, _ := cr.FieldPos(0)
		start, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
		if err != nil {
			return nil, wrapErr("line %d: invalid start", err, line)
		}
		end, err := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
		if err != nil {
			return nil, wrapErr("line %d: invalid end", err, line)
		}
		intervals = append(intervals, segtree.Interval[int64, string]{
			Start: start,
			End:   end,
			Value: record[2],
		})
	}
}

// WriteTSV writes interval records in the tab-separated text form read
// by ReadTSV.
func WriteTSV(w io.Writer, intervals []segtree.Interval[int64, string]) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	record := make([]string, 3)
	for i := range intervals {
		record[0] = strconv.FormatInt(intervals[i].Start, 10)
		record[1] = strconv.FormatInt(intervals[i].End, 10)
		record[2] = intervals[i].Value
		if err := cw.Write(record); err != nil {
			return wrapErr("failed to write interval %d", err, i)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return wrapErr("failed to flush TSV", err)
	}
	return nil
}
