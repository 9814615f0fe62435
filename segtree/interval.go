// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package segtree

import (
	"cmp"
	"fmt"
)

// An Interval is a half-open key interval [Start, End) carrying an
// associated Value. An Interval is only valid if Start < End.
type Interval[K cmp.Ordered, V any] struct {
	// Start is the inclusive lower bound of the interval.
	Start K
	// End is the exclusive upper bound of the interval.
	End K
	// Value is the value associated with the interval. Values need not
	// be unique: several intervals may carry the same value.
	Value V
}

// Contains reports whether the interval contains the point p, i.e.
// whether Start <= p < End.
func (iv Interval[K, V]) Contains(p K) bool {
	return iv.Start <= p && p < iv.End
}

// Overlaps reports whether the interval overlaps the half-open range
// [start, end). An empty range overlaps nothing.
func (iv Interval[K, V]) Overlaps(start, end K) bool {
	return start < end && iv.Start < end && iv.End > start
}

// String returns a compact description of the interval, for example
// "[1,5)=A".
func (iv Interval[K, V]) String() string {
	return fmt.Sprintf("[%v,%v)=%v", iv.Start, iv.End, iv.Value)
}
