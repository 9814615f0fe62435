// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package segtree provides a static segment tree over half-open key
// intervals, answering point containment and range overlap queries.
//
// A Tree is built once from a complete list of intervals and is never
// modified afterward. Because a Tree is immutable, any number of
// goroutines may query it concurrently without synchronization.
package segtree
