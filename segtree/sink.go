// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package segtree

// A Sink accepts the values produced by a Tree search, one at a time.
// Searches call Accept synchronously from the calling goroutine.
type Sink[V any] interface {
	Accept(v V)
}

// SinkFunc adapts an ordinary function to the Sink interface.
type SinkFunc[V any] func(v V)

// Accept calls f(v).
func (f SinkFunc[V]) Accept(v V) {
	f(v)
}

// A Counter is a Sink that counts the values it accepts without
// retaining them. The zero value is ready to use.
type Counter[V any] struct {
	N int
}

// Accept increments the count.
func (c *Counter[V]) Accept(_ V) {
	c.N++
}

// A Collector is a Sink that keeps every value it accepts, in the order
// accepted, including duplicates. The zero value is ready to use.
type Collector[V any] struct {
	Values []V
}

// Accept appends v to the collected values.
func (c *Collector[V]) Accept(v V) {
	c.Values = append(c.Values, v)
}

// A Set is a Sink that keeps the first occurrence of each distinct
// value it accepts, in the order first seen. The zero value is ready to
// use.
//
// If V is an interface type, accepting a value whose dynamic type is
// not comparable panics, as with any Go map key.
type Set[V comparable] struct {
	Values []V
	seen   map[V]struct{}
}

// Accept adds v to the set if it is not already present.
func (s *Set[V]) Accept(v V) {
	if s.seen == nil {
		s.seen = make(map[V]struct{})
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.Values = append(s.Values, v)
}

// Len returns the number of distinct values accepted so far.
func (s *Set[V]) Len() int {
	return len(s.Values)
}
