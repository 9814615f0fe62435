// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package segtree

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/Workiva/go-datastructures/bitarray"
)

// root is the node index of the root node. Index 0 of the node list is
// never used, so that the children of node i are always at 2i and 2i+1.
const root = 1

// A node represents the half-open key range [start, end) of one
// elementary or aggregated segment of the tree, together with the
// intervals attached to exactly this node by canonical decomposition.
//
// The attached intervals are not stored in the node itself. They are
// the closed/open range [first, first+count) of the tree's refs slice,
// each ref being an index into the tree's interval list.
type node[K cmp.Ordered] struct {
	start, end K
	first      int
	count      int
}

func (n *node[K]) contains(p K) bool {
	return n.start <= p && p < n.end
}

// overlaps reports whether the node range overlaps [start, end). Empty
// nodes, i.e. the closing leaf and unused placeholders, overlap nothing.
// The query range must not be empty.
func (n *node[K]) overlaps(start, end K) bool {
	return n.start < n.end && n.start < end && n.end > start
}

// A levelRange represents the range of node indices that comprise a
// level. Each levelRange is a closed/open node index pair [start, end)
// where start is the index of the first node in the level and end is
// one past the last node in the level.
type levelRange struct {
	start, end int
}

// levelify creates the list of levelRange structures which
// deterministically results from a given leaf node count. The first item
// in the list is the leaf level and the last item is the root level.
//
// The leaf level starts at the smallest power of two not less than
// numLeaves. Every internal level is full, but only the first numLeaves
// slots of the leaf level are materialized.
//
// For example, numLeaves = 5 gives [[8, 13], [4, 8], [2, 4], [1, 2]].
func levelify(numLeaves int) []levelRange {
	if numLeaves < 1 {
		return nil
	}
	first := 1
	for first < numLeaves {
		first <<= 1
	}
	levels := make([]levelRange, 1, 16)
	levels[0] = levelRange{first, first + numLeaves}
	for n := first >> 1; n >= root; n >>= 1 {
		levels = append(levels, levelRange{n, n << 1})
	}
	return levels
}

// A ticket is a pending work item to be executed during a tree
// traversal. When decomposing an interval, start and end hold the part
// of the interval still to be placed below nodeIndex. Search tickets
// only use nodeIndex.
type ticket[K cmp.Ordered] struct {
	nodeIndex  int
	start, end K
}

// A ticketBag is a stack of pending work items.
type ticketBag[K cmp.Ordered] []ticket[K]

func (tb *ticketBag[K]) push(t ticket[K]) {
	*tb = append(*tb, t)
}

func (tb *ticketBag[K]) pop() ticket[K] {
	old := *tb
	n := len(old)
	x := old[n-1]
	*tb = old[0 : n-1]
	return x
}

// Tree is a static segment tree over half-open intervals. The zero
// value is an empty tree. Use New to create a tree holding intervals.
type Tree[K cmp.Ordered, V any] struct {
	// intervals is a private copy of the input interval list.
	intervals []Interval[K, V]
	// levels is the list of levelRange boundaries, leaf level first
	// and root level last.
	levels []levelRange
	// nodes is the implicit binary tree. It is empty if the tree holds
	// no intervals, otherwise nodes[root] is the root.
	nodes []node[K]
	// refs holds the interval indices attached to every node, packed
	// node by node. See node.
	refs []int
}

// New builds a segment tree from a list of intervals. The list may be
// empty, in which case every search of the returned tree finds nothing.
//
// Every interval must satisfy Start < End. If any does not, New returns
// an error wrapping ErrInvalidInterval and no tree. The input slice is
// copied, so the caller may reuse it after New returns.
func New[K cmp.Ordered, V any](intervals []Interval[K, V]) (*Tree[K, V], error) {
	// Validate all intervals up front so that construction is all or
	// nothing. The negated comparison also rejects NaN endpoints.
	for i := range intervals {
		if !(intervals[i].Start < intervals[i].End) {
			return nil, wrapErr("interval %d [%v,%v)", ErrInvalidInterval, i, intervals[i].Start, intervals[i].End)
		}
	}

	t := &Tree[K, V]{intervals: slices.Clone(intervals)}
	if len(intervals) == 0 {
		return t, nil
	}

	// Sorted, distinct endpoints. Each endpoint starts one leaf: leaf i
	// covers [borders[i], borders[i+1]) and the leaf of the greatest
	// endpoint is the empty closing leaf [hi, hi).
	borders := endpoints(intervals)
	hi := borders[len(borders)-1]
	t.levels = levelify(len(borders))
	leaves := t.levels[0]
	t.nodes = make([]node[K], leaves.end)
	for i := root; i < leaves.start; i++ {
		t.nodes[i] = node[K]{start: hi, end: hi}
	}
	for i, b := range borders {
		n := &t.nodes[leaves.start+i]
		n.start, n.end = b, b
		if i+1 < len(borders) {
			n.end = borders[i+1]
		}
	}

	// Fill internal node ranges bottom-up, one level at a time.
	for _, level := range t.levels[1:] {
		for i := level.start; i < level.end; i++ {
			left, right := i<<1, i<<1+1
			if left < len(t.nodes) {
				t.nodes[i].start = t.nodes[left].start
				t.nodes[i].end = t.nodes[left].end
			}
			if right < len(t.nodes) {
				t.nodes[i].end = t.nodes[right].end
			}
		}
	}

	t.attach()
	return t, nil
}

// endpoints returns the sorted, distinct start and end keys of a list
// of intervals.
func endpoints[K cmp.Ordered, V any](intervals []Interval[K, V]) []K {
	borders := make([]K, 0, 2*len(intervals))
	for i := range intervals {
		borders = append(borders, intervals[i].Start, intervals[i].End)
	}
	slices.Sort(borders)
	return slices.Compact(borders)
}

// attach places every interval on the nodes of its canonical
// decomposition. The first pass counts the refs per node, and the
// second pass writes them, so that all refs land in a single packed
// slice and each node keeps its intervals in input order.
func (t *Tree[K, V]) attach() {
	var q ticketBag[K]
	for i := range t.intervals {
		t.decompose(&q, t.intervals[i].Start, t.intervals[i].End, func(nodeIndex int) {
			t.nodes[nodeIndex].count++
		})
	}

	var total int
	for i := range t.nodes {
		t.nodes[i].first = total
		total += t.nodes[i].count
		t.nodes[i].count = 0
	}

	t.refs = make([]int, total)
	for i := range t.intervals {
		t.decompose(&q, t.intervals[i].Start, t.intervals[i].End, func(nodeIndex int) {
			n := &t.nodes[nodeIndex]
			t.refs[n.first+n.count] = i
			n.count++
		})
	}
}

// decompose finds the canonical decomposition of [start, end), the
// unique minimal set of nodes whose ranges exactly tile the interval,
// and calls put for each of those nodes.
//
// Because start and end are tree endpoints, every clipped part of the
// interval is aligned to leaf boundaries, so the descent always ends at
// a node whose range matches exactly.
func (t *Tree[K, V]) decompose(q *ticketBag[K], start, end K, put func(nodeIndex int)) {
	q.push(ticket[K]{nodeIndex: root, start: start, end: end})
	for len(*q) > 0 {
		tk := q.pop()
		n := &t.nodes[tk.nodeIndex]
		if n.start == tk.start && n.end == tk.end {
			put(tk.nodeIndex)
			continue
		}
		left := tk.nodeIndex << 1
		if left >= len(t.nodes) {
			fmtPanic("logic error: no node matches [%v,%v) below node %d", tk.start, tk.end, tk.nodeIndex)
		}
		leftEnd := t.nodes[left].end
		if tk.end > leftEnd {
			q.push(ticket[K]{nodeIndex: left + 1, start: max(tk.start, leftEnd), end: tk.end})
		}
		if tk.start < leftEnd {
			q.push(ticket[K]{nodeIndex: left, start: tk.start, end: min(leftEnd, tk.end)})
		}
	}
}

// descend visits the unique root-to-leaf path of nodes containing p.
// It visits nothing if p is outside [min, max).
func (t *Tree[K, V]) descend(p K, visit func(nodeIndex int)) {
	if len(t.nodes) == 0 || !t.nodes[root].contains(p) {
		return
	}
	i := root
	for {
		visit(i)
		left, right := i<<1, i<<1+1
		switch {
		case left < len(t.nodes) && t.nodes[left].contains(p):
			i = left
		case right < len(t.nodes) && t.nodes[right].contains(p):
			i = right
		default:
			return
		}
	}
}

// searchRange visits every node whose range overlaps [start, end), in
// pre-order, left subtree before right subtree. An empty or inverted
// range visits nothing.
func (t *Tree[K, V]) searchRange(start, end K, visit func(nodeIndex int)) {
	if !(start < end) || len(t.nodes) == 0 || !t.nodes[root].overlaps(start, end) {
		return
	}
	q := make(ticketBag[K], 1, 2*len(t.levels))
	q[0] = ticket[K]{nodeIndex: root}
	for len(q) > 0 {
		tk := q.pop()
		visit(tk.nodeIndex)
		left, right := tk.nodeIndex<<1, tk.nodeIndex<<1+1
		if right < len(t.nodes) && t.nodes[right].overlaps(start, end) {
			q.push(ticket[K]{nodeIndex: right})
		}
		if left < len(t.nodes) && t.nodes[left].overlaps(start, end) {
			q.push(ticket[K]{nodeIndex: left})
		}
	}
}

// refsOf returns the interval indices attached to a node.
func (t *Tree[K, V]) refsOf(nodeIndex int) []int {
	n := &t.nodes[nodeIndex]
	return t.refs[n.first : n.first+n.count]
}

func (t *Tree[K, V]) emit(nodeIndex int, s Sink[V]) {
	for _, ref := range t.refsOf(nodeIndex) {
		s.Accept(t.intervals[ref].Value)
	}
}

// Visit calls s.Accept once for the value of every interval containing
// the point p, i.e. every interval with Start <= p < End. Nothing is
// reported if p is outside the tree bounds. Panics if s is nil.
func (t *Tree[K, V]) Visit(p K, s Sink[V]) {
	if s == nil {
		textPanic("nil sink")
	}
	t.descend(p, func(nodeIndex int) {
		t.emit(nodeIndex, s)
	})
}

// Search returns the values of all intervals containing the point p.
// Each containing interval contributes exactly one value. The order of
// the values is not defined.
func (t *Tree[K, V]) Search(p K) []V {
	var c Collector[V]
	t.Visit(p, &c)
	return c.Values
}

// Count returns the number of intervals containing the point p. It is
// equal to len(t.Search(p)) but does not look at any values.
func (t *Tree[K, V]) Count(p K) int {
	var n int
	t.descend(p, func(nodeIndex int) {
		n += t.nodes[nodeIndex].count
	})
	return n
}

// VisitRange calls s.Accept for the values of the intervals overlapping
// the half-open range [start, end). Panics if s is nil.
//
// An interval whose canonical decomposition has several nodes
// overlapping the query range is reported once per such node, so the
// same interval may be reported more than once. Use Distinct or
// DistinctIntervals for deduplicated results. If start >= end, nothing
// is reported.
func (t *Tree[K, V]) VisitRange(start, end K, s Sink[V]) {
	if s == nil {
		textPanic("nil sink")
	}
	t.searchRange(start, end, func(nodeIndex int) {
		t.emit(nodeIndex, s)
	})
}

// SearchRange returns the values of the intervals overlapping [start,
// end), reporting an interval once per overlapping node of its
// canonical decomposition, as VisitRange does.
func (t *Tree[K, V]) SearchRange(start, end K) []V {
	var c Collector[V]
	t.VisitRange(start, end, &c)
	return c.Values
}

// CountRange returns the number of values SearchRange would return for
// the same range, without looking at any values.
func (t *Tree[K, V]) CountRange(start, end K) int {
	var n int
	t.searchRange(start, end, func(nodeIndex int) {
		n += t.nodes[nodeIndex].count
	})
	return n
}

// DistinctIntervals returns every interval overlapping [start, end)
// exactly once, in the order first encountered. Unlike Distinct, the
// deduplication is by interval identity, not by value: two distinct
// input intervals carrying equal values are both returned.
func (t *Tree[K, V]) DistinctIntervals(start, end K) []Interval[K, V] {
	var r []Interval[K, V]
	var seen bitarray.BitArray
	t.searchRange(start, end, func(nodeIndex int) {
		refs := t.refsOf(nodeIndex)
		if len(refs) == 0 {
			return
		}
		if seen == nil {
			seen = bitarray.NewBitArray(uint64(len(t.intervals)))
		}
		for _, ref := range refs {
			if markSeen(seen, ref) {
				r = append(r, t.intervals[ref])
			}
		}
	})
	return r
}

// markSeen sets the bit for an interval index and reports whether it
// was previously unset.
func markSeen(seen bitarray.BitArray, ref int) bool {
	ok, err := seen.GetBit(uint64(ref))
	if err != nil {
		fmtPanic("logic error: interval ref %d: %v", ref, err)
	}
	if ok {
		return false
	}
	if err = seen.SetBit(uint64(ref)); err != nil {
		fmtPanic("logic error: interval ref %d: %v", ref, err)
	}
	return true
}

// Distinct returns the distinct values of the intervals overlapping
// [start, end), in the order first encountered. No value is returned
// twice, however many nodes or intervals it was found on.
func Distinct[K cmp.Ordered, V comparable](t *Tree[K, V], start, end K) []V {
	var s Set[V]
	t.VisitRange(start, end, &s)
	return s.Values
}

// Bounds returns the smallest and greatest endpoints of all intervals
// in the tree. The tree covers the half-open range [lo, hi). If the
// tree is empty, ok is false.
func (t *Tree[K, V]) Bounds() (lo, hi K, ok bool) {
	if len(t.nodes) == 0 {
		return
	}
	return t.nodes[root].start, t.nodes[root].end, true
}

// NumIntervals returns the number of intervals the tree was built from.
func (t *Tree[K, V]) NumIntervals() int {
	return len(t.intervals)
}

// NumNodes returns the number of materialized nodes in the tree,
// including unused internal placeholders.
func (t *Tree[K, V]) NumNodes() int {
	if len(t.nodes) == 0 {
		return 0
	}
	return len(t.nodes) - root
}

// Depth returns the number of levels in the tree. A point search visits
// at most Depth nodes.
func (t *Tree[K, V]) Depth() int {
	return len(t.levels)
}

// String returns a summary description of the tree.
func (t *Tree[K, V]) String() string {
	bounds := "<nil>"
	if lo, hi, ok := t.Bounds(); ok {
		bounds = fmt.Sprintf("[%v,%v)", lo, hi)
	}
	return fmt.Sprintf("Tree{Bounds:%s,NumIntervals:%d,NumNodes:%d,Depth:%d}", bounds, len(t.intervals), t.NumNodes(), len(t.levels))
}
