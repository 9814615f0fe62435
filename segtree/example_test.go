// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package segtree_test

import (
	"fmt"
	"sort"

	"github.com/gogama/flatinterval/segtree"
)

// Create an interval slice for example purposes.
var intervals = []segtree.Interval[int, string]{
	{Start: 1, End: 5, Value: "A"},
	{Start: 3, End: 7, Value: "B"},
}

func ExampleNew() {
	index, _ := segtree.New(intervals) // Ignore error ONLY to keep example simple.

	fmt.Println(index)
	// Output: Tree{Bounds:[1,7),NumIntervals:2,NumNodes:7,Depth:3}
}

func ExampleNew_invalid() {
	_, err := segtree.New([]segtree.Interval[int, string]{{Start: 5, End: 5, Value: "C"}})

	fmt.Println(err)
	// Output: segtree: interval 0 [5,5): start must be less than end
}

func ExampleTree_Search() {
	index, _ := segtree.New(intervals) // Ignore error ONLY to keep example simple.

	for _, p := range []int{0, 4, 5, 6, 7} {
		values := index.Search(p)
		sort.Strings(values) // Order of point search results is not defined.
		fmt.Printf("Search(%d): %v Count(%d): %d\n", p, values, p, index.Count(p))
	}
	// Output: Search(0): [] Count(0): 0
	// Search(4): [A B] Count(4): 2
	// Search(5): [B] Count(5): 1
	// Search(6): [B] Count(6): 1
	// Search(7): [] Count(7): 0
}

func ExampleTree_SearchRange() {
	index, _ := segtree.New(intervals) // Ignore error ONLY to keep example simple.

	fmt.Println("With duplicates:", index.SearchRange(4, 6))
	fmt.Println("Distinct:", segtree.Distinct(index, 4, 6))
	fmt.Println("Distinct intervals:", index.DistinctIntervals(4, 6))
	fmt.Println("Below:", segtree.Distinct(index, 0, 3))
	// Output: With duplicates: [A B B]
	// Distinct: [A B]
	// Distinct intervals: [[1,5)=A [3,7)=B]
	// Below: [A]
}

func ExampleTree_Visit() {
	index, _ := segtree.New(intervals) // Ignore error ONLY to keep example simple.

	index.Visit(4, segtree.SinkFunc[string](func(v string) {
		fmt.Println("found", v)
	}))
	// Unordered output: found A
	// found B
}
