// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package mover detects elements that changed their relative position between two orderings.
//
// The detection is a heuristic: both orderings are partitioned into maximal runs of elements
// that are adjacent in both, and runs are then kept largest first. Every run that is on a
// different side of a kept run in the source and the target is reported as moved. The result is
// not guaranteed to be minimal, but the elements that are not reported are always in the same
// relative order in both inputs.
package mover

import "slices"

type run struct {
	posA, posB int // start position in a and b
	n          int
	moved      bool
}

// Move returns the elements of b that need to be moved to turn a into b, in the order in which
// they appear in b. Elements that are only present in one of a or b are ignored. Only the first
// occurrence of a repeated element takes part, later copies are ignored.
func Move(a, b []int) []int {
	inB := make(map[int]bool, len(b))
	for _, v := range b {
		inB[v] = true
	}
	posA := make(map[int]int, len(a))
	for _, v := range a {
		if _, dup := posA[v]; inB[v] && !dup {
			posA[v] = len(posA)
		}
	}
	first := make([]bool, len(b)) // first occurrence in b of an element of a
	seen := make(map[int]bool, len(b))
	seq := make([]int, 0, len(posA)) // positions in a, in b order
	for i, v := range b {
		if p, ok := posA[v]; ok && !seen[v] {
			seen[v] = true
			first[i] = true
			seq = append(seq, p)
		}
	}

	runs := partition(seq)
	if len(runs) <= 1 {
		return nil
	}
	order := make([]*run, len(runs))
	for i := range runs {
		order[i] = &runs[i]
	}
	slices.SortStableFunc(order, func(x, y *run) int { return y.n - x.n })

	for _, anchor := range order {
		if anchor.moved {
			continue
		}
		for _, other := range order {
			if other == anchor || other.moved {
				continue
			}
			if (other.posA < anchor.posA) != (other.posB < anchor.posB) {
				other.moved = true
			}
		}
	}

	var out []int
	i := 0
	for k, v := range b {
		if !first[k] {
			continue
		}
		if runOf(runs, i).moved {
			out = append(out, v)
		}
		i++
	}
	return out
}

// partition splits seq into maximal runs of consecutive values.
func partition(seq []int) []run {
	var runs []run
	for i, p := range seq {
		if i > 0 && p == seq[i-1]+1 {
			runs[len(runs)-1].n++
			continue
		}
		runs = append(runs, run{posA: p, posB: i, n: 1})
	}
	return runs
}

// runOf returns the run that covers position i in b. runs are sorted by posB.
func runOf(runs []run, i int) *run {
	j, found := slices.BinarySearchFunc(runs, i, func(r run, i int) int { return r.posB - i })
	if !found {
		j--
	}
	return &runs[j]
}

// Increasing returns the positions of a longest strictly increasing subsequence of seq.
func Increasing(seq []int) []int {
	if len(seq) == 0 {
		return nil
	}
	tails := []int{} // tails[k] is the position of the smallest tail of a subsequence of length k+1
	prev := make([]int, len(seq))
	for i, v := range seq {
		k, _ := slices.BinarySearchFunc(tails, v, func(j, v int) int { return seq[j] - v })
		prev[i] = -1
		if k > 0 {
			prev[i] = tails[k-1]
		}
		if k == len(tails) {
			tails = append(tails, i)
		} else {
			tails[k] = i
		}
	}
	out := make([]int, len(tails))
	for i, j := len(tails)-1, tails[len(tails)-1]; i >= 0; i, j = i-1, prev[j] {
		out[i] = j
	}
	return out
}
