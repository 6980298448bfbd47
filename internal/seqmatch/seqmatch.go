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

// Package seqmatch matches two sequences element by element using a longest common subsequence.
// The row alignment uses it to pair up rows that the key based matching left unmatched.
package seqmatch

import "iter"

// Diff compares x and y and returns the result vectors: rx[s] is set if x[s] has no counterpart in
// y and ry[t] is set if y[t] has no counterpart in x. Both vectors have a trailing border element
// that is never set.
func Diff[T any](x, y []T, eq func(a, b T) bool) (rx, ry []bool) {
	var m myers[T]
	m.init(x, y, eq)
	m.compare(0, len(x), 0, len(y))
	return m.rx, m.ry
}

func makeResult[T any](x, y []T) (rx, ry []bool) {
	r := make([]bool, len(x)+len(y)+2)
	rx = r[: len(x)+1 : len(x)+1]
	ry = r[len(x)+1:]
	return
}

// Pair is a matched pair of indices.
type Pair struct{ S, T int }

// Block is a maximal run of unmatched elements, x[S0:S1] and y[T0:T1].
type Block struct {
	S0, S1 int
	T0, T1 int
}

// Pairs returns the matched index pairs in increasing order.
func Pairs(rx, ry []bool) []Pair {
	n, m := len(rx)-1, len(ry)-1
	var out []Pair
	for s, t := 0, 0; s < n || t < m; {
		for s < n && rx[s] {
			s++
		}
		for t < m && ry[t] {
			t++
		}
		for s < n && t < m && !rx[s] && !ry[t] {
			out = append(out, Pair{s, t})
			s++
			t++
		}
	}
	return out
}

// Blocks yields the runs of unmatched elements between matches.
func Blocks(rx, ry []bool) iter.Seq[Block] {
	return func(yield func(Block) bool) {
		n, m := len(rx)-1, len(ry)-1
		for s, t := 0, 0; s < n || t < m; {
			s0, t0 := s, t
			for s < n && rx[s] {
				s++
			}
			for t < m && ry[t] {
				t++
			}
			if s > s0 || t > t0 {
				if !yield(Block{s0, s, t0, t}) {
					return
				}
			}
			for s < n && t < m && !rx[s] && !ry[t] {
				s++
				t++
			}
		}
	}
}
