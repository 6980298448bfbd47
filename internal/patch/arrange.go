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

package patch

import (
	"sort"

	"znkr.io/tablediff/internal/mover"
)

// entry is a row or column of the diff table.
type entry struct {
	src    int  // index in the source table, -1 for new or unknown entries
	add    bool // new in the target
	del    bool // removed from the target
	moved  bool // placed at its diff position regardless of its source position
	marker bool // "...", stands for elided source entries
}

// arrange computes the fate vector that turns the n source entries into the target described by
// entries. Entries that are not mentioned in the diff are placed at the "..." marker between
// their closest anchors, i.e. unmoved entries that are present in source and target. Without a
// marker they follow the closest preceding anchor.
//
// It returns the fate vector, the size of the target and the target index of every entry (-1 for
// entries that don't end up in the target).
func arrange(n int, entries []entry) (fate []int, size int, targets []int) {
	mentioned := make([]bool, n)
	var cand, keys []int
	for k, e := range entries {
		if e.src < 0 {
			continue
		}
		mentioned[e.src] = true
		if !e.add && !e.del && !e.moved && !e.marker {
			cand = append(cand, k)
			keys = append(keys, e.src)
		}
	}
	var anchors []int // entry indices, increasing in src
	for _, i := range mover.Increasing(keys) {
		anchors = append(anchors, cand[i])
	}

	slots := make([][]int, len(entries)+1)
	for s := range n {
		if mentioned[s] {
			continue
		}
		i := sort.Search(len(anchors), func(i int) bool { return entries[anchors[i]].src > s })
		lo, hi := -1, len(entries)
		if i > 0 {
			lo = anchors[i-1]
		}
		if i < len(anchors) {
			hi = anchors[i]
		}
		slot := lo + 1
		for k := lo + 1; k < hi; k++ {
			if entries[k].marker {
				slot = k
				break
			}
		}
		slots[slot] = append(slots[slot], s)
	}

	fate = make([]int, n)
	for i := range fate {
		fate[i] = -1
	}
	targets = make([]int, len(entries))
	for k := range targets {
		targets[k] = -1
	}
	for k := range len(entries) + 1 {
		for _, s := range slots[k] {
			fate[s] = size
			size++
		}
		if k == len(entries) {
			break
		}
		switch e := entries[k]; {
		case e.marker, e.del:
		case e.add:
			targets[k] = size
			size++
		case e.src >= 0:
			fate[e.src] = size
			targets[k] = size
			size++
		}
	}
	return fate, size, targets
}
