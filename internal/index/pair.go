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

package index

import "znkr.io/tablediff/table"

// CrossMatch is the result of looking up a key in both indexes of a pair.
type CrossMatch struct {
	SpotA, SpotB int   // Number of matching rows in a and b.
	ItemA, ItemB []int // The matching rows.
}

// Pair holds two indexes over corresponding columns of tables a and b.
type Pair[C any] struct {
	A, B    *Index[C]
	quality float64
}

// NewPair returns an index pair over columns colsA in a and colsB in b. Both slices must have the
// same length, colsA[i] corresponds to colsB[i].
func NewPair[C any](a, b table.Table[C], view table.View[C], colsA, colsB []int) *Pair[C] {
	if len(colsA) != len(colsB) {
		panic("colsA and colsB must have the same length")
	}
	return &Pair[C]{
		A: New(a, view, colsA),
		B: New(b, view, colsB),
	}
}

// IndexTables builds both indexes starting at the given rows (usually one past the header) and
// computes the quality of the pair.
func (p *Pair[C]) IndexTables(startA, startB int) {
	p.A.Build(startA)
	p.B.Build(startB)
	good := 0
	for k, item := range p.A.items {
		if k == "" || len(item.Rows) != 1 {
			continue
		}
		if other := p.B.items[k]; other != nil && len(other.Rows) == 1 {
			good++
		}
	}
	p.quality = float64(good) / float64(max(1, p.A.height))
}

// Quality is the fraction of rows in a that have a unique counterpart in b.
func (p *Pair[C]) Quality() float64 { return p.quality }

// TopFreq is the largest number of rows that share a key on either side.
func (p *Pair[C]) TopFreq() int { return max(p.A.topFreq, p.B.topFreq) }

// QueryByKey looks up key in both indexes. The empty key never matches.
func (p *Pair[C]) QueryByKey(key string) CrossMatch {
	if key == "" {
		return CrossMatch{}
	}
	ia, ib := p.A.Lookup(key), p.B.Lookup(key)
	return CrossMatch{
		SpotA: len(ia),
		SpotB: len(ib),
		ItemA: ia,
		ItemB: ib,
	}
}

// QueryLocal looks up the key of row r of table a.
func (p *Pair[C]) QueryLocal(r int) CrossMatch {
	return p.QueryByKey(p.A.RowKey(r))
}
