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

// Package index builds content addressed multimaps over columns of a table. They are used to find
// rows that correspond to each other in two tables.
package index

import (
	"strings"

	"znkr.io/tablediff/table"
)

// Separator joins the values of the indexed columns into a key.
const Separator = " // "

// Item lists the rows that share a key, in insertion order.
type Item struct {
	Rows []int
}

// Index maps the key of a row to the rows with that key.
type Index[C any] struct {
	t    table.Table[C]
	view table.View[C]

	cols    []int
	items   map[string]*Item
	keys    []string // row -> key, computed lazily
	hasKey  []bool
	topFreq int
	height  int
}

// New returns an index over the given columns of t. The index is empty until Build is called.
func New[C any](t table.Table[C], view table.View[C], cols []int) *Index[C] {
	return &Index[C]{
		t:     t,
		view:  view,
		cols:  cols,
		items: make(map[string]*Item),
	}
}

// Columns returns the columns used for the key.
func (x *Index[C]) Columns() []int { return x.cols }

// TopFreq returns the largest number of rows that share a key.
func (x *Index[C]) TopFreq() int { return x.topFreq }

// Height returns the number of rows indexed.
func (x *Index[C]) Height() int { return x.height }

// Build indexes all rows in [start, Height()).
func (x *Index[C]) Build(start int) {
	h := x.t.Height()
	x.keys = make([]string, h)
	x.hasKey = make([]bool, h)
	x.height = max(0, h-start)
	for r := start; r < h; r++ {
		k := x.RowKey(r)
		item := x.items[k]
		if item == nil {
			item = &Item{}
			x.items[k] = item
		}
		item.Rows = append(item.Rows, r)
		x.topFreq = max(x.topFreq, len(item.Rows))
	}
}

// RowKey returns the key of row r.
func (x *Index[C]) RowKey(r int) string {
	if r < len(x.keys) && x.hasKey[r] {
		return x.keys[r]
	}
	vals := make([]string, 0, len(x.cols))
	for _, c := range x.cols {
		v := x.t.Get(c, r)
		if x.view.IsNull(v) {
			continue
		}
		vals = append(vals, x.view.String(v))
	}
	k := Key(vals)
	if r < len(x.keys) {
		x.keys[r] = k
		x.hasKey[r] = true
	}
	return k
}

// Lookup returns the rows with the given key.
func (x *Index[C]) Lookup(key string) []int {
	if item := x.items[key]; item != nil {
		return item.Rows
	}
	return nil
}

// Keys returns the number of distinct keys.
func (x *Index[C]) Keys() int { return len(x.items) }

// Key joins values into a key. Values that don't carry information (empty, "null", "undefined")
// are skipped.
func Key(vals []string) string {
	var sb strings.Builder
	n := 0
	for _, v := range vals {
		if skip(v) {
			continue
		}
		if n > 0 {
			sb.WriteString(Separator)
		}
		sb.WriteString(v)
		n++
	}
	return sb.String()
}

func skip(v string) bool {
	return v == "" || v == "null" || v == "undefined"
}
