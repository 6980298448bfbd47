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

package main

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"

	"znkr.io/tablediff/table"
)

var words = []string{"alpha", "beta", "gamma", "delta", "NULL", "x->y", "a,b", "null"}

func randomCell(rnd *rand.Rand) string {
	switch rnd.IntN(10) {
	case 0:
		return ""
	case 1:
		return words[rnd.IntN(len(words))]
	default:
		return strconv.Itoa(rnd.IntN(10000))
	}
}

// randomTable returns a table with a header row and h content rows.
func randomTable(rnd *rand.Rand, w, h int) *table.Grid[string] {
	g := table.NewGrid[string](w, h+1)
	for c := range w {
		g.Set(c, 0, "col"+strconv.Itoa(c))
	}
	for r := 1; r <= h; r++ {
		for c := range w {
			g.Set(c, r, randomCell(rnd))
		}
	}
	return g
}

// mutate returns a copy of a with n random changes to its cells, rows and columns.
func mutate(rnd *rand.Rand, a *table.Grid[string], n int) *table.Grid[string] {
	rows := a.Rows()
	width := a.Width()
	newRow := func() []string {
		row := make([]string, width)
		for c := range row {
			row[c] = randomCell(rnd)
		}
		return row
	}
	for i := range n {
		content := len(rows) - 1
		switch op := rnd.IntN(8); {
		case op == 0 && content > 0: // update
			r, c := 1+rnd.IntN(content), rnd.IntN(width)
			rows[r][c] = randomCell(rnd)
		case op == 1: // insert row
			r := 1 + rnd.IntN(content+1)
			rows = slices.Insert(rows, r, newRow())
		case op == 2 && content > 0: // delete row
			r := 1 + rnd.IntN(content)
			rows = slices.Delete(rows, r, r+1)
		case op == 3 && content > 1: // move row
			from := 1 + rnd.IntN(content)
			row := rows[from]
			rows = slices.Delete(rows, from, from+1)
			to := 1 + rnd.IntN(content)
			rows = slices.Insert(rows, to, row)
		case op == 4: // insert column
			c := rnd.IntN(width + 1)
			for r := range rows {
				v := randomCell(rnd)
				if r == 0 {
					v = fmt.Sprintf("new%d", i)
				}
				rows[r] = slices.Insert(rows[r], c, v)
			}
			width++
		case op == 5 && width > 1: // delete column
			c := rnd.IntN(width)
			for r := range rows {
				rows[r] = slices.Delete(rows[r], c, c+1)
			}
			width--
		case op == 6 && width > 0: // rename column
			c := rnd.IntN(width)
			rows[0][c] += "_renamed"
		case op == 7 && width > 1: // move column
			from, to := rnd.IntN(width), rnd.IntN(width)
			for r := range rows {
				v := rows[r][from]
				rows[r] = slices.Insert(slices.Delete(rows[r], from, from+1), to, v)
			}
		}
	}
	return table.FromRows(rows)
}
