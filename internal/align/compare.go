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

package align

import (
	"cmp"
	"math/bits"
	"slices"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"znkr.io/tablediff/internal/config"
	"znkr.io/tablediff/internal/index"
	"znkr.io/tablediff/internal/mover"
	"znkr.io/tablediff/internal/seqmatch"
	"znkr.io/tablediff/table"
)

const (
	// headerSlop is the number of leading rows that are searched for a header row.
	headerSlop = 5

	// maxIndexColumns is the number of columns that are combined into keys for row matching.
	maxIndexColumns = 5

	// maxCollisions is the fraction of rows that may share a key before an index is considered
	// useless.
	maxCollisions = 0.1
)

// Comparison is the alignment of two tables a and b, optionally relative to a common parent p.
//
// For a two-way comparison, Rows and Cols map a to b. For a three-way comparison, they map p to b
// and their Reference maps p to a.
type Comparison[C any] struct {
	P, A, B table.Table[C]
	View    table.View[C]

	Rows, Cols *Alignment

	// IsEqual is set if a and b have the same shape and content.
	IsEqual bool

	// HasSameColumns is set if a and b have identical, duplicate free header rows.
	HasSameColumns bool

	cfg config.Config
}

// ThreeWay reports if the comparison has a parent.
func (c *Comparison[C]) ThreeWay() bool { return c.P != nil }

// Compare aligns a and b. If p is not nil, both are aligned against p.
func Compare[C any](p, a, b table.Table[C], view table.View[C], cfg config.Config) *Comparison[C] {
	c := &Comparison[C]{P: p, A: a, B: b, View: view, cfg: cfg}
	c.IsEqual = table.Equal(a, b, view)
	c.HasSameColumns = hasSameColumns(a, b, view)
	if p == nil {
		c.Cols, c.Rows = c.alignPair(a, b, c.HasSameColumns)
		return c
	}
	c.Cols, c.Rows = c.alignPair(p, b, hasSameColumns(p, b, view))
	refCols, refRows := c.alignPair(p, a, hasSameColumns(p, a, view))
	c.Cols.SetReference(refCols)
	c.Rows.SetReference(refRows)
	return c
}

// hasSameColumns reports if the first rows of a and b are identical and a has no duplicate
// column names.
func hasSameColumns[C any](a, b table.Table[C], view table.View[C]) bool {
	if a.Width() != b.Width() || a.Height() == 0 || b.Height() == 0 {
		return false
	}
	seen := make(map[string]bool)
	for c := range a.Width() {
		va, vb := a.Get(c, 0), b.Get(c, 0)
		if !view.Equals(va, vb) {
			return false
		}
		name := view.String(va)
		if seen[name] {
			return false
		}
		seen[name] = true
	}
	return true
}

func (c *Comparison[C]) alignPair(x, y table.Table[C], same bool) (cols, rows *Alignment) {
	cols = c.alignColumns(x, y, same)
	rows = c.alignRows(x, y, cols)
	if c.cfg.Prune {
		c.prune(x, y, cols, rows)
	}
	return cols, rows
}

// alignColumns finds the header rows and links columns first by unique name and then by content.
func (c *Comparison[C]) alignColumns(x, y table.Table[C], same bool) *Alignment {
	cols := New(x.Width(), y.Width())
	cols.SetLogger(c.cfg.Logger)
	hx, hy := c.findHeaders(x, y)
	cols.HeaderA, cols.HeaderB = hx, hy

	if same {
		for i := range x.Width() {
			cols.Link(i, i)
		}
		return cols
	}
	if hx < 0 || hy < 0 {
		if x.Width() == y.Width() {
			for i := range x.Width() {
				cols.Link(i, i)
			}
		}
		return cols
	}

	nx, ny := c.names(x, hx), c.names(y, hy)
	for i, name := range nx {
		if name == "" || !uniqueIn(nx, name) || !uniqueIn(ny, name) {
			continue
		}
		cols.Link(i, slices.Index(ny, name))
	}
	c.pairByContent(x, y, cols, nx, ny)
	return cols
}

// findHeaders returns the header rows of x and y, or -1 for an empty table. Row 0 is the header
// unless a pair of rows among the first few rows shares more unique column names.
func (c *Comparison[C]) findHeaders(x, y table.Table[C]) (int, int) {
	if x.Height() == 0 || y.Height() == 0 {
		// The first row of a lone table is its header.
		return min(0, x.Height()-1), min(0, y.Height()-1)
	}
	if sharedNames(c.names(x, 0), c.names(y, 0)) > 0 {
		return 0, 0
	}
	best, bx, by := 0, 0, 0
	for rx := range min(headerSlop, x.Height()) {
		nx := c.names(x, rx)
		for ry := range min(headerSlop, y.Height()) {
			if n := sharedNames(nx, c.names(y, ry)); n > best {
				best, bx, by = n, rx, ry
			}
		}
	}
	return bx, by
}

func (c *Comparison[C]) names(t table.Table[C], r int) []string {
	out := make([]string, t.Width())
	for i := range out {
		out[i] = c.View.String(t.Get(i, r))
	}
	return out
}

func uniqueIn(names []string, name string) bool {
	n := 0
	for _, v := range names {
		if v == name {
			n++
		}
	}
	return n == 1
}

// sharedNames counts the non-blank names that are unique in both a and b.
func sharedNames(a, b []string) int {
	n := 0
	for _, name := range a {
		if name != "" && uniqueIn(a, name) && uniqueIn(b, name) {
			n++
		}
	}
	return n
}

type columnCandidate struct {
	ca, cb int
	score  int
	dist   int
}

// pairByContent links unmatched columns whose cells agree on most rows of a provisional row
// alignment. This detects renamed columns.
func (c *Comparison[C]) pairByContent(x, y table.Table[C], cols *Alignment, nx, ny []string) {
	var freeA, freeB []int
	for i := range x.Width() {
		if cols.A2B(i) < 0 {
			freeA = append(freeA, i)
		}
	}
	for i := range y.Width() {
		if cols.B2A(i) < 0 {
			freeB = append(freeB, i)
		}
	}
	if len(freeA) == 0 || len(freeB) == 0 {
		return
	}

	var pairs []seqmatch.Pair
	if cols.Count() > 0 {
		rows := c.alignRows(x, y, cols)
		for r := range x.Height() {
			if r == cols.HeaderA {
				continue
			}
			if s := rows.A2B(r); s >= 0 && s != cols.HeaderB {
				pairs = append(pairs, seqmatch.Pair{S: r, T: s})
			}
		}
	} else {
		for i := 1; cols.HeaderA+i < x.Height() && cols.HeaderB+i < y.Height(); i++ {
			pairs = append(pairs, seqmatch.Pair{S: cols.HeaderA + i, T: cols.HeaderB + i})
		}
	}
	threshold := max(1, (len(pairs)+1)/2)

	var cands []columnCandidate
	for _, ca := range freeA {
		for _, cb := range freeB {
			score := 0
			for _, p := range pairs {
				va, vb := x.Get(ca, p.S), y.Get(cb, p.T)
				if !table.IsBlank(c.View, va) && c.View.Equals(va, vb) {
					score++
				}
			}
			if score < threshold {
				continue
			}
			cands = append(cands, columnCandidate{
				ca:    ca,
				cb:    cb,
				score: score,
				dist:  fuzzy.LevenshteinDistance(nx[ca], ny[cb]),
			})
		}
	}
	slices.SortFunc(cands, func(p, q columnCandidate) int {
		return cmp.Or(
			cmp.Compare(q.score, p.score),
			cmp.Compare(p.dist, q.dist),
			cmp.Compare(p.ca, q.ca),
			cmp.Compare(p.cb, q.cb),
		)
	})
	for _, cand := range cands {
		if cols.A2B(cand.ca) < 0 && cols.B2A(cand.cb) < 0 {
			cols.Link(cand.ca, cand.cb)
		}
	}
}

// alignRows links the rows of x and y. Rows are first matched through keys built from subsets of
// the most distinctive common columns, the remaining rows are matched by content inside the gaps
// between keyed matches.
func (c *Comparison[C]) alignRows(x, y table.Table[C], cols *Alignment) *Alignment {
	rows := New(x.Height(), y.Height())
	rows.SetLogger(c.cfg.Logger)
	rows.HeaderA, rows.HeaderB = cols.HeaderA, cols.HeaderB
	startX, startY := cols.HeaderA+1, cols.HeaderB+1
	common := cols.Pairs()

	var subsets [][]ColumnPair
	if want := c.indexColumns(x, cols); len(want) > 0 {
		subsets = append(subsets, want)
	}
	top := c.distinctive(x, y, common, startX, startY)
	masks := make([]int, 0, 1<<len(top))
	for m := 1; m < 1<<len(top); m++ {
		masks = append(masks, m)
	}
	slices.SortStableFunc(masks, func(p, q int) int {
		return bits.OnesCount(uint(q)) - bits.OnesCount(uint(p))
	})
	for _, m := range masks {
		var sub []ColumnPair
		for i, cp := range top {
			if m&(1<<i) != 0 {
				sub = append(sub, cp)
			}
		}
		subsets = append(subsets, sub)
	}

	pending := make([]int, 0, x.Height())
	for r := startX; r < x.Height(); r++ {
		pending = append(pending, r)
	}
	for _, sub := range subsets {
		if len(pending) == 0 {
			break
		}
		colsA := make([]int, len(sub))
		colsB := make([]int, len(sub))
		for i, cp := range sub {
			colsA[i], colsB[i] = cp.A, cp.B
		}
		pair := index.NewPair(x, y, c.View, colsA, colsB)
		pair.IndexTables(startX, startY)
		if tf := pair.TopFreq(); tf > 1 && float64(tf) > maxCollisions*float64(max(x.Height(), 1)) {
			continue
		}
		rows.Quality = max(rows.Quality, pair.Quality())
		linked := false
		pending = slices.DeleteFunc(pending, func(r int) bool {
			m := pair.QueryLocal(r)
			if m.SpotA != 1 || m.SpotB != 1 || rows.B2A(m.ItemB[0]) >= 0 {
				return false
			}
			rows.Link(r, m.ItemB[0])
			linked = true
			return true
		})
		if linked && rows.IndexColumns == nil {
			rows.IndexColumns = sub
		}
	}
	if rows.HeaderA >= 0 && rows.HeaderB >= 0 {
		rows.Link(rows.HeaderA, rows.HeaderB)
	}
	c.fillGaps(x, y, common, rows)

	if n := x.Height() - startX; n > 0 && rows.Count() <= n/2 {
		c.cfg.Logger.Log("msg", "weak row alignment", "rows", n, "linked", rows.Count(), "quality", rows.Quality)
	}
	return rows
}

// indexColumns resolves the configured index column names against the header of x.
func (c *Comparison[C]) indexColumns(x table.Table[C], cols *Alignment) []ColumnPair {
	if len(c.cfg.IndexColumns) == 0 || cols.HeaderA < 0 {
		return nil
	}
	names := c.names(x, cols.HeaderA)
	var out []ColumnPair
	for _, want := range c.cfg.IndexColumns {
		i := slices.Index(names, want)
		if i < 0 || cols.A2B(i) < 0 {
			continue
		}
		out = append(out, ColumnPair{i, cols.A2B(i)})
	}
	return out
}

// distinctive returns up to maxIndexColumns common columns with the most distinct values.
func (c *Comparison[C]) distinctive(x, y table.Table[C], common []ColumnPair, startX, startY int) []ColumnPair {
	type scored struct {
		cp    ColumnPair
		score int
	}
	count := func(t table.Table[C], col, start int) int {
		seen := make(map[string]struct{})
		for r := start; r < t.Height(); r++ {
			seen[c.View.String(t.Get(col, r))] = struct{}{}
		}
		return len(seen)
	}
	all := make([]scored, len(common))
	for i, cp := range common {
		all[i] = scored{cp, min(count(x, cp.A, startX), count(y, cp.B, startY))}
	}
	slices.SortStableFunc(all, func(p, q scored) int { return q.score - p.score })
	out := make([]ColumnPair, 0, maxIndexColumns)
	for _, s := range all[:min(len(all), maxIndexColumns)] {
		out = append(out, s.cp)
	}
	return out
}

// rowsEqual reports if rows rx and ry agree on all common columns.
func (c *Comparison[C]) rowsEqual(x, y table.Table[C], common []ColumnPair, rx, ry int) bool {
	if len(common) == 0 {
		return false
	}
	for _, cp := range common {
		if !c.View.Equals(x.Get(cp.A, rx), y.Get(cp.B, ry)) {
			return false
		}
	}
	return true
}

// rowsOverlap reports if rows rx and ry share a non-blank value in a common column.
func (c *Comparison[C]) rowsOverlap(x, y table.Table[C], common []ColumnPair, rx, ry int) bool {
	for _, cp := range common {
		va := x.Get(cp.A, rx)
		if !table.IsBlank(c.View, va) && c.View.Equals(va, y.Get(cp.B, ry)) {
			return true
		}
	}
	return false
}

// fillGaps matches unlinked rows between consecutive anchors. Anchors are the longest chain of
// links that is increasing on both sides.
func (c *Comparison[C]) fillGaps(x, y table.Table[C], common []ColumnPair, rows *Alignment) {
	anchors := increasing(rows.Pairs())
	anchors = append(anchors, ColumnPair{x.Height(), y.Height()})
	prev := ColumnPair{-1, -1}
	for _, next := range anchors {
		var gx, gy []int
		for r := prev.A + 1; r < next.A; r++ {
			if rows.A2B(r) < 0 {
				gx = append(gx, r)
			}
		}
		for r := prev.B + 1; r < next.B; r++ {
			if rows.B2A(r) < 0 {
				gy = append(gy, r)
			}
		}
		prev = next
		if len(gx) == 0 || len(gy) == 0 {
			continue
		}
		rx, ry := seqmatch.Diff(gx, gy, func(a, b int) bool { return c.rowsEqual(x, y, common, a, b) })
		for _, p := range seqmatch.Pairs(rx, ry) {
			rows.Link(gx[p.S], gy[p.T])
		}
		for blk := range seqmatch.Blocks(rx, ry) {
			for i := 0; blk.S0+i < blk.S1 && blk.T0+i < blk.T1; i++ {
				a, b := gx[blk.S0+i], gy[blk.T0+i]
				if c.rowsOverlap(x, y, common, a, b) {
					rows.Link(a, b)
				}
			}
		}
	}
}

// increasing returns the longest subsequence of links (sorted by A) that is also increasing in B.
func increasing(links []ColumnPair) []ColumnPair {
	bs := make([]int, len(links))
	for i, l := range links {
		bs[i] = l.B
	}
	var out []ColumnPair
	for _, i := range mover.Increasing(bs) {
		out = append(out, links[i])
	}
	return out
}

// prune links adjacent removed and added rows with identical content.
func (c *Comparison[C]) prune(x, y table.Table[C], cols, rows *Alignment) {
	common := cols.Pairs()
	units := rows.ToOrder().Units()
	for i := 0; i+1 < len(units); i++ {
		u, v := units[i], units[i+1]
		if u.L >= 0 && u.R < 0 && v.L < 0 && v.R >= 0 && c.rowsEqual(x, y, common, u.L, v.R) {
			rows.Link(u.L, v.R)
			i++
		}
	}
}
