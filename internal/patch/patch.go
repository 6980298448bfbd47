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

// Package patch applies a highlighted diff table to a source table.
package patch

import (
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/pkg/errors"

	"znkr.io/tablediff/internal/align"
	"znkr.io/tablediff/internal/cells"
	"znkr.io/tablediff/internal/index"
	"znkr.io/tablediff/table"
)

// ErrMalformed is returned for diff tables without a header row.
var ErrMalformed = errors.New("malformed diff table")

// headerSlop is the number of leading source rows that are searched for the header row.
const headerSlop = 5

// Result summarizes a patch application.
type Result struct {
	// Skipped lists the diff rows that could not be matched to a source row.
	Skipped []int

	// Conflicts is the number of conflicting cells that were written to the table.
	Conflicts int

	// Rows and Columns are the dimensions of the patched table.
	Rows, Columns int
}

// column describes a payload column of the diff table.
type column struct {
	diff    int    // column in the diff table
	name    string // name after the patch
	pre     string // name before the patch
	src     int    // column in the source table, -1 if unknown
	add     bool
	del     bool
	moved   bool
	renamed bool
	marker  bool
}

// unit is a row of the diff table that refers to a row of the source or target table.
type unit struct {
	patchRow int
	action   string
	header   bool
	src      int // row in the source table, -1 if new or not found
	add      bool
	del      bool
	moved    bool
	marker   bool
}

type patcher[C any] struct {
	src    table.Table[C]
	view   table.View[C]
	diff   table.Table[string]
	logger log.Logger

	offset int // column of the action codes
	cols   []column
	units  []unit
	header int // header row in the source table
	used   []bool
	res    Result
}

// Apply patches src in place so that it matches the target table that diff was computed for.
//
// Rows are matched through breadcrumbs if the diff carries them and otherwise by content. Diff
// rows that don't match any source row are skipped and reported in the result. An error is only
// returned if diff is malformed or the table can't be resized.
func Apply[C any](src table.Table[C], view table.View[C], diff table.Table[string], logger log.Logger) (Result, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	p := &patcher[C]{
		src:    src,
		view:   view,
		diff:   diff,
		logger: logger,
		header: -1,
		used:   make([]bool, src.Height()),
	}
	if diff.Height() == 0 {
		p.res.Rows, p.res.Columns = src.Height(), src.Width()
		return p.res, nil
	}
	if err := p.parseColumns(); err != nil {
		return p.res, err
	}
	p.findHeader()
	p.locateRows()

	colEntries := make([]entry, len(p.cols))
	for k, c := range p.cols {
		colEntries[k] = entry{src: c.src, add: c.add, del: c.del, moved: c.moved, marker: c.marker}
	}
	rowEntries := make([]entry, len(p.units))
	for k, u := range p.units {
		rowEntries[k] = entry{src: u.src, add: u.add, del: u.del, moved: u.moved, marker: u.marker}
	}
	colFate, width, colTargets := arrange(src.Width(), colEntries)
	rowFate, height, rowTargets := arrange(src.Height(), rowEntries)
	if width == 0 && src.Width() > 0 {
		// A table without columns keeps no rows, not even its header.
		for i := range rowFate {
			rowFate[i] = -1
		}
		for k := range rowTargets {
			rowTargets[k] = -1
		}
		height = 0
	}
	if err := table.CheckFate(colFate, src.Width(), width); err != nil {
		return p.res, err
	}
	if err := table.CheckFate(rowFate, src.Height(), height); err != nil {
		return p.res, err
	}
	if !isIdentity(colFate, width) {
		if err := src.InsertOrDeleteColumns(colFate, width); err != nil {
			return p.res, errors.Wrap(err, "patching columns")
		}
	}
	if !isIdentity(rowFate, height) {
		if err := src.InsertOrDeleteRows(rowFate, height); err != nil {
			return p.res, errors.Wrap(err, "patching rows")
		}
	}

	for k, u := range p.units {
		if rowTargets[k] >= 0 {
			p.fill(u, rowTargets[k], colTargets)
		}
	}
	p.res.Rows, p.res.Columns = src.Height(), src.Width()
	return p.res, nil
}

// isIdentity reports if fate keeps every entry in place.
func isIdentity(fate []int, size int) bool {
	if len(fate) != size {
		return false
	}
	for i, f := range fate {
		if f != i {
			return false
		}
	}
	return true
}

func (p *patcher[C]) action(r int) string {
	return p.diff.Get(p.offset, r)
}

// parseColumns reads the schema and header rows of the diff.
func (p *patcher[C]) parseColumns() error {
	d := p.diff
	for r := range d.Height() {
		if d.Width() > 0 && d.Get(0, r) == cells.Corner {
			p.offset = 1
			break
		}
	}
	if d.Width() <= p.offset {
		return errors.Wrapf(ErrMalformed, "diff table has %d columns", d.Width())
	}
	schema, header := -1, -1
	for r := range d.Height() {
		switch p.action(r) {
		case cells.ActionSchema:
			if schema < 0 {
				schema = r
			}
		case cells.ActionHeader:
			if header < 0 {
				header = r
			}
		}
	}
	if header < 0 {
		return errors.Wrap(ErrMalformed, "no header row")
	}

	for j := p.offset + 1; j < d.Width(); j++ {
		c := column{diff: j, src: -1}
		raw := d.Get(j, header)
		c.name, _ = cells.Unescape(raw)
		var mod string
		if schema >= 0 {
			mod = d.Get(j, schema)
		}
		switch {
		case raw == cells.ActionElided || mod == cells.ActionElided:
			c.marker = true
		case mod == cells.ActionAdd:
			c.add = true
		case mod == cells.ActionRemove:
			c.del = true
			c.pre = c.name
		default:
			if rest, ok := strings.CutPrefix(mod, cells.ActionMove); ok {
				c.moved = true
				mod = rest
			}
			c.pre = c.name
			if old, ok := cells.ParseRename(mod); ok {
				c.pre, _ = cells.Unescape(old)
				c.renamed = true
			}
		}
		p.cols = append(p.cols, c)
	}
	return nil
}

// mapColumns maps the columns of the diff to the columns of the source table by their names in
// source row r and returns the number of non-blank names that matched.
func (p *patcher[C]) mapColumns(r int, apply bool) int {
	taken := make([]bool, p.src.Width())
	score := 0
	for k := range p.cols {
		c := &p.cols[k]
		if c.add || c.marker {
			continue
		}
		for s := range p.src.Width() {
			if taken[s] || p.view.String(p.src.Get(s, r)) != c.pre {
				continue
			}
			taken[s] = true
			if c.pre != "" {
				score++
			}
			if apply {
				c.src = s
			}
			break
		}
	}
	return score
}

// findHeader locates the header row of the source table and maps the diff columns onto source
// columns. If no header row matches, columns are mapped by position.
func (p *patcher[C]) findHeader() {
	best := 0
	for r := range min(headerSlop, p.src.Height()) {
		if n := p.mapColumns(r, false); n > best {
			best, p.header = n, r
		}
	}
	if p.header >= 0 {
		p.mapColumns(p.header, true)
		return
	}
	s := 0
	for k := range p.cols {
		c := &p.cols[k]
		if c.add || c.marker {
			continue
		}
		if s >= p.src.Width() {
			c.add = !c.del
			continue
		}
		c.src = s
		s++
	}
	if len(p.cols) > 0 {
		p.logger.Log("msg", "no header row found, mapping columns by position")
	}
}

// locateRows classifies the diff rows and finds the source row of every diff row that refers to
// an existing row.
func (p *patcher[C]) locateRows() {
	var srcCols []int
	for _, c := range p.cols {
		if c.src >= 0 {
			srcCols = append(srcCols, c.src)
		}
	}
	idx := index.New(p.src, p.view, srcCols)
	idx.Build(0)

	headerSeen := false
	if p.header >= 0 {
		p.used[p.header] = true
	}
	prev := -1
	for r := range p.diff.Height() {
		act := p.action(r)
		u := unit{patchRow: r, action: act, src: -1}
		base := act
		if rest, ok := strings.CutPrefix(act, cells.ActionMove); ok {
			u.moved = true
			base = rest
		}
		switch base {
		case cells.ActionSchema:
			continue
		case cells.ActionHeader:
			if headerSeen || len(p.cols) == 0 || p.header < 0 && p.src.Height() > 0 {
				continue
			}
			headerSeen = true
			u.header = true
			u.src = p.header
			u.add = p.header < 0
			u.moved = false
			p.units = append(p.units, u)
			continue
		case cells.ActionElided:
			u.marker = true
			u.moved = false
			p.units = append(p.units, u)
			continue
		case cells.ActionAdd:
			u.add = true
			u.moved = false
			p.units = append(p.units, u)
			continue
		case cells.ActionRemove:
			u.del = true
		}

		u.src = p.locate(r, idx, prev)
		if u.src < 0 {
			p.res.Skipped = append(p.res.Skipped, r)
			p.logger.Log("msg", "skipping diff row without source row", "row", r, "action", act)
			continue
		}
		p.used[u.src] = true
		prev = u.src
		p.units = append(p.units, u)
	}
}

// locate finds the source row for diff row r.
func (p *patcher[C]) locate(r int, idx *index.Index[C], prev int) int {
	if p.offset > 0 {
		if u, ok := align.ParseUnit(p.diff.Get(0, r)); ok && u.L >= 0 && u.L < p.src.Height() && !p.used[u.L] {
			return u.L
		}
	}

	act := p.action(r)
	var cols []int
	var vals []string
	for _, c := range p.cols {
		if c.src < 0 {
			continue
		}
		info := cells.Examine(p.diff.Get(c.diff, r), act)
		v := info.Value
		if info.Updated {
			v = info.LValue
		}
		cols = append(cols, c.src)
		vals = append(vals, v)
	}

	first := -1
	for _, cand := range idx.Lookup(index.Key(vals)) {
		if p.used[cand] || !p.matches(cand, cols, vals) {
			continue
		}
		if cand > prev {
			return cand
		}
		if first < 0 {
			first = cand
		}
	}
	return first
}

func (p *patcher[C]) matches(r int, cols []int, vals []string) bool {
	for i, c := range cols {
		v := p.src.Get(c, r)
		if table.IsBlank(p.view, v) && vals[i] == "" {
			continue
		}
		if p.view.String(v) != vals[i] {
			return false
		}
	}
	return true
}

func (p *patcher[C]) datum(info cells.Info) C {
	if info.Null {
		var zero C
		return zero
	}
	return p.view.Datum(info.Value)
}

// fill writes the cells of diff unit u into target row t.
func (p *patcher[C]) fill(u unit, t int, colTargets []int) {
	for k, c := range p.cols {
		tc := colTargets[k]
		if tc < 0 || c.marker {
			continue
		}
		raw := p.diff.Get(c.diff, u.patchRow)
		switch {
		case u.header:
			if c.add || c.renamed {
				p.src.Set(tc, t, p.view.Datum(c.name))
			}
		case u.add:
			p.src.Set(tc, t, p.datum(cells.Examine(raw, u.action)))
		default:
			info := cells.Examine(raw, u.action)
			switch {
			case c.add:
				p.src.Set(tc, t, p.datum(info))
			case info.Conflicted:
				p.src.Set(tc, t, p.view.Datum(raw))
				p.res.Conflicts++
			case info.Updated:
				p.src.Set(tc, t, p.datum(info))
			}
		}
	}
}
