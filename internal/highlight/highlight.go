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

// Package highlight renders an alignment as a highlighted diff table.
//
// The diff table has an action column, optionally preceded by a breadcrumb column, followed by
// the payload columns in output order. A schema row ("!") describes added, removed, renamed and
// moved columns, the header row ("@@") carries the column names. Content rows are marked as added
// ("+++"), removed ("---"), updated (the update separator, e.g. "->") or moved (":" prefix).
// Unchanged rows and columns outside the configured context are elided and replaced by a single
// "..." row or column per elided stretch.
package highlight

import (
	"strings"

	"znkr.io/tablediff/internal/align"
	"znkr.io/tablediff/internal/cells"
	"znkr.io/tablediff/internal/config"
	"znkr.io/tablediff/table"
)

// status is the fate of a row or column unit in the diff.
type status int

const (
	skip    status = iota // not part of the output
	same                  // present on both sides
	kept                  // only present in the left table and not changed by the right one
	added                 // new on the right
	removed               // removed on the right
)

func classify(u align.Unit, threeWay bool, cfg *config.Config) status {
	var st status
	switch {
	case u.L >= 0 && u.R >= 0:
		st = same
	case u.L >= 0 && (!threeWay || u.P >= 0):
		st = removed
	case u.L >= 0:
		st = kept
	case u.R >= 0 && (!threeWay || u.P < 0):
		st = added
	default:
		st = skip
	}
	switch {
	case st == added && !cfg.Allows(config.ActInsert):
		return skip
	case st == removed && !cfg.Allows(config.ActDelete):
		return kept
	}
	return st
}

// change describes the content of a single cell.
type change int

const (
	unchanged  change = iota
	updated           // left and right differ
	conflicted        // left and right both differ from the parent
	filled            // non-blank cell in an added column
)

type emitter[C any] struct {
	cmp      *align.Comparison[C]
	view     table.View[C]
	cfg      config.Config
	threeWay bool
	seps     cells.Separators

	rows, cols         []align.Unit
	rowSt, colSt       []status
	rowMoved, colMoved []bool

	hp, hl, hr int // header rows of the parent, left and right table
	header     int // index of the header unit in rows, or -1

	texts [][]string
	kinds [][]change
}

// Diff renders the comparison c as a diff table. The result is empty if nothing changed and the
// header is not requested.
func Diff[C any](c *align.Comparison[C], cfg config.Config) *table.Grid[string] {
	e := newEmitter(c, cfg)
	return e.emit()
}

// Separators returns the separators that a diff of c uses.
func Separators[C any](c *align.Comparison[C]) cells.Separators {
	return cells.ChooseSeparators(func(yield func(string) bool) {
		for _, t := range []table.Table[C]{c.P, c.A, c.B} {
			if t == nil {
				continue
			}
			for r := range t.Height() {
				for col := range t.Width() {
					if !yield(c.View.String(t.Get(col, r))) {
						return
					}
				}
			}
		}
	})
}

func newEmitter[C any](c *align.Comparison[C], cfg config.Config) *emitter[C] {
	e := &emitter[C]{
		cmp:      c,
		view:     c.View,
		cfg:      cfg,
		threeWay: c.ThreeWay(),
		hp:       -1,
		hl:       c.Rows.HeaderA,
		hr:       c.Rows.HeaderB,
		header:   -1,
	}
	if e.threeWay {
		e.hp = c.Rows.HeaderA
		e.hl = c.Rows.Reference.HeaderB
	}
	e.seps = Separators(c)

	var ro, co align.Ordering
	for _, u := range c.Rows.ToOrder().Units() {
		if st := classify(u, e.threeWay, &cfg); st != skip {
			e.rows = append(e.rows, u)
			e.rowSt = append(e.rowSt, st)
			ro.Add(u)
		}
	}
	for _, u := range c.Cols.ToOrder().Units() {
		if st := classify(u, e.threeWay, &cfg); st != skip {
			e.cols = append(e.cols, u)
			e.colSt = append(e.colSt, st)
			co.Add(u)
		}
	}

	anchor := func(u align.Unit) bool {
		st := classify(u, e.threeWay, &cfg)
		return st == same || st == kept
	}
	if cfg.Ordered {
		e.rowMoved = align.MoveUnitsFunc(&ro, anchor)
	} else {
		e.rowMoved = make([]bool, len(e.rows))
	}
	e.colMoved = align.MoveUnitsFunc(&co, anchor)

	if e.hl >= 0 || e.hr >= 0 {
		for i, u := range e.rows {
			if u.L == e.hl && u.R == e.hr && (!e.threeWay || u.P == e.hp) {
				e.header = i
				break
			}
		}
	}

	e.texts = make([][]string, len(e.rows))
	e.kinds = make([][]change, len(e.rows))
	for i, ru := range e.rows {
		e.texts[i] = make([]string, len(e.cols))
		e.kinds[i] = make([]change, len(e.cols))
		for j, cu := range e.cols {
			e.kinds[i][j], e.texts[i][j] = e.cell(ru, e.rowSt[i], cu, e.colSt[j])
		}
	}
	return e
}

func (e *emitter[C]) text(v C) string {
	return cells.Escape(e.view.String(v), e.view.IsNull(v))
}

// cell returns the diff text of the cell at row unit ru and column unit cu.
func (e *emitter[C]) cell(ru align.Unit, rs status, cu align.Unit, cs status) (change, string) {
	c := e.cmp
	switch rs {
	case same:
		switch cs {
		case same:
			return e.compare(ru, cu)
		case added:
			t := e.text(c.B.Get(cu.R, ru.R))
			if t == "" {
				return unchanged, t
			}
			return filled, t
		default:
			return unchanged, e.text(c.A.Get(cu.L, ru.L))
		}
	case added:
		if cs == same || cs == added {
			return unchanged, e.text(c.B.Get(cu.R, ru.R))
		}
		return unchanged, ""
	default:
		if cs == added {
			return unchanged, ""
		}
		return unchanged, e.text(c.A.Get(cu.L, ru.L))
	}
}

// compare compares a cell that is present in the left and right table.
func (e *emitter[C]) compare(ru, cu align.Unit) (change, string) {
	c := e.cmp
	l, r := c.A.Get(cu.L, ru.L), c.B.Get(cu.R, ru.R)
	lt := e.text(l)
	if e.view.Equals(l, r) || !e.cfg.Allows(config.ActUpdate) {
		return unchanged, lt
	}
	if e.threeWay && ru.P >= 0 && cu.P >= 0 {
		p := c.P.Get(cu.P, ru.P)
		switch {
		case e.view.Equals(p, l):
		case e.view.Equals(p, r):
			return unchanged, lt
		default:
			return conflicted, e.seps.JoinConflict(e.text(p), lt, e.text(r))
		}
	}
	return updated, e.seps.Join(lt, e.text(r))
}

// name returns the header name of column j in the output and the old name if it was renamed.
func (e *emitter[C]) name(j int) (name, old string, renamed bool) {
	if e.header < 0 {
		return "", "", false
	}
	cu, ru := e.cols[j], e.rows[e.header]
	switch e.kinds[e.header][j] {
	case updated, conflicted:
		return e.text(e.cmp.B.Get(cu.R, ru.R)), e.text(e.cmp.A.Get(cu.L, ru.L)), true
	}
	return e.texts[e.header][j], "", false
}

func (e *emitter[C]) rowChanged(i int) bool {
	if i == e.header {
		return false
	}
	if e.rowSt[i] == added || e.rowSt[i] == removed || e.rowMoved[i] {
		return true
	}
	for _, k := range e.kinds[i] {
		if k != unchanged {
			return true
		}
	}
	return false
}

func (e *emitter[C]) colStructural(j int) bool {
	if e.colSt[j] == added || e.colSt[j] == removed || e.colMoved[j] {
		return true
	}
	_, _, renamed := e.name(j)
	return renamed
}

func (e *emitter[C]) colActive(j int) bool {
	if e.colStructural(j) {
		return true
	}
	for i := range e.rows {
		if i == e.header {
			continue
		}
		if e.kinds[i][j] != unchanged {
			return true
		}
		if e.rowSt[i] == added && e.texts[i][j] != "" {
			return true
		}
	}
	return false
}

// visible computes which units are shown. Changed units are shown with context, every added or
// moved unit forces the closest anchor (an unmoved unit present on the left) to be shown.
func visible(changed, anchor, force, pinned []bool, context int, all bool) []bool {
	n := len(changed)
	show := make([]bool, n)
	for i := range n {
		if all || pinned[i] {
			show[i] = true
		}
		if !changed[i] {
			continue
		}
		for j := max(0, i-context); j <= min(n-1, i+context); j++ {
			show[j] = true
		}
	}
	for i := range n {
		if !force[i] {
			continue
		}
		j := i - 1
		for j >= 0 && !anchor[j] {
			j--
		}
		if j < 0 {
			for j = i + 1; j < n && !anchor[j]; j++ {
			}
		}
		if j < n {
			show[j] = true
		}
	}
	return show
}

func (e *emitter[C]) emit() *table.Grid[string] {
	nr, nc := len(e.rows), len(e.cols)

	rowChanged := make([]bool, nr)
	rowAnchor := make([]bool, nr)
	rowForce := make([]bool, nr)
	rowPinned := make([]bool, nr)
	anyChange, anyMoved := false, false
	for i := range e.rows {
		rowChanged[i] = e.rowChanged(i)
		rowAnchor[i] = (e.rowSt[i] == same || e.rowSt[i] == kept) && !e.rowMoved[i]
		rowForce[i] = e.rowSt[i] == added || e.rowMoved[i]
		rowPinned[i] = i == e.header
		anyChange = anyChange || rowChanged[i]
		anyMoved = anyMoved || e.rowMoved[i]
	}

	colActive := make([]bool, nc)
	colAnchor := make([]bool, nc)
	colForce := make([]bool, nc)
	colPinned := make([]bool, nc)
	structural, anyActive := false, false
	for j := range e.cols {
		colActive[j] = e.colActive(j)
		colAnchor[j] = (e.colSt[j] == same || e.colSt[j] == kept) && !e.colMoved[j]
		colForce[j] = e.colSt[j] == added || e.colMoved[j]
		structural = structural || e.colStructural(j)
		anyActive = anyActive || colActive[j]
	}
	e.pin(colPinned, len(e.cfg.IndexColumns) > 0)

	if !anyChange && !structural && !e.cfg.AlwaysShowHeader {
		return table.NewGrid[string](0, 0)
	}

	showRow := visible(rowChanged, rowAnchor, rowForce, rowPinned, e.cfg.Context, e.cfg.ShowUnchanged)
	allCols := e.cfg.ShowUnchangedColumns || !anyActive
	showCol := visible(colActive, colAnchor, colForce, colPinned, e.cfg.ColumnContext, allCols)
	unique := e.distinct(showCol)
	if !allCols && !unique {
		e.pin(colPinned, true)
		showCol = visible(colActive, colAnchor, colForce, colPinned, e.cfg.ColumnContext, false)
		unique = e.distinct(showCol)
	}

	// Column layout, -1 marks an elided stretch.
	var layout []int
	for j := range e.cols {
		switch {
		case showCol[j]:
			layout = append(layout, j)
		case len(layout) == 0 || layout[len(layout)-1] != -1:
			layout = append(layout, -1)
		}
	}

	contentShown := false
	for i := range e.rows {
		if showRow[i] && i != e.header {
			contentShown = true
			break
		}
	}

	// Rows that look alike in the shown columns are located by their breadcrumbs.
	showOrder := e.cfg.AlwaysShowOrder ||
		!e.cfg.NeverShowOrder && (e.cfg.Ordered && anyMoved || contentShown && !unique)
	var out [][]string
	row := func(crumb, action string, cell func(j int) string) {
		r := make([]string, 0, len(layout)+2)
		if showOrder {
			r = append(r, crumb)
		}
		r = append(r, action)
		for _, j := range layout {
			if j < 0 {
				r = append(r, cells.ActionElided)
				continue
			}
			r = append(r, cell(j))
		}
		out = append(out, r)
	}
	headerRow := func() {
		row(cells.Corner, cells.ActionHeader, func(j int) string {
			name, _, _ := e.name(j)
			return name
		})
	}

	if structural {
		row("", cells.ActionSchema, func(j int) string {
			var mod string
			switch e.colSt[j] {
			case added:
				return cells.ActionAdd
			case removed:
				return cells.ActionRemove
			}
			if e.colMoved[j] {
				mod = cells.ActionMove
			}
			if _, old, renamed := e.name(j); renamed {
				mod += cells.Rename(old)
			}
			return mod
		})
	}
	if e.header < 0 {
		headerRow()
	}

	elided := false
	for i, u := range e.rows {
		switch {
		case i == e.header:
			headerRow()
			elided = false
		case showRow[i]:
			row(u.String(), e.action(i), func(j int) string { return e.texts[i][j] })
			elided = false
		case !elided && contentShown:
			row(cells.ActionElided, cells.ActionElided, func(int) string { return cells.ActionElided })
			elided = true
		}
	}
	return table.FromRows(out)
}

// pin marks the columns that were used to match rows.
func (e *emitter[C]) pin(pinned []bool, ok bool) {
	if !ok {
		return
	}
	for _, cp := range e.cmp.Rows.IndexColumns {
		for j, cu := range e.cols {
			if (e.threeWay && cu.P == cp.A || !e.threeWay && cu.L == cp.A) && cu.R == cp.B {
				pinned[j] = true
			}
		}
	}
}

// distinct reports if the shown columns tell all rows of the left table apart. Otherwise a patch
// can't locate rows by content. Blank cells compare equal.
func (e *emitter[C]) distinct(showCol []bool) bool {
	var cols []int
	for j, cu := range e.cols {
		if showCol[j] && cu.L >= 0 {
			cols = append(cols, cu.L)
		}
	}
	seen := make(map[string]bool, e.cmp.A.Height())
	var key strings.Builder
	for r := range e.cmp.A.Height() {
		if r == e.hl {
			continue
		}
		key.Reset()
		for _, c := range cols {
			if v := e.cmp.A.Get(c, r); !table.IsBlank(e.view, v) {
				key.WriteString(e.view.String(v))
			}
			key.WriteByte(0)
		}
		if seen[key.String()] {
			return false
		}
		seen[key.String()] = true
	}
	return true
}

func (e *emitter[C]) action(i int) string {
	switch e.rowSt[i] {
	case added:
		return cells.ActionAdd
	case removed:
		return cells.ActionRemove
	}
	var act string
	for _, k := range e.kinds[i] {
		switch k {
		case conflicted:
			act = e.seps.Conflict
		case updated:
			if act == "" {
				act = e.seps.Update
			}
		}
	}
	if e.rowMoved[i] {
		act = cells.ActionMove + act
	}
	return act
}
