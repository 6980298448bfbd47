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

package tablediff

import (
	"github.com/pkg/errors"

	"znkr.io/tablediff/internal/align"
	"znkr.io/tablediff/internal/cells"
	"znkr.io/tablediff/internal/config"
	"znkr.io/tablediff/internal/highlight"
	"znkr.io/tablediff/internal/mover"
	"znkr.io/tablediff/internal/patch"
	"znkr.io/tablediff/table"
)

const (
	diffFlags  = config.Ordered | config.Context | config.ColumnContext | config.Header | config.Order | config.Acts | config.Compare
	alignFlags = config.Compare
	patchFlags = config.Logger
)

// ErrMalformed is returned by [Patch] if the diff table has no header row.
var ErrMalformed = patch.ErrMalformed

// Diff compares a and b and returns a highlighted diff table that turns a into b when applied
// with [Patch].
//
// If a and b are equal, the diff consists of the header row only, or is empty if
// [AlwaysShowHeader] is disabled.
//
// The following options are supported: [Unordered], [ShowUnchanged], [Context],
// [ShowUnchangedColumns], [ColumnContext], [AlwaysShowHeader], [AlwaysShowOrder],
// [NeverShowOrder], [Acts], [IndexColumns], [Prune], [Logger]
//
// An error is returned if a table reports a cell that is out of bounds.
//
// Important: The output is not guaranteed to be stable and may change with minor version upgrades.
// DO NOT rely on the output being stable.
func Diff[C any](a, b table.Table[C], view table.View[C], opts ...Option) (_ *table.Grid[string], err error) {
	cfg := config.FromOptions(opts, diffFlags)
	defer recoverBounds(&err)
	c := align.Compare(nil, a, b, view, cfg)
	return highlight.Diff(c, cfg), nil
}

// Diff3 compares a and b relative to their common ancestor p. The diff turns a into the merge of
// a and b when applied with [Patch]: changes made in b are applied, changes made in a are kept.
// Cells that were changed differently in a and b are marked as conflicts ("p!->a!->b").
//
// Diff3 supports the same options as [Diff].
func Diff3[C any](p, a, b table.Table[C], view table.View[C], opts ...Option) (_ *table.Grid[string], err error) {
	cfg := config.FromOptions(opts, diffFlags)
	defer recoverBounds(&err)
	if p != nil && p.Height() == 0 {
		p = nil
	}
	c := align.Compare(p, a, b, view, cfg)
	return highlight.Diff(c, cfg), nil
}

// PatchResult summarizes the application of a diff with [Patch].
type PatchResult = patch.Result

// Patch applies diff to src in place. src must be resizable unless the diff doesn't change its
// shape.
//
// Diff rows that can't be matched to a row in src are skipped and reported in the result.
// Conflicting cells of a three-way diff are written to src verbatim and counted in the result.
//
// The following options are supported: [Logger]
func Patch[C any](src table.Table[C], view table.View[C], diff table.Table[string], opts ...Option) (_ PatchResult, err error) {
	cfg := config.FromOptions(opts, patchFlags)
	defer recoverBounds(&err)
	return patch.Apply(src, view, diff, cfg.Logger)
}

// Unit is one aligned row or column: its index in the parent (P), left (L) and right (R) table or
// -1 if it's absent in that table.
type Unit = align.Unit

// Alignment describes how the rows and columns of two tables correspond to each other.
type Alignment struct {
	// Rows and Columns are the aligned units in output order.
	Rows, Columns []Unit

	// MovedRows and MovedColumns report for every unit if it changed its position.
	MovedRows, MovedColumns []bool

	// HeaderA and HeaderB are the header rows of a and b, or -1 if a table is empty.
	HeaderA, HeaderB int

	// IndexColumns are the column pairs (in a and b) that were used to match rows.
	IndexColumns [][2]int

	// Quality is the fraction of rows of a that were matched uniquely by the best index.
	Quality float64

	// Equal reports if a and b have the same shape and content.
	Equal bool
}

// Align aligns the rows and columns of a and b without rendering a diff.
//
// The following options are supported: [IndexColumns], [Prune], [Logger]
func Align[C any](a, b table.Table[C], view table.View[C], opts ...Option) (_ *Alignment, err error) {
	cfg := config.FromOptions(opts, alignFlags)
	defer recoverBounds(&err)
	c := align.Compare(nil, a, b, view, cfg)
	rows, cols := c.Rows.ToOrder(), c.Cols.ToOrder()
	al := &Alignment{
		Rows:         rows.Units(),
		Columns:      cols.Units(),
		MovedRows:    align.MoveUnits(rows),
		MovedColumns: align.MoveUnits(cols),
		HeaderA:      c.Rows.HeaderA,
		HeaderB:      c.Rows.HeaderB,
		Quality:      c.Rows.Quality,
		Equal:        c.IsEqual,
	}
	for _, cp := range c.Rows.IndexColumns {
		al.IndexColumns = append(al.IndexColumns, [2]int{cp.A, cp.B})
	}
	return al, nil
}

// CellInfo is the parsed form of a diff table cell, see [ExamineCell].
type CellInfo = cells.Info

// Category classifies a diff table cell.
type Category = cells.Category

// Cell categories.
const (
	Unchanged = cells.None
	Added     = cells.Add
	Removed   = cells.Remove
	Modified  = cells.Modify
	Conflict  = cells.Conflict
	Schema    = cells.Spec
	Header    = cells.Header
	Moved     = cells.Move
)

// ExamineCell parses a cell of a diff table. action is the action code of the row the cell is in.
func ExamineCell(raw, action string) CellInfo {
	return cells.Examine(raw, action)
}

// Moves returns the elements of dst that changed their relative position compared to src, in the
// order they appear in dst. The remaining elements are in the same relative order in src and dst.
// Elements that are only present in one of src or dst are ignored. Elements are expected to be
// unique, only the first copy of a repeated element is considered.
//
// The result is computed with a greedy heuristic and is not guaranteed to be minimal.
func Moves(src, dst []int) []int {
	return mover.Move(src, dst)
}

// recoverBounds turns a panic caused by an out of bounds cell access into an error.
func recoverBounds(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(error); ok && errors.Is(e, table.ErrOutOfBounds) {
		*err = e
		return
	}
	panic(r)
}
