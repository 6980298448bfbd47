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

// Package table defines the two dimensional cell grid that the comparison functions in
// [znkr.io/tablediff] operate on.
//
// Callers can implement [Table] over whatever storage they prefer. [Grid] is a simple dense
// implementation that is sufficient for most uses. All payload handling goes through a [View], the
// comparison code never inspects cells directly.
//
// [znkr.io/tablediff]: https://pkg.go.dev/znkr.io/tablediff
package table

import (
	"github.com/pkg/errors"
)

var (
	// ErrOutOfBounds is raised when a cell outside of the current dimensions is accessed.
	ErrOutOfBounds = errors.New("cell index out of bounds")

	// ErrNotResizable is returned when a table that can't be resized is asked to change its
	// dimensions.
	ErrNotResizable = errors.New("table is not resizable")

	// ErrBadFate is returned when a fate vector doesn't describe a valid reordering.
	ErrBadFate = errors.New("invalid fate vector")
)

// Table is a rectangular grid of cells. Row 0 is usually a header row.
type Table[C any] interface {
	Width() int
	Height() int

	// Get returns the cell at column c and row r. It panics with an error wrapping
	// ErrOutOfBounds if the cell doesn't exist.
	Get(c, r int) C

	// Set stores v at column c and row r. It panics with an error wrapping ErrOutOfBounds if the
	// cell doesn't exist.
	Set(c, r int, v C)

	// Resize changes the dimensions of the table. Existing cells inside the new dimensions keep
	// their values, new cells are set to the zero value.
	Resize(width, height int) error

	// InsertOrDeleteRows moves row i to row fate[i] or drops it if fate[i] is -1. The table has
	// height rows afterwards, rows not targeted by fate are set to the zero value. Either the
	// operation succeeds fully or the table is left unchanged.
	InsertOrDeleteRows(fate []int, height int) error

	// InsertOrDeleteColumns is the equivalent of InsertOrDeleteRows for columns.
	InsertOrDeleteColumns(fate []int, width int) error
}

// View supplies equality and string conversion for opaque cells.
type View[C any] interface {
	// Equals reports if two cells hold the same value. Null cells and empty strings must compare
	// equal to each other.
	Equals(a, b C) bool

	// String returns the string representation of a cell. Null cells are represented by the
	// empty string.
	String(v C) string

	// Datum converts a string back to a cell. For every string s that doesn't represent a null
	// cell, String(Datum(s)) == s must hold.
	Datum(s string) C

	// IsNull reports if the cell is null.
	IsNull(v C) bool
}

// IsBlank reports if v is null or has an empty string representation.
func IsBlank[C any](view View[C], v C) bool {
	return view.IsNull(v) || view.String(v) == ""
}

// Equal reports if a and b have the same dimensions and all cells are equal under view.
func Equal[C any](a, b Table[C], view View[C]) bool {
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return false
	}
	for r := range a.Height() {
		for c := range a.Width() {
			if !view.Equals(a.Get(c, r), b.Get(c, r)) {
				return false
			}
		}
	}
	return true
}

// TrimBlank removes trailing rows and columns that contain only blank cells.
func TrimBlank[C any](t Table[C], view View[C]) error {
	w, h := t.Width(), t.Height()
	for h > 0 {
		blank := true
		for c := range w {
			if !IsBlank(view, t.Get(c, h-1)) {
				blank = false
				break
			}
		}
		if !blank {
			break
		}
		h--
	}
	for w > 0 {
		blank := true
		for r := range h {
			if !IsBlank(view, t.Get(w-1, r)) {
				blank = false
				break
			}
		}
		if !blank {
			break
		}
		w--
	}
	if w == t.Width() && h == t.Height() {
		return nil
	}
	if h == 0 {
		w = 0
	}
	return t.Resize(w, h)
}

// CheckFate verifies that fate describes a valid reordering of n elements into an output of length
// size: every target is either -1 or in [0, size) and no target is used twice.
func CheckFate(fate []int, n, size int) error {
	if len(fate) != n {
		return errors.Wrapf(ErrBadFate, "fate has %d entries, want %d", len(fate), n)
	}
	if size < 0 {
		return errors.Wrapf(ErrBadFate, "negative size %d", size)
	}
	used := make([]bool, size)
	for i, f := range fate {
		if f == -1 {
			continue
		}
		if f < 0 || f >= size {
			return errors.Wrapf(ErrBadFate, "fate[%d] = %d is outside [0, %d)", i, f, size)
		}
		if used[f] {
			return errors.Wrapf(ErrBadFate, "fate[%d] = %d is used twice", i, f)
		}
		used[f] = true
	}
	return nil
}
