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

package table

import (
	"github.com/pkg/errors"
)

// Grid is a dense row-major implementation of [Table].
type Grid[C any] struct {
	w, h  int
	cells []C
	fixed bool
}

// NewGrid returns a grid with the given dimensions and all cells set to the zero value.
func NewGrid[C any](width, height int) *Grid[C] {
	return &Grid[C]{
		w:     width,
		h:     height,
		cells: make([]C, width*height),
	}
}

// FromRows creates a grid from rows. The width of the grid is the length of the longest row,
// shorter rows are padded with the zero value.
func FromRows[C any](rows [][]C) *Grid[C] {
	w := 0
	for _, row := range rows {
		w = max(w, len(row))
	}
	g := NewGrid[C](w, len(rows))
	for r, row := range rows {
		copy(g.cells[r*w:], row)
	}
	return g
}

// Clone returns a deep copy of t as a grid.
func Clone[C any](t Table[C]) *Grid[C] {
	g := NewGrid[C](t.Width(), t.Height())
	for r := range t.Height() {
		for c := range t.Width() {
			g.cells[r*g.w+c] = t.Get(c, r)
		}
	}
	return g
}

// Freeze marks the grid as not resizable. Cells can still be set.
func (g *Grid[C]) Freeze() { g.fixed = true }

func (g *Grid[C]) Width() int { return g.w }
func (g *Grid[C]) Height() int { return g.h }

func (g *Grid[C]) Get(c, r int) C {
	v, err := g.At(c, r)
	if err != nil {
		panic(err)
	}
	return v
}

// At returns the cell at column c and row r or an error wrapping ErrOutOfBounds.
func (g *Grid[C]) At(c, r int) (C, error) {
	if c < 0 || c >= g.w || r < 0 || r >= g.h {
		var zero C
		return zero, errors.Wrapf(ErrOutOfBounds, "get (%d, %d) in %dx%d", c, r, g.w, g.h)
	}
	return g.cells[r*g.w+c], nil
}

func (g *Grid[C]) Set(c, r int, v C) {
	if c < 0 || c >= g.w || r < 0 || r >= g.h {
		panic(errors.Wrapf(ErrOutOfBounds, "set (%d, %d) in %dx%d", c, r, g.w, g.h))
	}
	g.cells[r*g.w+c] = v
}

// Row returns a copy of row r.
func (g *Grid[C]) Row(r int) []C {
	if r < 0 || r >= g.h {
		panic(errors.Wrapf(ErrOutOfBounds, "row %d in %dx%d", r, g.w, g.h))
	}
	out := make([]C, g.w)
	copy(out, g.cells[r*g.w:(r+1)*g.w])
	return out
}

// Rows returns a copy of all cells as a slice of rows.
func (g *Grid[C]) Rows() [][]C {
	out := make([][]C, g.h)
	for r := range g.h {
		out[r] = g.Row(r)
	}
	return out
}

func (g *Grid[C]) Resize(width, height int) error {
	if width == g.w && height == g.h {
		return nil
	}
	if g.fixed {
		return ErrNotResizable
	}
	if width < 0 || height < 0 {
		return errors.Wrapf(ErrOutOfBounds, "resize to %dx%d", width, height)
	}
	cells := make([]C, width*height)
	for r := range min(g.h, height) {
		copy(cells[r*width:r*width+min(g.w, width)], g.cells[r*g.w:])
	}
	g.w, g.h, g.cells = width, height, cells
	return nil
}

func (g *Grid[C]) InsertOrDeleteRows(fate []int, height int) error {
	if g.fixed {
		return ErrNotResizable
	}
	if err := CheckFate(fate, g.h, height); err != nil {
		return errors.Wrap(err, "rows")
	}
	cells := make([]C, g.w*height)
	for r, f := range fate {
		if f < 0 {
			continue
		}
		copy(cells[f*g.w:(f+1)*g.w], g.cells[r*g.w:(r+1)*g.w])
	}
	g.h, g.cells = height, cells
	return nil
}

func (g *Grid[C]) InsertOrDeleteColumns(fate []int, width int) error {
	if g.fixed {
		return ErrNotResizable
	}
	if err := CheckFate(fate, g.w, width); err != nil {
		return errors.Wrap(err, "columns")
	}
	cells := make([]C, width*g.h)
	for r := range g.h {
		for c, f := range fate {
			if f < 0 {
				continue
			}
			cells[r*width+f] = g.cells[r*g.w+c]
		}
	}
	g.w, g.cells = width, cells
	return nil
}
