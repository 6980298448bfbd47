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

// Package align computes row and column alignments between tables and linearizes them into
// orderings that the diff emitter walks.
package align

import (
	"github.com/go-kit/kit/log"
)

// ColumnPair is a pair of corresponding columns in the a and b side of an alignment.
type ColumnPair struct {
	A, B int
}

// Alignment is a partial bijection between the rows (or columns) of two tables a and b.
//
// In a three-way comparison, the alignment maps the parent to the right table and Reference maps
// the parent to the left table.
type Alignment struct {
	a2b, b2a []int

	// HeaderA and HeaderB are the header rows, or -1 if there is none.
	HeaderA, HeaderB int

	// Reference is the parent to left alignment of a three-way comparison.
	Reference *Alignment

	// IndexColumns are the columns that were used as a key to match rows.
	IndexColumns []ColumnPair

	// Quality of the best index that was used to build the alignment.
	Quality float64

	logger log.Logger
	order  *Ordering
}

// New returns an alignment between a table with ha rows and a table with hb rows with no links.
func New(ha, hb int) *Alignment {
	al := &Alignment{
		a2b:     make([]int, ha),
		b2a:     make([]int, hb),
		HeaderA: -1,
		HeaderB: -1,
		logger:  log.NewNopLogger(),
	}
	for i := range al.a2b {
		al.a2b[i] = -1
	}
	for i := range al.b2a {
		al.b2a[i] = -1
	}
	return al
}

// SetLogger sets the logger for diagnostics.
func (al *Alignment) SetLogger(logger log.Logger) { al.logger = logger }

// LenA returns the number of rows (or columns) on the a side.
func (al *Alignment) LenA() int { return len(al.a2b) }

// LenB returns the number of rows (or columns) on the b side.
func (al *Alignment) LenB() int { return len(al.b2a) }

// Link links a and b. Existing links of a and b are removed.
func (al *Alignment) Link(a, b int) {
	if old := al.a2b[a]; old >= 0 {
		al.b2a[old] = -1
	}
	if old := al.b2a[b]; old >= 0 {
		al.a2b[old] = -1
	}
	al.a2b[a] = b
	al.b2a[b] = a
	al.order = nil
}

// A2B returns the counterpart of a, or -1.
func (al *Alignment) A2B(a int) int {
	if a < 0 || a >= len(al.a2b) {
		return -1
	}
	return al.a2b[a]
}

// B2A returns the counterpart of b, or -1.
func (al *Alignment) B2A(b int) int {
	if b < 0 || b >= len(al.b2a) {
		return -1
	}
	return al.b2a[b]
}

// Count returns the number of links.
func (al *Alignment) Count() int {
	n := 0
	for _, b := range al.a2b {
		if b >= 0 {
			n++
		}
	}
	return n
}

// Pairs returns all links in a order.
func (al *Alignment) Pairs() []ColumnPair {
	var out []ColumnPair
	for a, b := range al.a2b {
		if b >= 0 {
			out = append(out, ColumnPair{a, b})
		}
	}
	return out
}

// SetReference sets the parent to left alignment and invalidates the cached ordering.
func (al *Alignment) SetReference(ref *Alignment) {
	al.Reference = ref
	al.order = nil
}

// ToOrder returns the ordering of the units of the alignment. The result is cached until the
// alignment changes.
func (al *Alignment) ToOrder() *Ordering {
	if al.order == nil {
		if al.Reference == nil {
			al.order = al.toOrder2()
		} else {
			al.order = al.toOrder3()
		}
	}
	return al.order
}

// toOrder2 follows the order of b. Rows only present in a are placed at their position in a.
func (al *Alignment) toOrder2() *Ordering {
	ha, hb := len(al.a2b), len(al.b2a)
	done := make([]bool, ha)
	o := &Ordering{units: make([]Unit, 0, max(ha, hb))}
	for l, r := 0, 0; l < ha || r < hb; {
		if l < ha {
			if done[l] {
				l++
				continue
			}
			if al.a2b[l] < 0 {
				o.Add(Unit{-1, l, -1})
				done[l] = true
				l++
				continue
			}
		}
		if r < hb {
			a := al.b2a[r]
			o.Add(Unit{-1, a, r})
			if a >= 0 {
				done[a] = true
			}
			r++
			continue
		}
		l++
	}
	return o
}

// toOrder3 merges the parent (a side of al), left (b side of al.Reference) and right (b side of al)
// tables.
func (al *Alignment) toOrder3() *Ordering {
	ref := al.Reference
	p2r, r2p := al.a2b, al.b2a
	p2l, l2p := ref.a2b, ref.b2a
	hp, hl, hr := len(p2r), len(l2p), len(r2p)
	if len(p2l) != hp {
		panic("parent of reference and alignment differ in size")
	}

	doneP := make([]bool, hp)
	doneL := make([]bool, hl)
	doneR := make([]bool, hr)
	o := &Ordering{units: make([]Unit, 0, max(hp, hl, hr))}
	emit := func(p, l, r int) {
		o.Add(Unit{p, l, r})
		if p >= 0 {
			doneP[p] = true
		}
		if l >= 0 {
			doneL[l] = true
		}
		if r >= 0 {
			doneR[r] = true
		}
	}

	xp, xl, xr := 0, 0, 0
	prev := -1
	maxCt := 10 * (hp + hl + hr)
	for ct := 0; ; ct++ {
		if ct > maxCt {
			al.logger.Log("msg", "ordering merge did not converge", "limit", maxCt, "units", o.Len())
			break
		}
		for xp < hp && doneP[xp] {
			xp++
		}
		for xl < hl && doneL[xl] {
			xl++
		}
		for xr < hr && doneR[xr] {
			xr++
		}
		if xp >= hp && xl >= hl && xr >= hr {
			break
		}

		if xp < hp && p2l[xp] < 0 && p2r[xp] < 0 {
			emit(xp, -1, -1)
			continue
		}
		if xl < hl && l2p[xl] < 0 {
			emit(-1, xl, -1)
			continue
		}
		if xr < hr && r2p[xr] < 0 {
			emit(-1, -1, xr)
			continue
		}

		pl, pr := -1, -1
		if xl < hl {
			pl = l2p[xl]
		}
		if xr < hr {
			pr = r2p[xr]
		}
		var p int
		switch {
		case pl >= 0 && pr >= 0:
			// Prefer the natural successor of the previous parent row.
			p = pl
			if pr == prev+1 && pl != prev+1 {
				p = pr
			}
		case pl >= 0:
			p = pl
		case pr >= 0:
			p = pr
		default:
			p = xp
		}
		emit(p, p2l[p], p2r[p])
		prev = p
	}
	return o
}
