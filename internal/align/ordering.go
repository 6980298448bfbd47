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
	"slices"
	"strconv"
	"strings"

	"znkr.io/tablediff/internal/mover"
)

// Unit is one aligned row or column across the parent (P), left (L) and right (R) table. An index
// of -1 means the unit is absent in that table.
type Unit struct {
	P, L, R int
}

// String formats the unit as a breadcrumb: "l:r" or "p|l:r" if the parent is set, with "-" for
// absent indices.
func (u Unit) String() string {
	var sb strings.Builder
	if u.P >= 0 {
		sb.WriteString(strconv.Itoa(u.P))
		sb.WriteByte('|')
	}
	sb.WriteString(crumb(u.L))
	sb.WriteByte(':')
	sb.WriteString(crumb(u.R))
	return sb.String()
}

func crumb(i int) string {
	if i < 0 {
		return "-"
	}
	return strconv.Itoa(i)
}

// ParseUnit parses a breadcrumb produced by Unit.String.
func ParseUnit(s string) (Unit, bool) {
	u := Unit{-1, -1, -1}
	if p, rest, ok := strings.Cut(s, "|"); ok {
		v, err := strconv.Atoi(p)
		if err != nil {
			return u, false
		}
		u.P = v
		s = rest
	}
	l, r, ok := strings.Cut(s, ":")
	if !ok {
		return u, false
	}
	var err error
	if u.L, err = parseCrumb(l); err != nil {
		return u, false
	}
	if u.R, err = parseCrumb(r); err != nil {
		return u, false
	}
	return u, true
}

func parseCrumb(s string) (int, error) {
	if s == "-" {
		return -1, nil
	}
	return strconv.Atoi(s)
}

// Ordering is a linearization of units.
type Ordering struct {
	units []Unit
}

// Add appends u. It panics if u doesn't reference any table.
func (o *Ordering) Add(u Unit) {
	if u.P < 0 && u.L < 0 && u.R < 0 {
		panic("unit must reference at least one table")
	}
	o.units = append(o.units, u)
}

func (o *Ordering) Units() []Unit { return o.units }
func (o *Ordering) Len() int { return len(o.units) }

// MoveUnits reports for every unit in o if it has been moved, i.e. if its left index is out of
// order with respect to the other units.
func MoveUnits(o *Ordering) []bool {
	return MoveUnitsFunc(o, func(u Unit) bool { return u.L >= 0 })
}

// MoveUnitsFunc is like MoveUnits but only considers units for which include returns true. Units
// that are not included are never reported as moved.
func MoveUnitsFunc(o *Ordering, include func(Unit) bool) []bool {
	var ls []int
	for _, u := range o.units {
		if u.L >= 0 && include(u) {
			ls = append(ls, u.L)
		}
	}
	src := slices.Clone(ls)
	slices.Sort(src)
	moved := make(map[int]bool)
	for _, l := range mover.Move(src, ls) {
		moved[l] = true
	}
	out := make([]bool, len(o.units))
	for i, u := range o.units {
		out[i] = u.L >= 0 && include(u) && moved[u.L]
	}
	return out
}
