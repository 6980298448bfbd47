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

package seqmatch

import "math"

// myers finds a minimal edit script with the linear space variant of Myers' algorithm. The inputs
// handled here are the unmatched rows between two anchors, they are small enough that the cost
// limiting heuristics of a general purpose diff are not needed.
type myers[T any] struct {
	x, y []T
	eq   func(a, b T) bool

	// v-arrays for forwards and backwards iteration respectively. A v-array stores the furthest
	// reaching endpoint of a d-path in diagonal k in v[v0+k]. The endpoints only store the
	// s-coordinate since t = s - k.
	vf, vb []int
	v0     int

	// Result vectors, rx[s] is set if x[s] has no counterpart and ry[t] if y[t] has none.
	rx, ry []bool
}

func (m *myers[T]) init(x, y []T, eq func(a, b T) bool) {
	diagonals := len(x) + len(y)
	vlen := 2*diagonals + 3
	buf := make([]int, 2*vlen)
	m.x, m.y, m.eq = x, y, eq
	m.vf = buf[:vlen]
	m.vb = buf[vlen:]
	m.v0 = diagonals + 1
	m.rx, m.ry = makeResult(x, y)
}

// compare marks the unmatched elements of x[smin:smax] and y[tmin:tmax].
func (m *myers[T]) compare(smin, smax, tmin, tmax int) {
	for smin < smax && tmin < tmax && m.eq(m.x[smin], m.y[tmin]) {
		smin++
		tmin++
	}
	for smax > smin && tmax > tmin && m.eq(m.x[smax-1], m.y[tmax-1]) {
		smax--
		tmax--
	}
	switch {
	case smin == smax:
		for t := tmin; t < tmax; t++ {
			m.ry[t] = true
		}
	case tmin == tmax:
		for s := smin; s < smax; s++ {
			m.rx[s] = true
		}
	default:
		s0, s1, t0, t1 := m.split(smin, smax, tmin, tmax)
		m.compare(smin, s0, tmin, t0)
		m.compare(s1, smax, t1, tmax)
	}
}

// split finds the middle snake of an optimal path from (smin, tmin) to (smax, tmax).
//
// x[smin:smax] and y[tmin:tmax] must not have a common prefix or suffix and must not both be
// empty.
func (m *myers[T]) split(smin, smax, tmin, tmax int) (s0, s1, t0, t1 int) {
	N, M := smax-smin, tmax-tmin
	x, y, eq := m.x, m.y, m.eq
	vf, vb := m.vf, m.vb
	v0 := m.v0

	kmin, kmax := smin-tmax, smax-tmin
	fmid, bmid := smin-tmin, smax-tmax
	fmin, fmax := fmid, fmid
	bmin, bmax := bmid, bmid
	odd := (N-M)%2 != 0

	vf[v0+fmid] = smin
	vb[v0+bmid] = smax
	for d := 1; ; d++ {
		// Forwards.
		if fmin > kmin {
			fmin--
			vf[v0+fmin-1] = math.MinInt
		} else {
			fmin++
		}
		if fmax < kmax {
			fmax++
			vf[v0+fmax+1] = math.MinInt
		} else {
			fmax--
		}
		for k := fmin; k <= fmax; k += 2 {
			k0 := k + v0
			var s int
			if vf[k0-1] < vf[k0+1] {
				s = vf[k0+1]
			} else {
				s = vf[k0-1] + 1
			}
			t := s - k
			ss, tt := s, t
			for s < smax && t < tmax && eq(x[s], y[t]) {
				s++
				t++
			}
			vf[k0] = s
			if odd && bmin <= k && k <= bmax && s >= vb[k0] {
				return ss, s, tt, t
			}
		}

		// Backwards.
		if bmin > kmin {
			bmin--
			vb[v0+bmin-1] = math.MaxInt
		} else {
			bmin++
		}
		if bmax < kmax {
			bmax++
			vb[v0+bmax+1] = math.MaxInt
		} else {
			bmax--
		}
		for k := bmin; k <= bmax; k += 2 {
			k0 := k + v0
			var s int
			if vb[k0-1] < vb[k0+1] {
				s = vb[k0-1]
			} else {
				s = vb[k0+1] - 1
			}
			t := s - k
			ss, tt := s, t
			for s > smin && t > tmin && eq(x[s-1], y[t-1]) {
				s--
				t--
			}
			vb[k0] = s
			if !odd && fmin <= k && k <= fmax && s <= vf[v0+k] {
				return s, ss, t, tt
			}
		}
	}
}
