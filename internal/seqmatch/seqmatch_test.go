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

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func eq(a, b byte) bool { return a == b }

func lcs(x, y []byte) int {
	dp := make([][]int, len(x)+1)
	for i := range dp {
		dp[i] = make([]int, len(y)+1)
	}
	for i := len(x) - 1; i >= 0; i-- {
		for j := len(y) - 1; j >= 0; j-- {
			if x[i] == y[j] {
				dp[i][j] = dp[i+1][j+1] + 1
			} else {
				dp[i][j] = max(dp[i+1][j], dp[i][j+1])
			}
		}
	}
	return dp[0][0]
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name string
		x, y string
		want []Pair
	}{
		{"empty", "", "", nil},
		{"x-empty", "", "abc", nil},
		{"y-empty", "abc", "", nil},
		{"identical", "abc", "abc", []Pair{{0, 0}, {1, 1}, {2, 2}}},
		{"insert", "ac", "abc", []Pair{{0, 0}, {1, 2}}},
		{"delete", "abc", "ac", []Pair{{0, 0}, {2, 1}}},
		{"replace", "abc", "axc", []Pair{{0, 0}, {2, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rx, ry := Diff([]byte(tt.x), []byte(tt.y), eq)
			if diff := cmp.Diff(tt.want, Pairs(rx, ry)); diff != "" {
				t.Errorf("Pairs(Diff(%q, %q)) result are different [-want,+got]:\n%s", tt.x, tt.y, diff)
			}
		})
	}
}

func TestDiffMinimal(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	gen := func() []byte {
		b := make([]byte, rng.IntN(20))
		for i := range b {
			b[i] = "abc"[rng.IntN(3)]
		}
		return b
	}
	for range 500 {
		x, y := gen(), gen()
		rx, ry := Diff(x, y, eq)
		if len(rx) != len(x)+1 || len(ry) != len(y)+1 || rx[len(x)] || ry[len(y)] {
			t.Fatalf("Diff(%q, %q) returned malformed result vectors %v %v", x, y, rx, ry)
		}
		pairs := Pairs(rx, ry)
		for i, p := range pairs {
			if x[p.S] != y[p.T] {
				t.Fatalf("Diff(%q, %q) matched %c with %c", x, y, x[p.S], y[p.T])
			}
			if i > 0 && (p.S <= pairs[i-1].S || p.T <= pairs[i-1].T) {
				t.Fatalf("Diff(%q, %q) returned non-increasing pairs %v", x, y, pairs)
			}
		}
		if got, want := len(pairs), lcs(x, y); got != want {
			t.Fatalf("Diff(%q, %q) matched %d elements, want %d", x, y, got, want)
		}
	}
}

func TestBlocks(t *testing.T) {
	x, y := []byte("xabyc"), []byte("abzzc")
	rx, ry := Diff(x, y, eq)
	got := slices.Collect(Blocks(rx, ry))
	want := []Block{
		{S0: 0, S1: 1, T0: 0, T1: 0},
		{S0: 3, S1: 4, T0: 2, T1: 4},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Blocks(...) result are different [-want,+got]:\n%s", diff)
	}

	var sb strings.Builder
	for b := range Blocks(rx, ry) {
		sb.Write(x[b.S0:b.S1])
		break
	}
	if sb.String() != "x" {
		t.Errorf("first block of x is %q, want %q", sb.String(), "x")
	}
}
