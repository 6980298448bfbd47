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

package index

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"znkr.io/tablediff/table"
)

func TestKey(t *testing.T) {
	tests := []struct {
		vals []string
		want string
	}{
		{nil, ""},
		{[]string{"a"}, "a"},
		{[]string{"a", "b"}, "a // b"},
		{[]string{"", "a", "null", "b", "undefined"}, "a // b"},
		{[]string{"", "null"}, ""},
	}
	for _, tt := range tests {
		if got := Key(tt.vals); got != tt.want {
			t.Errorf("Key(%q) = %q, want %q", tt.vals, got, tt.want)
		}
	}
}

func TestIndex(t *testing.T) {
	tbl := table.FromRows([][]string{
		{"id", "name"},
		{"1", "x"},
		{"2", "y"},
		{"1", "z"},
		{"", "w"},
	})
	x := New[string](tbl, table.StringView{}, []int{0})
	x.Build(1)

	if got := x.Height(); got != 4 {
		t.Errorf("Height() = %d, want 4", got)
	}
	if got := x.TopFreq(); got != 2 {
		t.Errorf("TopFreq() = %d, want 2", got)
	}
	if got := x.Keys(); got != 3 {
		t.Errorf("Keys() = %d, want 3", got)
	}
	if diff := cmp.Diff([]int{1, 3}, x.Lookup("1")); diff != "" {
		t.Errorf("Lookup(%q) result are different [-want,+got]:\n%s", "1", diff)
	}
	if got := x.Lookup("id"); got != nil {
		t.Errorf("Lookup(%q) = %v, the header row must not be indexed", "id", got)
	}
	if got := x.RowKey(0); got != "id" {
		t.Errorf("RowKey(0) = %q, want %q", got, "id")
	}
}

func TestPair(t *testing.T) {
	a := table.FromRows([][]string{
		{"id", "v"},
		{"1", "a"},
		{"2", "b"},
		{"3", "c"},
		{"3", "d"},
	})
	b := table.FromRows([][]string{
		{"v", "id"},
		{"a", "1"},
		{"b", "2"},
		{"c", "3"},
	})
	p := NewPair[string](a, b, table.StringView{}, []int{0}, []int{1})
	p.IndexTables(1, 1)

	if got, want := p.Quality(), 0.5; got != want {
		t.Errorf("Quality() = %v, want %v", got, want)
	}
	if got := p.TopFreq(); got != 2 {
		t.Errorf("TopFreq() = %d, want 2", got)
	}
	want := CrossMatch{SpotA: 2, SpotB: 1, ItemA: []int{3, 4}, ItemB: []int{3}}
	if diff := cmp.Diff(want, p.QueryLocal(3)); diff != "" {
		t.Errorf("QueryLocal(3) result are different [-want,+got]:\n%s", diff)
	}
	if diff := cmp.Diff(CrossMatch{}, p.QueryByKey("")); diff != "" {
		t.Errorf("QueryByKey(\"\") result are different [-want,+got]:\n%s", diff)
	}
}

func TestNewPairMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewPair(...) with different column counts didn't panic")
		}
	}()
	tbl := table.NewGrid[string](2, 2)
	NewPair[string](tbl, tbl, table.StringView{}, []int{0}, []int{0, 1})
}
