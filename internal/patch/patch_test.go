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

package patch

import (
	"bytes"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"znkr.io/tablediff/table"
)

func TestArrange(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		entries   []entry
		wantFate  []int
		wantSize  int
		wantTargs []int
	}{
		{
			name:      "identity",
			n:         3,
			entries:   []entry{{src: 0}, {src: 1}, {src: 2}},
			wantFate:  []int{0, 1, 2},
			wantSize:  3,
			wantTargs: []int{0, 1, 2},
		},
		{
			name:      "marker",
			n:         4,
			entries:   []entry{{src: 0}, {src: -1, marker: true}, {src: 3}},
			wantFate:  []int{0, 1, 2, 3},
			wantSize:  4,
			wantTargs: []int{0, -1, 3},
		},
		{
			name:      "no-marker",
			n:         3,
			entries:   []entry{{src: 0}, {src: 2}},
			wantFate:  []int{0, 1, 2},
			wantSize:  3,
			wantTargs: []int{0, 2},
		},
		{
			name:      "add-and-delete",
			n:         2,
			entries:   []entry{{src: 0}, {src: -1, add: true}, {src: 1, del: true}},
			wantFate:  []int{0, -1},
			wantSize:  2,
			wantTargs: []int{0, 1, -1},
		},
		{
			name:      "moved",
			n:         3,
			entries:   []entry{{src: 2, moved: true}, {src: 0}, {src: 1}},
			wantFate:  []int{1, 2, 0},
			wantSize:  3,
			wantTargs: []int{0, 1, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fate, size, targets := arrange(tt.n, tt.entries)
			if diff := cmp.Diff(tt.wantFate, fate); diff != "" {
				t.Errorf("arrange(...) fate is different [-want,+got]:\n%s", diff)
			}
			if size != tt.wantSize {
				t.Errorf("arrange(...) size = %d, want %d", size, tt.wantSize)
			}
			if diff := cmp.Diff(tt.wantTargs, targets); diff != "" {
				t.Errorf("arrange(...) targets are different [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		src  [][]string
		diff [][]string
		want [][]string
		res  Result
	}{
		{
			name: "update",
			src:  [][]string{{"id", "v"}, {"1", "a"}, {"2", "b"}},
			diff: [][]string{{"@@", "id", "v"}, {"->", "2", "b->x"}},
			want: [][]string{{"id", "v"}, {"1", "a"}, {"2", "x"}},
			res:  Result{Rows: 3, Columns: 2},
		},
		{
			name: "insert-and-delete",
			src:  [][]string{{"id", "v"}, {"1", "a"}, {"2", "b"}, {"3", "c"}},
			diff: [][]string{
				{"@@", "id", "v"},
				{"---", "1", "a"},
				{"", "2", "b"},
				{"+++", "4", "d"},
				{"...", "...", "..."},
			},
			want: [][]string{{"id", "v"}, {"2", "b"}, {"4", "d"}, {"3", "c"}},
			res:  Result{Rows: 4, Columns: 2},
		},
		{
			name: "breadcrumbs",
			src:  [][]string{{"id"}, {"1"}, {"2"}, {"3"}},
			diff: [][]string{
				{"@:@", "@@", "id"},
				{"3:1", ":", "3"},
				{"1:2", "", "1"},
				{"...", "...", "..."},
			},
			want: [][]string{{"id"}, {"3"}, {"1"}, {"2"}},
			res:  Result{Rows: 4, Columns: 1},
		},
		{
			name: "columns",
			src:  [][]string{{"id", "name", "old"}, {"1", "x", "o"}},
			diff: [][]string{
				{"!", "", "(name)", "---", "+++"},
				{"@@", "id", "label", "old", "new"},
				{"", "1", "x", "o", "n"},
			},
			want: [][]string{{"id", "label", "new"}, {"1", "x", "n"}},
			res:  Result{Rows: 2, Columns: 3},
		},
		{
			name: "null",
			src:  [][]string{{"id", "v"}, {"1", "NULL"}},
			diff: [][]string{{"@@", "id", "v"}, {"->", "1", "_NULL->NULL"}},
			want: [][]string{{"id", "v"}, {"1", ""}},
			res:  Result{Rows: 2, Columns: 2},
		},
		{
			name: "conflict",
			src:  [][]string{{"id", "v"}, {"1", "b"}},
			diff: [][]string{{"@@", "id", "v"}, {"!->", "1", "a!->b!->c"}},
			want: [][]string{{"id", "v"}, {"1", "a!->b!->c"}},
			res:  Result{Rows: 2, Columns: 2, Conflicts: 1},
		},
		{
			name: "skipped",
			src:  [][]string{{"id", "v"}, {"1", "a"}},
			diff: [][]string{{"@@", "id", "v"}, {"->", "9", "z->y"}},
			want: [][]string{{"id", "v"}, {"1", "a"}},
			res:  Result{Rows: 2, Columns: 2, Skipped: []int{1}},
		},
		{
			name: "empty-source",
			src:  [][]string{},
			diff: [][]string{{"@@", "id"}, {"+++", "1"}},
			want: [][]string{{"id"}, {"1"}},
			res:  Result{Rows: 2, Columns: 1},
		},
		{
			name: "empty-diff",
			src:  [][]string{{"id"}, {"1"}},
			diff: [][]string{},
			want: [][]string{{"id"}, {"1"}},
			res:  Result{Rows: 2, Columns: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := table.FromRows(tt.src)
			res, err := Apply[string](src, table.StringView{}, table.FromRows(tt.diff), nil)
			if err != nil {
				t.Fatalf("Apply(...) failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, src.Rows()); diff != "" {
				t.Errorf("Apply(...) table is different [-want,+got]:\n%s", diff)
			}
			if diff := cmp.Diff(tt.res, res); diff != "" {
				t.Errorf("Apply(...) result is different [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestApplyMalformed(t *testing.T) {
	for _, d := range [][][]string{
		{{"@:@"}},
		{{"->", "1", "a->b"}},
	} {
		src := table.FromRows([][]string{{"id"}, {"1"}})
		_, err := Apply[string](src, table.StringView{}, table.FromRows(d), nil)
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("Apply(..., %q) returned %v, want ErrMalformed", d, err)
		}
	}
}

func TestApplyFrozen(t *testing.T) {
	src := table.FromRows([][]string{{"id", "v"}, {"1", "a"}})
	src.Freeze()

	_, err := Apply[string](src, table.StringView{}, table.FromRows([][]string{{"@@", "id", "v"}, {"->", "1", "a->b"}}), nil)
	if err != nil {
		t.Fatalf("Apply(...) of a shape preserving diff failed: %v", err)
	}
	if got := src.Get(1, 1); got != "b" {
		t.Errorf("Get(1, 1) = %q, want %q", got, "b")
	}

	_, err = Apply[string](src, table.StringView{}, table.FromRows([][]string{{"@@", "id", "v"}, {"+++", "2", "c"}}), nil)
	if !errors.Is(err, table.ErrNotResizable) {
		t.Errorf("Apply(...) of an insertion returned %v, want ErrNotResizable", err)
	}
}

func TestApplyLogsSkippedRows(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogfmtLogger(&buf)
	src := table.FromRows([][]string{{"id", "v"}, {"1", "a"}})
	diff := table.FromRows([][]string{{"@@", "id", "v"}, {"---", "2", "b"}})
	if _, err := Apply[string](src, table.StringView{}, diff, logger); err != nil {
		t.Fatalf("Apply(...) failed: %v", err)
	}
	want := "msg=\"skipping diff row without source row\" row=1 action=---\n"
	if got := buf.String(); got != want {
		t.Errorf("Apply(...) logged %q, want %q", got, want)
	}
}
