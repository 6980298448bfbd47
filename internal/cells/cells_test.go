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

package cells

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		null bool
		want string
	}{
		{"", true, "NULL"},
		{"", false, ""},
		{"x", false, "x"},
		{"NULL", false, "_NULL"},
		{"__NULL", false, "___NULL"},
		{"xNULL", false, "xNULL"},
		{"NULLx", false, "NULLx"},
	}
	for _, tt := range tests {
		got := Escape(tt.in, tt.null)
		if got != tt.want {
			t.Errorf("Escape(%q, %v) = %q, want %q", tt.in, tt.null, got, tt.want)
		}
		v, null := Unescape(got)
		if null != tt.null || (!null && v != tt.in) {
			t.Errorf("Unescape(%q) = %q, %v, want %q, %v", got, v, null, tt.in, tt.null)
		}
	}
}

func TestChooseSeparators(t *testing.T) {
	scan := func(strs ...string) func(func(string) bool) {
		return func(yield func(string) bool) {
			for _, s := range strs {
				if !yield(s) {
					return
				}
			}
		}
	}
	tests := []struct {
		name string
		strs []string
		want Separators
	}{
		{"plain", []string{"a", "b"}, Separators{"->", "!->"}},
		{"arrow", []string{"a->b"}, Separators{"-->", "!-->"}},
		{"arrows", []string{"->", "-->"}, Separators{"--->", "!--->"}},
		{"conflict", []string{"!->"}, Separators{"-->", "!-->"}},
		{"conflict-only", []string{"x!!->"}, Separators{"-->", "!-->"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChooseSeparators(scan(tt.strs...))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ChooseSeparators(%q) result are different [-want,+got]:\n%s", tt.strs, diff)
			}
		})
	}
}

func TestIsUpdate(t *testing.T) {
	for _, a := range []string{"->", "-->", ":->", "!->", "!!-->", ":!->"} {
		if !IsUpdate(a) {
			t.Errorf("IsUpdate(%q) = false, want true", a)
		}
	}
	for _, a := range []string{"", ">", "+++", "---", "@@", "!", ":", "...", "-x>"} {
		if IsUpdate(a) {
			t.Errorf("IsUpdate(%q) = true, want false", a)
		}
	}
}

func TestRowSeparators(t *testing.T) {
	tests := []struct {
		action string
		want   Separators
	}{
		{"->", Separators{"->", "!->"}},
		{":-->", Separators{"-->", "!-->"}},
		{"!!->", Separators{"->", "!!->"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, RowSeparators(tt.action)); diff != "" {
			t.Errorf("RowSeparators(%q) result are different [-want,+got]:\n%s", tt.action, diff)
		}
	}
}

func TestExamine(t *testing.T) {
	tests := []struct {
		raw, action string
		want        Info
	}{
		{
			raw:    "x",
			action: "",
			want:   Info{Value: "x", LValue: "x", RValue: "x"},
		},
		{
			raw:    "x",
			action: ":",
			want:   Info{Value: "x", LValue: "x", RValue: "x", Category: Move},
		},
		{
			raw:    "x",
			action: "->",
			want:   Info{Value: "x", LValue: "x", RValue: "x"},
		},
		{
			raw:    "a->b",
			action: "->",
			want:   Info{Value: "b", LValue: "a", RValue: "b", Category: Modify, Separator: "->", Updated: true},
		},
		{
			raw:    "a->NULL",
			action: ":->",
			want:   Info{Value: "", Null: true, LValue: "a", Category: Modify, Separator: "->", Updated: true},
		},
		{
			raw:    "a->b",
			action: "-->",
			want:   Info{Value: "a->b", LValue: "a->b", RValue: "a->b"},
		},
		{
			raw:    "a!->b!->c",
			action: "!->",
			want: Info{
				Value:      "a!->b!->c",
				Category:   Conflict,
				Separator:  "!->",
				Updated:    true,
				Conflicted: true,
				PValue:     "a",
				LValue:     "b",
				RValue:     "c",
			},
		},
		{
			raw:    "NULL",
			action: "+++",
			want:   Info{Null: true, Category: Add},
		},
		{
			raw:    "_NULL",
			action: "---",
			want:   Info{Value: "NULL", Category: Remove},
		},
		{
			raw:    "id",
			action: "@@",
			want:   Info{Value: "id", Category: Header},
		},
		{
			raw:    "+++",
			action: "!",
			want:   Info{Value: "+++", Category: Spec},
		},
	}
	for _, tt := range tests {
		got := Examine(tt.raw, tt.action)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Examine(%q, %q) result are different [-want,+got]:\n%s", tt.raw, tt.action, diff)
		}
	}
}

func TestRename(t *testing.T) {
	if got := Rename("old"); got != "(old)" {
		t.Errorf("Rename(%q) = %q, want %q", "old", got, "(old)")
	}
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"(old)", "old", true},
		{"()", "", true},
		{"(", "", false},
		{"old", "", false},
		{"+++", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseRename(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseRename(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCategoryString(t *testing.T) {
	var got []string
	for c := None; c <= Move; c++ {
		got = append(got, c.String())
	}
	want := []string{"None", "Add", "Remove", "Modify", "Conflict", "Spec", "Header", "Move"}
	if !slices.Equal(want, got) {
		t.Errorf("Category names = %q, want %q", got, want)
	}
	if got := Category(42).String(); got != "Category(42)" {
		t.Errorf("Category(42).String() = %q, want %q", got, "Category(42)")
	}
}
