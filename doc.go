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

// Package tablediff compares tables and applies the differences to other tables.
//
// [Diff] aligns the rows and columns of two tables, even if they were reordered, renamed, added or
// removed, and renders the result as a highlighted diff table. [Patch] is the inverse: it applies
// such a diff table to a source table. For any two tables a and b, patching a with Diff(a, b)
// reproduces b. [Diff3] compares two tables relative to a common ancestor and marks conflicting
// changes.
//
// Tables are accessed through the [table.Table] interface and their cells through a [table.View],
// so any cell type can be compared. Diff tables are always tables of strings.
//
// A diff table looks like this:
//
//	!   |     |        | (name)
//	@@  | id  | age    | full_name
//	->  | 1   | 30->31 | alice
//	... | ... | ...    | ...
//	+++ | 4   | 40     | dave
//
// The first column holds the action code of every row. The schema row ("!") describes added
// ("+++"), removed ("---"), renamed ("(old name)") and moved (":") columns, the header row ("@@")
// holds the column names. Updated cells are written as "old->new", the separator is chosen such
// that it doesn't occur in any of the compared tables. Unchanged rows and columns are elided
// ("...") unless they are close to a change.
//
// Note: For CSV input and output, please see [znkr.io/tablediff/csvdiff].
//
// [znkr.io/tablediff/csvdiff]: https://pkg.go.dev/znkr.io/tablediff/csvdiff
package tablediff
