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

import "fmt"

// StringView is the view for tables of plain strings. Strings are never null.
type StringView struct{}

func (StringView) Equals(a, b string) bool { return a == b }
func (StringView) String(v string) string { return v }
func (StringView) Datum(s string) string { return s }
func (StringView) IsNull(v string) bool { return false }

// AnyView is the view for tables of arbitrary scalar values. A nil cell is null. Cells compare
// equal if their string representations are equal, Datum always produces strings.
type AnyView struct{}

func (v AnyView) Equals(a, b any) bool {
	return v.String(a) == v.String(b)
}

func (AnyView) String(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func (AnyView) Datum(s string) any { return s }
func (AnyView) IsNull(v any) bool { return v == nil }
