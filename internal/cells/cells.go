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

// Package cells implements the string conventions of highlighted diff tables: action codes,
// separators, null escaping and the parsing of a single diff cell.
package cells

import (
	"strings"
)

//go:generate go tool golang.org/x/tools/cmd/stringer -type=Category

// Category classifies a cell of a diff table.
type Category int

const (
	None     Category = iota // Unchanged content.
	Add                      // Content of an added row or column.
	Remove                   // Content of a removed row or column.
	Modify                   // An updated cell.
	Conflict                 // A cell that was changed differently on both sides.
	Spec                     // A cell of the schema row.
	Header                   // A cell of the header row.
	Move                     // Unchanged content of a moved row.
)

// Action codes.
const (
	ActionNone   = ""
	ActionAdd    = "+++"
	ActionRemove = "---"
	ActionMove   = ":"
	ActionSchema = "!"
	ActionHeader = "@@"
	ActionElided = "..."

	// Corner marks a diff table with a leading breadcrumb column.
	Corner = "@:@"
)

// Null is the diff representation of a null cell.
const Null = "NULL"

const (
	nullEscape    = "_"
	updateArrow   = ">"
	updateDash    = "-"
	conflictPoint = "!"
)

// Rename formats the schema cell of a renamed column.
func Rename(old string) string { return "(" + old + ")" }

// ParseRename returns the old name of a renamed column.
func ParseRename(s string) (string, bool) {
	if len(s) >= 2 && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		return s[1 : len(s)-1], true
	}
	return "", false
}

// Separators are the separators used to encode updated and conflicting cells.
type Separators struct {
	Update   string // "->", "-->", ...
	Conflict string // "!->", "!!->", ...
}

// ChooseSeparators returns the shortest separators that don't occur in any string seen by scan.
// scan calls its argument for every string of the compared tables and stops early if it returns
// false.
func ChooseSeparators(scan func(yield func(string) bool)) Separators {
	found := func(sep string) bool {
		hit := false
		scan(func(s string) bool {
			hit = strings.Contains(s, sep)
			return !hit
		})
		return hit
	}
	update := updateDash + updateArrow
	for found(update) {
		update = updateDash + update
	}
	conflict := conflictPoint + update
	for found(conflict) {
		conflict = conflictPoint + conflict
	}
	return Separators{Update: update, Conflict: conflict}
}

// Escape encodes a cell for a diff table. Null cells become "NULL", a literal "NULL" (with any
// number of leading underscores) gets one more underscore.
func Escape(s string, null bool) string {
	if null {
		return Null
	}
	if isNullish(s) {
		return nullEscape + s
	}
	return s
}

// Unescape reverses Escape.
func Unescape(s string) (v string, null bool) {
	if s == Null {
		return "", true
	}
	if isNullish(s) {
		return s[len(nullEscape):], false
	}
	return s, false
}

func isNullish(s string) bool {
	return strings.HasSuffix(s, Null) && strings.Trim(s[:len(s)-len(Null)], nullEscape) == ""
}

// IsUpdate reports if action is the action code of an updated row, i.e. a (possibly move
// prefixed) update or conflict separator.
func IsUpdate(action string) bool {
	action = strings.TrimPrefix(action, ActionMove)
	action = strings.TrimLeft(action, conflictPoint)
	if !strings.HasSuffix(action, updateArrow) {
		return false
	}
	return len(action) > 1 && strings.Trim(action[:len(action)-1], updateDash) == ""
}

// RowSeparators derives the separators from the action code of an update row.
func RowSeparators(action string) Separators {
	action = strings.TrimPrefix(action, ActionMove)
	update := strings.TrimLeft(action, conflictPoint)
	if update == action {
		return Separators{Update: update, Conflict: conflictPoint + update}
	}
	return Separators{Update: update, Conflict: action}
}

// Info is the parsed form of a diff cell.
type Info struct {
	// Value is the value of the cell after applying the change. For conflicts it is the raw cell
	// text.
	Value string

	// Null reports if Value represents a null cell.
	Null bool

	Category  Category
	Separator string

	Updated    bool
	Conflicted bool

	// LValue, RValue and PValue are the left, right and parent values of an updated or
	// conflicting cell.
	LValue, RValue, PValue string
}

// Examine parses the cell raw of a diff row with the given action code.
func Examine(raw, action string) Info {
	info := Info{}
	switch strings.TrimPrefix(action, ActionMove) {
	case ActionHeader:
		info.Category = Header
	case ActionSchema:
		info.Category = Spec
	case ActionAdd:
		info.Category = Add
	case ActionRemove:
		info.Category = Remove
	}
	if info.Category != None {
		info.Value, info.Null = Unescape(raw)
		return info
	}

	if IsUpdate(action) {
		seps := RowSeparators(action)
		if parts := strings.Split(raw, seps.Conflict); len(parts) == 3 {
			info.Category = Conflict
			info.Separator = seps.Conflict
			info.Updated = true
			info.Conflicted = true
			info.PValue, _ = Unescape(parts[0])
			info.LValue, _ = Unescape(parts[1])
			info.RValue, _ = Unescape(parts[2])
			info.Value = raw
			return info
		}
		if l, r, ok := strings.Cut(raw, seps.Update); ok {
			info.Category = Modify
			info.Separator = seps.Update
			info.Updated = true
			info.LValue, _ = Unescape(l)
			info.RValue, info.Null = Unescape(r)
			info.Value = info.RValue
			return info
		}
	}

	info.Value, info.Null = Unescape(raw)
	info.LValue, info.RValue = info.Value, info.Value
	if strings.HasPrefix(action, ActionMove) {
		info.Category = Move
	}
	return info
}

// Join encodes an update of l to r.
func (s Separators) Join(l, r string) string {
	return l + s.Update + r
}

// JoinConflict encodes a conflicting change from p to l and r.
func (s Separators) JoinConflict(p, l, r string) string {
	return p + s.Conflict + l + s.Conflict + r
}
