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

// Package config provides shared configuration mechanisms for packages this module.
//
// This package is an implementation detail, the configuration surface for users is provided via
// tablediff.Option.
package config

import (
	"fmt"
	"strings"

	"github.com/go-kit/kit/log"
)

// Act is a set of row or column level actions.
type Act uint8

const (
	ActInsert Act = 1 << iota
	ActUpdate
	ActDelete

	ActAll = ActInsert | ActUpdate | ActDelete
)

func (a Act) String() string {
	if a == 0 {
		return "none"
	}
	var parts []string
	if a&ActInsert != 0 {
		parts = append(parts, "insert")
	}
	if a&ActUpdate != 0 {
		parts = append(parts, "update")
	}
	if a&ActDelete != 0 {
		parts = append(parts, "delete")
	}
	if rest := a &^ ActAll; rest != 0 {
		parts = append(parts, fmt.Sprint(uint8(rest)))
	}
	return strings.Join(parts, "|")
}

// Config collects all configurable parameters for comparison functions in this module.
type Config struct {
	// Ordered makes row order significant. Rows that changed position are reported as moves.
	Ordered bool

	// ShowUnchanged includes all unchanged rows in the output.
	ShowUnchanged bool

	// Context is the number of unchanged rows shown around a change.
	Context int

	// ShowUnchangedColumns includes all unchanged columns in the output.
	ShowUnchangedColumns bool

	// ColumnContext is the number of unchanged columns shown around a change.
	ColumnContext int

	// AlwaysShowHeader emits the header row even if nothing changed.
	AlwaysShowHeader bool

	// AlwaysShowOrder and NeverShowOrder control the row breadcrumb column. By default, it is only
	// emitted when rows moved or when rows can't be told apart by content.
	AlwaysShowOrder bool
	NeverShowOrder  bool

	// Acts restricts which changes are reported. ActAll reports everything.
	Acts Act

	// IndexColumns names columns that are tried first as a key for row matching.
	IndexColumns []string

	// Prune collapses remove/add pairs with identical content into unchanged rows.
	Prune bool

	// Logger receives diagnostics, e.g. when the ordering merge gives up.
	Logger log.Logger
}

// Default is the default configuration.
var Default = Config{
	Ordered:              true,
	ShowUnchanged:        false,
	Context:              1,
	ShowUnchangedColumns: false,
	ColumnContext:        1,
	AlwaysShowHeader:     true,
	AlwaysShowOrder:      false,
	NeverShowOrder:       false,
	Acts:                 ActAll,
	IndexColumns:         nil,
	Prune:                false,
	Logger:               log.NewNopLogger(),
}

// Flag describes a single config entry. This is used to detect if configurations are being set
// that are not supported by a function.
type Flag int

const (
	Ordered Flag = 1 << iota
	Context
	ColumnContext
	Header
	Order
	Acts
	IndexColumns
	Prune
	Logger

	// Compare are the flags that influence alignment.
	Compare = IndexColumns | Prune | Logger
)

// Option is the mechanism used to expose the configuration to users.
type Option func(*Config) Flag

// FromOptions creates a configuration from a set of options.
func FromOptions(opts []Option, allowed Flag) Config {
	cfg := Default
	for _, opt := range opts {
		flag := opt(&cfg)
		if flag & ^allowed != 0 {
			panic("Option " + printFlag(flag) + " not allowed here")
		}
	}
	if cfg.AlwaysShowOrder && cfg.NeverShowOrder {
		panic("tablediff.AlwaysShowOrder and tablediff.NeverShowOrder are mutually exclusive")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNopLogger()
	}
	return cfg
}

// Allows reports if act is enabled in the configuration.
func (c *Config) Allows(act Act) bool {
	return c.Acts&act != 0
}

func printFlag(flag Flag) string {
	switch flag {
	case Ordered:
		return "tablediff.Unordered"
	case Context:
		return "tablediff.Context"
	case ColumnContext:
		return "tablediff.ColumnContext"
	case Header:
		return "tablediff.AlwaysShowHeader"
	case Order:
		return "tablediff.ShowOrder"
	case Acts:
		return "tablediff.Acts"
	case IndexColumns:
		return "tablediff.IndexColumns"
	case Prune:
		return "tablediff.Prune"
	case Logger:
		return "tablediff.Logger"
	default:
		panic("never reached")
	}
}
