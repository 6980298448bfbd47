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

package tablediff

import (
	"slices"

	"github.com/go-kit/kit/log"

	"znkr.io/tablediff/internal/config"
)

// Option configures the behavior of comparison functions.
type Option = config.Option

// Act is a set of changes, see [Acts].
type Act = config.Act

// Changes that can be selected with [Acts].
const (
	Insert = config.ActInsert
	Update = config.ActUpdate
	Delete = config.ActDelete
)

// Unordered ignores the order of rows. Rows that only changed their position are not reported.
// Patching with an unordered diff reproduces the right rows, but not necessarily their order.
func Unordered() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Ordered = false
		return config.Ordered
	}
}

// ShowUnchanged includes all unchanged rows in the diff.
func ShowUnchanged() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.ShowUnchanged = true
		return config.Context
	}
}

// Context sets the number of unchanged rows shown before and after a changed row. The default is
// 1.
func Context(n int) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Context = max(0, n)
		return config.Context
	}
}

// ShowUnchangedColumns includes all unchanged columns in the diff.
func ShowUnchangedColumns() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.ShowUnchangedColumns = true
		return config.ColumnContext
	}
}

// ColumnContext sets the number of unchanged columns shown next to a changed column. The default
// is 1. Columns named with [IndexColumns] are always shown if they were used to match rows.
func ColumnContext(n int) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.ColumnContext = max(0, n)
		return config.ColumnContext
	}
}

// AlwaysShowHeader controls if the diff of two equal tables consists of the header row (the
// default) or is empty.
func AlwaysShowHeader(show bool) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.AlwaysShowHeader = show
		return config.Header
	}
}

// AlwaysShowOrder adds a breadcrumb column with the row numbers of every row to the diff. By
// default, the column is only added if rows moved or if the shown columns can't tell all rows
// apart.
func AlwaysShowOrder() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.AlwaysShowOrder = true
		return config.Order
	}
}

// NeverShowOrder omits the breadcrumb column even if rows moved. Patches then locate all rows by
// content, which is ambiguous for duplicate rows: a patch may remove or update the wrong copy.
func NeverShowOrder() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.NeverShowOrder = true
		return config.Order
	}
}

// Acts restricts the diff to the given kinds of changes. Changes of other kinds are treated as if
// they didn't happen.
func Acts(acts ...Act) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Acts = 0
		for _, a := range acts {
			cfg.Acts |= a
		}
		return config.Acts
	}
}

// IndexColumns names columns that identify a row. They are tried first when matching rows.
func IndexColumns(names ...string) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.IndexColumns = slices.Clone(names)
		return config.IndexColumns
	}
}

// Prune links removed and added rows with identical content that the row matching missed.
func Prune() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Prune = true
		return config.Prune
	}
}

// Logger sets a logger for diagnostics. By default, nothing is logged.
func Logger(l log.Logger) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Logger = l
		return config.Logger
	}
}
