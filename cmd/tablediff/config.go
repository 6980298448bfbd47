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

package main

import (
	"os"

	"github.com/go-kit/kit/log"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"znkr.io/tablediff"
)

// fileConfig holds the settings that can be stored in a TOML config file. Unset values keep the
// library defaults.
type fileConfig struct {
	Context              *int     `toml:"context"`
	ColumnContext        *int     `toml:"column_context"`
	Unordered            bool     `toml:"unordered"`
	ShowUnchanged        bool     `toml:"show_unchanged"`
	ShowUnchangedColumns bool     `toml:"show_unchanged_columns"`
	ShowOrder            string   `toml:"show_order"`
	Header               *bool    `toml:"header"`
	Acts                 []string `toml:"acts"`
	Index                []string `toml:"index"`
	Prune                bool     `toml:"prune"`
}

// loadConfig reads the config file at path. An empty path yields the default config.
func loadConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %s", path)
	}
	return cfg, nil
}

// alignOptions returns the options that influence the alignment of two tables.
func (c *fileConfig) alignOptions(logger log.Logger) []tablediff.Option {
	opts := []tablediff.Option{tablediff.Logger(logger)}
	if len(c.Index) > 0 {
		opts = append(opts, tablediff.IndexColumns(c.Index...))
	}
	if c.Prune {
		opts = append(opts, tablediff.Prune())
	}
	return opts
}

// diffOptions returns the options for rendering a diff.
func (c *fileConfig) diffOptions(logger log.Logger) ([]tablediff.Option, error) {
	opts := c.alignOptions(logger)
	if c.Context != nil {
		opts = append(opts, tablediff.Context(*c.Context))
	}
	if c.ColumnContext != nil {
		opts = append(opts, tablediff.ColumnContext(*c.ColumnContext))
	}
	if c.Unordered {
		opts = append(opts, tablediff.Unordered())
	}
	if c.ShowUnchanged {
		opts = append(opts, tablediff.ShowUnchanged())
	}
	if c.ShowUnchangedColumns {
		opts = append(opts, tablediff.ShowUnchangedColumns())
	}
	if c.Header != nil {
		opts = append(opts, tablediff.AlwaysShowHeader(*c.Header))
	}
	switch c.ShowOrder {
	case "", "auto":
	case "always":
		opts = append(opts, tablediff.AlwaysShowOrder())
	case "never":
		opts = append(opts, tablediff.NeverShowOrder())
	default:
		return nil, newUsageError("show-order must be one of 'auto', 'always' or 'never'")
	}
	if len(c.Acts) > 0 {
		var acts []tablediff.Act
		for _, a := range c.Acts {
			switch a {
			case "insert":
				acts = append(acts, tablediff.Insert)
			case "update":
				acts = append(acts, tablediff.Update)
			case "delete":
				acts = append(acts, tablediff.Delete)
			default:
				return nil, newUsageError("unknown act " + a + ", must be one of 'insert', 'update' or 'delete'")
			}
		}
		opts = append(opts, tablediff.Acts(acts...))
	}
	return opts, nil
}
