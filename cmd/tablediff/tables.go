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
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"znkr.io/tablediff/arrowtable"
	"znkr.io/tablediff/csvdiff"
	"znkr.io/tablediff/table"
)

const stdio = "-"

func isParquet(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".parquet")
}

// readTable reads the table at path. "-" reads CSV from in.
func readTable(ctx context.Context, in io.Reader, path string) (*table.Grid[string], error) {
	if path == stdio {
		return csvdiff.Read(in)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var t *table.Grid[string]
	if isParquet(path) {
		t, err = arrowtable.ReadParquet(ctx, f)
	} else {
		t, err = csvdiff.Read(f)
	}
	return t, errors.Wrapf(err, "reading %s", path)
}

// writeTable writes t to path, or as CSV to out if path is empty or "-".
func writeTable(out io.Writer, path string, t table.Table[string]) (err error) {
	if path == "" || path == stdio {
		return csvdiff.Write(out, t)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if isParquet(path) {
		return errors.Wrapf(arrowtable.WriteParquet(f, t), "writing %s", path)
	}
	return errors.Wrapf(csvdiff.Write(f, t), "writing %s", path)
}
