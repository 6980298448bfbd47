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

// Package csvdiff compares and patches CSV documents.
package csvdiff

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"

	"znkr.io/tablediff"
	"znkr.io/tablediff/table"
)

// Read parses a CSV document into a table. Rows of differing lengths are padded with empty cells.
func Read(r io.Reader) (*table.Grid[string], error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading csv")
	}
	return table.FromRows(rows), nil
}

// Parse parses the CSV document s into a table.
func Parse(s string) (*table.Grid[string], error) {
	return Read(strings.NewReader(s))
}

// Write writes t as a CSV document.
func Write(w io.Writer, t table.Table[string]) error {
	cw := csv.NewWriter(w)
	row := make([]string, t.Width())
	for r := range t.Height() {
		for c := range row {
			row[c] = t.Get(c, r)
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "writing row %d", r)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "writing csv")
}

// Format returns t as a CSV document.
func Format(t table.Table[string]) (string, error) {
	var b bytes.Buffer
	if err := Write(&b, t); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Diff compares the CSV documents a and b and returns the highlighted diff as a CSV document.
//
// All options of [tablediff.Diff] are supported.
//
// Important: The output is not guaranteed to be stable and may change with minor version upgrades.
// DO NOT rely on the output being stable.
func Diff(a, b string, opts ...tablediff.Option) (string, error) {
	ts, err := parseAll(a, b)
	if err != nil {
		return "", err
	}
	d, err := tablediff.Diff[string](ts[0], ts[1], table.StringView{}, opts...)
	if err != nil {
		return "", err
	}
	return Format(d)
}

// Diff3 compares the CSV documents a and b relative to their common ancestor p, see
// [tablediff.Diff3].
func Diff3(p, a, b string, opts ...tablediff.Option) (string, error) {
	ts, err := parseAll(p, a, b)
	if err != nil {
		return "", err
	}
	d, err := tablediff.Diff3[string](ts[0], ts[1], ts[2], table.StringView{}, opts...)
	if err != nil {
		return "", err
	}
	return Format(d)
}

// Patch applies the CSV diff to the CSV document src and returns the patched document.
//
// The following options are supported: [tablediff.Logger]
func Patch(src, diff string, opts ...tablediff.Option) (string, tablediff.PatchResult, error) {
	ts, err := parseAll(src, diff)
	if err != nil {
		return "", tablediff.PatchResult{}, err
	}
	res, err := tablediff.Patch[string](ts[0], table.StringView{}, ts[1], opts...)
	if err != nil {
		return "", res, err
	}
	out, err := Format(ts[0])
	return out, res, err
}

func parseAll(docs ...string) ([]*table.Grid[string], error) {
	ts := make([]*table.Grid[string], len(docs))
	for i, doc := range docs {
		t, err := Parse(doc)
		if err != nil {
			return nil, errors.Wrapf(err, "document %d", i+1)
		}
		ts[i] = t
	}
	return ts, nil
}
