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

// Package arrowtable converts between Apache Arrow tables and string grids and reads and writes
// Parquet files.
//
// Grids carry the column names in their first row. Arrow nulls are converted to empty cells.
package arrowtable

import (
	"context"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/pkg/errors"

	"znkr.io/tablediff/table"
)

// FromArrow converts tbl into a grid. The first row of the grid holds the field names.
func FromArrow(tbl arrow.Table) *table.Grid[string] {
	w, h := int(tbl.NumCols()), int(tbl.NumRows())
	g := table.NewGrid[string](w, h+1)
	for c := range w {
		g.Set(c, 0, tbl.Schema().Field(c).Name)
		r := 1
		for _, chunk := range tbl.Column(c).Data().Chunks() {
			for i := range chunk.Len() {
				if !chunk.IsNull(i) {
					g.Set(c, r, chunk.ValueStr(i))
				}
				r++
			}
		}
	}
	return g
}

// ToArrow converts t into an arrow table of nullable string columns. The first row of t holds the
// field names. The caller must release the result.
func ToArrow(t table.Table[string], mem memory.Allocator) arrow.Table {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	if t.Height() == 0 {
		return array.NewTable(arrow.NewSchema(nil, nil), nil, 0)
	}
	fields := make([]arrow.Field, t.Width())
	for c := range fields {
		fields[c] = arrow.Field{Name: t.Get(c, 0), Type: arrow.BinaryTypes.String, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	cols := make([]arrow.Column, t.Width())
	for c := range cols {
		b := array.NewStringBuilder(mem)
		b.Reserve(t.Height() - 1)
		for r := 1; r < t.Height(); r++ {
			b.Append(t.Get(c, r))
		}
		arr := b.NewArray()
		b.Release()
		chunked := arrow.NewChunked(arrow.BinaryTypes.String, []arrow.Array{arr})
		arr.Release()
		cols[c] = *arrow.NewColumn(fields[c], chunked)
		chunked.Release()
	}
	tbl := array.NewTable(schema, cols, int64(t.Height()-1))
	for i := range cols {
		cols[i].Release()
	}
	return tbl
}

// ReadParquet reads a Parquet file into a grid.
func ReadParquet(ctx context.Context, r parquet.ReaderAtSeeker) (*table.Grid[string], error) {
	pf, err := file.NewParquetReader(r, file.WithReadProps(&parquet.ReaderProperties{}))
	if err != nil {
		return nil, errors.Wrap(err, "opening parquet file")
	}
	defer pf.Close()

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, errors.Wrap(err, "creating arrow reader")
	}
	tbl, err := fr.ReadTable(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "reading parquet data")
	}
	defer tbl.Release()
	return FromArrow(tbl), nil
}

// WriteParquet writes t as a Snappy compressed Parquet file. w is not closed,
// even when it implements io.Closer.
func WriteParquet(w io.Writer, t table.Table[string]) error {
	tbl := ToArrow(t, nil)
	defer tbl.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	// The Parquet writer closes its sink if it can.
	sink := struct{ io.Writer }{w}
	fw, err := pqarrow.NewFileWriter(tbl.Schema(), sink, props, arrowProps)
	if err != nil {
		return errors.Wrap(err, "creating parquet writer")
	}
	if err := fw.WriteTable(tbl, max(tbl.NumRows(), 1)); err != nil {
		fw.Close()
		return errors.Wrap(err, "writing parquet data")
	}
	return errors.Wrap(fw.Close(), "closing parquet writer")
}
