package eval

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paulmach/orb/encoding/wkb"
)

// geometryExtension is the extension name of WKB geometry columns.
const geometryExtension = "geoarrow.wkb"

// FilterRecord evaluates the program against every row of an Arrow record
// batch and returns the selection vector. Each column is a bin named after its
// field. Supported column types: signed and unsigned integers, (large) strings,
// lists and maps of those, and WKB geometry columns (field or extension named
// "geoarrow.wkb"). Nulls and columns of other types are absent bins.
//
// The caller owns the returned array and must Release it.
func FilterRecord(p *Program, rec arrow.RecordBatch, mem memory.Allocator) (*array.Boolean, error) {
	if p == nil {
		return nil, fmt.Errorf("eval: nil program")
	}
	if rec == nil {
		return nil, fmt.Errorf("eval: nil record batch")
	}
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	cols := make([]binColumn, 0, rec.NumCols())
	for i, f := range rec.Schema().Fields() {
		cols = append(cols, newBinColumn(f, rec.Column(i)))
	}

	b := array.NewBooleanBuilder(mem)
	defer b.Release()

	rows := int(rec.NumRows())
	b.Reserve(rows)
	r := Record{Bins: make(map[string]any, len(cols))}
	for row := 0; row < rows; row++ {
		clear(r.Bins)
		for _, c := range cols {
			if v, ok := c.value(row); ok {
				r.Bins[c.name] = v
			}
		}
		b.Append(p.Match(&r))
	}
	return b.NewBooleanArray(), nil
}

type binColumn struct {
	name string
	arr  arrow.Array
	wkb  bool
}

func newBinColumn(f arrow.Field, arr arrow.Array) binColumn {
	c := binColumn{name: f.Name, arr: arr}
	if ext, ok := arr.(array.ExtensionArray); ok {
		c.arr = ext.Storage()
		c.wkb = ext.ExtensionType().ExtensionName() == geometryExtension
	}
	if idx := f.Metadata.FindKey("ARROW:extension:name"); idx >= 0 {
		c.wkb = c.wkb || f.Metadata.Values()[idx] == geometryExtension
	}
	return c
}

func (c binColumn) value(row int) (any, bool) {
	return arrowValue(c.arr, row, c.wkb)
}

// arrowValue converts one cell to the Go value a bin of that type would hold.
func arrowValue(arr arrow.Array, i int, geometry bool) (any, bool) {
	if arr.IsNull(i) {
		return nil, false
	}
	switch a := arr.(type) {
	case *array.Int8:
		return int64(a.Value(i)), true
	case *array.Int16:
		return int64(a.Value(i)), true
	case *array.Int32:
		return int64(a.Value(i)), true
	case *array.Int64:
		return a.Value(i), true
	case *array.Uint8:
		return uint64(a.Value(i)), true
	case *array.Uint16:
		return uint64(a.Value(i)), true
	case *array.Uint32:
		return uint64(a.Value(i)), true
	case *array.Uint64:
		return a.Value(i), true
	case *array.String:
		return a.Value(i), true
	case *array.LargeString:
		return a.Value(i), true
	case *array.Binary:
		return wkbValue(a.Value(i), geometry)
	case *array.LargeBinary:
		return wkbValue(a.Value(i), geometry)
	case *array.Map:
		start, end := a.ValueOffsets(i)
		keys, items := a.Keys(), a.Items()
		m := make(map[any]any, end-start)
		for j := int(start); j < int(end); j++ {
			k, ok := arrowValue(keys, j, false)
			if !ok {
				continue
			}
			v, _ := arrowValue(items, j, false)
			m[k] = v
		}
		return m, true
	case *array.List:
		start, end := a.ValueOffsets(i)
		return listValues(a.ListValues(), int(start), int(end)), true
	case *array.LargeList:
		start, end := a.ValueOffsets(i)
		return listValues(a.ListValues(), int(start), int(end)), true
	default:
		return nil, false
	}
}

func wkbValue(data []byte, geometry bool) (any, bool) {
	if !geometry {
		return nil, false
	}
	g, err := wkb.Unmarshal(data)
	if err != nil {
		return nil, false
	}
	return g, true
}

func listValues(values arrow.Array, start, end int) []any {
	out := make([]any, 0, end-start)
	for j := start; j < end; j++ {
		v, _ := arrowValue(values, j, false)
		out = append(out, v)
	}
	return out
}
