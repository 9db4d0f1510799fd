package starconv

import (
	"fmt"
	"time"

	"github.com/apache/arrow/go/v13/arrow"
	"github.com/apache/arrow/go/v13/arrow/array"
	"github.com/apache/arrow/go/v13/arrow/memory"
	"github.com/pkg/errors"
	startime "go.starlark.net/lib/time"
	"go.starlark.net/starlark"
)

// ArrowTable is the Starlark-side handle to an externally produced columnar
// dataset. Scripts obtain one from the arrow_table builtin; the bridge
// recognizes it through AsArrowTable.
type ArrowTable struct {
	table arrow.Table
}

func NewArrowTable(table arrow.Table) *ArrowTable {
	return &ArrowTable{table: table}
}

func (t *ArrowTable) Table() arrow.Table {
	return t.table
}

func (t *ArrowTable) String() string {
	return fmt.Sprintf("arrow.table(%d columns, %d rows)", t.table.NumCols(), t.table.NumRows())
}

func (t *ArrowTable) Type() string          { return "arrow.table" }
func (t *ArrowTable) Freeze()               {}
func (t *ArrowTable) Truth() starlark.Bool  { return t.table.NumRows() > 0 }
func (t *ArrowTable) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: arrow.table") }

// AsArrowTable reports whether a foreign value is columnar-stream-compatible.
func AsArrowTable(value starlark.Value) (arrow.Table, bool) {
	if wrapper, ok := value.(*ArrowTable); ok {
		return wrapper.table, true
	}
	return nil, false
}

// TableBuiltin is the arrow_table(columns) builtin: columns is a dict from
// column name to a list of values. Column types are inferred from the first
// non-None element.
var TableBuiltin = starlark.NewBuiltin("arrow_table", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var columns *starlark.Dict
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "columns", &columns); err != nil {
		return nil, err
	}
	table, err := buildArrowTable(columns)
	if err != nil {
		return nil, err
	}
	return NewArrowTable(table), nil
})

func buildArrowTable(columns *starlark.Dict) (arrow.Table, error) {
	items := columns.Items()
	if len(items) == 0 {
		return nil, errors.Errorf("arrow_table requires at least one column")
	}

	fields := make([]arrow.Field, len(items))
	values := make([][]starlark.Value, len(items))
	rows := -1
	for i, item := range items {
		name, ok := starlark.AsString(item[0])
		if !ok {
			return nil, errors.Errorf("column name must be a string, got %s", item[0].Type())
		}
		iter := starlark.Iterate(item[1])
		if iter == nil {
			return nil, errors.Errorf("column %s must be iterable, got %s", name, item[1].Type())
		}
		var element starlark.Value
		for iter.Next(&element) {
			values[i] = append(values[i], element)
		}
		iter.Done()

		if rows == -1 {
			rows = len(values[i])
		} else if rows != len(values[i]) {
			return nil, errors.Errorf("column %s has %d values, expected %d", name, len(values[i]), rows)
		}

		dataType, err := inferArrowType(values[i])
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't infer type of column %s", name)
		}
		fields[i] = arrow.Field{Name: name, Type: dataType, Nullable: true}
	}

	schema := arrow.NewSchema(fields, nil)
	builder := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer builder.Release()

	for i := range fields {
		for _, value := range values[i] {
			if err := appendArrowValue(builder.Field(i), value); err != nil {
				return nil, errors.Wrapf(err, "couldn't append to column %s", fields[i].Name)
			}
		}
	}

	record := builder.NewRecord()
	defer record.Release()
	return array.NewTableFromRecords(schema, []arrow.Record{record}), nil
}

func inferArrowType(values []starlark.Value) (arrow.DataType, error) {
	for _, value := range values {
		switch value.(type) {
		case starlark.NoneType:
			continue
		case starlark.Bool:
			return arrow.FixedWidthTypes.Boolean, nil
		case starlark.Int:
			return arrow.PrimitiveTypes.Int64, nil
		case starlark.Float:
			return arrow.PrimitiveTypes.Float64, nil
		case starlark.String:
			return arrow.BinaryTypes.String, nil
		case startime.Time:
			return arrow.FixedWidthTypes.Timestamp_ns, nil
		default:
			return nil, errors.Errorf("unsupported column element type: %s", value.Type())
		}
	}
	// All nulls.
	return arrow.PrimitiveTypes.Int64, nil
}

func appendArrowValue(builder array.Builder, value starlark.Value) error {
	if value == starlark.None {
		builder.AppendNull()
		return nil
	}

	switch typed := builder.(type) {
	case *array.BooleanBuilder:
		boolValue, ok := value.(starlark.Bool)
		if !ok {
			return errors.Errorf("expected bool, got %s", value.Type())
		}
		typed.Append(bool(boolValue))
	case *array.Int64Builder:
		intValue, ok := value.(starlark.Int)
		if !ok {
			return errors.Errorf("expected int, got %s", value.Type())
		}
		i, ok := intValue.Int64()
		if !ok {
			return errors.Errorf("integer %s out of range", intValue)
		}
		typed.Append(i)
	case *array.Float64Builder:
		switch number := value.(type) {
		case starlark.Float:
			typed.Append(float64(number))
		case starlark.Int:
			i, ok := number.Int64()
			if !ok {
				return errors.Errorf("integer %s out of range", number)
			}
			typed.Append(float64(i))
		default:
			return errors.Errorf("expected float, got %s", value.Type())
		}
	case *array.StringBuilder:
		stringValue, ok := value.(starlark.String)
		if !ok {
			return errors.Errorf("expected string, got %s", value.Type())
		}
		typed.Append(string(stringValue))
	case *array.TimestampBuilder:
		timeValue, ok := value.(startime.Time)
		if !ok {
			return errors.Errorf("expected time, got %s", value.Type())
		}
		typed.Append(arrow.Timestamp(time.Time(timeValue).UnixNano()))
	default:
		return errors.Errorf("unsupported arrow builder: %T", builder)
	}
	return nil
}
