package arrowscan

import (
	"fmt"
	"time"

	"github.com/apache/arrow/go/v13/arrow"
	"github.com/apache/arrow/go/v13/arrow/array"

	"github.com/starql/starql"
)

func typeFromArrow(dataType arrow.DataType) (starql.Type, error) {
	switch dataType.ID() {
	case arrow.NULL:
		return starql.Null, nil
	case arrow.BOOL:
		return starql.Boolean, nil
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64:
		return starql.Int, nil
	case arrow.FLOAT32, arrow.FLOAT64:
		return starql.Float, nil
	case arrow.STRING, arrow.LARGE_STRING:
		return starql.String, nil
	case arrow.TIMESTAMP:
		return starql.Time, nil
	case arrow.DURATION:
		return starql.Duration, nil
	}
	return starql.Type{}, fmt.Errorf("unsupported arrow type: %s", dataType)
}

func valueFromArrow(column arrow.Array, row int) (starql.Value, error) {
	if column.IsNull(row) {
		return starql.NewNull(), nil
	}

	switch typed := column.(type) {
	case *array.Boolean:
		return starql.NewBoolean(typed.Value(row)), nil
	case *array.Int8:
		return starql.NewInt(int64(typed.Value(row))), nil
	case *array.Int16:
		return starql.NewInt(int64(typed.Value(row))), nil
	case *array.Int32:
		return starql.NewInt(int64(typed.Value(row))), nil
	case *array.Int64:
		return starql.NewInt(typed.Value(row)), nil
	case *array.Float32:
		return starql.NewFloat(float64(typed.Value(row))), nil
	case *array.Float64:
		return starql.NewFloat(typed.Value(row)), nil
	case *array.String:
		return starql.NewString(typed.Value(row)), nil
	case *array.LargeString:
		return starql.NewString(typed.Value(row)), nil
	case *array.Timestamp:
		unit := typed.DataType().(*arrow.TimestampType).Unit
		return starql.NewTime(typed.Value(row).ToTime(unit)), nil
	case *array.Duration:
		unit := typed.DataType().(*arrow.DurationType).Unit
		return starql.NewDuration(time.Duration(typed.Value(row)) * unit.Multiplier()), nil
	}
	return starql.ZeroValue, fmt.Errorf("unsupported arrow array: %T", column)
}
