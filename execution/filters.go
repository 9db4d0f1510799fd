package execution

import (
	"fmt"

	"github.com/starql/starql"
)

type FilterOperator int

const (
	FilterEqual FilterOperator = iota
	FilterNotEqual
	FilterLess
	FilterLessEqual
	FilterGreater
	FilterGreaterEqual
)

func (op FilterOperator) String() string {
	switch op {
	case FilterEqual:
		return "="
	case FilterNotEqual:
		return "!="
	case FilterLess:
		return "<"
	case FilterLessEqual:
		return "<="
	case FilterGreater:
		return ">"
	case FilterGreaterEqual:
		return ">="
	}
	panic("impossible, operator switch bug")
}

// TableFilter is a predicate pushed down into a table function scan. The
// column index refers to the scan's output column order after projection.
type TableFilter struct {
	ColumnIndex int
	Operator    FilterOperator
	Value       starql.Value
}

func (f TableFilter) Matches(value starql.Value) bool {
	if value.Type.TypeID == starql.TypeIDNull {
		return false
	}
	comp := value.Compare(f.Value)
	switch f.Operator {
	case FilterEqual:
		return comp == 0
	case FilterNotEqual:
		return comp != 0
	case FilterLess:
		return comp < 0
	case FilterLessEqual:
		return comp <= 0
	case FilterGreater:
		return comp > 0
	case FilterGreaterEqual:
		return comp >= 0
	}
	return false
}

func (f TableFilter) String() string {
	return fmt.Sprintf("column(%d) %s %s", f.ColumnIndex, f.Operator, f.Value)
}
