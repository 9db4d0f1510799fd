package execution

import (
	"github.com/starql/starql"
)

// VectorSize is the standard vector width of the engine. A single Scan call
// fills at most this many rows.
const VectorSize = 2048

// Chunk is a columnar batch of engine values. Columns are preallocated to
// VectorSize rows; cardinality says how many of them are valid.
type Chunk struct {
	columns     [][]starql.Value
	cardinality int
}

func NewChunk(columnCount int) *Chunk {
	columns := make([][]starql.Value, columnCount)
	for i := range columns {
		columns[i] = make([]starql.Value, VectorSize)
	}
	return &Chunk{
		columns: columns,
	}
}

func (c *Chunk) ColumnCount() int {
	return len(c.columns)
}

func (c *Chunk) SetValue(column, row int, value starql.Value) {
	c.columns[column][row] = value
}

func (c *Chunk) Value(column, row int) starql.Value {
	return c.columns[column][row]
}

func (c *Chunk) SetCardinality(rows int) {
	c.cardinality = rows
}

func (c *Chunk) Cardinality() int {
	return c.cardinality
}

// Row copies row values out of the chunk in column order.
func (c *Chunk) Row(row int) []starql.Value {
	out := make([]starql.Value, len(c.columns))
	for i := range c.columns {
		out[i] = c.columns[i][row]
	}
	return out
}

func (c *Chunk) Reset() {
	c.cardinality = 0
}
