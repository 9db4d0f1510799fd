package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/starql/starql"
)

func TestChunk_RowCopiesValues(t *testing.T) {
	chunk := NewChunk(2)
	chunk.SetValue(0, 0, starql.NewInt(1))
	chunk.SetValue(1, 0, starql.NewString("a"))
	chunk.SetCardinality(1)

	row := chunk.Row(0)
	chunk.SetValue(0, 0, starql.NewInt(99))

	assert.Equal(t, starql.NewInt(1), row[0])
	assert.Equal(t, starql.NewString("a"), row[1])
}

func TestChunk_ResetOnlyClearsCardinality(t *testing.T) {
	chunk := NewChunk(1)
	chunk.SetValue(0, 0, starql.NewInt(7))
	chunk.SetCardinality(1)

	chunk.Reset()
	assert.Equal(t, 0, chunk.Cardinality())
	assert.Equal(t, 1, chunk.ColumnCount())
}
