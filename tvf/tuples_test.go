package tvf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"

	"github.com/starql/starql"
	"github.com/starql/starql/execution"
)

func TestTuples_YieldsRowsInOrder(t *testing.T) {
	qctx := newTestContext()

	callable := callableOf("gen", func(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		return starlark.NewList([]starlark.Value{
			starlark.Tuple{starlark.MakeInt(1)},
			starlark.Tuple{starlark.MakeInt(2)},
			starlark.Tuple{starlark.MakeInt(3)},
		}), nil
	})
	fn, err := New(qctx.Session, "gen", callable, nil, pairsSchema([2]string{"a", "INTEGER"}), "tuples")
	require.NoError(t, err)

	schema, rows, err := runFunction(qctx, fn, nil, nil, nil)
	require.NoError(t, err)

	require.Len(t, schema.Fields, 1)
	assert.Equal(t, "a", schema.Fields[0].Name)
	assert.Equal(t, starql.Int, schema.Fields[0].Type)

	require.Len(t, rows, 3)
	for i, want := range []int64{1, 2, 3} {
		assert.Equal(t, starql.NewInt(want), rows[i][0])
	}
}

func TestTuples_BatchCapAndOrderAcrossBatches(t *testing.T) {
	qctx := newTestContext()

	total := execution.VectorSize + 7
	fn, err := New(qctx.Session, "gen", intRows(total), nil, pairsSchema([2]string{"i", "INTEGER"}), "tuples")
	require.NoError(t, err)

	var batchSizes []int
	var rows []starql.Value
	err = execution.Execute(qctx, fn, nil, nil, nil, func(schema execution.Schema, chunk *execution.Chunk) error {
		batchSizes = append(batchSizes, chunk.Cardinality())
		for row := 0; row < chunk.Cardinality(); row++ {
			rows = append(rows, chunk.Value(0, row))
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []int{execution.VectorSize, 7}, batchSizes)
	require.Len(t, rows, total)
	for i := range rows {
		assert.Equal(t, starql.NewInt(int64(i)), rows[i])
	}
}

func TestTuples_ExhaustionIsIdempotent(t *testing.T) {
	qctx := newTestContext()

	fn, err := New(qctx.Session, "gen", intRows(3), nil, pairsSchema([2]string{"i", "INTEGER"}), "tuples")
	require.NoError(t, err)

	bindData, schema, err := fn.Bind(qctx, execution.BindInput{})
	require.NoError(t, err)
	globalState, err := fn.InitGlobal(qctx, execution.InitInput{BindData: bindData})
	require.NoError(t, err)

	input := execution.FunctionInput{BindData: bindData, GlobalState: globalState}
	chunk := execution.NewChunk(len(schema.Fields))

	require.NoError(t, fn.Scan(qctx, input, chunk))
	assert.Equal(t, 3, chunk.Cardinality())

	// Exhausted; every further scan must stay at zero rows without error.
	for i := 0; i < 3; i++ {
		chunk.Reset()
		require.NoError(t, fn.Scan(qctx, input, chunk))
		assert.Equal(t, 0, chunk.Cardinality())
	}

	require.NoError(t, globalState.Close())
	require.NoError(t, globalState.Close())
	require.NoError(t, bindData.(*BindData).Close())
}

func TestTuples_NullResult(t *testing.T) {
	qctx := newTestContext()

	callable := callableOf("gen", func(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		return starlark.None, nil
	})
	fn, err := New(qctx.Session, "gen", callable, nil, pairsSchema([2]string{"a", "INTEGER"}), "tuples")
	require.NoError(t, err)

	_, rows, err := runFunction(qctx, fn, nil, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNullResult), "expected ErrNullResult, got %v", err)
	assert.Empty(t, rows)
}

func TestTuples_NotIterable(t *testing.T) {
	qctx := newTestContext()

	callable := callableOf("gen", func(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		return starlark.MakeInt(42), nil
	})
	fn, err := New(qctx.Session, "gen", callable, nil, pairsSchema([2]string{"a", "INTEGER"}), "tuples")
	require.NoError(t, err)

	_, _, err = runFunction(qctx, fn, nil, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotIterable), "expected ErrNotIterable, got %v", err)
}

func TestTuples_InvalidRow(t *testing.T) {
	tests := []struct {
		name string
		rows []starlark.Value
	}{
		{
			name: "row not indexable",
			rows: []starlark.Value{starlark.MakeInt(1)},
		},
		{
			name: "row too short",
			rows: []starlark.Value{starlark.Tuple{}},
		},
		{
			name: "conversion failure",
			rows: []starlark.Value{starlark.Tuple{starlark.String("not a number")}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qctx := newTestContext()
			callable := callableOf("gen", func(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
				return starlark.NewList(tt.rows), nil
			})
			fn, err := New(qctx.Session, "gen", callable, nil, pairsSchema([2]string{"a", "INTEGER"}), "tuples")
			require.NoError(t, err)

			_, _, err = runFunction(qctx, fn, nil, nil, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRow), "expected ErrInvalidRow, got %v", err)
			assert.Contains(t, err.Error(), "gen")
		})
	}
}

func TestTuples_ArgumentsReachTheCallable(t *testing.T) {
	qctx := newTestContext()

	callable := callableOf("gen", func(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var n int
		var prefix string
		if err := starlark.UnpackArgs("gen", args, kwargs, "n", &n, "prefix", &prefix); err != nil {
			return nil, err
		}
		rows := make([]starlark.Value, n)
		for i := 0; i < n; i++ {
			rows[i] = starlark.Tuple{starlark.String(prefix), starlark.MakeInt(i)}
		}
		return starlark.NewList(rows), nil
	})
	fn, err := New(qctx.Session, "gen", callable, []string{"prefix"},
		pairsSchema([2]string{"name", "VARCHAR"}, [2]string{"i", "BIGINT"}), "tuples")
	require.NoError(t, err)

	_, rows, err := runFunction(qctx, fn,
		[]starql.Value{starql.NewInt(2)},
		map[string]starql.Value{"prefix": starql.NewString("row")},
		nil)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, starql.NewString("row"), rows[0][0])
	assert.Equal(t, starql.NewInt(0), rows[0][1])
	assert.Equal(t, starql.NewInt(1), rows[1][1])
}

func TestBind_DisablesProgressReporting(t *testing.T) {
	qctx := newTestContext()

	fn, err := New(qctx.Session, "gen", intRows(1), nil, pairsSchema([2]string{"a", "INTEGER"}), "tuples")
	require.NoError(t, err)

	require.True(t, qctx.Config.EnableProgressBar)
	bindData, _, err := fn.Bind(qctx, execution.BindInput{})
	require.NoError(t, err)
	defer bindData.(*BindData).Close()

	assert.False(t, qctx.Config.EnableProgressBar)
	assert.Contains(t, qctx.Config.ProgressBarDisableReason, "progress reporting")
}

func TestBind_MissingInfo(t *testing.T) {
	qctx := newTestContext()

	fn, err := New(qctx.Session, "gen", intRows(1), nil, pairsSchema([2]string{"a", "INTEGER"}), "tuples")
	require.NoError(t, err)
	fn.Info = nil

	_, _, err = fn.Bind(qctx, execution.BindInput{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingInfo), "expected ErrMissingInfo, got %v", err)
}

func TestTuples_CallableErrorPropagates(t *testing.T) {
	qctx := newTestContext()

	failing := callableOf("gen", func(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		return nil, errors.New("boom")
	})
	fn, err := New(qctx.Session, "gen", failing, nil, pairsSchema([2]string{"a", "INTEGER"}), "tuples")
	require.NoError(t, err)

	_, _, err = runFunction(qctx, fn, nil, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
