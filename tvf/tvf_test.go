package tvf

import (
	"context"

	"go.starlark.net/starlark"

	"github.com/starql/starql"
	"github.com/starql/starql/execution"
	"github.com/starql/starql/interp"
)

// pairsSchema builds a declared schema value the way a script would write it:
// [[name, type], ...].
func pairsSchema(pairs ...[2]string) *starlark.List {
	entries := make([]starlark.Value, len(pairs))
	for i, pair := range pairs {
		entries[i] = starlark.Tuple{starlark.String(pair[0]), starlark.String(pair[1])}
	}
	return starlark.NewList(entries)
}

// callableOf wraps a Go function as a foreign callable.
func callableOf(name string, fn func(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)) starlark.Callable {
	return starlark.NewBuiltin(name, func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		return fn(thread, args, kwargs)
	})
}

// intRows yields n single-column rows (0,), (1,), ...
func intRows(n int) starlark.Callable {
	return callableOf("rows", func(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		rows := make([]starlark.Value, n)
		for i := 0; i < n; i++ {
			rows[i] = starlark.Tuple{starlark.MakeInt(i)}
		}
		return starlark.NewList(rows), nil
	})
}

func newTestContext() *execution.QueryContext {
	return execution.NewQueryContext(context.Background(), interp.New())
}

// runFunction drives a full invocation and collects all produced rows.
func runFunction(qctx *execution.QueryContext, fn *execution.TableFunction, args []starql.Value, named map[string]starql.Value, opts *execution.ScanOptions) (execution.Schema, [][]starql.Value, error) {
	var schema execution.Schema
	var rows [][]starql.Value
	err := execution.Execute(qctx, fn, args, named, opts, func(s execution.Schema, chunk *execution.Chunk) error {
		schema = s
		for row := 0; row < chunk.Cardinality(); row++ {
			rows = append(rows, chunk.Row(row))
		}
		return nil
	})
	return schema, rows, err
}
