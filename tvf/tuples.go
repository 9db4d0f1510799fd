package tvf

import (
	"github.com/pkg/errors"
	"go.starlark.net/starlark"

	"github.com/starql/starql/execution"
	"github.com/starql/starql/interp"
	"github.com/starql/starql/starconv"
)

// tuplesGlobalState streams rows out of the foreign iterator. There is no
// per-worker local state, so the engine serializes Scan calls against it.
type tuplesGlobalState struct {
	session *interp.Session

	iterator  starlark.Iterator
	exhausted bool
	released  bool
}

func (s *tuplesGlobalState) MaxThreads() int {
	return 1
}

func (s *tuplesGlobalState) Close() error {
	if s.released {
		return nil
	}
	s.released = true
	if s.iterator == nil {
		return nil
	}
	return s.session.Do(func(thread *starlark.Thread) error {
		s.iterator.Done()
		s.iterator = nil
		return nil
	})
}

func tuplesInitGlobal(qctx *execution.QueryContext, input execution.InitInput) (execution.GlobalState, error) {
	bd := input.BindData.(*BindData)

	result, err := callForeign(qctx, bd)
	if err != nil {
		return nil, err
	}

	state := &tuplesGlobalState{session: qctx.Session}
	err = qctx.Session.Do(func(thread *starlark.Thread) error {
		iterator := starlark.Iterate(result)
		if iterator == nil {
			return errors.Wrapf(ErrNotIterable, "table function '%s' returned non-iterable result of type %s", bd.Name, result.Type())
		}
		state.iterator = iterator
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// tuplesScan fills at most one vector of rows. The lock is held for the whole
// batch fill: iterator advancement, positional indexing and value conversion
// all touch foreign objects.
func tuplesScan(qctx *execution.QueryContext, input execution.FunctionInput, out *execution.Chunk) error {
	state := input.GlobalState.(*tuplesGlobalState)
	bd := input.BindData.(*BindData)

	if state.exhausted || state.iterator == nil {
		out.SetCardinality(0)
		return nil
	}

	rowIndex := 0
	err := state.session.Do(func(thread *starlark.Thread) error {
		var row starlark.Value
		for i := 0; i < execution.VectorSize; i++ {
			if !state.iterator.Next(&row) {
				state.exhausted = true
				break
			}

			indexable, ok := row.(starlark.Indexable)
			if !ok {
				return errors.Wrapf(ErrInvalidRow, "table function '%s' returned invalid data: row of type %s is not position-indexable", bd.Name, row.Type())
			}
			if indexable.Len() < len(bd.Schema.Fields) {
				return errors.Wrapf(ErrInvalidRow, "table function '%s' returned invalid data: row has %d values, schema declares %d columns", bd.Name, indexable.Len(), len(bd.Schema.Fields))
			}

			for column := range bd.Schema.Fields {
				value, err := starconv.FromStarlark(indexable.Index(column), bd.Schema.Fields[column].Type)
				if err != nil {
					return errors.Wrapf(ErrInvalidRow, "table function '%s' returned invalid data: %s", bd.Name, err)
				}
				out.SetValue(column, rowIndex, value)
			}
			rowIndex++
		}
		return nil
	})
	if err != nil {
		return err
	}

	out.SetCardinality(rowIndex)
	return nil
}
