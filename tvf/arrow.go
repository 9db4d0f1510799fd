package tvf

import (
	"context"

	"github.com/apache/arrow/go/v13/arrow"
	"github.com/apache/arrow/go/v13/arrow/array"
	"github.com/pkg/errors"
	"go.starlark.net/starlark"

	"github.com/starql/starql/arrowscan"
	"github.com/starql/starql/execution"
	"github.com/starql/starql/interp"
	"github.com/starql/starql/starconv"
)

// arrowAdapter exposes the retained foreign result to the arrowscan library
// through its two capabilities, produce-next-record and get-schema. Both
// acquire the interpreter lock internally; arrowscan itself never sees a
// foreign object.
type arrowAdapter struct {
	session *interp.Session

	// result keeps the foreign object alive for the whole invocation; record
	// buffers handed out by the reader reference it without copying.
	result   starlark.Value
	reader   *array.TableReader
	released bool
}

func (a *arrowAdapter) getSchema(ctx context.Context) (*arrow.Schema, error) {
	var schema *arrow.Schema
	err := a.session.Do(func(thread *starlark.Thread) error {
		table, ok := starconv.AsArrowTable(a.result)
		if !ok {
			return errors.Errorf("table function result of type %s is not an arrow table", a.result.Type())
		}
		schema = table.Schema()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return schema, nil
}

func (a *arrowAdapter) produce(ctx context.Context) (arrow.Record, error) {
	var record arrow.Record
	err := a.session.Do(func(thread *starlark.Thread) error {
		if a.released {
			return errors.Errorf("produce called after the foreign result was released")
		}
		if a.reader == nil {
			table, ok := starconv.AsArrowTable(a.result)
			if !ok {
				return errors.Errorf("table function result of type %s is not an arrow table", a.result.Type())
			}
			a.reader = array.NewTableReader(table, int64(execution.VectorSize))
		}
		if !a.reader.Next() {
			return nil
		}
		record = a.reader.Record()
		record.Retain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (a *arrowAdapter) close() error {
	if a.released {
		return nil
	}
	a.released = true
	return a.session.Do(func(thread *starlark.Thread) error {
		if a.reader != nil {
			a.reader.Release()
			a.reader = nil
		}
		a.result = nil
		return nil
	})
}

// arrowGlobalState owns the foreign result and the arrowscan library's own
// bind and global state for this invocation.
type arrowGlobalState struct {
	adapter     *arrowAdapter
	arrowBind   *arrowscan.BindData
	arrowGlobal *arrowscan.GlobalState
	schema      execution.Schema
}

func (s *arrowGlobalState) MaxThreads() int {
	return s.arrowGlobal.MaxThreads()
}

func (s *arrowGlobalState) Close() error {
	if err := s.arrowGlobal.Close(); err != nil {
		return err
	}
	return s.adapter.close()
}

// ResultSchema is the schema the scan actually emits. It comes from the
// arrowscan library's introspection of the foreign object, not from the
// function's declared schema.
func (s *arrowGlobalState) ResultSchema() execution.Schema {
	return s.schema
}

type arrowLocalState struct {
	arrowLocal *arrowscan.LocalState
}

func (s *arrowLocalState) Close() error {
	return s.arrowLocal.Close()
}

func arrowInitGlobal(qctx *execution.QueryContext, input execution.InitInput) (execution.GlobalState, error) {
	bd := input.BindData.(*BindData)

	result, err := callForeign(qctx, bd)
	if err != nil {
		return nil, err
	}
	adapter := &arrowAdapter{
		session: qctx.Session,
		result:  result,
	}

	// The adapter handles are the arrowscan library's sole data source; the
	// resulting column names and types are its own introspection of the
	// foreign object. Its errors pass through unmodified.
	arrowBind, err := arrowscan.Bind(qctx.Context, adapter.produce, adapter.getSchema)
	if err != nil {
		_ = adapter.close()
		return nil, err
	}

	columnIDs := input.ColumnIDs
	if len(columnIDs) == 0 {
		columnIDs = make([]int, len(arrowBind.Fields))
		for i := range columnIDs {
			columnIDs[i] = i
		}
	}
	arrowGlobal, err := arrowscan.InitGlobal(qctx.Context, arrowBind, columnIDs, input.Filters)
	if err != nil {
		_ = adapter.close()
		return nil, err
	}

	fields := make([]execution.SchemaField, len(arrowGlobal.ColumnIDs))
	for i, columnID := range arrowGlobal.ColumnIDs {
		fields[i] = arrowBind.Fields[columnID]
	}

	return &arrowGlobalState{
		adapter:     adapter,
		arrowBind:   arrowBind,
		arrowGlobal: arrowGlobal,
		schema:      execution.NewSchema(fields),
	}, nil
}

func arrowInitLocal(qctx *execution.QueryContext, input execution.InitInput, global execution.GlobalState) (execution.LocalState, error) {
	state := global.(*arrowGlobalState)
	arrowLocal, err := arrowscan.InitLocal(qctx.Context, state.arrowBind, state.arrowGlobal)
	if err != nil {
		return nil, err
	}
	return &arrowLocalState{arrowLocal: arrowLocal}, nil
}

// arrowScan threads the three state levels into the arrowscan library and
// forwards verbatim; this path contributes no per-row logic of its own.
func arrowScan(qctx *execution.QueryContext, input execution.FunctionInput, out *execution.Chunk) error {
	global := input.GlobalState.(*arrowGlobalState)
	local := input.LocalState.(*arrowLocalState)
	return arrowscan.Scan(qctx.Context, global.arrowBind, global.arrowGlobal, local.arrowLocal, out)
}
