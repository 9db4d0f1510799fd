// Package arrowscan exposes an externally produced Arrow dataset as native
// engine batches through a three-level bind / init-global / init-local / scan
// protocol. It knows nothing about where the records come from: its only data
// source is a pair of opaque handles, one producing records and one exposing
// the schema.
package arrowscan

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/apache/arrow/go/v13/arrow"

	"github.com/starql/starql/execution"
)

// Produce returns the next record of the stream, retained for the caller, or
// nil when the stream is exhausted.
type Produce func(ctx context.Context) (arrow.Record, error)

// GetSchema introspects the schema of the underlying dataset.
type GetSchema func(ctx context.Context) (*arrow.Schema, error)

// BindData fixes the column names and types of one scan. They come from the
// dataset's own schema, introspected through the handle.
type BindData struct {
	Schema  *arrow.Schema
	Fields  []execution.SchemaField
	produce Produce
}

func Bind(ctx context.Context, produce Produce, getSchema GetSchema) (*BindData, error) {
	schema, err := getSchema(ctx)
	if err != nil {
		return nil, fmt.Errorf("couldn't get arrow schema: %w", err)
	}

	fields := make([]execution.SchemaField, len(schema.Fields()))
	for i, field := range schema.Fields() {
		t, err := typeFromArrow(field.Type)
		if err != nil {
			return nil, fmt.Errorf("couldn't map type of column %s: %w", field.Name, err)
		}
		fields[i] = execution.SchemaField{Name: field.Name, Type: t}
	}

	return &BindData{
		Schema:  schema,
		Fields:  fields,
		produce: produce,
	}, nil
}

// GlobalState is the shared cursor over the record stream. Workers pull
// records from it one at a time under its mutex; everything after the pull is
// lock-free.
type GlobalState struct {
	mu        sync.Mutex
	produce   Produce
	exhausted bool

	ColumnIDs []int
	Filters   []execution.TableFilter
}

func InitGlobal(ctx context.Context, bind *BindData, columnIDs []int, filters []execution.TableFilter) (*GlobalState, error) {
	if len(columnIDs) == 0 {
		columnIDs = make([]int, len(bind.Fields))
		for i := range columnIDs {
			columnIDs[i] = i
		}
	}
	for _, id := range columnIDs {
		if id < 0 || id >= len(bind.Fields) {
			return nil, fmt.Errorf("column index %d out of range, schema has %d columns", id, len(bind.Fields))
		}
	}
	// Filters index into the projected column order.
	for _, filter := range filters {
		if filter.ColumnIndex < 0 || filter.ColumnIndex >= len(columnIDs) {
			return nil, fmt.Errorf("filter column index %d out of range, projection has %d columns", filter.ColumnIndex, len(columnIDs))
		}
	}

	return &GlobalState{
		produce:   bind.produce,
		ColumnIDs: columnIDs,
		Filters:   filters,
	}, nil
}

func (g *GlobalState) MaxThreads() int {
	return runtime.NumCPU()
}

func (g *GlobalState) Close() error {
	return nil
}

// next pulls the next record from the stream, or nil at the end.
func (g *GlobalState) next(ctx context.Context) (arrow.Record, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.exhausted {
		return nil, nil
	}
	record, err := g.produce(ctx)
	if err != nil {
		return nil, err
	}
	if record == nil {
		g.exhausted = true
	}
	return record, nil
}

// LocalState holds the record a single worker is currently draining.
type LocalState struct {
	record arrow.Record
	offset int64
}

func InitLocal(ctx context.Context, bind *BindData, global *GlobalState) (*LocalState, error) {
	return &LocalState{}, nil
}

func (l *LocalState) Close() error {
	if l.record != nil {
		l.record.Release()
		l.record = nil
	}
	return nil
}
