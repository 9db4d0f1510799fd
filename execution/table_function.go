package execution

import (
	"github.com/starql/starql"
)

// Schema is the resolved output shape of a table function invocation.
type Schema struct {
	Fields []SchemaField
}

type SchemaField struct {
	Name string
	Type starql.Type
}

func NewSchema(fields []SchemaField) Schema {
	return Schema{Fields: fields}
}

// BindData is produced once per query compilation and shared, immutable, with
// the global and local states of that invocation.
type BindData interface{}

// GlobalState is created once per invocation during init-global and outlives
// every batch scanned for it.
type GlobalState interface {
	// MaxThreads is the number of workers that may call Scan concurrently.
	// Functions without local state must return 1.
	MaxThreads() int
	Close() error
}

// LocalState is per-worker state. States that hold resources additionally
// implement Close() error, which the executor calls on teardown.
type LocalState interface{}

// SchemaProvider is implemented by global states whose actual output schema is
// only known after init-global, overriding the bind-time schema.
type SchemaProvider interface {
	ResultSchema() Schema
}

// FunctionInfo is the shared, reference-counted record attached to a table
// function at registration. Release must be balanced with Retain; the last
// release tears the record down.
type FunctionInfo interface {
	Retain()
	Release() error
}

type BindInput struct {
	Arguments      []starql.Value
	NamedArguments map[string]starql.Value
}

type InitInput struct {
	BindData BindData
	// ColumnIDs is the column projection pushed down by the engine. Empty
	// means all columns.
	ColumnIDs []int
	Filters   []TableFilter
}

type FunctionInput struct {
	BindData    BindData
	GlobalState GlobalState
	LocalState  LocalState
}

type (
	BindFunc       func(qctx *QueryContext, input BindInput) (BindData, Schema, error)
	InitGlobalFunc func(qctx *QueryContext, input InitInput) (GlobalState, error)
	InitLocalFunc  func(qctx *QueryContext, input InitInput, global GlobalState) (LocalState, error)
	ScanFunc       func(qctx *QueryContext, input FunctionInput, out *Chunk) error
)

// TableFunction is the engine-side descriptor of a vectorized table function.
// InitLocal may be nil; the executor then serializes Scan calls.
type TableFunction struct {
	Name string

	Bind       BindFunc
	InitGlobal InitGlobalFunc
	InitLocal  InitLocalFunc
	Scan       ScanFunc

	// Varargs, when set, lets the function accept any number of trailing
	// positional arguments of the given type.
	Varargs         *starql.Type
	NamedParameters map[string]starql.Type

	Info FunctionInfo
}
