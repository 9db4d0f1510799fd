package execution

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/starql/starql"
)

// ScanOptions carry what the engine would normally push down during planning.
type ScanOptions struct {
	// ColumnIDs is a column projection. Empty means all columns.
	ColumnIDs []int
	Filters   []TableFilter
}

// SinkFunc receives produced batches. The chunk is reused between calls;
// values must be copied out if they are retained. The executor serializes
// sink calls even when scanning in parallel.
type SinkFunc func(schema Schema, chunk *Chunk) error

// Execute drives one full table function invocation:
// bind -> init-global -> (per worker) init-local -> scan until an empty batch.
// Every state is torn down on all exit paths.
func Execute(qctx *QueryContext, fn *TableFunction, args []starql.Value, named map[string]starql.Value, opts *ScanOptions, sink SinkFunc) (outErr error) {
	if opts == nil {
		opts = &ScanOptions{}
	}

	bindData, schema, err := fn.Bind(qctx, BindInput{
		Arguments:      args,
		NamedArguments: named,
	})
	if err != nil {
		return fmt.Errorf("couldn't bind table function %s: %w", fn.Name, err)
	}
	defer func() {
		if closer, ok := bindData.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil && outErr == nil {
				outErr = fmt.Errorf("couldn't release bind data: %w", err)
			}
		}
	}()

	initInput := InitInput{
		BindData:  bindData,
		ColumnIDs: opts.ColumnIDs,
		Filters:   opts.Filters,
	}
	globalState, err := fn.InitGlobal(qctx, initInput)
	if err != nil {
		return fmt.Errorf("couldn't initialize global state of %s: %w", fn.Name, err)
	}
	defer func() {
		if err := globalState.Close(); err != nil && outErr == nil {
			outErr = fmt.Errorf("couldn't release global state: %w", err)
		}
	}()

	// The actual output schema may only be known after the single foreign
	// call, when the function derives it from the produced object.
	if provider, ok := globalState.(SchemaProvider); ok {
		schema = provider.ResultSchema()
	}

	progress := newProgressReporter(qctx)
	progress.Start()
	defer progress.Stop()

	var sinkMutex sync.Mutex
	produce := func(chunk *Chunk) error {
		sinkMutex.Lock()
		defer sinkMutex.Unlock()
		progress.Add(chunk.Cardinality())
		return sink(schema, chunk)
	}

	scanLoop := func(localState LocalState) error {
		chunk := NewChunk(len(schema.Fields))
		input := FunctionInput{
			BindData:    bindData,
			GlobalState: globalState,
			LocalState:  localState,
		}
		for {
			chunk.Reset()
			if err := fn.Scan(qctx, input, chunk); err != nil {
				return err
			}
			if chunk.Cardinality() == 0 {
				return nil
			}
			if err := produce(chunk); err != nil {
				return err
			}
		}
	}

	if fn.InitLocal == nil {
		// No local state means scans against one global state aren't safe to
		// run concurrently; serialize them on a single worker.
		if err := scanLoop(nil); err != nil {
			return fmt.Errorf("couldn't scan %s: %w", fn.Name, err)
		}
		return nil
	}

	workers := globalState.MaxThreads()
	if workers < 1 {
		workers = 1
	}
	group := errgroup.Group{}
	for i := 0; i < workers; i++ {
		group.Go(func() (workerErr error) {
			localState, err := fn.InitLocal(qctx, initInput, globalState)
			if err != nil {
				return fmt.Errorf("couldn't initialize local state of %s: %w", fn.Name, err)
			}
			defer func() {
				if closer, ok := localState.(interface{ Close() error }); ok {
					if err := closer.Close(); err != nil && workerErr == nil {
						workerErr = fmt.Errorf("couldn't release local state: %w", err)
					}
				}
			}()
			return scanLoop(localState)
		})
	}
	if err := group.Wait(); err != nil {
		return fmt.Errorf("couldn't scan %s: %w", fn.Name, err)
	}
	return nil
}
