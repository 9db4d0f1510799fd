package tvf

import (
	"github.com/pkg/errors"

	"github.com/starql/starql"
	"github.com/starql/starql/execution"
)

// BindData is created once per query compilation and then shared, immutable,
// with the global and local states of that invocation. It keeps a reference
// on the descriptor's shared record so the callable stays valid even if the
// catalog entry is dropped mid-query.
type BindData struct {
	Name           string
	Arguments      []starql.Value
	NamedArguments map[string]starql.Value
	Schema         execution.Schema

	info *Info
}

func (bd *BindData) Close() error {
	return bd.info.Release()
}

func bindFunc(fn *execution.TableFunction) execution.BindFunc {
	return func(qctx *execution.QueryContext, input execution.BindInput) (execution.BindData, execution.Schema, error) {
		// Total cardinality is unknown ahead of the pull loop, so progress
		// reporting is turned off for the whole query.
		qctx.Config.EnableProgressBar = false
		qctx.Config.ProgressBarDisableReason = "table-valued functions do not support progress reporting"

		if fn.Info == nil {
			return nil, execution.Schema{}, errors.Wrapf(ErrMissingInfo, "table function '%s' has no function info", fn.Name)
		}
		info, ok := fn.Info.(*Info)
		if !ok {
			return nil, execution.Schema{}, errors.Wrapf(ErrMissingInfo, "table function '%s' carries foreign function info %T", fn.Name, fn.Info)
		}
		info.Retain()

		return &BindData{
			Name:           fn.Name,
			Arguments:      input.Arguments,
			NamedArguments: input.NamedArguments,
			Schema:         info.Schema(),
			info:           info,
		}, info.Schema(), nil
	}
}
