package tvf

import (
	"sort"

	"github.com/pkg/errors"
	"go.starlark.net/starlark"

	"github.com/starql/starql/execution"
	"github.com/starql/starql/starconv"
)

// callForeign performs the single foreign call of one invocation: it converts
// the bound arguments to their foreign form and calls the callable, all in
// one lock span, releasing the lock only once the result is retained by the
// caller through the returned reference.
func callForeign(qctx *execution.QueryContext, bd *BindData) (starlark.Value, error) {
	props := qctx.Session.Properties()

	var result starlark.Value
	err := qctx.Session.Do(func(thread *starlark.Thread) error {
		callable := bd.info.Callable()
		if callable == nil {
			return errors.Wrapf(ErrMissingInfo, "table function '%s' callable already released", bd.Name)
		}

		args := make(starlark.Tuple, len(bd.Arguments))
		for i := range bd.Arguments {
			converted, err := starconv.ToStarlark(bd.Arguments[i], props)
			if err != nil {
				return errors.Wrapf(err, "couldn't convert argument %d of table function '%s'", i, bd.Name)
			}
			args[i] = converted
		}

		names := make([]string, 0, len(bd.NamedArguments))
		for name := range bd.NamedArguments {
			names = append(names, name)
		}
		sort.Strings(names)
		kwargs := make([]starlark.Tuple, 0, len(names))
		for _, name := range names {
			converted, err := starconv.ToStarlark(bd.NamedArguments[name], props)
			if err != nil {
				return errors.Wrapf(err, "couldn't convert argument '%s' of table function '%s'", name, bd.Name)
			}
			kwargs = append(kwargs, starlark.Tuple{starlark.String(name), converted})
		}

		out, err := starlark.Call(thread, callable, args, kwargs)
		if err != nil {
			return errors.Wrapf(err, "table function '%s' call failed", bd.Name)
		}
		if out == nil || out == starlark.None {
			return errors.Wrapf(ErrNullResult, "table function '%s' returned None, expected an iterable or an arrow table", bd.Name)
		}
		result = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
