package tvf

import (
	"github.com/pkg/errors"
	"go.starlark.net/starlark"

	"github.com/starql/starql/catalog"
	"github.com/starql/starql/interp"
)

// RegisterBuiltin returns the register_table_function builtin wired to the
// given catalog. It runs inside the interpreter, with the session lock
// already held, so it builds the descriptor through Build.
func RegisterBuiltin(session *interp.Session, cat *catalog.Catalog) *starlark.Builtin {
	return starlark.NewBuiltin("register_table_function", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			name       string
			callable   starlark.Value
			parameters starlark.Value
			schema     starlark.Value
			mode       starlark.Value
		)
		if err := starlark.UnpackArgs(b.Name(), args, kwargs,
			"name", &name,
			"callable", &callable,
			"parameters?", &parameters,
			"schema?", &schema,
			"type?", &mode,
		); err != nil {
			return nil, err
		}

		typedCallable, ok := callable.(starlark.Callable)
		if !ok {
			return nil, errors.Errorf("callable must be callable, got %s", callable.Type())
		}

		var parameterNames []string
		if parameters != nil && parameters != starlark.None {
			iter := starlark.Iterate(parameters)
			if iter == nil {
				return nil, errors.Errorf("parameters must be a list of names, got %s", parameters.Type())
			}
			defer iter.Done()
			var parameter starlark.Value
			for iter.Next(&parameter) {
				parameterName, ok := starlark.AsString(parameter)
				if !ok {
					return nil, errors.Errorf("parameter name must be a string, got %s", parameter.Type())
				}
				parameterNames = append(parameterNames, parameterName)
			}
		}

		var modeValue interface{}
		if mode != nil {
			modeValue = mode
		}

		fn, err := Build(session, name, typedCallable, parameterNames, schema, modeValue)
		if err != nil {
			return nil, err
		}
		if err := cat.Register(fn); err != nil {
			return nil, err
		}
		return starlark.None, nil
	})
}
