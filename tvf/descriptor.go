// Package tvf bridges foreign Starlark callables into the engine's vectorized
// table-function protocol. A registered callable either returns an iterable
// of row-like objects (tuples mode) or an arrow table whose scan is delegated
// to the arrowscan library (arrow_table mode).
package tvf

import (
	"github.com/pkg/errors"
	"go.starlark.net/starlark"

	"github.com/starql/starql"
	"github.com/starql/starql/execution"
	"github.com/starql/starql/interp"
	"github.com/starql/starql/starconv"
)

// New validates the declared schema and produces the engine-side descriptor
// of the table function. It acquires the session lock to inspect the schema
// value; callers already inside the interpreter use Build instead.
func New(session *interp.Session, name string, callable starlark.Callable, parameters []string, schema starlark.Value, mode interface{}) (*execution.TableFunction, error) {
	var fn *execution.TableFunction
	err := session.Do(func(thread *starlark.Thread) error {
		built, err := Build(session, name, callable, parameters, schema, mode)
		if err != nil {
			return err
		}
		fn = built
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fn, nil
}

// Build is the lock-free variant of New for callers that already hold the
// session lock, like script builtins running inside the interpreter.
func Build(session *interp.Session, name string, callable starlark.Callable, parameters []string, schema starlark.Value, mode interface{}) (*execution.TableFunction, error) {
	parsedMode, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}

	fields, err := validateSchema(session, name, schema)
	if err != nil {
		return nil, err
	}
	declared := execution.NewSchema(fields)

	// The positional surface is a single variadic parameter of any type plus
	// the reserved "args" named parameter; declared parameter names are left
	// untyped and validated by the conversion layer at call time.
	varargs := starql.Any
	namedParameters := map[string]starql.Type{
		"args": starql.Any,
	}
	for _, parameter := range parameters {
		namedParameters[parameter] = starql.Any
	}

	fn := &execution.TableFunction{
		Name:            name,
		Varargs:         &varargs,
		NamedParameters: namedParameters,
		Info:            newInfo(session, callable, declared, parsedMode),
	}
	fn.Bind = bindFunc(fn)

	switch parsedMode {
	case ModeTuples:
		fn.InitGlobal = tuplesInitGlobal
		fn.Scan = tuplesScan
	case ModeArrowTable:
		fn.InitGlobal = arrowInitGlobal
		fn.InitLocal = arrowInitLocal
		fn.Scan = arrowScan
	}

	return fn, nil
}

func validateSchema(session *interp.Session, name string, schema starlark.Value) ([]execution.SchemaField, error) {
	if schema == nil || schema == starlark.None {
		return nil, errors.Wrapf(ErrSchemaFormat, "table function '%s' requires a schema", name)
	}
	iter := starlark.Iterate(schema)
	if iter == nil {
		return nil, errors.Wrapf(ErrSchemaFormat, "schema must be a sequence of [name, type] pairs, got %s", schema.Type())
	}
	defer iter.Done()

	var fields []execution.SchemaField
	var entry starlark.Value
	for iter.Next(&entry) {
		if _, isString := entry.(starlark.String); isString {
			return nil, errors.Wrapf(ErrSchemaFormat, "expected [name, type] pairs, got string '%s'", entry)
		}
		indexable, ok := entry.(starlark.Indexable)
		if !ok || indexable.Len() < 2 {
			return nil, errors.Wrapf(ErrSchemaFormat, "each schema entry must be a [name, type] pair")
		}

		fieldName, ok := starlark.AsString(indexable.Index(0))
		if !ok {
			return nil, errors.Wrapf(ErrSchemaFormat, "schema entry name must be a string, got %s", indexable.Index(0).Type())
		}
		typeName, ok := starlark.AsString(indexable.Index(1))
		if !ok {
			return nil, errors.Wrapf(ErrSchemaFormat, "schema entry type must be a type name, got %s", indexable.Index(1).Type())
		}
		fieldType, err := starconv.TypeFromString(session, typeName)
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't resolve type of schema entry '%s'", fieldName)
		}

		fields = append(fields, execution.SchemaField{
			Name: fieldName,
			Type: fieldType,
		})
	}

	if len(fields) == 0 {
		return nil, errors.Wrapf(ErrSchemaFormat, "table function '%s' schema cannot be empty", name)
	}
	return fields, nil
}
