package cmd

import (
	"github.com/pkg/errors"
	"github.com/valyala/fastjson"

	"github.com/starql/starql"
)

// parseCallArguments turns the --args JSON array and --kwargs JSON object
// into engine values.
func parseCallArguments(argsJSON, kwargsJSON string) ([]starql.Value, map[string]starql.Value, error) {
	var parser fastjson.Parser

	var positional []starql.Value
	if argsJSON != "" {
		parsed, err := parser.Parse(argsJSON)
		if err != nil {
			return nil, nil, errors.Wrap(err, "couldn't parse --args")
		}
		array, err := parsed.Array()
		if err != nil {
			return nil, nil, errors.Wrap(err, "--args must be a JSON array")
		}
		positional = make([]starql.Value, len(array))
		for i, element := range array {
			value, err := jsonToValue(element)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "couldn't convert --args element %d", i)
			}
			positional[i] = value
		}
	}

	named := map[string]starql.Value{}
	if kwargsJSON != "" {
		parsed, err := parser.Parse(kwargsJSON)
		if err != nil {
			return nil, nil, errors.Wrap(err, "couldn't parse --kwargs")
		}
		object, err := parsed.Object()
		if err != nil {
			return nil, nil, errors.Wrap(err, "--kwargs must be a JSON object")
		}
		var visitErr error
		object.Visit(func(key []byte, v *fastjson.Value) {
			if visitErr != nil {
				return
			}
			value, err := jsonToValue(v)
			if err != nil {
				visitErr = errors.Wrapf(err, "couldn't convert --kwargs entry %s", key)
				return
			}
			named[string(key)] = value
		})
		if visitErr != nil {
			return nil, nil, visitErr
		}
	}

	return positional, named, nil
}

func jsonToValue(v *fastjson.Value) (starql.Value, error) {
	switch v.Type() {
	case fastjson.TypeNull:
		return starql.NewNull(), nil
	case fastjson.TypeTrue:
		return starql.NewBoolean(true), nil
	case fastjson.TypeFalse:
		return starql.NewBoolean(false), nil
	case fastjson.TypeNumber:
		floatValue, err := v.Float64()
		if err != nil {
			return starql.ZeroValue, err
		}
		intValue := int64(floatValue)
		if float64(intValue) == floatValue {
			return starql.NewInt(intValue), nil
		}
		return starql.NewFloat(floatValue), nil
	case fastjson.TypeString:
		stringBytes, err := v.StringBytes()
		if err != nil {
			return starql.ZeroValue, err
		}
		return starql.NewString(string(stringBytes)), nil
	case fastjson.TypeArray:
		array, err := v.Array()
		if err != nil {
			return starql.ZeroValue, err
		}
		elements := make([]starql.Value, len(array))
		for i, element := range array {
			converted, err := jsonToValue(element)
			if err != nil {
				return starql.ZeroValue, err
			}
			elements[i] = converted
		}
		return starql.NewList(elements), nil
	}
	return starql.ZeroValue, errors.Errorf("unsupported JSON value: %s", v.Type())
}
