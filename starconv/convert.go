// Package starconv converts between engine values and Starlark values, and
// resolves type-name strings to engine types. Every function that touches a
// Starlark value must be called with the session lock held.
package starconv

import (
	"time"

	"github.com/pkg/errors"
	startime "go.starlark.net/lib/time"
	"go.starlark.net/starlark"

	"github.com/starql/starql"
	"github.com/starql/starql/interp"
)

// ToStarlark converts an engine value to its Starlark form, applying the
// session's representation rules (timezone).
func ToStarlark(value starql.Value, props interp.ClientProperties) (starlark.Value, error) {
	switch value.Type.TypeID {
	case starql.TypeIDNull:
		return starlark.None, nil
	case starql.TypeIDInt:
		return starlark.MakeInt64(value.Int), nil
	case starql.TypeIDFloat:
		return starlark.Float(value.Float), nil
	case starql.TypeIDBoolean:
		return starlark.Bool(value.Boolean), nil
	case starql.TypeIDString:
		return starlark.String(value.Str), nil
	case starql.TypeIDTime:
		t := value.Time
		if props.TimeZone != nil {
			t = t.In(props.TimeZone)
		}
		return startime.Time(t), nil
	case starql.TypeIDDuration:
		return startime.Duration(value.Duration), nil
	case starql.TypeIDList:
		elements := make([]starlark.Value, len(value.List))
		for i := range value.List {
			element, err := ToStarlark(value.List[i], props)
			if err != nil {
				return nil, errors.Wrapf(err, "couldn't convert list element %d", i)
			}
			elements[i] = element
		}
		return starlark.NewList(elements), nil
	case starql.TypeIDStruct:
		dict := starlark.NewDict(len(value.FieldValues))
		for i := range value.FieldValues {
			fieldValue, err := ToStarlark(value.FieldValues[i], props)
			if err != nil {
				return nil, errors.Wrapf(err, "couldn't convert struct field %s", value.Type.Struct.Fields[i].Name)
			}
			if err := dict.SetKey(starlark.String(value.Type.Struct.Fields[i].Name), fieldValue); err != nil {
				return nil, errors.Wrapf(err, "couldn't set struct field %s", value.Type.Struct.Fields[i].Name)
			}
		}
		return dict, nil
	}
	return nil, errors.Errorf("unsupported engine value type: %s", value.Type)
}

// FromStarlark converts a Starlark value through the given declared type.
// An Any target infers the concrete type from the value itself.
func FromStarlark(value starlark.Value, t starql.Type) (starql.Value, error) {
	if t.TypeID == starql.TypeIDAny {
		return fromStarlarkInferred(value)
	}

	switch t.TypeID {
	case starql.TypeIDNull:
		if value == starlark.None {
			return starql.NewNull(), nil
		}

	case starql.TypeIDInt:
		if value == starlark.None {
			return starql.NewNull(), nil
		}
		if intValue, ok := value.(starlark.Int); ok {
			i, ok := intValue.Int64()
			if !ok {
				return starql.ZeroValue, errors.Errorf("integer %s out of range", intValue)
			}
			return starql.NewInt(i), nil
		}

	case starql.TypeIDFloat:
		if value == starlark.None {
			return starql.NewNull(), nil
		}
		switch typed := value.(type) {
		case starlark.Float:
			return starql.NewFloat(float64(typed)), nil
		case starlark.Int:
			i, ok := typed.Int64()
			if !ok {
				return starql.ZeroValue, errors.Errorf("integer %s out of range", typed)
			}
			return starql.NewFloat(float64(i)), nil
		}

	case starql.TypeIDBoolean:
		if value == starlark.None {
			return starql.NewNull(), nil
		}
		if boolValue, ok := value.(starlark.Bool); ok {
			return starql.NewBoolean(bool(boolValue)), nil
		}

	case starql.TypeIDString:
		if value == starlark.None {
			return starql.NewNull(), nil
		}
		if stringValue, ok := value.(starlark.String); ok {
			return starql.NewString(string(stringValue)), nil
		}

	case starql.TypeIDTime:
		if value == starlark.None {
			return starql.NewNull(), nil
		}
		if timeValue, ok := value.(startime.Time); ok {
			return starql.NewTime(time.Time(timeValue)), nil
		}

	case starql.TypeIDDuration:
		if value == starlark.None {
			return starql.NewNull(), nil
		}
		if durationValue, ok := value.(startime.Duration); ok {
			return starql.NewDuration(time.Duration(durationValue)), nil
		}

	case starql.TypeIDList:
		if value == starlark.None {
			return starql.NewNull(), nil
		}
		iter := starlark.Iterate(value)
		if iter == nil {
			return starql.ZeroValue, errors.Errorf("can't convert %s to %s", value.Type(), t)
		}
		defer iter.Done()
		var elements []starql.Value
		var element starlark.Value
		for i := 0; iter.Next(&element); i++ {
			converted, err := FromStarlark(element, *t.List.Element)
			if err != nil {
				return starql.ZeroValue, errors.Wrapf(err, "couldn't convert list element %d", i)
			}
			elements = append(elements, converted)
		}
		return starql.NewList(elements), nil
	}

	return starql.ZeroValue, errors.Errorf("can't convert %s value %s to %s", value.Type(), value.String(), t)
}

func fromStarlarkInferred(value starlark.Value) (starql.Value, error) {
	switch typed := value.(type) {
	case starlark.NoneType:
		return starql.NewNull(), nil
	case starlark.Bool:
		return starql.NewBoolean(bool(typed)), nil
	case starlark.Int:
		i, ok := typed.Int64()
		if !ok {
			return starql.ZeroValue, errors.Errorf("integer %s out of range", typed)
		}
		return starql.NewInt(i), nil
	case starlark.Float:
		return starql.NewFloat(float64(typed)), nil
	case starlark.String:
		return starql.NewString(string(typed)), nil
	case startime.Time:
		return starql.NewTime(time.Time(typed)), nil
	case startime.Duration:
		return starql.NewDuration(time.Duration(typed)), nil
	}

	if iter := starlark.Iterate(value); iter != nil {
		defer iter.Done()
		var elements []starql.Value
		var element starlark.Value
		for i := 0; iter.Next(&element); i++ {
			converted, err := fromStarlarkInferred(element)
			if err != nil {
				return starql.ZeroValue, errors.Wrapf(err, "couldn't convert element %d", i)
			}
			elements = append(elements, converted)
		}
		return starql.NewList(elements), nil
	}

	return starql.ZeroValue, errors.Errorf("can't infer engine type for %s value %s", value.Type(), value.String())
}
