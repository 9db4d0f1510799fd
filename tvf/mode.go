package tvf

import (
	"strings"

	"github.com/pkg/errors"
	"go.starlark.net/starlark"
)

// Mode selects the execution path of a table function, fixed at registration.
type Mode int

const (
	// ModeTuples pulls row-like objects from an iterator returned by the
	// callable.
	ModeTuples Mode = iota
	// ModeArrowTable delegates to the columnar scan of an arrow table
	// returned by the callable.
	ModeArrowTable
)

func (m Mode) String() string {
	switch m {
	case ModeTuples:
		return "tuples"
	case ModeArrowTable:
		return "arrow_table"
	}
	return "invalid"
}

// ParseMode accepts the mode in any of the registration surface's forms: a
// (Go or Starlark) string, case-insensitive, where empty means tuples, or an
// equivalent integer.
func ParseMode(value interface{}) (Mode, error) {
	switch typed := value.(type) {
	case nil:
		return ModeTuples, nil
	case Mode:
		if typed != ModeTuples && typed != ModeArrowTable {
			return 0, errors.Wrapf(ErrUnknownMode, "'%d' is not a recognized table function mode", typed)
		}
		return typed, nil
	case string:
		return parseModeString(typed)
	case int:
		return parseModeInteger(int64(typed))
	case int64:
		return parseModeInteger(typed)
	case starlark.NoneType:
		return ModeTuples, nil
	case starlark.String:
		return parseModeString(string(typed))
	case starlark.Int:
		i, ok := typed.Int64()
		if !ok {
			return 0, errors.Wrapf(ErrUnknownMode, "'%s' is not a recognized table function mode", typed)
		}
		return parseModeInteger(i)
	}
	return 0, errors.Wrapf(ErrUnknownMode, "'%v' is not a recognized table function mode", value)
}

func parseModeString(value string) (Mode, error) {
	switch strings.ToLower(value) {
	case "", "tuples":
		return ModeTuples, nil
	case "arrow_table":
		return ModeArrowTable, nil
	}
	return 0, errors.Wrapf(ErrUnknownMode, "'%s' is not a recognized table function mode", value)
}

func parseModeInteger(value int64) (Mode, error) {
	switch value {
	case 0:
		return ModeTuples, nil
	case 1:
		return ModeArrowTable, nil
	}
	return 0, errors.Wrapf(ErrUnknownMode, "'%d' is not a recognized table function mode", value)
}
