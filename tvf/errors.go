package tvf

import (
	"github.com/pkg/errors"
)

// Sentinel errors of the bridge. They surface as query compilation or
// execution failures and are never retried internally; use errors.Is to
// classify them.
var (
	ErrSchemaFormat = errors.New("invalid schema format")
	ErrUnknownMode  = errors.New("unknown table function mode")
	ErrMissingInfo  = errors.New("missing table function info")
	ErrNullResult   = errors.New("table function returned no result")
	ErrNotIterable  = errors.New("table function result is not iterable")
	ErrInvalidRow   = errors.New("table function returned invalid data")
)
