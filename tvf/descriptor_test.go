package tvf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"

	"github.com/starql/starql"
	"github.com/starql/starql/interp"
)

func TestNew_SchemaValidation(t *testing.T) {
	session := interp.New()
	callable := intRows(1)

	tests := []struct {
		name    string
		schema  starlark.Value
		wantErr string
	}{
		{
			name:    "missing schema",
			schema:  starlark.None,
			wantErr: "requires a schema",
		},
		{
			name:    "empty schema",
			schema:  starlark.NewList(nil),
			wantErr: "schema cannot be empty",
		},
		{
			name:    "bare string entry",
			schema:  starlark.NewList([]starlark.Value{starlark.String("a")}),
			wantErr: "got string",
		},
		{
			name:    "entry too short",
			schema:  starlark.NewList([]starlark.Value{starlark.Tuple{starlark.String("a")}}),
			wantErr: "must be a [name, type] pair",
		},
		{
			name:    "entry not indexable",
			schema:  starlark.NewList([]starlark.Value{starlark.MakeInt(42)}),
			wantErr: "must be a [name, type] pair",
		},
		{
			name:    "non-iterable schema",
			schema:  starlark.MakeInt(42),
			wantErr: "sequence of [name, type] pairs",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(session, "gen", callable, nil, tt.schema, "tuples")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSchemaFormat), "expected ErrSchemaFormat, got %v", err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNew_UnknownTypeName(t *testing.T) {
	session := interp.New()
	_, err := New(session, "gen", intRows(1), nil, pairsSchema([2]string{"a", "WIBBLE"}), "tuples")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WIBBLE")
}

func TestNew_ParameterSurface(t *testing.T) {
	session := interp.New()
	fn, err := New(session, "gen", intRows(1), []string{"n", "seed"}, pairsSchema([2]string{"a", "INTEGER"}), "")
	require.NoError(t, err)

	require.NotNil(t, fn.Varargs)
	assert.Equal(t, starql.Any, *fn.Varargs)

	// The reserved "args" parameter plus one untyped parameter per declared
	// name.
	assert.Equal(t, starql.Any, fn.NamedParameters["args"])
	assert.Equal(t, starql.Any, fn.NamedParameters["n"])
	assert.Equal(t, starql.Any, fn.NamedParameters["seed"])
	assert.Len(t, fn.NamedParameters, 3)
}

func TestNew_UnknownMode(t *testing.T) {
	session := interp.New()
	_, err := New(session, "gen", intRows(1), nil, pairsSchema([2]string{"a", "INTEGER"}), "spark")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownMode))
	assert.Contains(t, err.Error(), "spark")
}

func TestInfo_ReleaseOnce(t *testing.T) {
	session := interp.New()
	fn, err := New(session, "gen", intRows(1), nil, pairsSchema([2]string{"a", "INTEGER"}), "tuples")
	require.NoError(t, err)

	info := fn.Info.(*Info)
	info.Retain()
	require.NoError(t, info.Release())
	require.NoError(t, info.Release())

	err = session.Do(func(thread *starlark.Thread) error {
		assert.Nil(t, info.Callable())
		return nil
	})
	require.NoError(t, err)

	require.Error(t, info.Release())
}
