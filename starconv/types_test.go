package starconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starql/starql"
	"github.com/starql/starql/interp"
)

func TestTypeFromString(t *testing.T) {
	session := interp.New()

	cases := []struct {
		name string
		want starql.Type
	}{
		{"INTEGER", starql.Int},
		{"bigint", starql.Int},
		{"  varchar  ", starql.String},
		{"Boolean", starql.Boolean},
		{"DOUBLE", starql.Float},
		{"TIMESTAMP", starql.Time},
		{"INTERVAL", starql.Duration},
		{"ANY", starql.Any},
		{"INTEGER[]", starql.ListOf(starql.Int)},
		{"VARCHAR[][]", starql.ListOf(starql.ListOf(starql.String))},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TypeFromString(session, tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTypeFromString_Unknown(t *testing.T) {
	session := interp.New()

	_, err := TypeFromString(session, "WIBBLE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WIBBLE")

	_, err = TypeFromString(session, "   ")
	require.Error(t, err)
}

func TestTypeFromString_CachedParsesStayConsistent(t *testing.T) {
	session := interp.New()

	first, err := TypeFromString(session, "integer")
	require.NoError(t, err)
	second, err := TypeFromString(session, "INTEGER")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
