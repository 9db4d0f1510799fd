package starconv

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/starql/starql"
	"github.com/starql/starql/interp"
)

// TypeFromString resolves a SQL-ish type name to an engine type. Parses are
// memoized in the session's type cache, since declared schemas repeat the
// same handful of names across registrations.
func TypeFromString(session *interp.Session, name string) (starql.Type, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	if normalized == "" {
		return starql.Type{}, errors.Errorf("empty type name")
	}

	if cached, ok := session.TypeCache().Get(normalized); ok {
		return cached.(starql.Type), nil
	}

	t, err := parseTypeName(normalized)
	if err != nil {
		return starql.Type{}, err
	}
	session.TypeCache().Set(normalized, t, 1)
	return t, nil
}

func parseTypeName(name string) (starql.Type, error) {
	if strings.HasSuffix(name, "[]") {
		element, err := parseTypeName(strings.TrimSuffix(name, "[]"))
		if err != nil {
			return starql.Type{}, err
		}
		return starql.ListOf(element), nil
	}

	switch name {
	case "BOOLEAN", "BOOL":
		return starql.Boolean, nil
	case "TINYINT", "SMALLINT", "INTEGER", "INT", "BIGINT":
		return starql.Int, nil
	case "FLOAT", "REAL", "DOUBLE":
		return starql.Float, nil
	case "VARCHAR", "TEXT", "STRING":
		return starql.String, nil
	case "TIMESTAMP", "DATETIME":
		return starql.Time, nil
	case "INTERVAL":
		return starql.Duration, nil
	case "NULL":
		return starql.Null, nil
	case "ANY":
		return starql.Any, nil
	}
	return starql.Type{}, errors.Errorf("unknown type name: %s", name)
}
