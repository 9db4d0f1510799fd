package execution

import (
	"context"
	"crypto/rand"

	"github.com/go-pkgz/lgr"
	"github.com/oklog/ulid/v2"

	"github.com/starql/starql/interp"
)

// ClientConfig is per-query configuration shared by everything that runs
// within one query. Binding a table function may mutate it, e.g. to disable
// progress reporting.
type ClientConfig struct {
	EnableProgressBar        bool
	ProgressBarDisableReason string
}

// QueryContext carries everything one query invocation needs: the underlying
// context, the interpreter session, per-query config and a logger tagged with
// the invocation id.
type QueryContext struct {
	Context      context.Context
	Session      *interp.Session
	Config       *ClientConfig
	Log          lgr.L
	InvocationID string
}

func NewQueryContext(ctx context.Context, session *interp.Session) *QueryContext {
	return &QueryContext{
		Context: ctx,
		Session: session,
		Config: &ClientConfig{
			EnableProgressBar: true,
		},
		Log:          session.Log(),
		InvocationID: ulid.MustNew(ulid.Now(), rand.Reader).String(),
	}
}
