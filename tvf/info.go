package tvf

import (
	"sync/atomic"

	"github.com/pkg/errors"
	"go.starlark.net/starlark"

	"github.com/starql/starql/execution"
	"github.com/starql/starql/interp"
)

// Info is the shared record behind a registered table function: the foreign
// callable, the declared schema and the execution mode. It is shared by every
// query compilation that references the function, so it is reference-counted;
// the foreign callable reference is dropped under the interpreter lock when
// the last reference goes away.
type Info struct {
	session *interp.Session
	refs    int64

	callable starlark.Callable
	schema   execution.Schema
	mode     Mode
}

func newInfo(session *interp.Session, callable starlark.Callable, schema execution.Schema, mode Mode) *Info {
	return &Info{
		session:  session,
		refs:     1,
		callable: callable,
		schema:   schema,
		mode:     mode,
	}
}

func (info *Info) Retain() {
	atomic.AddInt64(&info.refs, 1)
}

func (info *Info) Release() error {
	refs := atomic.AddInt64(&info.refs, -1)
	if refs > 0 {
		return nil
	}
	if refs < 0 {
		return errors.Errorf("table function info released more times than retained")
	}
	// The foreign runtime requires references to be dropped only while its
	// lock is held.
	return info.session.Do(func(thread *starlark.Thread) error {
		info.callable = nil
		return nil
	})
}

// Callable returns the foreign callable; callers must hold the session lock.
func (info *Info) Callable() starlark.Callable {
	return info.callable
}

func (info *Info) Mode() Mode {
	return info.mode
}

func (info *Info) Schema() execution.Schema {
	return info.schema
}
