package interp

import (
	"github.com/pkg/errors"
	startime "go.starlark.net/lib/time"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// RunScript executes a Starlark file under the interpreter lock and returns
// its top-level bindings. Builtins in predeclared are invoked while the lock
// is held and must not reacquire it.
func (s *Session) RunScript(path string, predeclared starlark.StringDict) (starlark.StringDict, error) {
	env := starlark.StringDict{
		"time": startime.Module,
	}
	for name, value := range predeclared {
		env[name] = value
	}

	var globals starlark.StringDict
	err := s.Do(func(thread *starlark.Thread) error {
		opts := &syntax.FileOptions{
			While:           true,
			TopLevelControl: true,
			GlobalReassign:  true,
			Recursion:       true,
		}
		out, err := starlark.ExecFileOptions(opts, thread, path, nil, env)
		if err != nil {
			return errors.Wrapf(err, "couldn't execute script %s", path)
		}
		globals = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return globals, nil
}
