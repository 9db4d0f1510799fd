// Package catalog keeps the registered table functions of a session. An
// entry owns one reference on the function's shared info record; dropping the
// entry releases it.
package catalog

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/starql/starql/execution"
)

type Catalog struct {
	mu        sync.RWMutex
	functions map[string]*execution.TableFunction
}

func New() *Catalog {
	return &Catalog{
		functions: make(map[string]*execution.TableFunction),
	}
}

func (c *Catalog) Register(fn *execution.TableFunction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.functions[fn.Name]; ok {
		return errors.Errorf("table function with name %s already registered", fn.Name)
	}
	c.functions[fn.Name] = fn
	return nil
}

func (c *Catalog) Get(name string) (*execution.TableFunction, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn, ok := c.functions[name]
	if !ok {
		available := make([]string, 0, len(c.functions))
		for registered := range c.functions {
			available = append(available, registered)
		}
		sort.Strings(available)
		return nil, errors.Errorf("no such table function: %s, available functions: %+v", name, available)
	}
	return fn, nil
}

// Drop removes the entry and releases its reference on the function's shared
// record. In-flight queries that already bound the function keep their own
// reference and finish normally.
func (c *Catalog) Drop(name string) error {
	c.mu.Lock()
	fn, ok := c.functions[name]
	delete(c.functions, name)
	c.mu.Unlock()

	if !ok {
		return errors.Errorf("no such table function: %s", name)
	}
	if fn.Info != nil {
		if err := fn.Info.Release(); err != nil {
			return errors.Wrapf(err, "couldn't release info of table function %s", name)
		}
	}
	return nil
}

func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.functions))
	for name := range c.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
