// Package interp owns the embedded Starlark interpreter. A Session guards all
// foreign-object access behind an explicit lock: a starlark.Thread and the
// values it produces must never be touched by two goroutines at once.
package interp

import (
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/go-pkgz/lgr"
	"github.com/pkg/errors"
	"go.starlark.net/starlark"
)

// ClientProperties are session-level value representation rules, applied by
// the conversion layer.
type ClientProperties struct {
	TimeZone *time.Location
}

// Session is an embedded interpreter instance. There is one active session
// per process until multi-instance support exists; use Default for the
// process-wide one.
type Session struct {
	mu     sync.Mutex
	thread *starlark.Thread

	props     ClientProperties
	typeCache *ristretto.Cache
	log       lgr.L
}

type Option func(*Session)

func WithTimeZone(loc *time.Location) Option {
	return func(s *Session) {
		s.props.TimeZone = loc
	}
}

func WithLogger(log lgr.L) Option {
	return func(s *Session) {
		s.log = log
	}
}

func New(opts ...Option) *Session {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		// The config above is static, so this is a programming error.
		panic(errors.Wrap(err, "couldn't create session cache"))
	}

	s := &Session{
		thread:    &starlark.Thread{Name: "starql"},
		props:     ClientProperties{TimeZone: time.UTC},
		typeCache: cache,
		log:       lgr.New(lgr.Msec),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	defaultOnce    sync.Once
	defaultSession *Session
)

// Default returns the process-wide session.
func Default() *Session {
	defaultOnce.Do(func() {
		defaultSession = New()
	})
	return defaultSession
}

// Do runs fn while holding the interpreter lock. This is the only way to
// touch the thread or any foreign value; the lock is released on every exit
// path, panics included.
func (s *Session) Do(fn func(thread *starlark.Thread) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.thread)
}

func (s *Session) Properties() ClientProperties {
	return s.props
}

// TypeCache is the process-wide cache for parsed type names.
func (s *Session) TypeCache() *ristretto.Cache {
	return s.typeCache
}

func (s *Session) Log() lgr.L {
	return s.log
}
