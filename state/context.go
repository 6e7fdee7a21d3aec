// Package state carries the execution context for pool operations: a
// key-value store handle, the operation timestamp and an event manager, with
// cache-wrapped branching so a failed operation leaves no partial writes.
package state

import (
	"time"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
)

// Context bundles everything a state transition needs. It is passed by value;
// deriving a new context never mutates the one it came from.
type Context struct {
	store  storetypes.KVStore
	now    time.Time
	logger log.Logger
	em     *EventManager
}

// NewContext builds a context over store with the given operation time.
func NewContext(store storetypes.KVStore, now time.Time, logger log.Logger) Context {
	return Context{
		store:  store,
		now:    now,
		logger: logger,
		em:     NewEventManager(),
	}
}

// KVStore returns the backing store for this context.
func (c Context) KVStore() storetypes.KVStore { return c.store }

// Now returns the operation timestamp fixed when the context was created.
// Deadline checks compare against this value, not the wall clock.
func (c Context) Now() time.Time { return c.now }

// Logger returns the context logger.
func (c Context) Logger() log.Logger { return c.logger }

// EventManager returns the manager collecting events for this context.
func (c Context) EventManager() *EventManager { return c.em }

// WithNow returns a copy of the context with the operation time replaced.
func (c Context) WithNow(now time.Time) Context {
	c.now = now
	return c
}

// WithLogger returns a copy of the context with the logger replaced.
func (c Context) WithLogger(logger log.Logger) Context {
	c.logger = logger
	return c
}
