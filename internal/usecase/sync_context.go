// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"sync"

	"ibspot/internal/domain/entity"
	"ibspot/internal/domain/repository"
	"ibspot/internal/domain/service"
)

// SyncContext holds the process-wide connectivity and session state: the
// remote store handle (nil when initialization failed or was never
// configured), the remote auth capability, the current identity, and a typed
// publish/subscribe channel for identity changes. It replaces ambient global
// state so every consumer receives an explicit, injectable instance.
//
// The identity slot has a single writer (the identity resolver); consumers
// only read and subscribe.
type SyncContext struct {
	remote repository.RemoteStore
	auth   service.AuthProvider

	mu       sync.RWMutex
	session  *entity.Session
	resolved bool
	nextID   int
	subs     map[int]func(*entity.Session)
}

// NewSyncContext builds the shared state holder. Both capabilities may be nil;
// a nil remote store means the process runs in local-cache-only mode for its
// whole lifetime (remote initialization is never retried).
func NewSyncContext(remote repository.RemoteStore, auth service.AuthProvider) *SyncContext {
	return &SyncContext{
		remote: remote,
		auth:   auth,
		subs:   make(map[int]func(*entity.Session)),
	}
}

// IsOnline reports whether the remote store was reachable at startup.
func (c *SyncContext) IsOnline() bool {
	return c.remote != nil
}

// Remote returns the remote store handle, or nil in offline mode.
func (c *SyncContext) Remote() repository.RemoteStore {
	return c.remote
}

// Auth returns the remote auth capability, or nil in offline mode.
func (c *SyncContext) Auth() service.AuthProvider {
	return c.auth
}

// Session returns the current identity, or nil when logged out or not yet
// resolved.
func (c *SyncContext) Session() *entity.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.session
}

// Resolved reports whether the identity has gone through at least one
// transition. Before that, subscribers receive nothing and should treat the
// state as "loading".
func (c *SyncContext) Resolved() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.resolved
}

// SetSession records an identity transition and notifies every subscriber.
// Only the identity resolver calls this.
func (c *SyncContext) SetSession(session *entity.Session) {
	c.mu.Lock()
	c.session = session
	c.resolved = true
	callbacks := make([]func(*entity.Session), 0, len(c.subs))
	for _, cb := range c.subs {
		callbacks = append(callbacks, cb)
	}
	c.mu.Unlock()

	// Invoke outside the lock so callbacks may re-enter the context.
	for _, cb := range callbacks {
		cb(session)
	}
}

// SubscribeSession registers an identity-change callback. If the identity is
// already resolved the callback fires synchronously with the current value
// before SubscribeSession returns; otherwise the subscriber stays in a
// "loading" state until the first transition. The returned cancel function is
// idempotent and safe to never call.
func (c *SyncContext) SubscribeSession(cb func(*entity.Session)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = cb
	deliver := c.resolved
	current := c.session
	c.mu.Unlock()

	if deliver {
		cb(current)
	}

	var once sync.Once

	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}
