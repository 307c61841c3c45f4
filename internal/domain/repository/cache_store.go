// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"ibspot/internal/domain/entity"
)

// CacheStore is the on-device copy of every collection. It is always writable
// and acts as a read replica with write-through buffering while the remote
// store is reachable, becoming authoritative when disconnected.
//
// All operations are synchronous and local-only. Implementations must never
// surface storage errors to callers: malformed or absent stored data degrades
// to an empty list (entries), the built-in default roster (users) or a nil
// session, and write failures are logged internally.
type CacheStore interface {
	// ReadEntries returns the cached entries, most recent first.
	ReadEntries() []entity.IsinEntry

	// WriteEntries replaces the cached entries collection.
	WriteEntries(entries []entity.IsinEntry)

	// ReadUsers returns the cached roster, or the built-in default roster if
	// the cache was never initialized.
	ReadUsers() []entity.User

	// WriteUsers replaces the cached roster.
	WriteUsers(users []entity.User)

	// ReadSession returns the persisted local session user, or nil.
	ReadSession() *entity.User

	// WriteSession persists the local session user; nil clears it.
	WriteSession(user *entity.User)

	// ReadLocalCredentials returns the locally-stored credential hashes keyed
	// by lower-cased email. Used by the optional local-mode password check.
	ReadLocalCredentials() map[string]string

	// WriteLocalCredentials replaces the locally-stored credential hashes.
	WriteLocalCredentials(credentials map[string]string)
}
