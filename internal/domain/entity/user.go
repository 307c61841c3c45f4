// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"

	"github.com/google/uuid"
)

// RoleUser is the default role tag assigned to every provisioned account.
const RoleUser = "user"

// LocalIDPrefix tags identifiers of accounts that were synthesized on-device
// without any remote presence.
const LocalIDPrefix = "local-"

// User represents a single team member in the roster. The ID is either a
// remote auth UID, a seeded roster id, or a local synthetic id (see
// LocalIDPrefix). Email may be empty for locally-synthesized accounts.
type User struct {
	ID     string // Stable unique identifier for the user.
	Name   string // Display name shown in leaderboards and history.
	Email  string // Login identifier; optional for local pseudo-accounts.
	Avatar string // Avatar URI, either a generated-avatar URL or an embedded image.
	Active bool   // Soft-deactivation flag; inactive users keep their history.
	Role   string // Role tag, defaults to RoleUser.
}

// NewLocalID generates an identifier for a locally-provisioned account.
func NewLocalID() string {
	return LocalIDPrefix + uuid.NewString()
}

// IsLocal reports whether the user was provisioned on-device only.
func (u User) IsLocal() bool {
	return strings.HasPrefix(u.ID, LocalIDPrefix)
}

// Roster is the full set of user profiles known to the system.
type Roster []User

// FindByID returns the user with the given id, or nil.
func (r Roster) FindByID(id string) *User {
	for i := range r {
		if r[i].ID == id {
			return &r[i]
		}
	}

	return nil
}

// FindByEmail returns the user whose email matches case-insensitively, or nil.
func (r Roster) FindByEmail(email string) *User {
	needle := strings.ToLower(strings.TrimSpace(email))
	if needle == "" {
		return nil
	}
	for i := range r {
		if strings.ToLower(r[i].Email) == needle {
			return &r[i]
		}
	}

	return nil
}

// ActiveCount returns the number of users currently marked active.
func (r Roster) ActiveCount() int {
	count := 0
	for i := range r {
		if r[i].Active {
			count++
		}
	}

	return count
}

// CanDeactivate reports whether the given user may be deactivated or removed
// without leaving the roster with no active member.
func (r Roster) CanDeactivate(id string) bool {
	user := r.FindByID(id)
	if user == nil || !user.Active {
		return true
	}

	return r.ActiveCount() > 1
}

// DefaultRoster returns the built-in roster used when local storage was never
// initialized. Callers receive a fresh copy and may mutate it freely.
func DefaultRoster() Roster {
	return Roster{
		{ID: "u1", Name: "Ana García", Avatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=Ana", Active: true, Role: RoleUser},
		{ID: "u2", Name: "Carlos Ruiz", Avatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=Carlos", Active: true, Role: RoleUser},
		{ID: "u3", Name: "Maria Lopez", Avatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=Maria", Active: true, Role: RoleUser},
		{ID: "u4", Name: "Juan Perez", Avatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=Juan", Active: true, Role: RoleUser},
	}
}
