package usecase

import (
	"context"

	"ibspot/internal/domain/entity"
)

// ProfileUpdate is a partial update of a user's editable profile fields.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name   *string
	Avatar *string
}

// RosterUsecase is the data sync engine for the users collection plus the
// roster management operations built on it.
type RosterUsecase interface {
	// GetUsers returns the cached roster (default roster if never initialized).
	GetUsers() []entity.User

	// Subscribe delivers the cached roster immediately, then live remote
	// snapshots. Same disposer semantics as EntryUsecase.Subscribe.
	Subscribe(onChange func([]entity.User)) func()

	// SaveUsers replaces the roster locally and syncs it best-effort to the
	// remote store. Remote failures are logged and swallowed: bulk roster
	// sync assumes eventual consistency.
	SaveUsers(ctx context.Context, users []entity.User) error

	// UpdateProfile applies a partial edit to one user and writes through.
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*entity.User, error)

	// SetActive toggles a user's activation flag. Deactivating the last
	// active user fails with ErrLastActiveUser.
	SetActive(ctx context.Context, id string, active bool) error

	// DeleteUser removes a user from the roster (admin path). The last
	// active user cannot be removed. Historical entries keep the dangling
	// user id.
	DeleteUser(ctx context.Context, id string) error

	// ActiveUserCount returns the number of active users in the cached roster.
	ActiveUserCount() int
}
