package impl

import (
	"context"
	"log/slog"
	"sync"

	"ibspot/internal/domain/entity"
	domainerrors "ibspot/internal/domain/errors"
	"ibspot/internal/domain/repository"
	"ibspot/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// rosterService implements the RosterUsecase interface: the dual-mode sync
// engine for the users collection plus roster management.
type rosterService struct {
	state  *usecase.SyncContext
	cache  repository.CacheStore
	logger *slog.Logger
}

// RosterServiceParams holds dependencies for the roster service, injected by Fx.
type RosterServiceParams struct {
	fx.In

	State  *usecase.SyncContext
	Cache  repository.CacheStore
	Logger *slog.Logger
}

// NewRosterService is the constructor for rosterService.
func NewRosterService(params RosterServiceParams) usecase.RosterUsecase {
	return &rosterService{
		state:  params.State,
		cache:  params.Cache,
		logger: params.Logger,
	}
}

// GetUsers returns the cached roster.
func (srv *rosterService) GetUsers() []entity.User {
	return srv.cache.ReadUsers()
}

// Subscribe emits the cached roster synchronously and, when online, keeps it
// overwritten by live remote snapshots.
func (srv *rosterService) Subscribe(onChange func([]entity.User)) func() {
	onChange(srv.cache.ReadUsers())

	remote := srv.state.Remote()
	if remote == nil {
		return func() {}
	}

	stop, err := remote.SubscribeCollection(
		context.Background(),
		repository.CollectionUsers,
		repository.SubscribeOptions{},
		func(docs []repository.Document) {
			users := usersFromDocuments(docs)
			srv.cache.WriteUsers(users)
			onChange(users)
		},
		func(err error) {
			srv.logger.Warn("Roster subscription failed, cache stops receiving updates", slog.Any("error", err))
		},
	)
	if err != nil {
		srv.logger.Warn("Failed to open roster subscription", slog.Any("error", err))

		return func() {}
	}

	var once sync.Once

	return func() {
		once.Do(func() { stop() })
	}
}

// SaveUsers replaces the roster locally and syncs every profile best-effort.
// Remote failures are logged and swallowed: bulk roster sync assumes eventual
// consistency, the next snapshot or save reconciles.
func (srv *rosterService) SaveUsers(ctx context.Context, users []entity.User) error {
	srv.cache.WriteUsers(users)

	remote := srv.state.Remote()
	if remote == nil {
		return nil
	}

	for _, user := range users {
		if err := remote.PutDocument(ctx, repository.CollectionUsers, user.ID, userToDocument(user)); err != nil {
			srv.logger.Warn("Remote roster write failed", slog.String("userID", user.ID), slog.Any("error", err))
		}
	}

	return nil
}

// UpdateProfile applies a partial edit to one user and writes through.
func (srv *rosterService) UpdateProfile(ctx context.Context, id string, update usecase.ProfileUpdate) (*entity.User, error) {
	roster := entity.Roster(srv.cache.ReadUsers())
	user := roster.FindByID(id)
	if user == nil {
		return nil, errors.Wrap(domainerrors.ErrUserNotFound, "cannot update unknown user")
	}

	if update.Name != nil && *update.Name != "" {
		user.Name = *update.Name
	}
	if update.Avatar != nil && *update.Avatar != "" {
		user.Avatar = *update.Avatar
	}

	srv.writeThrough(ctx, roster, *user)
	srv.logger.Debug("Updated user profile", slog.String("userID", id))

	return user, nil
}

// SetActive toggles a user's activation flag. Deactivating the last active
// user is rejected so the roster always keeps one active member.
func (srv *rosterService) SetActive(ctx context.Context, id string, active bool) error {
	roster := entity.Roster(srv.cache.ReadUsers())
	user := roster.FindByID(id)
	if user == nil {
		return errors.Wrap(domainerrors.ErrUserNotFound, "cannot toggle unknown user")
	}

	if !active && !roster.CanDeactivate(id) {
		return errors.Wrap(domainerrors.ErrLastActiveUser, "cannot deactivate the last active user")
	}

	user.Active = active
	srv.writeThrough(ctx, roster, *user)
	srv.logger.Info("Toggled user activation", slog.String("userID", id), slog.Bool("active", active))

	return nil
}

// DeleteUser removes a user from the roster (admin path). Historical entries
// keep the dangling user id.
func (srv *rosterService) DeleteUser(ctx context.Context, id string) error {
	roster := entity.Roster(srv.cache.ReadUsers())
	if roster.FindByID(id) == nil {
		return errors.Wrap(domainerrors.ErrUserNotFound, "cannot delete unknown user")
	}
	if !roster.CanDeactivate(id) {
		return errors.Wrap(domainerrors.ErrLastActiveUser, "cannot delete the last active user")
	}

	remaining := make(entity.Roster, 0, len(roster)-1)
	for _, u := range roster {
		if u.ID != id {
			remaining = append(remaining, u)
		}
	}
	srv.cache.WriteUsers(remaining)

	remote := srv.state.Remote()
	if remote != nil {
		if err := remote.DeleteDocument(ctx, repository.CollectionUsers, id); err != nil {
			srv.logger.Warn("Remote roster delete failed", slog.String("userID", id), slog.Any("error", err))
		}
	}
	srv.logger.Info("Deleted user", slog.String("userID", id))

	return nil
}

// ActiveUserCount returns the number of active users in the cached roster.
func (srv *rosterService) ActiveUserCount() int {
	return entity.Roster(srv.cache.ReadUsers()).ActiveCount()
}

// writeThrough persists the full roster locally and syncs the touched profile
// best-effort.
func (srv *rosterService) writeThrough(ctx context.Context, roster entity.Roster, touched entity.User) {
	srv.cache.WriteUsers(roster)

	remote := srv.state.Remote()
	if remote == nil {
		return
	}

	if err := remote.PutDocument(ctx, repository.CollectionUsers, touched.ID, userToDocument(touched)); err != nil {
		srv.logger.Warn("Remote roster write failed", slog.String("userID", touched.ID), slog.Any("error", err))
	}
}
