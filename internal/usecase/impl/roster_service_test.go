package impl

import (
	"context"
	"testing"

	"ibspot/internal/domain/entity"
	domainerrors "ibspot/internal/domain/errors"
	"ibspot/internal/domain/repository"
	"ibspot/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRosterService(state *usecase.SyncContext, cache *fakeCache) usecase.RosterUsecase {
	return NewRosterService(RosterServiceParams{
		State:  state,
		Cache:  cache,
		Logger: testLogger(),
	})
}

func TestRosterService_GetUsersSeedsDefaults(t *testing.T) {
	srv := newRosterService(usecase.NewSyncContext(nil, nil), newFakeCache())

	users := srv.GetUsers()
	assert.Len(t, users, 4)
	assert.Equal(t, 4, srv.ActiveUserCount())
}

func TestRosterService_SaveUsersSwallowsRemoteErrors(t *testing.T) {
	cache := newFakeCache()
	remote := newFakeRemote()
	remote.putErr = errors.New("backend down")
	srv := newRosterService(usecase.NewSyncContext(remote, nil), cache)

	users := []entity.User{{ID: "u1", Name: "Ana", Active: true}}
	err := srv.SaveUsers(context.Background(), users)

	// Bulk roster sync is eventually consistent: the local write stands and
	// the remote failure is not surfaced.
	require.NoError(t, err)
	assert.Equal(t, "Ana", cache.ReadUsers()[0].Name)
}

func TestRosterService_UpdateProfile(t *testing.T) {
	cache := newFakeCache()
	remote := newFakeRemote()
	srv := newRosterService(usecase.NewSyncContext(remote, nil), cache)

	name := "Ana María"
	updated, err := srv.UpdateProfile(context.Background(), "u1", usecase.ProfileUpdate{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "Ana María", updated.Name)
	assert.Equal(t, "Ana María", entity.Roster(cache.ReadUsers()).FindByID("u1").Name)
	assert.Contains(t, remote.puts, "users/u1")

	// Empty pointer fields leave the profile untouched.
	empty := ""
	same, err := srv.UpdateProfile(context.Background(), "u1", usecase.ProfileUpdate{Name: &empty})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", same.Name)

	_, err = srv.UpdateProfile(context.Background(), "missing", usecase.ProfileUpdate{})
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestRosterService_SetActiveGuardsLastActiveUser(t *testing.T) {
	cache := newFakeCache()
	cache.WriteUsers([]entity.User{
		{ID: "u1", Name: "Ana", Active: true},
		{ID: "u2", Name: "Carlos", Active: false},
	})
	srv := newRosterService(usecase.NewSyncContext(nil, nil), cache)

	err := srv.SetActive(context.Background(), "u1", false)
	assert.True(t, errors.Is(err, domainerrors.ErrLastActiveUser))
	assert.True(t, entity.Roster(cache.ReadUsers()).FindByID("u1").Active)

	require.NoError(t, srv.SetActive(context.Background(), "u2", true))
	require.NoError(t, srv.SetActive(context.Background(), "u1", false))
	assert.Equal(t, 1, srv.ActiveUserCount())
}

func TestRosterService_DeleteUser(t *testing.T) {
	cache := newFakeCache()
	remote := newFakeRemote()
	srv := newRosterService(usecase.NewSyncContext(remote, nil), cache)

	require.NoError(t, srv.DeleteUser(context.Background(), "u2"))
	assert.Len(t, srv.GetUsers(), 3)
	assert.Contains(t, remote.deletes, "users/u2")

	err := srv.DeleteUser(context.Background(), "missing")
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestRosterService_DeleteUserGuardsLastActiveUser(t *testing.T) {
	cache := newFakeCache()
	cache.WriteUsers([]entity.User{{ID: "u1", Name: "Ana", Active: true}})
	srv := newRosterService(usecase.NewSyncContext(nil, nil), cache)

	err := srv.DeleteUser(context.Background(), "u1")
	assert.True(t, errors.Is(err, domainerrors.ErrLastActiveUser))
	assert.Len(t, srv.GetUsers(), 1)
}

func TestRosterService_SubscribeReflectsRemoteSnapshots(t *testing.T) {
	cache := newFakeCache()
	remote := newFakeRemote()
	srv := newRosterService(usecase.NewSyncContext(remote, nil), cache)

	var snapshots [][]entity.User
	cancel := srv.Subscribe(func(users []entity.User) {
		snapshots = append(snapshots, users)
	})
	defer cancel()

	// Cached roster first.
	require.Len(t, snapshots, 1)
	assert.Len(t, snapshots[0], 4)

	remote.push(repository.CollectionUsers, []repository.Document{
		{ID: "uid1", Data: map[string]any{"name": "Nora", "email": "nora@example.com", "active": true, "role": "user"}},
	})

	require.Len(t, snapshots, 2)
	assert.Equal(t, "Nora", snapshots[1][0].Name)
	assert.Len(t, cache.ReadUsers(), 1)
}
