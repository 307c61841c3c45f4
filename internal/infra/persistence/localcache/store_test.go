package localcache

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ibspot/config"
	"ibspot/internal/domain/entity"
	"ibspot/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (repository.CacheStore, string) {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{}
	cfg.Cache.Path = dir

	store, err := New(Params{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	return store, dir
}

func TestStore_EntriesRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	// Missing file reads as an empty collection.
	assert.Empty(t, store.ReadEntries())

	entries := []entity.IsinEntry{
		entity.NewIsinEntry("US0378331005", "u1", time.Now()),
		entity.NewIsinEntry("ES0113900J37", "u2", time.Now()),
	}
	store.WriteEntries(entries)

	got := store.ReadEntries()
	require.Len(t, got, 2)
	assert.Equal(t, entries[0].ID, got[0].ID)
	assert.Equal(t, "US0378331005", got[0].ISIN)
}

func TestStore_CorruptFileFallsBackToDefaults(t *testing.T) {
	store, dir := newTestStore(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, entriesFile), []byte("{not json"), 0o644))
	assert.Empty(t, store.ReadEntries())

	require.NoError(t, os.WriteFile(filepath.Join(dir, usersFile), []byte("{not json"), 0o644))
	assert.Len(t, store.ReadUsers(), 4)
}

func TestStore_ReadUsersSeedsDefaultRoster(t *testing.T) {
	store, dir := newTestStore(t)

	users := store.ReadUsers()
	require.Len(t, users, 4)
	assert.Equal(t, "Ana García", users[0].Name)

	// The seeded roster was persisted so the next read hits the file.
	_, err := os.Stat(filepath.Join(dir, usersFile))
	assert.NoError(t, err)
}

func TestStore_ReadUsersDefaultsActiveForLegacyFiles(t *testing.T) {
	store, dir := newTestStore(t)

	// A roster file written before the activation flag existed.
	legacy := `[{"id":"u1","name":"Ana","email":"ana@example.com","role":"user"},
		{"id":"u2","name":"Carlos","active":false,"role":"user"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, usersFile), []byte(legacy), 0o644))

	users := store.ReadUsers()
	require.Len(t, users, 2)
	assert.True(t, users[0].Active)
	assert.False(t, users[1].Active)
}

func TestStore_SessionRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	assert.Nil(t, store.ReadSession())

	user := &entity.User{ID: "local-abc", Name: "Ana", Active: true}
	store.WriteSession(user)

	got := store.ReadSession()
	require.NotNil(t, got)
	assert.Equal(t, "local-abc", got.ID)

	// Clearing twice is harmless.
	store.WriteSession(nil)
	store.WriteSession(nil)
	assert.Nil(t, store.ReadSession())
}

func TestStore_CredentialsRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	creds := store.ReadLocalCredentials()
	assert.NotNil(t, creds)
	assert.Empty(t, creds)

	store.WriteLocalCredentials(map[string]string{"ana@example.com": "$2a$10$hash"})
	got := store.ReadLocalCredentials()
	assert.Equal(t, "$2a$10$hash", got["ana@example.com"])
}

func TestStore_WriteIsAtomic(t *testing.T) {
	store, dir := newTestStore(t)

	store.WriteEntries([]entity.IsinEntry{entity.NewIsinEntry("US0378331005", "u1", time.Now())})

	// No temp file is left behind after a successful write.
	_, err := os.Stat(filepath.Join(dir, entriesFile+".tmp"))
	assert.True(t, os.IsNotExist(err))
}
