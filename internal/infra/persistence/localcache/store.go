package localcache

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"ibspot/config"
	"ibspot/internal/domain/entity"
	"ibspot/internal/domain/repository"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	entriesFile     = "entries.json"
	usersFile       = "users.json"
	sessionFile     = "session.json"
	credentialsFile = "credentials.json"
)

// Store is the JSON file cache backing every read in the system. It honors
// the CacheStore contract: reads fall back to defaults and writes log
// failures instead of surfacing them, so callers never deal with storage
// errors.
type Store struct {
	dir    string
	logger *slog.Logger
	mu     sync.Mutex
}

// Params defines the required parameters
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// New creates the file cache under the configured directory.
func New(params Params) (repository.CacheStore, error) {
	dir := params.Config.Cache.Path
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create cache directory")
	}

	return &Store{dir: dir, logger: params.Logger}, nil
}

// cachedEntry is the on-disk shape of an entry; the file format predates
// this implementation and uses camelCase keys.
type cachedEntry struct {
	ID        string `json:"id"`
	ISIN      string `json:"isin"`
	UserID    string `json:"userId"`
	Timestamp int64  `json:"timestamp"`
	DateStr   string `json:"dateStr"`
}

// ReadEntries returns the cached entries, or an empty slice when the file is
// missing or unreadable.
func (s *Store) ReadEntries() []entity.IsinEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cached []cachedEntry
	if !s.readJSON(entriesFile, &cached) {
		return []entity.IsinEntry{}
	}

	entries := make([]entity.IsinEntry, 0, len(cached))
	for _, c := range cached {
		entries = append(entries, entity.IsinEntry{
			ID:        c.ID,
			ISIN:      c.ISIN,
			UserID:    c.UserID,
			Timestamp: c.Timestamp,
			DateStr:   c.DateStr,
		})
	}

	return entries
}

// WriteEntries replaces the cached entries.
func (s *Store) WriteEntries(entries []entity.IsinEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cached := make([]cachedEntry, 0, len(entries))
	for _, e := range entries {
		cached = append(cached, cachedEntry{
			ID:        e.ID,
			ISIN:      e.ISIN,
			UserID:    e.UserID,
			Timestamp: e.Timestamp,
			DateStr:   e.DateStr,
		})
	}
	s.writeJSON(entriesFile, cached)
}

// cachedUser tolerates roster files written before the activation flag
// existed: an absent "active" decodes as true.
type cachedUser struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar"`
	Active *bool  `json:"active"`
	Role   string `json:"role"`
}

func (c cachedUser) toUser() entity.User {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return entity.User{
		ID:     c.ID,
		Name:   c.Name,
		Email:  c.Email,
		Avatar: c.Avatar,
		Active: active,
		Role:   c.Role,
	}
}

func userToCached(u entity.User) cachedUser {
	active := u.Active

	return cachedUser{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
		Active: &active,
		Role:   u.Role,
	}
}

func usersToCached(users []entity.User) []cachedUser {
	cached := make([]cachedUser, 0, len(users))
	for _, u := range users {
		cached = append(cached, userToCached(u))
	}

	return cached
}

// ReadUsers returns the cached roster. A missing or unreadable file seeds
// the default roster and persists it so first launch works offline.
func (s *Store) ReadUsers() []entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cached []cachedUser
	if !s.readJSON(usersFile, &cached) || len(cached) == 0 {
		roster := entity.DefaultRoster()
		s.writeJSON(usersFile, usersToCached(roster))

		return roster
	}

	users := make([]entity.User, 0, len(cached))
	for _, c := range cached {
		users = append(users, c.toUser())
	}

	return users
}

// WriteUsers replaces the cached roster.
func (s *Store) WriteUsers(users []entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writeJSON(usersFile, usersToCached(users))
}

// ReadSession returns the persisted local session, or nil when none exists.
func (s *Store) ReadSession() *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cached cachedUser
	if !s.readJSON(sessionFile, &cached) || cached.ID == "" {
		return nil
	}
	user := cached.toUser()

	return &user
}

// WriteSession persists the local session. A nil user clears it.
func (s *Store) WriteSession(user *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user == nil {
		if err := os.Remove(filepath.Join(s.dir, sessionFile)); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("Failed to clear cached session", slog.Any("error", err))
		}

		return
	}

	s.writeJSON(sessionFile, userToCached(*user))
}

// ReadLocalCredentials returns the stored email-to-hash map, never nil.
func (s *Store) ReadLocalCredentials() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds := make(map[string]string)
	if !s.readJSON(credentialsFile, &creds) || creds == nil {
		return map[string]string{}
	}

	return creds
}

// WriteLocalCredentials replaces the stored credential map.
func (s *Store) WriteLocalCredentials(creds map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writeJSON(credentialsFile, creds)
}

// readJSON reports whether the file was decoded successfully. Corruption is
// logged and treated as absence.
func (s *Store) readJSON(name string, out any) bool {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Failed to read cache file", slog.String("file", name), slog.Any("error", err))
		}

		return false
	}

	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Warn("Discarding corrupt cache file", slog.String("file", name), slog.Any("error", err))

		return false
	}

	return true
}

// writeJSON persists atomically via a temp file rename.
func (s *Store) writeJSON(name string, in any) {
	raw, err := json.Marshal(in)
	if err != nil {
		s.logger.Warn("Failed to encode cache file", slog.String("file", name), slog.Any("error", err))

		return
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		s.logger.Warn("Failed to write cache file", slog.String("file", name), slog.Any("error", err))

		return
	}
	if err := os.Rename(tmp, path); err != nil {
		s.logger.Warn("Failed to replace cache file", slog.String("file", name), slog.Any("error", err))
	}
}
