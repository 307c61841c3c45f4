package impl

import (
	"context"
	"log/slog"
	"sync"

	"ibspot/internal/domain/entity"
	domainerrors "ibspot/internal/domain/errors"
	"ibspot/internal/domain/repository"
	"ibspot/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// entryService implements the EntryUsecase interface: the dual-mode sync
// engine for the entries collection.
type entryService struct {
	state    *usecase.SyncContext
	cache    repository.CacheStore
	validate *validator.Validate
	logger   *slog.Logger
}

// EntryServiceParams holds dependencies for the entry service, injected by Fx.
type EntryServiceParams struct {
	fx.In

	State  *usecase.SyncContext
	Cache  repository.CacheStore
	Logger *slog.Logger
}

// NewEntryService is the constructor for entryService.
func NewEntryService(params EntryServiceParams) usecase.EntryUsecase {
	return &entryService{
		state:    params.State,
		cache:    params.Cache,
		validate: validator.New(),
		logger:   params.Logger,
	}
}

// GetEntries returns the cached entries, most recent first.
func (srv *entryService) GetEntries() []entity.IsinEntry {
	return srv.cache.ReadEntries()
}

// Subscribe emits the cached snapshot synchronously and, when online, opens a
// live remote subscription ordered by creation timestamp descending. Every
// remote snapshot overwrites the local cache in full (last snapshot wins).
//
// Known eventual-consistency window: a snapshot that arrives while an
// optimistic local write is still in flight can transiently hide that entry
// until the write completes and the next snapshot includes it.
func (srv *entryService) Subscribe(onChange func([]entity.IsinEntry)) func() {
	onChange(srv.cache.ReadEntries())

	remote := srv.state.Remote()
	if remote == nil {
		return func() {}
	}

	stop, err := remote.SubscribeCollection(
		context.Background(),
		repository.CollectionEntries,
		repository.SubscribeOptions{OrderBy: "timestamp", Desc: true},
		func(docs []repository.Document) {
			entries := entriesFromDocuments(docs)
			srv.cache.WriteEntries(entries)
			onChange(entries)
		},
		func(err error) {
			srv.logger.Warn("Entries subscription failed, cache stops receiving updates", slog.Any("error", err))
		},
	)
	if err != nil {
		srv.logger.Warn("Failed to open entries subscription", slog.Any("error", err))

		return func() {}
	}

	var once sync.Once

	return func() {
		once.Do(func() { stop() })
	}
}

// Save performs the local-first write-through. The entry is visible to
// GetEntries and subscription callbacks before any remote round trip
// completes; the remote half is best-effort and reported in the outcome so
// entry creation can warn the user when the record did not leave the device.
func (srv *entryService) Save(ctx context.Context, entry entity.IsinEntry) (usecase.WriteOutcome, error) {
	outcome := usecase.WriteOutcome{Local: usecase.LocalOK}

	entry.ISIN = entity.NormalizeISIN(entry.ISIN)
	if err := srv.validate.Var(entry.ISIN, "required,alphanum,min=8"); err != nil {
		return outcome, errors.Wrap(domainerrors.ErrValidationFailed, "invalid ISIN code")
	}
	if entry.UserID == "" {
		return outcome, errors.Wrap(domainerrors.ErrValidationFailed, "entry requires an owning user")
	}

	// Optimistic local write: prepend, keeping most-recent-first order.
	entries := srv.cache.ReadEntries()
	updated := make([]entity.IsinEntry, 0, len(entries)+1)
	updated = append(updated, entry)
	updated = append(updated, entries...)
	srv.cache.WriteEntries(updated)

	remote := srv.state.Remote()
	if remote == nil {
		outcome.Remote = usecase.RemoteSkipped

		return outcome, nil
	}

	if err := remote.PutDocument(ctx, repository.CollectionEntries, entry.ID, entryToDocument(entry)); err != nil {
		srv.logger.Warn("Remote entry write failed", slog.String("entryID", entry.ID), slog.Any("error", err))
		outcome.Remote = usecase.RemoteFailed
		outcome.RemoteErr = errors.Wrap(domainerrors.ErrRemoteWrite, err.Error())

		return outcome, nil
	}

	outcome.Remote = usecase.RemoteOK

	return outcome, nil
}

// Delete removes the entry locally first, then best-effort remotely.
// Idempotent: deleting an absent id succeeds on both sides.
func (srv *entryService) Delete(ctx context.Context, id string) (usecase.WriteOutcome, error) {
	outcome := usecase.WriteOutcome{Local: usecase.LocalOK}

	entries := srv.cache.ReadEntries()
	remaining := make([]entity.IsinEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			remaining = append(remaining, e)
		}
	}
	srv.cache.WriteEntries(remaining)

	remote := srv.state.Remote()
	if remote == nil {
		outcome.Remote = usecase.RemoteSkipped

		return outcome, nil
	}

	if err := remote.DeleteDocument(ctx, repository.CollectionEntries, id); err != nil {
		srv.logger.Warn("Remote entry delete failed", slog.String("entryID", id), slog.Any("error", err))
		outcome.Remote = usecase.RemoteFailed
		outcome.RemoteErr = errors.Wrap(domainerrors.ErrRemoteWrite, err.Error())

		return outcome, nil
	}

	outcome.Remote = usecase.RemoteOK

	return outcome, nil
}

// HasISIN reports whether the normalized code is present in the cached set.
// Advisory only; Save enforces no uniqueness.
func (srv *entryService) HasISIN(code string) bool {
	normalized := entity.NormalizeISIN(code)
	for _, e := range srv.cache.ReadEntries() {
		if e.ISIN == normalized {
			return true
		}
	}

	return false
}
