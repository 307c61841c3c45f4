package usecase

import (
	"context"

	"ibspot/internal/domain/entity"
)

// EntryUsecase is the data sync engine for the entries collection: instant
// cached reads, live remote subscription, and local-first write-through.
type EntryUsecase interface {
	// GetEntries returns the cached entries, most recent first. Local-only,
	// never blocks on the network.
	GetEntries() []entity.IsinEntry

	// Subscribe immediately invokes onChange with the cached snapshot and,
	// when the remote store is reachable, re-invokes it with every live
	// remote snapshot (each snapshot overwrites the local cache). The
	// returned disposer is idempotent and safe to never call.
	Subscribe(onChange func([]entity.IsinEntry)) func()

	// Save writes the entry to the local cache first (optimistic, read-your-
	// own-write even offline) and then attempts a best-effort remote write.
	// A remote failure is reported in the outcome, not as an error, so the
	// caller can warn the user that the record did not leave the device.
	Save(ctx context.Context, entry entity.IsinEntry) (WriteOutcome, error)

	// Delete removes the entry locally and best-effort remotely. Deleting an
	// absent id is not an error.
	Delete(ctx context.Context, id string) (WriteOutcome, error)

	// HasISIN reports whether the code is already present in the cached
	// entries set. Advisory only: Save places no uniqueness constraint and
	// will happily persist duplicates.
	HasISIN(code string) bool
}
