package repository

import (
	"context"
	"errors"
)

// ErrDocumentNotFound is returned by GetDocument when no document exists
// under the requested id.
var ErrDocumentNotFound = errors.New("document not found")

// Collection names used by the sync engine.
const (
	CollectionEntries = "entries"
	CollectionUsers   = "users"
)

// Document is a single remote document paired with its id.
type Document struct {
	ID   string
	Data map[string]any
}

// SubscribeOptions controls the ordering of collection snapshots. An empty
// OrderBy subscribes in the store's natural order.
type SubscribeOptions struct {
	OrderBy string
	Desc    bool
}

// UnsubscribeFunc detaches a live collection listener. It does not cancel
// writes already in flight.
type UnsubscribeFunc func()

// RemoteStore wraps a document-oriented remote database. It is a capability
// interface: the underlying store's consistency and transport guarantees are
// outside this contract. Initialization is attempted exactly once per process
// lifetime; a failed initialization permanently disables remote mode for that
// run.
type RemoteStore interface {
	// PutDocument creates or overwrites a document (last write wins).
	PutDocument(ctx context.Context, collection, id string, data map[string]any) error

	// DeleteDocument removes a document. Deleting an absent document is not
	// an error.
	DeleteDocument(ctx context.Context, collection, id string) error

	// GetDocument fetches a single document, or ErrDocumentNotFound.
	GetDocument(ctx context.Context, collection, id string) (Document, error)

	// SubscribeCollection opens a live stream of full-collection snapshots.
	// onSnapshot receives the complete collection on every change, never a
	// delta. Stream failures are reported through onError; the stream does
	// not recover after an error.
	SubscribeCollection(ctx context.Context, collection string, opts SubscribeOptions, onSnapshot func([]Document), onError func(error)) (UnsubscribeFunc, error)
}
