package firestoredb

import (
	"context"
	"log/slog"

	"ibspot/config"
	"ibspot/internal/domain/repository"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Store adapts a Firestore client to the RemoteStore port. Documents travel
// as plain maps so the adapter stays schema-agnostic.
type Store struct {
	client *firestore.Client
	logger *slog.Logger
}

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New creates the Firestore-backed remote store. Initialization happens
// exactly once per process: a missing configuration or a failed bootstrap
// yields a nil store, which callers treat as offline mode for the whole run.
func New(params Params) repository.RemoteStore {
	cfg := params.Config.Firebase
	if cfg == nil || cfg.ProjectID == "" {
		params.Logger.Warn("Firebase is not configured, remote sync disabled")

		return nil
	}

	opts := make([]option.ClientOption, 0, 1)
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		params.Logger.Warn("Failed to initialize Firebase app, running in local mode", slog.Any("error", err))

		return nil
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		params.Logger.Warn("Failed to create Firestore client, running in local mode", slog.Any("error", err))

		return nil
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return &Store{client: client, logger: params.Logger}
}

// PutDocument creates or fully replaces the document.
func (s *Store) PutDocument(ctx context.Context, collection, id string, data map[string]any) error {
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, data); err != nil {
		return errors.Wrapf(err, "failed to write document %s/%s", collection, id)
	}

	return nil
}

// DeleteDocument removes the document. Deleting an absent id succeeds.
func (s *Store) DeleteDocument(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return errors.Wrapf(err, "failed to delete document %s/%s", collection, id)
	}

	return nil
}

// GetDocument fetches one document, mapping the backend's not-found code to
// ErrDocumentNotFound.
func (s *Store) GetDocument(ctx context.Context, collection, id string) (repository.Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return repository.Document{}, repository.ErrDocumentNotFound
		}

		return repository.Document{}, errors.Wrapf(err, "failed to read document %s/%s", collection, id)
	}

	return repository.Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

// SubscribeCollection streams full collection snapshots until the returned
// stop function is called. Stream errors go to onError and end the stream.
func (s *Store) SubscribeCollection(
	ctx context.Context,
	collection string,
	opts repository.SubscribeOptions,
	onSnapshot func([]repository.Document),
	onError func(error),
) (repository.UnsubscribeFunc, error) {
	query := s.client.Collection(collection).Query
	if opts.OrderBy != "" {
		dir := firestore.Asc
		if opts.Desc {
			dir = firestore.Desc
		}
		query = query.OrderBy(opts.OrderBy, dir)
	}

	streamCtx, cancel := context.WithCancel(ctx)
	iter := query.Snapshots(streamCtx)

	go func() {
		for {
			snap, err := iter.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled {
					return
				}
				s.logger.Warn("Snapshot stream ended",
					slog.String("collection", collection), slog.Any("error", err))
				onError(errors.Wrapf(err, "snapshot stream for %s failed", collection))

				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				onError(errors.Wrapf(err, "failed to read snapshot of %s", collection))

				continue
			}

			out := make([]repository.Document, 0, len(docs))
			for _, doc := range docs {
				out = append(out, repository.Document{ID: doc.Ref.ID, Data: doc.Data()})
			}
			onSnapshot(out)
		}
	}()

	return func() {
		cancel()
		iter.Stop()
	}, nil
}
