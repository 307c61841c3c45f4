package main

import (
	"context"
	"log/slog"

	"ibspot/config"
	"ibspot/internal/infra/auth"
	"ibspot/internal/infra/auth/firebaseauth"
	"ibspot/internal/infra/insight"
	logs "ibspot/internal/infra/log"
	"ibspot/internal/infra/persistence/firestoredb"
	"ibspot/internal/infra/persistence/localcache"
	"ibspot/internal/usecase"
	"ibspot/internal/usecase/impl"

	"go.uber.org/fx"
)

type startParams struct {
	fx.In
	fx.Lifecycle

	Logger  *slog.Logger
	State   *usecase.SyncContext
	Auth    usecase.AuthUsecase
	Entries usecase.EntryUsecase
	Roster  usecase.RosterUsecase
	Stats   usecase.StatsUsecase
}

func main() {
	fx.New(
		injectInfra(),
		injectService(),
		injectUsecase(),
		fx.Invoke(
			start,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		localcache.New,
		firestoredb.New,
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			firebaseauth.New,
			insight.New,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			usecase.NewSyncContext,
			impl.NewIdentityService,
			impl.NewEntryService,
			impl.NewRosterService,
			impl.NewStatsService,
		),
	)
}

func start(params startParams) {
	params.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			mode := "local"
			if params.State.IsOnline() {
				mode = "remote"
			}
			params.Logger.Info("Tracker started", slog.String("mode", mode))

			return nil
		},
		OnStop: func(_ context.Context) error {
			// The cached session is kept so the next run resumes it.
			params.Logger.Info("Tracker stopped")

			return nil
		},
	})
}
