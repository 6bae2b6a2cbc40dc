package main

import (
	"context"
	"fmt"

	"github.com/atinyakov/GophNotes/internal/config"
	"github.com/atinyakov/GophNotes/internal/db"
	"github.com/atinyakov/GophNotes/internal/repository"
	"github.com/atinyakov/GophNotes/internal/server/handler/http"
	"github.com/atinyakov/GophNotes/internal/service"
	"go.uber.org/zap"
)

// store bundles the repositories of one backend with its lifecycle hooks.
type store struct {
	users  service.UserRepository
	notes  service.NoteRepository
	pinger http.Pinger
	close  func() error
}

func openStore(ctx context.Context, options *config.Options, log *zap.Logger) (*store, error) {
	switch options.Storage {
	case config.StoragePostgres:
		pg, err := db.InitPostgres(ctx, options.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		log.Info("using postgres store")
		return &store{
			users:  repository.NewPostgresUserRepository(pg),
			notes:  repository.NewPostgresNoteRepository(pg),
			pinger: pg,
			close:  pg.Close,
		}, nil

	case config.StorageSQLite:
		lite, err := db.InitSQLite(ctx, options.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("using sqlite store", zap.String("path", options.SQLitePath))
		return &store{
			users:  repository.NewSQLiteUserRepository(lite),
			notes:  repository.NewSQLiteNoteRepository(lite),
			pinger: lite,
			close:  lite.Close,
		}, nil

	case config.StorageMemory:
		log.Warn("using in-memory store; data is lost on exit")
		users := repository.NewMemoryUserRepository()
		return &store{
			users:  users,
			notes:  repository.NewMemoryNoteRepository(),
			pinger: users,
			close:  func() error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage %q", options.Storage)
	}
}
