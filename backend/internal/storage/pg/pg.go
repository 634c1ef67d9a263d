package pg

import (
	"context"
	"database/sql"

	"github.com/itchan-dev/attachstore/shared/config"
	"github.com/itchan-dev/attachstore/shared/logger"
	sharedpg "github.com/itchan-dev/attachstore/shared/storage/pg"
)

type Storage struct {
	db *sql.DB
	q  sharedpg.Querier
}

func New(ctx context.Context, cfg *config.Config) (*Storage, error) {
	logger.Log.Info("connecting to db", "host", cfg.Private.Pg.Host, "port", cfg.Private.Pg.Port, "dbname", cfg.Private.Pg.Dbname)
	db, err := sharedpg.Connect(ctx, cfg.Private.Pg, sharedpg.DefaultConnectionConfig())
	if err != nil {
		return nil, err
	}
	logger.Log.Info("successfully connected to db")
	return &Storage{db: db, q: db}, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}
