package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/padraicbc/marathon-import/config"
	"github.com/padraicbc/marathon-import/models"
)

// Setup opens a single PostgreSQL connection using the provided config and
// checks that it is reachable.
func Setup(ctx context.Context, cfg *config.Config) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
	// one connection, one transaction for the whole run
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, pgdialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return db, nil
}

// Tables lists the destination models in dependency order.
func Tables() []interface{} {
	return []interface{}{
		(*models.Marathon)(nil),
		(*models.Step)(nil),
		(*models.Participant)(nil),
		(*models.Submission)(nil),
		(*models.Winner)(nil),
	}
}

// CreateTables creates all tables in dependency order. Production schemas are
// owned elsewhere; this is for fresh local databases and tests.
func CreateTables(ctx context.Context, db bun.IDB) error {
	for _, model := range Tables() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().WithForeignKeys().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}
	return nil
}
