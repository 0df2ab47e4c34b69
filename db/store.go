package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Inserter bulk-inserts rows, a pointer to a slice of models, in one statement.
type Inserter interface {
	InsertRows(ctx context.Context, rows any) error
}

// Store runs an import inside one transaction on a bun database.
type Store struct {
	db *bun.DB
}

// NewStore wraps db.
func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

// InTx calls fn with an Inserter bound to a new transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, ins Inserter) error) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, txInserter{tx: tx})
	})
}

type txInserter struct {
	tx bun.Tx
}

func (t txInserter) InsertRows(ctx context.Context, rows any) error {
	if _, err := t.tx.NewInsert().Model(rows).Exec(ctx); err != nil {
		return fmt.Errorf("insert %T: %w", rows, err)
	}
	return nil
}
