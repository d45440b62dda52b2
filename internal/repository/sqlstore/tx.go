package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// inTx runs fn in a transaction that is committed when fn succeeds and
// rolled back otherwise, including on panic.
func (s *Store) inTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			s.rollback(tx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		s.rollback(tx)
		return err
	}
	return tx.Commit()
}

func (s *Store) rollback(tx *sqlx.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn(err, "rollback failed")
	}
}
