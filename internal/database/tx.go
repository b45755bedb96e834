package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"rufay/internal/models"
)

// Tx is one owner-scoped transaction. Every query it runs is filtered by the owner id.
type Tx struct {
	tx      *sqlx.Tx
	ownerID string
}

// OwnerID returns the owner whose data the transaction reads and writes
func (t *Tx) OwnerID() string {
	return t.ownerID
}

func (t *Tx) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return t.tx.ExecContext(ctx, t.tx.Rebind(query), args...)
}

func (t *Tx) get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	err := t.tx.GetContext(ctx, dest, t.tx.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (t *Tx) selectAll(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return t.tx.SelectContext(ctx, dest, t.tx.Rebind(query), args...)
}

// InOwnerTx runs fn in a transaction that holds the owner's settings row lock.
// The owner's data version is bumped when fn succeeds; any error rolls everything back.
func (db *DB) InOwnerTx(ctx context.Context, ownerID string, fn func(*Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	t := &Tx{tx: tx, ownerID: ownerID}
	if _, err := t.lockOwner(ctx, db.lockClause()); err != nil {
		return err
	}

	if err := fn(t); err != nil {
		return err
	}

	if _, err := t.exec(ctx, `UPDATE owner_settings SET version = version + 1 WHERE owner_id = ?`, ownerID); err != nil {
		return fmt.Errorf("failed to bump data version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// View runs read-only work against one owner's data in a single transaction
func (db *DB) View(ctx context.Context, ownerID string, fn func(*Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	return fn(&Tx{tx: tx, ownerID: ownerID})
}

func (t *Tx) lockOwner(ctx context.Context, lock string) (int64, error) {
	var version int64
	err := t.get(ctx, &version, `SELECT version FROM owner_settings WHERE owner_id = ?`+lock, t.ownerID)
	if errors.Is(err, ErrNotFound) {
		return 0, fmt.Errorf("owner %s: %w", t.ownerID, ErrOwnerNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to lock owner: %w", err)
	}
	return version, nil
}

// Version returns the owner's current data version
func (t *Tx) Version(ctx context.Context) (int64, error) {
	return t.lockOwner(ctx, "")
}

// CreateOwner registers an admin user together with their settings row
func (db *DB) CreateOwner(ctx context.Context, user models.User, settings models.Settings) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	t := &Tx{tx: tx, ownerID: user.OwnerID}
	if err := t.InsertUser(ctx, user); err != nil {
		return err
	}
	if err := t.insertSettings(ctx, settings, 0); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
