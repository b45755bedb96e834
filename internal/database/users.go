package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"rufay/internal/models"
)

const userColumns = `id, email, password_hash, role, owner_id`

// GetUserByEmail looks a user up by login email, case-insensitively
func (db *DB) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := db.GetContext(ctx, &u, db.Rebind(`SELECT `+userColumns+` FROM users WHERE email = ?`), strings.ToLower(email))
	if errors.Is(err, sql.ErrNoRows) {
		return u, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return u, fmt.Errorf("failed to load user: %w", err)
	}
	return u, nil
}

func (db *DB) GetUserByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := db.GetContext(ctx, &u, db.Rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return u, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return u, fmt.Errorf("failed to load user: %w", err)
	}
	return u, nil
}

// EmailTaken reports whether any account uses email
func (db *DB) EmailTaken(ctx context.Context, email string) (bool, error) {
	var n int
	if err := db.GetContext(ctx, &n, db.Rebind(`SELECT COUNT(*) FROM users WHERE email = ?`), strings.ToLower(email)); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return n > 0, nil
}

func (db *DB) UpdateUserPassword(ctx context.Context, id, hash string) error {
	if _, err := db.ExecContext(ctx, db.Rebind(`UPDATE users SET password_hash = ? WHERE id = ?`), hash, id); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (db *DB) UpdateUserEmail(ctx context.Context, id, email string) error {
	if _, err := db.ExecContext(ctx, db.Rebind(`UPDATE users SET email = ? WHERE id = ?`), strings.ToLower(email), id); err != nil {
		return fmt.Errorf("failed to update email: %w", err)
	}
	return nil
}

// InsertUser stores a user; emails are kept lower case
func (t *Tx) InsertUser(ctx context.Context, u models.User) error {
	var n int
	if err := t.get(ctx, &n, `SELECT COUNT(*) FROM users WHERE email = ?`, strings.ToLower(u.Email)); err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%s: %w", u.Email, ErrEmailTaken)
	}

	_, err := t.exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?)
	`, u.ID, strings.ToLower(u.Email), u.PasswordHash, u.Role, u.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// ListStaff returns the staff accounts of the owner
func (t *Tx) ListStaff(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := t.selectAll(ctx, &users, `SELECT `+userColumns+` FROM users WHERE owner_id = ? AND role = ? ORDER BY email`,
		t.ownerID, models.RoleStaff)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return users, nil
}
