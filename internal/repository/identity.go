// Package repository provides persistence implementations for the built-in
// identity backend using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/closetquest/closetquest/internal/models"
)

// PostgresIdentityRepository implements account and user-data persistence
// against a PostgreSQL database.
type PostgresIdentityRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresIdentityRepository creates a new PostgresIdentityRepository with
// the given database connection. db must be a valid *sql.DB connected to a
// PostgreSQL instance.
func NewPostgresIdentityRepository(db *sql.DB) *PostgresIdentityRepository {
	return &PostgresIdentityRepository{DB: db}
}

// EmailTaken checks whether an account with the specified email exists.
// It returns true if the account exists, false otherwise.
func (r *PostgresIdentityRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		email,
	).Scan(&exists)
	return exists, err
}

// CreateUser inserts a new account record.
// Returns any error encountered while executing the insertion.
func (r *PostgresIdentityRepository) CreateUser(ctx context.Context, user *models.User) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO users (id, name, email, password_hash) VALUES ($1, $2, $3, $4)`,
		user.ID, user.Name, user.Email, user.PasswordHash,
	)
	return err
}

// GetUserByEmail fetches the account with the given email.
// Returns sql.ErrNoRows if no such account exists.
func (r *PostgresIdentityRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash FROM users WHERE email = $1
	`, email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertCustomIdentity records the secondary identity for a user. If the
// custom id already exists, only its last-seen timestamp is refreshed.
func (r *PostgresIdentityRepository) UpsertCustomIdentity(ctx context.Context, customID, userID string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO custom_identities (custom_id, user_id, last_seen)
		VALUES ($1, $2, now())
		ON CONFLICT (custom_id) DO UPDATE SET last_seen = now()
	`, customID, userID)
	return err
}

// GetUserData fetches the requested keys from a user's data record.
// Absent keys are omitted from the returned map.
func (r *PostgresIdentityRepository) GetUserData(ctx context.Context, userID string, keys []string) (map[string]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT key, value FROM user_data WHERE user_id = $1 AND key = ANY($2)
	`, userID, pq.Array(keys))
	if err != nil {
		return nil, fmt.Errorf("GetUserData: %w", err)
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetUserData rows: %w", err)
	}
	return data, nil
}

// UpsertUserData writes the given key-value pairs to a user's data record
// within a transaction. Existing keys are overwritten.
func (r *PostgresIdentityRepository) UpsertUserData(ctx context.Context, userID string, data map[string]string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for key, value := range data {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO user_data (user_id, key, value)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, key) DO UPDATE SET value = EXCLUDED.value
		`, userID, key, value)
		if err != nil {
			return fmt.Errorf("upsert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
