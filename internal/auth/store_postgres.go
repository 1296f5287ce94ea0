// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/staybook/internal/platform/database/schema"
	"github.com/taibuivan/staybook/internal/platform/dberr"
)

// emailConstraint is the unique constraint on users.account(email).
const emailConstraint = "account_email_key"

var (
	account = schema.UserAccount

	insertUserQuery = fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		account.Table, account.ColumnList(),
	)
	selectUserByEmailQuery = fmt.Sprintf(
		`SELECT %s FROM %s WHERE %s = $1`,
		account.ColumnList(), account.Table, account.Email,
	)
	selectUserByIDQuery = fmt.Sprintf(
		`SELECT %s FROM %s WHERE %s = $1`,
		account.ColumnList(), account.Table, account.ID,
	)
)

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new user record into the users.account table.
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, insertUserQuery,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		// Concurrent registrations for one email race past the service check;
		// the unique constraint decides.
		if dberr.IsUniqueViolation(err, emailConstraint) {
			return ErrUserExists
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

// FindByEmail retrieves a user record by their unique email address.
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return repository.scanOne(ctx, selectUserByEmailQuery, email)
}

// FindByID retrieves a user record by primary key.
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return repository.scanOne(ctx, selectUserByIDQuery, id)
}

// scanOne runs a single-row query and maps no rows to [ErrUserNotFound].
func (repository *PostgresUserRepository) scanOne(ctx context.Context, query string, argument string) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(ctx, query, argument).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("postgres_user_repo_find_failed: %w", err)
	}

	return user, nil
}
