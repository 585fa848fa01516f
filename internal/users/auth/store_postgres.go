// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
)

// UserColumns is the SELECT list matching [ScanUser].
var UserColumns = strings.Join([]string{
	schema.UserAccount.ID,
	schema.UserAccount.Username,
	schema.UserAccount.Email,
	schema.UserAccount.FirstName,
	schema.UserAccount.LastName,
	schema.UserAccount.Bio,
	schema.UserAccount.Role,
	schema.UserAccount.IsSuperuser,
	schema.UserAccount.ConfirmedAt,
	schema.UserAccount.CreatedAt,
	schema.UserAccount.UpdatedAt,
}, ", ")

// ScanUser reads one row selected with [UserColumns].
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.Role,
		&user.IsSuperuser,
		&user.ConfirmedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// # User Repository

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

func (repository *PostgresUserRepository) findBy(ctx context.Context, column, value, action string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, UserColumns, schema.UserAccount.Table, column)

	user, err := ScanUser(repository.pool.QueryRow(ctx, query, value))
	if err != nil {
		return nil, dberr.WrapFor(err, action, "User")
	}
	return user, nil
}

// FindByID implements [UserRepository].
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return repository.findBy(ctx, schema.UserAccount.ID, id, "find_user_by_id")
}

// FindByUsername implements [UserRepository].
func (repository *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return repository.findBy(ctx, schema.UserAccount.Username, username, "find_user_by_username")
}

// FindByEmail implements [UserRepository].
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return repository.findBy(ctx, schema.UserAccount.Email, email, "find_user_by_email")
}

/*
Create persists a new user record into the users.account table.

A unique violation on username or email surfaces as an apperr Conflict.
*/
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.FirstName, schema.UserAccount.LastName, schema.UserAccount.Bio,
		schema.UserAccount.Role, schema.UserAccount.IsSuperuser,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	_, err := repository.pool.Exec(ctx, query,
		user.ID, user.Username, user.Email,
		user.FirstName, user.LastName, user.Bio,
		user.Role, user.IsSuperuser, now,
	)
	if err != nil {
		return dberr.Wrap(err, "create_user")
	}
	return nil
}

// MarkConfirmed implements [UserRepository]. The first confirmation wins.
func (repository *PostgresUserRepository) MarkConfirmed(ctx context.Context, userID string, at time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = COALESCE(%s, $2), %s = $2 WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.ConfirmedAt, schema.UserAccount.ConfirmedAt,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	tag, err := repository.pool.Exec(ctx, query, userID, at)
	if err != nil {
		return dberr.Wrap(err, "mark_user_confirmed")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}
