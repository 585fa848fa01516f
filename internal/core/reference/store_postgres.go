// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// PostgresRepository implements [Repository] for one [Kind].
type PostgresRepository struct {
	pool *pgxpool.Pool
	kind Kind
}

// NewRepository constructs a PostgreSQL backed taxonomy store.
func NewRepository(pool *pgxpool.Pool, kind Kind) *PostgresRepository {
	return &PostgresRepository{pool: pool, kind: kind}
}

func (repository *PostgresRepository) columns() string {
	t := repository.kind.table
	return fmt.Sprintf("%s, %s, %s", t.id, t.title, t.slug)
}

// List implements [Repository].
func (repository *PostgresRepository) List(ctx context.Context, search string, params pagination.Params) ([]*Term, int, error) {
	t := repository.kind.table
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE ($1 = '' OR %s ILIKE '%%' || $1 || '%%' ESCAPE '\')
		ORDER BY %s, %s
		LIMIT $2 OFFSET $3`,
		repository.columns(), t.name, t.title, t.title, t.id,
	)

	rows, err := repository.pool.Query(ctx, query, postgres.EscapeLike(search), params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_terms")
	}
	defer rows.Close()

	var (
		terms []*Term
		total int
	)
	for rows.Next() {
		term := &Term{}
		if err := rows.Scan(&term.ID, &term.Name, &term.Slug, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_term")
		}
		terms = append(terms, term)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_terms")
	}
	return terms, total, nil
}

// FindBySlug implements [Repository].
func (repository *PostgresRepository) FindBySlug(ctx context.Context, slug string) (*Term, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, repository.columns(), repository.kind.table.name, repository.kind.table.slug)

	term := &Term{}
	err := repository.pool.QueryRow(ctx, query, slug).Scan(&term.ID, &term.Name, &term.Slug)
	if err != nil {
		return nil, dberr.WrapFor(err, "find_term", repository.kind.Label)
	}
	return term, nil
}

// FindBySlugs implements [Repository].
func (repository *PostgresRepository) FindBySlugs(ctx context.Context, slugs []string) ([]*Term, error) {
	t := repository.kind.table
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ANY($1) ORDER BY %s`, repository.columns(), t.name, t.slug, t.title)

	rows, err := repository.pool.Query(ctx, query, slugs)
	if err != nil {
		return nil, dberr.Wrap(err, "find_terms")
	}
	defer rows.Close()

	var terms []*Term
	for rows.Next() {
		term := &Term{}
		if err := rows.Scan(&term.ID, &term.Name, &term.Slug); err != nil {
			return nil, dberr.Wrap(err, "scan_term")
		}
		terms = append(terms, term)
	}
	return terms, dberr.Wrap(rows.Err(), "find_terms")
}

// Create implements [Repository].
func (repository *PostgresRepository) Create(ctx context.Context, term *Term) error {
	t := repository.kind.table
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`, t.name, t.title, t.slug, t.id)

	if err := repository.pool.QueryRow(ctx, query, term.Name, term.Slug).Scan(&term.ID); err != nil {
		if dberr.IsUniqueViolation(err, "") {
			return apperr.Conflict(fmt.Sprintf("%s with slug %q already exists", repository.kind.Label, term.Slug))
		}
		return dberr.Wrap(err, "create_term")
	}
	return nil
}

// Delete implements [Repository].
func (repository *PostgresRepository) Delete(ctx context.Context, slug string) error {
	t := repository.kind.table
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.name, t.slug)

	tag, err := repository.pool.Exec(ctx, query, slug)
	if err != nil {
		return dberr.Wrap(err, "delete_term")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(repository.kind.Label)
	}
	return nil
}
