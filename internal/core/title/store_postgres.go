// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed title store.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
selectTitles is the read projection shared by List and FindByID.

Genres are aggregated into a JSON array and the mean score is computed in
the same statement, so a title and its rating always come from one snapshot.
*/
var selectTitles = fmt.Sprintf(`
	SELECT
		t.%s, t.%s, t.%s, t.%s, t.%s, t.%s,
		c.%s, c.%s,
		COALESCE((
			SELECT json_agg(json_build_object('name', g.%s, 'slug', g.%s) ORDER BY g.%s)
			FROM %s g
			JOIN %s tg ON tg.%s = g.%s
			WHERE tg.%s = t.%s
		), '[]') AS genres,
		(SELECT AVG(r.%s)::float8 FROM %s r WHERE r.%s = t.%s) AS mean_score,
		COUNT(*) OVER() AS total_count
	FROM %s t
	LEFT JOIN %s c ON c.%s = t.%s
	WHERE TRUE`,
	schema.CoreTitle.ID, schema.CoreTitle.Name, schema.CoreTitle.Year,
	schema.CoreTitle.Description, schema.CoreTitle.CategoryID, schema.CoreTitle.CreatedAt,
	schema.CoreCategory.Name, schema.CoreCategory.Slug,
	schema.CoreGenre.Name, schema.CoreGenre.Slug, schema.CoreGenre.Name,
	schema.CoreGenre.Table,
	schema.CoreTitleGenre.Table, schema.CoreTitleGenre.GenreID, schema.CoreGenre.ID,
	schema.CoreTitleGenre.TitleID, schema.CoreTitle.ID,
	schema.SocialReview.Score, schema.SocialReview.Table, schema.SocialReview.TitleID, schema.CoreTitle.ID,
	schema.CoreTitle.Table,
	schema.CoreCategory.Table, schema.CoreCategory.ID, schema.CoreTitle.CategoryID,
)

func scanTitle(row pgx.Row) (*Title, int, error) {
	var (
		title        Title
		categoryName *string
		categorySlug *string
		genres       []byte
		meanScore    *float64
		total        int
	)

	err := row.Scan(
		&title.ID, &title.Name, &title.Year,
		&title.Description, &title.CategoryID, &title.CreatedAt,
		&categoryName, &categorySlug,
		&genres, &meanScore, &total,
	)
	if err != nil {
		return nil, 0, err
	}

	if categorySlug != nil {
		title.Category = &reference.Term{Name: *categoryName, Slug: *categorySlug}
	}
	if err := json.Unmarshal(genres, &title.Genres); err != nil {
		return nil, 0, fmt.Errorf("decode genres: %w", err)
	}
	title.Rating = Rating(meanScore)

	return &title, total, nil
}

// List implements [Repository].
func (repository *PostgresRepository) List(ctx context.Context, filter Filter, params pagination.Params) ([]*Title, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(selectTitles)

	// Genre slug filter
	if filter.Genre != "" {
		queryBuilder.WriteString(fmt.Sprintf(`
		AND EXISTS (
			SELECT 1 FROM %s tg JOIN %s g ON g.%s = tg.%s
			WHERE tg.%s = t.%s AND g.%s = $%d
		)`,
			schema.CoreTitleGenre.Table, schema.CoreGenre.Table, schema.CoreGenre.ID, schema.CoreTitleGenre.GenreID,
			schema.CoreTitleGenre.TitleID, schema.CoreTitle.ID, schema.CoreGenre.Slug, argID,
		))
		args = append(args, filter.Genre)
		argID++
	}

	// Category slug filter
	if filter.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.%s = $%d", schema.CoreCategory.Slug, argID))
		args = append(args, filter.Category)
		argID++
	}

	// Name substring filter
	if filter.Name != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND t.%s ILIKE '%%' || $%d || '%%' ESCAPE '\'`, schema.CoreTitle.Name, argID))
		args = append(args, postgres.EscapeLike(filter.Name))
		argID++
	}

	// Year filter
	if filter.Year != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.%s = $%d", schema.CoreTitle.Year, argID))
		args = append(args, *filter.Year)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY t.%s LIMIT $%d OFFSET $%d", schema.CoreTitle.ID, argID, argID+1))
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_titles")
	}
	defer rows.Close()

	var (
		titles []*Title
		total  int
	)
	for rows.Next() {
		title, count, err := scanTitle(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_title")
		}
		titles = append(titles, title)
		total = count
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_titles")
	}

	return titles, total, nil
}

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(ctx context.Context, id int64) (*Title, error) {
	query := selectTitles + fmt.Sprintf(" AND t.%s = $1", schema.CoreTitle.ID)

	title, _, err := scanTitle(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.WrapFor(err, "find_title", "Title")
	}
	return title, nil
}

// Exists implements [Repository].
func (repository *PostgresRepository) Exists(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, schema.CoreTitle.Table, schema.CoreTitle.ID)

	var exists bool
	if err := repository.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return dberr.Wrap(err, "title_exists")
	}
	if !exists {
		return apperr.NotFound("Title")
	}
	return nil
}

// Create implements [Repository].
func (repository *PostgresRepository) Create(ctx context.Context, record *Record, genreIDs []int64) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`,
		schema.CoreTitle.Table,
		schema.CoreTitle.Name, schema.CoreTitle.Year, schema.CoreTitle.Description, schema.CoreTitle.CategoryID,
		schema.CoreTitle.ID,
	)

	return postgres.InTx(ctx, repository.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, query, record.Name, record.Year, record.Description, record.CategoryID).Scan(&record.ID)
		if err != nil {
			return dberr.Wrap(err, "create_title")
		}
		return replaceGenres(ctx, tx, record.ID, genreIDs)
	})
}

// Update implements [Repository].
func (repository *PostgresRepository) Update(ctx context.Context, record *Record, genreIDs []int64) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1`,
		schema.CoreTitle.Table,
		schema.CoreTitle.Name, schema.CoreTitle.Year, schema.CoreTitle.Description, schema.CoreTitle.CategoryID,
		schema.CoreTitle.ID,
	)

	return postgres.InTx(ctx, repository.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, record.ID, record.Name, record.Year, record.Description, record.CategoryID)
		if err != nil {
			return dberr.Wrap(err, "update_title")
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("Title")
		}
		if genreIDs == nil {
			return nil
		}
		return replaceGenres(ctx, tx, record.ID, genreIDs)
	})
}

// replaceGenres swaps the title's genre links inside tx using one batch.
func replaceGenres(ctx context.Context, tx pgx.Tx, titleID int64, genreIDs []int64) error {
	batch := &pgx.Batch{}
	batch.Queue(fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreTitleGenre.Table, schema.CoreTitleGenre.TitleID), titleID)

	insert := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		schema.CoreTitleGenre.Table, schema.CoreTitleGenre.TitleID, schema.CoreTitleGenre.GenreID)
	for _, genreID := range genreIDs {
		batch.Queue(insert, titleID, genreID)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return dberr.Wrap(err, "replace_title_genres")
	}
	return nil
}

// Delete implements [Repository].
func (repository *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreTitle.Table, schema.CoreTitle.ID)

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_title")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Title")
	}
	return nil
}
