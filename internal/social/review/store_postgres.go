// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed review store.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectReviews joins the author so responses can show the username.
var selectReviews = fmt.Sprintf(`
	SELECT r.%s, r.%s, r.%s, a.%s, r.%s, r.%s, r.%s
	FROM %s r
	JOIN %s a ON a.%s = r.%s`,
	schema.SocialReview.ID, schema.SocialReview.TitleID, schema.SocialReview.AuthorID,
	schema.UserAccount.Username,
	schema.SocialReview.Text, schema.SocialReview.Score, schema.SocialReview.PubDate,
	schema.SocialReview.Table,
	schema.UserAccount.Table, schema.UserAccount.ID, schema.SocialReview.AuthorID,
)

func scanReview(row pgx.Row, extra ...any) (*Review, error) {
	review := &Review{}
	dest := append([]any{
		&review.ID, &review.TitleID, &review.AuthorID, &review.Author,
		&review.Text, &review.Score, &review.PubDate,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return review, nil
}

// List implements [Repository].
func (repository *PostgresRepository) List(ctx context.Context, titleID int64, params pagination.Params) ([]*Review, int, error) {
	query := fmt.Sprintf(`
		SELECT q.*, COUNT(*) OVER() FROM (%s WHERE r.%s = $1) q
		ORDER BY q.%s
		LIMIT $2 OFFSET $3`,
		selectReviews, schema.SocialReview.TitleID, schema.SocialReview.ID,
	)

	rows, err := repository.pool.Query(ctx, query, titleID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_reviews")
	}
	defer rows.Close()

	var (
		reviews []*Review
		total   int
	)
	for rows.Next() {
		review, err := scanReview(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_review")
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_reviews")
	}
	return reviews, total, nil
}

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(ctx context.Context, titleID, reviewID int64) (*Review, error) {
	query := selectReviews + fmt.Sprintf(` WHERE r.%s = $1 AND r.%s = $2`, schema.SocialReview.ID, schema.SocialReview.TitleID)

	review, err := scanReview(repository.pool.QueryRow(ctx, query, reviewID, titleID))
	if err != nil {
		return nil, dberr.WrapFor(err, "find_review", "Review")
	}
	return review, nil
}

// ExistsForAuthor implements [Repository].
func (repository *PostgresRepository) ExistsForAuthor(ctx context.Context, titleID int64, authorID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.SocialReview.Table, schema.SocialReview.TitleID, schema.SocialReview.AuthorID)

	var exists bool
	if err := repository.pool.QueryRow(ctx, query, titleID, authorID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "review_exists_for_author")
	}
	return exists, nil
}

// Create implements [Repository].
func (repository *PostgresRepository) Create(ctx context.Context, review *Review) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s`,
		schema.SocialReview.Table,
		schema.SocialReview.TitleID, schema.SocialReview.AuthorID, schema.SocialReview.Text, schema.SocialReview.Score,
		schema.SocialReview.ID, schema.SocialReview.PubDate,
	)

	err := repository.pool.QueryRow(ctx, query, review.TitleID, review.AuthorID, review.Text, review.Score).
		Scan(&review.ID, &review.PubDate)
	if err != nil {
		if dberr.IsUniqueViolation(err, schema.SocialReview.UniqueTitleAuthor) {
			return ErrDuplicate
		}
		return dberr.Wrap(err, "create_review")
	}
	return nil
}

// Update implements [Repository].
func (repository *PostgresRepository) Update(ctx context.Context, review *Review) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.SocialReview.Table, schema.SocialReview.Text, schema.SocialReview.Score, schema.SocialReview.ID)

	tag, err := repository.pool.Exec(ctx, query, review.ID, review.Text, review.Score)
	if err != nil {
		return dberr.Wrap(err, "update_review")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}
	return nil
}

// Delete implements [Repository].
func (repository *PostgresRepository) Delete(ctx context.Context, reviewID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.SocialReview.Table, schema.SocialReview.ID)

	tag, err := repository.pool.Exec(ctx, query, reviewID)
	if err != nil {
		return dberr.Wrap(err, "delete_review")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}
	return nil
}
