// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review manages the scored reviews users write about titles.

# One Review Per Author

An author may review a given title at most once. The service checks first
and answers a clear validation error; the UNIQUE (title_id, author_id)
constraint settles the race between two concurrent creates, and the loser
receives the same error.

# Access Control

  - Public: listing and reading.
  - Authenticated: create.
  - Author, moderator or admin: patch and delete.
*/
package review

import (
	"context"
	"errors"
	"time"

	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Domain Entities

// Review is a user's scored opinion of a title.
type Review struct {
	ID       int64     `json:"id"`
	TitleID  int64     `json:"-"`
	AuthorID string    `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

// # Inputs

// CreateInput is the payload for a new review.
type CreateInput struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

// PatchInput is a partial update of text and score.
type PatchInput struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

// # Field Identifiers

const (
	FieldText  = "text"
	FieldScore = "score"

	// DefaultPageSize is the review listing page size.
	DefaultPageSize = 10

	// URLParam names the review id segment shared with comment routes.
	URLParam = "reviewID"
)

// ErrDuplicate is returned by [Repository.Create] when the author already
// reviewed the title.
var ErrDuplicate = errors.New("review: author already reviewed this title")

// # Repository Contracts

// Repository defines the persistence contract for reviews.
type Repository interface {
	// List returns a page of a title's reviews, oldest first.
	List(ctx context.Context, titleID int64, params pagination.Params) ([]*Review, int, error)

	// FindByID returns apperr.NotFound unless the review belongs to titleID.
	FindByID(ctx context.Context, titleID, reviewID int64) (*Review, error)

	// ExistsForAuthor reports whether authorID already reviewed titleID.
	ExistsForAuthor(ctx context.Context, titleID int64, authorID string) (bool, error)

	// Create inserts the review and fills ID and PubDate. It returns
	// [ErrDuplicate] on the one-review-per-author constraint.
	Create(ctx context.Context, review *Review) error

	// Update writes text and score. PubDate never changes.
	Update(ctx context.Context, review *Review) error

	// Delete removes the review and its comments.
	Delete(ctx context.Context, reviewID int64) error
}

// TitleChecker reports whether a title exists.
type TitleChecker interface {
	Exists(ctx context.Context, id int64) error
}
