// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package title manages the works that users review.

A title belongs to at most one category and any number of genres. Its rating
is never stored: every read recomputes it from the current review scores
(see [Rating]).

# Access Control

  - Public: listing, filtering and reading.
  - Admin: create, patch and delete. Deleting a title removes its reviews
    and their comments.
*/
package title

import (
	"context"
	"time"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Domain Entities

// Title is a work as returned to clients.
type Title struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *int              `json:"rating"`
	Description *string           `json:"description"`
	Genres      []*reference.Term `json:"genre"`
	Category    *reference.Term   `json:"category"`
	CategoryID  *int64            `json:"-"`
	CreatedAt   time.Time         `json:"-"`
}

// Filter narrows a title listing. Zero values mean "no filter".
type Filter struct {
	Genre    string // genre slug
	Category string // category slug
	Name     string // case-insensitive substring
	Year     *int
}

// # Inputs

// CreateInput is the payload for a new title. Category and genres are slugs.
type CreateInput struct {
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description *string  `json:"description"`
	Category    string   `json:"category"`
	Genre       []string `json:"genre"`
}

// PatchInput is a partial update. A nil Genre leaves the genre set alone;
// an empty one clears it.
type PatchInput struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

// # Field Identifiers

const (
	FieldName     = "name"
	FieldYear     = "year"
	FieldCategory = "category"
	FieldGenre    = "genre"

	NameMaxLength = 256
)

// # Repository Contracts

// Record is the writable part of a title.
type Record struct {
	ID          int64
	Name        string
	Year        int
	Description *string
	CategoryID  *int64
}

// Repository defines the persistence contract for titles.
type Repository interface {
	/*
		List returns a filtered page of titles with their derived rating.

		Returns:
		  - []*Title: The page, ordered by id
		  - int: Total matching titles
		  - error: Storage failures
	*/
	List(ctx context.Context, filter Filter, params pagination.Params) ([]*Title, int, error)

	// FindByID returns the title with category, genres and rating.
	FindByID(ctx context.Context, id int64) (*Title, error)

	// Exists returns apperr.NotFound when the title is missing.
	Exists(ctx context.Context, id int64) error

	// Create inserts the record and its genre links in one transaction.
	Create(ctx context.Context, record *Record, genreIDs []int64) error

	// Update writes the record. A nil genreIDs keeps the current links.
	Update(ctx context.Context, record *Record, genreIDs []int64) error

	// Delete removes the title; reviews and comments cascade.
	Delete(ctx context.Context, id int64) error
}
