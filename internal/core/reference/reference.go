// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reference manages the taxonomies that titles are filed under.

Categories and genres share one shape (name plus a unique slug) and one
lifecycle: list, create, delete. Neither supports update. The slug is the
lookup key on every route.

# Access Control

  - Public: listing and search.
  - Admin: create and delete.
*/
package reference

import (
	"context"

	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Domain Entities

// Term is a category or a genre.
type Term struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Kind describes one taxonomy: how it is named in errors, which access
// resource guards it and where it is stored.
type Kind struct {
	Label    string
	Resource access.Resource
	table    termTable
}

type termTable struct {
	name, id, title, slug string
}

var (
	// Categories is the single-valued title classification ("Films", "Books").
	Categories = Kind{
		Label:    "Category",
		Resource: access.Categories,
		table:    termTable{schema.CoreCategory.Table, schema.CoreCategory.ID, schema.CoreCategory.Name, schema.CoreCategory.Slug},
	}

	// Genres is the multi-valued title classification.
	Genres = Kind{
		Label:    "Genre",
		Resource: access.Genres,
		table:    termTable{schema.CoreGenre.Table, schema.CoreGenre.ID, schema.CoreGenre.Name, schema.CoreGenre.Slug},
	}
)

// # Field Identifiers

const (
	FieldName = "name"
	FieldSlug = "slug"

	NameMaxLength = 256
	SlugMaxLength = 50
)

// # Repository Contracts

// Repository defines the data access contract for one taxonomy.
type Repository interface {
	/*
		List returns a page of terms ordered by name.

		Parameters:
		  - ctx: context.Context
		  - search: string (case-insensitive substring of name, may be empty)
		  - params: pagination.Params

		Returns:
		  - []*Term: The page
		  - int: Total matching terms
		  - error: Storage failures
	*/
	List(ctx context.Context, search string, params pagination.Params) ([]*Term, int, error)

	// FindBySlug returns apperr.NotFound when no term carries slug.
	FindBySlug(ctx context.Context, slug string) (*Term, error)

	// FindBySlugs returns the terms for the given slugs, skipping unknown ones.
	FindBySlugs(ctx context.Context, slugs []string) ([]*Term, error)

	// Create inserts a term. A duplicate slug surfaces as apperr.Conflict.
	Create(ctx context.Context, term *Term) error

	// Delete removes a term by slug.
	Delete(ctx context.Context, slug string) error
}
