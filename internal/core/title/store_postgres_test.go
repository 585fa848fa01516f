// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/postgres/pgtest"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

// catalogue holds the rows seeded by seedCatalogue.
type catalogue struct {
	categories *reference.PostgresRepository
	genres     *reference.PostgresRepository
	titles     *title.PostgresRepository

	heat, theHeat, dune, wolf int64
}

func seedCatalogue(t *testing.T, pool *pgxpool.Pool) catalogue {
	t.Helper()
	ctx := context.Background()

	c := catalogue{
		categories: reference.NewRepository(pool, reference.Categories),
		genres:     reference.NewRepository(pool, reference.Genres),
		titles:     title.NewRepository(pool),
	}

	films := &reference.Term{Name: "Films", Slug: "films"}
	books := &reference.Term{Name: "Books", Slug: "books"}
	require.NoError(t, c.categories.Create(ctx, films))
	require.NoError(t, c.categories.Create(ctx, books))

	drama := &reference.Term{Name: "Drama", Slug: "drama"}
	comedy := &reference.Term{Name: "Comedy", Slug: "comedy"}
	scifi := &reference.Term{Name: "Science Fiction", Slug: "sci-fi"}
	for _, genre := range []*reference.Term{drama, comedy, scifi} {
		require.NoError(t, c.genres.Create(ctx, genre))
	}

	create := func(name string, year int, category *reference.Term, genres ...*reference.Term) int64 {
		record := &title.Record{Name: name, Year: year}
		if category != nil {
			record.CategoryID = pointer.To(category.ID)
		}
		ids := make([]int64, 0, len(genres))
		for _, genre := range genres {
			ids = append(ids, genre.ID)
		}
		require.NoError(t, c.titles.Create(ctx, record, ids))
		return record.ID
	}

	c.heat = create("Heat", 1995, films, drama)
	c.theHeat = create("The Heat", 2013, films, comedy)
	c.dune = create("Dune", 1965, books, drama, scifi)
	c.wolf = create("100% Wolf", 2020, nil)

	return c
}

func listNames(t *testing.T, titles *title.PostgresRepository, filter title.Filter) ([]string, int) {
	t.Helper()

	listed, total, err := titles.List(context.Background(), filter, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)

	names := make([]string, 0, len(listed))
	for _, item := range listed {
		names = append(names, item.Name)
	}
	return names, total
}

/*
TestPostgres_ListFilters runs every filter alone and in combination against
real SQL, including LIKE wildcards in the name filter.
*/
func TestPostgres_ListFilters(t *testing.T) {
	pool := pgtest.Start(t)
	c := seedCatalogue(t, pool)

	tests := []struct {
		name   string
		filter title.Filter
		want   []string
	}{
		{"no_filter", title.Filter{}, []string{"Heat", "The Heat", "Dune", "100% Wolf"}},
		{"genre", title.Filter{Genre: "drama"}, []string{"Heat", "Dune"}},
		{"unknown_genre", title.Filter{Genre: "horror"}, []string{}},
		{"category", title.Filter{Category: "films"}, []string{"Heat", "The Heat"}},
		{"name_case_insensitive", title.Filter{Name: "HEAT"}, []string{"Heat", "The Heat"}},
		{"year", title.Filter{Year: pointer.To(1965)}, []string{"Dune"}},
		{"genre_and_category", title.Filter{Genre: "drama", Category: "films"}, []string{"Heat"}},
		{"name_and_year", title.Filter{Name: "heat", Year: pointer.To(2013)}, []string{"The Heat"}},
		{"all_four", title.Filter{Genre: "sci-fi", Category: "books", Name: "un", Year: pointer.To(1965)}, []string{"Dune"}},
		{"percent_is_literal", title.Filter{Name: "%"}, []string{"100% Wolf"}},
		{"underscore_is_literal", title.Filter{Name: "_"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names, total := listNames(t, c.titles, tt.filter)
			assert.Equal(t, tt.want, names)
			assert.Equal(t, len(tt.want), total)
		})
	}

	// Paging keeps the full count.
	page, total, err := c.titles.List(context.Background(), title.Filter{}, pagination.Params{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, page, 1)
	assert.Equal(t, "100% Wolf", page[0].Name)
}

/*
TestPostgres_ReferenceDeletes checks that deleting a category detaches its
titles and deleting a genre drops only the genre links.
*/
func TestPostgres_ReferenceDeletes(t *testing.T) {
	pool := pgtest.Start(t)
	c := seedCatalogue(t, pool)
	ctx := context.Background()

	dune, err := c.titles.FindByID(ctx, c.dune)
	require.NoError(t, err)
	require.NotNil(t, dune.Category)
	assert.Equal(t, "books", dune.Category.Slug)
	require.Len(t, dune.Genres, 2)
	assert.Equal(t, "drama", dune.Genres[0].Slug)
	assert.Equal(t, "sci-fi", dune.Genres[1].Slug)

	// Category delete sets category_id to NULL.
	require.NoError(t, c.categories.Delete(ctx, "books"))

	dune, err = c.titles.FindByID(ctx, c.dune)
	require.NoError(t, err)
	assert.Nil(t, dune.Category)
	assert.Nil(t, dune.CategoryID)
	assert.Len(t, dune.Genres, 2)

	// Genre delete cascades to titlegenre rows only.
	require.NoError(t, c.genres.Delete(ctx, "drama"))

	dune, err = c.titles.FindByID(ctx, c.dune)
	require.NoError(t, err)
	require.Len(t, dune.Genres, 1)
	assert.Equal(t, "sci-fi", dune.Genres[0].Slug)

	heat, err := c.titles.FindByID(ctx, c.heat)
	require.NoError(t, err)
	assert.Empty(t, heat.Genres)
	require.NotNil(t, heat.Category)
	assert.Equal(t, "films", heat.Category.Slug)

	names, total := listNames(t, c.titles, title.Filter{Genre: "drama"})
	assert.Empty(t, names)
	assert.Zero(t, total)

	_, total = listNames(t, c.titles, title.Filter{})
	assert.Equal(t, 4, total)
}
