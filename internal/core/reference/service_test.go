// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

type memTerms struct {
	terms []*reference.Term
}

func (m *memTerms) List(_ context.Context, _ string, _ pagination.Params) ([]*reference.Term, int, error) {
	return m.terms, len(m.terms), nil
}

func (m *memTerms) FindBySlug(_ context.Context, slug string) (*reference.Term, error) {
	for _, t := range m.terms {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, apperr.NotFound("Genre")
}

func (m *memTerms) FindBySlugs(_ context.Context, slugs []string) ([]*reference.Term, error) {
	var out []*reference.Term
	for _, s := range slugs {
		if t, err := m.FindBySlug(context.Background(), s); err == nil {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTerms) Create(_ context.Context, term *reference.Term) error {
	if _, err := m.FindBySlug(context.Background(), term.Slug); err == nil {
		return apperr.Conflict("duplicate")
	}
	term.ID = int64(len(m.terms) + 1)
	m.terms = append(m.terms, term)
	return nil
}

func (m *memTerms) Delete(_ context.Context, slug string) error {
	for i, t := range m.terms {
		if t.Slug == slug {
			m.terms = append(m.terms[:i], m.terms[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Genre")
}

var (
	admin     = access.Actor{UserID: "a", Role: sec.RoleAdmin, Authenticated: true}
	moderator = access.Actor{UserID: "m", Role: sec.RoleModerator, Authenticated: true}
)

/*
TestCreate covers slug derivation, validation and access.
*/
func TestCreate(t *testing.T) {
	tests := []struct {
		name     string
		actor    access.Actor
		input    reference.Term
		wantSlug string
		wantCode string
	}{
		{"explicit_slug", admin, reference.Term{Name: "Drama", Slug: "drama"}, "drama", ""},
		{"derived_slug", admin, reference.Term{Name: "Science Fiction"}, "science-fiction", ""},
		{"accented_name", admin, reference.Term{Name: "Comédie"}, "comedie", ""},
		{"long_name_capped", admin, reference.Term{Name: "The Long and Winding Road of Very Extended Genre Names Here"}, "the-long-and-winding-road-of-very-extended-genre", ""},
		{"bad_slug", admin, reference.Term{Name: "Drama", Slug: "Drama!"}, "", apperr.CodeValidation},
		{"missing_name", admin, reference.Term{Slug: "x"}, "", apperr.CodeValidation},
		{"moderator", moderator, reference.Term{Name: "Drama"}, "", apperr.CodeForbidden},
		{"anonymous", access.Anonymous(), reference.Term{Name: "Drama"}, "", apperr.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := reference.NewService(&memTerms{}, reference.Genres)

			term, err := service.Create(context.Background(), tt.actor, tt.input)
			if tt.wantCode != "" {
				assert.True(t, apperr.HasCode(err, tt.wantCode), err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSlug, term.Slug)
		})
	}
}

/*
TestCreate_DuplicateSlug surfaces the store conflict.
*/
func TestCreate_DuplicateSlug(t *testing.T) {
	service := reference.NewService(&memTerms{}, reference.Categories)
	ctx := context.Background()

	_, err := service.Create(ctx, admin, reference.Term{Name: "Films", Slug: "films"})
	require.NoError(t, err)

	_, err = service.Create(ctx, admin, reference.Term{Name: "Movies", Slug: "films"})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
}

/*
TestListAndDelete checks public reads and admin deletes.
*/
func TestListAndDelete(t *testing.T) {
	repo := &memTerms{terms: []*reference.Term{{ID: 1, Name: "Drama", Slug: "drama"}}}
	service := reference.NewService(repo, reference.Genres)
	ctx := context.Background()

	terms, total, err := service.List(ctx, access.Anonymous(), "", pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, terms, 1)

	assert.True(t, apperr.HasCode(service.Delete(ctx, moderator, "drama"), apperr.CodeForbidden))
	require.NoError(t, service.Delete(ctx, admin, "drama"))
	assert.True(t, apperr.IsNotFound(service.Delete(ctx, admin, "drama")))
}

/*
TestResolve rejects unknown slugs on the given field.
*/
func TestResolve(t *testing.T) {
	repo := &memTerms{terms: []*reference.Term{{ID: 1, Name: "Drama", Slug: "drama"}, {ID: 2, Name: "Comedy", Slug: "comedy"}}}
	service := reference.NewService(repo, reference.Genres)

	terms, err := service.Resolve(context.Background(), []string{"drama", "comedy"}, "genre")
	require.NoError(t, err)
	assert.Len(t, terms, 2)

	_, err = service.Resolve(context.Background(), []string{"drama", "horror"}, "genre")
	require.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.Equal(t, "genre", apperr.As(err).Details[0].Field)

	terms, err = service.Resolve(context.Background(), nil, "genre")
	assert.NoError(t, err)
	assert.Empty(t, terms)
}
