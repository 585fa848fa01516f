// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/slug"
)

// # Service Layer

// Service orchestrates business rules for one taxonomy.
type Service struct {
	repo Repository
	kind Kind
}

// NewService constructs a new reference [Service].
func NewService(repo Repository, kind Kind) *Service {
	return &Service{repo: repo, kind: kind}
}

// Kind reports which taxonomy this service manages.
func (service *Service) Kind() Kind { return service.kind }

// List returns a page of terms. Anyone may list.
func (service *Service) List(ctx context.Context, actor access.Actor, search string, params pagination.Params) ([]*Term, int, error) {
	if err := access.Enforce(actor, access.Read, service.kind.Resource, nil); err != nil {
		return nil, 0, err
	}
	return service.repo.List(ctx, strings.TrimSpace(search), params)
}

// Get returns the term with the given slug.
func (service *Service) Get(ctx context.Context, slugValue string) (*Term, error) {
	return service.repo.FindBySlug(ctx, slugValue)
}

/*
Create validates and stores a new term. Admin only.

Description: An omitted slug is derived from the name.

Returns:
  - *Term: The stored term
  - error: Forbidden, ValidationError or Conflict on a duplicate slug
*/
func (service *Service) Create(ctx context.Context, actor access.Actor, input Term) (*Term, error) {
	if err := access.Enforce(actor, access.Create, service.kind.Resource, nil); err != nil {
		return nil, err
	}

	term := &Term{
		Name: strings.TrimSpace(input.Name),
		Slug: strings.TrimSpace(input.Slug),
	}
	if term.Slug == "" {
		term.Slug = slug.From(term.Name, SlugMaxLength)
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, term.Name).
		MaxLen(FieldName, term.Name, NameMaxLength).
		Required(FieldSlug, term.Slug).
		MaxLen(FieldSlug, term.Slug, SlugMaxLength)
	if term.Slug != "" {
		validator.Slug(FieldSlug, term.Slug)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Create(ctx, term); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "term_created",
		slog.String("kind", service.kind.Label),
		slog.String("slug", term.Slug),
	)
	return term, nil
}

// Delete removes a term by slug. Admin only.
func (service *Service) Delete(ctx context.Context, actor access.Actor, slugValue string) error {
	if err := access.Enforce(actor, access.Delete, service.kind.Resource, nil); err != nil {
		return err
	}

	if err := service.repo.Delete(ctx, slugValue); err != nil {
		return fmt.Errorf("reference_service_delete_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "term_deleted",
		slog.String("kind", service.kind.Label),
		slog.String("slug", slugValue),
	)
	return nil
}

// Resolve maps slugs onto stored terms. Every slug must exist.
func (service *Service) Resolve(ctx context.Context, slugs []string, field string) ([]*Term, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	terms, err := service.repo.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(terms))
	for _, term := range terms {
		known[term.Slug] = true
	}
	for _, s := range slugs {
		if !known[s] {
			return nil, validate.RequiredError(field, fmt.Sprintf("%s %q does not exist", service.kind.Label, s))
		}
	}
	return terms, nil
}
