// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/slice"
)

// TermResolver maps slugs onto stored categories or genres.
type TermResolver interface {
	Resolve(ctx context.Context, slugs []string, field string) ([]*reference.Term, error)
}

// # Service Layer

// Service orchestrates the title catalogue.
type Service struct {
	repo       Repository
	categories TermResolver
	genres     TermResolver
	now        func() time.Time
}

// NewService constructs a new title [Service].
func NewService(repo Repository, categories, genres TermResolver) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		genres:     genres,
		now:        time.Now,
	}
}

// List returns a filtered page of titles. Anyone may list.
func (service *Service) List(ctx context.Context, actor access.Actor, filter Filter, params pagination.Params) ([]*Title, int, error) {
	if err := access.Enforce(actor, access.Read, access.Titles, nil); err != nil {
		return nil, 0, err
	}
	return service.repo.List(ctx, filter, params)
}

// Get returns one title with its current rating.
func (service *Service) Get(ctx context.Context, actor access.Actor, id int64) (*Title, error) {
	if err := access.Enforce(actor, access.Read, access.Titles, nil); err != nil {
		return nil, err
	}
	return service.repo.FindByID(ctx, id)
}

/*
Create stores a new title. Admin only.

Description: The category slug is required and every genre slug must exist.

Returns:
  - *Title: The stored title as clients read it (rating is null)
  - error: Forbidden or ValidationError
*/
func (service *Service) Create(ctx context.Context, actor access.Actor, input CreateInput) (*Title, error) {
	if err := access.Enforce(actor, access.Create, access.Titles, nil); err != nil {
		return nil, err
	}

	record := &Record{
		Name:        strings.TrimSpace(input.Name),
		Year:        input.Year,
		Description: input.Description,
	}

	validator := service.validateRecord(record)
	validator.Required(FieldCategory, input.Category)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	categoryID, err := service.resolveCategory(ctx, input.Category)
	if err != nil {
		return nil, err
	}
	record.CategoryID = categoryID

	genreIDs, err := service.resolveGenres(ctx, input.Genre)
	if err != nil {
		return nil, err
	}
	if genreIDs == nil {
		genreIDs = []int64{}
	}

	if err := service.repo.Create(ctx, record, genreIDs); err != nil {
		return nil, fmt.Errorf("title_service_create_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "title_created", slog.Int64("title_id", record.ID))
	return service.repo.FindByID(ctx, record.ID)
}

/*
Patch applies a partial update. Admin only.

An empty category slug detaches the title from its category.
*/
func (service *Service) Patch(ctx context.Context, actor access.Actor, id int64, input PatchInput) (*Title, error) {
	if err := access.Enforce(actor, access.Update, access.Titles, nil); err != nil {
		return nil, err
	}

	current, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	record := &Record{
		ID:          current.ID,
		Name:        current.Name,
		Year:        current.Year,
		Description: current.Description,
		CategoryID:  current.CategoryID,
	}

	if input.Name != nil {
		record.Name = strings.TrimSpace(*input.Name)
	}
	if input.Year != nil {
		record.Year = *input.Year
	}
	if input.Description != nil {
		record.Description = input.Description
	}
	if err := service.validateRecord(record).Err(); err != nil {
		return nil, err
	}

	if input.Category != nil {
		if record.CategoryID, err = service.resolveCategory(ctx, *input.Category); err != nil {
			return nil, err
		}
	}

	var genreIDs []int64
	if input.Genre != nil {
		if genreIDs, err = service.resolveGenres(ctx, *input.Genre); err != nil {
			return nil, err
		}
		if genreIDs == nil {
			genreIDs = []int64{}
		}
	}

	if err := service.repo.Update(ctx, record, genreIDs); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "title_updated", slog.Int64("title_id", id))
	return service.repo.FindByID(ctx, id)
}

// Delete removes a title with its reviews and comments. Admin only.
func (service *Service) Delete(ctx context.Context, actor access.Actor, id int64) error {
	if err := access.Enforce(actor, access.Delete, access.Titles, nil); err != nil {
		return err
	}

	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "title_deleted", slog.Int64("title_id", id))
	return nil
}

// # Helpers

func (service *Service) validateRecord(record *Record) *validate.Validator {
	validator := &validate.Validator{}
	validator.Required(FieldName, record.Name).
		MaxLen(FieldName, record.Name, NameMaxLength).
		NotAfterYear(FieldYear, record.Year, service.now().Year())
	return validator
}

func (service *Service) resolveCategory(ctx context.Context, slug string) (*int64, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}

	terms, err := service.categories.Resolve(ctx, []string{slug}, FieldCategory)
	if err != nil {
		return nil, err
	}
	return &terms[0].ID, nil
}

func (service *Service) resolveGenres(ctx context.Context, slugs []string) ([]int64, error) {
	terms, err := service.genres.Resolve(ctx, slugs, FieldGenre)
	if err != nil {
		return nil, err
	}

	return slice.Map(terms, func(term *reference.Term) int64 { return term.ID }), nil
}
