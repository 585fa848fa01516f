// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/metrics"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

const (
	minScore = 1
	maxScore = 10
)

// # Service Layer

// Service orchestrates reviews for a title.
type Service struct {
	repo   Repository
	titles TitleChecker
}

// NewService constructs a new review [Service].
func NewService(repo Repository, titles TitleChecker) *Service {
	return &Service{repo: repo, titles: titles}
}

// List returns a page of the title's reviews. Anyone may list.
func (service *Service) List(ctx context.Context, actor access.Actor, titleID int64, params pagination.Params) ([]*Review, int, error) {
	if err := service.titles.Exists(ctx, titleID); err != nil {
		return nil, 0, err
	}
	if err := access.Enforce(actor, access.Read, access.Reviews, nil); err != nil {
		return nil, 0, err
	}
	return service.repo.List(ctx, titleID, params)
}

// Get returns one review of the title.
func (service *Service) Get(ctx context.Context, actor access.Actor, titleID, reviewID int64) (*Review, error) {
	review, err := service.repo.FindByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := access.Enforce(actor, access.Read, access.Reviews, &access.Target{OwnerID: review.AuthorID}); err != nil {
		return nil, err
	}
	return review, nil
}

/*
Create adds the actor's review of a title.

Description: A second review by the same author is rejected with a
validation error, whether the check or the unique constraint catches it.

Returns:
  - *Review: The stored review
  - error: NotFound (title), Unauthorized, ValidationError
*/
func (service *Service) Create(ctx context.Context, actor access.Actor, titleID int64, input CreateInput) (*Review, error) {
	if err := service.titles.Exists(ctx, titleID); err != nil {
		return nil, err
	}
	if err := access.Enforce(actor, access.Create, access.Reviews, nil); err != nil {
		return nil, err
	}

	review := &Review{
		TitleID:  titleID,
		AuthorID: actor.UserID,
		Author:   actor.Username,
		Text:     input.Text,
		Score:    input.Score,
	}
	if err := validateReview(review); err != nil {
		return nil, err
	}

	exists, err := service.repo.ExistsForAuthor(ctx, titleID, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("review_service_create_failed: %w", err)
	}
	if exists {
		return nil, service.rejectDuplicate(ctx, review, metrics.ReasonFastPath)
	}

	if err := service.repo.Create(ctx, review); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, service.rejectDuplicate(ctx, review, metrics.ReasonConstraint)
		}
		return nil, fmt.Errorf("review_service_create_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "review_created",
		slog.Int64("review_id", review.ID),
		slog.Int64("title_id", titleID),
	)
	return review, nil
}

// Patch updates text or score. Author, moderator or admin only.
func (service *Service) Patch(ctx context.Context, actor access.Actor, titleID, reviewID int64, input PatchInput) (*Review, error) {
	review, err := service.repo.FindByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := access.Enforce(actor, access.Update, access.Reviews, &access.Target{OwnerID: review.AuthorID}); err != nil {
		return nil, err
	}

	if input.Text != nil {
		review.Text = *input.Text
	}
	if input.Score != nil {
		review.Score = *input.Score
	}
	if err := validateReview(review); err != nil {
		return nil, err
	}

	if err := service.repo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes a review and its comments. Author, moderator or admin only.
func (service *Service) Delete(ctx context.Context, actor access.Actor, titleID, reviewID int64) error {
	review, err := service.repo.FindByID(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := access.Enforce(actor, access.Delete, access.Reviews, &access.Target{OwnerID: review.AuthorID}); err != nil {
		return err
	}

	if err := service.repo.Delete(ctx, review.ID); err != nil {
		return err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "review_deleted",
		slog.Int64("review_id", review.ID),
		slog.String("by", actor.UserID),
	)
	return nil
}

// # Helpers

func (service *Service) rejectDuplicate(ctx context.Context, review *Review, reason string) error {
	metrics.ReviewsRejectedTotal.WithLabelValues(reason).Inc()
	ctxutil.GetLogger(ctx).InfoContext(ctx, "review_duplicate_rejected",
		slog.Int64("title_id", review.TitleID),
		slog.String("author_id", review.AuthorID),
		slog.String("reason", reason),
	)
	return apperr.ValidationError("only one review per title is allowed")
}

func validateReview(review *Review) error {
	validator := &validate.Validator{}
	validator.Required(FieldText, review.Text).
		Range(FieldScore, review.Score, minScore, maxScore)
	return validator.Err()
}
