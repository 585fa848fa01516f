// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Service orchestrates comments under a review.
type Service struct {
	repo    Repository
	reviews ReviewFinder
}

// NewService constructs a new comment [Service].
func NewService(repo Repository, reviews ReviewFinder) *Service {
	return &Service{repo: repo, reviews: reviews}
}

// List returns a page of the review's comments.
func (service *Service) List(ctx context.Context, actor access.Actor, titleID, reviewID int64, params pagination.Params) ([]*Comment, int, error) {
	if _, err := service.reviews.FindByID(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	if err := access.Enforce(actor, access.Read, access.Comments, nil); err != nil {
		return nil, 0, err
	}
	return service.repo.List(ctx, reviewID, params)
}

// Get returns one comment of the review.
func (service *Service) Get(ctx context.Context, actor access.Actor, titleID, reviewID, commentID int64) (*Comment, error) {
	comment, err := service.find(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := access.Enforce(actor, access.Read, access.Comments, &access.Target{OwnerID: comment.AuthorID}); err != nil {
		return nil, err
	}
	return comment, nil
}

// Create adds a comment by the actor. Any authenticated user may comment.
func (service *Service) Create(ctx context.Context, actor access.Actor, titleID, reviewID int64, input CreateInput) (*Comment, error) {
	if _, err := service.reviews.FindByID(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	if err := access.Enforce(actor, access.Create, access.Comments, nil); err != nil {
		return nil, err
	}

	comment := &Comment{
		ReviewID: reviewID,
		AuthorID: actor.UserID,
		Author:   actor.Username,
		Text:     input.Text,
	}
	if err := validateComment(comment); err != nil {
		return nil, err
	}

	if err := service.repo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("comment_service_create_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "comment_created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("review_id", reviewID),
	)
	return comment, nil
}

// Patch updates the text. Author, moderator or admin only.
func (service *Service) Patch(ctx context.Context, actor access.Actor, titleID, reviewID, commentID int64, input PatchInput) (*Comment, error) {
	comment, err := service.find(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := access.Enforce(actor, access.Update, access.Comments, &access.Target{OwnerID: comment.AuthorID}); err != nil {
		return nil, err
	}

	if input.Text != nil {
		comment.Text = *input.Text
	}
	if err := validateComment(comment); err != nil {
		return nil, err
	}

	if err := service.repo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment. Author, moderator or admin only.
func (service *Service) Delete(ctx context.Context, actor access.Actor, titleID, reviewID, commentID int64) error {
	comment, err := service.find(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := access.Enforce(actor, access.Delete, access.Comments, &access.Target{OwnerID: comment.AuthorID}); err != nil {
		return err
	}

	if err := service.repo.Delete(ctx, comment.ID); err != nil {
		return err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "comment_deleted",
		slog.Int64("comment_id", comment.ID),
		slog.String("by", actor.UserID),
	)
	return nil
}

// find checks the review belongs to the title before loading the comment.
func (service *Service) find(ctx context.Context, titleID, reviewID, commentID int64) (*Comment, error) {
	if _, err := service.reviews.FindByID(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	return service.repo.FindByID(ctx, reviewID, commentID)
}

func validateComment(comment *Comment) error {
	validator := &validate.Validator{}
	validator.Required(FieldText, comment.Text)
	return validator.Err()
}
