// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package comment manages comments left under a review.
//
// Comments are addressed through their review and title. A comment under a
// review that does not belong to the title in the path is not found.
package comment

import (
	"context"
	"time"

	"github.com/taibuivan/yamdb/internal/social/review"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Domain Entities

// Comment is a reply to a review.
type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"-"`
	AuthorID string    `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

// CreateInput is the body of a comment creation request.
type CreateInput struct {
	Text string `json:"text"`
}

// PatchInput is the body of a comment update request.
type PatchInput struct {
	Text *string `json:"text"`
}

const (
	FieldText = "text"

	// DefaultPageSize is the comment listing page size.
	DefaultPageSize = 10

	URLParam = "commentID"
)

// # Contracts

// Repository defines the persistence contract for comments.
type Repository interface {
	List(ctx context.Context, reviewID int64, params pagination.Params) ([]*Comment, int, error)
	FindByID(ctx context.Context, reviewID, commentID int64) (*Comment, error)
	Create(ctx context.Context, comment *Comment) error
	Update(ctx context.Context, comment *Comment) error
	Delete(ctx context.Context, commentID int64) error
}

// ReviewFinder loads a review scoped to its title.
type ReviewFinder interface {
	FindByID(ctx context.Context, titleID, reviewID int64) (*review.Review, error)
}
