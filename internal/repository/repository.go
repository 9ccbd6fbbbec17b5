// Package repository declares the persistence interfaces the service layer
// depends on. Concrete implementations live in subpackages (sqlite).
package repository

import (
	"context"
	"time"

	"github.com/avahart/kudos/internal/model"
)

// FormRepository stores creators and their forms.
type FormRepository interface {
	// CreateWithCreator inserts a Creator and its Form as one transaction.
	// Neither row persists if the other insert fails; a duplicate slug
	// returns apperror.ErrConflict and leaves no orphan creator.
	CreateWithCreator(ctx context.Context, creator *model.Creator, form *model.Form) error

	// GetBySlug returns the form for the given slug, or apperror.ErrNotFound.
	GetBySlug(ctx context.Context, slug string) (*model.Form, error)

	// GetDetailBySlug returns the public projection of the form joined with
	// its creator's display name, or apperror.ErrNotFound.
	GetDetailBySlug(ctx context.Context, slug string) (*model.FormDetail, error)
}

// SubmissionRepository stores testimonial submissions and their approval
// state.
type SubmissionRepository interface {
	// Create inserts a new pending submission (approved_at NULL).
	Create(ctx context.Context, submission *model.Submission) error

	// GetByID returns a submission, or apperror.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*model.Submission, error)

	// ListByForm returns every submission for a form, pending and approved,
	// newest first (created_at descending). This is the moderation queue.
	ListByForm(ctx context.Context, formID int64) ([]model.Submission, error)

	// ListApprovedByForm returns only approved submissions for a form,
	// most recently approved first (approved_at descending). This is the
	// public wall.
	ListApprovedByForm(ctx context.Context, formID int64) ([]model.Submission, error)

	// Approve sets approved_at to the given time only if it is currently
	// NULL. Returns true if the row was updated, false if no row matched —
	// either the submission does not exist or it is already approved; the
	// caller disambiguates with GetByID.
	Approve(ctx context.Context, id int64, at time.Time) (bool, error)
}
