// Package service contains the business logic layer: validation, the
// submission lifecycle and the visibility rules, independent of transport.
//
// Handlers parse HTTP and delegate here; this package talks to storage only
// through the repository interfaces and returns apperror-typed errors that
// the HTTP layer maps to status codes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/avahart/kudos/internal/apperror"
	"github.com/avahart/kudos/internal/model"
	"github.com/avahart/kudos/internal/repository"
)

// Validation limits.
const (
	MaxNameLength  = 200
	MaxTitleLength = 200
	MaxSlugLength  = 80
	MaxQuoteLength = 5000
)

// Slugs appear in public URLs: lowercase letters, digits and hyphens only.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ModerationService owns the submission lifecycle: intake, the moderation
// queue, the one-way approval latch and the public wall projection.
type ModerationService struct {
	forms  repository.FormRepository
	subs   repository.SubmissionRepository
	logger *slog.Logger
}

// NewModerationService creates a ModerationService.
func NewModerationService(forms repository.FormRepository, subs repository.SubmissionRepository, logger *slog.Logger) *ModerationService {
	return &ModerationService{
		forms:  forms,
		subs:   subs,
		logger: logger,
	}
}

// RegisterForm creates a Creator and its Form as one unit. If the form
// insert fails, the creator insert rolls back with it — a duplicate slug
// never leaves an orphan creator behind.
func (s *ModerationService) RegisterForm(ctx context.Context, creatorName, title, slug string) (*model.Form, *model.Creator, error) {
	creatorName = strings.TrimSpace(creatorName)
	title = strings.TrimSpace(title)
	slug = strings.TrimSpace(slug)

	if creatorName == "" {
		return nil, nil, apperror.ValidationFailed("creatorName", "creatorName is required")
	}
	if len(creatorName) > MaxNameLength {
		return nil, nil, apperror.ValidationFailed("creatorName",
			fmt.Sprintf("creatorName must be %d characters or less", MaxNameLength))
	}
	if title == "" {
		return nil, nil, apperror.ValidationFailed("title", "title is required")
	}
	if len(title) > MaxTitleLength {
		return nil, nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	if slug == "" {
		return nil, nil, apperror.ValidationFailed("slug", "slug is required")
	}
	if len(slug) > MaxSlugLength {
		return nil, nil, apperror.ValidationFailed("slug",
			fmt.Sprintf("slug must be %d characters or less", MaxSlugLength))
	}
	if !slugPattern.MatchString(slug) {
		return nil, nil, apperror.ValidationFailed("slug",
			"slug may only contain lowercase letters, digits and hyphens")
	}

	creator := &model.Creator{Name: creatorName}
	form := &model.Form{Slug: slug, Title: title}

	if err := s.forms.CreateWithCreator(ctx, creator, form); err != nil {
		// Conflicts are normal outcomes, not storage failures; only real
		// database errors get logged.
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, nil, err
		}
		s.logger.Error("failed to register form",
			slog.String("slug", slug),
			slog.String("error", err.Error()),
		)
		return nil, nil, fmt.Errorf("registering form: %w", err)
	}

	s.logger.Info("form registered",
		slog.Int64("formId", form.ID),
		slog.String("slug", form.Slug),
	)

	return form, creator, nil
}

// GetForm returns the public form metadata (title plus creator name) for
// the intake page.
func (s *ModerationService) GetForm(ctx context.Context, slug string) (*model.FormDetail, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, apperror.ValidationFailed("slug", "slug is required")
	}
	return s.forms.GetDetailBySlug(ctx, slug)
}

// SubmitTestimonial records a new pending submission for the form with the
// given slug. This is the public intake path — no authorization required,
// and the submission is invisible on the wall until approved.
func (s *ModerationService) SubmitTestimonial(ctx context.Context, slug, name, quote, role, company, email string) (*model.Submission, error) {
	slug = strings.TrimSpace(slug)
	name = strings.TrimSpace(name)
	quote = strings.TrimSpace(quote)

	if slug == "" {
		return nil, apperror.ValidationFailed("slug", "slug is required")
	}
	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if len(name) > MaxNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("name must be %d characters or less", MaxNameLength))
	}
	if quote == "" {
		return nil, apperror.ValidationFailed("quote", "quote is required")
	}
	if len(quote) > MaxQuoteLength {
		return nil, apperror.ValidationFailed("quote",
			fmt.Sprintf("quote must be %d characters or less", MaxQuoteLength))
	}

	// The form lookup runs before the insert, so a submission can never
	// reference a slug that was never registered.
	form, err := s.forms.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	submission := &model.Submission{
		FormID:  form.ID,
		Name:    name,
		Role:    strings.TrimSpace(role),
		Company: strings.TrimSpace(company),
		Quote:   quote,
		Email:   strings.TrimSpace(email),
	}

	if err := s.subs.Create(ctx, submission); err != nil {
		s.logger.Error("failed to create submission",
			slog.String("slug", slug),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating submission: %w", err)
	}

	s.logger.Info("submission received",
		slog.Int64("submissionId", submission.ID),
		slog.String("slug", slug),
	)

	return submission, nil
}

// ListSubmissions returns the moderation queue for a form: every submission,
// approved or pending, newest first. Admin-only — the caller is behind the
// admin gate.
func (s *ModerationService) ListSubmissions(ctx context.Context, slug string) ([]model.Submission, *model.Form, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil, apperror.ValidationFailed("slug", "slug is required")
	}

	form, err := s.forms.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}

	submissions, err := s.subs.ListByForm(ctx, form.ID)
	if err != nil {
		s.logger.Error("failed to list submissions",
			slog.String("slug", slug),
			slog.String("error", err.Error()),
		)
		return nil, nil, fmt.Errorf("listing submissions: %w", err)
	}

	return submissions, form, nil
}

// ApproveSubmission flips a submission from pending to approved. Approval is
// a one-way latch: the first call sets the timestamp, every later call is a
// no-op that returns the submission with its original approval time. The
// conditional update in the repository resolves concurrent approvals.
func (s *ModerationService) ApproveSubmission(ctx context.Context, id int64) (*model.Submission, error) {
	if id <= 0 {
		return nil, apperror.ValidationFailed("id", "submission id must be a positive integer")
	}

	updated, err := s.subs.Approve(ctx, id, time.Now().UTC())
	if err != nil {
		s.logger.Error("failed to approve submission",
			slog.Int64("submissionId", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("approving submission: %w", err)
	}

	// Zero rows matched means absent or already approved; GetByID tells
	// the two apart and in the latter case returns the original timestamp.
	submission, err := s.subs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if updated {
		s.logger.Info("submission approved",
			slog.Int64("submissionId", id),
			slog.Int64("formId", submission.FormID),
		)
	}

	return submission, nil
}

// GetWall returns the public wall for a form: approved submissions only,
// most recently approved first. This is the sole public read path into
// approval state; pending submissions never appear here.
func (s *ModerationService) GetWall(ctx context.Context, slug string) ([]model.Submission, *model.Form, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil, apperror.ValidationFailed("slug", "slug is required")
	}

	form, err := s.forms.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}

	submissions, err := s.subs.ListApprovedByForm(ctx, form.ID)
	if err != nil {
		s.logger.Error("failed to load wall",
			slog.String("slug", slug),
			slog.String("error", err.Error()),
		)
		return nil, nil, fmt.Errorf("loading wall: %w", err)
	}

	return submissions, form, nil
}

