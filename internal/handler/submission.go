package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"strconv"

	"github.com/avahart/kudos/internal/apperror"
	"github.com/avahart/kudos/internal/model"
	"github.com/avahart/kudos/internal/service"
)

// SubmissionHandler serves the public intake path plus the admin moderation
// queue and approval action.
type SubmissionHandler struct {
	moderation *service.ModerationService
	logger     *slog.Logger
}

// NewSubmissionHandler creates a SubmissionHandler.
func NewSubmissionHandler(moderation *service.ModerationService, logger *slog.Logger) *SubmissionHandler {
	return &SubmissionHandler{moderation: moderation, logger: logger}
}

type submitRequest struct {
	Name    string `json:"name"`
	Quote   string `json:"quote"`
	Role    string `json:"role"`
	Company string `json:"company"`
	Email   string `json:"email"`
}

type submissionResponse struct {
	Submission *model.Submission `json:"submission"`
}

type submissionListResponse struct {
	Submissions []model.Submission `json:"submissions"`
	Form        *model.Form        `json:"form"`
}

// HandleSubmit records a visitor's testimonial for a form. Public — no
// authorization; the submission starts pending and stays off the wall until
// approved.
//
// HTTP: POST /forms/{slug}/submissions
// BODY: {"name": "...", "quote": "...", "role"?, "company"?, "email"?}
func (h *SubmissionHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid submission JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	submission, err := h.moderation.SubmitTestimonial(
		r.Context(), chi.URLParam(r, "slug"),
		req.Name, req.Quote, req.Role, req.Company, req.Email,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submissionResponse{Submission: submission})
}

// HandleList serves the moderation queue: every submission for the form,
// pending included, newest first.
//
// HTTP: GET /admin/submissions?slug={slug} (admin)
func (h *SubmissionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	if slug == "" {
		writeError(w, apperror.ValidationFailed("slug", "slug is required"))
		return
	}

	submissions, form, err := h.moderation.ListSubmissions(r.Context(), slug)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submissionListResponse{Submissions: submissions, Form: form})
}

// HandleApprove latches a submission to approved. Re-approving is
// idempotent and keeps the original approval timestamp.
//
// HTTP: POST /admin/submissions/{id}/approve (admin)
func (h *SubmissionHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, apperror.ValidationFailed("id", "submission id must be a positive integer"))
		return
	}

	submission, err := h.moderation.ApproveSubmission(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submissionResponse{Submission: submission})
}
