// Package handler translates HTTP requests into ModerationService calls and
// service results into JSON responses. No business rules live here.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avahart/kudos/internal/model"
	"github.com/avahart/kudos/internal/service"
)

// FormHandler serves form registration and public form metadata.
type FormHandler struct {
	moderation *service.ModerationService
	logger     *slog.Logger
}

// NewFormHandler creates a FormHandler.
func NewFormHandler(moderation *service.ModerationService, logger *slog.Logger) *FormHandler {
	return &FormHandler{moderation: moderation, logger: logger}
}

type registerFormRequest struct {
	CreatorName string `json:"creatorName"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
}

type registerFormResponse struct {
	Form    *model.Form    `json:"form"`
	Creator *model.Creator `json:"creator"`
}

// HandleRegister creates a creator and its form in one step.
//
// HTTP: POST /forms (admin)
// BODY: {"creatorName": "...", "title": "...", "slug": "..."}
func (h *FormHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid register form JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	form, creator, err := h.moderation.RegisterForm(r.Context(), req.CreatorName, req.Title, req.Slug)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, registerFormResponse{Form: form, Creator: creator})
}

// HandleGet serves public form metadata for the intake page.
//
// HTTP: GET /forms/{slug}
func (h *FormHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	detail, err := h.moderation.GetForm(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*model.FormDetail{"form": detail})
}
