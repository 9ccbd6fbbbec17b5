package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avahart/kudos/internal/service"
)

// WallHandler serves the public wall: approved submissions only.
type WallHandler struct {
	moderation *service.ModerationService
	logger     *slog.Logger
}

// NewWallHandler creates a WallHandler.
func NewWallHandler(moderation *service.ModerationService, logger *slog.Logger) *WallHandler {
	return &WallHandler{moderation: moderation, logger: logger}
}

// HandleWall lists a form's approved submissions, most recently approved
// first. Pending submissions are filtered in the database and can never
// appear here, regardless of caller.
//
// HTTP: GET /wall/{slug}
func (h *WallHandler) HandleWall(w http.ResponseWriter, r *http.Request) {
	submissions, form, err := h.moderation.GetWall(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submissionListResponse{Submissions: submissions, Form: form})
}
