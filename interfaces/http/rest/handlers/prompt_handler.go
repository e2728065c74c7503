package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/komi0929/pen-sub000/internal/service/prompt"
	"github.com/komi0929/pen-sub000/pkg/api"
	appErrors "github.com/komi0929/pen-sub000/pkg/errors"
)

// PromptHandler exposes the template version registry for audit display and
// rollback.
type PromptHandler struct {
	prompts *prompt.Store
	logger  *zap.Logger
}

// NewPromptHandler creates the prompt registry handler.
func NewPromptHandler(prompts *prompt.Store, logger *zap.Logger) *PromptHandler {
	return &PromptHandler{prompts: prompts, logger: logger}
}

type promptVersionsResponse struct {
	Current  string           `json:"current"`
	Versions []prompt.Version `json:"versions"`
}

// ListVersions returns a category's version history, newest first, with the
// current selector.
func (h *PromptHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	category := prompt.Category(chi.URLParam(r, "category"))
	reg := h.prompts.Registry()

	versions, err := reg.Versions(category)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	current, err := reg.Current(category)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, promptVersionsResponse{Current: current.ID, Versions: versions})
}

type setCurrentRequest struct {
	VersionID string `json:"versionId"`
}

// SetCurrent repoints a category's current template. This is the rollback
// path; version contents never change.
func (h *PromptHandler) SetCurrent(w http.ResponseWriter, r *http.Request) {
	var req setCurrentRequest
	if err := api.Decode(r, &req); err != nil {
		respondError(w, h.logger, appErrors.NewValidation("invalid request body"))
		return
	}
	if req.VersionID == "" {
		respondError(w, h.logger, appErrors.NewValidation("versionId is required"))
		return
	}

	category := prompt.Category(chi.URLParam(r, "category"))
	if err := h.prompts.SetCurrent(category, req.VersionID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	h.logger.Info("prompt version repointed",
		zap.String("category", string(category)),
		zap.String("versionId", req.VersionID))
	api.Success(w, http.StatusNoContent, nil)
}
