package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/komi0929/pen-sub000/internal/service/theme"
	"github.com/komi0929/pen-sub000/pkg/api"
	appErrors "github.com/komi0929/pen-sub000/pkg/errors"
)

// StyleHandler serves the user's style reference samples.
type StyleHandler struct {
	themes *theme.Service
	logger *zap.Logger
}

// NewStyleHandler creates the style reference handler.
func NewStyleHandler(themes *theme.Service, logger *zap.Logger) *StyleHandler {
	return &StyleHandler{themes: themes, logger: logger}
}

type styleReferenceRequest struct {
	Label     string `json:"label"`
	Content   string `json:"content"`
	IsDefault bool   `json:"isDefault"`
}

func (h *StyleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req styleReferenceRequest
	if err := api.Decode(r, &req); err != nil {
		respondError(w, h.logger, appErrors.NewValidation("invalid request body"))
		return
	}
	ref, err := h.themes.CreateStyleReference(r.Context(), userID(r), req.Label, req.Content, req.IsDefault)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusCreated, ref)
}

func (h *StyleHandler) List(w http.ResponseWriter, r *http.Request) {
	refs, err := h.themes.ListStyleReferences(r.Context(), userID(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, refs)
}

func (h *StyleHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	if err := h.themes.SetDefaultStyleReference(r.Context(), userID(r), chi.URLParam(r, "refID")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}

func (h *StyleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.themes.DeleteStyleReference(r.Context(), userID(r), chi.URLParam(r, "refID")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}
