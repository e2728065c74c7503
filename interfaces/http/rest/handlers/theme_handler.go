package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/komi0929/pen-sub000/internal/service/theme"
	"github.com/komi0929/pen-sub000/pkg/api"
	appErrors "github.com/komi0929/pen-sub000/pkg/errors"
)

// ThemeHandler serves themes, their memos, and style references.
type ThemeHandler struct {
	themes *theme.Service
	logger *zap.Logger
}

// NewThemeHandler creates the theme handler.
func NewThemeHandler(themes *theme.Service, logger *zap.Logger) *ThemeHandler {
	return &ThemeHandler{themes: themes, logger: logger}
}

type themeRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *ThemeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := api.Decode(r, &req); err != nil {
		respondError(w, h.logger, appErrors.NewValidation("invalid request body"))
		return
	}
	t, err := h.themes.CreateTheme(r.Context(), userID(r), req.Title, req.Description)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusCreated, t)
}

func (h *ThemeHandler) List(w http.ResponseWriter, r *http.Request) {
	themes, err := h.themes.ListThemes(r.Context(), userID(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, themes)
}

func (h *ThemeHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.themes.GetTheme(r.Context(), userID(r), chi.URLParam(r, "themeID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, t)
}

func (h *ThemeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := api.Decode(r, &req); err != nil {
		respondError(w, h.logger, appErrors.NewValidation("invalid request body"))
		return
	}
	t, err := h.themes.UpdateTheme(r.Context(), userID(r), chi.URLParam(r, "themeID"), req.Title, req.Description)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, t)
}

func (h *ThemeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.themes.DeleteTheme(r.Context(), userID(r), chi.URLParam(r, "themeID")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}

type memoRequest struct {
	Content string `json:"content"`
}

func (h *ThemeHandler) AddMemo(w http.ResponseWriter, r *http.Request) {
	var req memoRequest
	if err := api.Decode(r, &req); err != nil {
		respondError(w, h.logger, appErrors.NewValidation("invalid request body"))
		return
	}
	memo, err := h.themes.AddMemo(r.Context(), userID(r), chi.URLParam(r, "themeID"), req.Content)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusCreated, memo)
}

func (h *ThemeHandler) ListMemos(w http.ResponseWriter, r *http.Request) {
	memos, err := h.themes.ListMemos(r.Context(), userID(r), chi.URLParam(r, "themeID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, memos)
}

func (h *ThemeHandler) DeleteMemo(w http.ResponseWriter, r *http.Request) {
	if err := h.themes.DeleteMemo(r.Context(), userID(r), chi.URLParam(r, "memoID")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}
