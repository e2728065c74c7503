package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/komi0929/pen-sub000/internal/service/article"
	"github.com/komi0929/pen-sub000/pkg/api"
	appErrors "github.com/komi0929/pen-sub000/pkg/errors"
)

// ArticleHandler serves articles and their edit history.
type ArticleHandler struct {
	articles *article.Service
	logger   *zap.Logger
}

// NewArticleHandler creates the article handler.
func NewArticleHandler(articles *article.Service, logger *zap.Logger) *ArticleHandler {
	return &ArticleHandler{articles: articles, logger: logger}
}

func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.articles.Get(r.Context(), userID(r), chi.URLParam(r, "articleID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, a)
}

func (h *ArticleHandler) ListByTheme(w http.ResponseWriter, r *http.Request) {
	articles, err := h.articles.ListByTheme(r.Context(), userID(r), chi.URLParam(r, "themeID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, articles)
}

type editArticleRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Update applies a manual edit; the previous text lands in the history.
func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req editArticleRequest
	if err := api.Decode(r, &req); err != nil {
		respondError(w, h.logger, appErrors.NewValidation("invalid request body"))
		return
	}
	a, err := h.articles.Edit(r.Context(), userID(r), chi.URLParam(r, "articleID"), req.Title, req.Content)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, a)
}

func (h *ArticleHandler) History(w http.ResponseWriter, r *http.Request) {
	entries, err := h.articles.History(r.Context(), userID(r), chi.URLParam(r, "articleID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, entries)
}

// Restore rewinds the article to a history entry's text.
func (h *ArticleHandler) Restore(w http.ResponseWriter, r *http.Request) {
	a, err := h.articles.Restore(r.Context(), userID(r), chi.URLParam(r, "articleID"), chi.URLParam(r, "historyID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, a)
}
