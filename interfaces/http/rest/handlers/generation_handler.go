package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/komi0929/pen-sub000/internal/repository"
	"github.com/komi0929/pen-sub000/internal/service/article"
	"github.com/komi0929/pen-sub000/internal/service/interview"
	"github.com/komi0929/pen-sub000/internal/service/prompt"
	"github.com/komi0929/pen-sub000/internal/service/writer"
	"github.com/komi0929/pen-sub000/pkg/api"
	appErrors "github.com/komi0929/pen-sub000/pkg/errors"
)

// GenerationHandler serves the stateless generation endpoints: callers supply
// the interview context in the request body instead of referencing a stored
// session.
type GenerationHandler struct {
	engine   *writer.Engine
	prompts  *prompt.Store
	articles *article.Service
	repo     repository.Repository
	logger   *zap.Logger
}

// NewGenerationHandler creates the generation handler.
func NewGenerationHandler(engine *writer.Engine, prompts *prompt.Store, articles *article.Service, repo repository.Repository, logger *zap.Logger) *GenerationHandler {
	return &GenerationHandler{
		engine:   engine,
		prompts:  prompts,
		articles: articles,
		repo:     repo,
		logger:   logger,
	}
}

type interviewTurnRequest struct {
	ThemeTitle       string           `json:"themeTitle"`
	ThemeDescription string           `json:"themeDescription"`
	Memos            []string         `json:"memos"`
	Messages         []writer.Message `json:"messages"`
	IsSkip           bool             `json:"isSkip"`
}

type interviewTurnResponse struct {
	Content   string `json:"content"`
	Readiness *int   `json:"readiness,omitempty"`
}

// InterviewTurn generates the next question from caller-supplied context.
func (h *GenerationHandler) InterviewTurn(w http.ResponseWriter, r *http.Request) {
	var req interviewTurnRequest
	if err := api.Decode(r, &req); err != nil {
		respondError(w, h.logger, appErrors.NewValidation("invalid request body"))
		return
	}
	if req.ThemeTitle == "" {
		respondError(w, h.logger, appErrors.NewValidation("themeTitle is required"))
		return
	}

	turn, err := h.engine.NextQuestion(r.Context(), h.prompts.Registry(), writer.TurnInput{
		ThemeTitle:       req.ThemeTitle,
		ThemeDescription: req.ThemeDescription,
		Memos:            req.Memos,
		Messages:         req.Messages,
		IsSkip:           req.IsSkip,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	api.Success(w, http.StatusOK, interviewTurnResponse{
		Content:   turn.Question,
		Readiness: interview.DisplayReadiness(turn.Readiness),
	})
}

type generateArticleRequest struct {
	ThemeTitle       string           `json:"themeTitle"`
	ThemeDescription string           `json:"themeDescription"`
	Memos            []string         `json:"memos"`
	Messages         []writer.Message `json:"messages"`
	TargetLength     int              `json:"targetLength"`
	Pronoun          string           `json:"pronoun"`
	WritingStyle     string           `json:"writingStyle"`
	StyleReferenceID string           `json:"styleReferenceId"`
}

type draftResponse struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// GenerateArticle synthesizes an article from caller-supplied context without
// persisting anything.
func (h *GenerationHandler) GenerateArticle(w http.ResponseWriter, r *http.Request) {
	var req generateArticleRequest
	if err := api.Decode(r, &req); err != nil {
		respondError(w, h.logger, appErrors.NewValidation("invalid request body"))
		return
	}
	if req.ThemeTitle == "" {
		respondError(w, h.logger, appErrors.NewValidation("themeTitle is required"))
		return
	}
	if req.TargetLength <= 0 {
		respondError(w, h.logger, appErrors.NewValidation("targetLength must be positive"))
		return
	}

	styleSample := ""
	if req.StyleReferenceID != "" {
		ref, err := h.repo.FindStyleReferenceByID(r.Context(), userID(r), req.StyleReferenceID)
		if err != nil {
			respondError(w, h.logger, err)
			return
		}
		if ref == nil {
			respondError(w, h.logger, appErrors.NewNotFound("style reference not found"))
			return
		}
		styleSample = ref.Content
	}

	draft, err := h.engine.ComposeArticle(r.Context(), h.prompts.Registry(), writer.ArticleInput{
		ThemeTitle:       req.ThemeTitle,
		ThemeDescription: req.ThemeDescription,
		Memos:            req.Memos,
		Messages:         req.Messages,
		TargetLength:     req.TargetLength,
		Pronoun:          req.Pronoun,
		WritingStyle:     req.WritingStyle,
		StyleReference:   styleSample,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, draftResponse{Title: draft.Title, Content: draft.Content})
}

type rewriteArticleRequest struct {
	ArticleID        string `json:"articleId"`
	StyleReferenceID string `json:"styleReferenceId"`
}

type rewriteArticleResponse struct {
	Success bool   `json:"success"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// RewriteArticle restyles a stored article with a style reference, recording
// the pre-rewrite state in the edit history.
func (h *GenerationHandler) RewriteArticle(w http.ResponseWriter, r *http.Request) {
	var req rewriteArticleRequest
	if err := api.Decode(r, &req); err != nil {
		respondError(w, h.logger, appErrors.NewValidation("invalid request body"))
		return
	}
	if req.ArticleID == "" {
		respondError(w, h.logger, appErrors.NewValidation("articleId is required"))
		return
	}

	a, err := h.articles.Rewrite(r.Context(), userID(r), req.ArticleID, req.StyleReferenceID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, rewriteArticleResponse{Success: true, Title: a.Title, Content: a.Content})
}
