package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/komi0929/pen-sub000/internal/domain"
	"github.com/komi0929/pen-sub000/internal/service/interview"
	"github.com/komi0929/pen-sub000/pkg/api"
	appErrors "github.com/komi0929/pen-sub000/pkg/errors"
)

// InterviewHandler serves the stateful interview lifecycle.
type InterviewHandler struct {
	conductor *interview.Conductor
	logger    *zap.Logger
}

// NewInterviewHandler creates the interview handler.
func NewInterviewHandler(conductor *interview.Conductor, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{conductor: conductor, logger: logger}
}

type startInterviewRequest struct {
	TargetLength int `json:"targetLength"`
}

// Start opens an interview under a theme and returns the opening question.
func (h *InterviewHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startInterviewRequest
	if err := api.Decode(r, &req); err != nil {
		respondError(w, h.logger, appErrors.NewValidation("invalid request body"))
		return
	}

	result, err := h.conductor.Start(r.Context(), userID(r), chi.URLParam(r, "themeID"), req.TargetLength)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusCreated, result)
}

type answerRequest struct {
	Content string `json:"content"`
}

// Answer records the writer's reply and returns the next question.
func (h *InterviewHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := api.Decode(r, &req); err != nil {
		respondError(w, h.logger, appErrors.NewValidation("invalid request body"))
		return
	}

	result, err := h.conductor.Answer(r.Context(), userID(r), chi.URLParam(r, "interviewID"), req.Content)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, result)
}

// Skip declines the current question and returns a different one.
func (h *InterviewHandler) Skip(w http.ResponseWriter, r *http.Request) {
	result, err := h.conductor.Skip(r.Context(), userID(r), chi.URLParam(r, "interviewID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, result)
}

type completeRequest struct {
	Pronoun          string `json:"pronoun"`
	WritingStyle     string `json:"writingStyle"`
	StyleReferenceID string `json:"styleReferenceId"`
}

// Complete freezes the interview and returns the synthesized article. All
// options are optional, so an empty body is accepted.
func (h *InterviewHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := api.DecodeOptional(r, &req); err != nil {
		respondError(w, h.logger, appErrors.NewValidation("invalid request body"))
		return
	}

	a, err := h.conductor.Complete(r.Context(), userID(r), chi.URLParam(r, "interviewID"), interview.CompleteOptions{
		Pronoun:          req.Pronoun,
		WritingStyle:     req.WritingStyle,
		StyleReferenceID: req.StyleReferenceID,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusCreated, a)
}

type interviewDetailResponse struct {
	Interview *domain.Interview          `json:"interview"`
	Messages  []*domain.InterviewMessage `json:"messages"`
}

// Get returns the interview and its transcript.
func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	iv, messages, err := h.conductor.Get(r.Context(), userID(r), chi.URLParam(r, "interviewID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, interviewDetailResponse{Interview: iv, Messages: messages})
}
