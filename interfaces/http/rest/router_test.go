package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/komi0929/pen-sub000/internal/repository/memory"
	"github.com/komi0929/pen-sub000/internal/service/article"
	"github.com/komi0929/pen-sub000/internal/service/interview"
	"github.com/komi0929/pen-sub000/internal/service/llm"
	"github.com/komi0929/pen-sub000/internal/service/prompt"
	"github.com/komi0929/pen-sub000/internal/service/theme"
	"github.com/komi0929/pen-sub000/internal/service/writer"
	"github.com/komi0929/pen-sub000/pkg/auth"
	"github.com/komi0929/pen-sub000/pkg/observability"
)

func newTestServer(t *testing.T) (http.Handler, string) {
	t.Helper()
	repo := memory.NewStore()
	metrics := observability.NewCollector("pen")
	logger := zap.NewNop()
	engine := writer.NewEngine(llm.NewOfflineProvider(),
		writer.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}, metrics, logger)
	prompts := prompt.NewStore(prompt.Default(), logger)
	articles := article.NewService(repo, engine, metrics, logger)
	conductor := interview.NewConductor(repo, engine, prompts, articles, logger)
	themes := theme.NewService(repo, logger)
	tokens := auth.NewService("test-secret-test-secret", "pen", time.Hour)

	token, err := tokens.GenerateToken("user-1", "writer@example.com")
	require.NoError(t, err)

	router := NewRouter(repo, engine, prompts, conductor, articles, themes,
		tokens, metrics, logger, []string{"*"})
	return router.Setup(), token
}

func doJSON(t *testing.T, handler http.Handler, token, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func TestHealthIsPublic(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doJSON(t, handler, "", http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIRequiresAuth(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doJSON(t, handler, "", http.MethodGet, "/api/v1/themes", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInterviewLifecycleOverHTTP(t *testing.T) {
	handler, token := newTestServer(t)

	// Theme with a memo.
	rec := doJSON(t, handler, token, http.MethodPost, "/api/v1/themes",
		map[string]string{"title": "Why I run at dawn", "description": "running notes"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var createdTheme struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &createdTheme)

	rec = doJSON(t, handler, token, http.MethodPost, "/api/v1/themes/"+createdTheme.ID+"/memos",
		map[string]string{"content": "the streets are empty at 5am"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Start, answer, complete.
	rec = doJSON(t, handler, token, http.MethodPost, "/api/v1/themes/"+createdTheme.ID+"/interviews",
		map[string]int{"targetLength": 1200})
	require.Equal(t, http.StatusCreated, rec.Code)
	var started struct {
		Interview struct {
			ID string `json:"id"`
		} `json:"interview"`
		Question struct {
			Content string `json:"content"`
		} `json:"question"`
		Readiness *int `json:"readiness"`
	}
	decodeBody(t, rec, &started)
	assert.NotEmpty(t, started.Question.Content)
	require.NotNil(t, started.Readiness)

	rec = doJSON(t, handler, token, http.MethodPost, "/api/v1/interviews/"+started.Interview.ID+"/answer",
		map[string]string{"content": "Because the city is quiet."})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, token, http.MethodPost, "/api/v1/interviews/"+started.Interview.ID+"/complete",
		map[string]string{"pronoun": "I"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var createdArticle struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		WordCount int    `json:"wordCount"`
	}
	decodeBody(t, rec, &createdArticle)
	assert.Equal(t, "Why I run at dawn", createdArticle.Title)
	assert.Greater(t, createdArticle.WordCount, 0)

	// Edit goes through the ledger; history keeps the generated text.
	rec = doJSON(t, handler, token, http.MethodPut, "/api/v1/articles/"+createdArticle.ID,
		map[string]string{"title": "Edited title", "content": "Edited body."})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, token, http.MethodGet, "/api/v1/articles/"+createdArticle.ID+"/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	decodeBody(t, rec, &history)
	require.Len(t, history, 2)

	// Restore the initial snapshot.
	initialID := history[len(history)-1].ID
	rec = doJSON(t, handler, token, http.MethodPost,
		fmt.Sprintf("/api/v1/articles/%s/restore/%s", createdArticle.ID, initialID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var restored struct {
		Title string `json:"title"`
	}
	decodeBody(t, rec, &restored)
	assert.Equal(t, "Why I run at dawn", restored.Title)
}

func TestCompleteAcceptsEmptyBody(t *testing.T) {
	handler, token := newTestServer(t)

	rec := doJSON(t, handler, token, http.MethodPost, "/api/v1/themes",
		map[string]string{"title": "Field notes"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var createdTheme struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &createdTheme)

	rec = doJSON(t, handler, token, http.MethodPost, "/api/v1/themes/"+createdTheme.ID+"/interviews",
		map[string]int{"targetLength": 800})
	require.Equal(t, http.StatusCreated, rec.Code)
	var started struct {
		Interview struct {
			ID string `json:"id"`
		} `json:"interview"`
	}
	decodeBody(t, rec, &started)

	rec = doJSON(t, handler, token, http.MethodPost, "/api/v1/interviews/"+started.Interview.ID+"/answer",
		map[string]string{"content": "a short answer"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Every completion option is optional; no body at all is valid.
	rec = doJSON(t, handler, token, http.MethodPost, "/api/v1/interviews/"+started.Interview.ID+"/complete", nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestStatelessInterviewTurn(t *testing.T) {
	handler, token := newTestServer(t)

	rec := doJSON(t, handler, token, http.MethodPost, "/api/v1/interview-turn", map[string]interface{}{
		"themeTitle": "On keeping a notebook",
		"memos":      []string{"always carry one"},
		"messages": []map[string]string{
			{"role": "assistant", "content": "Why a notebook?"},
			{"role": "user", "content": "It slows my thinking down."},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var turn struct {
		Content   string `json:"content"`
		Readiness *int   `json:"readiness"`
	}
	decodeBody(t, rec, &turn)
	assert.NotEmpty(t, turn.Content)
	require.NotNil(t, turn.Readiness)
	assert.Equal(t, 25, *turn.Readiness)
}

func TestStatelessGenerateArticleValidation(t *testing.T) {
	handler, token := newTestServer(t)

	rec := doJSON(t, handler, token, http.MethodPost, "/api/v1/generate-article", map[string]interface{}{
		"themeTitle": "On keeping a notebook",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPromptVersionsEndpoint(t *testing.T) {
	handler, token := newTestServer(t)

	rec := doJSON(t, handler, token, http.MethodGet, "/api/v1/prompt-versions/interview", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Current  string `json:"current"`
		Versions []struct {
			ID string `json:"id"`
		} `json:"versions"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, "interview-v1", resp.Current)
	require.NotEmpty(t, resp.Versions)

	rec = doJSON(t, handler, token, http.MethodPost, "/api/v1/prompt-versions/interview/current",
		map[string]string{"versionId": "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
