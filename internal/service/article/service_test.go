package article

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/komi0929/pen-sub000/internal/domain"
	"github.com/komi0929/pen-sub000/internal/repository"
	"github.com/komi0929/pen-sub000/internal/repository/memory"
	"github.com/komi0929/pen-sub000/internal/service/llm"
	"github.com/komi0929/pen-sub000/internal/service/writer"
	appErrors "github.com/komi0929/pen-sub000/pkg/errors"
	"github.com/komi0929/pen-sub000/pkg/observability"
)

const testUser = "user-1"

func newTestService(t *testing.T) (*Service, repository.Repository) {
	t.Helper()
	repo := memory.NewStore()
	metrics := observability.NewCollector("pen")
	logger := zap.NewNop()
	engine := writer.NewEngine(llm.NewOfflineProvider(),
		writer.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}, metrics, logger)
	return NewService(repo, engine, metrics, logger), repo
}

func createArticle(t *testing.T, svc *Service) *domain.Article {
	t.Helper()
	a, err := svc.CreateFromDraft(context.Background(), testUser, "theme-1", "iv-1", &writer.Draft{
		Title:   "First Title",
		Content: "The original body.",
	})
	require.NoError(t, err)
	return a
}

func TestCreateFromDraftWritesInitialSnapshot(t *testing.T) {
	svc, _ := newTestService(t)

	a := createArticle(t, svc)
	assert.Equal(t, 1, a.Version)
	assert.Equal(t, domain.CountWords("The original body."), a.WordCount)

	history, err := svc.History(context.Background(), testUser, a.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "First Title", history[0].Title)
	assert.Equal(t, "The original body.", history[0].Content)
}

func TestEditSnapshotsPriorState(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	a := createArticle(t, svc)

	edited, err := svc.Edit(ctx, testUser, a.ID, "Second Title", "A reworked body.")
	require.NoError(t, err)
	assert.Equal(t, 2, edited.Version)
	assert.Equal(t, domain.CountWords("A reworked body."), edited.WordCount)

	history, err := svc.History(ctx, testUser, a.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	// Newest first: the edit snapshot preserves the pre-edit text.
	assert.Equal(t, "First Title", history[0].Title)
	assert.Equal(t, "The original body.", history[0].Content)
}

func TestEditValidation(t *testing.T) {
	svc, _ := newTestService(t)
	a := createArticle(t, svc)

	_, err := svc.Edit(context.Background(), testUser, a.ID, "", "body")
	assert.True(t, appErrors.IsValidation(err))
	_, err = svc.Edit(context.Background(), testUser, a.ID, "title", "")
	assert.True(t, appErrors.IsValidation(err))
}

func TestRestoreRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	a := createArticle(t, svc)

	_, err := svc.Edit(ctx, testUser, a.ID, "Second Title", "A reworked body.")
	require.NoError(t, err)

	history, err := svc.History(ctx, testUser, a.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	initial := history[len(history)-1]

	restored, err := svc.Restore(ctx, testUser, a.ID, initial.ID)
	require.NoError(t, err)
	assert.Equal(t, "First Title", restored.Title)
	assert.Equal(t, "The original body.", restored.Content)
	assert.Equal(t, 3, restored.Version)

	// No entry is lost; the pre-restore state was snapshotted too.
	history, err = svc.History(ctx, testUser, a.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "A reworked body.", history[0].Content)
}

func TestRestoreUnknownHistoryEntry(t *testing.T) {
	svc, _ := newTestService(t)
	a := createArticle(t, svc)

	_, err := svc.Restore(context.Background(), testUser, a.ID, "missing")
	assert.True(t, appErrors.IsNotFound(err))
}

func TestRewriteUsesDefaultStyleReference(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	a := createArticle(t, svc)

	ref := domain.NewStyleReference(testUser, "essays", "Short sentences. Plain words.")
	require.NoError(t, repo.CreateStyleReference(ctx, ref))
	require.NoError(t, repo.SetDefaultStyleReference(ctx, testUser, ref.ID))

	rewritten, err := svc.Rewrite(ctx, testUser, a.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "First Title", rewritten.Title)
	assert.NotEqual(t, "The original body.", rewritten.Content)
	assert.Equal(t, 2, rewritten.Version)

	history, err := svc.History(ctx, testUser, a.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "The original body.", history[0].Content)
}

func TestRewriteWithoutAnyStyleReference(t *testing.T) {
	svc, _ := newTestService(t)
	a := createArticle(t, svc)

	_, err := svc.Rewrite(context.Background(), testUser, a.ID, "")
	assert.True(t, appErrors.IsValidation(err))
}

func TestRewriteUnknownArticle(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Rewrite(context.Background(), testUser, "missing", "")
	assert.True(t, appErrors.IsNotFound(err))
}
