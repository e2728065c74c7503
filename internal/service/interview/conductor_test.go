package interview

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
	"github.com/komi0929/pen-sub000/internal/service/article"
	"github.com/komi0929/pen-sub000/internal/service/llm"
	"github.com/komi0929/pen-sub000/internal/service/prompt"
	"github.com/komi0929/pen-sub000/internal/service/writer"
	appErrors "github.com/komi0929/pen-sub000/pkg/errors"
	"github.com/komi0929/pen-sub000/pkg/observability"
)

const testUser = "user-1"

func newTestConductor(t *testing.T) (*Conductor, repository.Repository) {
	t.Helper()
	repo := memory.NewStore()
	return newConductorOver(t, repo, llm.NewOfflineProvider()), repo
}

func newConductorOver(t *testing.T, repo repository.Repository, provider llm.Provider) *Conductor {
	t.Helper()
	metrics := observability.NewCollector("pen")
	logger := zap.NewNop()
	engine := writer.NewEngine(provider,
		writer.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}, metrics, logger)
	prompts := prompt.NewStore(prompt.Default(), logger)
	articles := article.NewService(repo, engine, metrics, logger)
	return NewConductor(repo, engine, prompts, articles, logger)
}

// unavailableProvider fails every completion, as a dead upstream would.
type unavailableProvider struct{}

func (unavailableProvider) Complete(ctx context.Context, prompt string, options llm.CompletionOptions) (string, error) {
	return "", appErrors.NewInternal("model backend unreachable", nil)
}

func (unavailableProvider) IsAvailable() bool { return false }

func createTheme(t *testing.T, repo repository.Repository) *domain.Theme {
	t.Helper()
	theme := domain.NewTheme(testUser, "Why I still write by hand", "notes on analog habits")
	require.NoError(t, repo.CreateTheme(context.Background(), theme))
	return theme
}

func TestStartOpensWithAssistantQuestion(t *testing.T) {
	conductor, repo := newTestConductor(t)
	theme := createTheme(t, repo)

	result, err := conductor.Start(context.Background(), testUser, theme.ID, 1200)

	require.NoError(t, err)
	assert.Equal(t, domain.InterviewStatusActive, result.Interview.Status)
	assert.Equal(t, 1200, result.Interview.TargetLength)
	assert.Equal(t, domain.RoleAssistant, result.Question.Role)
	assert.NotEmpty(t, result.Question.Content)
	require.NotNil(t, result.Readiness)
	assert.Equal(t, 0, *result.Readiness)
}

func TestStartRejectsSecondActiveInterview(t *testing.T) {
	conductor, repo := newTestConductor(t)
	theme := createTheme(t, repo)

	_, err := conductor.Start(context.Background(), testUser, theme.ID, 1200)
	require.NoError(t, err)

	_, err = conductor.Start(context.Background(), testUser, theme.ID, 1200)
	assert.True(t, appErrors.IsConflict(err))
}

func TestStartUnknownTheme(t *testing.T) {
	conductor, _ := newTestConductor(t)

	_, err := conductor.Start(context.Background(), testUser, "missing", 1200)
	assert.True(t, appErrors.IsNotFound(err))
}

func TestStartRejectsNonPositiveTargetLength(t *testing.T) {
	conductor, repo := newTestConductor(t)
	theme := createTheme(t, repo)

	_, err := conductor.Start(context.Background(), testUser, theme.ID, 0)
	assert.True(t, appErrors.IsValidation(err))
}

func TestStartFailureLeavesThemeRetryable(t *testing.T) {
	repo := memory.NewStore()
	theme := createTheme(t, repo)
	ctx := context.Background()

	_, err := newConductorOver(t, repo, unavailableProvider{}).Start(ctx, testUser, theme.ID, 1200)
	require.Error(t, err)

	// Nothing was persisted; no orphaned active interview blocks the theme.
	active, err := repo.FindActiveInterview(ctx, testUser, theme.ID)
	require.NoError(t, err)
	require.Nil(t, active)

	result, err := newConductorOver(t, repo, llm.NewOfflineProvider()).Start(ctx, testUser, theme.ID, 1200)
	require.NoError(t, err)
	assert.Equal(t, domain.InterviewStatusActive, result.Interview.Status)
}

func TestAnswerFailureLeavesTranscriptUntouched(t *testing.T) {
	repo := memory.NewStore()
	theme := createTheme(t, repo)
	ctx := context.Background()

	started, err := newConductorOver(t, repo, llm.NewOfflineProvider()).Start(ctx, testUser, theme.ID, 1200)
	require.NoError(t, err)

	_, err = newConductorOver(t, repo, unavailableProvider{}).Answer(ctx, testUser, started.Interview.ID, "an answer")
	require.Error(t, err)

	messages, err := repo.ListMessages(ctx, started.Interview.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	// The retried answer records exactly one user turn.
	_, err = newConductorOver(t, repo, llm.NewOfflineProvider()).Answer(ctx, testUser, started.Interview.ID, "an answer")
	require.NoError(t, err)
	messages, err = repo.ListMessages(ctx, started.Interview.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, domain.RoleUser, messages[1].Role)
}

func TestAnswerRecordsVerbatimThenAsks(t *testing.T) {
	conductor, repo := newTestConductor(t)
	theme := createTheme(t, repo)
	ctx := context.Background()

	started, err := conductor.Start(ctx, testUser, theme.ID, 1200)
	require.NoError(t, err)

	answer := "  my answer, whitespace and all  "
	result, err := conductor.Answer(ctx, testUser, started.Interview.ID, answer)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAssistant, result.Question.Role)

	messages, err := repo.ListMessages(ctx, started.Interview.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, domain.RoleAssistant, messages[0].Role)
	assert.Equal(t, domain.RoleUser, messages[1].Role)
	assert.Equal(t, answer, messages[1].Content)
	assert.Equal(t, domain.RoleAssistant, messages[2].Role)
}

func TestAnswerRejectsEmptyContent(t *testing.T) {
	conductor, repo := newTestConductor(t)
	theme := createTheme(t, repo)
	ctx := context.Background()

	started, err := conductor.Start(ctx, testUser, theme.ID, 1200)
	require.NoError(t, err)

	_, err = conductor.Answer(ctx, testUser, started.Interview.ID, "")
	assert.True(t, appErrors.IsValidation(err))
}

func TestSkipRecordsSentinelAndMovesOn(t *testing.T) {
	conductor, repo := newTestConductor(t)
	theme := createTheme(t, repo)
	ctx := context.Background()

	started, err := conductor.Start(ctx, testUser, theme.ID, 1200)
	require.NoError(t, err)

	_, err = conductor.Skip(ctx, testUser, started.Interview.ID)
	require.NoError(t, err)

	messages, err := repo.ListMessages(ctx, started.Interview.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, domain.RoleUser, messages[1].Role)
	assert.Equal(t, skipSentinel, messages[1].Content)
	assert.Equal(t, domain.RoleAssistant, messages[2].Role)
}

func TestCompleteRequiresAtLeastOneExchange(t *testing.T) {
	conductor, repo := newTestConductor(t)
	theme := createTheme(t, repo)
	ctx := context.Background()

	started, err := conductor.Start(ctx, testUser, theme.ID, 1200)
	require.NoError(t, err)

	_, err = conductor.Complete(ctx, testUser, started.Interview.ID, CompleteOptions{})
	assert.True(t, appErrors.IsValidation(err))
}

func TestCompleteProducesArticleAndFreezesInterview(t *testing.T) {
	conductor, repo := newTestConductor(t)
	theme := createTheme(t, repo)
	ctx := context.Background()

	started, err := conductor.Start(ctx, testUser, theme.ID, 1200)
	require.NoError(t, err)
	_, err = conductor.Answer(ctx, testUser, started.Interview.ID, "Because paper slows me down.")
	require.NoError(t, err)

	a, err := conductor.Complete(ctx, testUser, started.Interview.ID, CompleteOptions{Pronoun: "I"})
	require.NoError(t, err)
	assert.Equal(t, theme.Title, a.Title)
	assert.NotEmpty(t, a.Content)
	assert.Greater(t, a.WordCount, 0)
	assert.Equal(t, started.Interview.ID, a.InterviewID)

	iv, err := repo.FindInterviewByID(ctx, testUser, started.Interview.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InterviewStatusCompleted, iv.Status)

	history, err := repo.ListHistory(ctx, testUser, a.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, a.Content, history[0].Content)
}

func TestTurnsRejectedAfterCompletion(t *testing.T) {
	conductor, repo := newTestConductor(t)
	theme := createTheme(t, repo)
	ctx := context.Background()

	started, err := conductor.Start(ctx, testUser, theme.ID, 1200)
	require.NoError(t, err)
	_, err = conductor.Answer(ctx, testUser, started.Interview.ID, "an answer")
	require.NoError(t, err)
	_, err = conductor.Complete(ctx, testUser, started.Interview.ID, CompleteOptions{})
	require.NoError(t, err)

	_, err = conductor.Answer(ctx, testUser, started.Interview.ID, "too late")
	assert.True(t, appErrors.IsConflict(err))
	_, err = conductor.Skip(ctx, testUser, started.Interview.ID)
	assert.True(t, appErrors.IsConflict(err))
	_, err = conductor.Complete(ctx, testUser, started.Interview.ID, CompleteOptions{})
	assert.True(t, appErrors.IsConflict(err))
}

func TestInflightGuardDropsSecondRequest(t *testing.T) {
	guard := newInflightGuard()

	require.True(t, guard.tryAcquire("iv-1"))
	assert.False(t, guard.tryAcquire("iv-1"))
	assert.True(t, guard.tryAcquire("iv-2"))

	guard.release("iv-1")
	assert.True(t, guard.tryAcquire("iv-1"))
}
