package writer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/komi0929/pen-sub000/internal/service/llm"
	"github.com/komi0929/pen-sub000/internal/service/prompt"
	appErrors "github.com/komi0929/pen-sub000/pkg/errors"
	"github.com/komi0929/pen-sub000/pkg/observability"
)

// scriptedProvider returns canned results in order and counts calls.
type scriptedProvider struct {
	outputs []string
	errs    []error
	calls   int
}

func (p *scriptedProvider) Complete(ctx context.Context, prompt string, options llm.CompletionOptions) (string, error) {
	i := p.calls
	p.calls++
	if i < len(p.errs) && p.errs[i] != nil {
		return "", p.errs[i]
	}
	if i < len(p.outputs) {
		return p.outputs[i], nil
	}
	return "", appErrors.NewInternal("script exhausted", nil)
}

func (p *scriptedProvider) IsAvailable() bool { return true }

func newTestEngine(provider llm.Provider) *Engine {
	return NewEngine(provider, RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond},
		observability.NewCollector("pen"), zap.NewNop())
}

func TestNextQuestionExtractsReadiness(t *testing.T) {
	provider := &scriptedProvider{outputs: []string{"What happened next?\nREADINESS: 60"}}
	engine := newTestEngine(provider)

	turn, err := engine.NextQuestion(context.Background(), prompt.Default(), TurnInput{ThemeTitle: "t"})

	require.NoError(t, err)
	assert.Equal(t, "What happened next?", turn.Question)
	assert.Equal(t, 60, turn.Readiness)
}

func TestNextQuestionWithoutReadinessIsUnknown(t *testing.T) {
	provider := &scriptedProvider{outputs: []string{"What happened next?"}}
	engine := newTestEngine(provider)

	turn, err := engine.NextQuestion(context.Background(), prompt.Default(), TurnInput{ThemeTitle: "t"})

	require.NoError(t, err)
	assert.Equal(t, UnknownReadiness, turn.Readiness)
}

func TestCompleteRetriesOnlyRateLimited(t *testing.T) {
	rateLimited := appErrors.NewRateLimited("throttled", nil)
	provider := &scriptedProvider{errs: []error{rateLimited, rateLimited, rateLimited}}
	engine := newTestEngine(provider)

	_, err := engine.NextQuestion(context.Background(), prompt.Default(), TurnInput{ThemeTitle: "t"})

	require.Error(t, err)
	assert.True(t, appErrors.IsGenerationFailed(err))
	assert.Equal(t, 3, provider.calls)
}

func TestCompleteNonRateLimitedFailsAfterOneAttempt(t *testing.T) {
	provider := &scriptedProvider{errs: []error{appErrors.NewInternal("boom", nil)}}
	engine := newTestEngine(provider)

	_, err := engine.NextQuestion(context.Background(), prompt.Default(), TurnInput{ThemeTitle: "t"})

	require.Error(t, err)
	assert.True(t, appErrors.IsType(err, appErrors.ErrorTypeInternal))
	assert.Equal(t, 1, provider.calls)
}

func TestCompleteRecoversWithinBudget(t *testing.T) {
	provider := &scriptedProvider{
		errs:    []error{appErrors.NewRateLimited("throttled", nil), nil},
		outputs: []string{"", "Recovered question?\nREADINESS: 20"},
	}
	engine := newTestEngine(provider)

	turn, err := engine.NextQuestion(context.Background(), prompt.Default(), TurnInput{ThemeTitle: "t"})

	require.NoError(t, err)
	assert.Equal(t, "Recovered question?", turn.Question)
	assert.Equal(t, 2, provider.calls)
}

func TestComposeArticleNormalizesOutput(t *testing.T) {
	provider := &scriptedProvider{outputs: []string{"Outline: leaked\n# Final Title\n\nThe body."}}
	engine := newTestEngine(provider)

	draft, err := engine.ComposeArticle(context.Background(), prompt.Default(), ArticleInput{
		ThemeTitle:   "Fallback Theme",
		TargetLength: 800,
	})

	require.NoError(t, err)
	assert.Equal(t, "Final Title", draft.Title)
	assert.Equal(t, "The body.", draft.Content)
	assert.Equal(t, 1, draft.DroppedLines)
}

func TestRewriteArticleUsesFallbackTitle(t *testing.T) {
	provider := &scriptedProvider{outputs: []string{"Restyled body without a heading."}}
	engine := newTestEngine(provider)

	draft, err := engine.RewriteArticle(context.Background(), RewriteInput{
		Title:          "Original Title",
		Content:        "Original body.",
		StyleReference: "sample",
	})

	require.NoError(t, err)
	assert.Equal(t, "Original Title", draft.Title)
	assert.Equal(t, "Restyled body without a heading.", draft.Content)
}

func TestExtractReadiness(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		question  string
		readiness int
	}{
		{"trailing line", "Question?\nREADINESS: 40", "Question?", 40},
		{"lowercase", "Question?\nreadiness: 100", "Question?", 100},
		{"absent", "Question?", "Question?", UnknownReadiness},
		{"mid text untouched", "The READINESS: 40 phrase inline stays.", "The READINESS: 40 phrase inline stays.", UnknownReadiness},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			question, readiness := extractReadiness(tt.raw)
			assert.Equal(t, tt.question, question)
			assert.Equal(t, tt.readiness, readiness)
		})
	}
}

func TestMaxTokensForClampsBudget(t *testing.T) {
	assert.Equal(t, 1024, maxTokensFor(0))
	assert.Equal(t, 2512, maxTokensFor(1000))
	assert.Equal(t, 8192, maxTokensFor(100000))
}
