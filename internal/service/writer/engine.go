package writer

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/komi0929/pen-sub000/internal/service/llm"
	"github.com/komi0929/pen-sub000/internal/service/prompt"
	appErrors "github.com/komi0929/pen-sub000/pkg/errors"
	"github.com/komi0929/pen-sub000/pkg/observability"
)

// UnknownReadiness marks a turn that carried no readiness signal. It is a
// sentinel, never fed through the display rescale.
const UnknownReadiness = -1

// RetryPolicy bounds the engine's retry loop. Only rate-limited attempts are
// retried; the delay after failed attempt i is (i+1) * BaseDelay.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy returns the production retry policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
	}
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	return time.Duration(attempt+1) * p.BaseDelay
}

// Engine assembles prompts from the registry's current template plus caller
// context, invokes the provider with bounded retry, and normalizes output.
type Engine struct {
	provider llm.Provider
	policy   RetryPolicy
	metrics  *observability.Collector
	logger   *zap.Logger
}

// NewEngine creates a generation engine.
func NewEngine(provider llm.Provider, policy RetryPolicy, metrics *observability.Collector, logger *zap.Logger) *Engine {
	return &Engine{
		provider: provider,
		policy:   policy,
		metrics:  metrics,
		logger:   logger,
	}
}

// Turn is one generated interview question plus the raw readiness the model
// reported, or UnknownReadiness when it reported none.
type Turn struct {
	Question  string `json:"content"`
	Readiness int    `json:"readiness"`
}

// Draft is a normalized generation result ready to persist.
type Draft struct {
	Title        string `json:"title"`
	Content      string `json:"content"`
	DroppedLines int    `json:"-"`
}

// NextQuestion generates the next interview question. The registry is passed
// in at call time so callers control which template revision applies.
func (e *Engine) NextQuestion(ctx context.Context, reg *prompt.Registry, in TurnInput) (*Turn, error) {
	version, err := reg.Current(prompt.CategoryInterview)
	if err != nil {
		return nil, err
	}

	raw, err := e.complete(ctx, string(prompt.CategoryInterview), buildInterviewPrompt(version.Template, in), llm.CompletionOptions{
		Temperature: 0.7,
		MaxTokens:   512,
	})
	if err != nil {
		return nil, err
	}

	question, readiness := extractReadiness(raw)
	if question == "" {
		return nil, appErrors.NewGenerationFailed("generation produced no question text", nil)
	}
	return &Turn{Question: question, Readiness: readiness}, nil
}

// ComposeArticle synthesizes the final article from the frozen interview
// material and cleans the raw output.
func (e *Engine) ComposeArticle(ctx context.Context, reg *prompt.Registry, in ArticleInput) (*Draft, error) {
	version, err := reg.Current(prompt.CategoryWriting)
	if err != nil {
		return nil, err
	}

	raw, err := e.complete(ctx, string(prompt.CategoryWriting), buildArticlePrompt(version.Template, in), llm.CompletionOptions{
		Temperature: 0.8,
		MaxTokens:   maxTokensFor(in.TargetLength),
	})
	if err != nil {
		return nil, err
	}
	return e.normalize(raw, in.ThemeTitle), nil
}

// RewriteArticle restyles an existing article with a style reference. Same
// retry contract as synthesis, different instruction template.
func (e *Engine) RewriteArticle(ctx context.Context, in RewriteInput) (*Draft, error) {
	raw, err := e.complete(ctx, "rewrite", buildRewritePrompt(in), llm.CompletionOptions{
		Temperature: 0.8,
		MaxTokens:   maxTokensFor(len(in.Content)),
	})
	if err != nil {
		return nil, err
	}
	return e.normalize(raw, in.Title), nil
}

// normalize cleans raw output and records any leak drops. Dropping is a
// warning, never a failure.
func (e *Engine) normalize(raw, fallbackTitle string) *Draft {
	norm := Normalize(raw, fallbackTitle)
	if norm.DroppedLines > 0 {
		e.metrics.LeakLinesDropped.Add(float64(norm.DroppedLines))
		e.logger.Warn("dropped meta-leak lines from generation output",
			zap.Int("dropped", norm.DroppedLines))
	}
	return &Draft{Title: norm.Title, Content: norm.Body, DroppedLines: norm.DroppedLines}
}

// complete runs one generation with the engine's retry policy. Rate-limited
// attempts back off and retry; any other failure aborts after exactly one
// attempt; an exhausted budget escalates to GenerationFailed.
func (e *Engine) complete(ctx context.Context, category, assembled string, options llm.CompletionOptions) (string, error) {
	var lastErr error
	for attempt := 0; attempt < e.policy.MaxAttempts; attempt++ {
		out, err := e.provider.Complete(ctx, assembled, options)
		if err == nil {
			e.metrics.GenerationAttempts.WithLabelValues(category, "success").Inc()
			return out, nil
		}
		lastErr = err

		if !appErrors.IsRateLimited(err) {
			e.metrics.GenerationAttempts.WithLabelValues(category, "failure").Inc()
			return "", err
		}
		e.metrics.GenerationAttempts.WithLabelValues(category, "rate_limited").Inc()
		e.logger.Warn("generation rate limited, backing off",
			zap.String("category", category),
			zap.Int("attempt", attempt+1),
			zap.Int("maxAttempts", e.policy.MaxAttempts))

		if attempt == e.policy.MaxAttempts-1 {
			break
		}
		timer := time.NewTimer(e.policy.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return "", appErrors.NewGenerationFailed("no usable output after retries", lastErr)
}

var readinessPattern = regexp.MustCompile(`(?i)^READINESS:\s*(-?\d+)\s*$`)

// extractReadiness strips the trailing readiness line from a generated
// question and returns its value, or UnknownReadiness when absent.
func extractReadiness(raw string) (string, int) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	readiness := UnknownReadiness
	var kept []string
	for _, line := range lines {
		if m := readinessPattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				readiness = v
			}
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n")), readiness
}

// maxTokensFor sizes the completion budget to the requested article length,
// with headroom for the title and markdown framing.
func maxTokensFor(targetLength int) int {
	tokens := targetLength*2 + 512
	if tokens < 1024 {
		tokens = 1024
	}
	if tokens > 8192 {
		tokens = 8192
	}
	return tokens
}
