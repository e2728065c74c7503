// Package interview drives the interview state machine: starting sessions,
// alternating question and answer turns, skips, and completion into a
// finished article.
package interview

import (
	"context"

	"go.uber.org/zap"

	"github.com/komi0929/pen-sub000/internal/domain"
	"github.com/komi0929/pen-sub000/internal/repository"
	"github.com/komi0929/pen-sub000/internal/service/article"
	"github.com/komi0929/pen-sub000/internal/service/prompt"
	"github.com/komi0929/pen-sub000/internal/service/writer"
	appErrors "github.com/komi0929/pen-sub000/pkg/errors"
)

// skipSentinel is the user turn recorded when the writer declines a question.
// It keeps the transcript's alternation intact and tells the model to change
// direction.
const skipSentinel = "(skipped)"

// minMessagesForCompletion is the smallest transcript that can produce an
// article: the opening question and at least one user turn.
const minMessagesForCompletion = 2

// Conductor runs interview sessions. Turns and completion go through a
// per-interview in-flight guard; a request arriving while another is pending
// for the same session is rejected, not queued.
type Conductor struct {
	repo     repository.Repository
	engine   *writer.Engine
	prompts  *prompt.Store
	articles *article.Service
	logger   *zap.Logger
	inflight *inflightGuard
}

// NewConductor creates the interview conductor.
func NewConductor(repo repository.Repository, engine *writer.Engine, prompts *prompt.Store, articles *article.Service, logger *zap.Logger) *Conductor {
	return &Conductor{
		repo:     repo,
		engine:   engine,
		prompts:  prompts,
		articles: articles,
		logger:   logger,
		inflight: newInflightGuard(),
	}
}

// TurnResult is one step of the interview as returned to the caller: the
// session, the assistant's new question, and the rescaled readiness when the
// model reported one.
type TurnResult struct {
	Interview *domain.Interview        `json:"interview"`
	Question  *domain.InterviewMessage `json:"question"`
	Readiness *int                     `json:"readiness,omitempty"`
}

// CompleteOptions tune the final article synthesis.
type CompleteOptions struct {
	Pronoun          string
	WritingStyle     string
	StyleReferenceID string
}

// Start opens a new interview under a theme and generates the opening
// question. A theme holds at most one active interview; starting a second is
// a conflict.
func (c *Conductor) Start(ctx context.Context, userID, themeID string, targetLength int) (*TurnResult, error) {
	if targetLength <= 0 {
		return nil, appErrors.NewValidation("target length must be positive")
	}

	theme, err := c.loadTheme(ctx, userID, themeID)
	if err != nil {
		return nil, err
	}

	existing, err := c.repo.FindActiveInterview(ctx, userID, themeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, appErrors.NewConflict("theme already has an active interview")
	}

	iv := domain.NewInterview(userID, themeID, targetLength)

	// Generate before persisting anything. A failed start leaves no record
	// behind, so the caller can retry the whole operation.
	turn, err := c.nextQuestion(ctx, iv, theme, nil, false)
	if err != nil {
		return nil, err
	}
	if err := c.repo.CreateInterview(ctx, iv); err != nil {
		return nil, err
	}
	result, err := c.recordQuestion(ctx, iv, turn)
	if err != nil {
		return nil, err
	}
	c.logger.Info("interview started",
		zap.String("interviewId", iv.ID),
		zap.String("themeId", themeID),
		zap.Int("targetLength", targetLength))
	return result, nil
}

// Answer records the writer's reply verbatim, then generates the next
// question.
func (c *Conductor) Answer(ctx context.Context, userID, interviewID, content string) (*TurnResult, error) {
	if content == "" {
		return nil, appErrors.NewValidation("answer content is required")
	}
	return c.turn(ctx, userID, interviewID, content, false)
}

// Skip records a sentinel user turn and immediately asks a different
// question, keeping the transcript's question/answer alternation intact.
func (c *Conductor) Skip(ctx context.Context, userID, interviewID string) (*TurnResult, error) {
	return c.turn(ctx, userID, interviewID, skipSentinel, true)
}

// Get returns the interview and its full ordered transcript.
func (c *Conductor) Get(ctx context.Context, userID, interviewID string) (*domain.Interview, []*domain.InterviewMessage, error) {
	iv, err := c.loadInterview(ctx, userID, interviewID)
	if err != nil {
		return nil, nil, err
	}
	messages, err := c.repo.ListMessages(ctx, iv.ID)
	if err != nil {
		return nil, nil, err
	}
	return iv, messages, nil
}

// Complete freezes the interview and synthesizes the article. The article and
// its initial history snapshot are persisted before the session flips to
// completed, so a crash in between leaves a resumable interview rather than a
// completed session with no article.
func (c *Conductor) Complete(ctx context.Context, userID, interviewID string, opts CompleteOptions) (*domain.Article, error) {
	iv, err := c.loadInterview(ctx, userID, interviewID)
	if err != nil {
		return nil, err
	}
	if !iv.IsActive() {
		return nil, appErrors.NewConflict("interview already completed")
	}

	if !c.inflight.tryAcquire(iv.ID) {
		return nil, appErrors.NewConflict("a generation request for this interview is already in flight")
	}
	defer c.inflight.release(iv.ID)

	messages, err := c.repo.ListMessages(ctx, iv.ID)
	if err != nil {
		return nil, err
	}
	if len(messages) < minMessagesForCompletion {
		return nil, appErrors.NewValidation("interview needs at least one answered question before completion")
	}

	theme, err := c.loadTheme(ctx, userID, iv.ThemeID)
	if err != nil {
		return nil, err
	}
	memos, err := c.listMemoContents(ctx, userID, iv.ThemeID)
	if err != nil {
		return nil, err
	}
	styleSample, err := c.resolveStyleSample(ctx, userID, opts.StyleReferenceID)
	if err != nil {
		return nil, err
	}

	draft, err := c.engine.ComposeArticle(ctx, c.prompts.Registry(), writer.ArticleInput{
		ThemeTitle:       theme.Title,
		ThemeDescription: theme.Description,
		Memos:            memos,
		Messages:         toWriterMessages(messages),
		TargetLength:     iv.TargetLength,
		Pronoun:          opts.Pronoun,
		WritingStyle:     opts.WritingStyle,
		StyleReference:   styleSample,
	})
	if err != nil {
		return nil, err
	}

	a, err := c.articles.CreateFromDraft(ctx, userID, iv.ThemeID, iv.ID, draft)
	if err != nil {
		return nil, err
	}
	if err := c.repo.UpdateInterviewStatus(ctx, userID, iv.ID, domain.InterviewStatusCompleted); err != nil {
		return nil, err
	}

	c.logger.Info("interview completed",
		zap.String("interviewId", iv.ID),
		zap.String("articleId", a.ID),
		zap.Int("messages", len(messages)))
	return a, nil
}

// turn is the shared answer/skip path. The user turn is generated against
// but only recorded once the follow-up question exists; a failed generation
// leaves the transcript untouched, so a retried answer records exactly one
// user message.
func (c *Conductor) turn(ctx context.Context, userID, interviewID, content string, isSkip bool) (*TurnResult, error) {
	iv, err := c.loadInterview(ctx, userID, interviewID)
	if err != nil {
		return nil, err
	}
	if !iv.IsActive() {
		return nil, appErrors.NewConflict("interview already completed")
	}

	if !c.inflight.tryAcquire(iv.ID) {
		return nil, appErrors.NewConflict("a generation request for this interview is already in flight")
	}
	defer c.inflight.release(iv.ID)

	theme, err := c.loadTheme(ctx, userID, iv.ThemeID)
	if err != nil {
		return nil, err
	}
	messages, err := c.repo.ListMessages(ctx, iv.ID)
	if err != nil {
		return nil, err
	}

	userMsg := domain.NewInterviewMessage(iv.ID, domain.RoleUser, content)
	turn, err := c.nextQuestion(ctx, iv, theme, append(messages, userMsg), isSkip)
	if err != nil {
		return nil, err
	}

	if err := c.repo.AppendMessage(ctx, userMsg); err != nil {
		return nil, err
	}
	return c.recordQuestion(ctx, iv, turn)
}

// nextQuestion generates the next assistant question without touching the
// store. messages may be nil for the opening question.
func (c *Conductor) nextQuestion(ctx context.Context, iv *domain.Interview, theme *domain.Theme, messages []*domain.InterviewMessage, isSkip bool) (*writer.Turn, error) {
	memos, err := c.listMemoContents(ctx, iv.UserID, iv.ThemeID)
	if err != nil {
		return nil, err
	}

	return c.engine.NextQuestion(ctx, c.prompts.Registry(), writer.TurnInput{
		ThemeTitle:       theme.Title,
		ThemeDescription: theme.Description,
		Memos:            memos,
		Messages:         toWriterMessages(messages),
		IsSkip:           isSkip,
	})
}

// recordQuestion persists a generated assistant turn.
func (c *Conductor) recordQuestion(ctx context.Context, iv *domain.Interview, turn *writer.Turn) (*TurnResult, error) {
	question := domain.NewInterviewMessage(iv.ID, domain.RoleAssistant, turn.Question)
	if err := c.repo.AppendMessage(ctx, question); err != nil {
		return nil, err
	}

	return &TurnResult{
		Interview: iv,
		Question:  question,
		Readiness: DisplayReadiness(turn.Readiness),
	}, nil
}

func (c *Conductor) loadInterview(ctx context.Context, userID, interviewID string) (*domain.Interview, error) {
	iv, err := c.repo.FindInterviewByID(ctx, userID, interviewID)
	if err != nil {
		return nil, err
	}
	if iv == nil {
		return nil, appErrors.NewNotFound("interview not found")
	}
	return iv, nil
}

func (c *Conductor) loadTheme(ctx context.Context, userID, themeID string) (*domain.Theme, error) {
	theme, err := c.repo.FindThemeByID(ctx, userID, themeID)
	if err != nil {
		return nil, err
	}
	if theme == nil {
		return nil, appErrors.NewNotFound("theme not found")
	}
	return theme, nil
}

func (c *Conductor) listMemoContents(ctx context.Context, userID, themeID string) ([]string, error) {
	memos, err := c.repo.ListMemosByTheme(ctx, userID, themeID)
	if err != nil {
		return nil, err
	}
	contents := make([]string, 0, len(memos))
	for _, memo := range memos {
		contents = append(contents, memo.Content)
	}
	return contents, nil
}

// resolveStyleSample returns the reference text to bias synthesis with: the
// named reference, else the user's default, else nothing. Unlike rewrite,
// completion works fine without one.
func (c *Conductor) resolveStyleSample(ctx context.Context, userID, refID string) (string, error) {
	if refID != "" {
		ref, err := c.repo.FindStyleReferenceByID(ctx, userID, refID)
		if err != nil {
			return "", err
		}
		if ref == nil {
			return "", appErrors.NewNotFound("style reference not found")
		}
		return ref.Content, nil
	}

	refs, err := c.repo.ListStyleReferences(ctx, userID)
	if err != nil {
		return "", err
	}
	for _, ref := range refs {
		if ref.IsDefault {
			return ref.Content, nil
		}
	}
	return "", nil
}

func toWriterMessages(messages []*domain.InterviewMessage) []writer.Message {
	out := make([]writer.Message, 0, len(messages))
	for _, msg := range messages {
		out = append(out, writer.Message{Role: string(msg.Role), Content: msg.Content})
	}
	return out
}
