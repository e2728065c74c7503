// Package article manages finished articles and their append-only edit
// history. Every mutation snapshots the prior state before the new state is
// written, so any previous text stays reachable forever.
package article

import (
	"context"

	"go.uber.org/zap"

	"github.com/komi0929/pen-sub000/internal/domain"
	"github.com/komi0929/pen-sub000/internal/repository"
	"github.com/komi0929/pen-sub000/internal/service/writer"
	appErrors "github.com/komi0929/pen-sub000/pkg/errors"
	"github.com/komi0929/pen-sub000/pkg/observability"
)

// History labels recorded with each snapshot. Labels are display hints, not
// identifiers; the history entry ID is what restore operates on.
const (
	labelInitial       = "initial"
	labelManualEdit    = "manual edit"
	labelBeforeRestore = "before restore"
	labelBeforeRewrite = "before rewrite"
)

// Service is the article side of the pipeline: creation from generated
// drafts, manual edits, style rewrites, and history restore.
type Service struct {
	repo    repository.Repository
	engine  *writer.Engine
	metrics *observability.Collector
	logger  *zap.Logger
}

// NewService creates the article service.
func NewService(repo repository.Repository, engine *writer.Engine, metrics *observability.Collector, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		engine:  engine,
		metrics: metrics,
		logger:  logger,
	}
}

// CreateFromDraft persists a freshly generated article together with its
// initial history snapshot, so even the first state can be restored after
// later edits.
func (s *Service) CreateFromDraft(ctx context.Context, userID, themeID, interviewID string, draft *writer.Draft) (*domain.Article, error) {
	a := domain.NewArticle(userID, themeID, interviewID, draft.Title, draft.Content)
	if err := s.repo.CreateArticle(ctx, a); err != nil {
		return nil, err
	}
	if err := s.repo.AppendHistory(ctx, domain.NewHistoryEntry(a, labelInitial)); err != nil {
		return nil, err
	}
	s.metrics.ArticlesCreated.Inc()
	s.logger.Info("article created",
		zap.String("articleId", a.ID),
		zap.String("themeId", themeID),
		zap.Int("wordCount", a.WordCount))
	return a, nil
}

// Get returns one article.
func (s *Service) Get(ctx context.Context, userID, articleID string) (*domain.Article, error) {
	return s.load(ctx, userID, articleID)
}

// ListByTheme returns a theme's articles.
func (s *Service) ListByTheme(ctx context.Context, userID, themeID string) ([]*domain.Article, error) {
	return s.repo.ListArticlesByTheme(ctx, userID, themeID)
}

// Edit applies a manual edit. The pre-edit state is snapshotted to history
// first, then the new state is written under a version check.
func (s *Service) Edit(ctx context.Context, userID, articleID, title, content string) (*domain.Article, error) {
	if title == "" {
		return nil, appErrors.NewValidation("title is required")
	}
	if content == "" {
		return nil, appErrors.NewValidation("content is required")
	}
	return s.apply(ctx, userID, articleID, title, content, labelManualEdit)
}

// History lists an article's edit history, newest first.
func (s *Service) History(ctx context.Context, userID, articleID string) ([]*domain.ArticleEditHistory, error) {
	if _, err := s.load(ctx, userID, articleID); err != nil {
		return nil, err
	}
	return s.repo.ListHistory(ctx, userID, articleID)
}

// Restore rewinds the article to a history entry's text. The entry itself is
// untouched; the pre-restore state is snapshotted first, so restore is always
// reversible.
func (s *Service) Restore(ctx context.Context, userID, articleID, historyID string) (*domain.Article, error) {
	entry, err := s.repo.FindHistoryByID(ctx, userID, articleID, historyID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, appErrors.NewNotFound("history entry not found")
	}

	a, err := s.apply(ctx, userID, articleID, entry.Title, entry.Content, labelBeforeRestore)
	if err != nil {
		return nil, err
	}
	s.metrics.ArticlesRestored.Inc()
	s.logger.Info("article restored",
		zap.String("articleId", articleID),
		zap.String("historyId", historyID))
	return a, nil
}

// Rewrite restyles the article with a style reference. Generation runs first;
// only a successful draft touches the ledger, so a failed rewrite leaves both
// article and history exactly as they were.
func (s *Service) Rewrite(ctx context.Context, userID, articleID, styleReferenceID string) (*domain.Article, error) {
	a, err := s.load(ctx, userID, articleID)
	if err != nil {
		return nil, err
	}

	ref, err := s.resolveStyleReference(ctx, userID, styleReferenceID)
	if err != nil {
		return nil, err
	}

	draft, err := s.engine.RewriteArticle(ctx, writer.RewriteInput{
		Title:          a.Title,
		Content:        a.Content,
		StyleReference: ref.Content,
	})
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, userID, articleID, draft.Title, draft.Content, labelBeforeRewrite)
}

// apply is the ledger's single write path: read current, snapshot it, then
// write the new state under the version read at the start. A concurrent
// writer between snapshot and write surfaces as a conflict; the extra
// snapshot is harmless since history is append-only.
func (s *Service) apply(ctx context.Context, userID, articleID, title, content, label string) (*domain.Article, error) {
	a, err := s.load(ctx, userID, articleID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AppendHistory(ctx, domain.NewHistoryEntry(a, label)); err != nil {
		return nil, err
	}

	expected := a.Version
	a.ApplyEdit(title, content)
	if err := s.repo.UpdateArticle(ctx, a, expected); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) load(ctx context.Context, userID, articleID string) (*domain.Article, error) {
	a, err := s.repo.FindArticleByID(ctx, userID, articleID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, appErrors.NewNotFound("article not found")
	}
	return a, nil
}

// resolveStyleReference returns the requested reference, or the user's
// default when no ID is given.
func (s *Service) resolveStyleReference(ctx context.Context, userID, refID string) (*domain.StyleReference, error) {
	if refID != "" {
		ref, err := s.repo.FindStyleReferenceByID(ctx, userID, refID)
		if err != nil {
			return nil, err
		}
		if ref == nil {
			return nil, appErrors.NewNotFound("style reference not found")
		}
		return ref, nil
	}

	refs, err := s.repo.ListStyleReferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, ref := range refs {
		if ref.IsDefault {
			return ref, nil
		}
	}
	return nil, appErrors.NewValidation("no style reference given and no default set")
}
