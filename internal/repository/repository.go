// Package repository defines the persistence contracts for the writing
// pipeline's aggregates. Implementations live in the memory and sqlite
// subpackages.
package repository

import (
	"context"

	"github.com/komi0929/pen-sub000/internal/domain"
)

// ThemeRepository manages themes and their cascade deletion.
type ThemeRepository interface {
	CreateTheme(ctx context.Context, theme *domain.Theme) error
	FindThemeByID(ctx context.Context, userID, themeID string) (*domain.Theme, error)
	ListThemes(ctx context.Context, userID string) ([]*domain.Theme, error)
	UpdateTheme(ctx context.Context, theme *domain.Theme) error
	// DeleteTheme removes a theme and everything it owns: memos, interviews
	// with their messages, articles with their history.
	DeleteTheme(ctx context.Context, userID, themeID string) error
}

// MemoRepository manages raw thought fragments under a theme.
type MemoRepository interface {
	CreateMemo(ctx context.Context, memo *domain.Memo) error
	ListMemosByTheme(ctx context.Context, userID, themeID string) ([]*domain.Memo, error)
	DeleteMemo(ctx context.Context, userID, memoID string) error
}

// InterviewRepository manages interview sessions and their append-only
// message sequences.
type InterviewRepository interface {
	CreateInterview(ctx context.Context, interview *domain.Interview) error
	FindInterviewByID(ctx context.Context, userID, interviewID string) (*domain.Interview, error)
	// FindActiveInterview returns the theme's active interview, or nil when
	// none exists. Callers use it to enforce the one-active-per-theme rule.
	FindActiveInterview(ctx context.Context, userID, themeID string) (*domain.Interview, error)
	UpdateInterviewStatus(ctx context.Context, userID, interviewID string, status domain.InterviewStatus) error
	AppendMessage(ctx context.Context, message *domain.InterviewMessage) error
	// ListMessages returns the interview's messages ordered by creation time.
	ListMessages(ctx context.Context, interviewID string) ([]*domain.InterviewMessage, error)
}

// ArticleRepository manages articles and their immutable edit history.
type ArticleRepository interface {
	CreateArticle(ctx context.Context, article *domain.Article) error
	FindArticleByID(ctx context.Context, userID, articleID string) (*domain.Article, error)
	ListArticlesByTheme(ctx context.Context, userID, themeID string) ([]*domain.Article, error)
	// UpdateArticle applies the article's new state only when the persisted
	// version still equals expectedVersion; a mismatch yields a conflict.
	UpdateArticle(ctx context.Context, article *domain.Article, expectedVersion int) error
	AppendHistory(ctx context.Context, entry *domain.ArticleEditHistory) error
	// ListHistory returns history entries newest first.
	ListHistory(ctx context.Context, userID, articleID string) ([]*domain.ArticleEditHistory, error)
	FindHistoryByID(ctx context.Context, userID, articleID, historyID string) (*domain.ArticleEditHistory, error)
}

// StyleReferenceRepository manages prose samples used to bias generation tone.
type StyleReferenceRepository interface {
	CreateStyleReference(ctx context.Context, ref *domain.StyleReference) error
	FindStyleReferenceByID(ctx context.Context, userID, refID string) (*domain.StyleReference, error)
	ListStyleReferences(ctx context.Context, userID string) ([]*domain.StyleReference, error)
	// SetDefaultStyleReference flags one reference as the user's default,
	// clearing any previous default first.
	SetDefaultStyleReference(ctx context.Context, userID, refID string) error
	DeleteStyleReference(ctx context.Context, userID, refID string) error
}

// Repository aggregates all persistence contracts behind one handle, the way
// the service layer consumes them.
type Repository interface {
	ThemeRepository
	MemoRepository
	InterviewRepository
	ArticleRepository
	StyleReferenceRepository
}
