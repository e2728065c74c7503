// Package memory provides an in-memory Repository implementation used by
// tests and by deployments that run without a database file.
package memory

import (
	"context"
	"sync"

	"github.com/komi0929/pen-sub000/internal/domain"
	"github.com/komi0929/pen-sub000/internal/repository"
	appErrors "github.com/komi0929/pen-sub000/pkg/errors"
)

// Store keeps every aggregate in maps guarded by a single RWMutex. Slices
// preserve insertion order so listings are stable without timestamp ties.
type Store struct {
	mu sync.RWMutex

	themes     map[string]*domain.Theme
	themeOrder []string

	memos     map[string]*domain.Memo
	memoOrder []string

	interviews map[string]*domain.Interview
	messages   map[string][]*domain.InterviewMessage

	articles     map[string]*domain.Article
	articleOrder []string
	history      map[string][]*domain.ArticleEditHistory

	styleRefs  map[string]*domain.StyleReference
	styleOrder []string
}

var _ repository.Repository = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		themes:     make(map[string]*domain.Theme),
		memos:      make(map[string]*domain.Memo),
		interviews: make(map[string]*domain.Interview),
		messages:   make(map[string][]*domain.InterviewMessage),
		articles:   make(map[string]*domain.Article),
		history:    make(map[string][]*domain.ArticleEditHistory),
		styleRefs:  make(map[string]*domain.StyleReference),
	}
}

// ----------------------------------------------------------------------------
// Themes
// ----------------------------------------------------------------------------

func (s *Store) CreateTheme(ctx context.Context, theme *domain.Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *theme
	s.themes[theme.ID] = &cp
	s.themeOrder = append(s.themeOrder, theme.ID)
	return nil
}

func (s *Store) FindThemeByID(ctx context.Context, userID, themeID string) (*domain.Theme, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	theme, ok := s.themes[themeID]
	if !ok || theme.UserID != userID {
		return nil, nil
	}
	cp := *theme
	return &cp, nil
}

func (s *Store) ListThemes(ctx context.Context, userID string) ([]*domain.Theme, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Theme
	for i := len(s.themeOrder) - 1; i >= 0; i-- {
		if theme, ok := s.themes[s.themeOrder[i]]; ok && theme.UserID == userID {
			cp := *theme
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) UpdateTheme(ctx context.Context, theme *domain.Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.themes[theme.ID]
	if !ok || existing.UserID != theme.UserID {
		return appErrors.NewNotFound("theme not found")
	}
	cp := *theme
	s.themes[theme.ID] = &cp
	return nil
}

func (s *Store) DeleteTheme(ctx context.Context, userID, themeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	theme, ok := s.themes[themeID]
	if !ok || theme.UserID != userID {
		return appErrors.NewNotFound("theme not found")
	}
	delete(s.themes, themeID)

	// Cascade to owned entities.
	for id, memo := range s.memos {
		if memo.ThemeID == themeID {
			delete(s.memos, id)
		}
	}
	for id, iv := range s.interviews {
		if iv.ThemeID == themeID {
			delete(s.interviews, id)
			delete(s.messages, id)
		}
	}
	for id, a := range s.articles {
		if a.ThemeID == themeID {
			delete(s.articles, id)
			delete(s.history, id)
		}
	}
	return nil
}

// ----------------------------------------------------------------------------
// Memos
// ----------------------------------------------------------------------------

func (s *Store) CreateMemo(ctx context.Context, memo *domain.Memo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *memo
	s.memos[memo.ID] = &cp
	s.memoOrder = append(s.memoOrder, memo.ID)
	return nil
}

func (s *Store) ListMemosByTheme(ctx context.Context, userID, themeID string) ([]*domain.Memo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Memo
	for _, id := range s.memoOrder {
		if memo, ok := s.memos[id]; ok && memo.UserID == userID && memo.ThemeID == themeID {
			cp := *memo
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) DeleteMemo(ctx context.Context, userID, memoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	memo, ok := s.memos[memoID]
	if !ok || memo.UserID != userID {
		return appErrors.NewNotFound("memo not found")
	}
	delete(s.memos, memoID)
	return nil
}

// ----------------------------------------------------------------------------
// Interviews
// ----------------------------------------------------------------------------

func (s *Store) CreateInterview(ctx context.Context, interview *domain.Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *interview
	s.interviews[interview.ID] = &cp
	return nil
}

func (s *Store) FindInterviewByID(ctx context.Context, userID, interviewID string) (*domain.Interview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	iv, ok := s.interviews[interviewID]
	if !ok || iv.UserID != userID {
		return nil, nil
	}
	cp := *iv
	return &cp, nil
}

func (s *Store) FindActiveInterview(ctx context.Context, userID, themeID string) (*domain.Interview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, iv := range s.interviews {
		if iv.UserID == userID && iv.ThemeID == themeID && iv.Status == domain.InterviewStatusActive {
			cp := *iv
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) UpdateInterviewStatus(ctx context.Context, userID, interviewID string, status domain.InterviewStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	iv, ok := s.interviews[interviewID]
	if !ok || iv.UserID != userID {
		return appErrors.NewNotFound("interview not found")
	}
	iv.Status = status
	return nil
}

func (s *Store) AppendMessage(ctx context.Context, message *domain.InterviewMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *message
	s.messages[message.InterviewID] = append(s.messages[message.InterviewID], &cp)
	return nil
}

func (s *Store) ListMessages(ctx context.Context, interviewID string) ([]*domain.InterviewMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.messages[interviewID]
	out := make([]*domain.InterviewMessage, len(msgs))
	for i, m := range msgs {
		cp := *m
		out[i] = &cp
	}
	return out, nil
}

// ----------------------------------------------------------------------------
// Articles
// ----------------------------------------------------------------------------

func (s *Store) CreateArticle(ctx context.Context, article *domain.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *article
	s.articles[article.ID] = &cp
	s.articleOrder = append(s.articleOrder, article.ID)
	return nil
}

func (s *Store) FindArticleByID(ctx context.Context, userID, articleID string) (*domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.articles[articleID]
	if !ok || a.UserID != userID {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (s *Store) ListArticlesByTheme(ctx context.Context, userID, themeID string) ([]*domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Article
	for i := len(s.articleOrder) - 1; i >= 0; i-- {
		if a, ok := s.articles[s.articleOrder[i]]; ok && a.UserID == userID && a.ThemeID == themeID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) UpdateArticle(ctx context.Context, article *domain.Article, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.articles[article.ID]
	if !ok || existing.UserID != article.UserID {
		return appErrors.NewNotFound("article not found")
	}
	if existing.Version != expectedVersion {
		return appErrors.NewConflict("article was modified by another request")
	}
	cp := *article
	s.articles[article.ID] = &cp
	return nil
}

func (s *Store) AppendHistory(ctx context.Context, entry *domain.ArticleEditHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *entry
	s.history[entry.ArticleID] = append(s.history[entry.ArticleID], &cp)
	return nil
}

func (s *Store) ListHistory(ctx context.Context, userID, articleID string) ([]*domain.ArticleEditHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.articles[articleID]
	if !ok || a.UserID != userID {
		return nil, nil
	}
	entries := s.history[articleID]
	out := make([]*domain.ArticleEditHistory, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		cp := *entries[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Store) FindHistoryByID(ctx context.Context, userID, articleID, historyID string) (*domain.ArticleEditHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.articles[articleID]
	if !ok || a.UserID != userID {
		return nil, nil
	}
	for _, entry := range s.history[articleID] {
		if entry.ID == historyID {
			cp := *entry
			return &cp, nil
		}
	}
	return nil, nil
}

// ----------------------------------------------------------------------------
// Style references
// ----------------------------------------------------------------------------

func (s *Store) CreateStyleReference(ctx context.Context, ref *domain.StyleReference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *ref
	s.styleRefs[ref.ID] = &cp
	s.styleOrder = append(s.styleOrder, ref.ID)
	return nil
}

func (s *Store) FindStyleReferenceByID(ctx context.Context, userID, refID string) (*domain.StyleReference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ref, ok := s.styleRefs[refID]
	if !ok || ref.UserID != userID {
		return nil, nil
	}
	cp := *ref
	return &cp, nil
}

func (s *Store) ListStyleReferences(ctx context.Context, userID string) ([]*domain.StyleReference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.StyleReference
	for _, id := range s.styleOrder {
		if ref, ok := s.styleRefs[id]; ok && ref.UserID == userID {
			cp := *ref
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) SetDefaultStyleReference(ctx context.Context, userID, refID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.styleRefs[refID]
	if !ok || target.UserID != userID {
		return appErrors.NewNotFound("style reference not found")
	}
	for _, ref := range s.styleRefs {
		if ref.UserID == userID {
			ref.IsDefault = false
		}
	}
	target.IsDefault = true
	return nil
}

func (s *Store) DeleteStyleReference(ctx context.Context, userID, refID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref, ok := s.styleRefs[refID]
	if !ok || ref.UserID != userID {
		return appErrors.NewNotFound("style reference not found")
	}
	delete(s.styleRefs, refID)
	return nil
}
