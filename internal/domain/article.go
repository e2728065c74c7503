package domain

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Article is a synthesized piece of prose bound to a theme and optionally to
// the interview that produced it. WordCount is always recomputed from content
// at write time, never supplied independently.
type Article struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	ThemeID     string    `json:"themeId"`
	InterviewID string    `json:"interviewId,omitempty"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	WordCount   int       `json:"wordCount"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewArticle creates an article with its word count derived from content.
func NewArticle(userID, themeID, interviewID, title, content string) *Article {
	now := time.Now()
	return &Article{
		ID:          uuid.New().String(),
		UserID:      userID,
		ThemeID:     themeID,
		InterviewID: interviewID,
		Title:       title,
		Content:     content,
		WordCount:   CountWords(content),
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ApplyEdit replaces the article text, recomputing the word count and
// advancing the optimistic-concurrency version.
func (a *Article) ApplyEdit(title, content string) {
	a.Title = title
	a.Content = content
	a.WordCount = CountWords(content)
	a.Version++
	a.UpdatedAt = time.Now()
}

// CountWords measures content length in runes, which matches how target
// lengths are expressed for CJK prose.
func CountWords(content string) int {
	return utf8.RuneCountInString(content)
}

// ArticleEditHistory is an immutable snapshot of an article's text at a point
// in time. Entries are never mutated or deleted; restoring only creates a new
// article state and a fresh snapshot of the pre-restore state.
type ArticleEditHistory struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"articleId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	WordCount int       `json:"wordCount"`
	EditLabel string    `json:"editLabel,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewHistoryEntry snapshots the article's current state under an optional
// human-readable label.
func NewHistoryEntry(a *Article, label string) *ArticleEditHistory {
	return &ArticleEditHistory{
		ID:        uuid.New().String(),
		ArticleID: a.ID,
		Title:     a.Title,
		Content:   a.Content,
		WordCount: a.WordCount,
		EditLabel: label,
		CreatedAt: time.Now(),
	}
}
