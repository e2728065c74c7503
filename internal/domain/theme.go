// Package domain defines the core entities of the writing pipeline: themes,
// memos, interviews, articles and their edit history.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Theme is a named writing intent. It owns memos, interviews and articles;
// deleting a theme cascades to everything it owns.
type Theme struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewTheme creates a theme owned by the given user.
func NewTheme(userID, title, description string) *Theme {
	now := time.Now()
	return &Theme{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Memo is a fragment of raw user thought bound to a theme. Immutable once
// created except by deletion.
type Memo struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ThemeID   string    `json:"themeId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewMemo creates a memo under a theme.
func NewMemo(userID, themeID, content string) *Memo {
	return &Memo{
		ID:        uuid.New().String(),
		UserID:    userID,
		ThemeID:   themeID,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// StyleReference is a labeled sample of prose used to bias generation tone.
// At most one reference per user is flagged default.
type StyleReference struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Label     string    `json:"label"`
	Content   string    `json:"content"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewStyleReference creates a style reference sample.
func NewStyleReference(userID, label, content string) *StyleReference {
	return &StyleReference{
		ID:        uuid.New().String(),
		UserID:    userID,
		Label:     label,
		Content:   content,
		CreatedAt: time.Now(),
	}
}
