// Package sqlite provides the SQLite-backed Repository implementation used in
// production deployments.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/komi0929/pen-sub000/internal/domain"
	"github.com/komi0929/pen-sub000/internal/repository"
	appErrors "github.com/komi0929/pen-sub000/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS themes (
    id          TEXT PRIMARY KEY,
    user_id     TEXT NOT NULL,
    title       TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL,
    updated_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_themes_user ON themes(user_id);

CREATE TABLE IF NOT EXISTS memos (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL,
    theme_id   TEXT NOT NULL,
    content    TEXT NOT NULL,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_memos_theme ON memos(theme_id);

CREATE TABLE IF NOT EXISTS interviews (
    id            TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL,
    theme_id      TEXT NOT NULL,
    target_length INTEGER NOT NULL,
    status        TEXT NOT NULL,
    created_at    TEXT NOT NULL,
    updated_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_interviews_theme ON interviews(theme_id, status);

CREATE TABLE IF NOT EXISTS interview_messages (
    id           TEXT PRIMARY KEY,
    interview_id TEXT NOT NULL,
    seq          INTEGER NOT NULL,
    role         TEXT NOT NULL,
    content      TEXT NOT NULL,
    created_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_interview ON interview_messages(interview_id, seq);

CREATE TABLE IF NOT EXISTS articles (
    id           TEXT PRIMARY KEY,
    user_id      TEXT NOT NULL,
    theme_id     TEXT NOT NULL,
    interview_id TEXT NOT NULL DEFAULT '',
    title        TEXT NOT NULL,
    content      TEXT NOT NULL,
    word_count   INTEGER NOT NULL,
    version      INTEGER NOT NULL,
    created_at   TEXT NOT NULL,
    updated_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_articles_theme ON articles(theme_id);

CREATE TABLE IF NOT EXISTS article_edit_history (
    id         TEXT PRIMARY KEY,
    article_id TEXT NOT NULL,
    seq        INTEGER NOT NULL,
    title      TEXT NOT NULL,
    content    TEXT NOT NULL,
    word_count INTEGER NOT NULL,
    edit_label TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_article ON article_edit_history(article_id, seq);

CREATE TABLE IF NOT EXISTS style_references (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL,
    label      TEXT NOT NULL,
    content    TEXT NOT NULL,
    is_default INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_style_refs_user ON style_references(user_id);
`

// Store is the SQLite-backed data store.
type Store struct {
	db *sql.DB
}

var _ repository.Repository = (*Store)(nil)

// Open opens (creating if necessary) the database at path and bootstraps the
// schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, appErrors.NewStoreUnavailable("failed to open database", err)
	}
	// database/sql pools connections; sqlite handles one writer at a time.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, appErrors.NewStoreUnavailable("failed to bootstrap schema", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(v string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, v)
	return t
}

// ----------------------------------------------------------------------------
// Themes
// ----------------------------------------------------------------------------

func (s *Store) CreateTheme(ctx context.Context, theme *domain.Theme) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO themes (id, user_id, title, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		theme.ID, theme.UserID, theme.Title, theme.Description, formatTime(theme.CreatedAt), formatTime(theme.UpdatedAt))
	if err != nil {
		return appErrors.NewStoreUnavailable("failed to create theme", err)
	}
	return nil
}

func (s *Store) FindThemeByID(ctx context.Context, userID, themeID string) (*domain.Theme, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, created_at, updated_at FROM themes WHERE id = ? AND user_id = ?`,
		themeID, userID)
	return scanTheme(row)
}

func scanTheme(row *sql.Row) (*domain.Theme, error) {
	var t domain.Theme
	var createdAt, updatedAt string
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, appErrors.NewStoreUnavailable("failed to read theme", err)
	}
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return &t, nil
}

func (s *Store) ListThemes(ctx context.Context, userID string) ([]*domain.Theme, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, description, created_at, updated_at FROM themes WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, appErrors.NewStoreUnavailable("failed to list themes", err)
	}
	defer rows.Close()

	var out []*domain.Theme
	for rows.Next() {
		var t domain.Theme
		var createdAt, updatedAt string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &createdAt, &updatedAt); err != nil {
			return nil, appErrors.NewStoreUnavailable("failed to read theme row", err)
		}
		t.CreatedAt = parseTime(createdAt)
		t.UpdatedAt = parseTime(updatedAt)
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (s *Store) UpdateTheme(ctx context.Context, theme *domain.Theme) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE themes SET title = ?, description = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		theme.Title, theme.Description, formatTime(time.Now()), theme.ID, theme.UserID)
	if err != nil {
		return appErrors.NewStoreUnavailable("failed to update theme", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.NewNotFound("theme not found")
	}
	return nil
}

func (s *Store) DeleteTheme(ctx context.Context, userID, themeID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return appErrors.NewStoreUnavailable("failed to begin transaction", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM themes WHERE id = ? AND user_id = ?`, themeID, userID)
	if err != nil {
		return appErrors.NewStoreUnavailable("failed to delete theme", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.NewNotFound("theme not found")
	}

	// Cascade to owned entities.
	if _, err := tx.ExecContext(ctx, `DELETE FROM memos WHERE theme_id = ?`, themeID); err != nil {
		return appErrors.NewStoreUnavailable("failed to delete memos", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM interview_messages WHERE interview_id IN (SELECT id FROM interviews WHERE theme_id = ?)`, themeID); err != nil {
		return appErrors.NewStoreUnavailable("failed to delete interview messages", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM interviews WHERE theme_id = ?`, themeID); err != nil {
		return appErrors.NewStoreUnavailable("failed to delete interviews", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM article_edit_history WHERE article_id IN (SELECT id FROM articles WHERE theme_id = ?)`, themeID); err != nil {
		return appErrors.NewStoreUnavailable("failed to delete article history", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM articles WHERE theme_id = ?`, themeID); err != nil {
		return appErrors.NewStoreUnavailable("failed to delete articles", err)
	}

	if err := tx.Commit(); err != nil {
		return appErrors.NewStoreUnavailable("failed to commit theme deletion", err)
	}
	return nil
}

// ----------------------------------------------------------------------------
// Memos
// ----------------------------------------------------------------------------

func (s *Store) CreateMemo(ctx context.Context, memo *domain.Memo) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memos (id, user_id, theme_id, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		memo.ID, memo.UserID, memo.ThemeID, memo.Content, formatTime(memo.CreatedAt))
	if err != nil {
		return appErrors.NewStoreUnavailable("failed to create memo", err)
	}
	return nil
}

func (s *Store) ListMemosByTheme(ctx context.Context, userID, themeID string) ([]*domain.Memo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, theme_id, content, created_at FROM memos WHERE user_id = ? AND theme_id = ? ORDER BY created_at ASC`,
		userID, themeID)
	if err != nil {
		return nil, appErrors.NewStoreUnavailable("failed to list memos", err)
	}
	defer rows.Close()

	var out []*domain.Memo
	for rows.Next() {
		var m domain.Memo
		var createdAt string
		if err := rows.Scan(&m.ID, &m.UserID, &m.ThemeID, &m.Content, &createdAt); err != nil {
			return nil, appErrors.NewStoreUnavailable("failed to read memo row", err)
		}
		m.CreatedAt = parseTime(createdAt)
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (s *Store) DeleteMemo(ctx context.Context, userID, memoID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM memos WHERE id = ? AND user_id = ?`, memoID, userID)
	if err != nil {
		return appErrors.NewStoreUnavailable("failed to delete memo", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.NewNotFound("memo not found")
	}
	return nil
}

// ----------------------------------------------------------------------------
// Interviews
// ----------------------------------------------------------------------------

func (s *Store) CreateInterview(ctx context.Context, interview *domain.Interview) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interviews (id, user_id, theme_id, target_length, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		interview.ID, interview.UserID, interview.ThemeID, interview.TargetLength,
		string(interview.Status), formatTime(interview.CreatedAt), formatTime(interview.UpdatedAt))
	if err != nil {
		return appErrors.NewStoreUnavailable("failed to create interview", err)
	}
	return nil
}

func (s *Store) FindInterviewByID(ctx context.Context, userID, interviewID string) (*domain.Interview, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, theme_id, target_length, status, created_at, updated_at FROM interviews WHERE id = ? AND user_id = ?`,
		interviewID, userID)
	return scanInterview(row)
}

func (s *Store) FindActiveInterview(ctx context.Context, userID, themeID string) (*domain.Interview, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, theme_id, target_length, status, created_at, updated_at
		 FROM interviews WHERE user_id = ? AND theme_id = ? AND status = ? ORDER BY created_at DESC LIMIT 1`,
		userID, themeID, string(domain.InterviewStatusActive))
	return scanInterview(row)
}

func scanInterview(row *sql.Row) (*domain.Interview, error) {
	var iv domain.Interview
	var status, createdAt, updatedAt string
	err := row.Scan(&iv.ID, &iv.UserID, &iv.ThemeID, &iv.TargetLength, &status, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, appErrors.NewStoreUnavailable("failed to read interview", err)
	}
	iv.Status = domain.InterviewStatus(status)
	iv.CreatedAt = parseTime(createdAt)
	iv.UpdatedAt = parseTime(updatedAt)
	return &iv, nil
}

func (s *Store) UpdateInterviewStatus(ctx context.Context, userID, interviewID string, status domain.InterviewStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE interviews SET status = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		string(status), formatTime(time.Now()), interviewID, userID)
	if err != nil {
		return appErrors.NewStoreUnavailable("failed to update interview status", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.NewNotFound("interview not found")
	}
	return nil
}

func (s *Store) AppendMessage(ctx context.Context, message *domain.InterviewMessage) error {
	// seq keeps ordering stable even when timestamps collide.
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interview_messages (id, interview_id, seq, role, content, created_at)
		 VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM interview_messages WHERE interview_id = ?), ?, ?, ?)`,
		message.ID, message.InterviewID, message.InterviewID, string(message.Role), message.Content, formatTime(message.CreatedAt))
	if err != nil {
		return appErrors.NewStoreUnavailable("failed to append message", err)
	}
	return nil
}

func (s *Store) ListMessages(ctx context.Context, interviewID string) ([]*domain.InterviewMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, interview_id, role, content, created_at FROM interview_messages WHERE interview_id = ? ORDER BY seq ASC`,
		interviewID)
	if err != nil {
		return nil, appErrors.NewStoreUnavailable("failed to list messages", err)
	}
	defer rows.Close()

	var out []*domain.InterviewMessage
	for rows.Next() {
		var m domain.InterviewMessage
		var role, createdAt string
		if err := rows.Scan(&m.ID, &m.InterviewID, &role, &m.Content, &createdAt); err != nil {
			return nil, appErrors.NewStoreUnavailable("failed to read message row", err)
		}
		m.Role = domain.MessageRole(role)
		m.CreatedAt = parseTime(createdAt)
		out = append(out, &m)
	}
	return out, rows.Err()
}

// ----------------------------------------------------------------------------
// Articles
// ----------------------------------------------------------------------------

func (s *Store) CreateArticle(ctx context.Context, article *domain.Article) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO articles (id, user_id, theme_id, interview_id, title, content, word_count, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		article.ID, article.UserID, article.ThemeID, article.InterviewID, article.Title, article.Content,
		article.WordCount, article.Version, formatTime(article.CreatedAt), formatTime(article.UpdatedAt))
	if err != nil {
		return appErrors.NewStoreUnavailable("failed to create article", err)
	}
	return nil
}

func (s *Store) FindArticleByID(ctx context.Context, userID, articleID string) (*domain.Article, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, theme_id, interview_id, title, content, word_count, version, created_at, updated_at
		 FROM articles WHERE id = ? AND user_id = ?`,
		articleID, userID)
	var a domain.Article
	var createdAt, updatedAt string
	err := row.Scan(&a.ID, &a.UserID, &a.ThemeID, &a.InterviewID, &a.Title, &a.Content, &a.WordCount, &a.Version, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, appErrors.NewStoreUnavailable("failed to read article", err)
	}
	a.CreatedAt = parseTime(createdAt)
	a.UpdatedAt = parseTime(updatedAt)
	return &a, nil
}

func (s *Store) ListArticlesByTheme(ctx context.Context, userID, themeID string) ([]*domain.Article, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, theme_id, interview_id, title, content, word_count, version, created_at, updated_at
		 FROM articles WHERE user_id = ? AND theme_id = ? ORDER BY created_at DESC`,
		userID, themeID)
	if err != nil {
		return nil, appErrors.NewStoreUnavailable("failed to list articles", err)
	}
	defer rows.Close()

	var out []*domain.Article
	for rows.Next() {
		var a domain.Article
		var createdAt, updatedAt string
		if err := rows.Scan(&a.ID, &a.UserID, &a.ThemeID, &a.InterviewID, &a.Title, &a.Content, &a.WordCount, &a.Version, &createdAt, &updatedAt); err != nil {
			return nil, appErrors.NewStoreUnavailable("failed to read article row", err)
		}
		a.CreatedAt = parseTime(createdAt)
		a.UpdatedAt = parseTime(updatedAt)
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (s *Store) UpdateArticle(ctx context.Context, article *domain.Article, expectedVersion int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE articles SET title = ?, content = ?, word_count = ?, version = ?, updated_at = ?
		 WHERE id = ? AND user_id = ? AND version = ?`,
		article.Title, article.Content, article.WordCount, article.Version, formatTime(article.UpdatedAt),
		article.ID, article.UserID, expectedVersion)
	if err != nil {
		return appErrors.NewStoreUnavailable("failed to update article", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		// Distinguish a missing row from a stale version.
		existing, findErr := s.FindArticleByID(ctx, article.UserID, article.ID)
		if findErr != nil {
			return findErr
		}
		if existing == nil {
			return appErrors.NewNotFound("article not found")
		}
		return appErrors.NewConflict("article was modified by another request")
	}
	return nil
}

func (s *Store) AppendHistory(ctx context.Context, entry *domain.ArticleEditHistory) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO article_edit_history (id, article_id, seq, title, content, word_count, edit_label, created_at)
		 VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM article_edit_history WHERE article_id = ?), ?, ?, ?, ?, ?)`,
		entry.ID, entry.ArticleID, entry.ArticleID, entry.Title, entry.Content, entry.WordCount, entry.EditLabel, formatTime(entry.CreatedAt))
	if err != nil {
		return appErrors.NewStoreUnavailable("failed to append history entry", err)
	}
	return nil
}

func (s *Store) ListHistory(ctx context.Context, userID, articleID string) ([]*domain.ArticleEditHistory, error) {
	article, err := s.FindArticleByID(ctx, userID, articleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, article_id, title, content, word_count, edit_label, created_at
		 FROM article_edit_history WHERE article_id = ? ORDER BY seq DESC`,
		articleID)
	if err != nil {
		return nil, appErrors.NewStoreUnavailable("failed to list history", err)
	}
	defer rows.Close()

	var out []*domain.ArticleEditHistory
	for rows.Next() {
		var h domain.ArticleEditHistory
		var createdAt string
		if err := rows.Scan(&h.ID, &h.ArticleID, &h.Title, &h.Content, &h.WordCount, &h.EditLabel, &createdAt); err != nil {
			return nil, appErrors.NewStoreUnavailable("failed to read history row", err)
		}
		h.CreatedAt = parseTime(createdAt)
		out = append(out, &h)
	}
	return out, rows.Err()
}

func (s *Store) FindHistoryByID(ctx context.Context, userID, articleID, historyID string) (*domain.ArticleEditHistory, error) {
	article, err := s.FindArticleByID(ctx, userID, articleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, nil
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, article_id, title, content, word_count, edit_label, created_at
		 FROM article_edit_history WHERE id = ? AND article_id = ?`,
		historyID, articleID)
	var h domain.ArticleEditHistory
	var createdAt string
	err = row.Scan(&h.ID, &h.ArticleID, &h.Title, &h.Content, &h.WordCount, &h.EditLabel, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, appErrors.NewStoreUnavailable("failed to read history entry", err)
	}
	h.CreatedAt = parseTime(createdAt)
	return &h, nil
}

// ----------------------------------------------------------------------------
// Style references
// ----------------------------------------------------------------------------

func (s *Store) CreateStyleReference(ctx context.Context, ref *domain.StyleReference) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO style_references (id, user_id, label, content, is_default, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		ref.ID, ref.UserID, ref.Label, ref.Content, boolToInt(ref.IsDefault), formatTime(ref.CreatedAt))
	if err != nil {
		return appErrors.NewStoreUnavailable("failed to create style reference", err)
	}
	return nil
}

func (s *Store) FindStyleReferenceByID(ctx context.Context, userID, refID string) (*domain.StyleReference, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, label, content, is_default, created_at FROM style_references WHERE id = ? AND user_id = ?`,
		refID, userID)
	var ref domain.StyleReference
	var isDefault int
	var createdAt string
	err := row.Scan(&ref.ID, &ref.UserID, &ref.Label, &ref.Content, &isDefault, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, appErrors.NewStoreUnavailable("failed to read style reference", err)
	}
	ref.IsDefault = isDefault != 0
	ref.CreatedAt = parseTime(createdAt)
	return &ref, nil
}

func (s *Store) ListStyleReferences(ctx context.Context, userID string) ([]*domain.StyleReference, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, label, content, is_default, created_at FROM style_references WHERE user_id = ? ORDER BY created_at ASC`,
		userID)
	if err != nil {
		return nil, appErrors.NewStoreUnavailable("failed to list style references", err)
	}
	defer rows.Close()

	var out []*domain.StyleReference
	for rows.Next() {
		var ref domain.StyleReference
		var isDefault int
		var createdAt string
		if err := rows.Scan(&ref.ID, &ref.UserID, &ref.Label, &ref.Content, &isDefault, &createdAt); err != nil {
			return nil, appErrors.NewStoreUnavailable("failed to read style reference row", err)
		}
		ref.IsDefault = isDefault != 0
		ref.CreatedAt = parseTime(createdAt)
		out = append(out, &ref)
	}
	return out, rows.Err()
}

func (s *Store) SetDefaultStyleReference(ctx context.Context, userID, refID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return appErrors.NewStoreUnavailable("failed to begin transaction", err)
	}
	defer tx.Rollback()

	// Clear the previous default before flagging the new one.
	if _, err := tx.ExecContext(ctx, `UPDATE style_references SET is_default = 0 WHERE user_id = ?`, userID); err != nil {
		return appErrors.NewStoreUnavailable("failed to clear default style reference", err)
	}
	res, err := tx.ExecContext(ctx, `UPDATE style_references SET is_default = 1 WHERE id = ? AND user_id = ?`, refID, userID)
	if err != nil {
		return appErrors.NewStoreUnavailable("failed to set default style reference", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.NewNotFound("style reference not found")
	}

	if err := tx.Commit(); err != nil {
		return appErrors.NewStoreUnavailable("failed to commit default change", err)
	}
	return nil
}

func (s *Store) DeleteStyleReference(ctx context.Context, userID, refID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM style_references WHERE id = ? AND user_id = ?`, refID, userID)
	if err != nil {
		return appErrors.NewStoreUnavailable("failed to delete style reference", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.NewNotFound("style reference not found")
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
