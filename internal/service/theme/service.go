// Package theme manages the material that feeds interviews: themes, their
// memos, and the user's style reference samples.
package theme

import (
	"context"

	"go.uber.org/zap"

	"github.com/komi0929/pen-sub000/internal/domain"
	"github.com/komi0929/pen-sub000/internal/repository"
	appErrors "github.com/komi0929/pen-sub000/pkg/errors"
)

// Service is the CRUD layer over themes, memos and style references.
type Service struct {
	repo   repository.Repository
	logger *zap.Logger
}

// NewService creates the theme service.
func NewService(repo repository.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateTheme creates a theme for the user.
func (s *Service) CreateTheme(ctx context.Context, userID, title, description string) (*domain.Theme, error) {
	if title == "" {
		return nil, appErrors.NewValidation("title is required")
	}
	theme := domain.NewTheme(userID, title, description)
	if err := s.repo.CreateTheme(ctx, theme); err != nil {
		return nil, err
	}
	s.logger.Info("theme created", zap.String("themeId", theme.ID))
	return theme, nil
}

// GetTheme returns one theme.
func (s *Service) GetTheme(ctx context.Context, userID, themeID string) (*domain.Theme, error) {
	return s.loadTheme(ctx, userID, themeID)
}

// ListThemes returns the user's themes.
func (s *Service) ListThemes(ctx context.Context, userID string) ([]*domain.Theme, error) {
	return s.repo.ListThemes(ctx, userID)
}

// UpdateTheme renames or redescribes a theme.
func (s *Service) UpdateTheme(ctx context.Context, userID, themeID, title, description string) (*domain.Theme, error) {
	if title == "" {
		return nil, appErrors.NewValidation("title is required")
	}
	theme, err := s.loadTheme(ctx, userID, themeID)
	if err != nil {
		return nil, err
	}
	theme.Title = title
	theme.Description = description
	if err := s.repo.UpdateTheme(ctx, theme); err != nil {
		return nil, err
	}
	return theme, nil
}

// DeleteTheme removes a theme and everything under it: memos, interviews with
// their messages, articles with their history.
func (s *Service) DeleteTheme(ctx context.Context, userID, themeID string) error {
	if _, err := s.loadTheme(ctx, userID, themeID); err != nil {
		return err
	}
	if err := s.repo.DeleteTheme(ctx, userID, themeID); err != nil {
		return err
	}
	s.logger.Info("theme deleted", zap.String("themeId", themeID))
	return nil
}

// AddMemo attaches a thought fragment to a theme.
func (s *Service) AddMemo(ctx context.Context, userID, themeID, content string) (*domain.Memo, error) {
	if content == "" {
		return nil, appErrors.NewValidation("content is required")
	}
	if _, err := s.loadTheme(ctx, userID, themeID); err != nil {
		return nil, err
	}
	memo := domain.NewMemo(userID, themeID, content)
	if err := s.repo.CreateMemo(ctx, memo); err != nil {
		return nil, err
	}
	return memo, nil
}

// ListMemos returns a theme's memos in creation order.
func (s *Service) ListMemos(ctx context.Context, userID, themeID string) ([]*domain.Memo, error) {
	if _, err := s.loadTheme(ctx, userID, themeID); err != nil {
		return nil, err
	}
	return s.repo.ListMemosByTheme(ctx, userID, themeID)
}

// DeleteMemo removes one memo.
func (s *Service) DeleteMemo(ctx context.Context, userID, memoID string) error {
	return s.repo.DeleteMemo(ctx, userID, memoID)
}

// CreateStyleReference stores a prose sample. makeDefault also flags it as
// the user's default, clearing any previous one.
func (s *Service) CreateStyleReference(ctx context.Context, userID, label, content string, makeDefault bool) (*domain.StyleReference, error) {
	if label == "" {
		return nil, appErrors.NewValidation("label is required")
	}
	if content == "" {
		return nil, appErrors.NewValidation("content is required")
	}
	ref := domain.NewStyleReference(userID, label, content)
	if err := s.repo.CreateStyleReference(ctx, ref); err != nil {
		return nil, err
	}
	if makeDefault {
		if err := s.repo.SetDefaultStyleReference(ctx, userID, ref.ID); err != nil {
			return nil, err
		}
		ref.IsDefault = true
	}
	return ref, nil
}

// ListStyleReferences returns the user's style references.
func (s *Service) ListStyleReferences(ctx context.Context, userID string) ([]*domain.StyleReference, error) {
	return s.repo.ListStyleReferences(ctx, userID)
}

// SetDefaultStyleReference makes one reference the user's default.
func (s *Service) SetDefaultStyleReference(ctx context.Context, userID, refID string) error {
	ref, err := s.repo.FindStyleReferenceByID(ctx, userID, refID)
	if err != nil {
		return err
	}
	if ref == nil {
		return appErrors.NewNotFound("style reference not found")
	}
	return s.repo.SetDefaultStyleReference(ctx, userID, refID)
}

// DeleteStyleReference removes one style reference.
func (s *Service) DeleteStyleReference(ctx context.Context, userID, refID string) error {
	return s.repo.DeleteStyleReference(ctx, userID, refID)
}

func (s *Service) loadTheme(ctx context.Context, userID, themeID string) (*domain.Theme, error) {
	theme, err := s.repo.FindThemeByID(ctx, userID, themeID)
	if err != nil {
		return nil, err
	}
	if theme == nil {
		return nil, appErrors.NewNotFound("theme not found")
	}
	return theme, nil
}
