package service

import (
	"context"
	"errors"

	"quizlink/internal/cache"
	"quizlink/internal/domain"
	"quizlink/internal/dto"
	"quizlink/internal/validation"
)

const defaultTheme = "light"

// PreferencesService stores small per-installation preferences.
type PreferencesService interface {
	GetTheme(ctx context.Context) (*dto.ThemeResponse, error)
	SetTheme(ctx context.Context, req dto.ThemeRequest) error
}

type preferencesServiceImpl struct {
	cacheService domain.Cache
	validator    *validation.Validator
}

// NewPreferencesService creates a new instance of PreferencesService.
func NewPreferencesService(cacheService domain.Cache) PreferencesService {
	return &preferencesServiceImpl{
		cacheService: cacheService,
		validator:    validation.NewValidator(),
	}
}

func (s *preferencesServiceImpl) GetTheme(ctx context.Context) (*dto.ThemeResponse, error) {
	theme, err := s.cacheService.Get(ctx, cache.KeyTheme)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return &dto.ThemeResponse{Theme: defaultTheme}, nil
		}
		return nil, domain.NewInternalError("failed to read theme", err)
	}
	return &dto.ThemeResponse{Theme: theme}, nil
}

func (s *preferencesServiceImpl) SetTheme(ctx context.Context, req dto.ThemeRequest) error {
	if errs := s.validator.ValidateTheme(req.Theme); errs.HasErrors() {
		return errs
	}
	if err := s.cacheService.Set(ctx, cache.KeyTheme, req.Theme, 0); err != nil {
		return domain.NewInternalError("failed to store theme", err)
	}
	return nil
}
