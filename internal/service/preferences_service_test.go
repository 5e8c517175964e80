package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quizlink/internal/cache"
	"quizlink/internal/domain"
	"quizlink/internal/dto"
)

func TestPreferencesService_GetTheme_DefaultsToLight(t *testing.T) {
	cacheService := new(MockCache)
	svc := NewPreferencesService(cacheService)

	cacheService.On("Get", mock.Anything, cache.KeyTheme).Return("", domain.ErrCacheMiss)

	resp, err := svc.GetTheme(context.Background())

	assert.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "light", resp.Theme)
}

func TestPreferencesService_SetAndGetTheme(t *testing.T) {
	cacheService := new(MockCache)
	svc := NewPreferencesService(cacheService)

	cacheService.On("Set", mock.Anything, cache.KeyTheme, "dark", mock.Anything).Return(nil)
	cacheService.On("Get", mock.Anything, cache.KeyTheme).Return("dark", nil)

	assert.NoError(t, svc.SetTheme(context.Background(), dto.ThemeRequest{Theme: "dark"}))

	resp, err := svc.GetTheme(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "dark", resp.Theme)
	cacheService.AssertExpectations(t)
}

func TestPreferencesService_SetTheme_Invalid(t *testing.T) {
	cacheService := new(MockCache)
	svc := NewPreferencesService(cacheService)

	err := svc.SetTheme(context.Background(), dto.ThemeRequest{Theme: "solarized"})

	assert.Error(t, err)
	cacheService.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
