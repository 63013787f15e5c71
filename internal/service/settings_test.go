package service

import (
	"testing"

	"anonask/internal/domain"
	"anonask/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func TestSettingsService_Get_Defaults(t *testing.T) {
	mockRepo := new(testutil.MockSettingsRepository)
	mockRepo.On("Get", domain.SettingAuthorName).Return("", nil)
	mockRepo.On("Get", domain.SettingAuthorInfo).Return("", nil)

	service := NewSettingsService(mockRepo, "Автор канала", "Здесь можно задать анонимный вопрос")

	settings, err := service.Get()

	assert.NoError(t, err)
	assert.Equal(t, "Автор канала", settings.AuthorName)
	assert.Equal(t, "Здесь можно задать анонимный вопрос", settings.AuthorInfo)
}

func TestSettingsService_Get_Stored(t *testing.T) {
	mockRepo := new(testutil.MockSettingsRepository)
	mockRepo.On("Get", domain.SettingAuthorName).Return("Мария", nil)
	mockRepo.On("Get", domain.SettingAuthorInfo).Return("Канал о котах", nil)

	service := NewSettingsService(mockRepo, "Автор канала", "Здесь можно задать анонимный вопрос")

	settings, err := service.Get()

	assert.NoError(t, err)
	assert.Equal(t, "Мария", settings.AuthorName)
	assert.Equal(t, "Канал о котах", settings.AuthorInfo)
}

func TestSettingsService_Set(t *testing.T) {
	mockRepo := new(testutil.MockSettingsRepository)
	mockRepo.On("Set", domain.SettingAuthorName, "Мария").Return(nil)

	service := NewSettingsService(mockRepo, "a", "b")

	err := service.Set(domain.SettingAuthorName, "Мария")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestSettingsService_Set_UnknownKey(t *testing.T) {
	mockRepo := new(testutil.MockSettingsRepository)

	service := NewSettingsService(mockRepo, "a", "b")

	err := service.Set("bot_token", "secret")

	assert.ErrorIs(t, err, domain.ErrUnknownSetting)
	mockRepo.AssertNotCalled(t, "Set", "bot_token", "secret")
}
