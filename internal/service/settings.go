package service

import (
	"anonask/internal/domain"
	"anonask/internal/repository"
)

// SettingsService reads and writes the admin-editable bot settings
type SettingsService struct {
	repo              repository.SettingsRepository
	defaultAuthorName string
	defaultAuthorInfo string
}

// NewSettingsService creates a settings service with fallback defaults
func NewSettingsService(repo repository.SettingsRepository, defaultName, defaultInfo string) *SettingsService {
	return &SettingsService{
		repo:              repo,
		defaultAuthorName: defaultName,
		defaultAuthorInfo: defaultInfo,
	}
}

// Get returns the current settings, falling back to defaults when unset
func (s *SettingsService) Get() (*domain.Settings, error) {
	name, err := s.repo.Get(domain.SettingAuthorName)
	if err != nil {
		return nil, err
	}
	info, err := s.repo.Get(domain.SettingAuthorInfo)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = s.defaultAuthorName
	}
	if info == "" {
		info = s.defaultAuthorInfo
	}

	return &domain.Settings{AuthorName: name, AuthorInfo: info}, nil
}

// Set stores the value for a known key; the value must already be validated
func (s *SettingsService) Set(key, value string) error {
	switch key {
	case domain.SettingAuthorName, domain.SettingAuthorInfo:
		return s.repo.Set(key, value)
	default:
		return domain.ErrUnknownSetting
	}
}
